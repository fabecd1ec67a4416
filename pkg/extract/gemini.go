package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	pkgerrors "github.com/chauffeurhq/tripflow/pkg/errors"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

const systemPrompt = `You convert free-form chauffeur trip update messages into JSON.
Output a single JSON object with only the fields the message explicitly mentions:
date (YYYY-MM-DD), leadPassengerName, vehicleInfo, passengerCount,
tripDestination, driverNotes, locations, removedLocations.
Each locations entry may carry: location, fullAddress, time (HH:MM), purpose,
flightNumber, flightDirection, insertAfter, insertBefore.
removedLocations is a list of keywords naming stops to remove.
Omit everything the message does not mention. Never guess coordinates.`

// Gemini is an Extractor backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// GeminiOption configures a Gemini extractor.
type GeminiOption func(*Gemini)

// WithModel overrides the Gemini model.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) { g.model = model }
}

// NewGemini creates a Gemini-backed extractor.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, pkgerrors.ErrAPIKeyRequired
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, &pkgerrors.ExtractionError{Message: "creating Gemini client", Err: err}
	}

	g := &Gemini{client: client, model: DefaultGeminiModel}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Extract implements the Extractor interface.
func (g *Gemini) Extract(ctx context.Context, text string, current *trip.Trip) (*trip.ExtractedUpdate, error) {
	if text == "" {
		return &trip.ExtractedUpdate{}, nil
	}

	prompt, err := buildPrompt(text, current)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return nil, &pkgerrors.ExtractionError{Model: g.model, Message: "generate call failed", Err: err}
	}

	raw := resp.Text()
	if raw == "" {
		return nil, &pkgerrors.ExtractionError{Model: g.model, Message: "empty response"}
	}

	update, err := Decode([]byte(raw))
	if err != nil {
		return nil, &pkgerrors.ExtractionError{Model: g.model, Message: "undecodable response", Err: err}
	}
	return update, nil
}

// buildPrompt renders the update text together with the current itinerary so
// the model can resolve references like "the hotel stop".
func buildPrompt(text string, current *trip.Trip) (string, error) {
	if current == nil {
		return "Update message:\n" + text, nil
	}

	stops := make([]map[string]string, 0, len(current.Waypoints))
	for _, w := range current.Waypoints {
		stops = append(stops, map[string]string{
			"name":    w.Name,
			"address": w.Address(),
			"time":    w.Time,
			"purpose": w.Purpose,
		})
	}
	itinerary, err := json.Marshal(stops)
	if err != nil {
		return "", &pkgerrors.ExtractionError{Message: "encoding itinerary context", Err: err}
	}

	return fmt.Sprintf("Current itinerary (pickup first, dropoff last):\n%s\n\nUpdate message:\n%s", itinerary, text), nil
}
