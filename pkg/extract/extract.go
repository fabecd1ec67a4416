// Package extract defines the text-extraction collaborator boundary: turning
// free-form update text ("skip the hotel stop", "pickup moved to 6am") into a
// structured ExtractedUpdate proposal. The reconciliation engine never calls
// this package; callers extract first and reconcile second.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/chauffeurhq/tripflow/pkg/errors"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// Extractor converts raw update text into a structured proposal. The current
// trip is provided as context so the extractor can reference existing stop
// names; implementations must never invent fields the text does not mention.
type Extractor interface {
	Extract(ctx context.Context, text string, current *trip.Trip) (*trip.ExtractedUpdate, error)
}

// Decode parses extractor output into an ExtractedUpdate, tolerating
// missing and null fields for every key and driverNotes as either a string
// or a list of strings. Markdown code fences around the JSON are stripped,
// since LLM collaborators love them.
func Decode(data []byte) (*trip.ExtractedUpdate, error) {
	data = stripFences(data)

	var update trip.ExtractedUpdate
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&update); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return &update, nil
}

// stripFences removes a surrounding ```json ... ``` block, if present.
func stripFences(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return data
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
