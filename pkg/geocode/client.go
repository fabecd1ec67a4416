package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/chauffeurhq/tripflow/pkg/errors"
)

// DefaultHTTPTimeout bounds a single geocoding call.
const DefaultHTTPTimeout = 10 * time.Second

// Client is an HTTP Geocoder speaking the lookup-service wire format:
// GET {base}/geocode?query=...&region=...&key=... returning either a Place
// or {"verified": false}.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithAPIKey sets the API key sent as a query parameter.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates a geocoding client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookupResponse is the wire shape of a geocode reply. Verified defaults to
// true so that servers omitting the flag still yield usable places.
type lookupResponse struct {
	Verified         *bool   `json:"verified,omitempty"`
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PlaceID          string  `json:"placeId,omitempty"`
}

// Lookup implements the Geocoder interface.
func (c *Client) Lookup(ctx context.Context, req Request) (*Place, error) {
	if req.Query == "" {
		return nil, errors.NewValidationError("query", req.Query, "empty geocode query")
	}

	u, err := url.Parse(c.baseURL + "/geocode")
	if err != nil {
		return nil, errors.NewGeocodeError(req.Query, 0, "invalid base URL", err)
	}
	q := u.Query()
	q.Set("query", req.Query)
	if req.RegionBias != "" {
		q.Set("region", req.RegionBias)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewGeocodeError(req.Query, 0, "building request", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.NewGeocodeError(req.Query, 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewGeocodeError(req.Query, resp.StatusCode, "unexpected status", nil)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewGeocodeError(req.Query, resp.StatusCode, "decoding response", err)
	}

	if body.Verified != nil && !*body.Verified {
		return nil, errors.ErrNotVerified
	}
	if body.FormattedAddress == "" && body.Lat == 0 && body.Lng == 0 {
		return nil, errors.ErrNotVerified
	}

	return &Place{
		FormattedAddress: body.FormattedAddress,
		Lat:              body.Lat,
		Lng:              body.Lng,
		PlaceID:          body.PlaceID,
	}, nil
}
