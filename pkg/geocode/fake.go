package geocode

import (
	"context"
	"strings"
	"sync"

	"github.com/chauffeurhq/tripflow/pkg/errors"
)

// Fake is an in-memory Geocoder for tests. Queries match a configured place
// when the place key occurs in the query, case-insensitively.
type Fake struct {
	mu     sync.Mutex
	places map[string]Place
	err    error
	calls  []Request
}

// NewFake creates a fake geocoder with the given keyed places.
func NewFake(places map[string]Place) *Fake {
	return &Fake{places: places}
}

// Fail makes every lookup return err.
func (f *Fake) Fail(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// Calls returns the requests seen so far.
func (f *Fake) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// Lookup implements the Geocoder interface.
func (f *Fake) Lookup(ctx context.Context, req Request) (*Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	if f.err != nil {
		return nil, f.err
	}

	query := strings.ToLower(req.Query)
	for key, place := range f.places {
		if strings.Contains(query, strings.ToLower(key)) {
			out := place
			return &out, nil
		}
	}
	return nil, errors.ErrNotVerified
}
