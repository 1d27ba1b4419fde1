package resolver

import (
	"context"
	"errors"

	"laundry_backend/internal/metrics"
	"laundry_backend/internal/requesttoken"
)

// ErrSuperseded is returned for a response whose request was overtaken by a
// newer one. The caller must not apply it.
var ErrSuperseded = errors.New("resolver: superseded by a newer request")

// CoordinateResolver is the consumer entry point of the pipeline.
type CoordinateResolver interface {
	ResolveFromCoordinates(ctx context.Context, lat, lng float64) (*AddressComponents, error)
}

// Tracker serializes map-drag resolution per session: every settle issues a
// token and only the response of the latest token is delivered. Last intent
// wins, not last response.
type Tracker struct {
	resolver CoordinateResolver
	tokens   requesttoken.Store
}

// NewTracker creates a tracker.
func NewTracker(resolver CoordinateResolver, tokens requesttoken.Store) *Tracker {
	return &Tracker{resolver: resolver, tokens: tokens}
}

// Resolve resolves the coordinate unless a newer Resolve call for the same
// session starts before this one finishes, in which case it returns
// ErrSuperseded.
func (t *Tracker) Resolve(ctx context.Context, session string, lat, lng float64) (*AddressComponents, error) {
	key := "reverse:" + session

	token, err := t.tokens.Next(ctx, key)
	if err != nil {
		return nil, err
	}

	record, err := t.resolver.ResolveFromCoordinates(ctx, lat, lng)

	latest, tokenErr := t.tokens.Latest(ctx, key)
	if tokenErr != nil {
		return nil, tokenErr
	}
	if latest != token {
		metrics.SupersededResponses.WithLabelValues("reverse").Inc()
		return nil, ErrSuperseded
	}
	return record, err
}
