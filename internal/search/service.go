// Package search runs place search sessions: debounced autocomplete queries
// guarded by request tokens, and resolution of a selected prediction.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"laundry_backend/internal/geocode"
	"laundry_backend/internal/metrics"
	"laundry_backend/internal/requesttoken"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/logger"
)

// Searcher returns autocomplete predictions.
type Searcher interface {
	Search(ctx context.Context, query string) ([]geocode.Prediction, error)
}

// PlaceResolver turns a selected prediction into an address record.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (*resolver.AddressComponents, error)
}

// Result is one applied autocomplete response.
type Result struct {
	Token       uint64               `json:"token"`
	Query       string               `json:"query"`
	Predictions []geocode.Prediction `json:"predictions"`
}

// Service issues token-guarded searches for any number of sessions.
type Service struct {
	searcher Searcher
	tokens   requesttoken.Store
	log      *logger.Logger
}

// NewService creates the search service.
func NewService(searcher Searcher, tokens requesttoken.Store, log *logger.Logger) *Service {
	return &Service{searcher: searcher, tokens: tokens, log: log}
}

// Search runs query for session. A query shorter than the minimum returns
// no predictions without a token or provider call. If another search for
// the same session was issued while this one ran, it returns
// resolver.ErrSuperseded and the predictions must be dropped.
func (s *Service) Search(ctx context.Context, session, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < geocode.MinQueryLength {
		return Result{Query: query, Predictions: []geocode.Prediction{}}, nil
	}

	key := "search:" + session
	token, err := s.tokens.Next(ctx, key)
	if err != nil {
		return Result{}, err
	}

	predictions, err := s.searcher.Search(ctx, query)
	if err != nil {
		return Result{}, err
	}

	latest, err := s.tokens.Latest(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if latest != token {
		metrics.SupersededResponses.WithLabelValues("search").Inc()
		if s.log != nil {
			s.log.Debug("search response superseded", "session", session, "token", token, "latest", latest)
		}
		return Result{}, resolver.ErrSuperseded
	}

	return Result{Token: token, Query: query, Predictions: predictions}, nil
}
