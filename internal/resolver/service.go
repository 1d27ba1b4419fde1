package resolver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
	"laundry_backend/internal/metrics"
	"laundry_backend/platform/apperr"
	"laundry_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// sharedCallTimeout bounds a reverse geocode that outlives its callers.
const sharedCallTimeout = 15 * time.Second

// Service runs the resolution pipeline against the geocoding provider.
// It keeps no results between calls.
type Service struct {
	provider   geocode.Provider
	classifier *Classifier
	log        *logger.Logger

	inflight singleflight.Group
	reported sync.Map // geocode.Status -> struct{}
}

// NewService creates the resolution service.
func NewService(provider geocode.Provider, store *gazetteer.Store, log *logger.Logger) *Service {
	return &Service{
		provider:   provider,
		classifier: NewClassifier(store),
		log:        log,
	}
}

// Resolve runs extraction, classification and assembly over a candidate list.
// It returns nil when the list is empty.
func (s *Service) Resolve(candidates []geocode.RawCandidate) *AddressComponents {
	if len(candidates) == 0 {
		return nil
	}

	estate, source := s.classifier.Classify(candidates)
	metrics.EstateClassifications.WithLabelValues(string(source)).Inc()

	return Assemble(candidates, estate, ResolveBuildingName(candidates))
}

// ResolveFromCoordinates reverse-geocodes a coordinate into a draft record.
// A nil record with a nil error means the provider found nothing and the
// caller should fall back to manual entry.
func (s *Service) ResolveFromCoordinates(ctx context.Context, lat, lng float64) (*AddressComponents, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	// Concurrent identical requests share one provider call; nothing is kept
	// once it returns. The shared call is detached from any single caller so
	// one caller giving up does not fail the others.
	key := fmt.Sprintf("%.6f,%.6f", lat, lng)
	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()

		candidates, err := s.provider.ReverseGeocode(callCtx, lat, lng)
		if err != nil {
			return nil, err
		}
		return s.Resolve(candidates), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, s.providerError("resolver.ResolveFromCoordinates", res.Err)
	}

	record, _ := res.Val.(*AddressComponents)
	return record.Clone(), nil
}

// ResolvePlace resolves a selected search prediction. Place details already
// disambiguate the location, so only the top reverse-geocode candidate is used.
func (s *Service) ResolvePlace(ctx context.Context, placeID string) (*AddressComponents, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, apperr.BadRequest("place id is required").WithOp("resolver.ResolvePlace")
	}

	place, err := s.provider.ResolvePlace(ctx, placeID)
	if err != nil {
		return nil, s.providerError("resolver.ResolvePlace", err)
	}

	candidates, err := s.provider.ReverseGeocode(ctx, place.Location.Lat, place.Location.Lng)
	if err != nil {
		return nil, s.providerError("resolver.ResolvePlace", err)
	}
	if len(candidates) > 1 {
		candidates = candidates[:1]
	}

	record := s.Resolve(candidates)
	if record == nil {
		return nil, nil
	}

	if place.FormattedAddress != "" {
		record.FullAddress = place.FormattedAddress
	}
	record.PlaceID = place.PlaceID
	record.Lat = place.Location.Lat
	record.Lng = place.Location.Lng
	return record, nil
}

// Search returns autocomplete predictions for query.
func (s *Service) Search(ctx context.Context, query string) ([]geocode.Prediction, error) {
	predictions, err := s.provider.SearchPlaces(ctx, query)
	if err != nil {
		return nil, s.providerError("resolver.Search", err)
	}
	return predictions, nil
}

// providerError maps provider failures to domain errors. Configuration-level
// failures are logged once per process and status.
func (s *Service) providerError(op string, err error) error {
	status := geocode.StatusOf(err)

	switch status {
	case geocode.StatusQuotaExceeded, geocode.StatusAuthError:
		if _, seen := s.reported.LoadOrStore(status, struct{}{}); !seen && s.log != nil {
			s.log.ProviderFailure(op, status.String(), err)
		}
		return apperr.Unavailable("address lookup is unavailable, please enter the address manually", err).WithOp(op)
	case geocode.StatusInvalidRequest:
		return apperr.Wrap(apperr.KindBadRequest, "invalid address lookup request", err).WithOp(op)
	default:
		if errors.Is(err, context.Canceled) {
			return err
		}
		return apperr.BadGateway("address lookup failed, please retry", err).WithOp(op)
	}
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return apperr.BadRequest("coordinates out of range").WithOp("resolver.ResolveFromCoordinates")
	}
	return nil
}
