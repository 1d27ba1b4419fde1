// Package geocode provides the HTTP client for the reverse-geocoding,
// autocomplete and place-details endpoints of the maps provider.
// The client returns raw, unvalidated candidates; classification of the
// results happens in the resolver package.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"laundry_backend/internal/metrics"
	"laundry_backend/platform/config"
	"laundry_backend/platform/logger"

	"golang.org/x/time/rate"
)

const (
	geocodePath      = "/geocode/json"
	autocompletePath = "/place/autocomplete/json"
	placeDetailsPath = "/place/details/json"

	// MinQueryLength is the shortest trimmed query sent to autocomplete.
	MinQueryLength = 2

	opReverseGeocode = "reverse_geocode"
	opSearchPlaces   = "search_places"
	opResolvePlace   = "resolve_place"
)

// reverseResultTypes gives the classifiers enough candidates to disambiguate.
var reverseResultTypes = []string{
	"street_address",
	"establishment",
	"point_of_interest",
	"premise",
	"subpremise",
	"route",
	"sublocality",
	"neighborhood",
	"locality",
	"administrative_area_level_1",
	"administrative_area_level_2",
}

// Provider is the contract the resolver and search session depend on.
type Provider interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]RawCandidate, error)
	SearchPlaces(ctx context.Context, query string) ([]Prediction, error)
	ResolvePlace(ctx context.Context, placeID string) (Place, error)
}

// Client is the HTTP client for the maps provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	country    string
	language   string
	limiter    *rate.Limiter
	log        *logger.Logger
}

var _ Provider = (*Client)(nil)

// New creates a provider client from configuration.
func New(cfg config.GeocodeConfig, log *logger.Logger) *Client {
	limit := rate.Inf
	if rps := cfg.GetMapsRequestsPerSecond(); rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetMapsTimeout()},
		baseURL:    strings.TrimRight(cfg.GetMapsBaseURL(), "/"),
		apiKey:     cfg.GetMapsAPIKey(),
		country:    cfg.GetMapsCountry(),
		language:   cfg.GetMapsLanguage(),
		limiter:    rate.NewLimiter(limit, 5),
		log:        log,
	}
}

// ReverseGeocode returns the ranked candidates for a coordinate. An empty
// slice with a nil error means the provider found nothing.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (candidates []RawCandidate, err error) {
	start := time.Now()
	defer func() { c.observe(opReverseGeocode, start, err, len(candidates) == 0) }()

	params := url.Values{}
	params.Set("latlng", formatCoordinate(lat)+","+formatCoordinate(lng))
	params.Set("result_type", strings.Join(reverseResultTypes, "|"))

	var payload apiGeocodeResponse
	if err := c.get(ctx, opReverseGeocode, geocodePath, params, &payload); err != nil {
		return nil, err
	}
	if err := c.checkStatus(opReverseGeocode, payload.Status, payload.ErrorMessage); err != nil {
		return nil, err
	}

	candidates = make([]RawCandidate, 0, len(payload.Results))
	for i, result := range payload.Results {
		candidates = append(candidates, result.toCandidate(i))
	}
	return candidates, nil
}

// SearchPlaces returns autocomplete predictions restricted to the configured
// country. Queries shorter than MinQueryLength return no predictions and
// issue no request.
func (c *Client) SearchPlaces(ctx context.Context, query string) (predictions []Prediction, err error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Prediction{}, nil
	}

	start := time.Now()
	defer func() { c.observe(opSearchPlaces, start, err, len(predictions) == 0) }()

	params := url.Values{}
	params.Set("input", query)
	if c.country != "" {
		params.Set("components", "country:"+c.country)
	}

	var payload apiAutocompleteResponse
	if err := c.get(ctx, opSearchPlaces, autocompletePath, params, &payload); err != nil {
		return nil, err
	}
	if err := c.checkStatus(opSearchPlaces, payload.Status, payload.ErrorMessage); err != nil {
		return nil, err
	}

	predictions = make([]Prediction, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		if p.PlaceID == "" {
			continue
		}
		predictions = append(predictions, p.toPrediction())
	}
	return predictions, nil
}

// ResolvePlace fetches the coordinates and formatted address of a place.
// A place the provider does not know yields ErrInvalidRequest.
func (c *Client) ResolvePlace(ctx context.Context, placeID string) (place Place, err error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return Place{}, &ProviderError{Op: opResolvePlace, Err: ErrInvalidRequest, Message: "place id is required"}
	}

	start := time.Now()
	defer func() { c.observe(opResolvePlace, start, err, false) }()

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "geometry,formatted_address")

	var payload apiPlaceDetailsResponse
	if err := c.get(ctx, opResolvePlace, placeDetailsPath, params, &payload); err != nil {
		return Place{}, err
	}
	if err := c.checkStatus(opResolvePlace, payload.Status, payload.ErrorMessage); err != nil {
		return Place{}, err
	}
	if payload.Status != "OK" {
		return Place{}, &ProviderError{Op: opResolvePlace, ProviderStatus: payload.Status, Err: ErrInvalidRequest, Message: "place not found"}
	}

	return Place{
		PlaceID:          placeID,
		FormattedAddress: payload.Result.FormattedAddress,
		Location: Location{
			Lat: payload.Result.Geometry.Location.Lat,
			Lng: payload.Result.Geometry.Location.Lng,
		},
	}, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := canceled(ctx); ctxErr != nil {
			return ctxErr
		}
		return &ProviderError{Op: op, Err: ErrNetwork, Message: err.Error()}
	}

	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &ProviderError{Op: op, Err: ErrInvalidRequest, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := canceled(ctx); ctxErr != nil {
			return ctxErr
		}
		return &ProviderError{Op: op, Err: ErrNetwork, Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := classifyHTTPStatus(resp.StatusCode); err != nil {
		return &ProviderError{Op: op, ProviderStatus: strconv.Itoa(resp.StatusCode), Err: err}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Op: op, Err: ErrNetwork, Message: "decode response: " + err.Error()}
	}
	return nil
}

func (c *Client) checkStatus(op, status, message string) error {
	if err := classifyProviderStatus(status); err != nil {
		return &ProviderError{Op: op, ProviderStatus: status, Message: message, Err: err}
	}
	return nil
}

func (c *Client) observe(op string, start time.Time, err error, empty bool) {
	if errors.Is(err, context.Canceled) {
		metrics.ProviderRequests.WithLabelValues(op, "canceled").Inc()
		return
	}

	status := StatusOf(err)
	if err == nil && empty {
		status = StatusNoResults
	}

	metrics.ProviderRequests.WithLabelValues(op, status.String()).Inc()
	metrics.ProviderLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	// Quota and credential failures are reported once by the resolver service.
	if err != nil && !status.Fatal() && c.log != nil {
		c.log.ProviderFailure(op, status.String(), err)
	}
}

// canceled returns the caller's cancellation unwrapped so callers can tell
// it apart from a provider failure. Deadlines still count as network errors.
func canceled(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
