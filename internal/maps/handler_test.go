package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"laundry_backend/internal/geocode"
	"laundry_backend/internal/requesttoken"
	"laundry_backend/internal/resolver"
	"laundry_backend/internal/search"
	"laundry_backend/platform/apperr"
	"laundry_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type stubResolver struct {
	record *resolver.AddressComponents
	err    error
}

func (s stubResolver) ResolveFromCoordinates(context.Context, float64, float64) (*resolver.AddressComponents, error) {
	return s.record, s.err
}

func (s stubResolver) ResolvePlace(_ context.Context, placeID string) (*resolver.AddressComponents, error) {
	if s.record == nil {
		return nil, s.err
	}
	r := *s.record
	r.PlaceID = placeID
	return &r, s.err
}

func (s stubResolver) Search(_ context.Context, query string) ([]geocode.Prediction, error) {
	return []geocode.Prediction{{PlaceID: "p1", PrimaryText: query}}, s.err
}

func newTestEngine(stub stubResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := requesttoken.NewMemory(time.Minute)
	h := NewHandler(resolver.NewTracker(stub, tokens), stub, search.NewService(stub, tokens, logger.Discard()))

	engine := gin.New()
	engine.GET("/maps/reverse", h.Reverse)
	engine.GET("/maps/autocomplete", h.Autocomplete)
	engine.GET("/maps/places/:placeId", h.Place)
	return engine
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestReverseReturnsRecord(t *testing.T) {
	engine := newTestEngine(stubResolver{record: &resolver.AddressComponents{Estate: "Kilimani", FullAddress: "Kilimani, Nairobi, Kenya"}})

	w := get(engine, "/maps/reverse?lat=-1.2925&lng=36.7876&session=s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got resolver.AddressComponents
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Estate != "Kilimani" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestReverseNoResultsAsksForManualEntry(t *testing.T) {
	engine := newTestEngine(stubResolver{})

	w := get(engine, "/maps/reverse?lat=0&lng=0")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != msgManualEntry {
		t.Fatalf("unexpected message %q", body["error"])
	}
}

func TestReverseRequiresCoordinates(t *testing.T) {
	engine := newTestEngine(stubResolver{})
	if w := get(engine, "/maps/reverse?lat=1"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReverseMapsProviderFailure(t *testing.T) {
	engine := newTestEngine(stubResolver{err: apperr.New(apperr.KindUnavailable, "address lookup is unavailable")})
	if w := get(engine, "/maps/reverse?lat=1&lng=2"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestReverseTransientFailureIsRetryable(t *testing.T) {
	engine := newTestEngine(stubResolver{err: apperr.BadGateway("address lookup failed, please retry", context.DeadlineExceeded)})

	w := get(engine, "/maps/reverse?lat=1&lng=2")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestReverseCanceledByClientIsNotAServerError(t *testing.T) {
	engine := newTestEngine(stubResolver{err: context.Canceled})

	if w := get(engine, "/maps/reverse?lat=1&lng=2"); w.Code != 499 {
		t.Fatalf("expected 499, got %d", w.Code)
	}
}

func TestAutocomplete(t *testing.T) {
	engine := newTestEngine(stubResolver{})

	w := get(engine, "/maps/autocomplete?q=Tw&session=s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AutocompleteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != 1 || len(resp.Predictions) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}

	w = get(engine, "/maps/autocomplete?q=T&session=s1")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || len(resp.Predictions) != 0 {
		t.Fatalf("expected empty predictions for a short query, got %d %s", w.Code, w.Body.String())
	}

	if w := get(engine, "/maps/autocomplete?q=Tw"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a session, got %d", w.Code)
	}
}

func TestPlace(t *testing.T) {
	engine := newTestEngine(stubResolver{record: &resolver.AddressComponents{FullAddress: "Two Rivers Mall, Nairobi, Kenya"}})

	w := get(engine, "/maps/places/ChIJ-two-rivers")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got resolver.AddressComponents
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.PlaceID != "ChIJ-two-rivers" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
