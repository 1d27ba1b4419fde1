package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"laundry_backend/platform/logger"
)

type testGeocodeConfig struct {
	baseURL string
}

func (c testGeocodeConfig) GetMapsAPIKey() string              { return "test-key" }
func (c testGeocodeConfig) GetMapsBaseURL() string             { return c.baseURL }
func (c testGeocodeConfig) GetMapsCountry() string             { return "ke" }
func (c testGeocodeConfig) GetMapsLanguage() string            { return "en" }
func (c testGeocodeConfig) GetMapsTimeout() time.Duration      { return 2 * time.Second }
func (c testGeocodeConfig) GetMapsRequestsPerSecond() float64 { return 0 }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return New(testGeocodeConfig{baseURL: srv.URL}, logger.Discard()), &calls
}

const reversePayload = `{
  "status": "OK",
  "results": [
    {
      "place_id": "poi-1",
      "formatted_address": "Two Rivers Mall, Limuru Rd, Nairobi, Kenya",
      "types": ["establishment", "point_of_interest"],
      "address_components": [
        {"long_name": "Two Rivers Mall", "short_name": "Two Rivers Mall", "types": ["establishment", "point_of_interest"]},
        {"long_name": "Limuru Road", "short_name": "Limuru Rd", "types": ["route"]}
      ],
      "geometry": {"location": {"lat": -1.2113, "lng": 36.7951}}
    },
    {
      "place_id": "premise-1",
      "formatted_address": "Block C, Nairobi, Kenya",
      "types": ["premise"],
      "address_components": [
        {"long_name": "Block C", "short_name": "Block C", "types": ["premise"]}
      ],
      "geometry": {"location": {"lat": -1.2114, "lng": 36.7952}}
    }
  ]
}`

func TestReverseGeocodeParsesRankedCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != geocodePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("latlng"); got != "-1.2113,36.7951" {
			t.Errorf("unexpected latlng %q", got)
		}
		if got := r.URL.Query().Get("result_type"); !strings.Contains(got, "sublocality|neighborhood") {
			t.Errorf("expected neighborhood result types, got %q", got)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key to be sent")
		}
		_, _ = w.Write([]byte(reversePayload))
	})

	candidates, err := client.ReverseGeocode(context.Background(), -1.2113, 36.7951)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Rank != 0 || candidates[1].Rank != 1 {
		t.Fatalf("expected ranks 0,1 got %d,%d", candidates[0].Rank, candidates[1].Rank)
	}
	if !candidates[0].HasType("establishment") {
		t.Fatal("expected top candidate to be an establishment")
	}
	if candidates[0].Components[1].LongName != "Limuru Road" {
		t.Fatalf("unexpected component %q", candidates[0].Components[1].LongName)
	}
}

func TestReverseGeocodeZeroResultsIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	candidates, err := client.ReverseGeocode(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestProviderStatusClassification(t *testing.T) {
	cases := []struct {
		name     string
		httpCode int
		body     string
		want     Status
		sentinel error
	}{
		{"quota", http.StatusOK, `{"status":"OVER_QUERY_LIMIT"}`, StatusQuotaExceeded, ErrQuotaExceeded},
		{"denied", http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`, StatusAuthError, ErrAuth},
		{"invalid", http.StatusOK, `{"status":"INVALID_REQUEST"}`, StatusInvalidRequest, ErrInvalidRequest},
		{"unknown", http.StatusOK, `{"status":"UNKNOWN_ERROR"}`, StatusNetworkError, ErrNetwork},
		{"http 403", http.StatusForbidden, ``, StatusAuthError, ErrAuth},
		{"http 429", http.StatusTooManyRequests, ``, StatusQuotaExceeded, ErrQuotaExceeded},
		{"http 502", http.StatusBadGateway, ``, StatusNetworkError, ErrNetwork},
		{"garbage", http.StatusOK, `<html>`, StatusNetworkError, ErrNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.httpCode)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.ReverseGeocode(context.Background(), -1.28, 36.81)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			if got := StatusOf(err); got != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSearchPlacesShortQueryIssuesNoRequest(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[]}`))
	})

	for _, q := range []string{"", " ", "T", " T "} {
		predictions, err := client.SearchPlaces(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", q, err)
		}
		if len(predictions) != 0 {
			t.Fatalf("expected no predictions for %q", q)
		}
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Fatalf("expected zero requests, got %d", atomic.LoadInt32(calls))
	}
}

func TestSearchPlacesAppliesCountryFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("components"); got != "country:ke" {
			t.Errorf("expected country filter, got %q", got)
		}
		if got := r.URL.Query().Get("input"); got != "Tw" {
			t.Errorf("expected trimmed input, got %q", got)
		}
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[
			{"place_id":"p1","description":"Two Rivers Mall, Nairobi","structured_formatting":{"main_text":"Two Rivers Mall","secondary_text":"Limuru Road, Nairobi"}},
			{"place_id":"","description":"dropped"}
		]}`))
	})

	predictions, err := client.SearchPlaces(context.Background(), " Tw ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(predictions))
	}
	if predictions[0].PrimaryText != "Two Rivers Mall" || predictions[0].SecondaryText != "Limuru Road, Nairobi" {
		t.Fatalf("unexpected prediction %+v", predictions[0])
	}
}

func TestResolvePlace(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fields") != "geometry,formatted_address" {
			t.Errorf("unexpected fields %q", r.URL.Query().Get("fields"))
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":{"formatted_address":"Two Rivers Mall, Nairobi, Kenya","geometry":{"location":{"lat":-1.2113,"lng":36.7951}}}}`))
	})

	place, err := client.ResolvePlace(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Location.Lat != -1.2113 || place.Location.Lng != 36.7951 {
		t.Fatalf("unexpected location %+v", place.Location)
	}
	if place.FormattedAddress != "Two Rivers Mall, Nairobi, Kenya" {
		t.Fatalf("unexpected address %q", place.FormattedAddress)
	}
}

func TestResolvePlaceNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})

	_, err := client.ResolvePlace(context.Background(), "missing")
	if StatusOf(err) != StatusInvalidRequest {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestNetworkErrorWhenProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := New(testGeocodeConfig{baseURL: baseURL}, logger.Discard())
	_, err := client.ReverseGeocode(context.Background(), -1.28, 36.81)
	if StatusOf(err) != StatusNetworkError {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestCanceledCallerIsNotAProviderFailure(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	started := make(chan struct{}, 1)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.ReverseGeocode(ctx, -1.28, 36.81)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Fatal("expected cancellation not to be reported as a network error")
	}
}
