package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"laundry_backend/internal/requesttoken"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/logger"
)

func TestServiceSupersededResponse(t *testing.T) {
	gate := make(chan struct{})
	searcher := &recordingSearcher{gates: map[string]chan struct{}{"Tw": gate}}
	svc := NewService(searcher, requesttoken.NewMemory(time.Minute), logger.Discard())

	stale := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), "s1", "Tw")
		stale <- err
	}()
	waitForCalls(t, searcher, 1)

	latest, err := svc.Search(context.Background(), "s1", "Two")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Token != 2 || len(latest.Predictions) != 1 {
		t.Fatalf("unexpected result %+v", latest)
	}

	close(gate)
	if err := <-stale; !errors.Is(err, resolver.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
}

func TestServiceSessionsAreIndependent(t *testing.T) {
	svc := NewService(&recordingSearcher{}, requesttoken.NewMemory(time.Minute), logger.Discard())

	a, err := svc.Search(context.Background(), "a", "Kilimani")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Search(context.Background(), "b", "Kilimani")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Token != 1 || b.Token != 1 {
		t.Fatalf("expected per-session tokens, got %d and %d", a.Token, b.Token)
	}
}

func TestServiceShortQuery(t *testing.T) {
	searcher := &recordingSearcher{}
	svc := NewService(searcher, requesttoken.NewMemory(time.Minute), logger.Discard())

	result, err := svc.Search(context.Background(), "s1", " T ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Predictions == nil || len(result.Predictions) != 0 || result.Token != 0 {
		t.Fatalf("expected empty result without a token, got %+v", result)
	}
	if len(searcher.calls()) != 0 {
		t.Fatal("expected no provider call")
	}
}
