package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"laundry_backend/internal/geocode"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/logger"

	"github.com/google/uuid"
)

// ErrSessionClosed is returned by actions on a closed session.
var ErrSessionClosed = errors.New("search session closed")

// SessionOptions configures a Session.
type SessionOptions struct {
	// ID identifies the session in the token store. A random id is used when
	// empty.
	ID       string
	Debounce time.Duration
	// OnResults receives every response that is still current. It runs on
	// the timer goroutine.
	OnResults func(Result)
	// OnError receives provider failures of current requests.
	OnError func(error)
	Logger  *logger.Logger
}

// Session debounces the keystrokes of one search box. Only the trailing
// query of a burst is sent, and a response is delivered only while it is
// the latest intent.
type Session struct {
	id       string
	service  *Service
	places   PlaceResolver
	debounce time.Duration
	onResult func(Result)
	onError  func(error)
	log      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timer  *time.Timer
	query  string
	epoch  uint64
	closed bool
}

// NewSession starts a session.
func NewSession(service *Service, places PlaceResolver, opts SessionOptions) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:       id,
		service:  service,
		places:   places,
		debounce: opts.Debounce,
		onResult: opts.OnResults,
		onError:  opts.OnError,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID returns the session id used for request tokens.
func (s *Session) ID() string { return s.id }

// Query returns the latest text passed to OnQueryChange.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// OnQueryChange records new text and restarts the debounce window. Text
// shorter than the minimum query length cancels the pending search, issues
// nothing and delivers an empty result so stale predictions are cleared.
func (s *Session) OnQueryChange(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.query = text
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) >= geocode.MinQueryLength {
		epoch := s.epoch
		s.timer = time.AfterFunc(s.debounce, func() { s.fire(epoch, text) })
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if s.onResult != nil {
		s.onResult(Result{Query: text, Predictions: []geocode.Prediction{}})
	}
}

func (s *Session) fire(epoch uint64, text string) {
	result, err := s.service.Search(s.ctx, s.id, text)

	s.mu.Lock()
	current := !s.closed && s.epoch == epoch
	s.mu.Unlock()

	switch {
	case errors.Is(err, resolver.ErrSuperseded), !current:
		return
	case err != nil:
		s.log.Warn("place search failed", "session", s.id, "error", err)
		if s.onError != nil {
			s.onError(err)
		}
	default:
		if s.onResult != nil {
			s.onResult(result)
		}
	}
}

// OnPredictionSelected cancels any pending search and resolves the selected
// prediction into an address record.
func (s *Session) OnPredictionSelected(ctx context.Context, prediction geocode.Prediction) (*resolver.AddressComponents, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.places.ResolvePlace(ctx, prediction.PlaceID)
}

// Close stops the pending timer and aborts in-flight requests.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cancel()
}
