package gazetteer

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"laundry_backend/internal/metrics"
	"laundry_backend/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// Store hands out the current gazetteer and swaps it atomically on reload.
// Readers always see a complete data set.
type Store struct {
	current atomic.Pointer[Gazetteer]
	path    string
	log     *logger.Logger
}

// NewStore loads path, or the embedded default when path is empty.
func NewStore(path string, log *logger.Logger) (*Store, error) {
	s := &Store{path: path, log: log}

	g := Default()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		g = loaded
	}
	s.current.Store(g)
	return s, nil
}

// NewStaticStore wraps a fixed gazetteer. Used by tests and the CLI.
func NewStaticStore(g *Gazetteer) *Store {
	s := &Store{}
	s.current.Store(g)
	return s
}

// Current returns the active gazetteer.
func (s *Store) Current() *Gazetteer {
	return s.current.Load()
}

// Reload re-reads the backing file. A file that fails to parse leaves the
// previous data set in place.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	g, err := LoadFile(s.path)
	if err != nil {
		metrics.GazetteerReloads.WithLabelValues("error").Inc()
		return err
	}
	s.current.Store(g)
	metrics.GazetteerReloads.WithLabelValues("ok").Inc()
	return nil
}

// Watch reloads the gazetteer whenever its file is written or replaced, until
// ctx is done. The parent directory is watched so editors that write via
// rename are picked up.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	target := filepath.Clean(s.path)
	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := s.Reload(); err != nil {
					s.logWarn("gazetteer reload failed", "path", s.path, "error", err)
					continue
				}
				s.logInfo("gazetteer reloaded", "path", s.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logWarn("gazetteer watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (s *Store) logInfo(msg string, args ...any) {
	if s.log != nil {
		s.log.Info(msg, args...)
	}
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.log != nil {
		s.log.Warn(msg, args...)
	}
}
