package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/analyzer"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/ports/primary"
)

// ErrClosed is returned when editing a closed session.
var ErrClosed = errors.New("editing session closed")

// Config configures an EditingSession.
type Config struct {
	Episodes primary.EpisodeService
	Episode  *narrative.Episode
	Delay    time.Duration
	Logger   *zap.Logger

	// OnSave, if set, is called after every save attempt with the saved
	// state and the save error.
	OnSave func(ep *narrative.Episode, err error)
}

// EditingSession owns one in-memory episode and saves its latest state after
// edits go quiet.
type EditingSession struct {
	ctx      context.Context
	episodes primary.EpisodeService
	logger   *zap.Logger
	onSave   func(*narrative.Episode, error)

	mu      sync.Mutex
	episode *narrative.Episode
	report  analyzer.Report
	lastErr error
	closed  bool

	debouncer *Debouncer
}

// NewEditingSession starts a session over a copy of cfg.Episode.
// ctx is used for every save the session performs.
func NewEditingSession(ctx context.Context, cfg Config) *EditingSession {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ep := cfg.Episode.Clone()
	if ep == nil {
		ep = narrative.NewEpisodeTemplate()
	}

	s := &EditingSession{
		ctx:      ctx,
		episodes: cfg.Episodes,
		logger:   logger,
		onSave:   cfg.OnSave,
		episode:  ep,
		report:   analyzer.Analyze(ep.Scenes),
	}
	s.debouncer = NewDebouncer(cfg.Delay, s.save)
	return s
}

// Update applies fn to a copy of the current episode, re-analyzes it and
// schedules a save. Returns the fresh analysis.
func (s *EditingSession) Update(fn func(ep *narrative.Episode)) (analyzer.Report, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return analyzer.Report{}, ErrClosed
	}
	next := s.episode.Clone()
	fn(next)
	s.episode = next
	s.report = analyzer.Analyze(next.Scenes)
	report := s.report
	s.mu.Unlock()

	s.debouncer.Trigger()
	return report, nil
}

// Replace swaps in a new episode wholesale and schedules a save.
func (s *EditingSession) Replace(ep *narrative.Episode) (analyzer.Report, error) {
	return s.Update(func(cur *narrative.Episode) {
		*cur = *ep.Clone()
	})
}

// Episode returns a copy of the current in-memory episode.
func (s *EditingSession) Episode() *narrative.Episode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.episode.Clone()
}

// Report returns the analysis of the current episode.
func (s *EditingSession) Report() analyzer.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// LastError returns the error from the most recent save, if any.
func (s *EditingSession) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Flush saves any pending edits now.
func (s *EditingSession) Flush() error {
	if !s.debouncer.Flush() {
		return nil
	}
	return s.LastError()
}

// Close flushes pending edits and stops the session.
func (s *EditingSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.Flush()
	s.debouncer.Stop()
	return err
}

func (s *EditingSession) save() {
	s.mu.Lock()
	ep := s.episode.Clone()
	s.mu.Unlock()

	_, err := s.episodes.SaveEpisode(s.ctx, ep)

	s.mu.Lock()
	s.lastErr = err
	// Only adopt the stamp if no edit landed while saving.
	if err == nil && s.episode.ID == ep.ID && !s.debouncer.Pending() {
		s.episode.LastModified = ep.LastModified
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("auto-save failed", zap.String("episode_id", ep.ID), zap.Error(err))
	} else {
		s.logger.Debug("auto-saved episode", zap.String("episode_id", ep.ID))
	}
	if s.onSave != nil {
		s.onSave(ep, err)
	}
}
