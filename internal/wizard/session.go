package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opencode-ai/brandkit/internal/events"
	"github.com/opencode-ai/brandkit/internal/logging"
	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/scripts"
	"github.com/rs/zerolog"
)

// Session errors.
var (
	ErrAlreadyStarted = errors.New("wizard session already started")
	ErrNotStarted     = errors.New("wizard session not started")
	ErrNotCompleted   = errors.New("wizard run has not completed")
	ErrAlreadySaved   = errors.New("brand pack already saved")
	ErrCancelled      = errors.New("wizard session cancelled")
)

// BrandStore persists generated brand packs.
type BrandStore interface {
	Create(ctx context.Context, pack *models.BrandPack) error
}

// SessionConfig wires a Session.
type SessionConfig struct {
	Script    *scripts.Rendered
	Brief     Brief
	Generator *Generator

	// Sequencer defaults to reveal.New(reveal.DefaultConfig()).
	Sequencer *reveal.Sequencer
	// Clock defaults to reveal.RealClock.
	Clock reveal.Clock

	// Brands and Events are optional; without Brands, Save fails.
	Brands BrandStore
	Events events.Repository
}

// Session is one playthrough of a wizard script.
type Session struct {
	id        string
	script    *scripts.Rendered
	brief     Brief
	draft     *models.BrandPack
	sequencer *reveal.Sequencer
	clock     reveal.Clock
	brands    BrandStore
	events    events.Repository
	logger    zerolog.Logger

	updates chan reveal.State
	done    chan struct{}

	mu        sync.Mutex
	handle    *reveal.Handle
	cancelled bool
	started   time.Time
	saved     *models.BrandPack
}

// NewSession validates cfg and drafts the brand pack the run will reveal.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Script == nil || len(cfg.Script.Steps) == 0 {
		return nil, fmt.Errorf("wizard script is required")
	}
	if cfg.Generator == nil {
		cfg.Generator = NewGenerator(models.DefaultExpertConfig())
	}
	if cfg.Sequencer == nil {
		cfg.Sequencer = reveal.New(reveal.DefaultConfig())
	}
	if cfg.Clock == nil {
		cfg.Clock = reveal.RealClock{}
	}

	draft, err := cfg.Generator.Draft(cfg.Brief)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:        uuid.New().String(),
		script:    cfg.Script,
		brief:     cfg.Brief,
		draft:     draft,
		sequencer: cfg.Sequencer,
		clock:     cfg.Clock,
		brands:    cfg.Brands,
		events:    cfg.Events,
		logger:    logging.Component("wizard"),
		updates:   make(chan reveal.State, 1),
		done:      make(chan struct{}),
	}, nil
}

// ID identifies the run in the event log.
func (s *Session) ID() string { return s.id }

// Script returns the rendered script being played.
func (s *Session) Script() *scripts.Rendered { return s.script }

// Brief returns the user's request.
func (s *Session) Brief() Brief { return s.brief }

// Draft returns the generated brand pack. Callers must not modify it.
func (s *Session) Draft() *models.BrandPack { return s.draft }

// Start begins the run. Cancelling ctx cancels the run.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return ErrAlreadyStarted
	}
	if s.cancelled {
		return ErrCancelled
	}

	handle, err := s.sequencer.Start(s.script.Steps,
		reveal.WithClock(s.clock),
		reveal.WithObserver(s.publish),
		reveal.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to start wizard: %w", err)
	}
	s.handle = handle
	s.started = s.clock.Now()

	s.logEvent(ctx, func(ctx context.Context) error {
		return events.LogWizardStarted(ctx, s.events, s.id, models.WizardStartedPayload{
			Script:   s.script.Name,
			Brand:    s.brief.Brand,
			Industry: s.brief.Industry,
			Steps:    len(s.script.Steps),
		})
	})
	s.logger.Info().
		Str("run", s.id).
		Str("script", s.script.Name).
		Str("brand", s.brief.Brand).
		Msg("wizard started")

	go s.watch(ctx, handle)
	return nil
}

// Started reports whether Start has succeeded.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Updates delivers state snapshots. Only the latest undelivered snapshot is
// kept; the channel is closed after the terminal snapshot.
func (s *Session) Updates() <-chan reveal.State {
	return s.updates
}

// Done is closed once the run has ended and its events are recorded.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the current run snapshot.
func (s *Session) State() reveal.State {
	s.mu.Lock()
	handle := s.handle
	cancelled := s.cancelled
	s.mu.Unlock()
	switch {
	case handle != nil:
		return handle.State()
	case cancelled:
		return reveal.State{CurrentStep: -1, Status: reveal.StatusCancelled, Cancelled: true}
	default:
		return reveal.State{CurrentStep: -1, Status: reveal.StatusIdle}
	}
}

// Cancel stops the run. It is safe to call at any time; a session cancelled
// before Start never starts.
func (s *Session) Cancel() {
	s.mu.Lock()
	handle := s.handle
	s.cancelled = true
	s.mu.Unlock()
	if handle != nil {
		handle.Cancel()
	}
}

// Save stores the draft once the run has completed.
func (s *Session) Save(ctx context.Context) (*models.BrandPack, error) {
	if s.State().Status != reveal.StatusCompleted {
		return nil, ErrNotCompleted
	}
	if s.brands == nil {
		return nil, fmt.Errorf("no brand store configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved != nil {
		return s.saved, ErrAlreadySaved
	}

	pack := *s.draft
	if err := s.brands.Create(ctx, &pack); err != nil {
		return nil, fmt.Errorf("failed to save brand pack: %w", err)
	}
	s.saved = &pack

	s.logEvent(ctx, func(ctx context.Context) error {
		return events.LogBrandPackCreated(ctx, s.events, &pack)
	})
	s.logger.Info().Str("run", s.id).Str("brand_pack", pack.ID).Msg("brand pack saved")
	return &pack, nil
}

// publish runs on the sequencer's dispatcher.
func (s *Session) publish(state reveal.State) {
	for {
		select {
		case s.updates <- state:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

func (s *Session) watch(ctx context.Context, handle *reveal.Handle) {
	defer close(s.done)

	select {
	case <-handle.Done():
	case <-ctx.Done():
		handle.Cancel()
		<-handle.Done()
	}
	close(s.updates)

	state := handle.State()
	payload := models.WizardFinishedPayload{
		Script:      s.script.Name,
		StepReached: state.CurrentStep,
		Steps:       len(s.script.Steps),
		Duration:    s.clock.Now().Sub(s.started).String(),
	}

	logCtx := context.WithoutCancel(ctx)
	switch state.Status {
	case reveal.StatusCompleted:
		s.logEvent(logCtx, func(ctx context.Context) error {
			return events.LogWizardCompleted(ctx, s.events, s.id, payload)
		})
		s.logger.Info().Str("run", s.id).Msg("wizard completed")
	case reveal.StatusCancelled:
		s.logEvent(logCtx, func(ctx context.Context) error {
			return events.LogWizardCancelled(ctx, s.events, s.id, payload)
		})
		s.logger.Info().Str("run", s.id).Int("step", state.CurrentStep).Msg("wizard cancelled")
	}
}

// logEvent records an event when a repository is configured. Failures are
// logged and otherwise ignored.
func (s *Session) logEvent(ctx context.Context, write func(context.Context) error) {
	if s.events == nil {
		return
	}
	if err := write(ctx); err != nil {
		s.logger.Warn().Err(err).Str("run", s.id).Msg("failed to record wizard event")
	}
}
