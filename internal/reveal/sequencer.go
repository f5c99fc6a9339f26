package reveal

import (
	"context"
	"sync"
	"time"

	"github.com/opencode-ai/brandkit/internal/logging"
	"github.com/rs/zerolog"
)

// Config contains sequencer timing.
type Config struct {
	// TypeTick is the interval between typed runes.
	// Default: 40 milliseconds.
	TypeTick time.Duration

	// TypePause is waited after the last rune of a typewriter step before
	// the step counts as complete.
	// Default: 500 milliseconds.
	TypePause time.Duration
}

// DefaultConfig returns the reference typing cadence.
func DefaultConfig() Config {
	return Config{
		TypeTick:  40 * time.Millisecond,
		TypePause: 500 * time.Millisecond,
	}
}

// Observer receives a snapshot after every mutation of a run.
type Observer func(State)

type runOptions struct {
	clock     Clock
	logger    zerolog.Logger
	observers []Observer
	typeTick  time.Duration
	typePause time.Duration
}

// Option customizes a single run.
type Option func(*runOptions)

// WithClock sets the timer source. Default: RealClock.
func WithClock(clock Clock) Option {
	return func(o *runOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithObserver registers fn to receive state snapshots.
func WithObserver(fn Observer) Option {
	return func(o *runOptions) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// Sequencer starts reveal runs with a shared timing configuration.
type Sequencer struct {
	config Config
	logger zerolog.Logger
}

// New creates a Sequencer. Non-positive timings fall back to defaults.
func New(config Config) *Sequencer {
	if config.TypeTick <= 0 {
		config.TypeTick = DefaultConfig().TypeTick
	}
	if config.TypePause < 0 {
		config.TypePause = DefaultConfig().TypePause
	}
	return &Sequencer{
		config: config,
		logger: logging.Component("reveal"),
	}
}

// Config returns the effective timing configuration.
func (s *Sequencer) Config() Config {
	return s.config
}

// Start validates script and begins running it. Invalid scripts return an
// error wrapping ErrInvalidScript and no handle.
func Start(script []Step, opts ...Option) (*Handle, error) {
	return New(DefaultConfig()).Start(script, opts...)
}

// Start validates script and begins running it from step 0.
func (s *Sequencer) Start(script []Step, opts ...Option) (*Handle, error) {
	if err := Validate(script); err != nil {
		return nil, err
	}

	o := runOptions{
		clock:     RealClock{},
		logger:    s.logger,
		typeTick:  s.config.TypeTick,
		typePause: s.config.TypePause,
	}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Handle{
		script:    append([]Step(nil), script...),
		clock:     o.clock,
		logger:    o.logger,
		observers: o.observers,
		typeTick:  o.typeTick,
		typePause: o.typePause,
		state:     newState(),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go h.dispatch()

	h.mu.Lock()
	h.state.Status = StatusRunning
	h.emitLocked()
	h.armLocked(h.script[0].Delay, h.beginStepLocked)
	h.mu.Unlock()

	h.logger.Debug().Int("steps", len(h.script)).Msg("reveal run started")
	return h, nil
}

// Handle observes and cancels one run. Only the run's own timers mutate its
// state; callers read snapshots.
type Handle struct {
	script    []Step
	clock     Clock
	logger    zerolog.Logger
	observers []Observer
	typeTick  time.Duration
	typePause time.Duration

	mu       sync.Mutex
	state    State
	timer    Timer
	timerGen uint64
	runes    []rune
	typed    int
	pending  []State

	wake chan struct{}
	done chan struct{}
}

// State returns a snapshot of the run.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.clone()
}

// Script returns a copy of the steps being run.
func (h *Handle) Script() []Step {
	return append([]Step(nil), h.script...)
}

// Done is closed once observers have received the completed or cancelled
// snapshot.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run reaches a terminal state or ctx ends. It must
// not be called from an Observer.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the run. Pending timers become no-ops. Calling Cancel more
// than once, or after completion, has no effect.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Status.Terminal() {
		return
	}

	h.state.Cancelled = true
	h.state.Status = StatusCancelled
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.timerGen++
	h.emitLocked()

	h.logger.Info().Int("step", h.state.CurrentStep).Msg("reveal run cancelled")
}

// armLocked schedules fn to run under h.mu after d. Only the most recently
// armed timer may fire; older generations are ignored.
func (h *Handle) armLocked(d time.Duration, fn func()) {
	h.timerGen++
	gen := h.timerGen
	h.timer = h.clock.AfterFunc(d, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		// Stop can race with a timer that already fired.
		if h.state.Cancelled || h.state.Status.Terminal() || gen != h.timerGen {
			return
		}
		h.timer = nil
		fn()
	})
}

func (h *Handle) beginStepLocked() {
	idx := h.state.CurrentStep + 1
	step := h.script[idx]
	h.state.CurrentStep = idx

	h.logger.Debug().
		Int("index", idx).
		Str("id", step.ID).
		Str("kind", string(step.Kind)).
		Msg("reveal step")

	switch step.Kind {
	case KindReveal:
		h.state.VisibleFlags[step.Payload] = struct{}{}
		h.emitLocked()
		h.nextLocked()

	case KindLoadingFlag:
		h.state.LoadingDone[step.Payload] = struct{}{}
		h.emitLocked()
		h.nextLocked()

	case KindTypewriter:
		h.runes = []rune(step.Payload)
		h.typed = 0
		h.state.TypedText[step.ID] = ""
		h.emitLocked()
		h.armLocked(h.typeTick, h.typeLocked)
	}
}

func (h *Handle) typeLocked() {
	step := h.script[h.state.CurrentStep]
	h.typed++
	h.state.TypedText[step.ID] = string(h.runes[:h.typed])
	h.emitLocked()

	if h.typed < len(h.runes) {
		h.armLocked(h.typeTick, h.typeLocked)
		return
	}
	h.armLocked(h.typePause, h.nextLocked)
}

// nextLocked arms the following step or completes the run.
func (h *Handle) nextLocked() {
	next := h.state.CurrentStep + 1
	if next < len(h.script) {
		h.armLocked(h.script[next].Delay, h.beginStepLocked)
		return
	}

	h.state.CurrentStep = len(h.script)
	h.state.Status = StatusCompleted
	h.emitLocked()
	h.logger.Debug().Int("steps", len(h.script)).Msg("reveal run completed")
}

func (h *Handle) emitLocked() {
	h.state.Version++
	h.pending = append(h.pending, h.state.clone())
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// dispatch delivers snapshots to observers in mutation order and exits
// after the terminal snapshot.
func (h *Handle) dispatch() {
	defer close(h.done)

	for range h.wake {
		h.mu.Lock()
		batch := h.pending
		h.pending = nil
		h.mu.Unlock()

		for _, snapshot := range batch {
			for _, observe := range h.observers {
				observe(snapshot)
			}
			if snapshot.Status.Terminal() {
				return
			}
		}
	}
}
