package reveal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testSequencer() *Sequencer {
	return New(Config{TypeTick: 40 * time.Millisecond, TypePause: 500 * time.Millisecond})
}

// recorder collects observer snapshots. Read it only after Done is closed.
type recorder struct {
	states []State
}

func (r *recorder) observe(s State) {
	r.states = append(r.states, s)
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not reach a terminal state")
	}
}

func start(t *testing.T, clock *ManualClock, script []Step, rec *recorder) *Handle {
	t.Helper()
	opts := []Option{WithClock(clock), WithLogger(zerolog.Nop())}
	if rec != nil {
		opts = append(opts, WithObserver(rec.observe))
	}
	h, err := testSequencer().Start(script, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		h.Cancel()
		<-h.Done()
	})
	return h
}

func TestStartRejectsInvalidScripts(t *testing.T) {
	tests := []struct {
		name   string
		script []Step
	}{
		{"empty", nil},
		{"negative delay", []Step{{ID: "a", Kind: KindReveal, Delay: -time.Millisecond, Payload: "x"}}},
		{"missing payload", []Step{{ID: "a", Kind: KindTypewriter, Payload: ""}}},
		{"missing id", []Step{{Kind: KindReveal, Payload: "x"}}},
		{"duplicate id", []Step{
			{ID: "a", Kind: KindReveal, Payload: "x"},
			{ID: "a", Kind: KindReveal, Payload: "y"},
		}},
		{"unknown kind", []Step{{ID: "a", Kind: "explode", Payload: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Start(tt.script)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidScript), "expected ErrInvalidScript, got %v", err)
			require.Nil(t, h)
		})
	}
}

func TestScenarioRevealThenTypewriter(t *testing.T) {
	clock := NewManualClock(epoch)
	script := []Step{
		{ID: "a", Kind: KindReveal, Delay: 1000 * time.Millisecond, Payload: "welcome"},
		{ID: "b", Kind: KindTypewriter, Delay: 500 * time.Millisecond, Payload: "Hi"},
	}
	h := start(t, clock, script, nil)

	// pre-run: the handle is running but no step has fired
	s := h.State()
	require.Equal(t, StatusRunning, s.Status)
	require.Equal(t, -1, s.CurrentStep)
	require.Empty(t, s.VisibleFlags)
	require.Empty(t, s.TypedText)

	clock.Advance(999 * time.Millisecond)
	require.False(t, h.State().Visible("welcome"))

	clock.Advance(time.Millisecond)
	s = h.State()
	require.True(t, s.Visible("welcome"))
	require.Equal(t, 0, s.CurrentStep)

	clock.Advance(500 * time.Millisecond)
	s = h.State()
	require.Equal(t, 1, s.CurrentStep)
	typed, ok := s.Typed("b")
	require.True(t, ok)
	require.Equal(t, "", typed)

	clock.Advance(40 * time.Millisecond)
	typed, _ = h.State().Typed("b")
	require.Equal(t, "H", typed)

	clock.Advance(40 * time.Millisecond)
	s = h.State()
	typed, _ = s.Typed("b")
	require.Equal(t, "Hi", typed)
	require.Equal(t, StatusRunning, s.Status)

	clock.Advance(500 * time.Millisecond)
	s = h.State()
	require.Equal(t, StatusCompleted, s.Status)
	require.Equal(t, 2, s.CurrentStep)
	require.False(t, s.Cancelled)
	waitDone(t, h)
}

func TestMonotonicProgress(t *testing.T) {
	clock := NewManualClock(epoch)
	script := []Step{
		{ID: "s0", Kind: KindReveal, Delay: 100 * time.Millisecond, Payload: "bubble.0"},
		{ID: "s1", Kind: KindLoadingFlag, Delay: 0, Payload: "panel.core"},
		{ID: "s2", Kind: KindTypewriter, Delay: 250 * time.Millisecond, Payload: "abc"},
		{ID: "s3", Kind: KindReveal, Delay: 0, Payload: "bubble.1"},
		{ID: "s4", Kind: KindLoadingFlag, Delay: 3 * time.Second, Payload: "panel.voice"},
	}
	rec := &recorder{}
	h := start(t, clock, script, rec)

	clock.Advance(time.Minute)
	waitDone(t, h)

	var visited []int
	last := -1
	for _, s := range rec.states {
		require.GreaterOrEqual(t, s.CurrentStep, last, "step index decreased")
		require.LessOrEqual(t, s.CurrentStep-last, 1, "step index skipped")
		if s.CurrentStep != last {
			visited = append(visited, s.CurrentStep)
			last = s.CurrentStep
		}
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, visited)

	final := rec.states[len(rec.states)-1]
	require.Equal(t, StatusCompleted, final.Status)
	require.True(t, final.Visible("bubble.0"))
	require.True(t, final.Visible("bubble.1"))
	require.True(t, final.Loaded("panel.core"))
	require.True(t, final.Loaded("panel.voice"))
	require.False(t, final.Visible("panel.core"))

	for i := 1; i < len(rec.states); i++ {
		require.Equal(t, rec.states[i-1].Version+1, rec.states[i].Version)
	}
}

func TestTypewriterPrefixChain(t *testing.T) {
	tests := []struct {
		payload string
		want    []string
	}{
		{"ABC", []string{"", "A", "AB", "ABC"}},
		{"né✓", []string{"", "n", "né", "né✓"}},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			clock := NewManualClock(epoch)
			rec := &recorder{}
			h := start(t, clock, []Step{{ID: "t", Kind: KindTypewriter, Payload: tt.payload}}, rec)

			clock.Advance(time.Minute)
			waitDone(t, h)

			var seen []string
			for _, s := range rec.states {
				text, ok := s.Typed("t")
				if !ok {
					continue
				}
				if len(seen) == 0 || seen[len(seen)-1] != text {
					seen = append(seen, text)
				}
			}
			require.Equal(t, tt.want, seen)
		})
	}
}

func TestTypewriterPausesBeforeNextStep(t *testing.T) {
	clock := NewManualClock(epoch)
	script := []Step{
		{ID: "t", Kind: KindTypewriter, Payload: "ok"},
		{ID: "r", Kind: KindReveal, Delay: 100 * time.Millisecond, Payload: "after"},
	}
	h := start(t, clock, script, nil)

	// two ticks type the payload, then the pause and the next delay elapse
	clock.Advance(80 * time.Millisecond)
	typed, _ := h.State().Typed("t")
	require.Equal(t, "ok", typed)

	clock.Advance(599 * time.Millisecond)
	require.False(t, h.State().Visible("after"))

	clock.Advance(time.Millisecond)
	require.True(t, h.State().Visible("after"))
}

func TestCancelStopsAllMutation(t *testing.T) {
	script := []Step{
		{ID: "a", Kind: KindReveal, Delay: 100 * time.Millisecond, Payload: "welcome"},
		{ID: "b", Kind: KindTypewriter, Delay: 100 * time.Millisecond, Payload: "hello"},
		{ID: "c", Kind: KindLoadingFlag, Delay: 100 * time.Millisecond, Payload: "panel.core"},
		{ID: "d", Kind: KindReveal, Delay: 100 * time.Millisecond, Payload: "done"},
		{ID: "e", Kind: KindTypewriter, Delay: 100 * time.Millisecond, Payload: "bye"},
	}

	for cut := 0; cut <= len(script); cut++ {
		clock := NewManualClock(epoch)
		h := start(t, clock, script, nil)

		for h.State().CurrentStep < cut && !h.State().Status.Terminal() {
			clock.Advance(10 * time.Millisecond)
		}

		h.Cancel()
		before := h.State()
		require.Zero(t, clock.Pending(), "cut %d: timer still pending after cancel", cut)

		clock.Advance(time.Hour)
		after := h.State()
		if diff := cmp.Diff(before, after); diff != "" {
			t.Fatalf("cut %d: state changed after cancel (-before +after):\n%s", cut, diff)
		}

		if cut < len(script) {
			require.Equal(t, StatusCancelled, after.Status)
			require.True(t, after.Cancelled)
			require.Equal(t, cut, after.CurrentStep)
		} else {
			require.Equal(t, StatusCompleted, after.Status)
		}
	}
}

func TestCancelAfterInstantLastStepKeepsCompleted(t *testing.T) {
	clock := NewManualClock(epoch)
	h := start(t, clock, []Step{
		{ID: "a", Kind: KindTypewriter, Payload: "hi"},
		{ID: "b", Kind: KindReveal, Delay: 100 * time.Millisecond, Payload: "done"},
	}, nil)

	for !h.State().Status.Terminal() {
		clock.Advance(10 * time.Millisecond)
	}
	h.Cancel()

	s := h.State()
	require.Equal(t, StatusCompleted, s.Status)
	require.False(t, s.Cancelled)
	require.Equal(t, 2, s.CurrentStep)
	require.True(t, s.Visible("done"))
	waitDone(t, h)
}

func TestCancelMidTypewriterKeepsPartialText(t *testing.T) {
	clock := NewManualClock(epoch)
	h := start(t, clock, []Step{{ID: "t", Kind: KindTypewriter, Payload: "abcdef"}}, nil)

	clock.Advance(120 * time.Millisecond)
	h.Cancel()
	clock.Advance(time.Hour)

	typed, ok := h.State().Typed("t")
	require.True(t, ok)
	require.Equal(t, "abc", typed)
}

func TestCancelIsIdempotent(t *testing.T) {
	clock := NewManualClock(epoch)
	rec := &recorder{}
	h := start(t, clock, []Step{
		{ID: "a", Kind: KindReveal, Delay: 10 * time.Millisecond, Payload: "x"},
		{ID: "b", Kind: KindReveal, Delay: 10 * time.Millisecond, Payload: "y"},
	}, rec)

	clock.Advance(10 * time.Millisecond)
	h.Cancel()
	once := h.State()
	h.Cancel()
	twice := h.State()
	waitDone(t, h)

	require.Empty(t, cmp.Diff(once, twice))

	cancelled := 0
	for _, s := range rec.states {
		if s.Status == StatusCancelled {
			cancelled++
		}
	}
	require.Equal(t, 1, cancelled)
}

// leakyClock never stops timers, so callbacks fire after Cancel as they
// would when Stop races a timer that is already running.
type leakyClock struct {
	*ManualClock
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c leakyClock) AfterFunc(d time.Duration, f func()) Timer {
	c.ManualClock.AfterFunc(d, f)
	return leakyTimer{}
}

func TestLateTimerAfterCancelIsNoop(t *testing.T) {
	clock := leakyClock{NewManualClock(epoch)}
	h, err := testSequencer().Start([]Step{
		{ID: "a", Kind: KindReveal, Delay: 50 * time.Millisecond, Payload: "x"},
		{ID: "b", Kind: KindTypewriter, Delay: 50 * time.Millisecond, Payload: "abc"},
	}, WithClock(clock), WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	clock.Advance(50 * time.Millisecond)
	h.Cancel()
	before := h.State()
	require.Equal(t, 1, clock.Pending())

	clock.Advance(time.Hour)
	require.Empty(t, cmp.Diff(before, h.State()))
	waitDone(t, h)
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	clock := NewManualClock(epoch)
	h := start(t, clock, []Step{
		{ID: "a", Kind: KindReveal, Payload: "x"},
		{ID: "b", Kind: KindReveal, Delay: time.Second, Payload: "y"},
	}, nil)

	clock.Advance(0)
	snap := h.State()
	snap.VisibleFlags["injected"] = struct{}{}
	require.False(t, h.State().Visible("injected"))
}

func TestZeroDelayStepsStillRunInOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	rec := &recorder{}
	h := start(t, clock, []Step{
		{ID: "a", Kind: KindReveal, Payload: "first"},
		{ID: "b", Kind: KindReveal, Payload: "second"},
		{ID: "c", Kind: KindLoadingFlag, Payload: "panel"},
	}, rec)

	require.Equal(t, -1, h.State().CurrentStep)
	clock.Advance(0)
	waitDone(t, h)

	var order []string
	prev := State{VisibleFlags: map[string]struct{}{}, LoadingDone: map[string]struct{}{}}
	for _, s := range rec.states {
		for flag := range s.VisibleFlags {
			if !prev.Visible(flag) {
				order = append(order, flag)
			}
		}
		for flag := range s.LoadingDone {
			if !prev.Loaded(flag) {
				order = append(order, flag)
			}
		}
		prev = s
	}
	require.Equal(t, []string{"first", "second", "panel"}, order)
}

func TestRealClockRunsToCompletion(t *testing.T) {
	seq := New(Config{TypeTick: time.Millisecond, TypePause: time.Millisecond})
	h, err := seq.Start([]Step{
		{ID: "a", Kind: KindReveal, Delay: time.Millisecond, Payload: "x"},
		{ID: "b", Kind: KindTypewriter, Delay: time.Millisecond, Payload: "go"},
	}, WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Wait(ctx))

	s := h.State()
	require.Equal(t, StatusCompleted, s.Status)
	typed, _ := s.Typed("b")
	require.Equal(t, "go", typed)
}

func TestWaitReturnsContextError(t *testing.T) {
	h, err := testSequencer().Start([]Step{
		{ID: "a", Kind: KindReveal, Delay: time.Hour, Payload: "x"},
	}, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer func() {
		h.Cancel()
		<-h.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, h.Wait(ctx), context.DeadlineExceeded)
}

func TestNewAppliesDefaults(t *testing.T) {
	seq := New(Config{})
	require.Equal(t, DefaultConfig().TypeTick, seq.Config().TypeTick)
	require.Equal(t, time.Duration(0), seq.Config().TypePause)

	seq = New(Config{TypePause: -1})
	require.Equal(t, DefaultConfig().TypePause, seq.Config().TypePause)
}

func TestStateAccessorsOnSnapshot(t *testing.T) {
	s := newState()
	s.VisibleFlags["a"] = struct{}{}
	s.TypedText["t"] = "hi"

	require.True(t, s.Visible("a"))
	require.False(t, s.Loaded("a"))
	text, ok := s.Typed("t")
	require.True(t, ok)
	require.Equal(t, "hi", text)

	clone := s.clone()
	require.Empty(t, cmp.Diff(s, clone, cmpopts.EquateEmpty()))
}

func TestManualClockNextDeadline(t *testing.T) {
	clock := NewManualClock(epoch)
	_, ok := clock.NextDeadline()
	require.False(t, ok)

	fired := 0
	clock.AfterFunc(300*time.Millisecond, func() { fired++ })
	stopped := clock.AfterFunc(100*time.Millisecond, func() { fired++ })
	clock.AfterFunc(200*time.Millisecond, func() { fired++ })

	next, ok := clock.NextDeadline()
	require.True(t, ok)
	require.Equal(t, epoch.Add(100*time.Millisecond), next)

	require.True(t, stopped.Stop())
	next, _ = clock.NextDeadline()
	require.Equal(t, epoch.Add(200*time.Millisecond), next)

	clock.Advance(next.Sub(clock.Now()))
	require.Equal(t, 1, fired)
	require.Equal(t, 1, clock.Pending())
}
