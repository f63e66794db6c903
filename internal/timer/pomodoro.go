// Package timer implements the pomodoro countdown as an explicit finite
// state machine over (mode x running/paused). The countdown is monotonic:
// remaining time derives from a deadline captured at start, never from
// render ticks.
package timer

import (
	"context"
	"time"

	"github.com/qmuntal/stateless"
)

// Mode is the current pomodoro phase.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// FSM states
type fsmState stateless.State

var (
	stateWorkPaused        fsmState = "WorkPaused"
	stateWorkRunning       fsmState = "WorkRunning"
	stateShortBreakPaused  fsmState = "ShortBreakPaused"
	stateShortBreakRunning fsmState = "ShortBreakRunning"
	stateLongBreakPaused   fsmState = "LongBreakPaused"
	stateLongBreakRunning  fsmState = "LongBreakRunning"
)

// FSM triggers
type fsmTrigger stateless.Trigger

var (
	triggerStart  fsmTrigger = "Start"
	triggerPause  fsmTrigger = "Pause"
	triggerReset  fsmTrigger = "Reset"
	triggerFinish fsmTrigger = "Finish" // countdown reached zero
	triggerSkip   fsmTrigger = "Skip"   // user jumps to the next phase
)

// Config holds the phase durations.
type Config struct {
	Work                 time.Duration
	ShortBreak           time.Duration
	LongBreak            time.Duration
	SessionsPerLongBreak int
}

// DefaultConfig is the classic 25/5/15 split with a long break every fourth
// work session.
func DefaultConfig() Config {
	return Config{
		Work:                 25 * time.Minute,
		ShortBreak:           5 * time.Minute,
		LongBreak:            15 * time.Minute,
		SessionsPerLongBreak: 4,
	}
}

// Timer is a single pomodoro timer. It is not safe for concurrent use; it
// belongs to one UI loop.
type Timer struct {
	fsm *stateless.StateMachine
	cfg Config

	remaining time.Duration // authoritative while paused
	deadline  time.Time     // authoritative while running
	completed int           // finished or skipped work phases
}

// New creates a timer paused at the start of a work phase.
func New(cfg Config) *Timer {
	if cfg.SessionsPerLongBreak <= 0 {
		cfg.SessionsPerLongBreak = 4
	}
	t := &Timer{cfg: cfg, remaining: cfg.Work}

	fsm := stateless.NewStateMachine(stateWorkPaused)
	pairs := []struct {
		paused, running fsmState
	}{
		{stateWorkPaused, stateWorkRunning},
		{stateShortBreakPaused, stateShortBreakRunning},
		{stateLongBreakPaused, stateLongBreakRunning},
	}
	for _, p := range pairs {
		fsm.Configure(p.paused).
			Permit(triggerStart, p.running).
			PermitReentry(triggerReset).
			PermitDynamic(triggerSkip, t.nextPhase)
		fsm.Configure(p.running).
			Permit(triggerPause, p.paused).
			Permit(triggerReset, p.paused).
			PermitDynamic(triggerFinish, t.nextPhase).
			PermitDynamic(triggerSkip, t.nextPhase)
	}
	t.fsm = fsm
	return t
}

// nextPhase picks the state after a finished or skipped phase and loads its
// duration. Completing a work phase counts toward the long-break cadence;
// the next phase always lands paused.
func (t *Timer) nextPhase(_ context.Context, _ ...any) (stateless.State, error) {
	if t.Mode() == ModeWork {
		t.completed++
		if t.completed%t.cfg.SessionsPerLongBreak == 0 {
			t.remaining = t.cfg.LongBreak
			return stateLongBreakPaused, nil
		}
		t.remaining = t.cfg.ShortBreak
		return stateShortBreakPaused, nil
	}
	t.remaining = t.cfg.Work
	return stateWorkPaused, nil
}

// Mode returns the current phase.
func (t *Timer) Mode() Mode {
	switch t.fsm.MustState() {
	case stateShortBreakPaused, stateShortBreakRunning:
		return ModeShortBreak
	case stateLongBreakPaused, stateLongBreakRunning:
		return ModeLongBreak
	default:
		return ModeWork
	}
}

// Running reports whether the countdown is live.
func (t *Timer) Running() bool {
	switch t.fsm.MustState() {
	case stateWorkRunning, stateShortBreakRunning, stateLongBreakRunning:
		return true
	}
	return false
}

// Completed returns the number of work phases finished or skipped so far.
func (t *Timer) Completed() int { return t.completed }

// Start begins or resumes the countdown.
func (t *Timer) Start(now time.Time) error {
	if err := t.fsm.Fire(triggerStart); err != nil {
		return err
	}
	t.deadline = now.Add(t.remaining)
	return nil
}

// Pause freezes the countdown, keeping the remaining time.
func (t *Timer) Pause(now time.Time) error {
	remaining := t.deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	if err := t.fsm.Fire(triggerPause); err != nil {
		return err
	}
	t.remaining = remaining
	return nil
}

// Reset stops the countdown and restores the full duration of the current
// phase.
func (t *Timer) Reset() error {
	if err := t.fsm.Fire(triggerReset); err != nil {
		return err
	}
	t.remaining = t.durationOf(t.Mode())
	return nil
}

// Skip jumps to the next phase, paused. Skipping a work phase still counts
// it toward the long-break cadence.
func (t *Timer) Skip() error {
	return t.fsm.Fire(triggerSkip)
}

// Advance fires the phase transition if a running countdown has passed its
// deadline, and reports whether it did.
func (t *Timer) Advance(now time.Time) (bool, error) {
	if !t.Running() || now.Before(t.deadline) {
		return false, nil
	}
	if err := t.fsm.Fire(triggerFinish); err != nil {
		return false, err
	}
	return true, nil
}

// Remaining returns the time left in the current phase.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.Running() {
		if left := t.deadline.Sub(now); left > 0 {
			return left
		}
		return 0
	}
	return t.remaining
}

func (t *Timer) durationOf(m Mode) time.Duration {
	switch m {
	case ModeShortBreak:
		return t.cfg.ShortBreak
	case ModeLongBreak:
		return t.cfg.LongBreak
	default:
		return t.cfg.Work
	}
}
