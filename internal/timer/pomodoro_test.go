package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dev-Amann/AI-StudyBuddy/internal/timer"
)

func testConfig() timer.Config {
	return timer.Config{
		Work:                 25 * time.Minute,
		ShortBreak:           5 * time.Minute,
		LongBreak:            15 * time.Minute,
		SessionsPerLongBreak: 4,
	}
}

func TestTimerStartsPausedInWork(t *testing.T) {
	tm := timer.New(testConfig())
	require.Equal(t, timer.ModeWork, tm.Mode())
	require.False(t, tm.Running())
	require.Equal(t, 25*time.Minute, tm.Remaining(time.Now()))
}

func TestTimerMonotonicCountdown(t *testing.T) {
	tm := timer.New(testConfig())
	start := time.Now()
	require.NoError(t, tm.Start(start))
	require.True(t, tm.Running())

	require.Equal(t, 15*time.Minute, tm.Remaining(start.Add(10*time.Minute)))
	require.Equal(t, time.Duration(0), tm.Remaining(start.Add(30*time.Minute)))
}

func TestTimerPauseKeepsRemaining(t *testing.T) {
	tm := timer.New(testConfig())
	start := time.Now()
	require.NoError(t, tm.Start(start))
	require.NoError(t, tm.Pause(start.Add(10*time.Minute)))

	require.False(t, tm.Running())
	require.Equal(t, 15*time.Minute, tm.Remaining(start.Add(time.Hour)), "paused time does not tick")

	// Resuming picks up where it left off.
	resume := start.Add(2 * time.Hour)
	require.NoError(t, tm.Start(resume))
	require.Equal(t, 15*time.Minute, tm.Remaining(resume))
}

func TestTimerStartWhileRunningIsAnError(t *testing.T) {
	tm := timer.New(testConfig())
	require.NoError(t, tm.Start(time.Now()))
	require.Error(t, tm.Start(time.Now()))
}

func TestTimerPauseWhilePausedIsAnError(t *testing.T) {
	tm := timer.New(testConfig())
	require.Error(t, tm.Pause(time.Now()))
}

func TestTimerAdvanceFiresPhaseCompletion(t *testing.T) {
	tm := timer.New(testConfig())
	start := time.Now()
	require.NoError(t, tm.Start(start))

	finished, err := tm.Advance(start.Add(10 * time.Minute))
	require.NoError(t, err)
	require.False(t, finished, "deadline not reached yet")

	finished, err = tm.Advance(start.Add(25 * time.Minute))
	require.NoError(t, err)
	require.True(t, finished)
	require.Equal(t, timer.ModeShortBreak, tm.Mode())
	require.False(t, tm.Running(), "the next phase lands paused")
	require.Equal(t, 5*time.Minute, tm.Remaining(start.Add(25*time.Minute)))
	require.Equal(t, 1, tm.Completed())
}

func TestTimerLongBreakEveryFourthWork(t *testing.T) {
	tm := timer.New(testConfig())

	for i := 0; i < 3; i++ {
		require.Equal(t, timer.ModeWork, tm.Mode())
		require.NoError(t, tm.Skip())
		require.Equal(t, timer.ModeShortBreak, tm.Mode())
		require.NoError(t, tm.Skip())
	}

	require.Equal(t, timer.ModeWork, tm.Mode())
	require.NoError(t, tm.Skip())
	require.Equal(t, timer.ModeLongBreak, tm.Mode())
	require.Equal(t, 15*time.Minute, tm.Remaining(time.Now()))
	require.Equal(t, 4, tm.Completed())

	require.NoError(t, tm.Skip())
	require.Equal(t, timer.ModeWork, tm.Mode())
}

func TestTimerSkipWhileRunningLandsPaused(t *testing.T) {
	tm := timer.New(testConfig())
	require.NoError(t, tm.Start(time.Now()))
	require.NoError(t, tm.Skip())
	require.False(t, tm.Running())
	require.Equal(t, timer.ModeShortBreak, tm.Mode())
}

func TestTimerReset(t *testing.T) {
	tm := timer.New(testConfig())
	start := time.Now()
	require.NoError(t, tm.Start(start))
	require.NoError(t, tm.Pause(start.Add(10*time.Minute)))
	require.NoError(t, tm.Reset())

	require.False(t, tm.Running())
	require.Equal(t, timer.ModeWork, tm.Mode())
	require.Equal(t, 25*time.Minute, tm.Remaining(start.Add(10*time.Minute)))
}

func TestTimerResetWhileRunningStops(t *testing.T) {
	tm := timer.New(testConfig())
	start := time.Now()
	require.NoError(t, tm.Start(start))
	require.NoError(t, tm.Reset())
	require.False(t, tm.Running())
	require.Equal(t, 25*time.Minute, tm.Remaining(start.Add(time.Hour)))
}
