package reader

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuiread/internal/words"
)

type armCall struct {
	gen uint64
	d   time.Duration
}

type fakeScheduler struct {
	calls []armCall
	err   error
}

func (f *fakeScheduler) Arm(gen uint64, d time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, armCall{gen: gen, d: d})
	return nil
}

func (f *fakeScheduler) last(t *testing.T) armCall {
	t.Helper()
	require.NotEmpty(t, f.calls, "expected an armed tick")
	return f.calls[len(f.calls)-1]
}

func newReader(t *testing.T, text string, resume, wpm int) (*Reader, *fakeScheduler) {
	t.Helper()
	seq, err := words.Split(text)
	require.NoError(t, err)
	sched := &fakeScheduler{}
	r, err := New(seq, resume, wpm, sched)
	require.NoError(t, err)
	return r, sched
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_Validation(t *testing.T) {
	seq, err := words.Split("a b c")
	require.NoError(t, err)

	_, err = New(seq, 3, 300, &fakeScheduler{})
	assert.Error(t, err, "resume past the end")
	_, err = New(seq, -1, 300, &fakeScheduler{})
	assert.Error(t, err, "negative resume")
	_, err = New(seq, 0, 0, &fakeScheduler{})
	assert.Error(t, err, "zero wpm")
	_, err = New(seq, 0, 300, nil)
	assert.Error(t, err, "nil scheduler")
	_, err = New(words.Sequence{}, 0, 300, &fakeScheduler{})
	assert.ErrorIs(t, err, words.ErrEmpty)

	r, err := New(seq, 2, MaxWPM*2, &fakeScheduler{})
	require.NoError(t, err)
	assert.Equal(t, MaxWPM, r.WPM())
	assert.Equal(t, 2, r.Cursor())
}

func TestStart_ArmsInitialDwell(t *testing.T) {
	r, sched := newReader(t, "The quick fox jumps.", 0, 300)
	require.NoError(t, r.Start())

	assert.Equal(t, Running, r.State())
	assert.Equal(t, "The", r.Word())
	assert.Equal(t, 1000*time.Millisecond, sched.last(t).d)
	assert.True(t, r.Armed())
}

// =============================================================================
// Ticks
// =============================================================================

func TestTick_AdvancesAndRearms(t *testing.T) {
	r, sched := newReader(t, "The quick fox jumps.", 0, 300)
	require.NoError(t, r.Start())
	first := sched.last(t)

	moved, err := r.Tick(first.gen)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 1, r.Cursor())
	assert.Equal(t, "quick", r.Word())

	next := sched.last(t)
	assert.NotEqual(t, first.gen, next.gen)
	assert.Equal(t, 200*time.Millisecond, next.d)
}

func TestTick_StaleGenerationIgnored(t *testing.T) {
	r, sched := newReader(t, "a b c d", 0, 300)
	require.NoError(t, r.Start())
	stale := sched.last(t).gen
	require.NoError(t, r.ChangeSpeed(Faster))

	moved, err := r.Tick(stale)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 0, r.Cursor())

	moved, err = r.Tick(0)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestTick_IgnoredWhilePaused(t *testing.T) {
	r, sched := newReader(t, "a b c d", 0, 300)
	require.NoError(t, r.Start())
	gen := sched.last(t).gen
	require.NoError(t, r.TogglePause())

	moved, err := r.Tick(gen)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 0, r.Cursor())
	assert.False(t, r.Armed())
}

func TestTick_StopsAtLastWord(t *testing.T) {
	r, sched := newReader(t, "a b", 0, 300)
	require.NoError(t, r.Start())

	moved, err := r.Tick(sched.last(t).gen)
	require.NoError(t, err)
	require.True(t, moved)

	calls := len(sched.calls)
	moved, err = r.Tick(sched.last(t).gen)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 1, r.Cursor())
	assert.Len(t, sched.calls, calls, "no tick armed past the last word")
	assert.False(t, r.Armed())
}

func TestTick_PunctuationDwell(t *testing.T) {
	r, sched := newReader(t, "fox jumps.", 0, 600)
	require.NoError(t, r.Start())

	_, err := r.Tick(sched.last(t).gen)
	require.NoError(t, err)
	assert.Equal(t, "jumps.", r.Word())
	assert.Equal(t, 200*time.Millisecond, sched.last(t).d)
}

// =============================================================================
// Pause
// =============================================================================

func TestTogglePause_Twice(t *testing.T) {
	r, sched := newReader(t, "The quick fox jumps.", 1, 420)
	require.NoError(t, r.Start())

	require.NoError(t, r.TogglePause())
	assert.Equal(t, Paused, r.State())
	assert.True(t, r.Paused())

	require.NoError(t, r.TogglePause())
	assert.Equal(t, Running, r.State())
	assert.Equal(t, 1, r.Cursor())
	assert.Equal(t, 420, r.WPM())

	resumed := sched.last(t)
	// round(60000/420 * 5) = round(714.28)
	assert.Equal(t, 714*time.Millisecond, resumed.d)
	assert.True(t, r.Armed())
}

func TestTogglePause_ResumeUsesInitialDwell(t *testing.T) {
	r, sched := newReader(t, "one two,", 1, 300)
	require.NoError(t, r.TogglePause())
	require.NoError(t, r.TogglePause())
	// 200ms base, x1.5 clause, x5 initial.
	assert.Equal(t, 1500*time.Millisecond, sched.last(t).d)
}

// =============================================================================
// Navigation
// =============================================================================

func TestRetreat_OnlyWhilePaused(t *testing.T) {
	r, _ := newReader(t, "a b c", 2, 300)
	assert.False(t, r.Retreat())
	assert.Equal(t, 2, r.Cursor())

	require.NoError(t, r.TogglePause())
	assert.True(t, r.Retreat())
	assert.Equal(t, 1, r.Cursor())
}

func TestRetreat_ClampsAtZero(t *testing.T) {
	r, _ := newReader(t, "a b c", 0, 300)
	require.NoError(t, r.TogglePause())
	assert.True(t, r.Retreat())
	assert.Equal(t, 0, r.Cursor())
}

func TestStep_ClampsAtEnd(t *testing.T) {
	r, _ := newReader(t, "a b c", 2, 300)
	require.NoError(t, r.TogglePause())
	require.NoError(t, r.Step())
	assert.Equal(t, 2, r.Cursor())
}

func TestStep_PausedHasNoTimerEffect(t *testing.T) {
	r, sched := newReader(t, "The quick fox jumps.", 1, 300)
	require.NoError(t, r.TogglePause())
	before := len(sched.calls)

	require.NoError(t, r.Step())
	assert.Equal(t, 2, r.Cursor())
	assert.Equal(t, "fox", r.Word())
	assert.Len(t, sched.calls, before)
	assert.False(t, r.Armed())
}

func TestStep_RunningRearms(t *testing.T) {
	r, sched := newReader(t, "a b. c", 0, 300)
	require.NoError(t, r.Start())
	first := sched.last(t)

	require.NoError(t, r.Step())
	next := sched.last(t)
	assert.NotEqual(t, first.gen, next.gen)
	assert.Equal(t, 400*time.Millisecond, next.d)
}

// =============================================================================
// Speed
// =============================================================================

func TestChangeSpeed(t *testing.T) {
	r, _ := newReader(t, "a b", 0, 300)
	require.NoError(t, r.TogglePause())

	require.NoError(t, r.ChangeSpeed(Faster))
	assert.Equal(t, 330, r.WPM())
	require.NoError(t, r.ChangeSpeed(Slower))
	assert.Equal(t, 300, r.WPM())
	require.NoError(t, r.ChangeSpeed(Slower))
	assert.Equal(t, 273, r.WPM())
}

func TestChangeSpeed_Floor(t *testing.T) {
	r, _ := newReader(t, "a b", 0, 2)
	require.NoError(t, r.TogglePause())
	for i := 0; i < 5; i++ {
		require.NoError(t, r.ChangeSpeed(Slower))
	}
	assert.Equal(t, MinWPM, r.WPM())

	require.NoError(t, r.ChangeSpeed(Faster))
	assert.Equal(t, 2, r.WPM(), "faster always moves off the floor")
}

func TestChangeSpeed_Ceiling(t *testing.T) {
	r, _ := newReader(t, "a b", 0, MaxWPM-1)
	require.NoError(t, r.TogglePause())
	require.NoError(t, r.ChangeSpeed(Faster))
	assert.Equal(t, MaxWPM, r.WPM())
	require.NoError(t, r.ChangeSpeed(Faster))
	assert.Equal(t, MaxWPM, r.WPM())
}

func TestChangeSpeed_FasterThenSlowerRoundTrips(t *testing.T) {
	for _, wpm := range []int{1, 2, 3, 4, 5, 9, 10, 11, 99, 100, 250, 300, 301, 999, 5000} {
		r, _ := newReader(t, "a b", 0, wpm)
		require.NoError(t, r.TogglePause())
		require.NoError(t, r.ChangeSpeed(Faster))
		require.NoError(t, r.ChangeSpeed(Slower))
		assert.InDelta(t, wpm, r.WPM(), 1, "wpm=%d", wpm)
	}
}

func TestChangeSpeed_RunningRearmsCurrentWord(t *testing.T) {
	r, sched := newReader(t, "a b", 0, 300)
	require.NoError(t, r.Start())
	before := sched.last(t)

	require.NoError(t, r.ChangeSpeed(Faster))
	after := sched.last(t)
	assert.Greater(t, after.gen, before.gen)
	assert.Equal(t, 182*time.Millisecond, after.d)
	assert.Equal(t, 0, r.Cursor())
}

// =============================================================================
// Scheduler failures
// =============================================================================

func TestSchedulerErrorPropagates(t *testing.T) {
	r, sched := newReader(t, "a b", 0, 300)
	boom := errors.New("timer gone")
	sched.err = boom

	assert.ErrorIs(t, r.Start(), boom)
	assert.False(t, r.Armed())
	assert.ErrorIs(t, r.ChangeSpeed(Faster), boom)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "unknown", State(9).String())
}
