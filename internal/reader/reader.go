// Package reader implements the reading state machine: cursor, pause state,
// speed and the association with the advance timer.
//
// The reader never owns a timer itself. It hands each computed dwell to a
// Scheduler together with a generation number, and only a tick carrying the
// most recently armed generation advances the cursor. Pausing drops the
// association, so ticks already in flight are ignored when they arrive.
package reader

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/timing"
	"github.com/verte-zerg/tuiread/internal/words"
)

const (
	// MinWPM is the slowest supported speed.
	MinWPM = 1
	// MaxWPM is the fastest supported speed; one word per millisecond.
	MaxWPM = 60000
)

const speedStep = 1.1

// State is the run state of the reader.
type State int

const (
	// Running auto-advances on timer ticks.
	Running State = iota
	// Paused only moves on manual navigation.
	Paused
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// SpeedChange selects the direction of a speed adjustment.
type SpeedChange int

const (
	// Slower divides the speed by 1.1, about 9% less.
	Slower SpeedChange = iota
	// Faster multiplies the speed by 1.1.
	Faster
)

// Scheduler arms the advance timer. A tick for gen is expected after d.
type Scheduler interface {
	Arm(gen uint64, d time.Duration) error
}

// Reader owns the mutable reading state.
type Reader struct {
	seq   words.Sequence
	sched Scheduler

	cursor int
	wpm    int
	state  State

	// armed is the generation of the pending tick; zero means none.
	armed   uint64
	lastGen uint64
}

// New returns a running reader positioned at resume. Call Start to arm the
// first tick.
func New(seq words.Sequence, resume, wpm int, sched Scheduler) (*Reader, error) {
	if seq.Len() == 0 {
		return nil, words.ErrEmpty
	}
	if resume < 0 || resume >= seq.Len() {
		return nil, fmt.Errorf("resume index %d out of range (text has %d words)", resume, seq.Len())
	}
	if wpm < MinWPM {
		return nil, fmt.Errorf("wpm must be >= %d, got %d", MinWPM, wpm)
	}
	if sched == nil {
		return nil, fmt.Errorf("scheduler is nil")
	}
	return &Reader{
		seq:    seq,
		sched:  sched,
		cursor: resume,
		wpm:    clampWPM(wpm),
		state:  Running,
	}, nil
}

// Start arms the first tick with the initial-word slowdown.
func (r *Reader) Start() error {
	if r.state != Running {
		return nil
	}
	return r.arm(true)
}

// Cursor returns the index of the current word.
func (r *Reader) Cursor() int { return r.cursor }

// WPM returns the current speed.
func (r *Reader) WPM() int { return r.wpm }

// State returns the run state.
func (r *Reader) State() State { return r.state }

// Paused reports whether the reader is paused.
func (r *Reader) Paused() bool { return r.state == Paused }

// Len returns the number of words in the text.
func (r *Reader) Len() int { return r.seq.Len() }

// Word returns the current word.
func (r *Reader) Word() string { return r.seq.At(r.cursor) }

// Preceding returns up to n words before the current one.
func (r *Reader) Preceding(n int) []string { return r.seq.Preceding(r.cursor, n) }

// Succeeding returns up to n words after the current one.
func (r *Reader) Succeeding(n int) []string { return r.seq.Succeeding(r.cursor, n) }

// Armed reports whether a tick is currently expected.
func (r *Reader) Armed() bool { return r.armed != 0 }

// Progress returns the values needed to resume later.
func (r *Reader) Progress() model.Progress {
	return model.Progress{Index: r.cursor, WPM: r.wpm}
}

// TogglePause switches between running and paused. Resuming arms the next
// tick with the initial-word slowdown.
func (r *Reader) TogglePause() error {
	if r.state == Running {
		r.state = Paused
		r.armed = 0
		return nil
	}
	r.state = Running
	return r.arm(true)
}

// Tick handles a timer tick for gen. It reports whether the cursor moved.
// Ticks while paused or for a superseded generation are ignored.
func (r *Reader) Tick(gen uint64) (bool, error) {
	if r.state != Running || gen == 0 || gen != r.armed {
		return false, nil
	}
	if !r.forward() {
		// Last word reached; nothing left to schedule.
		r.armed = 0
		return false, nil
	}
	return true, r.arm(false)
}

// Step moves forward one word on request. While running the pending tick is
// replaced by one for the new word.
func (r *Reader) Step() error {
	moved := r.forward()
	if r.state == Running && moved {
		return r.arm(false)
	}
	return nil
}

// Retreat moves back one word. It only applies while paused and reports
// whether it was applied.
func (r *Reader) Retreat() bool {
	if r.state != Paused {
		return false
	}
	if r.cursor > 0 {
		r.cursor--
	}
	return true
}

// ChangeSpeed scales the speed. Faster multiplies by 1.1 and Slower divides by
// 1.1, so one of each returns to the starting speed. Every change moves by at
// least one unit within [MinWPM, MaxWPM]. While running the pending tick is
// re-armed so the new speed applies to the current word.
func (r *Reader) ChangeSpeed(c SpeedChange) error {
	r.wpm = scaleWPM(r.wpm, c)
	if r.state == Running {
		return r.arm(false)
	}
	return nil
}

func (r *Reader) forward() bool {
	if r.cursor >= r.seq.Len()-1 {
		return false
	}
	r.cursor++
	return true
}

func (r *Reader) arm(initial bool) error {
	r.lastGen++
	r.armed = r.lastGen
	d := timing.Dwell(r.wpm, r.Word(), initial)
	if err := r.sched.Arm(r.armed, d); err != nil {
		r.armed = 0
		return err
	}
	return nil
}

func scaleWPM(wpm int, c SpeedChange) int {
	var next int
	switch c {
	case Faster:
		next = int(math.Round(float64(wpm) * speedStep))
		if next <= wpm {
			next = wpm + 1
		}
	case Slower:
		next = int(math.Round(float64(wpm) / speedStep))
		if next >= wpm {
			next = wpm - 1
		}
	default:
		next = wpm
	}
	return clampWPM(next)
}

func clampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}
