// Package loop drives the reader: it renders a frame, drains ready events
// and dispatches them, then waits for the next frame.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/tuiread/internal/event"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/reader"
)

const (
	defaultFrameInterval = time.Second / 60
	defaultMaxEvents     = 32
)

// Events is the polled event stream.
type Events interface {
	Poll() (event.Event, bool, error)
}

// Renderer displays a frame.
type Renderer interface {
	Render(model.Frame) error
}

// Options tunes the loop.
type Options struct {
	// FrameInterval is the render cadence. Defaults to 60 frames per second.
	FrameInterval time.Duration
	// MaxEventsPerFrame bounds how many events one cycle dispatches.
	MaxEventsPerFrame int
	// Preceding and Succeeding are the context word counts shown while paused.
	Preceding  int
	Succeeding int
	Keys       KeyMap
	Logger     *log.Logger
}

func (o Options) withDefaults() Options {
	if o.FrameInterval <= 0 {
		o.FrameInterval = defaultFrameInterval
	}
	if o.MaxEventsPerFrame <= 0 {
		o.MaxEventsPerFrame = defaultMaxEvents
	}
	if o.Preceding < 0 {
		o.Preceding = 0
	}
	if o.Succeeding < 0 {
		o.Succeeding = 0
	}
	if len(o.Keys.Quit.Keys()) == 0 {
		o.Keys = DefaultKeyMap()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

type runner struct {
	r        *reader.Reader
	events   Events
	opts     Options
	showHelp bool
}

// Run executes the control loop until quit, context cancellation or the event
// source closing. The reader's final progress is returned in every case.
// The caller is expected to have armed the reader with Start.
func Run(ctx context.Context, r *reader.Reader, events Events, out Renderer, opts Options) (model.Progress, error) {
	opts = opts.withDefaults()
	rn := &runner{r: r, events: events, opts: opts}

	ticker := time.NewTicker(opts.FrameInterval)
	defer ticker.Stop()

	for {
		if err := out.Render(rn.frame()); err != nil {
			return r.Progress(), fmt.Errorf("failed to render: %w", err)
		}
		stop, err := rn.drain()
		if err != nil {
			return r.Progress(), err
		}
		if stop {
			return r.Progress(), nil
		}
		if !rn.wait(ctx, ticker.C) {
			return r.Progress(), nil
		}
	}
}

// wait blocks until the next frame. It returns false once ctx is done.
func (rn *runner) wait(ctx context.Context, frames <-chan time.Time) bool {
	if err := ctx.Err(); err != nil {
		rn.opts.Logger.Printf("reader loop cancelled: %v", err)
		return false
	}
	select {
	case <-ctx.Done():
		rn.opts.Logger.Printf("reader loop cancelled: %v", ctx.Err())
		return false
	case <-frames:
		return true
	}
}

// drain dispatches the events that are ready now.
func (rn *runner) drain() (bool, error) {
	for i := 0; i < rn.opts.MaxEventsPerFrame; i++ {
		ev, ok, err := rn.events.Poll()
		if err != nil {
			if errors.Is(err, event.ErrClosed) {
				rn.opts.Logger.Printf("event source closed")
				return true, nil
			}
			return true, fmt.Errorf("failed to poll events: %w", err)
		}
		if !ok {
			return false, nil
		}
		stop, err := rn.dispatch(ev)
		if err != nil {
			if errors.Is(err, event.ErrClosed) {
				rn.opts.Logger.Printf("advance timer closed")
				return true, nil
			}
			return true, err
		}
		if stop {
			return true, nil
		}
	}
	return false, nil
}

func (rn *runner) dispatch(ev event.Event) (bool, error) {
	switch ev.Kind {
	case event.KindTick:
		_, err := rn.r.Tick(ev.Gen)
		return false, err
	case event.KindKey:
		return rn.handleKey(ev.Key)
	default:
		return false, nil
	}
}

func (rn *runner) handleKey(k event.Key) (bool, error) {
	keys := rn.opts.Keys
	switch {
	case key.Matches(k, keys.Quit):
		return true, nil
	case key.Matches(k, keys.Pause):
		return false, rn.r.TogglePause()
	case key.Matches(k, keys.Slower):
		return false, rn.r.ChangeSpeed(reader.Slower)
	case key.Matches(k, keys.Faster):
		return false, rn.r.ChangeSpeed(reader.Faster)
	case key.Matches(k, keys.Back):
		rn.r.Retreat()
		return false, nil
	case key.Matches(k, keys.Forward):
		return false, rn.r.Step()
	case key.Matches(k, keys.Help):
		rn.showHelp = !rn.showHelp
		return false, nil
	default:
		return false, nil
	}
}

func (rn *runner) frame() model.Frame {
	f := model.Frame{
		Word:         rn.r.Word(),
		Index:        rn.r.Cursor(),
		Total:        rn.r.Len(),
		WPM:          rn.r.WPM(),
		Paused:       rn.r.Paused(),
		ShowFullHelp: rn.showHelp,
	}
	if f.Paused {
		f.Preceding = rn.r.Preceding(rn.opts.Preceding)
		f.Succeeding = rn.r.Succeeding(rn.opts.Succeeding)
	}
	return f
}
