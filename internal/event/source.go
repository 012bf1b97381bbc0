package event

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// ErrClosed is returned once the source has been closed.
var ErrClosed = errors.New("event source closed")

const defaultBuffer = 64

// Option configures a Source.
type Option func(*Source)

// WithBuffer sets the capacity of the merged event queue.
func WithBuffer(n int) Option {
	return func(s *Source) {
		if n >= 0 {
			s.buffer = n
		}
	}
}

// WithLogger sets where producer diagnostics are written.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

type arming struct {
	gen uint64
	d   time.Duration
}

// Source runs the keyboard and timer producers and exposes their events as a
// single stream. Only one goroutine may call Poll and Arm.
type Source struct {
	buffer int
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	events    chan Event
	durations chan arming

	wg sync.WaitGroup
}

// NewSource starts both producers. They stop when ctx is done or Close is
// called.
func NewSource(ctx context.Context, keys KeyReader, opts ...Option) *Source {
	s := &Source{
		buffer: defaultBuffer,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.events = make(chan Event, s.buffer)
	s.durations = make(chan arming, 1)

	s.wg.Add(2)
	go s.readKeys(keys)
	go s.runTimer()
	go func() {
		s.wg.Wait()
		close(s.events)
	}()
	return s
}

// Arm asks the timer producer for a tick carrying gen after d. A newer
// request replaces the pending one, restarting the timer even mid-sleep.
func (s *Source) Arm(gen uint64, d time.Duration) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	a := arming{gen: gen, d: d}
	for {
		select {
		case s.durations <- a:
			return nil
		default:
		}
		select {
		case <-s.durations:
		default:
		}
	}
}

// Poll returns the next ready event without blocking. ok is false when
// nothing is ready. ErrClosed is returned after Close once the queue is
// drained.
func (s *Source) Poll() (ev Event, ok bool, err error) {
	select {
	case ev, open := <-s.events:
		if !open {
			return Event{}, false, ErrClosed
		}
		return ev, true, nil
	default:
		return Event{}, false, nil
	}
}

// Close stops both producers. It does not wait for a producer blocked
// inside its KeyReader.
func (s *Source) Close() {
	s.cancel()
}

func (s *Source) readKeys(keys KeyReader) {
	defer s.wg.Done()
	if keys == nil {
		return
	}
	for {
		k, err := keys.ReadKey(s.ctx)
		if err != nil {
			switch {
			case s.ctx.Err() != nil:
			case errors.Is(err, io.EOF):
				s.logger.Printf("keyboard input ended")
			default:
				s.logger.Printf("keyboard input stopped: %v", err)
			}
			return
		}
		if !s.emit(Event{Kind: KindKey, Key: k}) {
			return
		}
	}
}

func (s *Source) runTimer() {
	defer s.wg.Done()
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending arming
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-s.ctx.Done():
			return
		case a := <-s.durations:
			if timer != nil {
				timer.Stop()
			}
			pending = a
			timer = time.NewTimer(a.d)
			fire = timer.C
		case <-fire:
			// Nothing fires again until the next request.
			fire = nil
			if !s.emit(Event{Kind: KindTick, Gen: pending.gen}) {
				return
			}
		}
	}
}

func (s *Source) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}
