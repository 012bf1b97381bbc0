// Package event merges keyboard input and the advance timer into one ordered
// stream that the control loop polls without blocking.
package event

import (
	"context"
	"io"
	"sync"
)

// Kind identifies what produced an event.
type Kind int

const (
	// KindKey is a key press from the keyboard producer.
	KindKey Kind = iota
	// KindTick is an advance tick from the timer producer.
	KindTick
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Key is a decoded key press. Its string form follows the bubbletea key
// names so bubbles key bindings can match it directly.
type Key string

// Named keys used by the reader.
const (
	KeyQuit   Key = "q"
	KeySpace  Key = " "
	KeySlower Key = "["
	KeyFaster Key = "]"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyCtrlC  Key = "ctrl+c"
	KeyHelp   Key = "?"
)

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}

// Event is one item of the merged stream. Key is set for KindKey, Gen for
// KindTick.
type Event struct {
	Kind Kind
	Key  Key
	Gen  uint64
}

// KeyReader yields key presses. It returns io.EOF once input has ended.
type KeyReader interface {
	ReadKey(ctx context.Context) (Key, error)
}

// Feed is a KeyReader fed by pushes from another goroutine, typically the
// terminal program decoding raw input.
type Feed struct {
	keys chan Key
	done chan struct{}
	once sync.Once
}

// NewFeed returns a feed buffering up to size keys.
func NewFeed(size int) *Feed {
	if size < 0 {
		size = 0
	}
	return &Feed{
		keys: make(chan Key, size),
		done: make(chan struct{}),
	}
}

// Push hands k to the reader side. It returns false once the feed is closed.
func (f *Feed) Push(k Key) bool {
	select {
	case <-f.done:
		return false
	default:
	}
	select {
	case f.keys <- k:
		return true
	case <-f.done:
		return false
	}
}

// Close ends the feed. Keys already buffered are still delivered before
// ReadKey reports io.EOF.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}

// ReadKey implements KeyReader.
func (f *Feed) ReadKey(ctx context.Context) (Key, error) {
	select {
	case k := <-f.keys:
		return k, nil
	default:
	}
	select {
	case k := <-f.keys:
		return k, nil
	case <-f.done:
		select {
		case k := <-f.keys:
			return k, nil
		default:
			return "", io.EOF
		}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
