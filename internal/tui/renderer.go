package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiread/internal/model"
)

// ErrProgramExited is returned by Render once the terminal program stopped.
var ErrProgramExited = errors.New("terminal program exited")

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Renderer hands frames from the control loop to the terminal program,
// skipping frames identical to the previous one.
type Renderer struct {
	sender Sender
	done   <-chan struct{}
	last   model.Frame
	sent   bool
}

// NewRenderer returns a renderer sending to s. done is closed when the
// program has exited; it may be nil.
func NewRenderer(s Sender, done <-chan struct{}) *Renderer {
	return &Renderer{sender: s, done: done}
}

// Render implements loop.Renderer.
func (r *Renderer) Render(f model.Frame) error {
	if r.done != nil {
		select {
		case <-r.done:
			return ErrProgramExited
		default:
		}
	}
	if r.sent && r.last.Equal(f) {
		return nil
	}
	r.sender.Send(FrameMsg{Frame: f})
	r.last = f
	r.sent = true
	return nil
}
