package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/tuiread/internal/loop"
	"github.com/verte-zerg/tuiread/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(nil, loop.DefaultKeyMap())
	m.frame = model.Frame{Word: "fox", Index: 2, Total: 4, WPM: 300, Paused: true}
	m.hasFrame = true

	out := ansi.Strip(m.renderFooter())
	if !containsAll(out, []string{"Word 3/4", "300 WPM", "paused", "pause/resume", "quit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterFullHelp(t *testing.T) {
	m := NewModel(nil, loop.DefaultKeyMap())
	m.frame = model.Frame{Word: "fox", Total: 4, WPM: 300, Paused: true, ShowFullHelp: true}
	m.hasFrame = true

	out := ansi.Strip(m.renderFooter())
	if !containsAll(out, []string{"previous word", "next word"}) {
		t.Fatalf("full help missing navigation keys: %s", out)
	}

	m.frame.Paused = false
	out = ansi.Strip(m.renderFooter())
	if strings.Contains(out, "previous word") {
		t.Fatalf("step back should be hidden while running: %s", out)
	}
	if !strings.Contains(out, "running") {
		t.Fatalf("expected running state: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
