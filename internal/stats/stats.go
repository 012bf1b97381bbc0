// Package stats contains reading session summaries and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

// Summary describes a finished reading session.
type Summary struct {
	StartIndex int
	EndIndex   int
	Total      int
	WordsRead  int
	Elapsed    time.Duration
	StartWPM   int
	EndWPM     int
	// EffectiveWPM is words read per minute of wall time, including pauses.
	EffectiveWPM float64
}

// Summarize computes a session summary from the starting and final progress.
// Moving backwards never counts as negative reading.
func Summarize(start, end model.Progress, total int, elapsed time.Duration) Summary {
	s := Summary{
		StartIndex: start.Index,
		EndIndex:   end.Index,
		Total:      total,
		Elapsed:    elapsed,
		StartWPM:   start.WPM,
		EndWPM:     end.WPM,
	}
	if end.Index > start.Index {
		s.WordsRead = end.Index - start.Index
	}
	s.EffectiveWPM = EffectiveWPM(s.WordsRead, elapsed)
	return s
}

// EffectiveWPM returns words per minute over the elapsed wall time.
func EffectiveWPM(words int, elapsed time.Duration) float64 {
	if words <= 0 || elapsed <= 0 {
		return 0
	}
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(words) / minutes
}

// Percent returns the share of the text behind the final position.
func (s Summary) Percent() float64 {
	if s.Total <= 1 {
		return 100
	}
	return 100 * float64(s.EndIndex) / float64(s.Total-1)
}

var summaryColumns = []column{{header: "Metric"}, {header: "Value", right: true}}

// RenderSummary writes a two column summary table to w.
func RenderSummary(w io.Writer, s Summary) error {
	rows := [][]string{
		{"Position", fmt.Sprintf("%d/%d", s.EndIndex+1, s.Total)},
		{"Progress", fmt.Sprintf("%.1f%%", s.Percent())},
		{"Words read", fmt.Sprintf("%d", s.WordsRead)},
		{"Time", formatElapsed(s.Elapsed)},
		{"Speed", speedCell(s.StartWPM, s.EndWPM)},
		{"Effective", fmt.Sprintf("%.0f WPM", math.Round(s.EffectiveWPM))},
	}
	for _, line := range renderTable(summaryColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func speedCell(start, end int) string {
	if start == end {
		return fmt.Sprintf("%d WPM", end)
	}
	return fmt.Sprintf("%d -> %d WPM", start, end)
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
