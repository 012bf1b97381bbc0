// Package model defines shared data structures.
package model

import "slices"

// Config defines reading settings.
type Config struct {
	WPM        int
	Resume     int
	Preceding  int
	Succeeding int
}

// Progress is the reading position handed back to the caller on exit.
type Progress struct {
	Index int
	WPM   int
}

// Frame is the display state produced by the control loop each cycle.
type Frame struct {
	Word   string
	Index  int
	Total  int
	WPM    int
	Paused bool

	// Preceding and Succeeding are only filled while paused.
	Preceding  []string
	Succeeding []string

	ShowFullHelp bool
}

// Equal reports whether two frames display the same thing.
func (f Frame) Equal(o Frame) bool {
	return f.Word == o.Word &&
		f.Index == o.Index &&
		f.Total == o.Total &&
		f.WPM == o.WPM &&
		f.Paused == o.Paused &&
		f.ShowFullHelp == o.ShowFullHelp &&
		slices.Equal(f.Preceding, o.Preceding) &&
		slices.Equal(f.Succeeding, o.Succeeding)
}

// Percent returns how far through the text the frame is, in [0, 1].
func (f Frame) Percent() float64 {
	if f.Total <= 1 {
		return 1
	}
	return float64(f.Index) / float64(f.Total-1)
}
