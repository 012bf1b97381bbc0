// Package timing computes how long each word stays on screen.
package timing

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	sentenceEnds = ".!?"
	clauseEnds   = ",:;"

	sentenceFactor = 2.0
	clauseFactor   = 1.5
	initialFactor  = 5.0
)

// Base returns the unmodified per-word duration in milliseconds for wpm.
// Values of wpm below 1 are treated as 1.
func Base(wpm int) float64 {
	if wpm < 1 {
		wpm = 1
	}
	return 60.0 * 1000.0 / float64(wpm)
}

// Multiplier returns the slowdown factor for word. Sentence punctuation wins
// over clause punctuation; initial multiplies on top of either.
func Multiplier(word string, initial bool) float64 {
	m := 1.0
	if last, _ := utf8.DecodeLastRuneInString(word); last != utf8.RuneError {
		switch {
		case strings.ContainsRune(sentenceEnds, last):
			m *= sentenceFactor
		case strings.ContainsRune(clauseEnds, last):
			m *= clauseFactor
		}
	}
	if initial {
		m *= initialFactor
	}
	return m
}

// Dwell returns how long word should be shown at wpm. initial marks the first
// word after startup or resume.
func Dwell(wpm int, word string, initial bool) time.Duration {
	ms := math.Round(Base(wpm) * Multiplier(word, initial))
	return time.Duration(ms) * time.Millisecond
}
