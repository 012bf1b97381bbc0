package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// orpTable maps word length to the index of the fixation character.
var orpTable = [14]int{0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}

const orpLong = 4

// ORP returns the index of the optimal recognition point for a word of n
// runes.
func ORP(n int) int {
	if n < 1 {
		return 0
	}
	if n >= len(orpTable) {
		return orpLong
	}
	return orpTable[n]
}

// WordLayout is a word split around its recognition point, padded so the
// focus character sits in the middle of the line.
type WordLayout struct {
	PadLeft  int
	Head     string
	Focus    string
	Tail     string
	PadRight int
}

// LayoutWord splits word at its recognition point. Padding is measured in
// terminal cells and never negative: whichever side is shorter gets padded.
func LayoutWord(word string) WordLayout {
	runes := []rune(word)
	if len(runes) == 0 {
		return WordLayout{}
	}
	idx := ORP(len(runes))
	if idx >= len(runes) {
		idx = len(runes) - 1
	}
	l := WordLayout{
		Head:  string(runes[:idx]),
		Focus: string(runes[idx]),
		Tail:  string(runes[idx+1:]),
	}
	diff := runewidth.StringWidth(l.Tail) - runewidth.StringWidth(l.Head)
	if diff > 0 {
		l.PadLeft = diff
	} else {
		l.PadRight = -diff
	}
	return l
}

// Width returns the total cell width of the laid out word.
func (l WordLayout) Width() int {
	return l.PadLeft + runewidth.StringWidth(l.Head+l.Focus+l.Tail) + l.PadRight
}

func (l WordLayout) render() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", l.PadLeft))
	b.WriteString(wordStyle.Render(l.Head))
	b.WriteString(focusStyle.Render(l.Focus))
	b.WriteString(wordStyle.Render(l.Tail))
	b.WriteString(strings.Repeat(" ", l.PadRight))
	return b.String()
}
