// Package words splits input text into an immutable word sequence.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmpty is returned when the input contains no words.
var ErrEmpty = errors.New("input text contains no words")

// Sequence is an ordered, immutable list of non-empty words.
type Sequence struct {
	words []string
}

// Split breaks text on whitespace.
func Split(text string) (Sequence, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Sequence{}, ErrEmpty
	}
	return Sequence{words: fields}, nil
}

// Read splits everything read from r on whitespace.
func Read(r io.Reader) (Sequence, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Sequence{}, err
	}
	if len(out) == 0 {
		return Sequence{}, ErrEmpty
	}
	return Sequence{words: out}, nil
}

// Load reads the words of the file at path.
func Load(path string) (Sequence, error) {
	file, err := os.Open(path)
	if err != nil {
		return Sequence{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	seq, err := Read(file)
	if err != nil {
		return Sequence{}, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// Len returns the number of words.
func (s Sequence) Len() int {
	return len(s.words)
}

// At returns the word at index i. The caller guarantees 0 <= i < Len().
func (s Sequence) At(i int) string {
	return s.words[i]
}

// Clamp saturates i into the valid index range.
func (s Sequence) Clamp(i int) int {
	if i < 0 || len(s.words) == 0 {
		return 0
	}
	if i >= len(s.words) {
		return len(s.words) - 1
	}
	return i
}

// Preceding returns up to n words strictly before cursor.
func (s Sequence) Preceding(cursor, n int) []string {
	if n <= 0 || len(s.words) == 0 {
		return nil
	}
	cursor = s.Clamp(cursor)
	start := cursor - n
	if start < 0 {
		start = 0
	}
	return append([]string(nil), s.words[start:cursor]...)
}

// Succeeding returns up to n words strictly after cursor.
//
// It takes n+1 words starting at cursor and drops the first one, so a cursor
// on the last word yields an empty result.
func (s Sequence) Succeeding(cursor, n int) []string {
	if n <= 0 || len(s.words) == 0 {
		return nil
	}
	cursor = s.Clamp(cursor)
	end := cursor + n + 1
	if end > len(s.words) {
		end = len(s.words)
	}
	window := s.words[cursor:end]
	return append([]string(nil), window[1:]...)
}
