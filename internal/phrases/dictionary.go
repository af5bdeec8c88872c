// internal/phrases/dictionary.go
//
// Ordered, read-only phrase dictionary consumed by the matching engine.
// Responsibilities:
//   - Normalise phrase text (NFC, trimmed) so visually equal phrases compare equal.
//   - Drop blank lines and duplicate phrases while keeping first-seen order.
//   - Pre-split every phrase into grapheme clusters (one cluster per tile).
//
// Dictionary order matters: the engine resolves overlapping matches by taking
// the earliest un-consumed entry.

package phrases

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyDictionary is returned when no usable phrase remains after normalisation.
var ErrEmptyDictionary = errors.New("phrases: dictionary is empty")

// Entry is one dictionary phrase together with its grapheme clusters.
type Entry struct {
	Text  string   // NFC-normalised phrase text
	Chars []string // grapheme clusters of Text, in order
}

// Dictionary is an ordered set of unique phrases.
// The zero value is an empty dictionary.
type Dictionary struct {
	entries []Entry
}

// NewDictionary builds a dictionary from texts in the given order.
// Blank texts are skipped; later duplicates of an earlier phrase are dropped.
func NewDictionary(texts ...string) (Dictionary, error) {
	seen := make(map[string]struct{}, len(texts))
	entries := make([]Entry, 0, len(texts))
	for _, t := range texts {
		t = Normalize(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		entries = append(entries, Entry{Text: t, Chars: Graphemes(t)})
	}
	if len(entries) == 0 {
		return Dictionary{}, ErrEmptyDictionary
	}
	return Dictionary{entries: entries}, nil
}

// Len reports the number of phrases.
func (d Dictionary) Len() int { return len(d.entries) }

// Entry returns the i-th phrase. It panics if i is out of range.
func (d Dictionary) Entry(i int) Entry { return d.entries[i] }

// Phrases returns the phrase texts in dictionary order.
func (d Dictionary) Phrases() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Text
	}
	return out
}

// TotalChars is the number of grapheme clusters across all phrases,
// i.e. the number of tiles a session built from d will hold.
func (d Dictionary) TotalChars() int {
	n := 0
	for _, e := range d.entries {
		n += len(e.Chars)
	}
	return n
}

// Normalize trims surrounding whitespace and applies NFC.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Graphemes splits s into user-perceived characters.
func Graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// CodePoint returns the upper-case hex code point of the first rune of ch,
// zero-padded to at least four digits ("你" → "4F60").
func CodePoint(ch string) string {
	r, size := utf8.DecodeRuneInString(ch)
	if size == 0 {
		return ""
	}
	return fmt.Sprintf("%04X", r)
}
