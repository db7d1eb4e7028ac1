package checker

import (
	"strings"
	"unicode"
)

// findDoubleWords reports consecutive repeated words, case-insensitively.
// RE2 has no backreferences, so repetition is detected by scanning tokens.
func findDoubleWords(text string) []match {
	var matches []match

	type token struct {
		beg, end int
	}
	var prev *token
	var prevWord string

	i := 0
	for i < len(text) {
		// Skip non-letter runs; anything but spaces breaks word adjacency.
		start := i
		for i < len(text) && !isWordByte(text, i) {
			i++
		}
		gap := text[start:i]
		if strings.TrimFunc(gap, unicode.IsSpace) != "" {
			prev = nil
		}
		if i >= len(text) {
			break
		}

		wordStart := i
		for i < len(text) && isWordByte(text, i) {
			i++
		}
		word := text[wordStart:i]

		if prev != nil && strings.EqualFold(word, prevWord) {
			matches = append(matches, match{
				beg:         prev.beg,
				end:         i,
				suggestions: []string{text[prev.beg:prev.end]},
			})
			prev = nil
			continue
		}
		prev = &token{beg: wordStart, end: i}
		prevWord = word
	}
	return matches
}

func isWordByte(s string, i int) bool {
	r := rune(s[i])
	if r < 0x80 {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	// Multi-byte runes are treated as word characters; grammar bundles target
	// languages with non-ASCII alphabets.
	return true
}

// findDoubleSpaces reports runs of two or more spaces or tabs.
func findDoubleSpaces(text string) []match {
	var matches []match
	i := 0
	for i < len(text) {
		if text[i] != ' ' && text[i] != '\t' {
			i++
			continue
		}
		start := i
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		if i-start >= 2 {
			matches = append(matches, match{beg: start, end: i, suggestions: []string{" "}})
		}
	}
	return matches
}
