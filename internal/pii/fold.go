package pii

import (
	"strings"
	"unicode"
)

// foldRunes maps accented Latin letters onto their base letters so that
// context keywords match regardless of accenting ("teléfono" == "telefono",
// "cédula" == "cedula"). Only the letters that occur in the supported
// keyword tables are mapped; anything else passes through lowercased.
var foldRunes = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a', 'ã': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
	'ñ': 'n', 'ç': 'c',
}

// Fold lowercases s and strips the diacritics covered by foldRunes.
// Keyword and exclusion tables are stored pre-folded; windows are folded
// once before matching.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		r = unicode.ToLower(r)
		if m, ok := foldRunes[r]; ok {
			r = m
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsWord reports whether the folded term occurs in the folded text
// bounded by non-alphanumeric runes on both sides. Both arguments must
// already be folded.
func ContainsWord(folded, term string) bool {
	if term == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(folded[from:], term)
		if i < 0 {
			return false
		}
		i += from
		if boundedWord(folded, i, i+len(term)) {
			return true
		}
		from = i + 1
	}
}

func boundedWord(s string, start, end int) bool {
	if start > 0 {
		before := rune(s[start-1])
		if isWordByte(byte(before)) {
			return false
		}
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
