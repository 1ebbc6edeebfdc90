package render

import (
	"strings"
	"unicode"

	"golang.org/x/image/font"
)

func hasCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			return true
		}
	}
	return false
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// wrapLine breaks a line to fit maxWidth pixels. Lines containing CJK
// break per rune since there are no word boundaries; Latin lines break
// on spaces, falling back to per-rune splitting for a single word wider
// than the page.
func wrapLine(face font.Face, line string, maxWidth int) []string {
	if textWidth(face, line) <= maxWidth {
		return []string{line}
	}
	if hasCJK(line) {
		return wrapRunes(face, line, maxWidth)
	}

	var out []string
	var current string
	for _, word := range strings.Fields(line) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if textWidth(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			out = append(out, current)
		}
		if textWidth(face, word) > maxWidth {
			pieces := wrapRunes(face, word, maxWidth)
			out = append(out, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		} else {
			current = word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		out = []string{line}
	}
	return out
}

func wrapRunes(face font.Face, line string, maxWidth int) []string {
	var out []string
	var current []rune
	for _, r := range line {
		candidate := append(current, r)
		if textWidth(face, string(candidate)) <= maxWidth || len(current) == 0 {
			current = candidate
			continue
		}
		out = append(out, string(current))
		current = []rune{r}
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}
