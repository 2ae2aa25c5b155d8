package frames

import (
	"fmt"
	"strings"

	"github.com/bft-labs/meshscreen/internal/ports"
)

// FormatPin renders a pairing pin as two groups of three digits.
func FormatPin(pin uint32) string {
	s := fmt.Sprintf("%06d", pin)
	return s[:3] + " " + s[3:6]
}

// CenterX returns the x offset that centers text on the surface.
func CenterX(s ports.Surface, text string) int {
	return (s.Width() - s.StringWidth(text)) / 2
}

// RightX returns the x offset that right-aligns text on the surface.
func RightX(s ports.Surface, text string) int {
	return s.Width() - s.StringWidth(text)
}

// WrapWords breaks text into lines no wider than maxWidth. Lines break on
// spaces and after hyphens; embedded newlines are kept. A single word that
// does not fit is put on a line of its own.
func WrapWords(s ports.Surface, text string, maxWidth int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(s, para, maxWidth)...)
	}
	return lines
}

func wrapParagraph(s ports.Surface, para string, maxWidth int) []string {
	words := splitWords(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := line + w
		if line != "" && s.StringWidth(strings.TrimRight(candidate, " ")) > maxWidth {
			lines = append(lines, strings.TrimRight(line, " "))
			candidate = strings.TrimLeft(w, " ")
		}
		line = candidate
	}
	return append(lines, strings.TrimRight(line, " "))
}

// splitWords splits after every space and hyphen, keeping the separator
// with the preceding word.
func splitWords(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if r == ' ' || r == '-' {
			words = append(words, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

// drawWrapped draws text word-wrapped from (x, y) until the surface runs out.
func drawWrapped(s ports.Surface, x, y int, text string) {
	lh := s.LineHeight()
	for _, line := range WrapWords(s, text, s.Width()) {
		if y >= s.Height() {
			return
		}
		s.DrawString(x, y, line)
		y += lh
	}
}

// drawColumns draws fields top to bottom, moving to a second column when
// the first one is full.
func drawColumns(s ports.Surface, x, y int, fields []string) {
	lh := s.LineHeight()
	xo, yo := x, y
	for _, f := range fields {
		s.DrawString(xo, yo, f)
		yo += lh
		if yo > s.Height()-lh {
			xo += s.Width() / 2
			yo = y
		}
	}
}
