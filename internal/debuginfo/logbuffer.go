package debuginfo

import "strings"

const (
	// LogLines is how many log lines the debug panel shows.
	LogLines = 3
	// LogLineChars is the width of one log line in characters.
	LogLineChars = 32
)

// logBuffer keeps the last few lines printed to the screen. Long lines
// wrap at maxChars.
type logBuffer struct {
	maxLines int
	maxChars int
	done     []string
	cur      []rune
}

func newLogBuffer(lines, chars int) *logBuffer {
	return &logBuffer{maxLines: lines, maxChars: chars}
}

func (b *logBuffer) write(text string) {
	for _, r := range text {
		switch {
		case r == '\n':
			b.newline()
		case r == '\r':
		default:
			if len(b.cur) >= b.maxChars {
				b.newline()
			}
			b.cur = append(b.cur, r)
		}
	}
}

func (b *logBuffer) newline() {
	b.done = append(b.done, string(b.cur))
	b.cur = b.cur[:0]
	if len(b.done) > b.maxLines {
		b.done = append([]string(nil), b.done[len(b.done)-b.maxLines:]...)
	}
}

// lines returns at most maxLines lines, oldest first.
func (b *logBuffer) lines() []string {
	out := append([]string(nil), b.done...)
	if len(b.cur) > 0 {
		out = append(out, string(b.cur))
	}
	if len(out) > b.maxLines {
		out = out[len(out)-b.maxLines:]
	}
	return out
}

func (b *logBuffer) String() string {
	return strings.Join(b.lines(), "\n")
}
