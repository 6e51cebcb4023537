// Package render provides text layout helpers for TUI components.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters (except tab) and invalid UTF-8 and
// turns non-breaking spaces into plain ones, so bad tag metadata cannot
// break the terminal.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate shortens plain text to maxWidth cells, ending with "…" when cut.
// Wide characters count as two cells.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// TruncateStyled shortens text that may contain ANSI styling, keeping the
// escape sequences intact.
func TruncateStyled(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// Pad fills plain text with spaces up to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Row places left and right on one line of exactly width cells, with at
// least one space between them. Both may be styled.
func Row(left, right string, width int) string {
	gap := max(width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Center pads styled text on both sides to width cells.
func Center(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
