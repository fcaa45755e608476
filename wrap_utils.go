package tbrowse

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
)

func textWidth(s string) int {
	return ansi.PrintableRuneWidth(s)
}

// TruncateWithEllipsis shortens text to limit columns, ending in "…" when
// anything was cut.
func TruncateWithEllipsis(text string, limit int) string {
	if textWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	return truncate.StringWithTail(text, uint(limit), "…")
}

// FitURL shortens url to limit columns, dropping the scheme first.
func FitURL(url string, limit int) string {
	if textWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if textWidth(trimmed) <= limit {
			return trimmed
		}
		url = trimmed
	}
	return TruncateWithEllipsis(url, limit)
}

// fitCell truncates s to width columns and pads it on the right.
func fitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if textWidth(s) > width {
		s = truncate.String(s, uint(width))
	}
	return padding.String(s, uint(width))
}

// centerCell centers s inside width columns.
func centerCell(s string, width int) string {
	w := textWidth(s)
	if w >= width {
		return fitCell(s, width)
	}
	left := (width - w) / 2
	return fitCell(strings.Repeat(" ", left)+s, width)
}

// splitAtWidth cuts s after at most limit columns. At least one rune is
// always taken so callers make progress.
func splitAtWidth(s string, limit int) (string, string) {
	used := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > limit && i > 0 {
			return s[:i], s[i:]
		}
		used += w
	}
	return s, ""
}

// expandTabs replaces tabs with spaces up to the next multiple of stop.
func expandTabs(s string, stop int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := stop - col%stop
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}
