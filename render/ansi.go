package render

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// sanitizeInput strips raw escape sequences (CSI and OSC aware) and control
// characters from text so untrusted input cannot inject terminal state.
// Tabs expand to four spaces, carriage returns disappear.
func sanitizeInput(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		ch := text[i]
		if ch == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r == '\r' {
			i += size
			continue
		}
		if r == '\t' {
			b.WriteString("    ")
			i += size
			continue
		}
		if r < 0x20 || r == 0x7f {
			i += size
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

func skipEscape(text string, i int) int {
	if i >= len(text) {
		return i
	}
	switch text[i] {
	case '[':
		return skipCSI(text, i+1)
	case ']':
		return skipOSC(text, i+1)
	default:
		if i < len(text) {
			return i + 1
		}
		return i
	}
}

func skipCSI(text string, i int) int {
	for i < len(text) {
		b := text[i]
		if b >= 0x40 && b <= 0x7e {
			return i + 1
		}
		i++
	}
	return i
}

func skipOSC(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case 0x07:
			return i + 1
		case 0x1b:
			if i+1 < len(text) && text[i+1] == '\\' {
				return i + 2
			}
		}
		i++
	}
	return i
}

// visibleWidth returns the display width of text, skipping escape sequences
// and counting wide runes at their terminal cell width.
func visibleWidth(text string) int {
	width := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		next := strings.IndexByte(text[i:], 0x1b)
		if next < 0 {
			return width + uniseg.StringWidth(text[i:])
		}
		width += uniseg.StringWidth(text[i : i+next])
		i += next
	}
	return width
}

// trimANSIToWidth cuts text to the given display width. Escape sequences
// before the cut are kept; everything after it is dropped, so callers append
// their own reset.
func trimANSIToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	visible := 0
	state := -1
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			start := i
			i = skipEscape(text, i+1)
			b.WriteString(text[start:i])
			state = -1
			continue
		}
		if visible >= width {
			break
		}
		cluster, _, w, next := uniseg.FirstGraphemeClusterInString(text[i:], state)
		if cluster == "" {
			break
		}
		if visible+w > width {
			break
		}
		b.WriteString(cluster)
		visible += w
		state = next
		i += len(cluster)
	}
	return b.String()
}
