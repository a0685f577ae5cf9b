// Package inkline converts strings with lightweight inline markup (bold,
// italic, strikethrough, underline, inline code, links) into ordered styled
// runs for a renderer to draw.
//
// Parsing is a single left-to-right pass: at every step the earliest-starting
// span among all marker patterns wins, its inner content becomes one styled
// run, and scanning resumes after the full span. Formatting never nests; the
// markers inside a matched span stay literal. Malformed or unterminated
// markers degrade to plain text, so Parse is total over its input.
package inkline

import "strings"

// FormatKind identifies the one style carried by a run.
type FormatKind uint8

const (
	Plain FormatKind = iota
	Bold
	Italic
	Strikethrough
	Underline
	InlineCode
	Link
)

// String returns the lowercase kind name.
func (k FormatKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Strikethrough:
		return "strikethrough"
	case Underline:
		return "underline"
	case InlineCode:
		return "code"
	case Link:
		return "link"
	}
	return "unknown"
}

// StyledRun is a piece of visible text carrying exactly one format kind.
// Runs arrive in document order; concatenating their Text fields yields the
// input with all markers removed and link syntax collapsed to its label.
type StyledRun struct {
	Kind FormatKind
	Text string
	// URL is set on Link runs only.
	URL string
}

// PlainText concatenates the visible text of runs, dropping all styling.
func PlainText(runs []StyledRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
