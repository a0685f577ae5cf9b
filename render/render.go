// Package render draws styled runs as ANSI terminal text: truecolor themes,
// SGR attributes per format kind, word-aware wrapping, and optional OSC 8
// hyperlinks. Input is sanitized so raw escape sequences in message text
// cannot leak into the terminal.
package render

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"pkt.systems/inkline"
	"pkt.systems/inkline/schema"
)

const osc8Close = "\x1b]8;;\x1b\\"

func osc8Open(url string) string {
	return "\x1b]8;;" + url + "\x1b\\"
}

// Options configures a Renderer.
type Options struct {
	// Theme selects the color palette; unknown names fall back to the
	// default theme.
	Theme schema.ThemeName
	// Width wraps output to the given display width. Zero disables
	// wrapping.
	Width int
	// Color enables ANSI styling. When false output is plain text with
	// link URLs appended after their labels.
	Color bool
	// Hyperlinks emits OSC 8 sequences for links instead of URL suffixes.
	// Only honored when Color is set.
	Hyperlinks bool
}

// Renderer converts parsed runs into terminal output.
type Renderer struct {
	theme      theme
	width      int
	color      bool
	hyperlinks bool
}

// New returns a Renderer for the given options.
func New(opts Options) *Renderer {
	return &Renderer{
		theme:      themeForName(opts.Theme),
		width:      opts.Width,
		color:      opts.Color,
		hyperlinks: opts.Hyperlinks,
	}
}

// Render parses input and returns terminal-ready text. Input is handled one
// line at a time; blank lines survive as blank output lines.
func (r *Renderer) Render(input string) string {
	lines := strings.Split(input, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, r.RenderLine(line)...)
	}
	return strings.Join(out, "\n")
}

// RenderLine renders one input line into one or more output lines,
// depending on the configured width.
func (r *Renderer) RenderLine(line string) []string {
	runs := inkline.Parse(sanitizeInput(line))
	if len(runs) == 0 {
		return []string{""}
	}
	if !r.color {
		text := r.plainLine(runs)
		if r.width > 0 {
			return wrapPlain(text, r.width)
		}
		return []string{text}
	}
	if r.width > 0 {
		return r.wrapStyled(runs, r.width)
	}
	return []string{r.styledLine(runs)}
}

// RenderRuns renders already-parsed runs as a single unwrapped line.
func (r *Renderer) RenderRuns(runs []inkline.StyledRun) string {
	if len(runs) == 0 {
		return ""
	}
	if !r.color {
		return r.plainLine(runs)
	}
	return r.styledLine(runs)
}

// runText resolves one run to its visible text, its ANSI style prefix, and
// whether the prefix opens an OSC 8 hyperlink that must be closed again.
func (r *Renderer) runText(run inkline.StyledRun) (string, string, bool) {
	switch run.Kind {
	case inkline.Bold:
		return run.Text, ansiBold, false
	case inkline.Italic:
		return run.Text, ansiItalic, false
	case inkline.Strikethrough:
		return run.Text, ansiStrike, false
	case inkline.Underline:
		return run.Text, ansiUnderline, false
	case inkline.InlineCode:
		return run.Text, ansiFgRGB(r.theme.CodeFG) + ansiBgRGB(r.theme.CodeBG), false
	case inkline.Link:
		style := ansiFgRGB(r.theme.LinkFG) + ansiUnderline
		if r.hyperlinks && run.URL != "" {
			return run.Text, osc8Open(run.URL) + style, true
		}
		return linkWithSuffix(run), style, false
	default:
		return run.Text, "", false
	}
}

// linkWithSuffix appends the URL after the label so the target stays visible
// without hyperlink support. A label that already is the URL gets no suffix.
func linkWithSuffix(run inkline.StyledRun) string {
	if run.URL == "" || run.URL == run.Text {
		return run.Text
	}
	return run.Text + " (" + run.URL + ")"
}

func (r *Renderer) styledLine(runs []inkline.StyledRun) string {
	var b strings.Builder
	for _, run := range runs {
		text, style, link := r.runText(run)
		if text == "" {
			continue
		}
		b.WriteString(ansiReset)
		b.WriteString(style)
		b.WriteString(text)
		if link {
			b.WriteString(osc8Close)
		}
	}
	out := b.String()
	if out == "" {
		return ""
	}
	return out + ansiReset
}

func (r *Renderer) plainLine(runs []inkline.StyledRun) string {
	var b strings.Builder
	for _, run := range runs {
		if run.Kind == inkline.Link {
			b.WriteString(linkWithSuffix(run))
			continue
		}
		b.WriteString(run.Text)
	}
	return b.String()
}

func (r *Renderer) wrapStyled(runs []inkline.StyledRun, width int) []string {
	lines := make([]string, 0, 4)
	var b strings.Builder
	visible := 0
	currentStyle := ""
	activeLink := false
	suppressLeadingSpace := false

	applyStyle := func(style string, link bool) {
		if style == currentStyle && b.Len() > 0 {
			return
		}
		if activeLink {
			b.WriteString(osc8Close)
			activeLink = false
		}
		if style == "" && b.Len() == 0 {
			currentStyle = ""
			return
		}
		b.WriteString(ansiReset)
		if style != "" {
			b.WriteString(style)
		}
		currentStyle = style
		activeLink = link
	}

	flushLine := func(wrapped bool) {
		if b.Len() == 0 {
			return
		}
		if activeLink {
			b.WriteString(osc8Close)
			activeLink = false
		}
		b.WriteString(ansiReset)
		line := trimANSIToWidth(b.String(), width)
		lines = append(lines, line+ansiReset)
		b.Reset()
		visible = 0
		currentStyle = ""
		suppressLeadingSpace = wrapped
	}

	for _, run := range runs {
		text, style, link := r.runText(run)
		if text == "" {
			continue
		}
		for _, token := range tokenizeRun(text) {
			if token.text == "" {
				continue
			}
			if token.space {
				if visible == 0 && suppressLeadingSpace {
					continue
				}
				if visible+1 > width {
					flushLine(true)
					continue
				}
				applyStyle(style, link)
				b.WriteString(" ")
				visible++
				suppressLeadingSpace = false
				continue
			}
			wordWidth := uniseg.StringWidth(token.text)
			if wordWidth > width {
				if visible > 0 {
					flushLine(true)
				}
				rest := token.text
				gstate := -1
				for rest != "" {
					var cluster string
					var w int
					cluster, rest, w, gstate = uniseg.FirstGraphemeClusterInString(rest, gstate)
					if cluster == "" {
						break
					}
					if visible+w > width && visible > 0 {
						flushLine(true)
					}
					applyStyle(style, link)
					b.WriteString(cluster)
					visible += w
					if visible >= width {
						flushLine(true)
					}
				}
				continue
			}
			if visible+wordWidth > width && visible > 0 {
				flushLine(true)
			}
			applyStyle(style, link)
			b.WriteString(token.text)
			visible += wordWidth
			suppressLeadingSpace = false
		}
	}
	flushLine(false)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

type runToken struct {
	text  string
	space bool
}

// tokenizeRun splits run text into words and single-space tokens. Any
// whitespace rune becomes one space so wrapping can collapse it at line
// boundaries.
func tokenizeRun(text string) []runToken {
	if text == "" {
		return nil
	}
	var tokens []runToken
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		tokens = append(tokens, runToken{text: buf.String()})
		buf.Reset()
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			flush()
			tokens = append(tokens, runToken{text: " ", space: true})
			continue
		}
		buf.WriteRune(r)
	}
	flush()
	return tokens
}

// tokenizeFlat splits plain text into words and whitespace runs, keeping the
// length of each run so unstyled output preserves spacing.
func tokenizeFlat(text string) []runToken {
	if text == "" {
		return nil
	}
	var tokens []runToken
	var buf strings.Builder
	inSpace := false
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		tokens = append(tokens, runToken{text: buf.String(), space: inSpace})
		buf.Reset()
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				flush()
				inSpace = true
			}
			buf.WriteRune(' ')
			continue
		}
		if inSpace {
			flush()
			inSpace = false
		}
		buf.WriteRune(r)
	}
	flush()
	return tokens
}

func wrapPlain(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	if text == "" {
		return []string{""}
	}
	tokens := tokenizeFlat(text)
	lines := make([]string, 0, 4)
	var b strings.Builder
	visible := 0
	suppressLeadingSpace := false
	flush := func(wrapped bool) {
		if b.Len() == 0 {
			return
		}
		lines = append(lines, b.String())
		b.Reset()
		visible = 0
		suppressLeadingSpace = wrapped
	}
	for _, token := range tokens {
		if token.text == "" {
			continue
		}
		if token.space {
			if visible == 0 && suppressLeadingSpace {
				continue
			}
			spaceLen := len(token.text)
			if visible+spaceLen > width {
				flush(true)
				continue
			}
			b.WriteString(token.text)
			visible += spaceLen
			continue
		}
		wordWidth := uniseg.StringWidth(token.text)
		if wordWidth > width {
			if visible > 0 {
				flush(true)
			}
			rest := token.text
			gstate := -1
			for rest != "" {
				var cluster string
				var w int
				cluster, rest, w, gstate = uniseg.FirstGraphemeClusterInString(rest, gstate)
				if cluster == "" {
					break
				}
				if visible+w > width && visible > 0 {
					flush(true)
				}
				b.WriteString(cluster)
				visible += w
				if visible >= width {
					flush(true)
				}
			}
			continue
		}
		if visible+wordWidth > width && visible > 0 {
			flush(true)
		}
		b.WriteString(token.text)
		visible += wordWidth
		suppressLeadingSpace = false
	}
	flush(false)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
