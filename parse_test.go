package inkline

import (
	"reflect"
	"testing"
)

func TestParsePlain(t *testing.T) {
	got := Parse("hello")
	want := []StyledRun{{Kind: Plain, Text: "hello"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseEmpty(t *testing.T) {
	if got := Parse(""); got != nil {
		t.Fatalf("expected no runs for empty input, got %#v", got)
	}
}

func TestParseBold(t *testing.T) {
	got := Parse("**bold**")
	want := []StyledRun{{Kind: Bold, Text: "bold"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseBoldUnderscores(t *testing.T) {
	got := Parse("__bold__")
	want := []StyledRun{{Kind: Bold, Text: "bold"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseItalicBetweenPlain(t *testing.T) {
	got := Parse("plain *italic* more")
	want := []StyledRun{
		{Kind: Plain, Text: "plain "},
		{Kind: Italic, Text: "italic"},
		{Kind: Plain, Text: " more"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseStrikethrough(t *testing.T) {
	got := Parse("~~gone~~ kept")
	want := []StyledRun{
		{Kind: Strikethrough, Text: "gone"},
		{Kind: Plain, Text: " kept"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseUnderline(t *testing.T) {
	got := Parse("a <u>under</u> b")
	want := []StyledRun{
		{Kind: Plain, Text: "a "},
		{Kind: Underline, Text: "under"},
		{Kind: Plain, Text: " b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseLink(t *testing.T) {
	got := Parse("a [link](https://x.test) b")
	want := []StyledRun{
		{Kind: Plain, Text: "a "},
		{Kind: Link, Text: "link", URL: "https://x.test"},
		{Kind: Plain, Text: " b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseCodeThenBold(t *testing.T) {
	got := Parse("`code` and **bold**")
	want := []StyledRun{
		{Kind: InlineCode, Text: "code"},
		{Kind: Plain, Text: " and "},
		{Kind: Bold, Text: "bold"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseUnterminatedBold(t *testing.T) {
	got := Parse("**x")
	want := []StyledRun{{Kind: Plain, Text: "**x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseNoNesting(t *testing.T) {
	got := Parse("**a *b* c**")
	want := []StyledRun{{Kind: Bold, Text: "a *b* c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseLinkLabelStaysLiteral(t *testing.T) {
	got := Parse("[**x**](u)")
	want := []StyledRun{{Kind: Link, Text: "**x**", URL: "u"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseEarliestStartWins(t *testing.T) {
	got := Parse("*_x_*")
	want := []StyledRun{{Kind: Italic, Text: "_x_"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
	got = Parse("_*x*_")
	want = []StyledRun{{Kind: Italic, Text: "*x*"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
	got = Parse("**_x_**")
	want = []StyledRun{{Kind: Bold, Text: "_x_"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseShortestSpan(t *testing.T) {
	got := Parse("**a** and **b**")
	want := []StyledRun{
		{Kind: Bold, Text: "a"},
		{Kind: Plain, Text: " and "},
		{Kind: Bold, Text: "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseEmptyPairSlidesForward(t *testing.T) {
	got := Parse("****x**")
	want := []StyledRun{
		{Kind: Plain, Text: "**"},
		{Kind: Bold, Text: "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseAdjacentStyledRuns(t *testing.T) {
	got := Parse("`a``b`")
	want := []StyledRun{
		{Kind: InlineCode, Text: "a"},
		{Kind: InlineCode, Text: "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseDegenerateInputsStayPlain(t *testing.T) {
	for _, input := range []string{
		"****",
		"[]()",
		"[x]()",
		"``",
		"*",
		"~~~~",
		"<u></u>",
		"<u>x",
		"_",
		"** unclosed and *also",
	} {
		got := Parse(input)
		want := []StyledRun{{Kind: Plain, Text: input}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("input %q: unexpected runs: %#v", input, got)
		}
	}
}

func TestParseUnicodeOffsets(t *testing.T) {
	got := Parse("héllo **wörld** ✓")
	want := []StyledRun{
		{Kind: Plain, Text: "héllo "},
		{Kind: Bold, Text: "wörld"},
		{Kind: Plain, Text: " ✓"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestParseVisibleTextReconstruction(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"no markers at all", "no markers at all"},
		{"**a** *b* `c` ~~d~~ <u>e</u>", "a b c d e"},
		{"see [docs](https://x.test) now", "see docs now"},
		{"**a *b* c**", "a *b* c"},
		{"**x", "**x"},
		{"naïve **café** ☕", "naïve café ☕"},
	}
	for _, tc := range cases {
		if got := PlainText(Parse(tc.input)); got != tc.want {
			t.Fatalf("input %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFormatKindString(t *testing.T) {
	kinds := map[FormatKind]string{
		Plain:         "plain",
		Bold:          "bold",
		Italic:        "italic",
		Strikethrough: "strikethrough",
		Underline:     "underline",
		InlineCode:    "code",
		Link:          "link",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Fatalf("kind %d: got %q, want %q", kind, got, want)
		}
	}
	if got := FormatKind(250).String(); got != "unknown" {
		t.Fatalf("unexpected name for invalid kind: %q", got)
	}
}
