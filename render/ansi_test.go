package render

import "testing"

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "csi", in: "a\x1b[31mred", want: "ared"},
		{name: "osc-bel", in: "x\x1b]8;;https://x.test\x07y", want: "xy"},
		{name: "osc-st", in: "x\x1b]0;title\x1b\\y", want: "xy"},
		{name: "tab", in: "a\tb", want: "a    b"},
		{name: "carriage-return", in: "a\rb", want: "ab"},
		{name: "control", in: "a\x01b\x7fc", want: "abc"},
		{name: "bare-escape", in: "a\x1bz", want: "a"},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range tests {
		if got := sanitizeInput(tc.in); got != tc.want {
			t.Fatalf("%s: sanitizeInput(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"\x1b[1mabc\x1b[0m", 3},
		{"你好", 4},
		{"\x1b[38;2;1;2;3m你\x1b[0m", 2},
	}
	for _, tc := range tests {
		if got := visibleWidth(tc.in); got != tc.want {
			t.Fatalf("visibleWidth(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTrimANSIToWidth(t *testing.T) {
	if got := trimANSIToWidth("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected trim: %q", got)
	}
	if got := trimANSIToWidth("\x1b[1mabcdef", 3); got != "\x1b[1mabc" {
		t.Fatalf("expected escape kept before cut: %q", got)
	}
	if got := trimANSIToWidth("你好吗", 4); got != "你好" {
		t.Fatalf("expected wide runes to count double: %q", got)
	}
	// A wide rune that would straddle the boundary stays out entirely.
	if got := trimANSIToWidth("你好吗", 5); got != "你好" {
		t.Fatalf("expected straddling rune dropped: %q", got)
	}
	if got := trimANSIToWidth("abc", 0); got != "" {
		t.Fatalf("expected empty result for zero width: %q", got)
	}
}
