package inkline

// candidate is one pattern's first match within the unconsumed remainder,
// produced fresh each scan step. Offsets and lengths are rune counts so
// multi-byte input slices cleanly.
type candidate struct {
	kind    FormatKind
	content string
	url     string
	start   int // rune offset from the scan cursor
	length  int // full span length in runes, markers included
}

var (
	boldStars  = []rune("**")
	boldUnders = []rune("__")
	strikePair = []rune("~~")
	underOpen  = []rune("<u>")
	underClose = []rune("</u>")
	codeTick   = []rune("`")
)

// Parse scans input left to right and returns its ordered styled runs.
// It never fails: text that matches no pattern, including unterminated or
// empty marker pairs, comes back as plain runs. Parse is pure and safe to
// call concurrently.
func Parse(input string) []StyledRun {
	if input == "" {
		return nil
	}
	src := []rune(input)
	var runs []StyledRun
	cur := 0
	for cur < len(src) {
		c, ok := nextCandidate(src[cur:])
		if !ok {
			runs = append(runs, StyledRun{Kind: Plain, Text: string(src[cur:])})
			break
		}
		if c.start > 0 {
			runs = append(runs, StyledRun{Kind: Plain, Text: string(src[cur : cur+c.start])})
		}
		runs = append(runs, StyledRun{Kind: c.kind, Text: c.content, URL: c.url})
		cur += c.start + c.length
	}
	return runs
}

// nextCandidate evaluates every pattern against rem and returns the match
// starting closest to the cursor. An exact offset tie goes to the pattern
// listed first: bold (**), bold (__), italic (*), italic (_), strikethrough,
// underline, inline code, link. Swapping this order changes behavior on
// inputs like "*_x_*", so it is fixed and tested.
func nextCandidate(rem []rune) (candidate, bool) {
	var best candidate
	found := false
	consider := func(c candidate, ok bool) {
		if !ok || (found && c.start >= best.start) {
			return
		}
		best = c
		found = true
	}
	consider(findSpan(rem, boldStars, boldStars, Bold))
	consider(findSpan(rem, boldUnders, boldUnders, Bold))
	consider(findSingle(rem, '*', Italic))
	consider(findSingle(rem, '_', Italic))
	consider(findSpan(rem, strikePair, strikePair, Strikethrough))
	consider(findSpan(rem, underOpen, underClose, Underline))
	consider(findSpan(rem, codeTick, codeTick, InlineCode))
	consider(findLink(rem))
	return best, found
}

// findSpan locates the first span delimited by open and close with non-empty
// inner content. An empty pair (close immediately after open) slides the
// search forward so zero-width markup never matches and never loops.
func findSpan(rem, open, close []rune, kind FormatKind) (candidate, bool) {
	from := 0
	for {
		o := indexRunes(rem, open, from)
		if o < 0 {
			return candidate{}, false
		}
		inner := o + len(open)
		c := indexRunes(rem, close, inner)
		if c < 0 {
			return candidate{}, false
		}
		if c > inner {
			return candidate{
				kind:    kind,
				content: string(rem[inner:c]),
				start:   o,
				length:  c + len(close) - o,
			}, true
		}
		from = inner
	}
}

// findSingle locates the first pair of isolated single-rune markers. A
// marker touching another of its own kind belongs to a double marker and
// neither opens nor closes a single span, which keeps *italic* out of the
// middle of **bold**. Two isolated markers are never adjacent, so the inner
// content is always non-empty.
func findSingle(rem []rune, marker rune, kind FormatKind) (candidate, bool) {
	open := -1
	for i := 0; i < len(rem); i++ {
		if rem[i] != marker || !isolated(rem, i, marker) {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		return candidate{
			kind:    kind,
			content: string(rem[open+1 : i]),
			start:   open,
			length:  i - open + 1,
		}, true
	}
	return candidate{}, false
}

func isolated(rem []rune, i int, marker rune) bool {
	if i > 0 && rem[i-1] == marker {
		return false
	}
	if i+1 < len(rem) && rem[i+1] == marker {
		return false
	}
	return true
}

// findLink locates the first [text](url) group. Both the label and the URL
// must be non-empty; a bracket pair that is not followed directly by a
// parenthesized URL is skipped and the search resumes at the next bracket.
func findLink(rem []rune) (candidate, bool) {
	from := 0
	for {
		lb := indexRune(rem, '[', from)
		if lb < 0 {
			return candidate{}, false
		}
		rb := indexRune(rem, ']', lb+1)
		if rb < 0 {
			return candidate{}, false
		}
		if rb == lb+1 || rb+1 >= len(rem) || rem[rb+1] != '(' {
			from = lb + 1
			continue
		}
		rp := indexRune(rem, ')', rb+2)
		if rp < 0 {
			return candidate{}, false
		}
		if rp == rb+2 {
			from = lb + 1
			continue
		}
		return candidate{
			kind:    Link,
			content: string(rem[lb+1 : rb]),
			url:     string(rem[rb+2 : rp]),
			start:   lb,
			length:  rp - lb + 1,
		}, true
	}
}

func indexRunes(rem, marker []rune, from int) int {
	if from < 0 {
		from = 0
	}
outer:
	for i := from; i+len(marker) <= len(rem); i++ {
		for j, r := range marker {
			if rem[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func indexRune(rem []rune, r rune, from int) int {
	for i := from; i < len(rem); i++ {
		if rem[i] == r {
			return i
		}
	}
	return -1
}
