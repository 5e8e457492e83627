// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texscan locates LaTeX constructs inside document text in a
// single forward pass. A Locator slides a fixed-size window over the
// document for each configured opening literal (\begin{abstract},
// \abstract{, \begin{document}); once an opener is seen, the remaining
// characters go to that pattern's terminator, which either matches a
// closing literal or balances braces. All offsets are rune offsets.
package texscan

// Pattern describes one recognizable construct: an opening literal and
// how the construct ends. A non-empty Close means the construct ends at
// that exact closing literal (e.g. \end{abstract}). An empty Close means
// the construct is brace-delimited: Open must end in { and the construct
// runs until that brace is balanced.
type Pattern struct {
	Open  string
	Close string
}

// AbstractPatterns returns the patterns recognizing an abstract
// declaration, in match-priority order.
func AbstractPatterns() []Pattern {
	return []Pattern{
		{Open: `\begin{abstract}`, Close: `\end{abstract}`},
		{Open: `\abstract{`},
	}
}

// DocumentPatterns returns the pattern recognizing the document body.
func DocumentPatterns() []Pattern {
	return []Pattern{
		{Open: `\begin{document}`, Close: `\end{document}`},
	}
}

// Result reports the location of a recognized construct. Start is the
// rune offset of the opening literal's first character; End is one past
// the terminating character, so the construct spans [Start, End) in
// runes. When Found is false both offsets are -1: either no opener
// occurred, or one did but its terminator never fired before end of
// document.
type Result struct {
	Found bool
	Start int
	End   int
}

func notFound() Result {
	return Result{Found: false, Start: -1, End: -1}
}

// Snippet slices the construct r describes out of doc, by rune offsets.
// It returns "" when r is not a match or its offsets do not fit doc.
func Snippet(doc string, r Result) string {
	if !r.Found {
		return ""
	}
	runes := []rune(doc)
	if r.Start < 0 || r.End > len(runes) || r.Start >= r.End {
		return ""
	}
	return string(runes[r.Start:r.End])
}

// Locator scans documents for one fixed set of patterns. All scan state
// lives on the stack of Scan, so a single Locator may serve any number
// of documents, concurrently or repeatedly, with identical results.
type Locator struct {
	patterns []Pattern
}

// NewLocator builds a Locator for the given patterns. Pattern order is
// the tie-break: if two openers complete on the same character, the one
// listed first wins.
func NewLocator(patterns []Pattern) *Locator {
	return &Locator{patterns: append([]Pattern(nil), patterns...)}
}

// Locate scans doc once for patterns. It is shorthand for
// NewLocator(patterns).Scan(doc).
func Locate(doc string, patterns []Pattern) Result {
	return NewLocator(patterns).Scan(doc)
}

// candidate is the per-pattern matching state for one scan.
type candidate struct {
	pat  Pattern
	open []rune
	win  *window
}

// Scan runs one forward pass over doc and reports the first construct
// any pattern locates. Openers are matched by comparing each pattern's
// window of recent runes against its opening literal; the first window
// to match arms its pattern and every later rune feeds that pattern's
// terminator.
func (l *Locator) Scan(doc string) Result {
	cands := make([]candidate, 0, len(l.patterns))
	for _, p := range l.patterns {
		open := []rune(p.Open)
		if len(open) == 0 {
			continue
		}
		cands = append(cands, candidate{pat: p, open: open, win: newWindow(len(open))})
	}
	if len(cands) == 0 {
		return notFound()
	}

	stream := newCharStream(doc)

	var (
		term  terminator
		start int
	)
	for term == nil {
		r, ok := stream.next()
		if !ok {
			return notFound()
		}
		for i := range cands {
			c := &cands[i]
			c.win.push(r)
			if c.win.equals(c.open) {
				start = stream.consumed() - len(c.open)
				term = newTerminator(c.pat)
				break
			}
		}
	}

	for {
		r, ok := stream.next()
		if !ok {
			// The opener was seen but the construct never closed.
			// Matching the established report format, the start
			// offset is discarded along with the match.
			return notFound()
		}
		if term.feed(r) {
			return Result{Found: true, Start: start, End: stream.consumed()}
		}
	}
}
