// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package texscan

// terminator consumes the characters following an armed opening pattern
// and reports, per character, whether the construct just ended.
type terminator interface {
	feed(r rune) bool
}

// newTerminator selects the termination style for a pattern: an exact
// closing literal when one is configured, brace balancing otherwise.
func newTerminator(p Pattern) terminator {
	if p.Close != "" {
		return newKeywordTerminator(p.Close)
	}
	return newBraceTerminator()
}

// keywordTerminator matches a fixed closing literal with the same
// sliding-window technique used for openers.
type keywordTerminator struct {
	lit []rune
	win *window
}

func newKeywordTerminator(lit string) *keywordTerminator {
	runes := []rune(lit)
	return &keywordTerminator{lit: runes, win: newWindow(len(runes))}
}

func (t *keywordTerminator) feed(r rune) bool {
	t.win.push(r)
	return t.win.equals(t.lit)
}

// braceTerminator tracks {/} nesting depth. The brace that opened the
// construct is the final character of the opening literal and has
// already been consumed when control transfers here, so depth starts at
// one; the } that brings it back to zero ends the construct.
type braceTerminator struct {
	depth int
}

func newBraceTerminator() *braceTerminator {
	return &braceTerminator{depth: 1}
}

func (t *braceTerminator) feed(r rune) bool {
	switch r {
	case '{':
		t.depth++
	case '}':
		t.depth--
		if t.depth <= 0 {
			return true
		}
	}
	return false
}

// window is a fixed-capacity ring holding the most recently pushed
// runes. It avoids the per-character allocation a grow-and-trim buffer
// would pay.
type window struct {
	buf  []rune
	size int
	n    int
}

func newWindow(size int) *window {
	return &window{buf: make([]rune, size), size: size}
}

// push appends r, evicting the oldest rune once the window is full.
func (w *window) push(r rune) {
	w.buf[w.n%w.size] = r
	w.n++
}

// equals reports whether the window is full and holds exactly lit.
// The oldest rune lives at index n mod size, which is also the slot the
// next push will overwrite.
func (w *window) equals(lit []rune) bool {
	if w.n < w.size {
		return false
	}
	for i, r := range lit {
		if w.buf[(w.n+i)%w.size] != r {
			return false
		}
	}
	return true
}
