// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package texscan

import "unicode/utf8"

// charStream is a forward-only, single-pass reader over a document's
// runes. It tracks how many runes have been consumed; all offsets a scan
// reports derive from that count. A stream cannot be rewound; create a
// fresh one per scan.
type charStream struct {
	rest string
	n    int
}

func newCharStream(doc string) *charStream {
	return &charStream{rest: doc}
}

// next returns the next rune, or false at end of stream. Each invalid
// UTF-8 byte decodes as one replacement rune, so byte-per-character
// encodings such as Latin-1 keep one offset per character.
func (s *charStream) next() (rune, bool) {
	if len(s.rest) == 0 {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.rest)
	s.rest = s.rest[size:]
	s.n++
	return r, true
}

// consumed returns the number of runes read so far.
func (s *charStream) consumed() int {
	return s.n
}
