package php

import (
	"sort"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LineIndex maps byte offsets to LSP positions, whose characters count
// UTF-16 code units.
type LineIndex struct {
	content []byte
	starts  []int
}

func NewLineIndex(content []byte) *LineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{content: content, starts: starts}
}

// Position converts a byte offset; offsets past the end clamp to it.
func (l *LineIndex) Position(offset int) protocol.Position {
	offset = max(0, min(offset, len(l.content)))
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	var units uint32
	for i := l.starts[line]; i < offset; {
		r, size := utf8.DecodeRune(l.content[i:])
		units += utf16Len(r)
		i += size
	}
	return protocol.Position{Line: uint32(line), Character: units}
}

// Offset converts a position back to a byte offset. Characters past the end
// of the line clamp to the line end; lines past the end yield -1.
func (l *LineIndex) Offset(pos protocol.Position) int {
	if int(pos.Line) >= len(l.starts) {
		return -1
	}
	offset := l.starts[pos.Line]
	need := pos.Character
	for offset < len(l.content) {
		b := l.content[offset]
		if b == '\n' || b == '\r' {
			break
		}
		r, size := utf8.DecodeRune(l.content[offset:])
		u := utf16Len(r)
		if need < u {
			break
		}
		need -= u
		offset += size
	}
	return offset
}

// Range spans the byte range start..end (exclusive).
func (l *LineIndex) Range(start, end int) protocol.Range {
	return protocol.Range{Start: l.Position(start), End: l.Position(end)}
}

func utf16Len(r rune) uint32 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
