package tokens

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnterminated reports a construct whose end was not found before the
	// stream (or source) ended.
	ErrUnterminated = errors.New("unterminated construct")
	// ErrNotBlockStart reports a block lookup on a token that opens nothing.
	ErrNotBlockStart = errors.New("token does not open a block")
	// ErrUnexpectedCharacter reports a byte the lexer cannot place in any token.
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// Tokens is an index-stable, read-only sequence of tokens. Analyses refer to
// tokens by their index, so the sequence must not change while they are used.
type Tokens struct {
	list []Token
}

// New wraps an already lexed token list.
func New(list []Token) *Tokens {
	return &Tokens{list: list}
}

func (t *Tokens) Len() int {
	return len(t.list)
}

// At returns the token at index i. Out of range indices yield a Token of kind
// -1, which matches no Kind.
func (t *Tokens) At(i int) Token {
	if i < 0 || i >= len(t.list) {
		return Token{Kind: -1}
	}
	return t.list[i]
}

// Text concatenates the text of tokens start through end inclusive.
func (t *Tokens) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end >= len(t.list) {
		end = len(t.list) - 1
	}
	var b strings.Builder
	for i := start; i <= end; i++ {
		b.WriteString(t.list[i].Text)
	}
	return b.String()
}

// IndexAt returns the index of the token covering the byte offset, or -1
// when the offset lies outside the source.
func (t *Tokens) IndexAt(offset int) int {
	i := sort.Search(len(t.list), func(i int) bool {
		return t.list[i].End() > offset
	})
	if i == len(t.list) || offset < t.list[i].Offset {
		return -1
	}
	return i
}

// String renders the whole stream back into source text.
func (t *Tokens) String() string {
	return t.Text(0, len(t.list)-1)
}

// NextMeaningful returns the index of the first token after i that is neither
// whitespace nor a comment, or -1.
func (t *Tokens) NextMeaningful(i int) int {
	for j := i + 1; j < len(t.list); j++ {
		if t.list[j].IsMeaningful() {
			return j
		}
	}
	return -1
}

// PrevMeaningful is the backward counterpart of NextMeaningful.
func (t *Tokens) PrevMeaningful(i int) int {
	for j := i - 1; j >= 0; j-- {
		if t.list[j].IsMeaningful() {
			return j
		}
	}
	return -1
}

func (t *Tokens) NextNonWhitespace(i int) int {
	for j := i + 1; j < len(t.list); j++ {
		if !t.list[j].IsWhitespace() {
			return j
		}
	}
	return -1
}

func (t *Tokens) PrevNonWhitespace(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !t.list[j].IsWhitespace() {
			return j
		}
	}
	return -1
}

// NextOfKind returns the first token after i with one of the given kinds, or -1.
func (t *Tokens) NextOfKind(i int, kinds ...Kind) int {
	for j := i + 1; j < len(t.list); j++ {
		if t.list[j].Is(kinds...) {
			return j
		}
	}
	return -1
}

// IsShortArrayOpen tells a `[` that opens an array literal (or a destructuring
// list) from one that starts an index access, by looking at what precedes it.
func (t *Tokens) IsShortArrayOpen(i int) bool {
	if !t.At(i).Is(KindOpenBracket) {
		return false
	}
	prev := t.PrevMeaningful(i)
	if prev < 0 {
		return true
	}
	p := t.list[prev]
	switch p.Kind {
	case KindVariable, KindCloseBracket, KindCloseParen, KindIdentifier,
		KindConstantString, KindInterpolatedString:
		return false
	case KindCloseBrace:
		open, err := t.FindBlockStart(prev)
		if err != nil {
			return true
		}
		before := t.At(t.PrevMeaningful(open))
		return !before.Is(KindObjectOperator, KindNullsafeObjectOperator, KindDoubleColon, KindDollar, KindVariable)
	}
	return true
}
