package tokens

import "strings"

// Token is one lexical unit of PHP source. Offset is the byte offset of Text
// within the tokenized source.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// Is reports whether the token has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsKeyword reports whether the token is one of the given keywords. Keywords
// are compared case-insensitively; words must be passed in lower case.
func (t Token) IsKeyword(words ...string) bool {
	if t.Kind != KindKeyword {
		return false
	}
	lower := strings.ToLower(t.Text)
	for _, w := range words {
		if lower == w {
			return true
		}
	}
	return false
}

func (t Token) IsWhitespace() bool {
	return t.Kind == KindWhitespace
}

// IsComment is true for both regular and doc comments.
func (t Token) IsComment() bool {
	return t.Kind == KindComment || t.Kind == KindDocComment
}

// IsMeaningful is false for whitespace and comments.
func (t Token) IsMeaningful() bool {
	return !t.IsWhitespace() && !t.IsComment()
}

// IsOpener reports whether the token opens a bracketed block.
func (t Token) IsOpener() bool {
	return t.Is(KindOpenParen, KindOpenBracket, KindOpenBrace, KindAttributeOpen)
}

// End is the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}
