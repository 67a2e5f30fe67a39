package analysis

import "github.com/shinyvision/phpscan/internal/tokens"

// IsReference reports whether the `&` at index is a reference marker (by-ref
// assignment, return, parameter, foreach value, closure use or array value)
// rather than a bitwise AND. Only the surrounding tokens are inspected.
func IsReference(t *tokens.Tokens, index int) bool {
	if !t.At(index).Is(tokens.KindAmpersand) {
		return false
	}
	prevIndex := t.PrevMeaningful(index)
	prev := t.At(prevIndex)

	switch {
	case prev.Is(tokens.KindAssign, tokens.KindDoubleArrow):
		return true
	case prev.IsKeyword("as", "function", "fn"):
		return true
	case prev.Is(tokens.KindOpenParen, tokens.KindComma, tokens.KindOpenBracket):
		return true
	case isTypeToken(prev):
		return precedesOperand(t, index) && followsParameterStart(t, prevIndex)
	}
	return false
}

func isTypeToken(tok tokens.Token) bool {
	return tok.Is(tokens.KindIdentifier, tokens.KindNsSeparator, tokens.KindQuestion) ||
		tok.IsKeyword("callable", "array", "static") ||
		(tok.Is(tokens.KindOperator) && tok.Text == "|")
}

func precedesOperand(t *tokens.Tokens, index int) bool {
	return t.At(t.NextMeaningful(index)).Is(tokens.KindVariable, tokens.KindEllipsis)
}

// followsParameterStart walks back over a type declaration (and promotion
// modifiers) and reports whether it starts a parameter of a declaration.
func followsParameterStart(t *tokens.Tokens, typeIndex int) bool {
	i := typeIndex
	for {
		tok := t.At(i)
		if !isTypeToken(tok) && !tok.IsKeyword("public", "protected", "private", "readonly") {
			break
		}
		i = t.PrevMeaningful(i)
	}
	if t.At(i).Is(tokens.KindCloseBracket) {
		open, err := t.FindBlockStart(i)
		if err != nil || !t.At(open).Is(tokens.KindAttributeOpen) {
			return false
		}
		i = t.PrevMeaningful(open)
	}

	switch {
	case t.At(i).Is(tokens.KindOpenParen):
		return isParameterListOpen(t, i)
	case t.At(i).Is(tokens.KindComma):
		open := enclosingOpen(t, i)
		return t.At(open).Is(tokens.KindOpenParen) && isParameterListOpen(t, open)
	}
	return false
}

// isParameterListOpen reports whether the `(` at index opens the parameter
// list of a function, method, closure or arrow function.
func isParameterListOpen(t *tokens.Tokens, index int) bool {
	prev := t.PrevMeaningful(index)
	if t.At(prev).Is(tokens.KindIdentifier) {
		prev = t.PrevMeaningful(prev)
	}
	if t.At(prev).Is(tokens.KindAmpersand) {
		prev = t.PrevMeaningful(prev)
	}
	return t.At(prev).IsKeyword("function", "fn")
}

// enclosingOpen returns the index of the innermost unclosed bracket before
// index, or -1.
func enclosingOpen(t *tokens.Tokens, index int) int {
	for i := index - 1; i >= 0; i-- {
		tok := t.At(i)
		switch {
		case tok.Is(tokens.KindCloseParen, tokens.KindCloseBracket, tokens.KindCloseBrace):
			open, err := t.FindBlockStart(i)
			if err != nil {
				return -1
			}
			i = open
		case tok.IsOpener():
			return i
		}
	}
	return -1
}
