package analysis

import (
	"fmt"

	"github.com/shinyvision/phpscan/internal/tokens"
)

// callKeywords are language constructs written with call syntax.
var callKeywords = []string{"isset", "empty", "unset", "list", "array", "exit", "die", "eval"}

// runtimeKeywords are constructs whose value is only known at run time.
var runtimeKeywords = []string{
	"function", "fn", "new", "clone", "print", "eval", "exit", "die",
	"include", "include_once", "require", "require_once",
}

// GetFunctionArguments lists the arguments of the call whose name token is at
// nameIndex. A trailing comma does not produce an argument.
func GetFunctionArguments(t *tokens.Tokens, nameIndex int) ([]ArgumentAnalysis, error) {
	name := t.At(nameIndex)
	if !name.Is(tokens.KindIdentifier) && !name.IsKeyword(callKeywords...) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFunction, nameIndex)
	}
	open := t.NextMeaningful(nameIndex)
	if !t.At(open).Is(tokens.KindOpenParen) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFunction, nameIndex)
	}
	close, err := t.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}

	segments, err := splitTopLevel(t, open+1, close-1, tokens.KindComma)
	if err != nil {
		return nil, err
	}

	arguments := make([]ArgumentAnalysis, 0, len(segments))
	for _, segment := range segments {
		segment, ok := trim(t, segment)
		if !ok {
			continue
		}
		arguments = append(arguments, ArgumentAnalysis{
			StartIndex: segment.start,
			EndIndex:   segment.end,
			IsConstant: isConstant(t, segment),
		})
	}
	return arguments, nil
}

// isConstant walks the span once; a variable, an interpolated string, a call,
// an index access or a runtime construct anywhere in it makes the expression
// non-constant.
func isConstant(t *tokens.Tokens, s span) bool {
	for i := s.start; i <= s.end; i++ {
		tok := t.At(i)
		switch tok.Kind {
		case tokens.KindVariable, tokens.KindInterpolatedString, tokens.KindDollar:
			return false
		case tokens.KindOpenParen:
			prev := t.PrevMeaningful(i)
			if prev >= s.start && isCallee(t.At(prev)) {
				return false
			}
		case tokens.KindOpenBracket:
			if !t.IsShortArrayOpen(i) {
				return false
			}
		case tokens.KindKeyword:
			if tok.IsKeyword(runtimeKeywords...) {
				return false
			}
		}
	}
	return true
}

func isCallee(tok tokens.Token) bool {
	if tok.IsKeyword("array") {
		return false
	}
	if tok.Is(tokens.KindIdentifier, tokens.KindVariable, tokens.KindCloseParen,
		tokens.KindCloseBracket, tokens.KindCloseBrace, tokens.KindConstantString) {
		return true
	}
	return tok.IsKeyword(callKeywords...) || tok.IsKeyword("static", "class")
}
