package analysis

import (
	"fmt"

	"github.com/shinyvision/phpscan/internal/tokens"
)

// GetElements lists the entries of the array literal opened at index, which
// must be a short-array `[` or the `array` keyword of `array(...)`.
func GetElements(t *tokens.Tokens, index int) ([]ArrayElementAnalysis, error) {
	open, err := arrayOpenIndex(t, index)
	if err != nil {
		return nil, err
	}
	close, err := t.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}

	segments, err := splitTopLevel(t, open+1, close-1, tokens.KindComma)
	if err != nil {
		return nil, err
	}

	elements := make([]ArrayElementAnalysis, 0, len(segments))
	for _, segment := range segments {
		segment, ok := trim(t, segment)
		if !ok {
			continue
		}
		element, err := arrayElement(t, segment)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return elements, nil
}

func arrayOpenIndex(t *tokens.Tokens, index int) (int, error) {
	tok := t.At(index)
	switch {
	case tok.Is(tokens.KindOpenBracket) && t.IsShortArrayOpen(index):
		return index, nil
	case tok.IsKeyword("array"):
		open := t.NextMeaningful(index)
		if t.At(open).Is(tokens.KindOpenParen) {
			return open, nil
		}
	}
	return -1, fmt.Errorf("%w: index %d", ErrNotArray, index)
}

func arrayElement(t *tokens.Tokens, s span) (ArrayElementAnalysis, error) {
	arrow, err := topLevelIndex(t, s.start, s.end, tokens.KindDoubleArrow)
	if err != nil {
		return ArrayElementAnalysis{}, err
	}
	if arrow < 0 {
		return ArrayElementAnalysis{ValueStartIndex: s.start, ValueEndIndex: s.end}, nil
	}

	key, keyOK := trim(t, span{start: s.start, end: arrow - 1})
	value, valueOK := trim(t, span{start: arrow + 1, end: s.end})
	if !keyOK || !valueOK {
		return ArrayElementAnalysis{}, fmt.Errorf("%w: incomplete array element at index %d", tokens.ErrUnterminated, arrow)
	}
	return ArrayElementAnalysis{
		KeyStartIndex:   &key.start,
		KeyEndIndex:     &key.end,
		ValueStartIndex: value.start,
		ValueEndIndex:   value.end,
	}, nil
}
