package analysis

import (
	"fmt"

	"github.com/shinyvision/phpscan/internal/tokens"
)

// GetSwitchAnalysis locates the body of the switch at switchIndex and the colon
// of every case or default label written directly in it. Nested switches,
// brackets, closures and alternative-syntax blocks are skipped whole.
func GetSwitchAnalysis(t *tokens.Tokens, switchIndex int) (SwitchAnalysis, error) {
	if !t.At(switchIndex).IsKeyword("switch") {
		return SwitchAnalysis{}, fmt.Errorf("%w: index %d", ErrNotSwitch, switchIndex)
	}
	open := t.NextMeaningful(switchIndex)
	if !t.At(open).Is(tokens.KindOpenParen) {
		return SwitchAnalysis{}, fmt.Errorf("%w: index %d has no subject", ErrNotSwitch, switchIndex)
	}
	close, err := t.FindBlockEnd(open)
	if err != nil {
		return SwitchAnalysis{}, err
	}

	casesStart := t.NextMeaningful(close)
	if !t.At(casesStart).Is(tokens.KindOpenBrace, tokens.KindColon) {
		return SwitchAnalysis{}, fmt.Errorf("%w: index %d has no body", ErrNotSwitch, switchIndex)
	}
	bodyEnd, err := t.FindBlockEnd(casesStart)
	if err != nil {
		return SwitchAnalysis{}, err
	}
	casesEnd := bodyEnd
	if t.At(casesStart).Is(tokens.KindColon) {
		if next := t.NextMeaningful(bodyEnd); t.At(next).Is(tokens.KindSemicolon) {
			casesEnd = next
		}
	}

	cases, err := collectCases(t, casesStart+1, bodyEnd)
	if err != nil {
		return SwitchAnalysis{}, err
	}
	return SwitchAnalysis{
		CasesStartIndex: casesStart,
		CasesEndIndex:   casesEnd,
		Cases:           cases,
	}, nil
}

// collectCases records one boundary per case or default keyword written
// directly in the body. Other colons, such as goto labels, are not cases.
func collectCases(t *tokens.Tokens, from, to int) ([]CaseAnalysis, error) {
	var cases []CaseAnalysis
	for i := from; i < to; i++ {
		tok := t.At(i)
		switch {
		case tok.IsKeyword("case", "default"):
			end, err := labelEnd(t, i, to)
			if err != nil {
				return nil, err
			}
			cases = append(cases, CaseAnalysis{ColonIndex: end})
			i = end
		case tok.IsKeyword("switch"):
			nested, err := GetSwitchAnalysis(t, i)
			if err != nil {
				return nil, err
			}
			i = nested.CasesEndIndex
		case tok.IsKeyword("function", "fn"):
			last, err := skipFunctionHeader(t, i)
			if err != nil {
				return nil, err
			}
			i = last
		case tok.IsOpener():
			end, err := t.FindBlockEnd(i)
			if err != nil {
				return nil, err
			}
			i = end
		case tok.Is(tokens.KindColon):
			if _, ok := t.AlternativeSyntaxKeyword(i); ok {
				end, err := t.FindBlockEnd(i)
				if err != nil {
					return nil, err
				}
				i = end
			}
		}
	}
	return cases, nil
}

// labelEnd finds the `:` or `;` ending the label started by the case or
// default keyword at keywordIndex.
func labelEnd(t *tokens.Tokens, keywordIndex, to int) (int, error) {
	// colons closing a ternary inside the label are not label ends
	ternaryDepth := 0
	for i := keywordIndex + 1; i < to; i++ {
		tok := t.At(i)
		switch {
		case tok.IsKeyword("function", "fn"):
			last, err := skipFunctionHeader(t, i)
			if err != nil {
				return -1, err
			}
			i = last
		case tok.IsOpener():
			end, err := t.FindBlockEnd(i)
			if err != nil {
				return -1, err
			}
			i = end
		case tok.Is(tokens.KindQuestion):
			ternaryDepth++
		case tok.Is(tokens.KindColon):
			if ternaryDepth == 0 {
				return i, nil
			}
			ternaryDepth--
		case tok.Is(tokens.KindSemicolon):
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: label at index %d", tokens.ErrUnterminated, keywordIndex)
}
