package tokens

import "fmt"

// alternativeEnds maps each control keyword that supports the colon syntax to
// the keyword closing its block.
var alternativeEnds = map[string]string{
	"if":      "endif",
	"elseif":  "endif",
	"else":    "endif",
	"while":   "endwhile",
	"for":     "endfor",
	"foreach": "endforeach",
	"switch":  "endswitch",
	"declare": "enddeclare",
}

// FindBlockEnd returns the index of the token closing the block opened at
// openIndex. Bracket families ( `(`, `[` or `#[`, `{` ) are matched by depth;
// a colon that starts an alternative-syntax block is matched with its
// end<keyword>, resolving nested alternative blocks of every family.
func (t *Tokens) FindBlockEnd(openIndex int) (int, error) {
	tok := t.At(openIndex)
	switch tok.Kind {
	case KindOpenParen:
		return t.findBracketEnd(openIndex, KindCloseParen, KindOpenParen)
	case KindOpenBracket, KindAttributeOpen:
		return t.findBracketEnd(openIndex, KindCloseBracket, KindOpenBracket, KindAttributeOpen)
	case KindOpenBrace:
		return t.findBracketEnd(openIndex, KindCloseBrace, KindOpenBrace)
	case KindColon:
		if keyword, ok := t.AlternativeSyntaxKeyword(openIndex); ok {
			return t.findAlternativeEnd(openIndex, alternativeEnds[keyword])
		}
	}
	return -1, fmt.Errorf("%w: index %d (%s)", ErrNotBlockStart, openIndex, tok.Kind)
}

// FindBlockStart returns the index of the opener matching the closing bracket
// at closeIndex.
func (t *Tokens) FindBlockStart(closeIndex int) (int, error) {
	tok := t.At(closeIndex)
	var openers []Kind
	switch tok.Kind {
	case KindCloseParen:
		openers = []Kind{KindOpenParen}
	case KindCloseBracket:
		openers = []Kind{KindOpenBracket, KindAttributeOpen}
	case KindCloseBrace:
		openers = []Kind{KindOpenBrace}
	default:
		return -1, fmt.Errorf("%w: index %d (%s)", ErrNotBlockStart, closeIndex, tok.Kind)
	}

	depth := 0
	for i := closeIndex; i >= 0; i-- {
		cur := t.list[i]
		switch {
		case cur.Kind == tok.Kind:
			depth++
		case cur.Is(openers...):
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: no opener for index %d", ErrUnterminated, closeIndex)
}

func (t *Tokens) findBracketEnd(openIndex int, closer Kind, openers ...Kind) (int, error) {
	depth := 0
	for i := openIndex; i < len(t.list); i++ {
		cur := t.list[i]
		switch {
		case cur.Is(openers...):
			depth++
		case cur.Kind == closer:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: no %s for index %d", ErrUnterminated, closer, openIndex)
}

func (t *Tokens) findAlternativeEnd(colonIndex int, endKeyword string) (int, error) {
	for i := colonIndex + 1; i < len(t.list); i++ {
		cur := t.list[i]
		switch {
		case cur.IsOpener():
			end, err := t.FindBlockEnd(i)
			if err != nil {
				return -1, err
			}
			i = end
		case cur.Kind == KindColon:
			keyword, ok := t.AlternativeSyntaxKeyword(i)
			if !ok {
				continue
			}
			if endKeyword == "endif" && (keyword == "elseif" || keyword == "else") {
				continue
			}
			end, err := t.findAlternativeEnd(i, alternativeEnds[keyword])
			if err != nil {
				return -1, err
			}
			i = end
		case cur.IsKeyword(endKeyword):
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no %s for index %d", ErrUnterminated, endKeyword, colonIndex)
}

// AlternativeSyntaxKeyword reports whether the colon at index i starts an
// alternative-syntax block and, if so, which control keyword owns it.
func (t *Tokens) AlternativeSyntaxKeyword(i int) (string, bool) {
	if !t.At(i).Is(KindColon) {
		return "", false
	}
	prev := t.PrevMeaningful(i)
	if prev < 0 {
		return "", false
	}
	if t.list[prev].IsKeyword("else") {
		return "else", true
	}
	if !t.list[prev].Is(KindCloseParen) {
		return "", false
	}
	open, err := t.FindBlockStart(prev)
	if err != nil {
		return "", false
	}
	owner := t.At(t.PrevMeaningful(open))
	for keyword := range alternativeEnds {
		if keyword != "else" && owner.IsKeyword(keyword) {
			return keyword, true
		}
	}
	return "", false
}
