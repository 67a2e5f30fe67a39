package analysis

import "github.com/shinyvision/phpscan/internal/tokens"

// splitTopLevel cuts start..end (inclusive) on separators that are not nested
// inside brackets. Segments are returned untrimmed; the last one may be empty.
func splitTopLevel(t *tokens.Tokens, start, end int, separator tokens.Kind) ([]span, error) {
	var segments []span
	segmentStart := start
	for i := start; i <= end; i++ {
		tok := t.At(i)
		if tok.IsOpener() {
			close, err := t.FindBlockEnd(i)
			if err != nil {
				return nil, err
			}
			i = close
			continue
		}
		if tok.Is(separator) {
			segments = append(segments, span{start: segmentStart, end: i - 1})
			segmentStart = i + 1
		}
	}
	return append(segments, span{start: segmentStart, end: end}), nil
}

// trim narrows a span to its first and last meaningful tokens. It reports
// false when the span holds only whitespace and comments.
func trim(t *tokens.Tokens, s span) (span, bool) {
	start := s.start
	for start <= s.end && !t.At(start).IsMeaningful() {
		start++
	}
	end := s.end
	for end >= start && !t.At(end).IsMeaningful() {
		end--
	}
	if start > end {
		return span{}, false
	}
	return span{start: start, end: end}, true
}

// topLevelIndex returns the first separator of the given kind in start..end
// that is not nested in brackets and not part of an arrow function header.
func topLevelIndex(t *tokens.Tokens, start, end int, kind tokens.Kind) (int, error) {
	for i := start; i <= end; i++ {
		tok := t.At(i)
		switch {
		case tok.IsOpener():
			close, err := t.FindBlockEnd(i)
			if err != nil {
				return -1, err
			}
			i = close
		case tok.IsKeyword("fn"):
			last, err := skipFunctionHeader(t, i)
			if err != nil {
				return -1, err
			}
			i = last
			if arrow := t.NextMeaningful(last); t.At(arrow).Is(tokens.KindDoubleArrow) {
				i = arrow
			}
		case tok.Is(kind):
			return i, nil
		}
	}
	return -1, nil
}

// skipFunctionHeader moves from a `function` or `fn` keyword past its
// parameter list, closure `use` list and return type. The returned index is
// the last header token, so scanning resumes at the body or arrow.
func skipFunctionHeader(t *tokens.Tokens, index int) (int, error) {
	open := t.NextOfKind(index, tokens.KindOpenParen)
	if open < 0 {
		return index, nil
	}
	close, err := t.FindBlockEnd(open)
	if err != nil {
		return -1, err
	}
	next := t.NextMeaningful(close)
	if t.At(next).IsKeyword("use") {
		useOpen := t.NextMeaningful(next)
		if close, err = t.FindBlockEnd(useOpen); err != nil {
			return -1, err
		}
		next = t.NextMeaningful(close)
	}
	if !t.At(next).Is(tokens.KindColon) {
		return close, nil
	}
	last := next
	for i := next + 1; i < t.Len(); i++ {
		tok := t.At(i)
		if tok.Is(tokens.KindOpenBrace, tokens.KindDoubleArrow, tokens.KindSemicolon) {
			break
		}
		if tok.IsOpener() {
			end, err := t.FindBlockEnd(i)
			if err != nil {
				return -1, err
			}
			i = end
		}
		last = i
	}
	return last, nil
}
