package tokens

import (
	"bytes"
	"fmt"
	"strings"
)

type lexer struct {
	src    []byte
	pos    int
	tokens []Token
	inCode bool
}

// Tokenize splits PHP source into tokens. Whitespace and comments are kept as
// tokens of their own so that joining every token text reproduces src.
func Tokenize(src []byte) (*Tokens, error) {
	l := &lexer{
		src:    src,
		tokens: make([]Token, 0, len(src)/4+16),
	}
	for l.pos < len(l.src) {
		var err error
		if l.inCode {
			err = l.lexCode()
		} else {
			l.lexInlineHTML()
		}
		if err != nil {
			return nil, err
		}
	}
	return New(l.tokens), nil
}

// MustTokenize is Tokenize for sources known to be valid, such as test fixtures.
func MustTokenize(src string) *Tokens {
	t, err := Tokenize([]byte(src))
	if err != nil {
		panic(err)
	}
	return t
}

func (l *lexer) emit(kind Kind, end int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: string(l.src[l.pos:end]), Offset: l.pos})
	l.pos = end
}

func (l *lexer) lexInlineHTML() {
	rest := l.src[l.pos:]
	idx := indexOpenTag(rest)
	if idx < 0 {
		l.emit(KindInlineHTML, len(l.src))
		return
	}
	if idx > 0 {
		l.emit(KindInlineHTML, l.pos+idx)
	}
	l.inCode = true
	if bytes.HasPrefix(l.src[l.pos:], []byte("<?=")) {
		l.emit(KindOpenTagWithEcho, l.pos+3)
		return
	}
	end := l.pos + 5
	if end < len(l.src) {
		switch l.src[end] {
		case '\r':
			end++
			if end < len(l.src) && l.src[end] == '\n' {
				end++
			}
		case ' ', '\t', '\n':
			end++
		}
	}
	l.emit(KindOpenTag, end)
}

// indexOpenTag finds `<?php` (any case, followed by whitespace or EOF) or `<?=`.
func indexOpenTag(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] != '<' || b[i+1] != '?' {
			continue
		}
		if i+2 < len(b) && b[i+2] == '=' {
			return i
		}
		if i+5 <= len(b) && strings.EqualFold(string(b[i+2:i+5]), "php") {
			if i+5 == len(b) || isSpace(b[i+5]) {
				return i
			}
		}
	}
	return -1
}

func (l *lexer) lexCode() error {
	c := l.src[l.pos]
	switch {
	case isSpace(c):
		end := l.pos
		for end < len(l.src) && isSpace(l.src[end]) {
			end++
		}
		l.emit(KindWhitespace, end)
	case c == '?' && l.peek(1) == '>':
		end := l.pos + 2
		if end < len(l.src) && l.src[end] == '\n' {
			end++
		} else if end+1 < len(l.src) && l.src[end] == '\r' && l.src[end+1] == '\n' {
			end += 2
		}
		l.emit(KindCloseTag, end)
		l.inCode = false
	case c == '#' && l.peek(1) == '[':
		l.emit(KindAttributeOpen, l.pos+2)
	case c == '#' || (c == '/' && l.peek(1) == '/'):
		l.emit(KindComment, l.lineCommentEnd())
	case c == '/' && l.peek(1) == '*':
		return l.lexBlockComment()
	case c == '$' && isNameStart(l.peek(1)):
		l.emit(KindVariable, l.nameEnd(l.pos+1))
	case isNameStart(c):
		l.lexWord()
	case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
		l.emit(KindNumber, l.numberEnd())
	case c == '\'':
		end, err := l.quotedEnd('\'')
		if err != nil {
			return err
		}
		l.emit(KindConstantString, end)
	case c == '"' || c == '`':
		end, err := l.quotedEnd(c)
		if err != nil {
			return err
		}
		kind := KindConstantString
		if c == '`' || hasInterpolation(l.src[l.pos+1:end-1]) {
			kind = KindInterpolatedString
		}
		l.emit(kind, end)
	case c == '<' && bytes.HasPrefix(l.src[l.pos:], []byte("<<<")):
		return l.lexHeredoc()
	case c == '(':
		if end, ok := l.castEnd(); ok {
			l.emit(KindCast, end)
			return nil
		}
		l.emit(KindOpenParen, l.pos+1)
	default:
		return l.lexOperator()
	}
	return nil
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

// lineCommentEnd stops before the newline or a closing tag.
func (l *lexer) lineCommentEnd() int {
	end := l.pos
	for end < len(l.src) {
		c := l.src[end]
		if c == '\n' || c == '\r' {
			break
		}
		if c == '?' && end+1 < len(l.src) && l.src[end+1] == '>' {
			break
		}
		end++
	}
	return end
}

func (l *lexer) lexBlockComment() error {
	idx := bytes.Index(l.src[l.pos+2:], []byte("*/"))
	if idx < 0 {
		return fmt.Errorf("%w: comment at offset %d", ErrUnterminated, l.pos)
	}
	end := l.pos + 2 + idx + 2
	kind := KindComment
	if l.peek(2) == '*' && isSpace(l.peek(3)) {
		kind = KindDocComment
	}
	l.emit(kind, end)
	return nil
}

func (l *lexer) nameEnd(from int) int {
	end := from
	for end < len(l.src) && isNameChar(l.src[end]) {
		end++
	}
	return end
}

func (l *lexer) lexWord() {
	end := l.nameEnd(l.pos)
	word := strings.ToLower(string(l.src[l.pos:end]))
	kind := KindIdentifier
	if _, ok := keywords[word]; ok && !l.afterMemberAccess(word) {
		kind = KindKeyword
	}
	l.emit(kind, end)
}

// afterMemberAccess reports whether a keyword-looking word is used as a name:
// after `->`, `?->`, `::` (except `::class`), `function` and `const`.
func (l *lexer) afterMemberAccess(word string) bool {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		prev := l.tokens[i]
		if !prev.IsMeaningful() {
			continue
		}
		switch {
		case prev.Is(KindObjectOperator, KindNullsafeObjectOperator):
			return true
		case prev.Is(KindDoubleColon):
			return word != "class"
		case prev.IsKeyword("function", "const"):
			return true
		case prev.Is(KindAmpersand):
			return i > 0 && l.prevMeaningfulIsFunction(i)
		}
		return false
	}
	return false
}

func (l *lexer) prevMeaningfulIsFunction(before int) bool {
	for i := before - 1; i >= 0; i-- {
		if l.tokens[i].IsMeaningful() {
			return l.tokens[i].IsKeyword("function")
		}
	}
	return false
}

func (l *lexer) numberEnd() int {
	end := l.pos
	src := l.src
	if src[end] == '0' && end+1 < len(src) && strings.IndexByte("xXbBoO", src[end+1]) >= 0 {
		end += 2
		for end < len(src) && (isHexDigit(src[end]) || src[end] == '_') {
			end++
		}
		return end
	}
	for end < len(src) && (isDigit(src[end]) || src[end] == '_') {
		end++
	}
	if end < len(src) && src[end] == '.' && (end+1 >= len(src) || src[end+1] != '.') {
		end++
		for end < len(src) && (isDigit(src[end]) || src[end] == '_') {
			end++
		}
	}
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		next := end + 1
		if next < len(src) && (src[next] == '+' || src[next] == '-') {
			next++
		}
		if next < len(src) && isDigit(src[next]) {
			end = next
			for end < len(src) && isDigit(src[end]) {
				end++
			}
		}
	}
	return end
}

func (l *lexer) quotedEnd(quote byte) (int, error) {
	end, ok := scanQuoted(l.src, l.pos+1, quote)
	if !ok {
		return -1, fmt.Errorf("%w: string at offset %d", ErrUnterminated, l.pos)
	}
	return end, nil
}

// scanQuoted returns the offset just past the closing quote of a string whose
// body starts at from. Outside single quotes, `{$...}` and `${...}`
// expressions are skipped whole, so quotes inside them do not end the string.
func scanQuoted(src []byte, from int, quote byte) (int, bool) {
	for i := from; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\\':
			i++
		case c == quote:
			return i + 1, true
		case quote == '\'':
			// no interpolation
		case c == '{' && i+1 < len(src) && src[i+1] == '$',
			c == '$' && i+1 < len(src) && src[i+1] == '{':
			if c == '$' {
				i++
			}
			end, ok := scanEmbedded(src, i)
			if !ok {
				return -1, false
			}
			i = end - 1
		}
	}
	return -1, false
}

// scanEmbedded returns the offset just past the `}` matching the `{` at open.
func scanEmbedded(src []byte, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch c := src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '\'', '"', '`':
			end, ok := scanQuoted(src, i+1, c)
			if !ok {
				return -1, false
			}
			i = end - 1
		}
	}
	return -1, false
}

// hasInterpolation reports whether a double-quoted or heredoc body embeds a
// variable or an expression.
func hasInterpolation(body []byte) bool {
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '$':
			if i+1 < len(body) && (isNameStart(body[i+1]) || body[i+1] == '{') {
				return true
			}
		case '{':
			if i+1 < len(body) && body[i+1] == '$' {
				return true
			}
		}
	}
	return false
}

func (l *lexer) lexHeredoc() error {
	i := l.pos + 3
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	nowdoc := false
	quote := byte(0)
	if i < len(l.src) && (l.src[i] == '\'' || l.src[i] == '"') {
		quote = l.src[i]
		nowdoc = quote == '\''
		i++
	}
	labelStart := i
	for i < len(l.src) && isNameChar(l.src[i]) {
		i++
	}
	label := string(l.src[labelStart:i])
	if label == "" {
		return l.lexOperator()
	}
	if quote != 0 {
		if i >= len(l.src) || l.src[i] != quote {
			return fmt.Errorf("%w: heredoc label at offset %d", ErrUnterminated, l.pos)
		}
		i++
	}
	bodyStart := i
	for i < len(l.src) {
		nl := bytes.IndexByte(l.src[i:], '\n')
		if nl < 0 {
			break
		}
		line := i + nl + 1
		j := line
		for j < len(l.src) && (l.src[j] == ' ' || l.src[j] == '\t') {
			j++
		}
		if bytes.HasPrefix(l.src[j:], []byte(label)) {
			end := j + len(label)
			if end >= len(l.src) || !isNameChar(l.src[end]) {
				kind := KindConstantString
				if !nowdoc && hasInterpolation(l.src[bodyStart:line]) {
					kind = KindInterpolatedString
				}
				l.emit(kind, end)
				return nil
			}
		}
		i = line
	}
	return fmt.Errorf("%w: heredoc %s at offset %d", ErrUnterminated, label, l.pos)
}

func (l *lexer) castEnd() (int, bool) {
	i := l.pos + 1
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	start := i
	for i < len(l.src) && isNameChar(l.src[i]) {
		i++
	}
	if _, ok := castTypes[strings.ToLower(string(l.src[start:i]))]; !ok {
		return 0, false
	}
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	if i < len(l.src) && l.src[i] == ')' {
		return i + 1, true
	}
	return 0, false
}

func (l *lexer) lexOperator() error {
	rest := l.src[l.pos:]
	for _, op := range operators {
		if bytes.HasPrefix(rest, []byte(op)) {
			l.emitOperator(op)
			return nil
		}
	}
	if strings.IndexByte(singleOperators, rest[0]) >= 0 {
		l.emitOperator(string(rest[0]))
		return nil
	}
	return fmt.Errorf("%w: %q at offset %d", ErrUnexpectedCharacter, rest[0], l.pos)
}

func (l *lexer) emitOperator(op string) {
	kind, ok := punctuation[op]
	if !ok {
		kind = KindOperator
	}
	l.emit(kind, l.pos+len(op))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}
