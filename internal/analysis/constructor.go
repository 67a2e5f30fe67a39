package analysis

import (
	"fmt"
	"strings"

	"github.com/shinyvision/phpscan/internal/tokens"
)

// ConstructorAnalysis describes a non-abstract constructor. Its views are
// recomputed from the token stream on every call.
type ConstructorAnalysis struct {
	ConstructorIndex int

	tokens     *tokens.Tokens
	parameters []parameter
	bodyOpen   int
	bodyClose  int
}

type parameter struct {
	span
	// first token after any attributes
	declStart int
	nameIndex int
}

// FindNonAbstractConstructor looks for a `__construct` method declared
// directly in the body of the class, trait, interface or enum at classIndex.
// It returns nil when there is none or when the constructor is abstract.
// Interface constructors are always abstract.
func FindNonAbstractConstructor(t *tokens.Tokens, classIndex int) (*ConstructorAnalysis, error) {
	kind, ok := ClassLikeKind(t, classIndex)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNotClass, classIndex)
	}
	open, err := classBodyOpen(t, classIndex)
	if err != nil {
		return nil, err
	}
	close, err := t.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}
	if kind == "interface" {
		return nil, nil
	}

	for i := open + 1; i < close; i++ {
		tok := t.At(i)
		if tok.IsOpener() {
			if i, err = t.FindBlockEnd(i); err != nil {
				return nil, err
			}
			continue
		}
		if !tok.IsKeyword("function") || !isConstructorName(t, i) {
			continue
		}
		if hasModifier(t, i, "abstract") {
			return nil, nil
		}
		return newConstructorAnalysis(t, i)
	}
	return nil, nil
}

// ClassLikeKind reports which declaration keyword sits at index: "class",
// "trait", "interface" or "enum". `Foo::class` is not a declaration, and enum
// is a soft keyword that only counts when a name follows it.
func ClassLikeKind(t *tokens.Tokens, index int) (string, bool) {
	tok := t.At(index)
	switch {
	case tok.IsKeyword("class"):
		if t.At(t.PrevMeaningful(index)).Is(tokens.KindDoubleColon) {
			return "", false
		}
		return "class", true
	case tok.IsKeyword("trait", "interface"):
		return strings.ToLower(tok.Text), true
	case tok.Is(tokens.KindIdentifier) && strings.EqualFold(tok.Text, "enum"):
		if !t.At(t.NextMeaningful(index)).Is(tokens.KindIdentifier) {
			return "", false
		}
		prev := t.At(t.PrevMeaningful(index))
		if prev.Is(tokens.KindObjectOperator, tokens.KindNullsafeObjectOperator, tokens.KindDoubleColon, tokens.KindNsSeparator) {
			return "", false
		}
		return "enum", true
	}
	return "", false
}

// classBodyOpen skips the name, extends/implements clauses and, for anonymous
// classes, the constructor arguments.
func classBodyOpen(t *tokens.Tokens, classIndex int) (int, error) {
	for i := classIndex + 1; i < t.Len(); i++ {
		tok := t.At(i)
		switch {
		case tok.Is(tokens.KindOpenBrace):
			return i, nil
		case tok.Is(tokens.KindOpenParen):
			end, err := t.FindBlockEnd(i)
			if err != nil {
				return -1, err
			}
			i = end
		case tok.Is(tokens.KindSemicolon):
			return -1, fmt.Errorf("%w: index %d", ErrNotClass, classIndex)
		}
	}
	return -1, fmt.Errorf("%w: class body for index %d", tokens.ErrUnterminated, classIndex)
}

func isConstructorName(t *tokens.Tokens, functionIndex int) bool {
	name := t.NextMeaningful(functionIndex)
	if t.At(name).Is(tokens.KindAmpersand) {
		name = t.NextMeaningful(name)
	}
	tok := t.At(name)
	return tok.Is(tokens.KindIdentifier) && strings.EqualFold(tok.Text, "__construct")
}

// hasModifier walks back over the method modifiers and attributes preceding
// functionIndex.
func hasModifier(t *tokens.Tokens, functionIndex int, modifier string) bool {
	for i := t.PrevMeaningful(functionIndex); i >= 0; i = t.PrevMeaningful(i) {
		tok := t.At(i)
		switch {
		case tok.IsKeyword(modifier):
			return true
		case tok.IsKeyword("public", "protected", "private", "static", "final", "abstract"):
		case tok.Is(tokens.KindCloseBracket):
			open, err := t.FindBlockStart(i)
			if err != nil || !t.At(open).Is(tokens.KindAttributeOpen) {
				return false
			}
			i = open
		default:
			return false
		}
	}
	return false
}

func newConstructorAnalysis(t *tokens.Tokens, functionIndex int) (*ConstructorAnalysis, error) {
	open := t.NextOfKind(functionIndex, tokens.KindOpenParen)
	if open < 0 {
		return nil, fmt.Errorf("%w: parameters of constructor at index %d", tokens.ErrUnterminated, functionIndex)
	}
	close, err := t.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}
	segments, err := splitTopLevel(t, open+1, close-1, tokens.KindComma)
	if err != nil {
		return nil, err
	}

	analysis := &ConstructorAnalysis{
		ConstructorIndex: functionIndex,
		tokens:           t,
		bodyOpen:         -1,
		bodyClose:        -1,
	}
	for _, segment := range segments {
		segment, ok := trim(t, segment)
		if !ok {
			continue
		}
		param, err := newParameter(t, segment)
		if err != nil {
			return nil, err
		}
		analysis.parameters = append(analysis.parameters, param)
	}

	if body := t.NextMeaningful(close); t.At(body).Is(tokens.KindOpenBrace) {
		bodyClose, err := t.FindBlockEnd(body)
		if err != nil {
			return nil, err
		}
		analysis.bodyOpen, analysis.bodyClose = body, bodyClose
	} else if t.At(body).Is(tokens.KindColon) {
		// return types are not allowed on constructors but still lint
		if brace := t.NextOfKind(body, tokens.KindOpenBrace); brace >= 0 {
			bodyClose, err := t.FindBlockEnd(brace)
			if err != nil {
				return nil, err
			}
			analysis.bodyOpen, analysis.bodyClose = brace, bodyClose
		}
	}
	return analysis, nil
}

func newParameter(t *tokens.Tokens, s span) (parameter, error) {
	p := parameter{span: s, declStart: -1, nameIndex: -1}
	for i := s.start; i <= s.end; i++ {
		tok := t.At(i)
		if tok.Is(tokens.KindAttributeOpen) {
			end, err := t.FindBlockEnd(i)
			if err != nil {
				return parameter{}, err
			}
			i = end
			continue
		}
		if !tok.IsMeaningful() {
			continue
		}
		if p.declStart < 0 {
			p.declStart = i
		}
		if tok.Is(tokens.KindVariable) {
			p.nameIndex = i
			break
		}
	}
	return p, nil
}

// ParameterNames returns every parameter's `$name` in declaration order.
func (c *ConstructorAnalysis) ParameterNames() []string {
	names := make([]string, 0, len(c.parameters))
	for _, p := range c.parameters {
		if p.nameIndex >= 0 {
			names = append(names, c.tokens.At(p.nameIndex).Text)
		}
	}
	return names
}

// PromotableParameters returns the typed parameters that could become promoted
// properties, keyed by the index of their first token after any attributes.
// Untyped, variadic, callable and already promoted parameters are left out.
func (c *ConstructorAnalysis) PromotableParameters() map[int]string {
	result := make(map[int]string)
	for _, p := range c.parameters {
		if p.nameIndex < 0 || c.isPromoted(p) {
			continue
		}
		typeEnd := c.tokens.PrevMeaningful(p.nameIndex)
		if c.tokens.At(typeEnd).Is(tokens.KindAmpersand) {
			typeEnd = c.tokens.PrevMeaningful(typeEnd)
		}
		if typeEnd < p.declStart {
			continue
		}
		typeTok := c.tokens.At(typeEnd)
		if typeTok.Is(tokens.KindEllipsis) || typeTok.IsKeyword("callable") {
			continue
		}
		result[p.declStart] = c.tokens.At(p.nameIndex).Text
	}
	return result
}

func (c *ConstructorAnalysis) isPromoted(p parameter) bool {
	for i := p.declStart; i < p.nameIndex; i++ {
		if c.tokens.At(i).IsKeyword("public", "protected", "private", "readonly") {
			return true
		}
	}
	return false
}

type propertyAssignment struct {
	property    string
	variable    string
	assignIndex int
}

// PromotableAssignments maps a parameter name to the `=` of the single
// `$this->property = $parameter;` statement that could be folded into a
// promoted parameter. Properties written more than once and parameters
// assigned to more than one property are left out.
func (c *ConstructorAnalysis) PromotableAssignments() map[string]int {
	result := make(map[string]int)
	if c.bodyOpen < 0 {
		return result
	}

	params := make(map[string]struct{}, len(c.parameters))
	for _, name := range c.ParameterNames() {
		params[name] = struct{}{}
	}

	writes := make(map[string]int)
	var candidates []propertyAssignment
	for i := c.bodyOpen + 1; i < c.bodyClose; i++ {
		tok := c.tokens.At(i)
		if !tok.Is(tokens.KindVariable) {
			continue
		}
		if tok.Text == "$this" {
			if property, ok := c.writtenProperty(i); ok {
				writes[property]++
			}
			continue
		}
		if _, ok := params[tok.Text]; !ok {
			continue
		}
		if assignment, ok := c.promotableAssignment(i); ok {
			candidates = append(candidates, assignment)
		}
	}

	byVariable := make(map[string]int)
	kept := candidates[:0]
	for _, a := range candidates {
		if writes[a.property] > 1 {
			continue
		}
		kept = append(kept, a)
		byVariable[a.variable]++
	}
	for _, a := range kept {
		if byVariable[a.variable] == 1 {
			result[a.variable] = a.assignIndex
		}
	}
	return result
}

// writtenProperty reports the property name when `$this` at index starts a
// `$this->name <assignment operator>` sequence.
func (c *ConstructorAnalysis) writtenProperty(thisIndex int) (string, bool) {
	arrow := c.tokens.NextMeaningful(thisIndex)
	if !c.tokens.At(arrow).Is(tokens.KindObjectOperator) {
		return "", false
	}
	name := c.tokens.NextMeaningful(arrow)
	if !c.tokens.At(name).Is(tokens.KindIdentifier) {
		return "", false
	}
	if !isAssignmentOperator(c.tokens.At(c.tokens.NextMeaningful(name))) {
		return "", false
	}
	return c.tokens.At(name).Text, true
}

func isAssignmentOperator(tok tokens.Token) bool {
	if tok.Is(tokens.KindAssign) {
		return true
	}
	if !tok.Is(tokens.KindOperator) {
		return false
	}
	switch tok.Text {
	case "+=", "-=", "*=", "/=", ".=", "%=", "**=", "??=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

// promotableAssignment matches `$this->name = $variable;` as a statement of
// its own, with $variable at index.
func (c *ConstructorAnalysis) promotableAssignment(variableIndex int) (propertyAssignment, bool) {
	t := c.tokens
	if !t.At(t.NextMeaningful(variableIndex)).Is(tokens.KindSemicolon, tokens.KindCloseTag) {
		return propertyAssignment{}, false
	}
	assign := t.PrevMeaningful(variableIndex)
	if !t.At(assign).Is(tokens.KindAssign) {
		return propertyAssignment{}, false
	}
	property := t.PrevMeaningful(assign)
	if !t.At(property).Is(tokens.KindIdentifier) {
		return propertyAssignment{}, false
	}
	arrow := t.PrevMeaningful(property)
	if !t.At(arrow).Is(tokens.KindObjectOperator) {
		return propertyAssignment{}, false
	}
	this := t.PrevMeaningful(arrow)
	if !t.At(this).Is(tokens.KindVariable) || t.At(this).Text != "$this" {
		return propertyAssignment{}, false
	}
	if !startsStatement(t, this) {
		return propertyAssignment{}, false
	}
	return propertyAssignment{
		property:    t.At(property).Text,
		variable:    t.At(variableIndex).Text,
		assignIndex: assign,
	}, true
}

// startsStatement reports whether the token at index is the first token of a
// statement, including the single statement of a brace-less control body.
func startsStatement(t *tokens.Tokens, index int) bool {
	prev := t.At(t.PrevMeaningful(index))
	return prev.Is(tokens.KindSemicolon, tokens.KindOpenBrace, tokens.KindCloseBrace,
		tokens.KindColon, tokens.KindCloseParen, tokens.KindOpenTag) || prev.IsKeyword("else", "do")
}
