package php

import (
	"fmt"

	"github.com/shinyvision/phpscan/internal/analysis"
	"github.com/shinyvision/phpscan/internal/tokens"
)

// Location is a token position. Line and Column are one-based; Column counts
// UTF-16 code units like editors do.
type Location struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Report summarises what the analyzers find in one file.
type Report struct {
	Path          string               `json:"path,omitempty" yaml:"path,omitempty"`
	Classes       []ClassReport        `json:"classes" yaml:"classes"`
	Switches      []SwitchReport       `json:"switches" yaml:"switches"`
	DataProviders []DataProviderReport `json:"data_providers" yaml:"data_providers"`
	Arrays        []ArrayReport        `json:"arrays" yaml:"arrays"`
	Calls         []CallReport         `json:"calls" yaml:"calls"`
	References    []Location           `json:"references" yaml:"references"`
}

type ClassReport struct {
	Kind        string             `json:"kind" yaml:"kind"`
	Name        string             `json:"name" yaml:"name"`
	At          Location           `json:"at" yaml:"at"`
	Constructor *ConstructorReport `json:"constructor,omitempty" yaml:"constructor,omitempty"`
}

type ConstructorReport struct {
	At          Location               `json:"at" yaml:"at"`
	Parameters  []string               `json:"parameters" yaml:"parameters"`
	Promotable  []PromotableParameter  `json:"promotable" yaml:"promotable"`
	Assignments []PromotableAssignment `json:"assignments" yaml:"assignments"`
}

type PromotableParameter struct {
	Name string   `json:"name" yaml:"name"`
	At   Location `json:"at" yaml:"at"`
}

// PromotableAssignment spans `$this->property = $parameter` without the
// trailing semicolon; End is exclusive.
type PromotableAssignment struct {
	Parameter string   `json:"parameter" yaml:"parameter"`
	Property  string   `json:"property" yaml:"property"`
	Start     Location `json:"start" yaml:"start"`
	End       Location `json:"end" yaml:"end"`
}

type SwitchReport struct {
	At    Location   `json:"at" yaml:"at"`
	Cases []Location `json:"cases" yaml:"cases"`
	End   Location   `json:"end" yaml:"end"`
}

type DataProviderReport struct {
	Name   string     `json:"name" yaml:"name"`
	At     Location   `json:"at" yaml:"at"`
	Usages []Location `json:"usages" yaml:"usages"`
}

type ArrayReport struct {
	At       Location `json:"at" yaml:"at"`
	Elements int      `json:"elements" yaml:"elements"`
	Keyed    int      `json:"keyed" yaml:"keyed"`
}

type CallReport struct {
	Name      string           `json:"name" yaml:"name"`
	At        Location         `json:"at" yaml:"at"`
	Arguments []ArgumentReport `json:"arguments" yaml:"arguments"`
}

type ArgumentReport struct {
	Text     string `json:"text" yaml:"text"`
	Constant bool   `json:"constant" yaml:"constant"`
}

type reportBuilder struct {
	toks   *tokens.Tokens
	lines  *LineIndex
	report *Report
}

// BuildReport runs every analyzer over the stream. The source is expected to
// lint; analyzer errors are returned with the offending location.
func BuildReport(toks *tokens.Tokens, lines *LineIndex) (*Report, error) {
	b := &reportBuilder{toks: toks, lines: lines, report: &Report{}}
	for i := 0; i < toks.Len(); i++ {
		if err := b.visit(i); err != nil {
			loc := b.location(i)
			return nil, fmt.Errorf("line %d, column %d: %w", loc.Line, loc.Column, err)
		}
	}
	for _, provider := range analysis.GetDataProviders(toks, 0, toks.Len()-1) {
		report := DataProviderReport{Name: provider.Name, At: b.location(provider.NameIndex)}
		for _, usage := range provider.UsageIndices {
			report.Usages = append(report.Usages, b.location(usage))
		}
		b.report.DataProviders = append(b.report.DataProviders, report)
	}
	return b.report, nil
}

func (b *reportBuilder) location(index int) Location {
	offset := b.toks.At(index).Offset
	return b.locationAt(offset)
}

func (b *reportBuilder) locationAt(offset int) Location {
	pos := b.lines.Position(offset)
	return Location{Offset: offset, Line: int(pos.Line) + 1, Column: int(pos.Character) + 1}
}

func (b *reportBuilder) visit(i int) error {
	t := b.toks
	if kind, ok := analysis.ClassLikeKind(t, i); ok {
		return b.class(i, kind)
	}
	tok := t.At(i)
	switch {
	case tok.IsKeyword("switch"):
		return b.switchStatement(i)
	case tok.Is(tokens.KindOpenBracket) && t.IsShortArrayOpen(i),
		tok.IsKeyword("array") && t.At(t.NextMeaningful(i)).Is(tokens.KindOpenParen):
		return b.array(i)
	case tok.Is(tokens.KindAmpersand):
		if analysis.IsReference(t, i) {
			b.report.References = append(b.report.References, b.location(i))
		}
	case isCall(t, i):
		return b.call(i)
	}
	return nil
}

func (b *reportBuilder) class(i int, kind string) error {
	name := "class@anonymous"
	if next := b.toks.NextMeaningful(i); b.toks.At(next).Is(tokens.KindIdentifier) {
		name = b.toks.At(next).Text
	}
	class := ClassReport{Kind: kind, Name: name, At: b.location(i)}

	ctor, err := analysis.FindNonAbstractConstructor(b.toks, i)
	if err != nil {
		return err
	}
	if ctor != nil {
		class.Constructor = b.constructor(ctor)
	}
	b.report.Classes = append(b.report.Classes, class)
	return nil
}

func (b *reportBuilder) constructor(ctor *analysis.ConstructorAnalysis) *ConstructorReport {
	t := b.toks
	report := &ConstructorReport{
		At:         b.location(t.NextMeaningful(ctor.ConstructorIndex)),
		Parameters: ctor.ParameterNames(),
	}

	promotable := ctor.PromotableParameters()
	assignments := ctor.PromotableAssignments()
	for _, name := range report.Parameters {
		for index, param := range promotable {
			if param == name {
				report.Promotable = append(report.Promotable, PromotableParameter{Name: name, At: b.location(index)})
			}
		}
		assign, ok := assignments[name]
		if !ok {
			continue
		}
		// $this -> property = $parameter
		property := t.PrevMeaningful(assign)
		this := t.PrevMeaningful(t.PrevMeaningful(property))
		variable := t.NextMeaningful(assign)
		report.Assignments = append(report.Assignments, PromotableAssignment{
			Parameter: name,
			Property:  t.At(property).Text,
			Start:     b.location(this),
			End:       b.locationAt(t.At(variable).End()),
		})
	}
	return report
}

func (b *reportBuilder) switchStatement(i int) error {
	sw, err := analysis.GetSwitchAnalysis(b.toks, i)
	if err != nil {
		return err
	}
	report := SwitchReport{At: b.location(i), End: b.location(sw.CasesEndIndex)}
	for _, c := range sw.Cases {
		report.Cases = append(report.Cases, b.location(c.ColonIndex))
	}
	b.report.Switches = append(b.report.Switches, report)
	return nil
}

func (b *reportBuilder) array(i int) error {
	elements, err := analysis.GetElements(b.toks, i)
	if err != nil {
		return err
	}
	report := ArrayReport{At: b.location(i), Elements: len(elements)}
	for _, e := range elements {
		if e.HasKey() {
			report.Keyed++
		}
	}
	b.report.Arrays = append(b.report.Arrays, report)
	return nil
}

func (b *reportBuilder) call(i int) error {
	args, err := analysis.GetFunctionArguments(b.toks, i)
	if err != nil {
		return err
	}
	report := CallReport{Name: b.toks.At(i).Text, At: b.location(i)}
	for _, arg := range args {
		report.Arguments = append(report.Arguments, ArgumentReport{
			Text:     b.toks.Text(arg.StartIndex, arg.EndIndex),
			Constant: arg.IsConstant,
		})
	}
	b.report.Calls = append(b.report.Calls, report)
	return nil
}

var callConstructs = []string{"isset", "empty", "unset", "list", "exit", "die", "eval"}

// isCall matches a name followed by an argument list, excluding the names of
// function declarations.
func isCall(t *tokens.Tokens, i int) bool {
	tok := t.At(i)
	if !tok.Is(tokens.KindIdentifier) && !tok.IsKeyword(callConstructs...) {
		return false
	}
	if !t.At(t.NextMeaningful(i)).Is(tokens.KindOpenParen) {
		return false
	}
	prev := t.PrevMeaningful(i)
	if t.At(prev).Is(tokens.KindAmpersand) {
		prev = t.PrevMeaningful(prev)
	}
	return !t.At(prev).IsKeyword("function")
}
