// Package analysis answers structural questions about a PHP token stream:
// array elements, call arguments, reference markers, switch labels,
// constructor promotion candidates and PHPUnit data providers.
package analysis

import "errors"

var (
	ErrNotArray    = errors.New("index is not an array")
	ErrNotFunction = errors.New("index is not a function")
	ErrNotClass    = errors.New("index is not a class")
	ErrNotSwitch   = errors.New("index is not switch")
)

// ArgumentAnalysis describes one call argument. The span excludes the
// separating comma and surrounding whitespace or comments.
type ArgumentAnalysis struct {
	StartIndex int
	EndIndex   int
	IsConstant bool
}

// ArrayElementAnalysis describes one array entry. Both key indices are nil for
// entries without an explicit key.
type ArrayElementAnalysis struct {
	KeyStartIndex   *int
	KeyEndIndex     *int
	ValueStartIndex int
	ValueEndIndex   int
}

func (e ArrayElementAnalysis) HasKey() bool {
	return e.KeyStartIndex != nil
}

// CaseAnalysis points at the colon (or the semicolon PHP also accepts)
// terminating a case or default label.
type CaseAnalysis struct {
	ColonIndex int
}

// SwitchAnalysis spans the body of a switch: the opening brace or colon, and
// the closing brace, endswitch, or the semicolon following endswitch.
type SwitchAnalysis struct {
	CasesStartIndex int
	CasesEndIndex   int
	Cases           []CaseAnalysis
}

// DataProviderAnalysis ties a provider method to the doc comments referencing it.
type DataProviderAnalysis struct {
	Name         string
	NameIndex    int
	UsageIndices []int
}

// span is an inclusive token range.
type span struct {
	start int
	end   int
}
