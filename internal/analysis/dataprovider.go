package analysis

import (
	"regexp"
	"sort"

	"github.com/shinyvision/phpscan/internal/tokens"
)

var dataProviderPattern = regexp.MustCompile(`@dataProvider[ \t]+([\w\\.:-]+)`)

// DataProviderTag is one `@dataProvider name` occurrence in a doc comment.
// Start and End delimit the name in bytes, relative to the comment text.
type DataProviderTag struct {
	Name  string
	Start int
	End   int
}

// DataProviderTags lists the tags of a doc comment in order.
func DataProviderTags(docComment string) []DataProviderTag {
	var tags []DataProviderTag
	for _, m := range dataProviderPattern.FindAllStringSubmatchIndex(docComment, -1) {
		tags = append(tags, DataProviderTag{Name: docComment[m[2]:m[3]], Start: m[2], End: m[3]})
	}
	return tags
}

// GetDataProviders finds, within startIndex..endIndex, every named function
// referenced by an `@dataProvider` tag in the doc comment of another named
// function. Results are ordered by the provider's name index; providers that
// are never referenced are omitted, and so are references to unknown names.
func GetDataProviders(t *tokens.Tokens, startIndex, endIndex int) []DataProviderAnalysis {
	if endIndex >= t.Len() {
		endIndex = t.Len() - 1
	}

	// first pass: named declarations
	declarations := make(map[string]int)
	var functions []int
	for i := max(startIndex, 0); i <= endIndex; i++ {
		if !t.At(i).IsKeyword("function") || t.At(t.PrevMeaningful(i)).IsKeyword("use") {
			continue
		}
		name, ok := functionName(t, i)
		if !ok {
			continue
		}
		if _, seen := declarations[t.At(name).Text]; !seen {
			declarations[t.At(name).Text] = name
		}
		functions = append(functions, i)
	}

	// second pass: usages in the doc comments of those declarations
	usages := make(map[string][]int)
	for _, function := range functions {
		doc := docCommentIndex(t, function)
		if doc < 0 {
			continue
		}
		for _, tag := range DataProviderTags(t.At(doc).Text) {
			provider := tag.Name
			if _, ok := declarations[provider]; !ok {
				continue
			}
			usages[provider] = append(usages[provider], doc)
		}
	}

	result := make([]DataProviderAnalysis, 0, len(usages))
	for provider, indices := range usages {
		result = append(result, DataProviderAnalysis{
			Name:         provider,
			NameIndex:    declarations[provider],
			UsageIndices: indices,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NameIndex < result[j].NameIndex
	})
	return result
}

// functionName returns the name token of a named function declaration; it
// reports false for closures.
func functionName(t *tokens.Tokens, functionIndex int) (int, bool) {
	name := t.NextMeaningful(functionIndex)
	if t.At(name).Is(tokens.KindAmpersand) {
		name = t.NextMeaningful(name)
	}
	if !t.At(name).Is(tokens.KindIdentifier) {
		return -1, false
	}
	return name, true
}

// docCommentIndex walks back from a function keyword over modifiers,
// attributes and plain comments to the doc comment describing it, or -1.
func docCommentIndex(t *tokens.Tokens, functionIndex int) int {
	for i := t.PrevNonWhitespace(functionIndex); i >= 0; i = t.PrevNonWhitespace(i) {
		tok := t.At(i)
		switch {
		case tok.Is(tokens.KindDocComment):
			return i
		case tok.Is(tokens.KindComment):
		case tok.IsKeyword("public", "protected", "private", "static", "final", "abstract"):
		case tok.Is(tokens.KindCloseBracket):
			open, err := t.FindBlockStart(i)
			if err != nil || !t.At(open).Is(tokens.KindAttributeOpen) {
				return -1
			}
			i = open
		default:
			return -1
		}
	}
	return -1
}
