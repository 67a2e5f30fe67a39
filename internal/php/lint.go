package php

import (
	"context"
	"errors"
	"fmt"

	phpforest "github.com/alexaandru/go-sitter-forest/php"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates the first erroneous or missing node of a parse tree.
// Line and Column are zero-based; Column counts bytes.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at line %d, column %d", ErrSyntax, e.Line+1, e.Column+1)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func newParser() *sitter.Parser {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(phpforest.GetLanguage())
	_ = parser.SetLanguage(lang)
	return parser
}

// Lint parses src with the PHP grammar and returns a *SyntaxError when the
// source does not parse cleanly.
func Lint(src []byte) error {
	tree, err := newParser().ParseString(context.Background(), nil, src)
	if err != nil {
		return err
	}
	defer tree.Close()
	return lintTree(tree)
}

func lintTree(tree *sitter.Tree) error {
	if tree == nil {
		return nil
	}
	root := tree.RootNode()
	if root.IsNull() || !root.HasError() {
		return nil
	}
	node := firstError(root)
	if node.IsNull() {
		node = root
	}
	point := node.StartPoint()
	return &SyntaxError{
		Offset: int(node.StartByte()),
		Line:   int(point.Row),
		Column: int(point.Column),
	}
}

// firstError walks the tree depth first, entering only subtrees that carry
// an error.
func firstError(node sitter.Node) sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.IsNull() || !child.HasError() {
			continue
		}
		if found := firstError(child); !found.IsNull() {
			return found
		}
	}
	return sitter.Node{}
}
