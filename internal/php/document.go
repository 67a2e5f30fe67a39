package php

import (
	"context"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/phpscan/internal/tokens"
)

// Document keeps one PHP source together with its tree-sitter tree, its token
// stream and the report derived from them. Every Update replaces all three.
type Document struct {
	parser  *sitter.Parser
	mu      sync.RWMutex
	path    string
	tree    *sitter.Tree
	content []byte
	tokens  *tokens.Tokens
	lexErr  error
	lines   *LineIndex
	report  *Report
}

// NewDocument constructs a Document ready to track a PHP source file.
func NewDocument() *Document {
	return &Document{
		parser: newParser(),
		tokens: tokens.New(nil),
		lines:  NewLineIndex(nil),
	}
}

// SetPath records the file the document was read from; reports carry it.
func (d *Document) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
	if d.report != nil {
		d.report.Path = path
	}
}

// Update replaces the document contents. Lexer errors do not fail the update;
// they surface through Lint.
func (d *Document) Update(code []byte) error {
	newTree, err := d.parser.ParseString(context.Background(), nil, code)
	if err != nil {
		return err
	}
	toks, lexErr := tokens.Tokenize(code)
	if lexErr != nil {
		toks = tokens.New(nil)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		d.tree.Close()
	}
	d.tree = newTree
	d.content = code
	d.tokens = toks
	d.lexErr = lexErr
	d.lines = NewLineIndex(code)
	d.report = nil
	return nil
}

// Close releases resources owned by the document.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.content = nil
	d.tokens = tokens.New(nil)
	d.lines = NewLineIndex(nil)
	d.report = nil
}

// Read executes fn while holding a read lock on the document. The callback
// must not keep the content beyond its scope.
func (d *Document) Read(fn func(content []byte, toks *tokens.Tokens, lines *LineIndex)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.content, d.tokens, d.lines)
}

// Lint reports the lexer error, if any, or the first syntax error of the tree.
func (d *Document) Lint() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.lexErr != nil {
		return d.lexErr
	}
	return lintTree(d.tree)
}

// Report builds (once per Update) the analysis report. Sources that do not
// lint yield the lint error instead.
func (d *Document) Report() (*Report, error) {
	if err := d.Lint(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	if d.report != nil {
		report := d.report
		d.mu.RUnlock()
		return report, nil
	}
	toks, lines, path := d.tokens, d.lines, d.path
	d.mu.RUnlock()

	report, err := BuildReport(toks, lines)
	if err != nil {
		return nil, err
	}
	report.Path = path

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tokens == toks {
		d.report = report
	}
	return report, nil
}
