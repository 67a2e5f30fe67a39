package php

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint(t *testing.T) {
	require.NoError(t, Lint([]byte("<?php\necho 1;\n")))

	err := Lint([]byte("<?php\nif ($a { }\n"))
	require.ErrorIs(t, err, ErrSyntax)
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.GreaterOrEqual(t, syntaxErr.Line, 0)
	assert.Contains(t, err.Error(), "syntax error at line")
}

func TestDocumentUpdateAndReport(t *testing.T) {
	doc := NewDocument()
	defer doc.Close()

	require.NoError(t, doc.Update([]byte(serviceSource)))
	require.NoError(t, doc.Lint())

	report, err := doc.Report()
	require.NoError(t, err)
	require.Len(t, report.Classes, 1)

	again, err := doc.Report()
	require.NoError(t, err)
	assert.Same(t, report, again)

	doc.Read(func(content []byte, toks *tokens.Tokens, lines *LineIndex) {
		assert.Equal(t, serviceSource, string(content))
		assert.Equal(t, serviceSource, toks.String())
		assert.Equal(t, uint32(1), lines.Position(6).Line)
	})

	require.NoError(t, doc.Update([]byte("<?php\nif ($a { }\n")))
	_, err = doc.Report()
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestDocumentLexerError(t *testing.T) {
	doc := NewDocument()
	defer doc.Close()

	require.NoError(t, doc.Update([]byte("<?php $a = 'open")))
	assert.ErrorIs(t, doc.Lint(), tokens.ErrUnterminated)
	doc.Read(func(_ []byte, toks *tokens.Tokens, _ *LineIndex) {
		assert.Equal(t, 0, toks.Len())
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDocumentStore(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.php", "<?php foo();")
	b := writeFile(t, dir, "b.php", "<?php bar();")
	c := writeFile(t, dir, "c.php", "<?php baz();")

	store := NewDocumentStore(2)

	docA, err := store.Get(a)
	require.NoError(t, err)
	again, err := store.Get(a)
	require.NoError(t, err)
	assert.Same(t, docA, again)

	report, err := docA.Report()
	require.NoError(t, err)
	assert.Equal(t, a, report.Path)

	_, err = store.Get(b)
	require.NoError(t, err)
	docC, err := store.Get(c)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	report, err = docC.Report()
	require.NoError(t, err, "the newest document survives eviction")
	assert.Equal(t, "baz", report.Calls[0].Name)

	_, err = store.Get(filepath.Join(dir, "missing.php"))
	assert.Error(t, err)
	_, err = store.Get("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestDocumentStoreKeepsOpenDocuments(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.php", "<?php bar();")

	store := NewDocumentStore(1)
	open := NewDocument()
	require.NoError(t, open.Update([]byte("<?php open();")))
	store.Open(filepath.Join(dir, "open.php"), open)

	_, err := store.Get(b)
	require.NoError(t, err)
	_, err = store.Get(writeFile(t, dir, "c.php", "<?php c();"))
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "open document plus the newest one")

	doc, err := store.Get(filepath.Join(dir, "open.php"))
	require.NoError(t, err)
	assert.Same(t, open, doc)

	store.Release(filepath.Join(dir, "open.php"))
	assert.Equal(t, 1, store.Len())
}

func TestDocumentStoreReloadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.php", "<?php foo();")
	store := NewDocumentStore(10)

	first, err := store.Get(path)
	require.NoError(t, err)

	writeFile(t, dir, "a.php", "<?php bar();")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := store.Get(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	report, err := second.Report()
	require.NoError(t, err)
	assert.Equal(t, "bar", report.Calls[0].Name)
	assert.Equal(t, 1, store.Len())
}

func TestDocumentStoreReleaseRereadsDisk(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.php", "<?php saved();")
	store := NewDocumentStore(10)

	buffer := NewDocument()
	require.NoError(t, buffer.Update([]byte("<?php unsaved();")))
	store.Open(path, buffer)

	doc, err := store.Get(path)
	require.NoError(t, err)
	assert.Same(t, buffer, doc)

	store.Release(path)
	doc, err = store.Get(path)
	require.NoError(t, err)
	assert.NotSame(t, buffer, doc)
	report, err := doc.Report()
	require.NoError(t, err)
	assert.Equal(t, "saved", report.Calls[0].Name)
}

func TestStringTokensMatchTree(t *testing.T) {
	src := []byte(`<?php foo("{$a[","]}", "x{$b}y", 1);`)
	require.NoError(t, Lint(src))

	tree, err := newParser().ParseString(context.Background(), nil, src)
	require.NoError(t, err)
	defer tree.Close()
	toks, err := tokens.Tokenize(src)
	require.NoError(t, err)

	var found int
	var walk func(node sitter.Node)
	walk = func(node sitter.Node) {
		if node.Type() == "encapsed_string" {
			found++
			tok := toks.At(toks.IndexAt(int(node.StartByte())))
			assert.Equal(t, int(node.StartByte()), tok.Offset)
			assert.Equal(t, int(node.EndByte()), tok.End())
			assert.Equal(t, tokens.KindInterpolatedString, tok.Kind)
			return
		}
		for i := range node.ChildCount() {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())
	assert.Equal(t, 2, found)
}
