package analysis

import (
	"testing"

	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/stretchr/testify/assert"
)

func TestIsReference(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{`<?php $a = &$b;`, true},
		{`<?php $a = $b & $c;`, false},
		{`<?php function &foo() {}`, true},
		{`<?php function foo(&$a) {}`, true},
		{`<?php function foo(array &$a) {}`, true},
		{`<?php function foo(int $x, ?Foo &$a) {}`, true},
		{`<?php function foo(\Foo\Bar &...$a) {}`, true},
		{`<?php function foo(callable &$c) {}`, true},
		{`<?php function foo(#[Attr] int &$c) {}`, true},
		{`<?php function __construct(private array &$a) {}`, true},
		{`<?php foreach ($a as &$v) {}`, true},
		{`<?php $f = function () use (&$x) {};`, true},
		{`<?php $f = fn &($x) => $x;`, true},
		{`<?php $a = [&$b];`, true},
		{`<?php $a = ['k' => &$b];`, true},
		{`<?php $a = FOO & BAR;`, false},
		{`<?php $a = foo() & 1;`, false},
		{`<?php $a = $b[0] & 1;`, false},
		{`<?php $a = Foo::BAR & $b;`, false},
		{`<?php foo(A & $b);`, false},
		{`<?php $a &= 1;`, false},
	}
	for _, tc := range cases {
		toks := tokens.MustTokenize(tc.src)
		amp := toks.NextOfKind(0, tokens.KindAmpersand)
		if !tc.want && amp < 0 {
			continue
		}
		assert.Equal(t, tc.want, IsReference(toks, amp), tc.src)
	}
}

func TestIsReferenceRequiresAmpersand(t *testing.T) {
	toks := tokens.MustTokenize(`<?php $a = $b;`)
	for i := 0; i < toks.Len(); i++ {
		assert.False(t, IsReference(toks, i))
	}
	assert.False(t, IsReference(toks, -1))
	assert.False(t, IsReference(toks, toks.Len()))
}
