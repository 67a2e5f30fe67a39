package analysis

import (
	"testing"

	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFunctionArguments(t *testing.T) {
	toks := tokens.MustTokenize(`<?php foo(baz(), 1, bar, qux(2,3,4));`)

	args, err := GetFunctionArguments(toks, 1)
	require.NoError(t, err)
	assert.Equal(t, []ArgumentAnalysis{
		{StartIndex: 3, EndIndex: 5, IsConstant: false},
		{StartIndex: 8, EndIndex: 8, IsConstant: true},
		{StartIndex: 11, EndIndex: 11, IsConstant: true},
		{StartIndex: 14, EndIndex: 21, IsConstant: false},
	}, args)
}

func TestGetFunctionArgumentsConstancy(t *testing.T) {
	cases := []struct {
		arg  string
		want bool
	}{
		{`1 + 2`, true},
		{`'a' . 'b'`, true},
		{`Foo::BAR`, true},
		{`-1`, true},
		{`[1, [2, 3]]`, true},
		{`array(1, 'k' => 2)`, true},
		{`null`, true},
		{`(1 + 2) * 3`, true},
		{`"plain"`, true},
		{`Foo::class`, true},
		{`$a`, false},
		{`$b[0]`, false},
		{`bar()`, false},
		{`"x$y"`, false},
		{`FOO[0]`, false},
		{`new Foo`, false},
		{`function () {}`, false},
		{`fn() => 1`, false},
		{`static::make()`, false},
		{`'strlen'('x')`, false},
		{`1 + strlen('x')`, false},
		{`print('x')`, false},
		{`include('a.php')`, false},
		{`require_once 'a.php'`, false},
		{`clone(FOO)`, false},
		{`eval('return 1;')`, false},
		{`[1, $a]`, false},
	}
	for _, tc := range cases {
		toks := tokens.MustTokenize(`<?php foo(` + tc.arg + `);`)
		args, err := GetFunctionArguments(toks, nth(t, toks, "foo", 0))
		require.NoError(t, err, tc.arg)
		require.Len(t, args, 1, tc.arg)
		assert.Equal(t, tc.want, args[0].IsConstant, tc.arg)
		assert.Equal(t, tc.arg, toks.Text(args[0].StartIndex, args[0].EndIndex))
	}
}

func TestGetFunctionArgumentsShapes(t *testing.T) {
	toks := tokens.MustTokenize(`<?php foo(); bar(1, /* two */ 2, ); isset($a, $b); baz ( 'x' );`)

	args, err := GetFunctionArguments(toks, nth(t, toks, "foo", 0))
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = GetFunctionArguments(toks, nth(t, toks, "bar", 0))
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, "2", toks.At(args[1].StartIndex).Text)

	args, err = GetFunctionArguments(toks, nth(t, toks, "isset", 0))
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.False(t, args[0].IsConstant)

	args, err = GetFunctionArguments(toks, nth(t, toks, "baz", 0))
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.True(t, args[0].IsConstant)
}

func TestGetFunctionArgumentsInterpolatedString(t *testing.T) {
	toks := tokens.MustTokenize(`<?php foo("{$a[","]}", 1);`)

	args, err := GetFunctionArguments(toks, 1)
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, `"{$a[","]}"`, toks.Text(args[0].StartIndex, args[0].EndIndex))
	assert.False(t, args[0].IsConstant)
	assert.Equal(t, "1", toks.Text(args[1].StartIndex, args[1].EndIndex))
	assert.True(t, args[1].IsConstant)
}

func TestGetFunctionArgumentsNotAFunction(t *testing.T) {
	toks := tokens.MustTokenize(`<?php $f(1); FOO; echo(1);`)

	for _, index := range []int{
		nth(t, toks, "$f", 0),
		nth(t, toks, "FOO", 0),
		nth(t, toks, "echo", 0),
		nth(t, toks, "(", 0),
	} {
		_, err := GetFunctionArguments(toks, index)
		assert.ErrorIs(t, err, ErrNotFunction, toks.At(index).Text)
	}
}
