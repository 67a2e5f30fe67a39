package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nth returns the index of the n-th (0-based) token with the given text.
func nth(t *testing.T, toks *Tokens, text string, n int) int {
	t.Helper()
	for i := 0; i < toks.Len(); i++ {
		if toks.At(i).Text == text {
			if n == 0 {
				return i
			}
			n--
		}
	}
	t.Fatalf("token %q not found", text)
	return -1
}

func TestFindBlockEndBrackets(t *testing.T) {
	toks := MustTokenize(`<?php foo(bar(')'), [1, [2]], "(") { if (1) { /* } */ } }`)

	end, err := toks.FindBlockEnd(nth(t, toks, "(", 0))
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, ")", 1), end)

	end, err = toks.FindBlockEnd(nth(t, toks, "[", 0))
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "]", 1), end)

	end, err = toks.FindBlockEnd(nth(t, toks, "{", 0))
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "}", 1), end)

	start, err := toks.FindBlockStart(nth(t, toks, "}", 1))
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "{", 0), start)
}

func TestFindBlockEndAttribute(t *testing.T) {
	toks := MustTokenize(`<?php #[A([1, 2])] function f() {}`)

	end, err := toks.FindBlockEnd(nth(t, toks, "#[", 0))
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "]", 1), end)

	start, err := toks.FindBlockStart(end)
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "#[", 0), start)
}

func TestFindBlockEndAlternativeSyntax(t *testing.T) {
	toks := MustTokenize(`<?php
switch ($a):
    case 1:
        switch ($b):
            case 2:
                if ($c): foo(); elseif ($d): bar(); else: baz(); endif;
        endswitch;
        break;
endswitch;
foreach ($x as $y): while (true): endwhile; endforeach;
`)

	outer := toks.NextMeaningful(nth(t, toks, ")", 0))
	require.True(t, toks.At(outer).Is(KindColon))
	end, err := toks.FindBlockEnd(outer)
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "endswitch", 1), end)

	inner := toks.NextMeaningful(nth(t, toks, ")", 1))
	end, err = toks.FindBlockEnd(inner)
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "endswitch", 0), end)

	ifColon := toks.NextMeaningful(nth(t, toks, ")", 2))
	keyword, ok := toks.AlternativeSyntaxKeyword(ifColon)
	require.True(t, ok)
	assert.Equal(t, "if", keyword)
	end, err = toks.FindBlockEnd(ifColon)
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "endif", 0), end)

	foreachColon := toks.NextMeaningful(nth(t, toks, ")", 7))
	end, err = toks.FindBlockEnd(foreachColon)
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "endforeach", 0), end)
}

func TestFindBlockEndErrors(t *testing.T) {
	toks := MustTokenize(`<?php foo(1, [2; $a ? b : c;`)

	_, err := toks.FindBlockEnd(nth(t, toks, "(", 0))
	assert.ErrorIs(t, err, ErrUnterminated)

	_, err = toks.FindBlockEnd(nth(t, toks, "foo", 0))
	assert.ErrorIs(t, err, ErrNotBlockStart)

	_, err = toks.FindBlockEnd(nth(t, toks, ":", 0))
	assert.ErrorIs(t, err, ErrNotBlockStart)
}

func TestNavigation(t *testing.T) {
	toks := MustTokenize("<?php $a /* c */ = // x\n 1;")

	a := nth(t, toks, "$a", 0)
	assign := toks.NextMeaningful(a)
	assert.Equal(t, "=", toks.At(assign).Text)
	assert.Equal(t, a, toks.PrevMeaningful(assign))
	assert.Equal(t, "/* c */", toks.At(toks.NextNonWhitespace(a)).Text)
	assert.Equal(t, "/* c */", toks.At(toks.PrevNonWhitespace(assign)).Text)
	assert.Equal(t, "1", toks.At(toks.NextOfKind(a, KindNumber)).Text)
	assert.Equal(t, -1, toks.NextMeaningful(toks.Len()-1))
	assert.Equal(t, "$a /* c */ =", toks.Text(a, assign))
	assert.Equal(t, Kind(-1), toks.At(-1).Kind)
	assert.Equal(t, Token{Kind: -1}, toks.At(toks.Len()))
}

func TestIsShortArrayOpen(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{`<?php $a = [1];`, true},
		{`<?php $a[1];`, false},
		{`<?php foo()[0];`, false},
		{`<?php $a[0][1];`, false},
		{`<?php return [1];`, true},
		{`<?php FOO[0];`, false},
		{`<?php [$a, $b] = $c;`, true},
		{`<?php $a->{'b'}[0];`, false},
		{`<?php if (1) {} [$a] = $b;`, true},
	}
	for _, tc := range cases {
		toks := MustTokenize(tc.src)
		idx := toks.NextOfKind(0, KindOpenBracket)
		require.GreaterOrEqual(t, idx, 0, tc.src)
		if tc.src == `<?php $a[0][1];` {
			idx = toks.NextOfKind(idx, KindOpenBracket)
		}
		assert.Equal(t, tc.want, toks.IsShortArrayOpen(idx), tc.src)
	}
}

func TestIndexAt(t *testing.T) {
	toks := MustTokenize("<?php $ab = 1;")

	assert.Equal(t, 0, toks.IndexAt(0))
	assert.Equal(t, 1, toks.IndexAt(6))
	assert.Equal(t, 1, toks.IndexAt(8))
	assert.Equal(t, "=", toks.At(toks.IndexAt(10)).Text)
	assert.Equal(t, -1, toks.IndexAt(-1))
	assert.Equal(t, -1, toks.IndexAt(100))
}
