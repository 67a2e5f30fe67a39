package analysis

import (
	"testing"

	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colonCases(t *testing.T, toks *tokens.Tokens, ns ...int) []CaseAnalysis {
	cases := make([]CaseAnalysis, 0, len(ns))
	for _, n := range ns {
		cases = append(cases, CaseAnalysis{ColonIndex: nth(t, toks, ":", n)})
	}
	return cases
}

func TestGetSwitchAnalysisNested(t *testing.T) {
	toks := tokens.MustTokenize(`<?php switch ($a) { case 1: switch ($b) { case 'x': case 'y': } case 2: }`)

	outer, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, SwitchAnalysis{
		CasesStartIndex: nth(t, toks, "{", 0),
		CasesEndIndex:   nth(t, toks, "}", 1),
		Cases:           colonCases(t, toks, 0, 3),
	}, outer)

	inner, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 1))
	require.NoError(t, err)
	assert.Equal(t, SwitchAnalysis{
		CasesStartIndex: nth(t, toks, "{", 1),
		CasesEndIndex:   nth(t, toks, "}", 0),
		Cases:           colonCases(t, toks, 1, 2),
	}, inner)
}

func TestGetSwitchAnalysisAlternativeSyntax(t *testing.T) {
	toks := tokens.MustTokenize(`<?php switch ($a): case 1: echo 1; break; default: echo 2; endswitch;`)

	analysis, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, SwitchAnalysis{
		CasesStartIndex: nth(t, toks, ":", 0),
		CasesEndIndex:   nth(t, toks, ";", 3),
		Cases:           colonCases(t, toks, 1, 2),
	}, analysis)

	toks = tokens.MustTokenize(`<?php switch ($a): default: endswitch ?>`)
	analysis, err = GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, nth(t, toks, "endswitch", 0), analysis.CasesEndIndex)
	assert.Equal(t, colonCases(t, toks, 1), analysis.Cases)
}

func TestGetSwitchAnalysisTernaryLabels(t *testing.T) {
	toks := tokens.MustTokenize(`<?php switch ($a) { case $b ? 1 : 2: break; case Foo::BAR: break; default: }`)

	analysis, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, colonCases(t, toks, 1, 2, 3), analysis.Cases)
}

func TestGetSwitchAnalysisSkipsClosuresAndBlocks(t *testing.T) {
	toks := tokens.MustTokenize(`<?php
switch ($a) {
    case 1:
        $f = function (): ?int { return 1 ? 2 : 3; };
        $g = fn(int $x): int => $x;
        break;
    case 2:
        if ($x): foo(); else: bar(); endif;
        break;
}`)

	analysis, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, colonCases(t, toks, 0, 4), analysis.Cases)
}

func TestGetSwitchAnalysisGotoLabel(t *testing.T) {
	toks := tokens.MustTokenize(`<?php switch ($a) { case 1: retry: foo(); goto retry; default: }`)

	analysis, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, colonCases(t, toks, 0, 2), analysis.Cases)
}

func TestGetSwitchAnalysisSemicolonLabels(t *testing.T) {
	toks := tokens.MustTokenize(`<?php switch ($a) { case 1; foo(); break; case 2: bar(); default; }`)

	analysis, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	require.NoError(t, err)
	assert.Equal(t, []CaseAnalysis{
		{ColonIndex: nth(t, toks, ";", 0)},
		{ColonIndex: nth(t, toks, ":", 0)},
		{ColonIndex: nth(t, toks, ";", 4)},
	}, analysis.Cases)
}

func TestGetSwitchAnalysisCaseInsensitive(t *testing.T) {
	toks := tokens.MustTokenize(`<?php SWITCH ($a) { CASE 1: DEFAULT: }`)

	analysis, err := GetSwitchAnalysis(toks, nth(t, toks, "SWITCH", 0))
	require.NoError(t, err)
	assert.Len(t, analysis.Cases, 2)
}

func TestGetSwitchAnalysisErrors(t *testing.T) {
	toks := tokens.MustTokenize(`<?php $switch = 1; switch; switch ($a) echo 1;`)

	for _, index := range []int{
		nth(t, toks, "$switch", 0),
		nth(t, toks, "switch", 0),
		nth(t, toks, "switch", 1),
	} {
		_, err := GetSwitchAnalysis(toks, index)
		assert.ErrorIs(t, err, ErrNotSwitch)
	}

	toks = tokens.MustTokenize(`<?php switch ($a) { case 1:`)
	_, err := GetSwitchAnalysis(toks, nth(t, toks, "switch", 0))
	assert.ErrorIs(t, err, tokens.ErrUnterminated)
}
