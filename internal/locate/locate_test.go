// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/reconcile/pkg/types"
)

func TestFindMatches_SingleLine(t *testing.T) {
	doc := "alpha\nbeta alpha\ngamma\nalpha"

	got := FindMatches(doc, "alpha")
	assert.Equal(t, []types.Match{
		{StartLine: 0, EndLine: 0},
		{StartLine: 1, EndLine: 1},
		{StartLine: 3, EndLine: 3},
	}, got)
}

func TestFindMatches_MultiLine(t *testing.T) {
	doc := "a\nb\nc\na\nb\nd"

	got := FindMatches(doc, "a\nb")
	assert.Equal(t, []types.Match{
		{StartLine: 0, EndLine: 1},
		{StartLine: 3, EndLine: 4},
	}, got)
}

func TestFindMatches_TrailingNewlineDoesNotExtendRange(t *testing.T) {
	doc := "x\ny\nz\n"

	got := FindMatches(doc, "x\ny\n")
	require.Len(t, got, 1)
	assert.Equal(t, types.Match{StartLine: 0, EndLine: 1}, got[0])
}

func TestFindMatches_NoOccurrence(t *testing.T) {
	assert.Empty(t, FindMatches("a\nb", "zzz"))
}

func TestFindClosestMatch(t *testing.T) {
	matches := []types.Match{
		{StartLine: 10, EndLine: 12},
		{StartLine: 50, EndLine: 52},
		{StartLine: 90, EndLine: 92},
	}

	tests := []struct {
		name       string
		start, end int
		tolerance  float64
		want       int
	}{
		{"exact range wins", 50, 52, 0, 1},
		{"zero tolerance rejects near misses", 49, 51, 0, NoMatch},
		{"tolerance one takes nearest unconditionally", 70, 72, 1, 1},
		{"decisively closer is accepted", 51, 53, 4, 1},
		{"equidistant is rejected", 30, 32, 4, NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindClosestMatch(matches, tt.start, tt.end, tt.tolerance)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindClosestMatch_SingleCandidate(t *testing.T) {
	matches := []types.Match{{StartLine: 5, EndLine: 7}}
	assert.Equal(t, 0, FindClosestMatch(matches, 400, 402, 2))
	assert.Equal(t, NoMatch, FindClosestMatch(matches, 400, 402, 0))
	assert.Equal(t, NoMatch, FindClosestMatch(nil, 1, 2, 1))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("abc", "abc"))
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.InDelta(t, 0.75, Similarity("abcd", "abcx"), 0.01)
}

func TestRepairIndent(t *testing.T) {
	doc := "func f() {\n\tif x {\n\t\tg()\n\t}\n}"

	t.Run("strips one tab when everything is tabbed", func(t *testing.T) {
		old := "\t\tif x {\n\t\t\tg()\n\t\t}"
		new := "\t\tif y {\n\t\t\tg()\n\t\t}"

		gotOld, gotNew, ok := RepairIndent(doc, old, new)
		require.True(t, ok)
		assert.Equal(t, "\tif x {\n\t\tg()\n\t}", gotOld)
		assert.Equal(t, "\tif y {\n\t\tg()\n\t}", gotNew)
	})

	t.Run("space-indented strings are left alone", func(t *testing.T) {
		old := "    if x {\n        g()\n    }"
		_, _, ok := RepairIndent(doc, old, old)
		assert.False(t, ok)
	})

	t.Run("unindented line blocks the repair", func(t *testing.T) {
		old := "\tif x {\ng()\n\t}"
		_, _, ok := RepairIndent(doc, old, old)
		assert.False(t, ok)
	})

	t.Run("blank lines do not block the repair", func(t *testing.T) {
		old := "\ta()\n\n\tb()"
		gotOld, _, ok := RepairIndent(doc, old, old)
		require.True(t, ok)
		assert.Equal(t, "a()\n\nb()", gotOld)
	})
}

func TestLocate_ExactSnippet(t *testing.T) {
	doc := "one\ntwo\nthree\nfour\nfive"

	m, ok := Locate(doc, "two\nthree")
	require.True(t, ok)
	assert.Equal(t, types.Match{StartLine: 1, EndLine: 2}, m)
}

func TestLocate_IgnoresIndentDrift(t *testing.T) {
	doc := "func f() {\n\tx := 1\n\ty := 2\n\treturn x + y\n}"
	pattern := "x := 1\ny := 2"

	m, ok := Locate(doc, pattern)
	require.True(t, ok)
	assert.Equal(t, types.Match{StartLine: 1, EndLine: 2}, m)
}

func TestLocate_PrefersTightestSpan(t *testing.T) {
	// "a" and "b" appear both far apart and adjacent; the adjacent
	// pair covers the pattern in the narrowest region.
	doc := "a\nx\nx\nx\nb\na\nb"

	m, ok := Locate(doc, "a\nb")
	require.True(t, ok)
	assert.Equal(t, types.Match{StartLine: 5, EndLine: 6}, m)
}

func TestLocate_NoOverlap(t *testing.T) {
	_, ok := Locate("one\ntwo", "seven\neight")
	assert.False(t, ok)
}

func TestLocate_ReportsPartialCoverage(t *testing.T) {
	doc := "alpha\nbeta\ngamma"

	m, ok := Locate(doc, "beta\nmissing")
	require.True(t, ok)
	assert.Equal(t, types.Match{StartLine: 1, EndLine: 1}, m)
}
