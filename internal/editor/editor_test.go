// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/reconcile/pkg/types"
)

func TestReplace_SingleOccurrence(t *testing.T) {
	doc := "line1\nline2\nline3\n"

	res, err := Replace(doc, "line2", "LINE2", Options{})
	require.NoError(t, err)
	assert.Equal(t, "line1\nLINE2\nline3\n", res.Content)
	assert.Equal(t, types.Match{StartLine: 1, EndLine: 1}, res.Match)
	assert.False(t, res.Fuzzy)
}

func TestReplace_MultiLineOld(t *testing.T) {
	doc := "a\nb\nc\nd\n"

	res, err := Replace(doc, "b\nc\n", "B\nC\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nC\nd\n", res.Content)
}

func TestReplace_NotFound(t *testing.T) {
	_, err := Replace("a\nb\n", "zzz", "yyy", Options{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Identical lines at two locations: without a hint the edit is refused;
// with a hint only the hinted occurrence changes.
func TestReplace_DuplicateLinesNeedHint(t *testing.T) {
	doc := "l0\nl1\nl2\nx=1\nl4\nl5\nl6\nl7\nl8\nx=1\nl10\n"

	_, err := Replace(doc, "x=1", "x=2", Options{})
	assert.ErrorIs(t, err, ErrMultipleMatches)

	res, err := Replace(doc, "x=1", "x=2", Options{
		Hint: &types.Match{StartLine: 9, EndLine: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, "l0\nl1\nl2\nx=1\nl4\nl5\nl6\nl7\nl8\nx=2\nl10\n", res.Content)
	assert.Equal(t, 9, res.Match.StartLine)
}

func TestReplace_HintEquidistantRefused(t *testing.T) {
	doc := "x=1\na\nb\nc\nx=1\n"

	_, err := Replace(doc, "x=1", "x=2", Options{
		Hint: &types.Match{StartLine: 2, EndLine: 2},
	})
	assert.ErrorIs(t, err, ErrNoMatchInRange)
}

// Negative tolerance accepts only the exact hinted range, even when one
// candidate is decisively closer than the other.
func TestReplace_NegativeToleranceRequiresExactHint(t *testing.T) {
	doc := "a\nx=1\nb\nc\nx=1\nd\n"

	_, err := Replace(doc, "x=1", "x=2", Options{
		Hint:      &types.Match{StartLine: 2, EndLine: 2},
		Tolerance: -1,
	})
	assert.ErrorIs(t, err, ErrNoMatchInRange)

	res, err := Replace(doc, "x=1", "x=2", Options{
		Hint:      &types.Match{StartLine: 1, EndLine: 1},
		Tolerance: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, "a\nx=2\nb\nc\nx=1\nd\n", res.Content)
}

// A refusal points at the most similar region so the caller can retry
// with a corrected old string or a hint.
func TestReplace_NotFoundNamesClosestCandidate(t *testing.T) {
	doc := "package p\nvalue := compute(y)\ndone\n"

	_, err := Replace(doc, "value := compute(x)", "value := compute(z)", Options{})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "closest candidate at lines 1-1")
}

// After a successful replace, re-running the identical replace fails:
// the old string is gone.
func TestReplace_Idempotence(t *testing.T) {
	doc := "alpha\nbeta\ngamma\n"

	res, err := Replace(doc, "beta", "delta", Options{})
	require.NoError(t, err)

	_, err = Replace(res.Content, "beta", "delta", Options{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// A pair echoed one tab level deep resolves to the same output as a
// correctly indented pair.
func TestReplace_TabIndentCorrection(t *testing.T) {
	doc := "func f() {\n\tif x {\n\t\tg()\n\t}\n}\n"

	shifted, err := Replace(doc, "\t\tif x {\n\t\t\tg()\n\t\t}", "\t\tif y {\n\t\t\tg()\n\t\t}", Options{})
	require.NoError(t, err)

	direct, err := Replace(doc, "\tif x {\n\t\tg()\n\t}", "\tif y {\n\t\tg()\n\t}", Options{})
	require.NoError(t, err)

	assert.Equal(t, direct.Content, shifted.Content)
	assert.Equal(t, "func f() {\n\tif y {\n\t\tg()\n\t}\n}\n", shifted.Content)
}

func TestReplace_FuzzyNeedsHint(t *testing.T) {
	doc := "a = 1 // note\nb = 2\nc = 3\n"

	// Drifted old: without fuzzy or without a hint the edit is refused.
	_, err := Replace(doc, "a = 1\nb = 2\nc = 3", "a = 1\nb = 2\nc = 4", Options{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Replace(doc, "a = 1\nb = 2\nc = 3", "a = 1\nb = 2\nc = 4", Options{AllowFuzzy: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplace_FuzzyReconcilesDrift(t *testing.T) {
	doc := "package p\n\na = 1 // note\nb = 2\nc = 3\nd = 4\ne = 5\nf = 6\n"
	old := "a = 1\nb = 2\nc = 3\nd = 4\ne = 5\nf = 6"
	new := "a = 1\nb = 2\nc = 3\nd = 4\ne = 5\nf = 7"

	res, err := Replace(doc, old, new, Options{
		AllowFuzzy: true,
		Hint:       &types.Match{StartLine: 2, EndLine: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, "package p\n\na = 1 // note\nb = 2\nc = 3\nd = 4\ne = 5\nf = 7\n", res.Content)
	assert.True(t, res.Fuzzy)
}

// An exact-but-ambiguous literal match never falls through to fuzzy
// resolution.
func TestReplace_AmbiguousLiteralDoesNotGoFuzzy(t *testing.T) {
	doc := "x=1\nx=1\n"

	_, err := Replace(doc, "x=1", "x=2", Options{AllowFuzzy: true})
	assert.ErrorIs(t, err, ErrMultipleMatches)
}

func TestReplace_FuzzyFailureIsTyped(t *testing.T) {
	doc := "completely different content\n"

	_, err := Replace(doc, "a b c", "a b d", Options{
		AllowFuzzy: true,
		Hint:       &types.Match{StartLine: 0, EndLine: 0},
	})
	require.Error(t, err)
	var mf *types.MatchFailError
	assert.ErrorAs(t, err, &mf)
}
