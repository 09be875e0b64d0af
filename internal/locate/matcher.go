// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package locate finds where a string lives inside a document: literal
// occurrences, hint-guided disambiguation among several occurrences,
// indentation repair for snippets echoed one nesting level off, and a
// hash-based fuzzy snippet locator.
// Implements: prd003-match-locator R1-R4;
//
//	docs/ARCHITECTURE § Locators.
package locate

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// NoMatch is returned by FindClosestMatch when no candidate can be
// chosen with confidence.
const NoMatch = -1

// FindMatches returns every occurrence of str in doc as a line range.
// A single-line str is matched per line by substring containment; a
// multi-line str is matched byte-wise over the whole document, with
// offsets converted to line numbers. Line numbers are zero-based and
// inclusive.
//
// Implements: prd003-match-locator R1.1-R1.4.
func FindMatches(doc, str string) []types.Match {
	var matches []types.Match

	if !strings.Contains(str, "\n") {
		for i, line := range strings.Split(doc, "\n") {
			if strings.Contains(line, str) {
				matches = append(matches, types.Match{StartLine: i, EndLine: i})
			}
		}
		return matches
	}

	span := strings.Count(str, "\n")
	if strings.HasSuffix(str, "\n") {
		// The trailing newline closes the last line rather than
		// opening a new one.
		span--
	}

	for idx := 0; ; {
		rel := strings.Index(doc[idx:], str)
		if rel < 0 {
			break
		}
		idx += rel
		start := strings.Count(doc[:idx], "\n")
		matches = append(matches, types.Match{StartLine: start, EndLine: start + span})
		idx++
	}
	return matches
}

// FindClosestMatch picks the match best explained by a line-range hint.
// An exact range match wins outright. With tolerance 0 only an exact
// match counts; with tolerance 1 the nearest match by start-line
// distance is accepted unconditionally. For any other tolerance the
// nearest match is accepted only when the hint is decisively closer to
// it than to the runner-up: distance within floor(gap/2 * tolerance),
// where gap is the runner-up's extra distance. A lone candidate is
// always accepted. Returns an index into matches, or NoMatch.
//
// Implements: prd003-match-locator R2.1-R2.6.
func FindClosestMatch(matches []types.Match, startLine, endLine int, tolerance float64) int {
	if len(matches) == 0 {
		return NoMatch
	}

	nearest, second := NoMatch, NoMatch
	for i, m := range matches {
		if m.StartLine == startLine && m.EndLine == endLine {
			return i
		}
		switch {
		case nearest == NoMatch || dist(m, startLine) < dist(matches[nearest], startLine):
			second = nearest
			nearest = i
		case second == NoMatch || dist(m, startLine) < dist(matches[second], startLine):
			second = i
		}
	}

	if tolerance == 0 {
		return NoMatch
	}
	if tolerance == 1 || second == NoMatch {
		return nearest
	}

	gap := dist(matches[second], startLine) - dist(matches[nearest], startLine)
	if dist(matches[nearest], startLine) <= int(float64(gap)/2*tolerance) {
		return nearest
	}
	return NoMatch
}

func dist(m types.Match, startLine int) int {
	d := m.StartLine - startLine
	if d < 0 {
		d = -d
	}
	return d
}

// Similarity is the Levenshtein similarity ratio of two strings, in
// [0, 1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
