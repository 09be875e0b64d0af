// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editor orchestrates a single search/replace edit against a
// document held in memory. It runs a strict fallback ladder that always
// prefers exactness: literal locate, indentation repair, then
// hint-windowed fuzzy reconciliation, refusing outright whenever the
// target cannot be pinned down with certainty.
// Implements: prd007-edit-orchestrator R1-R5;
//
//	docs/ARCHITECTURE § Edit Orchestrator.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/reconcile/internal/locate"
	"github.com/petar-djukic/reconcile/internal/resolve"
	"github.com/petar-djukic/reconcile/pkg/types"
)

// Terminal orchestrator failures. Fuzzy-resolution failures surface as
// *types.MatchFailError instead.
var (
	ErrNotFound        = errors.New("string not found")
	ErrMultipleMatches = errors.New("multiple matches, no disambiguating hint")
	ErrNoMatchInRange  = errors.New("no match within line-number tolerance")
)

const (
	// DefaultTolerance requires the hint to be decisively closer to one
	// candidate than to any other.
	DefaultTolerance = 2.0

	// DefaultMaxDiff and DefaultMaxDiffRatio bound how much drift the
	// fuzzy stage will absorb before refusing.
	DefaultMaxDiff      = 40
	DefaultMaxDiffRatio = 0.35

	// hintWindowMargin is the number of lines kept on each side of the
	// hint when carving the fuzzy-resolution window.
	hintWindowMargin = 32

	// minReportSimilarity is the lowest similarity at which a failed
	// locate names its best candidate in the error.
	minReportSimilarity = 0.5
)

// Options configures a Replace call.
type Options struct {
	// AllowFuzzy enables the fuzzy-reconciliation stage. It only runs
	// when a Hint is also present.
	AllowFuzzy bool

	// Hint is the caller's belief about where the edit belongs,
	// zero-based inclusive line numbers. Nil means no hint.
	Hint *types.Match

	// Tolerance is passed to the hint disambiguator. Zero means
	// DefaultTolerance; negative means only a candidate whose line
	// range equals the hint exactly is accepted.
	Tolerance float64

	// Resolve bounds the fuzzy stage. Zero fields take the package
	// defaults.
	Resolve resolve.Options
}

func (o *Options) fill() {
	switch {
	case o.Tolerance == 0:
		o.Tolerance = DefaultTolerance
	case o.Tolerance < 0:
		// Strict mode: the disambiguator treats zero as exact-only.
		o.Tolerance = 0
	}
	if o.Resolve.MaxDiff == 0 {
		o.Resolve.MaxDiff = DefaultMaxDiff
	}
	if o.Resolve.MaxDiffRatio == 0 {
		o.Resolve.MaxDiffRatio = DefaultMaxDiffRatio
	}
}

// Replace substitutes old with new in content and returns the edited
// document. The fallback ladder runs literal locate first, then
// indentation repair, then (when allowed and hinted) fuzzy
// reconciliation in a window around the hint. Multiple candidates at
// any stage go to hint disambiguation rather than on to a fuzzier
// stage; every unresolved state is a typed error, never a guess.
//
// Implements: prd007-edit-orchestrator R1.1-R1.5, R2.1-R2.3.
func Replace(content, old, new string, opts Options) (*types.EditResult, error) {
	opts.fill()

	// Stage 1: literal locate.
	if res, err := tryLiteral(content, old, new, opts, false); err == nil {
		return res, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Stage 2: the snippet may sit one nesting level away.
	if rOld, rNew, ok := locate.RepairIndent(content, old, new); ok {
		if res, err := tryLiteral(content, rOld, rNew, opts, false); err == nil {
			return res, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	// Stage 3: reconcile drifted context inside a window around the hint.
	if opts.AllowFuzzy && opts.Hint != nil {
		window := carveWindow(content, *opts.Hint)
		adjOld, adjNew, err := resolve.Resolve(window, old, new, opts.Resolve)
		if err != nil {
			return nil, err
		}
		return tryLiteral(content, adjOld, adjNew, opts, true)
	}

	if m, score := closestCandidate(content, old); score >= minReportSimilarity {
		return nil, fmt.Errorf("%w: %s (closest candidate at lines %d-%d, similarity %.2f)",
			ErrNotFound, excerpt(old), m.StartLine, m.EndLine, score)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, excerpt(old))
}

// tryLiteral locates old literally and applies the replacement,
// disambiguating with the hint when several occurrences exist.
func tryLiteral(content, old, new string, opts Options, fuzzy bool) (*types.EditResult, error) {
	matches := locate.FindMatches(content, old)
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, excerpt(old))

	case len(matches) == 1:
		return apply(content, old, new, matches[0], fuzzy)

	case opts.Hint == nil:
		return nil, fmt.Errorf("%w: %d occurrences of %s", ErrMultipleMatches, len(matches), excerpt(old))

	default:
		i := locate.FindClosestMatch(matches, opts.Hint.StartLine, opts.Hint.EndLine, opts.Tolerance)
		if i == locate.NoMatch {
			return nil, fmt.Errorf("%w: %d occurrences of %s", ErrNoMatchInRange, len(matches), excerpt(old))
		}
		return apply(content, old, new, matches[i], fuzzy)
	}
}

// apply splices new over the literal occurrence of old inside the
// matched line range.
func apply(content, old, new string, m types.Match, fuzzy bool) (*types.EditResult, error) {
	regionStart := byteOffsetOfLine(content, m.StartLine)
	regionEnd := byteOffsetOfLine(content, m.EndLine+1)

	rel := strings.Index(content[regionStart:regionEnd], old)
	if rel < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, excerpt(old))
	}
	start := regionStart + rel

	return &types.EditResult{
		Content: content[:start] + new + content[start+len(old):],
		Match:   m,
		Fuzzy:   fuzzy,
	}, nil
}

// carveWindow slices the lines around the hint, with hintWindowMargin
// lines of slack on each side.
func carveWindow(content string, hint types.Match) string {
	lines := strings.Split(content, "\n")
	lo := hint.StartLine - hintWindowMargin
	if lo < 0 {
		lo = 0
	}
	hi := hint.EndLine + hintWindowMargin + 1
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo >= hi {
		return ""
	}
	return strings.Join(lines[lo:hi], "\n")
}

// closestCandidate slides a window the height of old over content and
// returns the most similar line range, so a refusal can point at where
// the edit probably belongs.
func closestCandidate(content, old string) (types.Match, float64) {
	docLines := strings.Split(content, "\n")
	oldLines := strings.Split(old, "\n")
	span := len(oldLines)

	best := types.Match{StartLine: locate.NoMatch, EndLine: locate.NoMatch}
	bestScore := 0.0
	for i := 0; i+span <= len(docLines); i++ {
		window := strings.Join(docLines[i:i+span], "\n")
		if score := locate.Similarity(window, old); score > bestScore {
			bestScore = score
			best = types.Match{StartLine: i, EndLine: i + span - 1}
		}
	}
	return best, bestScore
}

// byteOffsetOfLine returns the byte offset where zero-based line n
// starts; len(content) when n is past the last line.
func byteOffsetOfLine(content string, n int) int {
	off := 0
	for ; n > 0; n-- {
		nl := strings.IndexByte(content[off:], '\n')
		if nl < 0 {
			return len(content)
		}
		off += nl + 1
	}
	return off
}

// excerpt compresses a search string for error messages.
func excerpt(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return fmt.Sprintf("%q", s)
}
