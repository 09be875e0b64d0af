// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolve reconciles a drifted old/new replacement pair against
// the document it is meant to edit. It aligns the symbol streams of all
// three strings and rebuilds an (old', new') pair that occurs literally
// in the document, refusing with a typed reason whenever the alignment
// is ambiguous or exceeds the drift budget.
// Implements: prd005-fuzzy-resolve R1-R4;
//
//	docs/ARCHITECTURE § Fuzzy Resolve.
package resolve

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/reconcile/internal/token"
	"github.com/petar-djukic/reconcile/pkg/types"
)

// DefaultMinMatchStreak is the confidence window used when Options
// leaves MinMatchStreak zero.
const DefaultMinMatchStreak = 3

// Options bound how much drift Resolve tolerates.
type Options struct {
	MaxDiff        int     // Absolute cap on mismatched symbols
	MaxDiffRatio   float64 // Cap on mismatched symbols relative to len(old)
	MinMatchStreak int     // Confident matches required before a new diff event
}

// the two alignment sides; a diff event on one side requires a
// confident streak on the other.
const (
	sideOriginal = 0
	sideNew      = 1
)

type eventKind int

const (
	eventNone eventKind = iota
	eventAbsorb
	eventInsert
	eventDelete
	eventSkip
)

type pick struct {
	fromNew bool
	idx     int
}

// Resolve reconciles old/new against original. On success it returns an
// adjusted pair (old', new') such that old' occurs literally in original
// and new' is the intended replacement rendered with the document's and
// the proposal's own whitespace. On failure the error is always a
// *types.MatchFailError; Resolve never panics.
func Resolve(original, old, new string, opts Options) (string, string, error) {
	if opts.MinMatchStreak <= 0 {
		opts.MinMatchStreak = DefaultMinMatchStreak
	}

	sOld := token.Tokenize(old, true)
	sOrig := token.Tokenize(original, true)
	sNew := token.Tokenize(new, true)

	if len(sOld) == 0 {
		return "", "", fail(types.FirstSymbolOfOldNotInOriginal, "old string has no symbols")
	}

	band := token.BandWidth(len(sOld))
	alignOrig := token.Align(sOld, sOrig, band)
	alignNew := token.Align(sOld, sNew, band)

	// An edit must anchor to real document content at both ends.
	if alignOrig[0] == token.Unmatched {
		return "", "", fail(types.FirstSymbolOfOldNotInOriginal, sOld[0].Text)
	}
	if alignOrig[len(sOld)-1] == token.Unmatched {
		return "", "", fail(types.LastSymbolOfOldNotInOriginal, sOld[len(sOld)-1].Text)
	}

	// Streaks start confident: the first-symbol anchor above guarantees
	// the region opens on solid ground, so a diff event at the region
	// start is not inherently ambiguous.
	streak := [2]int{opts.MinMatchStreak, opts.MinMatchStreak}

	// startEvent guards a fresh diff event on one side: the other side
	// must have seen MinMatchStreak confident matches since its own last
	// event, or two nearby diffs could be satisfied contradictorily.
	startEvent := func(side int) error {
		if streak[1-side] < opts.MinMatchStreak {
			return fail(types.AmbiguousReplacement, "diff events too close together")
		}
		streak[side] = 0
		return nil
	}

	var newPicks []pick
	origFirst := alignOrig[0]
	origLast := -1
	io := origFirst
	in := 0
	diffCount := 0
	last := eventNone

	for i := 0; i < len(sOld); i++ {
		mo := alignOrig[i]
		mn := alignNew[i]

		// Original has symbols old never saw: the model's context
		// drifted. Absorb them into both reconstructed strings.
		if mo != token.Unmatched && io < mo {
			if err := startEvent(sideOriginal); err != nil {
				return "", "", err
			}
			for ; io < mo; io++ {
				newPicks = append(newPicks, pick{fromNew: false, idx: io})
				origLast = io
				diffCount++
			}
			last = eventAbsorb
		}

		// New has symbols old never saw: pure insertion.
		if mn != token.Unmatched && in < mn {
			if err := startEvent(sideNew); err != nil {
				return "", "", err
			}
			for ; in < mn; in++ {
				newPicks = append(newPicks, pick{fromNew: true, idx: in})
				diffCount++
			}
			last = eventInsert
		}

		switch {
		case mo != token.Unmatched && mn != token.Unmatched:
			// Common to all three: advance every cursor.
			newPicks = append(newPicks, pick{fromNew: true, idx: mn})
			origLast = mo
			io = mo + 1
			in = mn + 1
			streak[sideOriginal]++
			streak[sideNew]++
			last = eventNone

		case mo != token.Unmatched:
			// In the document but not in the replacement: the edit
			// deletes it. Consumed into old' only.
			if last != eventDelete {
				if err := startEvent(sideNew); err != nil {
					return "", "", err
				}
			}
			origLast = mo
			io = mo + 1
			streak[sideOriginal]++
			diffCount++
			last = eventDelete

		case mn != token.Unmatched:
			// In old and new but absent from the document: the model
			// imagined it. Skip on both sides.
			if last != eventSkip {
				if err := startEvent(sideOriginal); err != nil {
					return "", "", err
				}
			}
			in = mn + 1
			streak[sideNew]++
			diffCount++
			last = eventSkip

		default:
			return "", "", fail(types.SymbolInOldNotInOriginalOrNew, fmt.Sprintf("%q", sOld[i].Text))
		}
	}

	// Replacement symbols after old's last anchor: trailing insertion.
	if in < len(sNew) {
		if err := startEvent(sideNew); err != nil {
			return "", "", err
		}
		for ; in < len(sNew); in++ {
			newPicks = append(newPicks, pick{fromNew: true, idx: in})
			diffCount++
		}
	}

	if opts.MaxDiff > 0 && diffCount > opts.MaxDiff {
		return "", "", fail(types.ExceedsMaxDiff,
			fmt.Sprintf("%d mismatched symbols, budget %d", diffCount, opts.MaxDiff))
	}
	if opts.MaxDiffRatio > 0 {
		ratio := float64(diffCount) / float64(len(sOld))
		if ratio > opts.MaxDiffRatio {
			return "", "", fail(types.ExceedsMaxDiffRatio,
				fmt.Sprintf("ratio %.2f, budget %.2f", ratio, opts.MaxDiffRatio))
		}
	}

	adjOld := original[sOrig[origFirst].Start:sOrig[origLast].End]
	adjNew := render(newPicks, original, sOrig, new, sNew)
	return adjOld, adjNew, nil
}

func fail(reason types.MatchFailReason, detail string) error {
	return &types.MatchFailError{Reason: reason, Detail: detail}
}

// render joins picked symbols back into text. Runs of consecutive
// symbols from one source are sliced out whole, keeping that source's
// interior whitespace; at a seam between runs the gap is taken from the
// whitespace that precedes the next run's first symbol in its own
// source, falling back to the whitespace that followed the previous run.
func render(picks []pick, origText string, sOrig []token.Symbol, newText string, sNew []token.Symbol) string {
	text := func(p pick) (string, []token.Symbol) {
		if p.fromNew {
			return newText, sNew
		}
		return origText, sOrig
	}

	var b strings.Builder
	for r := 0; r < len(picks); {
		s := r
		for r+1 < len(picks) && picks[r+1].fromNew == picks[r].fromNew && picks[r+1].idx == picks[r].idx+1 {
			r++
		}
		src, syms := text(picks[s])
		if s > 0 {
			b.WriteString(seamGap(picks[s-1], picks[s], origText, sOrig, newText, sNew))
		}
		b.WriteString(src[syms[picks[s].idx].Start:syms[picks[r].idx].End])
		r++
	}
	return b.String()
}

func seamGap(prev, cur pick, origText string, sOrig []token.Symbol, newText string, sNew []token.Symbol) string {
	curText, curSyms := origText, sOrig
	if cur.fromNew {
		curText, curSyms = newText, sNew
	}
	if cur.idx > 0 {
		return curText[curSyms[cur.idx-1].End:curSyms[cur.idx].Start]
	}

	prevText, prevSyms := origText, sOrig
	if prev.fromNew {
		prevText, prevSyms = newText, sNew
	}
	end := len(prevText)
	if prev.idx+1 < len(prevSyms) {
		end = prevSyms[prev.idx+1].Start
	}
	return prevText[prevSyms[prev.idx].End:end]
}
