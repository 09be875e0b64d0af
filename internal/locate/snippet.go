// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package locate

import (
	"hash/fnv"
	"strings"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// Locate finds the document region best covering pattern, comparing
// per-line FNV-1a hashes with an LCS that, among alignments of maximal
// length, prefers the shortest spanned region. The search runs twice,
// with exact lines and with leading whitespace ignored, and the higher
// score wins; the exact run takes a tie. Locate only reports a line
// range, it never rewrites content.
//
// Implements: prd006-snippet-locator R1.1-R1.5.
func Locate(document, pattern string) (types.Match, bool) {
	docLines := strings.Split(document, "\n")
	patLines := strings.Split(pattern, "\n")

	exact, exactScore := bestSpan(hashLines(docLines, false), hashLines(patLines, false))
	loose, looseScore := bestSpan(hashLines(docLines, true), hashLines(patLines, true))

	if exactScore == 0 && looseScore == 0 {
		return types.Match{}, false
	}
	if looseScore > exactScore {
		return loose, true
	}
	return exact, true
}

// hashLines maps each line to its 32-bit FNV-1a hash, optionally
// dropping leading whitespace first.
func hashLines(lines []string, ignoreIndent bool) []uint32 {
	hashes := make([]uint32, len(lines))
	for i, line := range lines {
		if ignoreIndent {
			line = strings.TrimLeft(line, " \t")
		}
		h := fnv.New32a()
		h.Write([]byte(line))
		hashes[i] = h.Sum32()
	}
	return hashes
}

// spanCell tracks, for a DP prefix pair, the best LCS length and the
// first/last document lines participating in it.
type spanCell struct {
	lcs   int
	first int
	last  int
}

// betterSpan orders cells by LCS length, then by narrower span, then by
// later start. The later-start preference keeps a partial alignment
// free to re-anchor on a closer repeat of its opening lines.
func betterSpan(a, b spanCell) bool {
	if a.lcs != b.lcs {
		return a.lcs > b.lcs
	}
	if a.last-a.first != b.last-b.first {
		return a.last-a.first < b.last-b.first
	}
	return a.first > b.first
}

// bestSpan runs the span-minimizing LCS over two hash sequences and
// returns the covered document range plus the LCS length as score.
func bestSpan(doc, pat []uint32) (types.Match, int) {
	n, m := len(doc), len(pat)
	if n == 0 || m == 0 {
		return types.Match{}, 0
	}

	prev := make([]spanCell, m+1)
	cur := make([]spanCell, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = spanCell{first: -1, last: -1}
	}

	for i := 1; i <= n; i++ {
		cur[0] = spanCell{first: -1, last: -1}
		for j := 1; j <= m; j++ {
			best := prev[j]
			if betterSpan(cur[j-1], best) {
				best = cur[j-1]
			}
			if doc[i-1] == pat[j-1] {
				c := prev[j-1]
				c.lcs++
				if c.first < 0 {
					c.first = i - 1
				}
				c.last = i - 1
				if betterSpan(c, best) {
					best = c
				}
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}

	final := prev[m]
	if final.lcs == 0 {
		return types.Match{}, 0
	}
	return types.Match{StartLine: final.first, EndLine: final.last}, final.lcs
}
