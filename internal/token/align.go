// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-symbol-alignment R2.1-R2.6.
package token

// Unmatched marks a position in sequence A with no counterpart in B.
const Unmatched = -1

// alignBudget caps the total number of DP cells one Align call may
// touch. The band half-width for a given input is alignBudget/len(a),
// so pathological inputs degrade to a narrower band instead of hanging.
const alignBudget = 1 << 21

// minBandWidth keeps short sequences from degenerating to a useless band.
const minBandWidth = 16

const negInf = -1 << 30

// BandWidth returns the band half-width to use when aligning a sequence
// of n symbols under the fixed compute budget.
func BandWidth(n int) int {
	if n <= 0 {
		return minBandWidth
	}
	k := alignBudget / n
	if k < minBandWidth {
		k = minBandWidth
	}
	return k
}

// Align computes a longest-common-subsequence index mapping from a to b.
// The result has len(a) entries; entry i is the index in b matched to
// a[i], or Unmatched. All matched entries are strictly increasing.
//
// The DP table is restricted to the band |i-j| <= maxIndexDiff, giving
// O(len(a)*maxIndexDiff) time and space. Backtracking starts from the
// best cell in the last row: the caller only needs a position in b for
// every position in a, so the tail of b may go unconsumed.
func Align(a, b []Symbol, maxIndexDiff int) []int {
	n, m := len(a), len(b)
	res := make([]int, n)
	for i := range res {
		res[i] = Unmatched
	}
	if n == 0 || m == 0 {
		return res
	}

	k := maxIndexDiff
	if k < 1 {
		k = 1
	}
	w := 2*k + 1

	// Flat, index-addressed table: cell (i,j) lives at i*w + (j-i+k),
	// valid only when |i-j| <= k. No per-row allocation.
	dp := make([]int32, (n+1)*w)
	at := func(i, j int) int32 {
		if j < i-k || j > i+k || j < 0 || j > m {
			return negInf
		}
		return dp[i*w+(j-i+k)]
	}

	for i := 0; i <= n; i++ {
		lo, hi := i-k, i+k
		if lo < 0 {
			lo = 0
		}
		if hi > m {
			hi = m
		}
		for j := lo; j <= hi; j++ {
			if i == 0 {
				dp[j+k] = 0
				continue
			}
			best := int32(negInf)
			if v := at(i, j-1); v > best {
				best = v
			}
			if v := at(i-1, j); v > best {
				best = v
			}
			if j > 0 {
				v := at(i-1, j-1)
				if v > negInf && a[i-1].Text == b[j-1].Text {
					v++
				}
				if v > best {
					best = v
				}
			}
			dp[i*w+(j-i+k)] = best
		}
	}

	// Best cell in the last row, earliest column on ties.
	lo, hi := n-k, n+k
	if lo < 0 {
		lo = 0
	}
	if hi > m {
		hi = m
	}
	bj := lo
	for j := lo; j <= hi; j++ {
		if at(n, j) > at(n, bj) {
			bj = j
		}
	}

	i, j := n, bj
	for i > 0 {
		if j > 0 && a[i-1].Text == b[j-1].Text && at(i, j) == at(i-1, j-1)+1 {
			res[i-1] = j - 1
			i--
			j--
			continue
		}
		if at(i, j) == at(i-1, j) {
			i--
			continue
		}
		if j > 0 {
			j--
			continue
		}
		i--
	}
	return res
}
