// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-engine-interface R5.1, R5.2 (Match, EditResult);
//
//	prd005-fuzzy-resolve R4 (MatchFailReason, MatchFailError).
package types

import "fmt"

// Match is a line range where a literal string occurs in a document.
// Both bounds are 0-based and inclusive.
type Match struct {
	StartLine int
	EndLine   int
}

// MatchFailReason identifies why fuzzy reconciliation refused an edit.
// The set is closed: callers are expected to handle every variant.
type MatchFailReason int

const (
	FirstSymbolOfOldNotInOriginal MatchFailReason = iota // old's opening symbol has no anchor in the document
	LastSymbolOfOldNotInOriginal                         // old's closing symbol has no anchor in the document
	SymbolInOldNotInOriginalOrNew                        // an old symbol matches neither the document nor the replacement
	AmbiguousReplacement                                 // two nearby diffs admit contradictory alignments
	ExceedsMaxDiff                                       // absolute mismatched-symbol budget exhausted
	ExceedsMaxDiffRatio                                  // relative mismatched-symbol budget exhausted
)

func (r MatchFailReason) String() string {
	switch r {
	case FirstSymbolOfOldNotInOriginal:
		return "first_symbol_of_old_not_in_original"
	case LastSymbolOfOldNotInOriginal:
		return "last_symbol_of_old_not_in_original"
	case SymbolInOldNotInOriginalOrNew:
		return "symbol_in_old_not_in_original_or_new"
	case AmbiguousReplacement:
		return "ambiguous_replacement"
	case ExceedsMaxDiff:
		return "exceeds_max_diff"
	case ExceedsMaxDiffRatio:
		return "exceeds_max_diff_ratio"
	default:
		return "unknown"
	}
}

// MatchFailError carries a MatchFailReason across the error interface so
// callers can both errors.As on it and switch on Reason exhaustively.
type MatchFailError struct {
	Reason MatchFailReason
	Detail string // Optional human-readable context (offending symbol, counts)
}

func (e *MatchFailError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fuzzy match failed: %s", e.Reason)
	}
	return fmt.Sprintf("fuzzy match failed: %s (%s)", e.Reason, e.Detail)
}

// EditResult describes one successful reconciliation attempt. It is
// ephemeral: constructed per call, never persisted.
type EditResult struct {
	Content string // Full updated document content
	Match   Match  // Line range that was replaced
	Fuzzy   bool   // True if fuzzy reconciliation adjusted the strings
}
