// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package reconcile defines the public interface of the edit
// reconciliation engine: fuzzy search/replace against in-memory
// documents, snippet location, and context-diff patch application.
// Implements: prd001-engine-interface R1, R2, R3;
//
//	docs/ARCHITECTURE § Engine Interface.
package reconcile

import (
	"errors"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// ErrInvalidConfig is returned by New for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config configures an Engine.
//
// Implements: prd001-engine-interface R1.1-R1.6.
type Config struct {
	MaxDiff        int     // Absolute drift budget for fuzzy edits (default 40)
	MaxDiffRatio   float64 // Relative drift budget (default 0.35)
	MinMatchStreak int     // Confidence window for the fuzzy resolver (default 3)
	Tolerance      float64 // Hint disambiguation tolerance (default 2, negative = exact hint only)
	AllowFuzzy     bool    // Enable the fuzzy-reconciliation stage
}

// Edit is one search/replace request against a document.
type Edit struct {
	Old  string       // Text believed to be in the document
	New  string       // Replacement text
	Hint *types.Match // Optional line-range hint, zero-based inclusive
}

// Engine applies edits and patches. All operations are pure: content
// goes in as strings and comes out as strings, nothing touches disk.
//
// Implements: prd001-engine-interface R2.1-R2.5.
type Engine interface {
	// Replace substitutes edit.Old with edit.New in content, running
	// the exact-first fallback ladder. The returned result carries the
	// edited document and the matched line range.
	Replace(content string, edit Edit) (*types.EditResult, error)

	// Locate reports the line range of document best covering pattern,
	// without mutating anything. ok is false when nothing overlaps.
	Locate(document, pattern string) (m types.Match, ok bool)

	// ApplyPatch parses a sentinel-delimited patch against the given
	// file contents and resolves it to a commit, returning the
	// cumulative fuzz score of the context matching.
	ApplyPatch(text string, files map[string]string) (types.Commit, int, error)

	// DiffFiles computes the chunks that turn a into b, in the same
	// shape ApplyPatch produces for an Update action.
	DiffFiles(a, b string) []types.Chunk
}
