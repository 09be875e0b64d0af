// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-engine-interface R4;
//
//	docs/ARCHITECTURE § Engine Interface.
package reconcile

import (
	"fmt"

	"github.com/petar-djukic/reconcile/internal/editor"
	"github.com/petar-djukic/reconcile/internal/locate"
	"github.com/petar-djukic/reconcile/internal/patch"
	"github.com/petar-djukic/reconcile/internal/resolve"
	"github.com/petar-djukic/reconcile/pkg/types"
)

// New validates the config, fills defaults, and returns a ready Engine.
//
// Implements: prd001-engine-interface R4.1-R4.3.
func New(cfg Config) (Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)
	return &engine{cfg: cfg}, nil
}

type engine struct {
	cfg Config
}

func (e *engine) Replace(content string, edit Edit) (*types.EditResult, error) {
	return editor.Replace(content, edit.Old, edit.New, editor.Options{
		AllowFuzzy: e.cfg.AllowFuzzy,
		Hint:       edit.Hint,
		Tolerance:  e.cfg.Tolerance,
		Resolve: resolve.Options{
			MaxDiff:        e.cfg.MaxDiff,
			MaxDiffRatio:   e.cfg.MaxDiffRatio,
			MinMatchStreak: e.cfg.MinMatchStreak,
		},
	})
}

func (e *engine) Locate(document, pattern string) (types.Match, bool) {
	return locate.Locate(document, pattern)
}

func (e *engine) ApplyPatch(text string, files map[string]string) (types.Commit, int, error) {
	return patch.Apply(text, files)
}

func (e *engine) DiffFiles(a, b string) []types.Chunk {
	return patch.DiffFiles(a, b)
}

// validateConfig rejects settings that silently disable the safety
// checks in surprising ways.
func validateConfig(cfg Config) error {
	if cfg.MaxDiff < 0 {
		return fmt.Errorf("MaxDiff must not be negative")
	}
	if cfg.MaxDiffRatio < 0 {
		return fmt.Errorf("MaxDiffRatio must not be negative")
	}
	if cfg.MinMatchStreak < 0 {
		return fmt.Errorf("MinMatchStreak must not be negative")
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MaxDiff == 0 {
		cfg.MaxDiff = editor.DefaultMaxDiff
	}
	if cfg.MaxDiffRatio == 0 {
		cfg.MaxDiffRatio = editor.DefaultMaxDiffRatio
	}
	if cfg.MinMatchStreak == 0 {
		cfg.MinMatchStreak = resolve.DefaultMinMatchStreak
	}
	// Negative Tolerance passes through: the editor reads it as
	// exact-hint-only mode.
	if cfg.Tolerance == 0 {
		cfg.Tolerance = editor.DefaultTolerance
	}
}
