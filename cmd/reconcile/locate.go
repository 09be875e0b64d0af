// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd010-cli R4.1-R4.3.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/reconcile/internal/fsio"
	gitpkg "github.com/petar-djukic/reconcile/internal/git"
	"github.com/petar-djukic/reconcile/pkg/reconcile"
)

// locateResult is the JSON report printed by a successful locate.
type locateResult struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// newLocateCmd creates the "locate" command.
func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <file>",
		Short: "Find where a snippet lives in a file",
		Long:  "Locate reports the line range of the target file best covering the snippet in --pattern-file. It never modifies anything.",
		Args:  cobra.ExactArgs(1),
		RunE:  runLocate,
	}

	cmd.Flags().String("pattern-file", "", "File holding the snippet to locate (required)")
	cmd.MarkFlagRequired("pattern-file")

	return cmd
}

func runLocate(cmd *cobra.Command, args []string) error {
	patternPath, _ := cmd.Flags().GetString("pattern-file")
	pattern, err := os.ReadFile(patternPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", patternPath, err)
	}

	root, err := fsio.NewRoot(viper.GetString("workdir"))
	if err != nil {
		return err
	}
	target := args[0]
	files, err := root.LoadFiles([]string{target})
	if err != nil {
		return err
	}

	eng, err := reconcile.New(reconcile.Config{})
	if err != nil {
		return err
	}

	m, ok := eng.Locate(files[target], string(pattern))
	if !ok {
		return fmt.Errorf("no part of %s overlaps the pattern", target)
	}

	return printJSON(locateResult{
		File:      target,
		StartLine: m.StartLine,
		EndLine:   m.EndLine,
	})
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last reconcile commit",
		Long:  "Undo performs a soft reset of the last commit if reconcile made it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: viper.GetString("workdir")})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Println("Successfully reverted last reconcile commit.")
			return nil
		},
	}
}
