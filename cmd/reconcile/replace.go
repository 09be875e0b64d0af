// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd010-cli R3.1-R3.5.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/reconcile/internal/fsio"
	"github.com/petar-djukic/reconcile/pkg/reconcile"
	"github.com/petar-djukic/reconcile/pkg/types"
)

// replaceResult is the JSON report printed after a successful replace.
type replaceResult struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Fuzzy     bool   `json:"fuzzy"`
}

// newReplaceCmd creates the "replace" command.
func newReplaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace <file>",
		Short: "Apply one search/replace edit to a file",
		Long:  "Replace substitutes the text in --old-file with the text in --new-file inside the target file, falling back to indentation repair and (with --fuzzy and a hint) fuzzy reconciliation.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplace,
	}

	cmd.Flags().String("old-file", "", "File holding the text to search for (required)")
	cmd.Flags().String("new-file", "", "File holding the replacement text (required)")
	cmd.Flags().Bool("fuzzy", false, "Allow fuzzy reconciliation of drifted context")
	cmd.Flags().Int("start-line", -1, "Hint: zero-based line where the edit starts")
	cmd.Flags().Int("end-line", -1, "Hint: zero-based line where the edit ends")
	cmd.MarkFlagRequired("old-file")
	cmd.MarkFlagRequired("new-file")

	return cmd
}

func runReplace(cmd *cobra.Command, args []string) error {
	oldPath, _ := cmd.Flags().GetString("old-file")
	newPath, _ := cmd.Flags().GetString("new-file")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")
	startLine, _ := cmd.Flags().GetInt("start-line")
	endLine, _ := cmd.Flags().GetInt("end-line")

	oldText, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", oldPath, err)
	}
	newText, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", newPath, err)
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

	eng, err := reconcile.New(reconcile.Config{
		MaxDiff:      viper.GetInt("max-diff"),
		MaxDiffRatio: viper.GetFloat64("max-diff-ratio"),
		Tolerance:    viper.GetFloat64("tolerance"),
		AllowFuzzy:   fuzzy,
	})
	if err != nil {
		return err
	}

	edit := reconcile.Edit{Old: string(oldText), New: string(newText)}
	if startLine >= 0 {
		if endLine < startLine {
			endLine = startLine
		}
		edit.Hint = &types.Match{StartLine: startLine, EndLine: endLine}
	}

	res, err := eng.Replace(files[target], edit)
	if err != nil {
		return fmt.Errorf("replacing in %s: %w", target, err)
	}

	repo, err := openRepo(root.Dir())
	if err != nil {
		return err
	}
	if repo != nil {
		if err := repo.HandleDirty(); err != nil {
			return err
		}
	}

	if err := root.WriteFile(target, res.Content); err != nil {
		return err
	}

	if repo != nil {
		msg := fmt.Sprintf("reconcile: edit %s", target)
		if err := repo.AutoCommit([]string{target}, msg); err != nil {
			return err
		}
	}

	return printJSON(replaceResult{
		File:      target,
		StartLine: res.Match.StartLine,
		EndLine:   res.Match.EndLine,
		Fuzzy:     res.Fuzzy,
	})
}
