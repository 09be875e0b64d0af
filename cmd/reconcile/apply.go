// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd010-cli R2.1-R2.6.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/reconcile/internal/fsio"
	gitpkg "github.com/petar-djukic/reconcile/internal/git"
	"github.com/petar-djukic/reconcile/internal/patch"
	"github.com/petar-djukic/reconcile/pkg/types"
)

// applyResult is the JSON report printed after a successful apply.
type applyResult struct {
	Files []string `json:"files"`
	Fuzz  int      `json:"fuzz"`
}

// newApplyCmd creates the "apply" command.
func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [patch-file]",
		Short: "Apply a patch to the working directory",
		Long:  "Apply reads a *** Begin Patch / *** End Patch document from the given file (or stdin) and applies it to the files under --workdir. The patch either applies in full or not at all.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runApply,
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	root, err := fsio.NewRoot(viper.GetString("workdir"))
	if err != nil {
		return err
	}

	files, err := root.LoadFiles(patch.FilesNeeded(text))
	if err != nil {
		return err
	}

	commit, fuzz, err := patch.Apply(text, files)
	if err != nil {
		return fmt.Errorf("applying patch: %w", err)
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

	if err := root.ApplyCommit(commit); err != nil {
		return err
	}

	paths := touchedPaths(commit)
	if repo != nil {
		if err := repo.AutoCommit(paths, gitpkg.MessageForCommit(commit)); err != nil {
			return err
		}
	}

	return printJSON(applyResult{Files: paths, Fuzz: fuzz})
}

// openRepo opens the git repository unless git is disabled. A missing
// repository is not an error; it just disables the git steps.
func openRepo(dir string) (*gitpkg.Repo, error) {
	if viper.GetBool("no-git") {
		return nil, nil
	}
	repo, err := gitpkg.Open(gitpkg.Config{
		WorkDir:     dir,
		AutoCommit:  true,
		DirtyCommit: !viper.GetBool("no-dirty-commit"),
	})
	if err != nil {
		return nil, nil
	}
	return repo, nil
}

// touchedPaths lists every path a commit writes or removes, including
// move targets, sorted for stable output.
func touchedPaths(commit types.Commit) []string {
	var paths []string
	for p, ch := range commit.Changes {
		paths = append(paths, p)
		if ch.MovePath != "" {
			paths = append(paths, ch.MovePath)
		}
	}
	sort.Strings(paths)
	return paths
}

// readInput returns the contents of the named file, or stdin when no
// argument (or "-") is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
