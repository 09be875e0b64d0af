// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-git-integration R1, R2, R4;
//
//	docs/ARCHITECTURE § Git Integration.
package git

import (
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "reconcile"
	authorEmail = "noreply@reconcile"
)

// HandleDirty checks for uncommitted changes and either commits them
// separately or returns ErrDirtyWorkTree, depending on
// Config.DirtyCommit. Keeping the user's own work in its own commit
// means an undo never drags their changes along.
func (r *Repo) HandleDirty() error {
	dirty, err := r.IsDirty()
	if err != nil {
		return err
	}

	if !dirty {
		return nil
	}

	if !r.cfg.DirtyCommit {
		return ErrDirtyWorkTree
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging dirty files: %w", err)
	}

	_, err = wt.Commit(dirtyCommitMsg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing dirty files: %w", err)
	}

	return nil
}

// AutoCommit stages only the given paths and commits them with msg plus
// the identifying trailer. No-op when auto-commit is disabled.
func (r *Repo) AutoCommit(paths []string, msg string) error {
	if !r.cfg.AutoCommit {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
	}

	_, err = wt.Commit(msg+"\n\n"+coAuthorTrailer, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// Undo reverts the last commit if this tool made it. Uses a soft reset
// to the parent so the changes stay staged in the working tree.
func (r *Repo) Undo() error {
	ours, err := r.IsReconcileCommit()
	if err != nil {
		return err
	}
	if !ours {
		return ErrNotReconcileCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}

	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: parent.Hash,
		Mode:   gogit.SoftReset,
	})
	if err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}

	return nil
}
