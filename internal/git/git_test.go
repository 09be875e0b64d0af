// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/reconcile/pkg/types"
)

func TestOpen_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(Config{WorkDir: dir, AutoCommit: true, DirtyCommit: true})
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpen_NotARepo(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(Config{WorkDir: dir})
	assert.ErrorIs(t, err, ErrNoGit)
}

func TestIsDirty(t *testing.T) {
	t.Run("clean repo", func(t *testing.T) {
		dir := initTestRepo(t)
		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		dirty, err := repo.IsDirty()
		require.NoError(t, err)
		assert.False(t, dirty)
	})

	t.Run("unstaged changes", func(t *testing.T) {
		dir := initTestRepo(t)
		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("modified\n"), 0o644))

		dirty, err := repo.IsDirty()
		require.NoError(t, err)
		assert.True(t, dirty)
	})

	t.Run("untracked files", func(t *testing.T) {
		dir := initTestRepo(t)
		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x\n"), 0o644))

		dirty, err := repo.IsDirty()
		require.NoError(t, err)
		assert.True(t, dirty)
	})
}

func TestIsReconcileCommit(t *testing.T) {
	t.Run("our commit", func(t *testing.T) {
		dir := initTestRepo(t)
		addFileAndCommit(t, dir, "x.txt", "x\n", "reconcile: apply patch to x.txt\n\n"+coAuthorTrailer)

		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		ours, err := repo.IsReconcileCommit()
		require.NoError(t, err)
		assert.True(t, ours)
	})

	t.Run("someone else's commit", func(t *testing.T) {
		dir := initTestRepo(t)

		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		ours, err := repo.IsReconcileCommit()
		require.NoError(t, err)
		assert.False(t, ours)
	})
}

func TestMessageForCommit(t *testing.T) {
	content := "new\n"
	old := "old\n"

	t.Run("single file", func(t *testing.T) {
		msg := MessageForCommit(types.Commit{Changes: map[string]types.FileChange{
			"pkg/a.go": {Type: types.ActionUpdate, OldContent: &old, NewContent: &content},
		}})
		assert.Equal(t, "reconcile: apply patch to pkg/a.go", firstLineOf(msg))
		assert.Contains(t, msg, "- update pkg/a.go")
	})

	t.Run("multiple files sorted", func(t *testing.T) {
		msg := MessageForCommit(types.Commit{Changes: map[string]types.FileChange{
			"b.txt": {Type: types.ActionDelete, OldContent: &old},
			"a.txt": {Type: types.ActionAdd, NewContent: &content},
		}})
		assert.Equal(t, "reconcile: apply patch to 2 files", firstLineOf(msg))
		assert.Less(t, strings.Index(msg, "- add a.txt"), strings.Index(msg, "- delete b.txt"))
	})

	t.Run("move is spelled out", func(t *testing.T) {
		msg := MessageForCommit(types.Commit{Changes: map[string]types.FileChange{
			"old.txt": {Type: types.ActionUpdate, OldContent: &old, NewContent: &content, MovePath: "new.txt"},
		}})
		assert.Contains(t, msg, "- update old.txt (moved to new.txt)")
	})

	t.Run("subject stays within limit", func(t *testing.T) {
		long := strings.Repeat("d/", 50) + "file.txt"
		msg := MessageForCommit(types.Commit{Changes: map[string]types.FileChange{
			long: {Type: types.ActionAdd, NewContent: &content},
		}})
		assert.LessOrEqual(t, len(firstLineOf(msg)), maxSubjectLength)
	})
}

// initTestRepo creates a temp dir with a git repo and an initial commit.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644))

	_, err = wt.Add("a.txt")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

// addFileAndCommit adds a file and creates a commit with the given message.
func addFileAndCommit(t *testing.T, dir, name, content, msg string) {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	_, err = wt.Add(name)
	require.NoError(t, err)

	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}

func firstLineOf(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
