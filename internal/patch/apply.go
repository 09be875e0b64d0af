// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"strings"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// updatedFile materializes an Update action against the file's
// pre-patch text. Chunks must arrive in strictly increasing OrigIndex
// order and stay inside the file; violations are structural errors,
// never clamped.
//
// Implements: prd004-patch-format R5.1-R5.3.
func updatedFile(text string, action types.PatchAction, path string) (string, error) {
	if action.Type != types.ActionUpdate {
		return "", types.DiffErrorf("%s: updatedFile called with %s action", path, action.Type)
	}

	origLines := strings.Split(text, "\n")
	var destLines []string
	origIndex := 0

	for _, chunk := range action.Chunks {
		if chunk.OrigIndex > len(origLines) {
			return "", types.DiffErrorf("%s: chunk orig_index %d exceeds file length %d",
				path, chunk.OrigIndex, len(origLines))
		}
		if origIndex > chunk.OrigIndex {
			return "", types.DiffErrorf("%s: overlapping chunks at %d > %d",
				path, origIndex, chunk.OrigIndex)
		}
		if chunk.OrigIndex+len(chunk.DelLines) > len(origLines) {
			return "", types.DiffErrorf("%s: chunk at %d deletes past end of file",
				path, chunk.OrigIndex)
		}
		destLines = append(destLines, origLines[origIndex:chunk.OrigIndex]...)
		destLines = append(destLines, chunk.InsLines...)
		origIndex = chunk.OrigIndex + len(chunk.DelLines)
	}
	destLines = append(destLines, origLines[origIndex:]...)
	return strings.Join(destLines, "\n"), nil
}

// ToCommit resolves a parsed patch into concrete per-file changes. For
// an Update the new content is computed here; a failure in any file
// abandons the whole commit.
//
// Implements: prd004-patch-format R5.4.
func ToCommit(p types.Patch, files map[string]string) (types.Commit, error) {
	commit := types.Commit{Changes: map[string]types.FileChange{}}
	for path, action := range p.Actions {
		switch action.Type {
		case types.ActionDelete:
			old := files[path]
			commit.Changes[path] = types.FileChange{Type: types.ActionDelete, OldContent: &old}

		case types.ActionAdd:
			content := action.Content
			commit.Changes[path] = types.FileChange{Type: types.ActionAdd, NewContent: &content}

		case types.ActionUpdate:
			newContent, err := updatedFile(files[path], action, path)
			if err != nil {
				return types.Commit{}, err
			}
			old := files[path]
			commit.Changes[path] = types.FileChange{
				Type:       types.ActionUpdate,
				OldContent: &old,
				NewContent: &newContent,
				MovePath:   action.MovePath,
			}

		default:
			return types.Commit{}, types.DiffErrorf("%s: unknown action type %d", path, action.Type)
		}
	}
	return commit, nil
}

// Apply parses a patch against the given file contents and resolves it
// to a commit in one step, returning the cumulative fuzz score.
func Apply(text string, files map[string]string) (types.Commit, int, error) {
	p, fuzz, err := Parse(text, files)
	if err != nil {
		return types.Commit{}, 0, err
	}
	commit, err := ToCommit(p, files)
	if err != nil {
		return types.Commit{}, 0, err
	}
	return commit, fuzz, nil
}
