// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd004-patch-format R1 (Patch, PatchAction, Chunk);
//
//	prd004-patch-format R5 (Commit, FileChange, DiffError).
package types

import "fmt"

// ActionType tags a PatchAction. Together with the per-type fields on
// PatchAction it forms a closed Add | Delete | Update union; consumers
// switch on it and are expected to handle all three variants.
type ActionType int

const (
	ActionAdd ActionType = iota + 1
	ActionDelete
	ActionUpdate
)

func (t ActionType) String() string {
	switch t {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Chunk is one resolved change region within an Update action.
// OrigIndex is the 0-based line index in the original file at which the
// chunk begins. Chunks in an action must be non-decreasing in OrigIndex
// and must not run past the original file's line count; both are checked
// at apply time.
type Chunk struct {
	OrigIndex int
	DelLines  []string
	InsLines  []string
}

// PatchAction is one file-level operation.
//   - ActionAdd: Content holds the full new file body.
//   - ActionDelete: no payload.
//   - ActionUpdate: Chunks hold the resolved changes; MovePath, when
//     non-empty, renames the file as part of the update.
type PatchAction struct {
	Type     ActionType
	Content  string
	Chunks   []Chunk
	MovePath string
}

// Patch maps file paths to the action to perform on each. A path appears
// at most once; duplicates are a parse error.
type Patch struct {
	Actions map[string]PatchAction
}

// FileChange is the materialized outcome for a single path. NewContent
// is nil when the path is removed (delete, or the source of a move).
type FileChange struct {
	Type       ActionType
	OldContent *string
	NewContent *string
	MovePath   string
}

// Commit is the result of applying a Patch to a set of in-memory files:
// per path, the new content or its removal. Nothing is written anywhere;
// persisting a Commit is the caller's responsibility.
type Commit struct {
	Changes map[string]FileChange
}

// DiffError is a fatal, patch-level failure: malformed sentinels,
// duplicate or missing paths, unresolvable context. A patch that
// produces a DiffError is never partially applied.
type DiffError struct {
	Msg string
}

func (e *DiffError) Error() string { return e.Msg }

// DiffErrorf builds a DiffError from a format string.
func DiffErrorf(format string, a ...any) *DiffError {
	return &DiffError{Msg: fmt.Sprintf(format, a...)}
}
