// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-git-integration R3;
//
//	docs/ARCHITECTURE § Git Integration.
package git

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/reconcile/pkg/types"
)

const maxSubjectLength = 72

// MessageForCommit builds a commit message describing an applied
// patch: a one-line subject naming the touched files, and a body with
// one line per change.
func MessageForCommit(c types.Commit) string {
	paths := make([]string, 0, len(c.Changes))
	for p := range c.Changes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	subject := buildSubject(paths)
	body := buildBody(paths, c.Changes)
	return subject + "\n\n" + body
}

// buildSubject names the single touched file, or counts them.
func buildSubject(paths []string) string {
	var subject string
	if len(paths) == 1 {
		subject = fmt.Sprintf("reconcile: apply patch to %s", paths[0])
	} else {
		subject = fmt.Sprintf("reconcile: apply patch to %d files", len(paths))
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

func buildBody(paths []string, changes map[string]types.FileChange) string {
	var b strings.Builder
	for _, p := range paths {
		ch := changes[p]
		switch {
		case ch.Type == types.ActionUpdate && ch.MovePath != "":
			fmt.Fprintf(&b, "- update %s (moved to %s)\n", p, ch.MovePath)
		default:
			fmt.Fprintf(&b, "- %s %s\n", ch.Type, p)
		}
	}
	return b.String()
}
