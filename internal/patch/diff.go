// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// DiffFiles computes the chunks that turn a into b, in the same shape
// the parser produces. Lines are mapped to unique runes so the diff
// runs over whole lines, then the rune-level edits are regrouped into
// delete/insert chunks anchored at their pre-edit line index.
//
// Implements: prd004-patch-format R6.1-R6.3.
func DiffFiles(a, b string) []types.Chunk {
	enc := newLineEncoder()
	encA := enc.encode(strings.Split(a, "\n"))
	encB := enc.encode(strings.Split(b, "\n"))

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(encA, encB, false)

	var chunks []types.Chunk
	var delLines, insLines []string
	origIndex := 0
	chunkStart := 0

	flush := func() {
		if len(delLines) == 0 && len(insLines) == 0 {
			return
		}
		chunks = append(chunks, types.Chunk{
			OrigIndex: chunkStart,
			DelLines:  delLines,
			InsLines:  insLines,
		})
		delLines, insLines = nil, nil
	}

	for _, d := range diffs {
		lines := enc.decode(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			origIndex += len(lines)
		case diffmatchpatch.DiffDelete:
			if len(delLines) == 0 && len(insLines) == 0 {
				chunkStart = origIndex
			}
			delLines = append(delLines, lines...)
			origIndex += len(lines)
		case diffmatchpatch.DiffInsert:
			if len(delLines) == 0 && len(insLines) == 0 {
				chunkStart = origIndex
			}
			insLines = append(insLines, lines...)
		}
	}
	flush()
	return chunks
}

// lineEncoder maps each distinct line to one rune so a character diff
// becomes a line diff. Surrogate code points are skipped to keep every
// assigned rune valid in a Go string.
type lineEncoder struct {
	byLine map[string]rune
	byRune map[rune]string
	next   rune
}

func newLineEncoder() *lineEncoder {
	return &lineEncoder{
		byLine: map[string]rune{},
		byRune: map[rune]string{},
		next:   1,
	}
}

func (e *lineEncoder) encode(lines []string) string {
	var b strings.Builder
	b.Grow(len(lines))
	for _, line := range lines {
		r, ok := e.byLine[line]
		if !ok {
			r = e.next
			e.next++
			if e.next == 0xD800 {
				e.next = 0xE000
			}
			e.byLine[line] = r
			e.byRune[r] = line
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (e *lineEncoder) decode(s string) []string {
	var lines []string
	for _, r := range s {
		lines = append(lines, e.byRune[r])
	}
	return lines
}
