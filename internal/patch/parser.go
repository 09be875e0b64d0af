// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package patch parses and applies the sentinel-delimited context-diff
// format used by coding agents: a *** Begin Patch / *** End Patch
// envelope around per-file Add, Delete, and Update sections, with
// hunk context resolved against the target files at parse time.
// Implements: prd004-patch-format R1-R5;
//
//	docs/ARCHITECTURE § Patch Engine.
package patch

import (
	"strings"

	"github.com/petar-djukic/reconcile/pkg/types"
)

// Patch sentinels.
const (
	beginSentinel  = "*** Begin Patch"
	endSentinel    = "*** End Patch"
	updateSentinel = "*** Update File: "
	deleteSentinel = "*** Delete File: "
	addSentinel    = "*** Add File: "
	moveSentinel   = "*** Move to: "
	eofSentinel    = "*** End of File"
)

// Fuzz penalties per non-exact matching pass. Only the ordering
// matters: an exact match always outranks any fuzzed one, and the EOF
// fallback penalty dwarfs everything else.
const (
	fuzzRStrip      = 1
	fuzzStrip       = 100
	fuzzEOFFallback = 10_000
)

// parser walks the patch text line by line, resolving each Update
// section's hunks against the current content of the target file.
type parser struct {
	files map[string]string // pre-patch content of every referenced file
	lines []string
	idx   int
	patch types.Patch
	fuzz  int
}

// Parse validates the envelope and parses the whole patch against the
// given file contents. It returns the structured patch plus the
// cumulative fuzz score; any structural problem is a *types.DiffError
// and poisons the patch as a whole.
//
// Implements: prd004-patch-format R2.1-R2.8.
func Parse(text string, files map[string]string) (types.Patch, int, error) {
	lines := splitLines(text)
	if len(lines) < 2 || stripCR(lines[0]) != beginSentinel || stripCR(lastNonEmpty(lines)) != endSentinel {
		return types.Patch{}, 0, types.DiffErrorf("invalid patch text: missing begin/end sentinels")
	}

	p := &parser{
		files: files,
		lines: lines,
		idx:   1,
		patch: types.Patch{Actions: map[string]types.PatchAction{}},
	}
	if err := p.parse(); err != nil {
		return types.Patch{}, 0, err
	}
	return p.patch, p.fuzz, nil
}

// FilesNeeded lists the paths a patch reads or removes: every Update
// and Delete target. The caller must supply their contents to Parse.
func FilesNeeded(text string) []string {
	var out []string
	for _, sentinel := range []string{updateSentinel, deleteSentinel} {
		for _, line := range splitLines(text) {
			if strings.HasPrefix(stripCR(line), sentinel) {
				out = append(out, stripCR(line)[len(sentinel):])
			}
		}
	}
	return out
}

// FilesAdded lists the paths a patch creates.
func FilesAdded(text string) []string {
	var out []string
	for _, line := range splitLines(text) {
		if strings.HasPrefix(stripCR(line), addSentinel) {
			out = append(out, stripCR(line)[len(addSentinel):])
		}
	}
	return out
}

func (p *parser) parse() error {
	for !p.done(endSentinel) {
		if path, ok := p.readStr(updateSentinel); ok {
			if _, dup := p.patch.Actions[path]; dup {
				return types.DiffErrorf("duplicate update for file: %s", path)
			}
			moveTo, _ := p.readStr(moveSentinel)
			text, exists := p.files[path]
			if !exists {
				return types.DiffErrorf("update references missing file: %s", path)
			}
			action, err := p.parseUpdate(text, path)
			if err != nil {
				return err
			}
			action.MovePath = moveTo
			p.patch.Actions[path] = action
			continue
		}

		if path, ok := p.readStr(deleteSentinel); ok {
			if _, dup := p.patch.Actions[path]; dup {
				return types.DiffErrorf("duplicate delete for file: %s", path)
			}
			if _, exists := p.files[path]; !exists {
				return types.DiffErrorf("delete references missing file: %s", path)
			}
			p.patch.Actions[path] = types.PatchAction{Type: types.ActionDelete}
			continue
		}

		if path, ok := p.readStr(addSentinel); ok {
			if _, dup := p.patch.Actions[path]; dup {
				return types.DiffErrorf("duplicate add for file: %s", path)
			}
			if _, exists := p.files[path]; exists {
				return types.DiffErrorf("add targets existing file: %s", path)
			}
			action, err := p.parseAdd()
			if err != nil {
				return err
			}
			p.patch.Actions[path] = action
			continue
		}

		return types.DiffErrorf("unknown line while parsing: %s", p.cur())
	}

	if stripCR(p.cur()) != endSentinel {
		return types.DiffErrorf("missing %s sentinel", endSentinel)
	}
	p.idx++
	return nil
}

// parseUpdate consumes one Update section, resolving every @@ locator
// and hunk context against the file's lines.
//
// Implements: prd004-patch-format R3.1-R3.6.
func (p *parser) parseUpdate(text, path string) (types.PatchAction, error) {
	action := types.PatchAction{Type: types.ActionUpdate}
	lines := strings.Split(text, "\n")
	index := 0

	for !p.done(endSentinel, updateSentinel, deleteSentinel, addSentinel, eofSentinel) {
		locator, hasLocator := p.readStr("@@ ")
		if !hasLocator && stripCR(p.cur()) == "@@" {
			// Bare @@: separator only, no context to seek.
			p.idx++
			hasLocator = true
		}
		if !hasLocator && len(action.Chunks) > 0 {
			return action, types.DiffErrorf("%s: invalid line in update section: %s", path, p.cur())
		}

		if strings.TrimSpace(locator) != "" {
			index = p.seekLocator(lines, locator, index)
		}

		ctx, chunks, nextIdx, eof, err := p.readHunk(path)
		if err != nil {
			return action, err
		}
		at, fuzz := findContext(lines, ctx, index, eof)
		if at < 0 {
			kind := ""
			if eof {
				kind = "EOF "
			}
			return action, types.DiffErrorf("%s: unresolvable %scontext at line %d:\n%s",
				path, kind, index, strings.Join(ctx, "\n"))
		}
		p.fuzz += fuzz
		for _, ch := range chunks {
			ch.OrigIndex += at
			action.Chunks = append(action.Chunks, ch)
		}
		index = at + len(ctx)
		p.idx = nextIdx
	}
	return action, nil
}

// seekLocator advances index past the @@ context line, trying an exact
// line first and a trimmed comparison second. A locator that cannot be
// found is not fatal: the hunk context still has to resolve.
func (p *parser) seekLocator(lines []string, locator string, index int) int {
	want := canonical(locator)
	for i := index; i < len(lines); i++ {
		if canonical(lines[i]) == want {
			return i + 1
		}
	}
	want = strings.TrimSpace(want)
	for i := index; i < len(lines); i++ {
		if strings.TrimSpace(canonical(lines[i])) == want {
			p.fuzz++
			return i + 1
		}
	}
	return index
}

// readHunk consumes hunk body lines up to the next sentinel, splitting
// them into the unchanged context and the delete/insert chunks, each
// chunk carrying its offset within the context.
func (p *parser) readHunk(path string) (ctx []string, chunks []types.Chunk, nextIdx int, eof bool, err error) {
	const (
		modeKeep = iota
		modeDelete
		modeAdd
	)

	var delLines, insLines []string
	mode := modeKeep
	start := p.idx
	idx := p.idx

	flush := func() {
		if len(delLines) == 0 && len(insLines) == 0 {
			return
		}
		chunks = append(chunks, types.Chunk{
			OrigIndex: len(ctx) - len(delLines),
			DelLines:  append([]string(nil), delLines...),
			InsLines:  append([]string(nil), insLines...),
		})
		delLines, insLines = nil, nil
	}

	for idx < len(p.lines) {
		raw := p.lines[idx]
		s := stripCR(raw)
		if s == "***" || strings.HasPrefix(s, "@@") ||
			strings.HasPrefix(s, endSentinel) || strings.HasPrefix(s, updateSentinel) ||
			strings.HasPrefix(s, deleteSentinel) || strings.HasPrefix(s, addSentinel) ||
			strings.HasPrefix(s, eofSentinel) {
			break
		}
		if strings.HasPrefix(s, "***") {
			return nil, nil, 0, false, types.DiffErrorf("%s: invalid line in hunk: %s", path, raw)
		}
		idx++

		line := raw
		if line == "" {
			// A fully blank line stands for an empty context line.
			line = " "
		}

		last := mode
		switch line[0] {
		case '+':
			mode = modeAdd
		case '-':
			mode = modeDelete
		case ' ':
			mode = modeKeep
		default:
			return nil, nil, 0, false, types.DiffErrorf("%s: invalid hunk line tag: %s", path, raw)
		}
		line = line[1:]

		if mode == modeKeep && last != modeKeep {
			flush()
		}

		switch mode {
		case modeDelete:
			delLines = append(delLines, line)
			ctx = append(ctx, line)
		case modeAdd:
			insLines = append(insLines, line)
		case modeKeep:
			ctx = append(ctx, line)
		}
	}
	flush()

	if idx < len(p.lines) && stripCR(p.lines[idx]) == eofSentinel {
		idx++
		return ctx, chunks, idx, true, nil
	}
	if idx == start {
		return nil, nil, 0, false, types.DiffErrorf("%s: empty hunk", path)
	}
	return ctx, chunks, idx, false, nil
}

func (p *parser) parseAdd() (types.PatchAction, error) {
	var lines []string
	for !p.done(endSentinel, updateSentinel, deleteSentinel, addSentinel) {
		s := p.cur()
		p.idx++
		if !strings.HasPrefix(s, "+") {
			return types.PatchAction{}, types.DiffErrorf("invalid add-file line (missing '+'): %s", s)
		}
		lines = append(lines, s[1:])
	}
	return types.PatchAction{Type: types.ActionAdd, Content: strings.Join(lines, "\n")}, nil
}

// ---- context search ----

// findContext locates ctx in lines at or after start. EOF-anchored
// hunks try the file tail first and only fall back to a forward scan
// with a large fuzz penalty.
//
// Implements: prd004-patch-format R4.1-R4.4.
func findContext(lines, ctx []string, start int, eof bool) (int, int) {
	if eof {
		pos := len(lines) - len(ctx)
		if pos < 0 {
			pos = 0
		}
		if at, fuzz := findContextCore(lines, ctx, pos); at >= 0 {
			return at, fuzz
		}
		if at, fuzz := findContextCore(lines, ctx, start); at >= 0 {
			return at, fuzz + fuzzEOFFallback
		}
		return -1, 0
	}
	return findContextCore(lines, ctx, start)
}

// findContextCore runs the three passes of decreasing strictness. All
// comparisons see canonicalized text.
func findContextCore(lines, ctx []string, start int) (int, int) {
	if len(ctx) == 0 {
		return start, 0
	}
	passes := []struct {
		prep func(string) string
		fuzz int
	}{
		{func(s string) string { return canonical(s) }, 0},
		{func(s string) string { return strings.TrimRight(canonical(s), " \t\r\n") }, fuzzRStrip},
		{func(s string) string { return strings.TrimSpace(canonical(s)) }, fuzzStrip},
	}

	for _, pass := range passes {
		want := make([]string, len(ctx))
		for i, c := range ctx {
			want[i] = pass.prep(c)
		}
		for i := start; i+len(ctx) <= len(lines); i++ {
			hit := true
			for j := range want {
				if pass.prep(lines[i+j]) != want[j] {
					hit = false
					break
				}
			}
			if hit {
				return i, pass.fuzz
			}
		}
	}
	return -1, 0
}

// ---- line helpers ----

func (p *parser) cur() string {
	if p.idx >= len(p.lines) {
		return ""
	}
	return p.lines[p.idx]
}

func (p *parser) done(sentinels ...string) bool {
	if p.idx >= len(p.lines) {
		return true
	}
	s := stripCR(p.cur())
	for _, sentinel := range sentinels {
		if strings.HasPrefix(s, sentinel) {
			return true
		}
	}
	return false
}

// readStr consumes the current line when it starts with prefix and
// returns the raw remainder.
func (p *parser) readStr(prefix string) (string, bool) {
	if p.idx >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.idx]
	if !strings.HasPrefix(stripCR(line), prefix) {
		return "", false
	}
	p.idx++
	return stripCR(line)[len(prefix):], true
}

// stripCR strips carriage returns so LF and CRLF patches parse alike.
func stripCR(line string) string {
	return strings.TrimRight(line, "\r")
}

// splitLines splits on \n, \r\n, and bare \r without keeping the
// separators or inventing a trailing empty line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			i++
			start = i
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			start = i
		default:
			i++
		}
	}
	if start != len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func lastNonEmpty(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}
