// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package locate

import "strings"

// RepairIndent handles a snippet echoed one nesting level away from its
// true location. When the document and both strings indent with tabs,
// and every non-blank line of old and new carries at least one leading
// tab, it strips exactly one tab from each of their lines so the caller
// can retry the locator. The returned bool reports whether a repair was
// made; when false the inputs come back unchanged.
//
// Implements: prd003-match-locator R3.1-R3.3.
func RepairIndent(doc, old, new string) (string, string, bool) {
	if !tabIndented(doc) || !tabIndented(old) || !tabIndented(new) {
		return old, new, false
	}
	if !everyLineTabbed(old) || !everyLineTabbed(new) {
		return old, new, false
	}
	return stripOneTab(old), stripOneTab(new), true
}

// tabIndented reports whether tabs dominate spaces as the leading
// indent character across s's indented lines.
func tabIndented(s string) bool {
	tabs, spaces := 0, 0
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.HasPrefix(line, "\t"):
			tabs++
		case strings.HasPrefix(line, " "):
			spaces++
		}
	}
	return tabs > 0 && tabs >= spaces
}

func everyLineTabbed(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "\t") {
			return false
		}
	}
	return true
}

func stripOneTab(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "\t")
	}
	return strings.Join(lines, "\n")
}
