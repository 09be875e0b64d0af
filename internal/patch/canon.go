// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// asciiEquivalents collapses look-alike punctuation that models love to
// substitute for what is actually in the file. Keyed by the Unicode
// character, valued by its plain-ASCII stand-in.
var asciiEquivalents = map[rune]string{
	'‐': "-", // hyphen
	'‑': "-", // non-breaking hyphen
	'‒': "-", // figure dash
	'–': "-", // en dash
	'—': "-", // em dash
	'―': "-", // horizontal bar
	'−': "-", // minus sign

	'“': `"`, // left double quote
	'”': `"`, // right double quote
	'„': `"`, // low double quote
	'«': `"`, // left guillemet
	'»': `"`, // right guillemet

	'‘': "'", // left single quote
	'’': "'", // right single quote
	'‛': "'", // reversed single quote

	' ': " ", // no-break space
	' ': " ", // en space
	' ': " ", // em space
	' ': " ", // three-per-em space
	' ': " ", // four-per-em space
	' ': " ", // six-per-em space
	' ': " ", // figure space
	' ': " ", // punctuation space
	' ': " ", // thin space
	' ': " ", // hair space
	' ': " ", // narrow no-break space
	' ': " ", // medium mathematical space
	'　': " ", // ideographic space
}

// canonical prepares a line for context comparison: NFC normalization
// followed by the look-alike table, so cosmetic Unicode substitutions
// never block a match.
func canonical(s string) string {
	s = norm.NFC.String(s)

	changed := false
	for _, r := range s {
		if _, ok := asciiEquivalents[r]; ok {
			changed = true
			break
		}
	}
	if !changed {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := asciiEquivalents[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
