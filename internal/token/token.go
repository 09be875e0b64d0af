// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package token splits text into comparison symbols and aligns two symbol
// sequences with a cost-capped longest-common-subsequence index mapping.
// Implements: prd002-symbol-alignment R1, R2;
//
//	docs/ARCHITECTURE § Symbol Alignment.
package token

// Symbol is the atomic comparison unit: a maximal run of identifier
// characters, or a single other non-whitespace character. Start and End
// are byte offsets into the source string so callers can recover the
// whitespace between symbols.
type Symbol struct {
	Text  string
	Start int
	End   int
}

// isWord reports whether b belongs to an identifier run.
func isWord(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// Tokenize splits text into symbols. When ignoreWhitespace is true all
// whitespace is dropped; when false, newlines are preserved as their own
// symbols so line-oriented callers keep line boundaries.
func Tokenize(text string, ignoreWhitespace bool) []Symbol {
	var syms []Symbol
	i := 0
	for i < len(text) {
		b := text[i]
		switch {
		case isWord(b):
			j := i + 1
			for j < len(text) && isWord(text[j]) {
				j++
			}
			syms = append(syms, Symbol{Text: text[i:j], Start: i, End: j})
			i = j
		case isSpace(b):
			if !ignoreWhitespace && b == '\n' {
				syms = append(syms, Symbol{Text: "\n", Start: i, End: i + 1})
			}
			i++
		default:
			// Multi-byte runes are kept whole: consume continuation bytes.
			j := i + 1
			for j < len(text) && text[j]&0xC0 == 0x80 {
				j++
			}
			syms = append(syms, Symbol{Text: text[i:j], Start: i, End: j})
			i = j
		}
	}
	return syms
}
