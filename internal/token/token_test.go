// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name             string
		in               string
		ignoreWhitespace bool
		want             []string
	}{
		{
			name:             "identifier runs stay whole",
			in:               "foo_bar2 baz",
			ignoreWhitespace: true,
			want:             []string{"foo_bar2", "baz"},
		},
		{
			name:             "punctuation splits one per character",
			in:               "a.b(c)",
			ignoreWhitespace: true,
			want:             []string{"a", ".", "b", "(", "c", ")"},
		},
		{
			name:             "whitespace dropped",
			in:               "x = 1\n\ty += 2",
			ignoreWhitespace: true,
			want:             []string{"x", "=", "1", "y", "+", "=", "2"},
		},
		{
			name:             "newlines preserved in line mode",
			in:               "a\nb",
			ignoreWhitespace: false,
			want:             []string{"a", "\n", "b"},
		},
		{
			name:             "empty input",
			in:               "",
			ignoreWhitespace: true,
			want:             nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syms := Tokenize(tt.in, tt.ignoreWhitespace)
			var texts []string
			for _, s := range syms {
				texts = append(texts, s.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestTokenize_OffsetsSliceSource(t *testing.T) {
	src := "if x == 1 {\n\treturn\n}"
	for _, s := range Tokenize(src, true) {
		assert.Equal(t, s.Text, src[s.Start:s.End])
	}
}

func TestTokenize_MultiByteRunes(t *testing.T) {
	syms := Tokenize("a — b", true)
	require.Len(t, syms, 3)
	assert.Equal(t, "—", syms[1].Text)
}

func toSymbols(texts []string) []Symbol {
	syms := make([]Symbol, len(texts))
	for i, s := range texts {
		syms[i] = Symbol{Text: s}
	}
	return syms
}

func TestAlign_Basic(t *testing.T) {
	a := toSymbols([]string{"a", "b", "c"})
	b := toSymbols([]string{"a", "x", "b", "c"})

	got := Align(a, b, 10)
	assert.Equal(t, []int{0, 2, 3}, got)
}

func TestAlign_UnmatchedEntries(t *testing.T) {
	a := toSymbols([]string{"a", "q", "c"})
	b := toSymbols([]string{"a", "c"})

	got := Align(a, b, 10)
	assert.Equal(t, []int{0, Unmatched, 1}, got)
}

func TestAlign_EmptyInputs(t *testing.T) {
	a := toSymbols([]string{"a", "b"})

	assert.Equal(t, []int{Unmatched, Unmatched}, Align(a, nil, 10))
	assert.Empty(t, Align(nil, a, 10))
}

// Length and monotonicity hold for arbitrary inputs, including ones
// where the band truncates the search.
func TestAlign_Invariants(t *testing.T) {
	cases := [][2][]string{
		{{"a", "b", "c", "d"}, {"d", "c", "b", "a"}},
		{{"x", "x", "x"}, {"x", "x"}},
		{{"a", "b", "a", "b"}, {"b", "a", "b", "a"}},
		{{"m"}, {"n"}},
	}

	for _, c := range cases {
		a, b := toSymbols(c[0]), toSymbols(c[1])
		for _, k := range []int{1, 2, 100} {
			got := Align(a, b, k)
			require.Len(t, got, len(a))

			prev := -1
			for i, j := range got {
				if j == Unmatched {
					continue
				}
				assert.Greater(t, j, prev, "entries must be strictly increasing")
				assert.Equal(t, a[i].Text, b[j].Text, "matched symbols must be equal")
				prev = j
			}
		}
	}
}

func TestAlign_NarrowBandStillFindsNearbyMatches(t *testing.T) {
	// With a band of 1 the long prefix shift is invisible, but
	// same-index matches survive.
	a := toSymbols([]string{"a", "b", "c", "d", "e"})
	b := toSymbols([]string{"a", "b", "c", "d", "e"})

	got := Align(a, b, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestBandWidth(t *testing.T) {
	assert.Equal(t, minBandWidth, BandWidth(0))
	assert.Equal(t, alignBudget/100, BandWidth(100))
	assert.Equal(t, minBandWidth, BandWidth(alignBudget))
}
