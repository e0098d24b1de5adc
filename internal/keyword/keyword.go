// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keyword parses user keyword expressions, filters records by
// title, and computes merged highlight spans for rendering.
//
// An expression is a comma-separated list of clauses; each clause is one
// filter group. A clause may join alternative terms with "+", e.g.
// "Alphafold+ESMfold" matches titles containing either term.
package keyword

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Group is one named filter: the clause as the user typed it, plus its
// parsed alternative terms. Terms are deduplicated case-insensitively
// with first-seen casing preserved.
type Group struct {
	Name  string
	Terms []string
}

// Parse splits a raw keyword string into ordered groups. Empty clauses
// and empty terms are discarded silently; an empty or all-whitespace
// input yields no groups. Parsing a group's own Name reproduces its
// term set.
func Parse(raw string) []Group {
	var groups []Group
	for _, clause := range strings.Split(raw, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		var terms []string
		seen := make(map[string]bool)
		for _, term := range strings.Split(clause, "+") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			key := strings.ToLower(term)
			if seen[key] {
				continue
			}
			seen[key] = true
			terms = append(terms, term)
		}
		if len(terms) == 0 {
			continue
		}

		groups = append(groups, Group{Name: clause, Terms: terms})
	}
	return groups
}

// MatchesTitle reports whether the record belongs to this group: its
// title contains at least one term as a case-insensitive substring.
// Partial matches count ("enzym" matches "Enzymatic").
func (g Group) MatchesTitle(p types.Paper) bool {
	title := fold(p.Title)
	for _, term := range g.Terms {
		if containsRunes(title, fold(term)) {
			return true
		}
	}
	return false
}

// Filter returns the records whose titles match the group, in input order.
func (g Group) Filter(papers []types.Paper) []types.Paper {
	var matched []types.Paper
	for _, p := range papers {
		if g.MatchesTitle(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Span is a half-open rune interval [Start, End) in a text field.
type Span struct {
	Start int
	End   int
}

// Spans returns the merged highlight spans for every occurrence of every
// group term in text. Occurrences may overlap across terms (both "fold"
// and "Alphafold" inside "AlphaFold") and within one term; overlapping or
// adjacent raw intervals are merged, so the result is sorted by start and
// strictly non-overlapping. Offsets are rune offsets in the original text.
func (g Group) Spans(text string) []Span {
	if text == "" {
		return nil
	}
	folded := fold(text)

	var raw []Span
	for _, term := range g.Terms {
		ft := fold(term)
		if len(ft) == 0 {
			continue
		}
		// Advance one rune per match so self-overlapping occurrences
		// are found too; the merge collapses them.
		for start := 0; start+len(ft) <= len(folded); start++ {
			if runesEqual(folded[start:start+len(ft)], ft) {
				raw = append(raw, Span{Start: start, End: start + len(ft)})
			}
		}
	}
	return merge(raw)
}

// merge sorts raw intervals by start and merges any pair that overlaps
// or touches. Classic interval merge: sort, sweep, extend.
func merge(raw []Span) []Span {
	if len(raw) == 0 {
		return nil
	}
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].Start != raw[j].Start {
			return raw[i].Start < raw[j].Start
		}
		return raw[i].End < raw[j].End
	})

	merged := []Span{raw[0]}
	for _, s := range raw[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// fold lower-cases rune by rune. unicode.ToLower maps one rune to one
// rune, so offsets in the folded text and the original text coincide.
func fold(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func containsRunes(haystack, needle []rune) bool {
	if len(needle) == 0 {
		return false
	}
	for start := 0; start+len(needle) <= len(haystack); start++ {
		if runesEqual(haystack[start:start+len(needle)], needle) {
			return true
		}
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
