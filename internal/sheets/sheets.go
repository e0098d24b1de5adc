// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheets partitions the aggregated records into the named views
// the workbook writer renders: Summary, Papers, and one sheet per
// keyword group.
package sheets

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/paper-pipeline/internal/collect"
	"github.com/pdiddy/paper-pipeline/internal/keyword"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Row pairs a record with the highlight spans for its text fields. Span
// slices are nil on the Papers sheet, which renders without highlighting.
type Row struct {
	Paper         types.Paper
	TitleSpans    []keyword.Span
	AbstractSpans []keyword.Span
}

// Sheet is a named, ordered view over the aggregate. Sheets are built
// once and never mutated afterwards.
type Sheet struct {
	Name string
	Rows []Row
}

// Summary carries the per-journal counts and run metadata rendered on the
// Summary sheet instead of record rows.
type Summary struct {
	Range       types.DateRange
	Statuses    []types.JournalStatus
	Total       int
	GeneratedAt time.Time
}

// Workbook is the full assembled output handed to the renderer: the
// Summary view followed by the record sheets in order.
type Workbook struct {
	Summary Summary
	Sheets  []Sheet
}

// papersSheetName is the all-records view present in every workbook.
const papersSheetName = "Papers"

// keywordSheetPrefix prefixes each group sheet's name.
const keywordSheetPrefix = "Keyword="

// Assemble builds the workbook views: Summary, Papers (every aggregated
// record in aggregation order, no highlighting), then one sheet per
// group in group order, holding the group's title-matched records in
// Papers order with merged title and abstract spans. A group that
// matched nothing still gets a sheet with zero rows, so the workbook's
// sheet list always mirrors the requested groups.
func Assemble(r types.DateRange, result collect.Result, groups []keyword.Group, now time.Time) Workbook {
	wb := Workbook{
		Summary: Summary{
			Range:       r,
			Statuses:    result.Statuses,
			Total:       len(result.Papers),
			GeneratedAt: now,
		},
	}

	papers := Sheet{Name: papersSheetName}
	for _, p := range result.Papers {
		papers.Rows = append(papers.Rows, Row{Paper: p})
	}
	wb.Sheets = append(wb.Sheets, papers)

	names := newNamer(papersSheetName)
	for _, g := range groups {
		sheet := Sheet{Name: names.unique(keywordSheetPrefix + g.Name)}
		for _, p := range g.Filter(result.Papers) {
			sheet.Rows = append(sheet.Rows, Row{
				Paper:         p,
				TitleSpans:    g.Spans(p.Title),
				AbstractSpans: g.Spans(p.Abstract),
			})
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb
}

// maxSheetName is the xlsx sheet name length limit.
const maxSheetName = 31

// namer produces xlsx-legal, collision-free sheet names.
type namer struct {
	taken map[string]bool
}

func newNamer(reserved ...string) *namer {
	n := &namer{taken: make(map[string]bool)}
	for _, r := range reserved {
		n.taken[strings.ToLower(r)] = true
	}
	return n
}

// unique sanitizes name for xlsx and appends a numeric suffix when two
// clauses normalize to the same sheet name. Truncation happens before
// disambiguation so suffixed names stay within the length limit.
func (n *namer) unique(name string) string {
	base := sanitizeSheetName(name)
	candidate := base
	for i := 2; n.taken[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		trimmed := base
		if utf8.RuneCountInString(trimmed)+len(suffix) > maxSheetName {
			trimmed = truncateRunes(trimmed, maxSheetName-len(suffix))
		}
		candidate = trimmed + suffix
	}
	n.taken[strings.ToLower(candidate)] = true
	return candidate
}

// sheetNameReplacer strips the characters xlsx forbids in sheet names.
var sheetNameReplacer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

func sanitizeSheetName(name string) string {
	s := strings.TrimSpace(sheetNameReplacer.Replace(name))
	if s == "" {
		s = "Sheet"
	}
	return truncateRunes(s, maxSheetName)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
