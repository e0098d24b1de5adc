// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect runs the per-journal queries and aggregates the results
// into one deduplicated, order-preserving record list.
package collect

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Searcher is the external collaborator that queries one journal. The
// PubMed client implements it; tests substitute a mock.
type Searcher interface {
	Search(ctx context.Context, journal string, r types.DateRange) ([]types.Paper, error)
}

// Result holds the aggregated records and the per-journal outcomes.
// Papers is ordered by configured journal order and, within a journal, by
// collaborator order. Statuses has one entry per queried journal, in
// query order.
type Result struct {
	Papers   []types.Paper
	Statuses []types.JournalStatus
}

// Total returns the number of aggregated records.
func (r Result) Total() int { return len(r.Papers) }

// Failures returns how many journals failed.
func (r Result) Failures() int {
	n := 0
	for _, s := range r.Statuses {
		if !s.OK() {
			n++
		}
	}
	return n
}

// Collect queries each journal in order and aggregates the results. A
// failed journal is recorded in its status and the run continues; only a
// cancelled context aborts collection. Between consecutive queries the
// collaborator is left alone for delay, the pipeline's only suspension
// point. Duplicate PMIDs keep the first-seen record. One progress line
// per completed journal is written to w.
func Collect(ctx context.Context, s Searcher, journals []string, r types.DateRange, delay time.Duration, w io.Writer) (Result, error) {
	var result Result
	seen := make(map[string]bool)

	for i, journal := range journals {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}

		papers, err := s.Search(ctx, journal, r)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Statuses = append(result.Statuses, types.JournalStatus{
				Journal: journal,
				Err:     err.Error(),
			})
			fmt.Fprintf(w, "warning: %s failed: %v\n", journal, err)
			continue
		}

		count := 0
		for _, p := range papers {
			if seen[p.PMID] {
				continue
			}
			seen[p.PMID] = true
			result.Papers = append(result.Papers, p)
			count++
		}

		result.Statuses = append(result.Statuses, types.JournalStatus{
			Journal: journal,
			Count:   count,
		})
		fmt.Fprintf(w, "%-45s %4d papers (%d total)\n", journal, count, len(result.Papers))
	}

	return result, nil
}
