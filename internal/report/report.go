// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the YAML sidecar describing a collection run: the
// inputs it was given and the per-journal outcomes. The sidecar lets a
// run be audited without opening the workbook.
package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// RunReport is the on-disk record of one collection run.
type RunReport struct {
	Query    QueryParams           `yaml:"query"`
	Journals []types.JournalStatus `yaml:"journals"`
	Summary  RunSummary            `yaml:"summary"`
}

// QueryParams stores the run inputs in a serializable form.
type QueryParams struct {
	DateFrom string   `yaml:"date_from"`
	DateTo   string   `yaml:"date_to"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// RunSummary stores result statistics and the output location.
type RunSummary struct {
	TotalPapers    int       `yaml:"total_papers"`
	FailedJournals int       `yaml:"failed_journals"`
	Workbook       string    `yaml:"workbook"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// Write saves the run report to path.
func Write(path string, r types.DateRange, keywords []string, statuses []types.JournalStatus, total int, workbook string, now time.Time) error {
	failed := 0
	for _, s := range statuses {
		if !s.OK() {
			failed++
		}
	}

	rr := RunReport{
		Query: QueryParams{
			DateFrom: r.Start.Format(types.DateFormat),
			DateTo:   r.End.Format(types.DateFormat),
			Keywords: keywords,
		},
		Journals: statuses,
		Summary: RunSummary{
			TotalPapers:    total,
			FailedJournals: failed,
			Workbook:       workbook,
			Timestamp:      now,
		},
	}

	data, err := yaml.Marshal(&rr)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a previously written run report from disk.
func Read(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run report %s: %w", path, err)
	}
	var rr RunReport
	if err := yaml.Unmarshal(data, &rr); err != nil {
		return nil, fmt.Errorf("parsing run report %s: %w", path, err)
	}
	return &rr, nil
}
