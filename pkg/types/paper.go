// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-pipeline stages.
package types

import (
	"fmt"
	"time"
)

// Paper holds the bibliographic record for one publication as returned by
// the PubMed E-utilities. Records are built once by the client and never
// mutated downstream.
type Paper struct {
	// PMID is the PubMed identifier, unique within an aggregated run.
	PMID string `json:"pmid" yaml:"pmid"`

	// Journal is the journal name (ISO abbreviation as reported by PubMed).
	Journal string `json:"journal" yaml:"journal"`

	// Title is the article title with nested formatting tags flattened.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract; empty when PubMed carries none.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Date is the publication date. Missing month or day default to 01.
	Date time.Time `json:"date" yaml:"date"`

	// Authors lists authors as "LastName, ForeName" in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// DOI is the article DOI when PubMed reports one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the article page on pubmed.ncbi.nlm.nih.gov.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DateRange is a closed interval of calendar dates, Start <= End.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// NewDateRange builds a range from explicit endpoints. A range where start
// equals end is valid and covers that single day; start after end is
// rejected before any network call is made.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("invalid date range: start %s is after end %s",
			start.Format(DateFormat), end.Format(DateFormat))
	}
	return DateRange{Start: start, End: end}, nil
}

// LastDays builds the range covering the N days up to and including today.
func LastDays(days int, today time.Time) (DateRange, error) {
	if days <= 0 {
		return DateRange{}, fmt.Errorf("invalid day count %d: must be positive", days)
	}
	end := truncateDay(today)
	return DateRange{Start: end.AddDate(0, 0, -days), End: end}, nil
}

// DateFormat is the calendar date layout used on the CLI and in reports.
const DateFormat = "2006-01-02"

// String formats the range as "2024-01-01 to 2024-01-31".
func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + " to " + r.End.Format(DateFormat)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// JournalStatus records the outcome of one journal's query: how many
// records were kept, or why the query failed. A journal that matched zero
// records is a success with Count 0, distinct from a failure.
type JournalStatus struct {
	Journal string `json:"journal" yaml:"journal"`
	Count   int    `json:"count" yaml:"count"`
	Err     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the journal's query succeeded.
func (s JournalStatus) OK() bool { return s.Err == "" }
