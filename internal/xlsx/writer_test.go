// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xlsx

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/paper-pipeline/internal/collect"
	"github.com/pdiddy/paper-pipeline/internal/keyword"
	"github.com/pdiddy/paper-pipeline/internal/sheets"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

func testWorkbook(t *testing.T) sheets.Workbook {
	t.Helper()
	r, err := types.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	result := collect.Result{
		Papers: []types.Paper{
			{
				PMID:     "38000001",
				Journal:  "Nat. Biotechnol.",
				Title:    "A Novel Enzymatic Method Guided by AlphaFold",
				Abstract: "AlphaFold structures guided screening.",
				Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Authors:  []string{"Tanaka, Yui", "Okafor, Chidi"},
				DOI:      "10.1038/x",
				URL:      "https://pubmed.ncbi.nlm.nih.gov/38000001/",
			},
			{PMID: "38000002", Journal: "Cell", Title: "Unrelated work"},
		},
		Statuses: []types.JournalStatus{
			{Journal: "Nature Biotechnology", Count: 1},
			{Journal: "Cell", Count: 1},
			{Journal: "Science", Err: "connection refused"},
		},
	}
	groups := keyword.Parse("Alphafold+ESMfold")
	return sheets.Assemble(r, result, groups, time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC))
}

func TestFileName(t *testing.T) {
	r, err := types.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "240101_240131_Papers.xlsx", FileName(r))
}

func TestWriteRoundTrip(t *testing.T) {
	wb := testWorkbook(t)
	path := filepath.Join(t.TempDir(), FileName(wb.Summary.Range))

	require.NoError(t, Write(wb, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Papers", "Keyword=Alphafold+ESMfold"}, f.GetSheetList())

	// Summary block.
	v, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 to 2024-01-31", v)
	v, err = f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	// Failed journal shows an explicit error marker, not a zero count.
	v, err = f.GetCellValue("Summary", "C8")
	require.NoError(t, err)
	assert.Contains(t, v, "ERROR")
	v, err = f.GetCellValue("Summary", "B8")
	require.NoError(t, err)
	assert.Equal(t, "-", v)

	// Papers sheet holds every record.
	v, err = f.GetCellValue("Papers", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A Novel Enzymatic Method Guided by AlphaFold", v)
	v, err = f.GetCellValue("Papers", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Unrelated work", v)
	v, err = f.GetCellValue("Papers", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Tanaka, Yui; Okafor, Chidi", v)

	// Keyword sheet holds only the matched record; the rich-text title
	// still reads back as the full string.
	v, err = f.GetCellValue("Keyword=Alphafold+ESMfold", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A Novel Enzymatic Method Guided by AlphaFold", v)
	v, err = f.GetCellValue("Keyword=Alphafold+ESMfold", "A3")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestWriteBadPath(t *testing.T) {
	wb := testWorkbook(t)
	err := Write(wb, filepath.Join(t.TempDir(), "missing", "nested", "out.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out.xlsx")
}

func TestRichRuns(t *testing.T) {
	runs := richRuns("Guided by AlphaFold here", []keyword.Span{{Start: 10, End: 19}})
	require.Len(t, runs, 3)
	assert.Equal(t, "Guided by ", runs[0].Text)
	assert.Nil(t, runs[0].Font)
	assert.Equal(t, "AlphaFold", runs[1].Text)
	require.NotNil(t, runs[1].Font)
	assert.True(t, runs[1].Font.Bold)
	assert.Equal(t, " here", runs[2].Text)

	// Span covering the whole text yields a single highlighted run.
	runs = richRuns("fold", []keyword.Span{{Start: 0, End: 4}})
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Font)
}
