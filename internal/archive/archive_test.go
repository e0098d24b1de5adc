// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

func testRange(t *testing.T) types.DateRange {
	t.Helper()
	r, err := types.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}

func TestRecordAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	papers := []types.Paper{
		{PMID: "1", Journal: "Nature", Title: "A", Authors: []string{"Smith, J"}},
		{PMID: "2", Journal: "Cell", Title: "B", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
	}
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(context.Background(), testRange(t), papers, now))

	var total int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM papers`).Scan(&total))
	assert.Equal(t, 2, total)

	var dateFrom string
	var runTotal int
	require.NoError(t, s.db.QueryRow(`SELECT date_from, total FROM runs`).Scan(&dateFrom, &runTotal))
	assert.Equal(t, "2024-01-01", dateFrom)
	assert.Equal(t, 2, runTotal)
}

func TestRecordKeepsFirstSeenAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Record(ctx, testRange(t), []types.Paper{{PMID: "1", Title: "Original"}}, now))
	require.NoError(t, s.Record(ctx, testRange(t), []types.Paper{{PMID: "1", Title: "Changed"}}, now))

	var title string
	var runs int
	require.NoError(t, s.db.QueryRow(`SELECT title FROM papers WHERE pmid = '1'`).Scan(&title))
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM runs`).Scan(&runs))
	assert.Equal(t, "Original", title)
	assert.Equal(t, 2, runs)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "papers.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}
