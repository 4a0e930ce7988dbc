package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadFilesKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", testutil.SampleCSV)
	b := writeExport(t, dir, "b.csv", testutil.CSVRows("page_id,page_name,year,week,reach,engagements",
		"P3,Gamma,2025,1,10,1",
		"P1,Alpha,2025,1,999,9",
	))

	logger, logs := testutil.NewTestLogger(t)
	loader := NewLoader(NewParser(logger), logger, 2)
	ds := domain.NewDataset("ds-1", "weekly")

	report, err := loader.LoadFiles(context.Background(), ds, []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 7, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "a.csv", report.Files[0].Source)
	assert.Equal(t, 6, report.Files[0].Accepted)
	assert.Equal(t, 1, report.Files[1].Accepted)
	assert.Equal(t, 1, report.Files[1].Rejected)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "duplicate")

	require.Equal(t, 7, ds.Len())
	records := ds.Records()
	assert.Equal(t, "P1", records[0].Page.PageID)
	assert.Equal(t, int64(100000), records[0].Metrics.Reach, "first file wins on duplicates")
	assert.Equal(t, "P3", records[6].Page.PageID)

	assert.True(t, logs.ContainsMessage("loaded exports"))
}

func TestLoader_LoadFilesFailsAtomically(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.csv", testutil.SampleCSV)
	missing := filepath.Join(dir, "missing.csv")

	loader := NewLoader(nil, nil, 0)
	ds := domain.NewDataset("ds-2", "weekly")

	_, err := loader.LoadFiles(context.Background(), ds, []string{a, missing})
	require.Error(t, err)
	assert.Zero(t, ds.Len())
}

func TestIngest_CarriesRowErrors(t *testing.T) {
	ds := domain.NewDataset("ds-3", "weekly")
	res := &ParseResult{
		Source:    "x.csv",
		Format:    FormatCSV,
		TotalRows: 3,
		Records:   testutil.Series("P1", 2025, 1, [2]int64{10, 1}, [2]int64{20, 2}),
		Errors:    []RowError{{Source: "x.csv", Line: 4, Field: "reach", Message: "is required"}},
	}

	report := Ingest(ds, res)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, 2, ds.Len())
}
