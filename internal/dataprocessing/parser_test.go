package dataprocessing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "socialpulse/internal/errors"
	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewParser(logger)
}

func TestParser_ParseSampleCSV(t *testing.T) {
	p := newTestParser(t)

	res, err := p.Parse(context.Background(), strings.NewReader(testutil.SampleCSV), FormatCSV, "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, "sample.csv", res.Source)
	assert.Equal(t, FormatCSV, res.Format)
	assert.Equal(t, 6, res.TotalRows)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 6)

	first := res.Records[0]
	assert.Equal(t, domain.NewPage("P1", "Alpha"), first.Page)
	assert.Equal(t, "2025_1", first.Period.Key())
	assert.Equal(t, "2024-12-30", first.Period.StartDate)
	assert.Equal(t, "2025-01-05", first.Period.EndDate)
	assert.Equal(t, int64(100000), first.Metrics.Reach)
	assert.Equal(t, int64(500), first.Metrics.Engagements)

	assert.Equal(t, "launch", res.Records[2].Comment)
	assert.Equal(t, domain.StatusNoActivity, res.Records[3].Status)
	assert.Equal(t, domain.StatusOK, res.Records[4].Status)
}

func TestParser_AliasHeadersAndSemicolons(t *testing.T) {
	p := newTestParser(t)
	input := "\ufeffPage ID;Page Name;Year;Week Number;Unique Reach;Interactions\nP1;Alpha;2025;1;1 000;20\n"

	res, err := p.Parse(context.Background(), strings.NewReader(input), FormatCSV, "export.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "P1", r.Page.PageID)
	assert.Equal(t, int64(1000), r.Metrics.Reach)
	assert.Equal(t, int64(20), r.Metrics.Engagements)
	assert.Equal(t, "2024-12-30", r.Period.StartDate, "dates derived from the ISO week")
	assert.Equal(t, "2025-01-05", r.Period.EndDate)
}

func TestParser_HeaderAfterTitleRows(t *testing.T) {
	p := newTestParser(t)
	input := "Weekly page report\n\n" + testutil.CSVRows("page_id,page_name,year,week,reach,engagements", "P1,Alpha,2025,2,10,1")

	res, err := p.Parse(context.Background(), strings.NewReader(input), FormatCSV, "titled.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "2025_2", res.Records[0].Period.Key())
}

func TestParser_RowErrors(t *testing.T) {
	p := newTestParser(t)
	input := testutil.CSVRows("page_id,page_name,year,week,reach,engagements",
		"P1,Alpha,2025,1,abc,5",
		"P1,Alpha,2025,54,10,5",
		",Alpha,2025,2,10,5",
		"P1,Alpha,2025,3,-5,5",
		"P2,Beta,2025,1,,",
		"P3,Gamma,2025,1,10,5",
	)

	res, err := p.Parse(context.Background(), strings.NewReader(input), FormatCSV, "bad.csv")
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalRows)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "P3", res.Records[0].Page.PageID)

	type key struct {
		line  int
		field string
	}
	got := make(map[key]string)
	for _, e := range res.Errors {
		assert.Equal(t, "bad.csv", e.Source)
		got[key{e.Line, e.Field}] = e.Message
	}

	assert.Contains(t, got, key{2, "reach"})
	assert.Contains(t, got, key{3, "week"})
	assert.Equal(t, "is required", got[key{4, "page_id"}])
	assert.Equal(t, "must be at least 0", got[key{5, "reach"}])
	assert.Equal(t, "is required", got[key{6, "reach"}])
	assert.Equal(t, "is required", got[key{6, "engagements"}])
	assert.Len(t, res.Errors, 6)
}

func TestParser_NoActivityAllowsBlankMetrics(t *testing.T) {
	p := newTestParser(t)
	input := testutil.CSVRows("page_id,page_name,year,week,reach,engagements,status",
		"P1,Alpha,2025,4,,,no activity")

	res, err := p.Parse(context.Background(), strings.NewReader(input), FormatCSV, "quiet.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.StatusNoActivity, res.Records[0].Status)
	assert.Zero(t, res.Records[0].Metrics.Reach)
}

func TestParser_MissingHeader(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Parse(context.Background(), strings.NewReader("foo,bar\n1,2\n"), FormatCSV, "junk.csv")
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeParsing))
	assert.Contains(t, err.Error(), "page_id")
}

func TestParser_ParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Page performance"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Page ID", "Page Name", "Year", "Week", "Start Date", "Reach", "Engagements"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"P1", "Alpha", 2025, 1, "2024-12-30", 100000, 500}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"P2", "Beta", 2025, 1, 45656, 2500, 40}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	p := newTestParser(t)
	res, err := p.Parse(context.Background(), buf, FormatXLSX, "export.xlsx")
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)

	assert.Equal(t, int64(100000), res.Records[0].Metrics.Reach)
	assert.Equal(t, "2025-01-05", res.Records[0].Period.EndDate)
	assert.Equal(t, "2024-12-30", res.Records[1].Period.StartDate, "excel serial date")
	assert.Equal(t, int64(40), res.Records[1].Metrics.Engagements)
}

func TestParser_ParseFile(t *testing.T) {
	p := newTestParser(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "week.csv")
	require.NoError(t, os.WriteFile(path, []byte(testutil.SampleCSV), 0o644))

	res, err := p.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "week.csv", res.Source)
	assert.Len(t, res.Records, 6)

	_, err = p.ParseFile(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeStorage))

	_, err = p.ParseFile(context.Background(), filepath.Join(dir, "notes.txt"))
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeParsing))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"a.csv", FormatCSV, false},
		{"A.XLSX", FormatXLSX, false},
		{"a.xls", "", true},
		{"a", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw          string
		decimalComma bool
		want         int64
		empty        bool
		wantErr      bool
	}{
		{raw: "1,234", want: 1234},
		{raw: "1 234", want: 1234},
		{raw: "1\u00a0234", want: 1234},
		{raw: "12.0", want: 12},
		{raw: "", empty: true},
		{raw: "-", empty: true},
		{raw: "12.5", wantErr: true},
		{raw: "n/a", wantErr: true},
		{raw: "1.234", decimalComma: true, want: 1234},
		{raw: "12,0", decimalComma: true, want: 12},
		{raw: "1,5", decimalComma: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/decimal_comma=%t", tt.raw, tt.decimalComma), func(t *testing.T) {
			v, empty, err := parseCount(tt.raw, tt.decimalComma)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.empty, empty)
		})
	}
}

func TestParser_SemicolonDecimalComma(t *testing.T) {
	p := newTestParser(t)
	input := "page_id;page_name;year;week;reach;engagements\n" +
		"P1;Alpha;2025;1;1,5;20\n" +
		"P1;Alpha;2025;2;12.500;20\n"

	res, err := p.Parse(context.Background(), strings.NewReader(input), FormatCSV, "export.csv")
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(12500), res.Records[0].Metrics.Reach)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "reach", res.Errors[0].Field)
}

func TestParser_RejectsWeekMissingFromYear(t *testing.T) {
	p := newTestParser(t)
	input := testutil.CSVRows("page_id,page_name,year,week,reach,engagements",
		"P1,Alpha,2025,53,100,10",
		"P1,Alpha,2026,1,100,10",
		"P1,Alpha,2026,53,100,10",
	)
	withDates := testutil.CSVRows("page_id,page_name,year,week,start_date,end_date,reach,engagements",
		"P1,Alpha,2025,53,2025-12-29,2026-01-04,100,10",
	)

	res, err := p.Parse(context.Background(), strings.NewReader(input), FormatCSV, "weeks.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "2026_1", res.Records[0].Period.Key())
	assert.Equal(t, "2026_53", res.Records[1].Period.Key())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "week", res.Errors[0].Field)
	assert.Contains(t, res.Errors[0].Message, "2025 has 52 ISO weeks")

	res, err = p.Parse(context.Background(), strings.NewReader(withDates), FormatCSV, "dated.csv")
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "week", res.Errors[0].Field)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2025-01-06", "2025/01/06", "06.01.2025", "2025-01-06T00:00:00Z"} {
		got, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2025-01-06", got, raw)
	}

	_, err := parseDate("yesterday")
	assert.Error(t, err)
}
