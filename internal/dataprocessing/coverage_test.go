package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func TestCoverageProcessor_Analyze(t *testing.T) {
	quiet := testutil.Record("P2", 2025, 1, 0, 0)
	quiet.Status = domain.StatusNoActivity

	ds := testutil.Dataset(
		testutil.Record("P2", 2025, 3, 5, 1),
		quiet,
		testutil.Record("P1", 2025, 1, 10, 1),
		testutil.Record("P1", 2025, 2, 10, 1),
		testutil.Record("P1", 2025, 3, 10, 1),
	)

	report := NewCoverageProcessor().Analyze(ds)

	assert.Equal(t, []string{"2025_1", "2025_2", "2025_3"}, report.Periods)
	assert.False(t, report.Complete)
	require.Len(t, report.Pages, 2)

	p1 := report.Pages[0]
	assert.Equal(t, "P1", p1.Page.PageID)
	assert.Equal(t, 3, p1.WeeksPresent)
	assert.Empty(t, p1.MissingPeriods)

	p2 := report.Pages[1]
	assert.Equal(t, "P2", p2.Page.PageID)
	assert.Equal(t, 2, p2.WeeksPresent)
	assert.Equal(t, 1, p2.WeeksMissing)
	assert.Equal(t, []string{"2025_2"}, p2.MissingPeriods)
	assert.Equal(t, []string{"2025_1"}, p2.NoActivity)
}

func TestCoverageProcessor_CompleteDataset(t *testing.T) {
	ds := testutil.Dataset(testutil.Series("P1", 2025, 1, [2]int64{1, 1}, [2]int64{2, 2})...)

	report := NewCoverageProcessor().Analyze(ds)
	assert.True(t, report.Complete)
	assert.Len(t, report.Pages, 1)
}
