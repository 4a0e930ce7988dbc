package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func TestGeneratePageSummary(t *testing.T) {
	records := []domain.WeeklyRecord{
		testutil.Record("P1", 2025, 2, 120000, 700),
		testutil.Record("P1", 2025, 1, 100000, 500),
	}

	s := GeneratePageSummary(records)
	require.NotNil(t, s)

	assert.Equal(t, "P1", s.Page.PageID)
	assert.Equal(t, 2, s.TotalWeeks)
	assert.Equal(t, "2025_1", s.FirstPeriod.Key())
	assert.Equal(t, "2025_2", s.LastPeriod.Key())

	assert.Equal(t, int64(110000), s.Reach.Statistics.Aggregate)
	assert.Equal(t, int64(1200), s.Engagements.Statistics.Aggregate)
	assert.Equal(t, "2025_2", s.Reach.BestWeek.Best.Period.Key())
	assert.Equal(t, int64(10000), s.Reach.Volatility)
	assert.Equal(t, TrendIncreasing, s.Engagements.Trend.Trend)
	assert.Equal(t, 40.0, s.Engagements.Trend.ChangePercent)

	require.Len(t, s.WeeklyTrend, 2)
	assert.Equal(t, 20.0, s.WeeklyTrend[1].ReachChange)
}

func TestGeneratePageSummary_Empty(t *testing.T) {
	assert.Nil(t, GeneratePageSummary(nil))
	assert.Nil(t, GeneratePageSummary([]domain.WeeklyRecord{}))
}
