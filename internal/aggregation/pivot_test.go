package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/pkg/contracts/domain"
)

func TestCreatePivotTable(t *testing.T) {
	pt := CreatePivotTable(sampleRecords(), domain.MetricReach)

	assert.Equal(t, domain.MetricReach, pt.Metric)
	assert.Equal(t, []string{"2025_1", "2025_10", "2025_2"}, pt.Weeks, "lexicographic")

	periodKeys := make([]string, len(pt.Periods))
	for i, p := range pt.Periods {
		periodKeys[i] = p.Key()
	}
	assert.Equal(t, []string{"2025_1", "2025_2", "2025_10"}, periodKeys, "chronological")

	require.Len(t, pt.Pages, 2)
	assert.Equal(t, "P2", pt.Pages[0].PageID)

	v, ok := pt.Value("P2", "2025_1")
	require.True(t, ok)
	assert.Equal(t, int64(70000), v)

	_, ok = pt.Value("P2", "2025_10")
	assert.False(t, ok)
	_, ok = pt.Value("P9", "2025_1")
	assert.False(t, ok)
}

func TestCreatePivotTable_RoundTrip(t *testing.T) {
	records := sampleRecords()
	for _, metric := range domain.NumericMetrics() {
		pt := CreatePivotTable(records, metric)
		for _, r := range records {
			assert.Equal(t, r.Value(metric), pt.Data[r.Page.PageID].Weeks[r.Period.Key()],
				"%s %s %s", metric, r.Page.PageID, r.Period.Key())
		}
	}
}

func TestCreatePivotTable_Empty(t *testing.T) {
	pt := CreatePivotTable(nil, domain.MetricEngagements)
	assert.Empty(t, pt.Pages)
	assert.Empty(t, pt.Weeks)
	assert.NotNil(t, pt.Data)
}
