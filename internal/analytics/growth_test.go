package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func pageSeries(pageID string, engagements ...int64) []domain.WeeklyRecord {
	records := make([]domain.WeeklyRecord, len(engagements))
	for i, v := range engagements {
		records[i] = testutil.Record(pageID, 2025, i+1, 1000, v)
	}
	return records
}

func TestFindConsistentGrowth(t *testing.T) {
	byPage := map[string][]domain.WeeklyRecord{
		"P1": pageSeries("P1", 10, 20, 30, 25),
	}

	growth := FindConsistentGrowth(byPage, domain.MetricEngagements, 2)
	require.Len(t, growth, 1)
	assert.Equal(t, "P1", growth[0].Page.PageID)
	assert.Equal(t, 2, growth[0].ConsecutiveWeeks)
	assert.Equal(t, 4, growth[0].TotalWeeks)
}

func TestFindConsistentGrowth_Cases(t *testing.T) {
	tests := []struct {
		name     string
		byPage   map[string][]domain.WeeklyRecord
		minWeeks int
		wantIDs  []string
		wantRuns []int
	}{
		{
			name:     "run too short",
			byPage:   map[string][]domain.WeeklyRecord{"P1": pageSeries("P1", 10, 20, 15, 16)},
			minWeeks: 2,
			wantIDs:  []string{},
			wantRuns: []int{},
		},
		{
			name:     "not enough points",
			byPage:   map[string][]domain.WeeklyRecord{"P1": pageSeries("P1", 10, 20, 30)},
			minWeeks: 3,
			wantIDs:  []string{},
			wantRuns: []int{},
		},
		{
			name:     "equal values break the run",
			byPage:   map[string][]domain.WeeklyRecord{"P1": pageSeries("P1", 10, 20, 20, 30)},
			minWeeks: 2,
			wantIDs:  []string{},
			wantRuns: []int{},
		},
		{
			name: "sorted by run length then page id",
			byPage: map[string][]domain.WeeklyRecord{
				"C": pageSeries("C", 1, 2, 3),
				"A": pageSeries("A", 1, 2, 3),
				"B": pageSeries("B", 1, 2, 3, 4, 5),
			},
			minWeeks: 2,
			wantIDs:  []string{"B", "A", "C"},
			wantRuns: []int{4, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			growth := FindConsistentGrowth(tt.byPage, domain.MetricEngagements, tt.minWeeks)
			ids := []string{}
			runs := []int{}
			for _, g := range growth {
				ids = append(ids, g.Page.PageID)
				runs = append(runs, g.ConsecutiveWeeks)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantRuns, runs)
		})
	}
}

func TestFindConsistentGrowth_UsesChronologicalOrder(t *testing.T) {
	records := pageSeries("P1", 10, 20, 30)
	shuffled := []domain.WeeklyRecord{records[2], records[0], records[1]}

	growth := FindConsistentGrowth(map[string][]domain.WeeklyRecord{"P1": shuffled}, domain.MetricEngagements, 2)
	require.Len(t, growth, 1)
	assert.Equal(t, 2, growth[0].ConsecutiveWeeks)
}
