package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func TestApply(t *testing.T) {
	quiet := testutil.Record("P2", 2025, 3, 0, 0)
	quiet.Status = domain.StatusNoActivity
	records := append(sampleRecords(), quiet)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "zero filter keeps all", filter: Filter{}, want: 6},
		{name: "by page", filter: Filter{PageIDs: []string{"P1"}}, want: 3},
		{name: "from", filter: Filter{From: "2025-01-06"}, want: 4},
		{name: "to", filter: Filter{To: "2025-01-05"}, want: 2},
		{name: "range", filter: Filter{From: "2025-01-06", To: "2025-01-13"}, want: 3},
		{name: "status", filter: Filter{Statuses: []domain.RecordStatus{domain.StatusNoActivity}}, want: 1},
		{name: "combined", filter: Filter{PageIDs: []string{"P2"}, Statuses: []domain.RecordStatus{domain.StatusOK}}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Apply(records, tt.filter), tt.want)
		})
	}
}
