package analytics

import (
	"sort"

	"socialpulse/pkg/contracts/domain"
)

// Growth reports a page whose metric rose for several consecutive weeks.
type Growth struct {
	Page             domain.Page `json:"page"`
	ConsecutiveWeeks int         `json:"consecutive_weeks"`
	TotalWeeks       int         `json:"total_weeks"`
}

// FindConsistentGrowth finds, per page, the longest run of strictly
// increasing consecutive weekly values (counted in increases, so 10→20→30 is
// 2) and reports pages whose run reaches minWeeks. A page needs at least
// minWeeks+1 records to qualify. Pages are visited in id order and the
// result is sorted by run length, longest first. minWeeks below 1 is
// treated as 1.
func FindConsistentGrowth(recordsByPage map[string][]domain.WeeklyRecord, metric domain.MetricKey, minWeeks int) []Growth {
	if minWeeks < 1 {
		minWeeks = 1
	}

	pageIDs := make([]string, 0, len(recordsByPage))
	for id := range recordsByPage {
		pageIDs = append(pageIDs, id)
	}
	sort.Strings(pageIDs)

	out := []Growth{}
	for _, id := range pageIDs {
		records := recordsByPage[id]
		if len(records) < minWeeks+1 {
			continue
		}
		sorted := SortByStartDate(records)

		longest, current := 0, 0
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Value(metric) > sorted[i-1].Value(metric) {
				current++
				if current > longest {
					longest = current
				}
			} else {
				current = 0
			}
		}

		if longest >= minWeeks {
			out = append(out, Growth{
				Page:             sorted[0].Page,
				ConsecutiveWeeks: longest,
				TotalWeeks:       len(sorted),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConsecutiveWeeks > out[j].ConsecutiveWeeks
	})
	return out
}
