package testutil

import (
	"fmt"
	"strings"

	"socialpulse/pkg/contracts/domain"
)

// Record builds a weekly record for an ISO week. It panics on an invalid
// year/week so fixtures fail loudly.
func Record(pageID string, year, week int, reach, engagements int64) domain.WeeklyRecord {
	period, err := domain.ISOWeekPeriod(year, week)
	if err != nil {
		panic(fmt.Sprintf("testutil.Record: %v", err))
	}
	return domain.WeeklyRecord{
		Page:    domain.NewPage(pageID, "Page "+pageID),
		Period:  period,
		Metrics: domain.Metrics{Reach: reach, Engagements: engagements},
		Status:  domain.StatusOK,
	}
}

// Series builds consecutive weekly records for one page starting at the
// given ISO week, one record per (reach, engagements) pair.
func Series(pageID string, year, startWeek int, values ...[2]int64) []domain.WeeklyRecord {
	records := make([]domain.WeeklyRecord, 0, len(values))
	for i, v := range values {
		records = append(records, Record(pageID, year, startWeek+i, v[0], v[1]))
	}
	return records
}

// Dataset wraps records into a dataset, panicking on duplicates.
func Dataset(records ...domain.WeeklyRecord) *domain.Dataset {
	ds := domain.NewDataset("test-dataset", "fixture")
	for _, r := range records {
		if err := ds.Append(r); err != nil {
			panic(fmt.Sprintf("testutil.Dataset: %v", err))
		}
	}
	return ds
}

// SampleCSV is a small export with two pages over three weeks.
const SampleCSV = `page_id,page_name,year,week,start_date,end_date,reach,engagements,status,comment
P1,Alpha,2025,1,2024-12-30,2025-01-05,"100,000",500,OK,
P2,Beta,2025,1,2024-12-30,2025-01-05,50000,300,OK,
P1,Alpha,2025,2,2025-01-06,2025-01-12,120000,700,OK,launch
P2,Beta,2025,2,2025-01-06,2025-01-12,0,0,NO_ACTIVITY,
P1,Alpha,2025,3,2025-01-13,2025-01-19,90000,400,,
P2,Beta,2025,3,2025-01-13,2025-01-19,60000,350,OK,
`

// CSVRows joins header and rows into CSV text.
func CSVRows(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}
