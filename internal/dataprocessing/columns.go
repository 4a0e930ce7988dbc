package dataprocessing

import (
	"fmt"
	"strings"
)

type column int

const (
	colPageID column = iota
	colPageName
	colYear
	colWeek
	colStartDate
	colEndDate
	colReach
	colEngagements
	colStatus
	colComment
	numColumns
)

var columnNames = [numColumns]string{
	"page_id", "page_name", "year", "week", "start_date", "end_date",
	"reach", "engagements", "status", "comment",
}

func (c column) String() string {
	if c < 0 || c >= numColumns {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// columnAliases maps normalized header text to a column.
var columnAliases = map[string]column{
	"pageid": colPageID, "id": colPageID,
	"pagename": colPageName, "page": colPageName, "name": colPageName,
	"year": colYear,
	"week": colWeek, "weeknumber": colWeek, "weekno": colWeek,
	"startdate": colStartDate, "weekstart": colStartDate, "from": colStartDate, "start": colStartDate,
	"enddate": colEndDate, "weekend": colEndDate, "to": colEndDate, "end": colEndDate,
	"reach": colReach, "uniquereach": colReach,
	"engagements": colEngagements, "engagement": colEngagements, "interactions": colEngagements,
	"status": colStatus,
	"comment": colComment, "comments": colComment, "notes": colComment,
}

var requiredColumns = []column{colPageID, colPageName, colYear, colWeek, colReach, colEngagements}

// headerScanRows bounds how far into a sheet the header row is searched.
const headerScanRows = 10

// columnMap holds the cell index of each column, -1 when absent.
type columnMap [numColumns]int

func (m columnMap) has(c column) bool {
	return m[c] >= 0
}

// normalizeHeader lowercases and drops BOM, spaces, underscores and hyphens.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\ufeff")
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "_", "", "-", "", "\t", "").Replace(s)
}

// detectColumns maps header cells to columns. The first cell matching an
// alias wins. It returns the required columns that were not found.
func detectColumns(header []string) (columnMap, []column) {
	var m columnMap
	for i := range m {
		m[i] = -1
	}
	for idx, cell := range header {
		c, ok := columnAliases[normalizeHeader(cell)]
		if ok && m[c] < 0 {
			m[c] = idx
		}
	}

	var missing []column
	for _, c := range requiredColumns {
		if !m.has(c) {
			missing = append(missing, c)
		}
	}
	return m, missing
}

// findHeader returns the index of the first row, within headerScanRows,
// that carries every required column.
func findHeader(rows [][]string) (int, columnMap, error) {
	var bestMissing []column
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		m, missing := detectColumns(rows[i])
		if len(missing) == 0 {
			return i, m, nil
		}
		if bestMissing == nil || len(missing) < len(bestMissing) {
			bestMissing = missing
		}
	}
	if bestMissing == nil {
		return -1, columnMap{}, fmt.Errorf("no header row found")
	}
	names := make([]string, len(bestMissing))
	for i, c := range bestMissing {
		names[i] = c.String()
	}
	return -1, columnMap{}, fmt.Errorf("header is missing required columns: %s", strings.Join(names, ", "))
}
