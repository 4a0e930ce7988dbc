package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for week boundaries.
const DateLayout = "2006-01-02"

// Week period bounds.
const (
	MinYear = 2000
	MaxYear = 2100
	MinWeek = 1
	MaxWeek = 53
)

// WeekPeriod represents one reporting week.
// StartDate and EndDate are "YYYY-MM-DD" strings so they sort lexicographically
// in chronological order, including across year boundaries.
type WeekPeriod struct {
	Year      int    `json:"year" validate:"min=2000,max=2100"`
	Week      int    `json:"week" validate:"min=1,max=53"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// NewWeekPeriod creates a week period and checks its invariants.
func NewWeekPeriod(year, week int, startDate, endDate string) (WeekPeriod, error) {
	p := WeekPeriod{Year: year, Week: week, StartDate: startDate, EndDate: endDate}
	if err := p.Check(); err != nil {
		return WeekPeriod{}, err
	}
	return p, nil
}

// ISOWeeksInYear returns 52 or 53, the number of ISO weeks in year.
// December 28th always falls in the last ISO week of its year.
func ISOWeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// CheckYearWeek verifies year bounds and that week exists in year.
func CheckYearWeek(year, week int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d out of range [%d,%d]", year, MinYear, MaxYear)
	}
	if week < MinWeek || week > MaxWeek {
		return fmt.Errorf("week %d out of range [%d,%d]", week, MinWeek, MaxWeek)
	}
	if last := ISOWeeksInYear(year); week > last {
		return fmt.Errorf("week %d out of range: %d has %d ISO weeks", week, year, last)
	}
	return nil
}

// ISOWeekPeriod derives the Monday..Sunday span of an ISO week.
func ISOWeekPeriod(year, week int) (WeekPeriod, error) {
	if err := CheckYearWeek(year, week); err != nil {
		return WeekPeriod{}, err
	}

	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := int(jan4.Weekday()+6) % 7
	start := jan4.AddDate(0, 0, -offset+(week-1)*7)
	end := start.AddDate(0, 0, 6)

	return WeekPeriod{
		Year:      year,
		Week:      week,
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
	}, nil
}

// Check verifies year/week bounds, date formats and StartDate <= EndDate.
func (p WeekPeriod) Check() error {
	if err := CheckYearWeek(p.Year, p.Week); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, p.StartDate); err != nil {
		return fmt.Errorf("invalid start date %q: %w", p.StartDate, err)
	}
	if _, err := time.Parse(DateLayout, p.EndDate); err != nil {
		return fmt.Errorf("invalid end date %q: %w", p.EndDate, err)
	}
	if p.StartDate > p.EndDate {
		return fmt.Errorf("start date %s is after end date %s", p.StartDate, p.EndDate)
	}
	return nil
}

// Key returns the canonical period key "{year}_{week}".
func (p WeekPeriod) Key() string {
	return fmt.Sprintf("%d_%d", p.Year, p.Week)
}

// Start parses StartDate. The zero time is returned for malformed dates.
func (p WeekPeriod) Start() time.Time {
	t, _ := time.Parse(DateLayout, p.StartDate)
	return t
}

// Month returns the calendar month (1-12) of StartDate, or 0 if StartDate is malformed.
func (p WeekPeriod) Month() int {
	t := p.Start()
	if t.IsZero() {
		return 0
	}
	return int(t.Month())
}

// MonthName returns the English month name of StartDate.
func (p WeekPeriod) MonthName() string {
	m := p.Month()
	if m == 0 {
		return ""
	}
	return time.Month(m).String()
}

// calendarYear is the year StartDate falls in; it differs from Year for ISO
// weeks that begin in late December.
func (p WeekPeriod) calendarYear() int {
	t := p.Start()
	if t.IsZero() {
		return p.Year
	}
	return t.Year()
}

// MonthKey returns "{year}_{MM}" for the calendar month of StartDate.
func (p WeekPeriod) MonthKey() string {
	return fmt.Sprintf("%d_%02d", p.calendarYear(), p.Month())
}

// Quarter returns ceil(month/3).
func (p WeekPeriod) Quarter() int {
	return (p.Month() + 2) / 3
}

// QuarterKey returns "{year}_Q{n}".
func (p WeekPeriod) QuarterKey() string {
	return fmt.Sprintf("%d_Q%d", p.calendarYear(), p.Quarter())
}

// Before orders periods by year, then week.
func (p WeekPeriod) Before(other WeekPeriod) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Week < other.Week
}
