package generic

import "time"

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is the inclusive range [Start, End]. An inverted range (End before
// Start) is empty, never an error.
type Period struct {
	Start Date
	End   Date
}

// IsEmpty reports whether the range contains no days.
func (p Period) IsEmpty() bool {
	return p.End.Before(p.Start)
}

// Contains returns true if the date is within the period [Start, End]
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Len returns the number of days in the period, 0 when inverted.
func (p Period) Len() int {
	if p.IsEmpty() {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period in ascending order.
func (p Period) Days() []Date {
	n := p.Len()
	days := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, p.Start.AddDays(i))
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// CalendarYear returns Jan 1 - Dec 31 of the given year.
func CalendarYear(year int) Period {
	return Period{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)}
}

// =============================================================================
// MONTH SCOPE - The twelve months following a reference date
// =============================================================================

// MonthScope identifies one calendar month.
type MonthScope struct {
	Year  int
	Month time.Month
}

// Period returns the first through last day of the month.
func (m MonthScope) Period() Period {
	start := NewDate(m.Year, m.Month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// DutchName returns the lower-case Dutch month name.
func (m MonthScope) DutchName() string {
	return DutchMonthName(m.Month)
}

// MonthsInScope returns the twelve months starting at the month of ref.
func MonthsInScope(ref Date) []MonthScope {
	months := make([]MonthScope, 0, 12)
	first := NewDate(ref.Year(), ref.Month(), 1)
	for i := 0; i < 12; i++ {
		m := first.AddMonths(i)
		months = append(months, MonthScope{Year: m.Year(), Month: m.Month()})
	}
	return months
}

var dutchMonthNames = [12]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

var dutchDayAbbreviations = [7]string{"ma", "di", "wo", "do", "vr", "za", "zo"}

func DutchMonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return dutchMonthNames[m-1]
}

// DutchDayAbbreviation takes a Monday-based index (0 = ma).
func DutchDayAbbreviation(index int) string {
	if index < 0 || index > 6 {
		return ""
	}
	return dutchDayAbbreviations[index]
}
