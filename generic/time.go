/*
Package generic provides the calendar and money primitives shared by the
leave engine, the financial projector and the outer surfaces.

PURPOSE:
  Everything in the planner is computed per calendar day. This package owns
  the day-granular Date type, the ISO-week parity rules used by alternating
  rosters, the HolidayCalendar collaborator interface and cent rounding.
  It has no knowledge of specific leave types or tax rules.

KEY CONCEPTS IN THIS FILE (time.go):
  - Date: a calendar day at UTC midnight, keyed as "2006-01-02"
  - ISO week parity: even/odd ISO week numbers select a roster week
  - HolidayCalendar: opaque lookup "is this date a public holiday?"

SEE ALSO:
  - period.go: inclusive date ranges and month scopes
  - money.go: decimal helpers and cent rounding
  - holidays/: the Dutch HolidayCalendar implementation
*/
package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granular calendar date
// =============================================================================

// KeyLayout is the layout of a date key ("2006-01-02").
const KeyLayout = "2006-01-02"

// Date is a calendar day. The zero value means "not set".
type Date struct {
	Time time.Time
}

// NewDate returns the date at UTC midnight. Out-of-range days normalize like time.Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's own year/month/day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" key.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(KeyLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Today() Date { return DateOf(time.Now()) }

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddWeeks(n int) Date  { return d.AddDays(7 * n) }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) Key() string           { return d.Time.Format(KeyLayout) }
func (d Date) String() string        { return d.Key() }

// IsWeekend reports whether the date is a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func (d Date) WeekdayIndex() int {
	return (int(d.Weekday()) + 6) % 7
}

// ISOWeek returns the ISO 8601 week number (1-53).
func (d Date) ISOWeek() int {
	_, week := d.Time.ISOWeek()
	return week
}

// IsEvenWeek reports whether the date falls in an even ISO week.
func (d Date) IsEvenWeek() bool {
	return d.ISOWeek()%2 == 0
}

// DaysBetween counts calendar days from 'from' to 'to' (negative when to < from).
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// MarshalJSON renders the date as its key; the zero date renders as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Key() + `"`), nil
}

// UnmarshalJSON accepts a "2006-01-02" string, an empty string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a named public holiday on a specific date.
type Holiday struct {
	ID   string
	Date Date
	Name string
}

// HolidayCalendar looks up public holidays by exact date.
type HolidayCalendar interface {
	// HolidayName returns the holiday name and true when date is a holiday.
	HolidayName(date Date) (string, bool)
}

// NoHolidays is a calendar without any holidays.
type NoHolidays struct{}

func (NoHolidays) HolidayName(Date) (string, bool) { return "", false }

// HolidayFunc adapts a plain function to HolidayCalendar.
type HolidayFunc func(Date) (string, bool)

func (f HolidayFunc) HolidayName(d Date) (string, bool) { return f(d) }

// LayeredCalendar consults each calendar in order; the first hit wins.
type LayeredCalendar []HolidayCalendar

func (lc LayeredCalendar) HolidayName(d Date) (string, bool) {
	for _, c := range lc {
		if c == nil {
			continue
		}
		if name, ok := c.HolidayName(d); ok {
			return name, true
		}
	}
	return "", false
}

// IsWorkdayWithHolidays reports whether the date is neither a weekend day nor a holiday.
// A nil calendar means no holidays.
func (d Date) IsWorkdayWithHolidays(calendar HolidayCalendar) bool {
	if d.IsWeekend() {
		return false
	}
	if calendar != nil {
		if _, ok := calendar.HolidayName(d); ok {
			return false
		}
	}
	return true
}
