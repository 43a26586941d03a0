package leave

import (
	"fmt"

	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// WORK WEEK PATTERN
// =============================================================================

// FullTimeHours is the contracted week that counts as a 1.0 work ratio.
const FullTimeHours = 40.0

// WorkWeekPattern holds the working weekdays (Mon..Fri) for even and odd ISO
// weeks plus the contracted hours per week.
type WorkWeekPattern struct {
	EvenWeek     [5]bool
	OddWeek      [5]bool
	HoursPerWeek float64
}

// DefaultWorkWeek is Monday to Thursday in both weeks, 36 hours.
func DefaultWorkWeek() WorkWeekPattern {
	days := [5]bool{true, true, true, true, false}
	return WorkWeekPattern{EvenWeek: days, OddWeek: days, HoursPerWeek: 36}
}

// WorkWeekFromSlices builds a pattern from slices, as produced by decoders.
// Both slices must hold exactly five entries.
func WorkWeekFromSlices(even, odd []bool, hours float64) (WorkWeekPattern, error) {
	if len(even) != 5 || len(odd) != 5 {
		return WorkWeekPattern{}, fmt.Errorf("%w: want 5 days per week, got %d and %d",
			generic.ErrInvalidWorkWeek, len(even), len(odd))
	}
	if hours < 0 {
		return WorkWeekPattern{}, fmt.Errorf("%w: negative hours %v", generic.ErrInvalidWorkWeek, hours)
	}
	var p WorkWeekPattern
	copy(p.EvenWeek[:], even)
	copy(p.OddWeek[:], odd)
	p.HoursPerWeek = hours
	return p, nil
}

// WeekFor returns the weekday selector that applies to date's ISO week.
func (p WorkWeekPattern) WeekFor(date generic.Date) [5]bool {
	if date.IsEvenWeek() {
		return p.EvenWeek
	}
	return p.OddWeek
}

// IsAlternating reports whether even and odd weeks differ.
func (p WorkWeekPattern) IsAlternating() bool {
	return p.EvenWeek != p.OddWeek
}

// IsWorkingDay reports whether date is a working day: not a weekend, not a
// holiday, and selected in the week of matching ISO parity.
func (p WorkWeekPattern) IsWorkingDay(date generic.Date, holidays generic.HolidayCalendar) bool {
	if !date.IsWorkdayWithHolidays(holidays) {
		return false
	}
	idx := date.WeekdayIndex()
	if idx < 0 || idx > 4 {
		return false
	}
	return p.WeekFor(date)[idx]
}

// AverageDaysPerWeek is the mean number of working days over an even and an
// odd week.
func (p WorkWeekPattern) AverageDaysPerWeek() float64 {
	return float64(countTrue(p.EvenWeek)+countTrue(p.OddWeek)) / 2
}

// WorkRatio is HoursPerWeek relative to a full-time week.
func (p WorkWeekPattern) WorkRatio() float64 {
	return p.HoursPerWeek / FullTimeHours
}

func countTrue(days [5]bool) int {
	n := 0
	for _, d := range days {
		if d {
			n++
		}
	}
	return n
}
