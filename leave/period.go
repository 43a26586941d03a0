package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/generic"
)

// DefaultAnnualBudget is the default number of vakantiedagen per calendar year.
const DefaultAnnualBudget = 20

// WeekFilter restricts a period to even or odd ISO weeks.
type WeekFilter string

const (
	WeekFilterNone WeekFilter = ""
	WeekFilterEven WeekFilter = "even"
	WeekFilterOdd  WeekFilter = "uneven"
)

// Matches reports whether date passes the filter.
func (f WeekFilter) Matches(date generic.Date) bool {
	switch f {
	case WeekFilterEven:
		return date.IsEvenWeek()
	case WeekFilterOdd:
		return !date.IsEvenWeek()
	default:
		return true
	}
}

// Period is a user-declared stretch of leave. Types lists the leave types the
// period may draw from; the allocator tries them in Priority order.
type Period struct {
	ID         string
	Types      []Type
	Start      generic.Date
	End        generic.Date
	Days       [5]bool
	EveryWeek  bool
	WeekFilter WeekFilter
}

// AllWeekdays selects Monday through Friday.
var AllWeekdays = [5]bool{true, true, true, true, true}

// Range returns the inclusive date range of the period.
func (p Period) Range() generic.Period {
	return generic.Period{Start: p.Start, End: p.End}
}

// Selects reports whether the period's weekday selector and week filter
// include date. It does not look at the work week or holidays.
func (p Period) Selects(date generic.Date) bool {
	idx := date.WeekdayIndex()
	if idx > 4 || !p.Days[idx] {
		return false
	}
	if !p.EveryWeek && !p.WeekFilter.Matches(date) {
		return false
	}
	return true
}

// HasType reports whether t is one of the period's types.
func (p Period) HasType(t Type) bool {
	for _, pt := range p.Types {
		if pt == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (p Period) Clone() Period {
	c := p
	c.Types = append([]Type(nil), p.Types...)
	return c
}

// Input is the full planner configuration consumed by the projector and the
// validator. A zero BirthDate means nothing has been planned yet.
type Input struct {
	BirthDate     generic.Date
	WorkWeek      WorkWeekPattern
	MonthlySalary decimal.Decimal
	Periods       []Period
	AnnualBudget  int
}

// HasBirthDate reports whether the reference date is set.
func (in Input) HasBirthDate() bool {
	return !in.BirthDate.IsZero()
}
