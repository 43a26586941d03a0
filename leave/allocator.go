/*
allocator.go - Day-map generation with cascading budgets

PURPOSE:
  Expands the declared leave periods into a per-day assignment of at most one
  leave type. This is the central algorithm of the planner: every other
  projection (budgets, money, warnings) reads the DayMap produced here.

KEY INSIGHT:
  A period lists the leave types it MAY use, not the one it uses. Each day is
  funded by the best type (Priority order) that still has budget, so a period
  declared as "betaald ouderschapsverlof + vakantiedagen" starts on holiday
  days and rolls over to paid parental leave once this year's days run out.
  Users never have to split a period at the exact day a budget is exhausted.

ALGORITHM:
  1. Max budget per type: round(maxWeeks x avg working days/week). The annual
     type gets the supplied day count, fresh for every calendar year.
  2. Periods are processed in declaration order. For every date in a period:
       - skip weekends, holidays, unselected weekdays, wrong week parity and
         days the work week does not cover
       - a date already assigned by an earlier period is an OVERLAP
       - walk the period's types in Priority order and take one day from the
         first type with budget left
       - if no type has budget the date becomes unassigned, even when an
         earlier period had funded it (last period touching a date wins)

INVARIANTS:
  - a date appears at most once in the DayMap
  - no remaining budget counter goes below zero
  - overwriting an assignment does not refund the earlier type's budget, so
    budgets are charged at most once per (period, date)

EXAMPLE:
  Mon-Thu roster, one period Mon..Fri of type geboorteverlof (max 4 days):
    Fri is not a working day, Mon..Thu are assigned, remaining budget 0.

SEE ALSO:
  - budget.go: re-derives used/max counts from the DayMap
  - validate.go: turns overflows, late days and overlaps into warnings
*/
package leave

import (
	"math"
	"sort"

	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// DAY MAP
// =============================================================================

// DayMap assigns a leave type to a date key ("2006-01-02").
type DayMap map[string]Type

// OverlapSet holds the date keys claimed by more than one period.
type OverlapSet map[string]struct{}

// Add marks key as overlapping.
func (s OverlapSet) Add(key string) { s[key] = struct{}{} }

// Has reports whether key overlaps.
func (s OverlapSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the overlapping date keys in ascending order.
func (s OverlapSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the type assigned to date.
func (m DayMap) Get(date generic.Date) (Type, bool) {
	t, ok := m[date.Key()]
	return t, ok
}

// Keys returns the assigned date keys in ascending order.
func (m DayMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CountByType counts assigned days per type.
func (m DayMap) CountByType() map[Type]int {
	counts := make(map[Type]int)
	for _, t := range m {
		counts[t]++
	}
	return counts
}

// Clone returns an independent copy.
func (m DayMap) Clone() DayMap {
	c := make(DayMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// MergeManual returns a copy of m with the manual assignments added on dates
// the periods left unassigned. Period-derived assignments always win.
func MergeManual(m DayMap, manual map[string]Type) DayMap {
	merged := m.Clone()
	for key, t := range manual {
		if !t.Valid() {
			continue
		}
		if _, taken := merged[key]; !taken {
			merged[key] = t
		}
	}
	return merged
}

// =============================================================================
// BUDGETS
// =============================================================================

// MaxDays returns the day budget of a non-annual type under pattern, and
// false when the type has no upper bound. For the annual type it returns the
// supplied per-year budget.
func MaxDays(t Type, pattern WorkWeekPattern, annualBudget int) (int, bool) {
	rule := RuleFor(t)
	if rule.Annual {
		return annualBudget, true
	}
	if !rule.MaxWeeks.Bounded() {
		return 0, false
	}
	return int(math.Round(float64(rule.MaxWeeks) * pattern.AverageDaysPerWeek())), true
}

// budgetCounter tracks what is left per type while allocating. The annual
// type keeps one counter per calendar year, created on first use.
type budgetCounter struct {
	remaining map[Type]int
	unlimited map[Type]bool
	annual    int
	perYear   map[int]int
}

func newBudgetCounter(pattern WorkWeekPattern, annualBudget int) *budgetCounter {
	c := &budgetCounter{
		remaining: make(map[Type]int, len(Types)),
		unlimited: make(map[Type]bool),
		annual:    annualBudget,
		perYear:   make(map[int]int),
	}
	for _, t := range Types {
		if RuleFor(t).Annual {
			continue
		}
		days, bounded := MaxDays(t, pattern, annualBudget)
		if !bounded {
			c.unlimited[t] = true
			continue
		}
		c.remaining[t] = days
	}
	return c
}

// take spends one day of t in year, reporting whether budget was left.
func (c *budgetCounter) take(t Type, year int) bool {
	if RuleFor(t).Annual {
		left, ok := c.perYear[year]
		if !ok {
			left = c.annual
		}
		if left <= 0 {
			c.perYear[year] = left
			return false
		}
		c.perYear[year] = left - 1
		return true
	}
	if c.unlimited[t] {
		return true
	}
	if c.remaining[t] <= 0 {
		return false
	}
	c.remaining[t]--
	return true
}

// =============================================================================
// ALLOCATION
// =============================================================================

// GenerateDayMap runs the allocation described above. holidays may be nil.
// The result depends only on its arguments.
func GenerateDayMap(periods []Period, pattern WorkWeekPattern, annualBudget int, holidays generic.HolidayCalendar) (DayMap, OverlapSet) {
	dayMap := make(DayMap)
	overlaps := make(OverlapSet)
	budgets := newBudgetCounter(pattern, annualBudget)

	for _, period := range periods {
		if period.Start.IsZero() || period.End.IsZero() || period.End.Before(period.Start) {
			continue
		}
		types := ByPriority(period.Types)

		for date := period.Start; !date.After(period.End); date = date.AddDays(1) {
			if !date.IsWorkdayWithHolidays(holidays) {
				continue
			}
			if !period.Selects(date) {
				continue
			}
			if !pattern.IsWorkingDay(date, holidays) {
				continue
			}

			key := date.Key()
			if _, taken := dayMap[key]; taken {
				overlaps.Add(key)
			}

			assigned := false
			for _, t := range types {
				if budgets.take(t, date.Year()) {
					dayMap[key] = t
					assigned = true
					break
				}
			}
			if !assigned {
				delete(dayMap, key)
			}
		}
	}

	return dayMap, overlaps
}
