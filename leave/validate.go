package leave

import (
	"fmt"

	"github.com/warp/leave-planner/generic"
)

// Validate cross-checks an allocation against the leave rules. Warnings are
// advisory and come in a fixed order: budget overflows, deadline violations,
// then a single overlap notice. Without a birth date there is nothing to
// check and the result is empty.
func Validate(input Input, dayMap DayMap, overlaps OverlapSet, budgets []Budget) []string {
	warnings := []string{}
	if !input.HasBirthDate() {
		return warnings
	}

	for _, b := range budgets {
		if !b.Overflows() {
			continue
		}
		label := RuleFor(b.Type).Label
		if b.Year != 0 {
			label = fmt.Sprintf("%s %d", label, b.Year)
		}
		warnings = append(warnings, fmt.Sprintf(
			"%s: %d dagen gebruikt, maar budget is %d dagen.", label, b.Used, b.Max))
	}

	last := lastDayPerType(dayMap)
	for _, t := range Types {
		lastDay, ok := last[t]
		if !ok {
			continue
		}
		deadline, bounded := Deadline(t, input.BirthDate)
		if !bounded {
			continue
		}
		if lastDay.AfterOrEqual(deadline) {
			rule := RuleFor(t)
			warnings = append(warnings, fmt.Sprintf(
				"%s: verlof loopt voorbij de deadline van %d weken na geboorte.", rule.Label, rule.DeadlineWeeks))
		}
	}

	if len(overlaps) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d dag(en) zijn aan meerdere verlofperiodes toegewezen. Alleen het laatste type telt.", len(overlaps)))
	}

	return warnings
}

// Deadline returns the first date on which t may no longer be taken, and
// false when t has no deadline.
func Deadline(t Type, birth generic.Date) (generic.Date, bool) {
	rule := RuleFor(t)
	if !rule.DeadlineWeeks.Bounded() || birth.IsZero() {
		return generic.Date{}, false
	}
	return birth.AddWeeks(int(rule.DeadlineWeeks)), true
}

func lastDayPerType(dayMap DayMap) map[Type]generic.Date {
	last := make(map[Type]generic.Date)
	for key, t := range dayMap {
		date, err := generic.ParseDate(key)
		if err != nil {
			continue
		}
		if current, ok := last[t]; !ok || date.After(current) {
			last[t] = date
		}
	}
	return last
}
