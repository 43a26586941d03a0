package leave

import (
	"fmt"
	"sort"
	"strconv"
)

// Budget is the used/max day count of one leave type. Annual types get one
// Budget per calendar year with Year set; Year is zero otherwise.
type Budget struct {
	Type      Type
	Label     string
	Used      int
	Max       int
	Unlimited bool
	Year      int
}

// Remaining is Max-Used, never below zero. Unlimited budgets report -1.
func (b Budget) Remaining() int {
	if b.Unlimited {
		return -1
	}
	if b.Used >= b.Max {
		return 0
	}
	return b.Max - b.Used
}

// Overflows reports whether a finite budget is exceeded.
func (b Budget) Overflows() bool {
	return !b.Unlimited && b.Used > b.Max
}

// CalculateBudgets counts the DayMap per type and pairs each count with its
// maximum. Non-annual types come first in registry order, followed by one
// entry per year with annual usage in ascending year order. Without any annual
// usage a single yearless zero entry is emitted.
func CalculateBudgets(dayMap DayMap, pattern WorkWeekPattern, annualBudget int) []Budget {
	used := make(map[Type]int)
	annualByYear := make(map[int]int)
	for key, t := range dayMap {
		used[t]++
		if RuleFor(t).Annual {
			year, err := strconv.Atoi(key[:min(4, len(key))])
			if err != nil {
				continue
			}
			annualByYear[year]++
		}
	}

	budgets := make([]Budget, 0, len(Types)+len(annualByYear))
	var annualType Type
	for _, t := range Types {
		rule := RuleFor(t)
		if rule.Annual {
			annualType = t
			continue
		}
		days, bounded := MaxDays(t, pattern, annualBudget)
		budgets = append(budgets, Budget{
			Type:      t,
			Label:     rule.ShortLabel,
			Used:      used[t],
			Max:       days,
			Unlimited: !bounded,
		})
	}

	if annualType == "" {
		return budgets
	}
	short := RuleFor(annualType).ShortLabel
	if len(annualByYear) == 0 {
		return append(budgets, Budget{Type: annualType, Label: short, Max: annualBudget})
	}

	years := make([]int, 0, len(annualByYear))
	for y := range annualByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		budgets = append(budgets, Budget{
			Type:  annualType,
			Label: fmt.Sprintf("%s %d", short, y),
			Used:  annualByYear[y],
			Max:   annualBudget,
			Year:  y,
		})
	}
	return budgets
}
