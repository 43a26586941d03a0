package leave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-planner/leave"
)

func TestCalculateBudgets_Ordering(t *testing.T) {
	// GIVEN: a Mon-Thu roster without any vakantiedagen used
	// WHEN: budgets are calculated
	// THEN: the four week-based types come first, then a single yearless vakantie entry

	budgets := leave.CalculateBudgets(leave.DayMap{}, monToThu(), 25)

	assert.Len(t, budgets, 5)
	assert.Equal(t, leave.Geboorteverlof, budgets[0].Type)
	assert.Equal(t, 4, budgets[0].Max)
	assert.Equal(t, leave.Aanvullend, budgets[1].Type)
	assert.Equal(t, 20, budgets[1].Max)
	assert.Equal(t, leave.BetaaldOuderschapsverlof, budgets[2].Type)
	assert.Equal(t, 36, budgets[2].Max)
	assert.Equal(t, leave.OnbetaaldOuderschapsverlof, budgets[3].Type)
	assert.Equal(t, 68, budgets[3].Max)
	assert.Equal(t, leave.Budget{Type: leave.Vakantiedagen, Label: "Vakantie", Max: 25}, budgets[4])
}

func TestCalculateBudgets_AnnualEntriesSortedByYear(t *testing.T) {
	dayMap := leave.DayMap{
		"2027-02-01": leave.Vakantiedagen,
		"2026-06-01": leave.Vakantiedagen,
		"2026-06-02": leave.Vakantiedagen,
		"2026-06-03": leave.Aanvullend,
	}

	budgets := leave.CalculateBudgets(dayMap, monToThu(), 20)

	assert.Len(t, budgets, 6)
	assert.Equal(t, 1, budgets[1].Used)
	assert.Equal(t, leave.Budget{Type: leave.Vakantiedagen, Label: "Vakantie 2026", Used: 2, Max: 20, Year: 2026}, budgets[4])
	assert.Equal(t, leave.Budget{Type: leave.Vakantiedagen, Label: "Vakantie 2027", Used: 1, Max: 20, Year: 2027}, budgets[5])
}

func TestValidate_NoBirthDate(t *testing.T) {
	overlaps := leave.OverlapSet{}
	overlaps.Add("2026-03-02")

	warnings := leave.Validate(leave.Input{}, leave.DayMap{"2026-03-02": leave.Aanvullend}, overlaps, nil)
	assert.Empty(t, warnings)
}

func TestValidate_WarningOrder(t *testing.T) {
	// GIVEN: manual geboorteverlof days beyond the budget, one of them past the
	//        4-week deadline, and an overlap
	// WHEN: validating
	// THEN: overflow, deadline and overlap warnings appear in that order

	birth := date("2026-03-02")
	manual := map[string]leave.Type{
		"2026-03-02": leave.Geboorteverlof,
		"2026-03-03": leave.Geboorteverlof,
		"2026-03-04": leave.Geboorteverlof,
		"2026-03-05": leave.Geboorteverlof,
		"2026-03-30": leave.Geboorteverlof, // exactly birth + 4 weeks
	}
	dayMap := leave.MergeManual(leave.DayMap{}, manual)
	budgets := leave.CalculateBudgets(dayMap, monToThu(), 20)
	overlaps := leave.OverlapSet{}
	overlaps.Add("2026-03-04")
	overlaps.Add("2026-03-05")

	input := leave.Input{BirthDate: birth, WorkWeek: monToThu(), AnnualBudget: 20}
	warnings := leave.Validate(input, dayMap, overlaps, budgets)

	assert.Equal(t, []string{
		"Geboorteverlof: 5 dagen gebruikt, maar budget is 4 dagen.",
		"Geboorteverlof: verlof loopt voorbij de deadline van 4 weken na geboorte.",
		"2 dag(en) zijn aan meerdere verlofperiodes toegewezen. Alleen het laatste type telt.",
	}, warnings)
}

func TestValidate_DayBeforeDeadlineIsFine(t *testing.T) {
	birth := date("2026-03-02")
	dayMap := leave.DayMap{"2026-03-27": leave.Geboorteverlof}
	budgets := leave.CalculateBudgets(dayMap, monToThu(), 20)

	warnings := leave.Validate(leave.Input{BirthDate: birth, WorkWeek: monToThu()}, dayMap, leave.OverlapSet{}, budgets)
	assert.Empty(t, warnings)
}

func TestValidate_AnnualOverflowNamesYear(t *testing.T) {
	dayMap := leave.DayMap{
		"2026-06-01": leave.Vakantiedagen,
		"2026-06-02": leave.Vakantiedagen,
	}
	budgets := leave.CalculateBudgets(dayMap, monToThu(), 1)

	warnings := leave.Validate(leave.Input{BirthDate: date("2026-03-02")}, dayMap, leave.OverlapSet{}, budgets)
	assert.Equal(t, []string{"Vakantiedagen 2026: 2 dagen gebruikt, maar budget is 1 dagen."}, warnings)
}
