package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func eur(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertEur compares amounts by value so that "4000" equals "4000.00".
func assertEur(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, eur(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func fullTime() leave.WorkWeekPattern {
	return leave.WorkWeekPattern{
		EvenWeek:     leave.AllWeekdays,
		OddWeek:      leave.AllWeekdays,
		HoursPerWeek: 40,
	}
}

// juneOfAanvullend plans all 22 working days of June 2026 as aanvullend geboorteverlof.
func juneOfAanvullend(salary string) (leave.Input, leave.DayMap) {
	input := leave.Input{
		BirthDate:     generic.NewDate(2026, time.June, 1),
		WorkWeek:      fullTime(),
		MonthlySalary: eur(salary),
		AnnualBudget:  20,
		Periods: []leave.Period{{
			ID:        "1",
			Types:     []leave.Type{leave.Aanvullend},
			Start:     generic.NewDate(2026, time.June, 1),
			End:       generic.NewDate(2026, time.June, 30),
			Days:      leave.AllWeekdays,
			EveryWeek: true,
		}},
	}
	dayMap, _ := leave.GenerateDayMap(input.Periods, input.WorkWeek, input.AnnualBudget, nil)
	return input, dayMap
}

// =============================================================================
// DAILY AMOUNTS
// =============================================================================

func TestDailyGross_ScalesWithHours(t *testing.T) {
	part := fullTime()
	part.HoursPerWeek = 36

	assertEur(t, "3600", finance.ScaledMonthlySalary(eur("4000"), part))
	assertEur(t, "165.52", generic.RoundCents(finance.DailyGross(eur("4000"), part)))
	assertEur(t, "183.91", generic.RoundCents(finance.DailyGross(eur("4000"), fullTime())))
}

func TestLeaveDailyIncome(t *testing.T) {
	daily := eur("459.77")

	assertEur(t, "459.77", finance.LeaveDailyIncome(daily, leave.RuleFor(leave.Geboorteverlof)))
	assertEur(t, "290.67", finance.LeaveDailyIncome(daily, leave.RuleFor(leave.Aanvullend)), "capped")
	assertEur(t, "212.97", finance.LeaveDailyIncome(daily, leave.RuleFor(leave.BetaaldOuderschapsverlof)), "capped")
	assertEur(t, "0", finance.LeaveDailyIncome(daily, leave.RuleFor(leave.OnbetaaldOuderschapsverlof)))
	assertEur(t, "70", finance.LeaveDailyIncome(eur("100"), leave.RuleFor(leave.Aanvullend)), "below cap")
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestCalculateSummary_NoBirthDate(t *testing.T) {
	summary := finance.CalculateSummary(leave.Input{MonthlySalary: eur("4000")}, leave.DayMap{"2026-06-01": leave.Aanvullend}, nil)

	assert.True(t, summary.IsEmpty())
	assert.True(t, summary.TotalNormal.IsZero())
	assert.True(t, summary.TotalDifference.IsZero())
}

func TestCalculateSummary_FullMonthOfPartialPay(t *testing.T) {
	// GIVEN: 4000/month full time and all 22 working days of June as aanvullend (70%)
	// WHEN: the gross summary is calculated
	// THEN: June pays dailyGross x 22 x 0.70 and every other month is unchanged

	input, dayMap := juneOfAanvullend("4000")
	require.Len(t, dayMap, 22)

	summary := finance.CalculateSummary(input, dayMap, nil)

	require.Len(t, summary.Monthly, 12)
	june := summary.Monthly[0]
	assert.Equal(t, "juni", june.Month)
	assert.Equal(t, 2026, june.Year)
	assert.Equal(t, 22, june.WorkingDays)
	assert.Equal(t, 22, june.LeaveDays)
	assertEur(t, "4000", june.NormalIncome)
	assertEur(t, "2832.18", june.ActualIncome)
	assertEur(t, "-1167.82", june.Difference)
	assert.True(t, june.Difference.IsNegative())

	for _, m := range summary.Monthly[1:] {
		assertEur(t, "4000", m.ActualIncome, m.Month)
		assert.True(t, m.Difference.IsZero(), m.Month)
	}
	assert.Equal(t, "mei", summary.Monthly[11].Month)
	assert.Equal(t, 2027, summary.Monthly[11].Year)

	require.Len(t, summary.PerType, 1)
	row := summary.PerType[0]
	assert.Equal(t, leave.Aanvullend, row.Type)
	assert.Equal(t, "Aanvullend geboorteverlof", row.Label)
	assert.Equal(t, leave.PayerUWV, row.PaidBy)
	assert.Equal(t, 22, row.Days)
	assertEur(t, "128.74", row.DailyIncome)
	assertEur(t, "2832.18", row.TotalIncome)
	assertEur(t, "4045.98", row.NormalIncome)
	assertEur(t, "-1213.79", row.Difference)

	assertEur(t, "48000", summary.TotalNormal)
	assertEur(t, "46832.18", summary.TotalActual)
	assertEur(t, "-1167.82", summary.TotalDifference)
}

func TestCalculateSummary_CapLimitsDailyIncome(t *testing.T) {
	// GIVEN: a salary high enough that 70% of the daily gross exceeds the cap
	input, dayMap := juneOfAanvullend("10000")

	summary := finance.CalculateSummary(input, dayMap, nil)

	// THEN: every leave day pays exactly the 290.67 cap
	require.Len(t, summary.PerType, 1)
	assertEur(t, "290.67", summary.PerType[0].DailyIncome)
	assertEur(t, "6394.74", summary.PerType[0].TotalIncome)
	assertEur(t, "6394.74", summary.Monthly[0].ActualIncome)
}

func TestCalculateSummary_FullPayHasNoImpact(t *testing.T) {
	input, _ := juneOfAanvullend("4000")
	dayMap := leave.DayMap{
		"2026-06-01": leave.Geboorteverlof,
		"2026-06-02": leave.Vakantiedagen,
	}

	summary := finance.CalculateSummary(input, dayMap, nil)

	assert.True(t, summary.TotalDifference.IsZero())
	require.Len(t, summary.PerType, 2)
	assert.Equal(t, leave.Geboorteverlof, summary.PerType[0].Type, "registry order")
	assert.Equal(t, leave.Vakantiedagen, summary.PerType[1].Type)
	assert.True(t, summary.PerType[0].Difference.IsZero())
	assert.Equal(t, 2, summary.Monthly[0].LeaveDays)
}

func TestCalculateSummary_HolidaysReduceWorkingDays(t *testing.T) {
	input, dayMap := juneOfAanvullend("4000")
	holidays := generic.HolidayFunc(func(d generic.Date) (string, bool) {
		return "Testdag", d.Key() == "2026-06-15"
	})

	summary := finance.CalculateSummary(input, dayMap, holidays)
	assert.Equal(t, 21, summary.Monthly[0].WorkingDays)
	// 2026-06-15 is in the day map but no longer a working day
	assert.Equal(t, 21, summary.Monthly[0].LeaveDays)
}
