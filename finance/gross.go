/*
Package finance projects the income impact of a leave plan.

PURPOSE:
  Turns a DayMap into money: what each leave type pays compared to working,
  and what every month of the first year after the birth looks like. The net
  projector (net.go) layers Dutch income tax on top of the gross figures.

KEY FORMULAS:
  workRatio      = hoursPerWeek / 40
  scaledSalary   = monthlySalary x workRatio
  dailyGross     = scaledSalary / 21.75   (calendar-average working days per month)
  dailyLeave     = dailyGross                            for full-pay types
                 = min(dailyGross x pct/100, dayCap)     otherwise

  Per month:     dailyNormal = scaledSalary / workingDaysInMonth
                 actual      = scaledSalary
                               - dailyNormal x leaveDays + dailyLeave x leaveDays
                 (only for types that are not full pay)

ROUNDING:
  Amounts are computed at full decimal precision and rounded to cents once,
  when a row is emitted (generic.RoundCents, half away from zero). Totals are
  sums of the already rounded monthly rows.

SEE ALSO:
  - net.go: net-of-tax projection of a Summary
  - leave/allocator.go: produces the DayMap
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// AvgWorkDaysPerMonth is the calendar-average number of working days in a month.
var AvgWorkDaysPerMonth = decimal.RequireFromString("21.75")

var (
	fullTimeHours = decimal.NewFromFloat(leave.FullTimeHours)
	hundred       = decimal.NewFromInt(100)
)

// =============================================================================
// ROWS
// =============================================================================

// Row is the income impact of one leave type over the whole plan.
type Row struct {
	Type         leave.Type
	Label        string
	Days         int
	DailyIncome  decimal.Decimal
	TotalIncome  decimal.Decimal
	NormalIncome decimal.Decimal
	Difference   decimal.Decimal
	PaidBy       leave.Payer
}

// MonthRow compares normal and actual gross income for one calendar month.
type MonthRow struct {
	Month        string
	Year         int
	MonthNumber  time.Month
	WorkingDays  int
	LeaveDays    int
	NormalIncome decimal.Decimal
	ActualIncome decimal.Decimal
	Difference   decimal.Decimal
}

// Summary is the gross projection of a plan.
type Summary struct {
	PerType         []Row
	Monthly         []MonthRow
	TotalNormal     decimal.Decimal
	TotalActual     decimal.Decimal
	TotalDifference decimal.Decimal
}

// IsEmpty reports whether the summary has no rows.
func (s Summary) IsEmpty() bool {
	return len(s.PerType) == 0 && len(s.Monthly) == 0
}

// =============================================================================
// DAILY AMOUNTS
// =============================================================================

func workRatio(pattern leave.WorkWeekPattern) decimal.Decimal {
	return decimal.NewFromFloat(pattern.HoursPerWeek).Div(fullTimeHours)
}

// ScaledMonthlySalary is the monthly salary scaled to the contracted hours.
func ScaledMonthlySalary(monthlySalary decimal.Decimal, pattern leave.WorkWeekPattern) decimal.Decimal {
	return monthlySalary.Mul(workRatio(pattern))
}

// DailyGross is the gross pay of one working day.
func DailyGross(monthlySalary decimal.Decimal, pattern leave.WorkWeekPattern) decimal.Decimal {
	return ScaledMonthlySalary(monthlySalary, pattern).Div(AvgWorkDaysPerMonth)
}

// LeaveDailyIncome is what one day of leave of the given rule pays.
func LeaveDailyIncome(dailyGross decimal.Decimal, rule leave.Rule) decimal.Decimal {
	if rule.IsFullPay() {
		return dailyGross
	}
	income := dailyGross.Mul(decimal.NewFromInt(int64(rule.SalaryPercentage))).Div(hundred)
	if rule.DayCap.Valid {
		return decimal.Min(income, rule.DayCap.Decimal)
	}
	return income
}

// =============================================================================
// SUMMARY
// =============================================================================

// CalculateSummary projects gross income for the plan. Without a birth date
// it returns the zero Summary. holidays may be nil.
func CalculateSummary(input leave.Input, dayMap leave.DayMap, holidays generic.HolidayCalendar) Summary {
	if !input.HasBirthDate() {
		return Summary{
			TotalNormal:     decimal.Zero,
			TotalActual:     decimal.Zero,
			TotalDifference: decimal.Zero,
		}
	}

	dailyGross := DailyGross(input.MonthlySalary, input.WorkWeek)
	scaled := ScaledMonthlySalary(input.MonthlySalary, input.WorkWeek)

	summary := Summary{
		PerType: perTypeRows(dayMap, dailyGross),
		Monthly: monthlyRows(input, dayMap, holidays, dailyGross, scaled),
	}

	totalNormal, totalActual := decimal.Zero, decimal.Zero
	for _, m := range summary.Monthly {
		totalNormal = totalNormal.Add(m.NormalIncome)
		totalActual = totalActual.Add(m.ActualIncome)
	}
	summary.TotalNormal = generic.RoundCents(totalNormal)
	summary.TotalActual = generic.RoundCents(totalActual)
	summary.TotalDifference = generic.RoundCents(totalActual.Sub(totalNormal))
	return summary
}

// perTypeRows emits one row per leave type present, in registry order.
func perTypeRows(dayMap leave.DayMap, dailyGross decimal.Decimal) []Row {
	counts := dayMap.CountByType()
	rows := make([]Row, 0, len(counts))
	for _, t := range leave.Types {
		days := counts[t]
		if days == 0 {
			continue
		}
		rule := leave.RuleFor(t)
		n := decimal.NewFromInt(int64(days))
		daily := LeaveDailyIncome(dailyGross, rule)
		total := daily.Mul(n)
		normal := dailyGross.Mul(n)

		rows = append(rows, Row{
			Type:         t,
			Label:        rule.Label,
			Days:         days,
			DailyIncome:  generic.RoundCents(daily),
			TotalIncome:  generic.RoundCents(total),
			NormalIncome: generic.RoundCents(normal),
			Difference:   generic.RoundCents(total.Sub(normal)),
			PaidBy:       rule.PaidBy,
		})
	}
	return rows
}

// monthlyRows covers the 12 months starting at the birth month.
func monthlyRows(input leave.Input, dayMap leave.DayMap, holidays generic.HolidayCalendar, dailyGross, scaled decimal.Decimal) []MonthRow {
	months := generic.MonthsInScope(input.BirthDate)
	rows := make([]MonthRow, 0, len(months))

	for _, month := range months {
		workingDays := 0
		leaveDays := make(map[leave.Type]int)
		for _, day := range month.Period().Days() {
			if !input.WorkWeek.IsWorkingDay(day, holidays) {
				continue
			}
			workingDays++
			if t, ok := dayMap.Get(day); ok {
				leaveDays[t]++
			}
		}

		dailyNormal := generic.SafeDiv(scaled, decimal.NewFromInt(int64(workingDays)))
		actual := scaled
		totalLeave := 0
		for _, t := range leave.Types {
			days := leaveDays[t]
			if days == 0 {
				continue
			}
			totalLeave += days
			rule := leave.RuleFor(t)
			if rule.IsFullPay() {
				continue
			}
			n := decimal.NewFromInt(int64(days))
			actual = actual.Sub(dailyNormal.Mul(n)).Add(LeaveDailyIncome(dailyGross, rule).Mul(n))
		}

		rows = append(rows, MonthRow{
			Month:        month.DutchName(),
			Year:         month.Year,
			MonthNumber:  month.Month,
			WorkingDays:  workingDays,
			LeaveDays:    totalLeave,
			NormalIncome: generic.RoundCents(scaled),
			ActualIncome: generic.RoundCents(actual),
			Difference:   generic.RoundCents(actual.Sub(scaled)),
		})
	}
	return rows
}
