/*
Package planner ties the leave engine and the financial projectors together.

PURPOSE:
  Compute runs the whole pipeline for one configuration in a fixed order:

    allocate (leave.GenerateDayMap)
      -> merge manual days (leave.MergeManual)
      -> budgets (leave.CalculateBudgets) and gross (finance.CalculateSummary)
      -> net (finance.CalculateNet) and warnings (leave.Validate)

  Every stage reads only the output of the stages before it, so a Result is
  always internally consistent. Session (session.go) holds the editable state
  of one user and calls Compute on demand.

SEE ALSO:
  - session.go: editable planner state with its own period id counter
  - urlstate/: share tokens for a session
*/
package planner

import (
	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// Plan is everything Compute needs from the user.
type Plan struct {
	Input      leave.Input
	ManualDays map[string]leave.Type
	// TaxYear selects the tax table; zero means the birth year.
	TaxYear int
}

// Env holds the collaborators shared by all plans.
type Env struct {
	Holidays  generic.HolidayCalendar
	TaxTables *finance.TaxTables
}

// Result is the full derived view of a Plan.
type Result struct {
	DayMap    leave.DayMap
	Overlaps  leave.OverlapSet
	Budgets   []leave.Budget
	Financial finance.Summary
	Net       *finance.NetSummary
	Warnings  []string
}

// EffectiveTaxYear resolves the tax year of p.
func (p Plan) EffectiveTaxYear() int {
	if p.TaxYear > 0 {
		return p.TaxYear
	}
	if p.Input.HasBirthDate() {
		return p.Input.BirthDate.Year()
	}
	return finance.ReferenceTaxYear
}

// Compute derives the Result of p. Without a birth date nothing is allocated
// and all projections are empty.
func Compute(p Plan, env Env) Result {
	in := p.Input
	if in.MonthlySalary.IsNegative() {
		in.MonthlySalary = decimal.Zero
	}
	if in.AnnualBudget < 0 {
		in.AnnualBudget = 0
	}

	dayMap, overlaps := leave.DayMap{}, leave.OverlapSet{}
	if in.HasBirthDate() {
		dayMap, overlaps = leave.GenerateDayMap(in.Periods, in.WorkWeek, in.AnnualBudget, env.Holidays)
		dayMap = leave.MergeManual(dayMap, p.ManualDays)
	}

	budgets := leave.CalculateBudgets(dayMap, in.WorkWeek, in.AnnualBudget)
	gross := finance.CalculateSummary(in, dayMap, env.Holidays)

	var net *finance.NetSummary
	if in.HasBirthDate() {
		scaled := finance.ScaledMonthlySalary(in.MonthlySalary, in.WorkWeek)
		net = finance.CalculateNet(gross, scaled, p.EffectiveTaxYear(), env.TaxTables)
	}

	return Result{
		DayMap:    dayMap,
		Overlaps:  overlaps,
		Budgets:   budgets,
		Financial: gross,
		Net:       net,
		Warnings:  leave.Validate(in, dayMap, overlaps, budgets),
	}
}
