package finance

import (
	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// NET PROJECTION
// =============================================================================
//
// Net figures come from two annual scenarios: "normal" (12 x scaled salary)
// and "actual" (sum of the monthly actual gross incomes). Each scenario gets
// a blended net ratio netAnnual/grossAnnual that is applied to the gross rows.
//
// The net DIFFERENCE of a row is not netActual - netNormal. The two ratios
// differ, so that subtraction can show a net gain on a row that lost gross
// income. Instead the total net difference (annualNetActual - annualNetNormal)
// is spread over the rows in proportion to their share of the total gross
// difference. A row without a gross difference has no net difference.

// NetMonthRow is the net view of one MonthRow.
type NetMonthRow struct {
	Month           string
	Year            int
	NetNormalIncome decimal.Decimal
	NetActualIncome decimal.Decimal
	NetDifference   decimal.Decimal
}

// NetRow is the net view of one per-type Row.
type NetRow struct {
	Type            leave.Type
	NetTotalIncome  decimal.Decimal
	NetNormalIncome decimal.Decimal
	NetDifference   decimal.Decimal
}

// NetSummary is the net-of-tax projection of a Summary.
type NetSummary struct {
	Monthly            []NetMonthRow
	PerType            []NetRow
	TotalNetNormal     decimal.Decimal
	TotalNetActual     decimal.Decimal
	TotalNetDifference decimal.Decimal
	// TaxYear is the requested year; TableYear the year whose table was applied.
	TaxYear   int
	TableYear int
}

// CalculateNet projects gross onto net income. It returns nil when the scaled
// salary is not positive or there are no monthly rows. A nil tables uses the
// built-in years.
func CalculateNet(gross Summary, scaledMonthlySalary decimal.Decimal, taxYear int, tables *TaxTables) *NetSummary {
	if !scaledMonthlySalary.IsPositive() || len(gross.Monthly) == 0 {
		return nil
	}
	cfg := tables.Lookup(taxYear)

	grossNormal := scaledMonthlySalary.Mul(decimal.NewFromInt(12))
	grossActual := decimal.Zero
	for _, m := range gross.Monthly {
		grossActual = grossActual.Add(m.ActualIncome)
	}

	netNormal := AnnualNet(grossNormal, cfg)
	netActual := AnnualNet(grossActual, cfg)
	ratioNormal := netRatio(netNormal, grossNormal)
	ratioActual := netRatio(netActual, grossActual)
	totalNetDiff := netActual.Sub(netNormal)

	monthGrossDiff := decimal.Zero
	for _, m := range gross.Monthly {
		monthGrossDiff = monthGrossDiff.Add(m.Difference)
	}
	typeGrossDiff := decimal.Zero
	for _, r := range gross.PerType {
		typeGrossDiff = typeGrossDiff.Add(r.Difference)
	}

	out := &NetSummary{
		Monthly:   make([]NetMonthRow, 0, len(gross.Monthly)),
		PerType:   make([]NetRow, 0, len(gross.PerType)),
		TaxYear:   taxYear,
		TableYear: cfg.Year,
	}

	sumNormal, sumActual, sumDiff := decimal.Zero, decimal.Zero, decimal.Zero
	for _, m := range gross.Monthly {
		row := NetMonthRow{
			Month:           m.Month,
			Year:            m.Year,
			NetNormalIncome: generic.RoundCents(m.NormalIncome.Mul(ratioNormal)),
			NetActualIncome: generic.RoundCents(m.ActualIncome.Mul(ratioActual)),
			NetDifference:   distribute(m.Difference, monthGrossDiff, totalNetDiff),
		}
		sumNormal = sumNormal.Add(row.NetNormalIncome)
		sumActual = sumActual.Add(row.NetActualIncome)
		sumDiff = sumDiff.Add(row.NetDifference)
		out.Monthly = append(out.Monthly, row)
	}

	for _, r := range gross.PerType {
		out.PerType = append(out.PerType, NetRow{
			Type:            r.Type,
			NetTotalIncome:  generic.RoundCents(r.TotalIncome.Mul(ratioActual)),
			NetNormalIncome: generic.RoundCents(r.NormalIncome.Mul(ratioNormal)),
			NetDifference:   distribute(r.Difference, typeGrossDiff, totalNetDiff),
		})
	}

	out.TotalNetNormal = generic.RoundCents(sumNormal)
	out.TotalNetActual = generic.RoundCents(sumActual)
	out.TotalNetDifference = generic.RoundCents(sumDiff)
	return out
}

func netRatio(net, gross decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}
	return net.Div(gross)
}

// distribute gives a row its share of the total net difference.
func distribute(rowGrossDiff, totalGrossDiff, totalNetDiff decimal.Decimal) decimal.Decimal {
	if rowGrossDiff.IsZero() || totalGrossDiff.IsZero() {
		return decimal.Zero
	}
	return generic.RoundCents(rowGrossDiff.Div(totalGrossDiff).Mul(totalNetDiff))
}
