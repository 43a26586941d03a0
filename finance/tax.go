package finance

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// TAX YEAR CONFIGURATION
// =============================================================================

// ReferenceTaxYear is used when a requested year has no table.
const ReferenceTaxYear = 2026

// Bracket taxes income up to UpperLimit at Rate. The last bracket has no
// upper limit.
type Bracket struct {
	UpperLimit decimal.NullDecimal
	Rate       decimal.Decimal
}

// GeneralCredit is the algemene heffingskorting: Max below PhaseOutFrom,
// reduced by PhaseOutRate per euro above it.
type GeneralCredit struct {
	Max          decimal.Decimal
	PhaseOutRate decimal.Decimal
	PhaseOutFrom decimal.Decimal
}

// LaborCreditStep is one step of the arbeidskorting table:
// BaseAmount + Rate x (income - FromAmount) for income up to UpperLimit.
type LaborCreditStep struct {
	UpperLimit decimal.NullDecimal
	BaseAmount decimal.Decimal
	Rate       decimal.Decimal
	FromAmount decimal.Decimal
}

// TaxYear holds the income tax parameters of one year.
type TaxYear struct {
	Year          int
	Brackets      []Bracket
	GeneralCredit GeneralCredit
	LaborCredit   []LaborCreditStep
}

func limit(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Tax2026 returns the 2026 parameters.
func Tax2026() TaxYear {
	return TaxYear{
		Year: 2026,
		Brackets: []Bracket{
			{UpperLimit: limit(38_883), Rate: rate("0.3575")},
			{UpperLimit: limit(78_426), Rate: rate("0.3756")},
			{Rate: rate("0.495")},
		},
		GeneralCredit: GeneralCredit{
			Max:          decimal.NewFromInt(3_115),
			PhaseOutRate: rate("0.06398"),
			PhaseOutFrom: decimal.NewFromInt(29_736),
		},
		LaborCredit: []LaborCreditStep{
			{UpperLimit: limit(11_965), BaseAmount: decimal.Zero, Rate: rate("0.08324"), FromAmount: decimal.Zero},
			{UpperLimit: limit(25_845), BaseAmount: decimal.NewFromInt(996), Rate: rate("0.31009"), FromAmount: decimal.NewFromInt(11_965)},
			{UpperLimit: limit(45_592), BaseAmount: decimal.NewFromInt(5_300), Rate: rate("0.0195"), FromAmount: decimal.NewFromInt(25_845)},
			{UpperLimit: limit(132_920), BaseAmount: decimal.NewFromInt(5_685), Rate: rate("-0.0651"), FromAmount: decimal.NewFromInt(45_592)},
			{BaseAmount: decimal.Zero, Rate: decimal.Zero, FromAmount: decimal.NewFromInt(132_920)},
		},
	}
}

// Validate checks that brackets and labor credit steps have ascending upper
// limits and end in an unbounded entry.
func (y TaxYear) Validate() error {
	if y.Year <= 0 {
		return fmt.Errorf("%w: year %d", generic.ErrInvalidTaxTable, y.Year)
	}
	if len(y.Brackets) == 0 {
		return fmt.Errorf("%w: %d has no brackets", generic.ErrInvalidTaxTable, y.Year)
	}
	limits := make([]decimal.NullDecimal, len(y.Brackets))
	for i, b := range y.Brackets {
		limits[i] = b.UpperLimit
	}
	if err := checkLimits(y.Year, "bracket", limits); err != nil {
		return err
	}
	if len(y.LaborCredit) > 0 {
		limits = limits[:0]
		for _, s := range y.LaborCredit {
			limits = append(limits, s.UpperLimit)
		}
		if err := checkLimits(y.Year, "labor credit step", limits); err != nil {
			return err
		}
	}
	if y.GeneralCredit.Max.IsNegative() || y.GeneralCredit.PhaseOutRate.IsNegative() {
		return fmt.Errorf("%w: %d general credit must not be negative", generic.ErrInvalidTaxTable, y.Year)
	}
	return nil
}

func checkLimits(year int, what string, limits []decimal.NullDecimal) error {
	prev := decimal.Zero
	for i, l := range limits {
		last := i == len(limits)-1
		if !l.Valid {
			if !last {
				return fmt.Errorf("%w: %d %s %d is unbounded but not last", generic.ErrInvalidTaxTable, year, what, i+1)
			}
			continue
		}
		if last {
			return fmt.Errorf("%w: %d last %s must be unbounded", generic.ErrInvalidTaxTable, year, what)
		}
		if !l.Decimal.GreaterThan(prev) {
			return fmt.Errorf("%w: %d %s %d upper limit %s not ascending", generic.ErrInvalidTaxTable, year, what, i+1, l.Decimal)
		}
		prev = l.Decimal
	}
	return nil
}

// =============================================================================
// TAX TABLE REGISTRY
// =============================================================================

// TaxTables maps years to parameters. Lookups of unknown years fall back to
// ReferenceTaxYear. Safe for concurrent use.
type TaxTables struct {
	mu    sync.RWMutex
	years map[int]TaxYear
}

// NewTaxTables returns a registry holding the built-in years.
func NewTaxTables() *TaxTables {
	ref := Tax2026()
	return &TaxTables{years: map[int]TaxYear{ref.Year: ref}}
}

// Register adds or replaces a year after validating it.
func (t *TaxTables) Register(y TaxYear) error {
	if err := y.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.years[y.Year] = y
	return nil
}

// Lookup returns the parameters of year, or of ReferenceTaxYear when year is unknown.
func (t *TaxTables) Lookup(year int) TaxYear {
	if t == nil {
		return Tax2026()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if y, ok := t.years[year]; ok {
		return y
	}
	if y, ok := t.years[ReferenceTaxYear]; ok {
		return y
	}
	return Tax2026()
}

// Has reports whether year has its own table.
func (t *TaxTables) Has(year int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.years[year]
	return ok
}

// Years lists the registered years in ascending order.
func (t *TaxTables) Years() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// =============================================================================
// TAX FUNCTIONS
// =============================================================================

// IncomeTax is the loonheffing on an annual gross income.
func IncomeTax(annualGross decimal.Decimal, cfg TaxYear) decimal.Decimal {
	tax := decimal.Zero
	remaining := annualGross
	prevLimit := decimal.Zero

	for _, b := range cfg.Brackets {
		taxable := remaining
		if b.UpperLimit.Valid {
			taxable = decimal.Min(remaining, b.UpperLimit.Decimal.Sub(prevLimit))
		}
		if !taxable.IsPositive() {
			break
		}
		tax = tax.Add(taxable.Mul(b.Rate))
		remaining = remaining.Sub(taxable)
		if !b.UpperLimit.Valid {
			break
		}
		prevLimit = b.UpperLimit.Decimal
	}
	return tax
}

// GeneralTaxCredit is the algemene heffingskorting for an annual income.
func GeneralTaxCredit(annualGross decimal.Decimal, cfg TaxYear) decimal.Decimal {
	gc := cfg.GeneralCredit
	if annualGross.LessThanOrEqual(gc.PhaseOutFrom) {
		return gc.Max
	}
	reduction := annualGross.Sub(gc.PhaseOutFrom).Mul(gc.PhaseOutRate)
	return decimal.Max(decimal.Zero, gc.Max.Sub(reduction))
}

// LaborTaxCredit is the arbeidskorting for an annual labor income.
func LaborTaxCredit(income decimal.Decimal, cfg TaxYear) decimal.Decimal {
	for _, step := range cfg.LaborCredit {
		if step.UpperLimit.Valid && income.GreaterThan(step.UpperLimit.Decimal) {
			continue
		}
		amount := step.BaseAmount.Add(step.Rate.Mul(income.Sub(step.FromAmount)))
		return decimal.Max(decimal.Zero, amount)
	}
	return decimal.Zero
}

// AnnualNet is the net income after tax and credits. Credits never make the
// tax negative. Non-positive gross yields zero.
func AnnualNet(annualGross decimal.Decimal, cfg TaxYear) decimal.Decimal {
	if !annualGross.IsPositive() {
		return decimal.Zero
	}
	tax := IncomeTax(annualGross, cfg).
		Sub(GeneralTaxCredit(annualGross, cfg)).
		Sub(LaborTaxCredit(annualGross, cfg))
	return annualGross.Sub(decimal.Max(decimal.Zero, tax))
}
