/*
rules.go - Static leave rule registry

PURPOSE:
  One immutable rule per leave type: how long it may last, what share of the
  salary is paid and by whom, the statutory deadline counted from the birth
  date, and the UWV per-day payout cap.

RULES (2026):
  Type                         Max      Pay   Payer      Deadline   Day cap
  geboorteverlof               1 wk     100%  Werkgever  4 wk       -
  aanvullend                   5 wk     70%   UWV        26 wk      290.67
  betaaldOuderschapsverlof     9 wk     70%   UWV        52 wk      212.97
  onbetaaldOuderschapsverlof   17 wk    0%    Niemand    416 wk     -
  vakantiedagen                annual   100%  Werkgever  -          -

  Week maxima turn into day budgets with round(weeks x average working days
  per week). Vakantiedagen ignore MaxWeeks: their budget is the externally
  supplied annual day count, fresh for every calendar year.

SEE ALSO:
  - allocator.go: consumes the budgets derived here
  - finance/gross.go: uses SalaryPercentage and DayCap
*/
package leave

import "github.com/shopspring/decimal"

// Weeks is a duration in weeks; Unbounded means no limit.
type Weeks int

// Unbounded marks an absent maximum or deadline.
const Unbounded Weeks = -1

// Bounded reports whether w is a finite number of weeks.
func (w Weeks) Bounded() bool { return w >= 0 }

// Payer identifies who pays during leave.
type Payer string

const (
	PayerEmployer Payer = "Werkgever"
	PayerUWV      Payer = "UWV"
	PayerNone     Payer = "Niemand"
)

// Rule is the static rule for one leave type.
type Rule struct {
	Type             Type
	Label            string
	ShortLabel       string
	MaxWeeks         Weeks
	SalaryPercentage int
	PaidBy           Payer
	DeadlineWeeks    Weeks
	DayCap           decimal.NullDecimal
	FixedDuration    bool
	// Annual rules renew every calendar year with an externally supplied day budget.
	Annual      bool
	Description string
}

// IsFullPay reports whether the leave is paid at 100% without a cap, i.e. it
// has no income impact.
func (r Rule) IsFullPay() bool {
	return r.SalaryPercentage == 100 && !r.DayCap.Valid
}

func dayCap(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

var rules = map[Type]Rule{
	Geboorteverlof: {
		Type:             Geboorteverlof,
		Label:            "Geboorteverlof",
		ShortLabel:       "Geboorte",
		MaxWeeks:         1,
		SalaryPercentage: 100,
		PaidBy:           PayerEmployer,
		DeadlineWeeks:    4,
		FixedDuration:    true,
		Description:      "1 werkweek volledig doorbetaald door je werkgever. Op te nemen binnen 4 weken na de geboorte.",
	},
	Aanvullend: {
		Type:             Aanvullend,
		Label:            "Aanvullend geboorteverlof",
		ShortLabel:       "Aanvullend",
		MaxWeeks:         5,
		SalaryPercentage: 70,
		PaidBy:           PayerUWV,
		DeadlineWeeks:    26,
		DayCap:           dayCap("290.67"),
		Description:      "Maximaal 5 werkweken tegen 70% van je salaris, betaald door het UWV. Op te nemen binnen 6 maanden.",
	},
	BetaaldOuderschapsverlof: {
		Type:             BetaaldOuderschapsverlof,
		Label:            "Betaald ouderschapsverlof",
		ShortLabel:       "Betaald ouderschap",
		MaxWeeks:         9,
		SalaryPercentage: 70,
		PaidBy:           PayerUWV,
		DeadlineWeeks:    52,
		DayCap:           dayCap("212.97"),
		Description:      "9 weken tegen 70% van je salaris, betaald door het UWV. Op te nemen in het eerste levensjaar.",
	},
	OnbetaaldOuderschapsverlof: {
		Type:             OnbetaaldOuderschapsverlof,
		Label:            "Onbetaald ouderschapsverlof",
		ShortLabel:       "Onbetaald",
		MaxWeeks:         17,
		SalaryPercentage: 0,
		PaidBy:           PayerNone,
		DeadlineWeeks:    416, // until the child turns 8
		Description:      "Maximaal 17 weken onbetaald verlof. Op te nemen tot het kind 8 jaar is.",
	},
	Vakantiedagen: {
		Type:             Vakantiedagen,
		Label:            "Vakantiedagen",
		ShortLabel:       "Vakantie",
		MaxWeeks:         Unbounded,
		SalaryPercentage: 100,
		PaidBy:           PayerEmployer,
		DeadlineWeeks:    Unbounded,
		Annual:           true,
		Description:      "Reguliere vakantiedagen, volledig doorbetaald.",
	},
}

// RuleFor returns the rule for t. Unknown types get a zero-pay rule without
// budget so that they are never allocated.
func RuleFor(t Type) Rule {
	if r, ok := rules[t]; ok {
		return r
	}
	return Rule{Type: t, Label: string(t), ShortLabel: string(t), MaxWeeks: 0, DeadlineWeeks: Unbounded, PaidBy: PayerNone}
}

// Rules returns all rules in registry enumeration order.
func Rules() []Rule {
	out := make([]Rule, 0, len(Types))
	for _, t := range Types {
		out = append(out, rules[t])
	}
	return out
}
