// Package leave implements the Dutch birth and parental leave engine: the
// leave-type registry, the work-week predicate, the day-map allocator that
// spends per-type budgets in priority order, the budget calculator and the
// validator.
package leave

import (
	"fmt"

	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// Type identifies one of the five leave types.
type Type string

const (
	// Geboorteverlof is one week of birth leave paid in full by the employer.
	Geboorteverlof Type = "geboorteverlof"
	// Aanvullend is supplementary birth leave paid by UWV at 70%.
	Aanvullend Type = "aanvullend"
	// BetaaldOuderschapsverlof is paid parental leave, UWV at 70%.
	BetaaldOuderschapsverlof Type = "betaaldOuderschapsverlof"
	// OnbetaaldOuderschapsverlof is unpaid parental leave.
	OnbetaaldOuderschapsverlof Type = "onbetaaldOuderschapsverlof"
	// Vakantiedagen are regular paid days off, renewed every calendar year.
	Vakantiedagen Type = "vakantiedagen"
)

// Types lists every leave type in registry enumeration order.
var Types = []Type{
	Geboorteverlof,
	Aanvullend,
	BetaaldOuderschapsverlof,
	OnbetaaldOuderschapsverlof,
	Vakantiedagen,
}

// Priority orders leave types from best to worst financial outcome.
// The allocator tries a period's types in this order.
var Priority = []Type{
	Geboorteverlof,
	Vakantiedagen,
	Aanvullend,
	BetaaldOuderschapsverlof,
	OnbetaaldOuderschapsverlof,
}

var typeCodes = map[Type]string{
	Geboorteverlof:             "g",
	Aanvullend:                 "a",
	BetaaldOuderschapsverlof:   "b",
	OnbetaaldOuderschapsverlof: "o",
	Vakantiedagen:              "v",
}

// Valid reports whether t is a registered leave type.
func (t Type) Valid() bool {
	_, ok := typeCodes[t]
	return ok
}

// Rank is the position of t in Priority; unknown types rank last.
func (t Type) Rank() int {
	for i, p := range Priority {
		if p == t {
			return i
		}
	}
	return len(Priority)
}

// Code returns the one-letter code used in share tokens.
func (t Type) Code() string {
	return typeCodes[t]
}

// Rule returns the registry rule for t.
func (t Type) Rule() Rule {
	return RuleFor(t)
}

func (t Type) String() string { return string(t) }

// TypeFromCode resolves a one-letter share-token code.
func TypeFromCode(code string) (Type, bool) {
	for t, c := range typeCodes {
		if c == code {
			return t, true
		}
	}
	return "", false
}

// ParseType validates a leave type identifier.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", generic.ErrUnknownLeaveType, s)
	}
	return t, nil
}

// ByPriority returns a copy of types ordered by Priority, dropping duplicates
// and unknown types.
func ByPriority(types []Type) []Type {
	seen := make(map[Type]bool, len(types))
	out := make([]Type, 0, len(types))
	for _, p := range Priority {
		for _, t := range types {
			if t == p && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
