package leave_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// REGISTRY
// =============================================================================

func TestRules_OneRulePerType(t *testing.T) {
	rules := leave.Rules()
	require.Len(t, rules, len(leave.Types))
	for i, r := range rules {
		assert.Equal(t, leave.Types[i], r.Type)
		assert.Equal(t, r, leave.RuleFor(r.Type))
	}
}

func TestRules_FullPay(t *testing.T) {
	assert.True(t, leave.RuleFor(leave.Geboorteverlof).IsFullPay())
	assert.True(t, leave.RuleFor(leave.Vakantiedagen).IsFullPay())
	assert.False(t, leave.RuleFor(leave.Aanvullend).IsFullPay())
	assert.False(t, leave.RuleFor(leave.OnbetaaldOuderschapsverlof).IsFullPay())

	dayCap := leave.RuleFor(leave.BetaaldOuderschapsverlof).DayCap
	require.True(t, dayCap.Valid)
	assert.Equal(t, "212.97", dayCap.Decimal.String())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 0, leave.Geboorteverlof.Rank())
	assert.Equal(t, 1, leave.Vakantiedagen.Rank())
	assert.Equal(t, 4, leave.OnbetaaldOuderschapsverlof.Rank())
	assert.Equal(t, 5, leave.Type("bogus").Rank())

	sorted := leave.ByPriority([]leave.Type{
		leave.OnbetaaldOuderschapsverlof, leave.Aanvullend, leave.Vakantiedagen, leave.Aanvullend, "bogus",
	})
	assert.Equal(t, []leave.Type{leave.Vakantiedagen, leave.Aanvullend, leave.OnbetaaldOuderschapsverlof}, sorted)
}

func TestTypeCodes(t *testing.T) {
	for _, lt := range leave.Types {
		back, ok := leave.TypeFromCode(lt.Code())
		require.True(t, ok, lt)
		assert.Equal(t, lt, back)
	}
	_, ok := leave.TypeFromCode("x")
	assert.False(t, ok)

	_, err := leave.ParseType("vakantie")
	assert.True(t, errors.Is(err, generic.ErrUnknownLeaveType))
}

// =============================================================================
// WORK WEEK
// =============================================================================

func TestWorkWeek_IsWorkingDay(t *testing.T) {
	pattern := alternating()

	assert.True(t, pattern.IsWorkingDay(date("2026-03-06"), nil), "Friday of even week 10")
	assert.False(t, pattern.IsWorkingDay(date("2026-03-13"), nil), "Friday of odd week 11")
	assert.False(t, pattern.IsWorkingDay(date("2026-03-07"), nil), "Saturday")

	holidays := generic.HolidayFunc(func(d generic.Date) (string, bool) {
		return "Koningsdag", d.Key() == "2026-04-27"
	})
	assert.False(t, pattern.IsWorkingDay(date("2026-04-27"), holidays))
	assert.True(t, pattern.IsWorkingDay(date("2026-04-28"), holidays))
}

func TestWorkWeek_Averages(t *testing.T) {
	assert.Equal(t, 4.0, monToThu().AverageDaysPerWeek())
	assert.Equal(t, 4.5, alternating().AverageDaysPerWeek())
	assert.Equal(t, 0.9, monToThu().WorkRatio())
	assert.False(t, monToThu().IsAlternating())
	assert.True(t, alternating().IsAlternating())
}

func TestWorkWeekFromSlices(t *testing.T) {
	p, err := leave.WorkWeekFromSlices(
		[]bool{true, true, false, true, true},
		[]bool{true, true, true, true, true}, 38)
	require.NoError(t, err)
	assert.Equal(t, [5]bool{true, true, false, true, true}, p.EvenWeek)
	assert.Equal(t, 38.0, p.HoursPerWeek)

	_, err = leave.WorkWeekFromSlices([]bool{true}, []bool{true, true, true, true, true}, 38)
	assert.True(t, errors.Is(err, generic.ErrInvalidWorkWeek))
}
