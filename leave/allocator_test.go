package leave_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) generic.Date {
	return generic.MustParseDate(s)
}

func period(id string, from, to string, types ...leave.Type) leave.Period {
	return leave.Period{
		ID:        id,
		Types:     types,
		Start:     date(from),
		End:       date(to),
		Days:      leave.AllWeekdays,
		EveryWeek: true,
	}
}

// monToThu is the default roster: Friday off in every week.
func monToThu() leave.WorkWeekPattern {
	return leave.DefaultWorkWeek()
}

// alternating works Mon-Fri in even weeks and Mon-Thu in odd weeks (4.5 days on average).
func alternating() leave.WorkWeekPattern {
	return leave.WorkWeekPattern{
		EvenWeek:     [5]bool{true, true, true, true, true},
		OddWeek:      [5]bool{true, true, true, true, false},
		HoursPerWeek: 36,
	}
}

func budgetFor(t *testing.T, budgets []leave.Budget, lt leave.Type, year int) leave.Budget {
	t.Helper()
	for _, b := range budgets {
		if b.Type == lt && b.Year == year {
			return b
		}
	}
	t.Fatalf("no budget for %s/%d", lt, year)
	return leave.Budget{}
}

// =============================================================================
// ALLOCATION SCENARIOS
// =============================================================================

func TestGenerateDayMap_SkipsNonWorkingFriday(t *testing.T) {
	// GIVEN: an alternating roster (avg 4.5 days, so geboorteverlof = 5 days)
	//        and one geboorteverlof period covering Mon..Fri of odd ISO week 11
	// WHEN: the day map is generated
	// THEN: Friday is skipped, Mon..Thu are geboorteverlof, one day remains

	p := period("1", "2026-03-09", "2026-03-13", leave.Geboorteverlof)
	dayMap, overlaps := leave.GenerateDayMap([]leave.Period{p}, alternating(), 20, nil)

	assert.Len(t, dayMap, 4)
	for _, key := range []string{"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12"} {
		assert.Equal(t, leave.Geboorteverlof, dayMap[key], key)
	}
	assert.NotContains(t, dayMap, "2026-03-13")
	assert.Empty(t, overlaps)

	b := budgetFor(t, leave.CalculateBudgets(dayMap, alternating(), 20), leave.Geboorteverlof, 0)
	assert.Equal(t, 4, b.Used)
	assert.Equal(t, 5, b.Max)
	assert.Equal(t, 1, b.Remaining())
}

func TestGenerateDayMap_AnnualBudgetExhausted(t *testing.T) {
	// GIVEN: 2 vakantiedagen per year and a vakantiedagen period over 3 working days
	// WHEN: the day map is generated
	// THEN: the first two days are assigned, the third is left open

	p := period("1", "2026-03-02", "2026-03-04", leave.Vakantiedagen)
	dayMap, _ := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 2, nil)

	assert.Equal(t, leave.DayMap{
		"2026-03-02": leave.Vakantiedagen,
		"2026-03-03": leave.Vakantiedagen,
	}, dayMap)

	budgets := leave.CalculateBudgets(dayMap, monToThu(), 2)
	b := budgetFor(t, budgets, leave.Vakantiedagen, 2026)
	assert.Equal(t, 2, b.Used)
	assert.Equal(t, 2, b.Max)
	assert.False(t, b.Overflows())

	input := leave.Input{BirthDate: date("2026-03-01"), WorkWeek: monToThu(), AnnualBudget: 2}
	assert.Empty(t, leave.Validate(input, dayMap, leave.OverlapSet{}, budgets))
}

func TestGenerateDayMap_LaterPeriodWinsOverlap(t *testing.T) {
	// GIVEN: an aanvullend week and a later betaald ouderschapsverlof Wednesday
	// WHEN: the day map is generated
	// THEN: Wednesday is an overlap and carries the later period's type

	periods := []leave.Period{
		period("1", "2026-03-02", "2026-03-06", leave.Aanvullend),
		period("2", "2026-03-04", "2026-03-04", leave.BetaaldOuderschapsverlof),
	}
	dayMap, overlaps := leave.GenerateDayMap(periods, monToThu(), 20, nil)

	assert.Equal(t, leave.BetaaldOuderschapsverlof, dayMap["2026-03-04"])
	assert.Equal(t, leave.Aanvullend, dayMap["2026-03-03"])
	assert.Equal(t, []string{"2026-03-04"}, overlaps.Keys())
}

func TestGenerateDayMap_UnfundedLastPeriodClearsDay(t *testing.T) {
	// GIVEN: an aanvullend Wednesday, then a vakantiedagen Wednesday with no annual budget
	// WHEN: the day map is generated
	// THEN: the date reverts to unassigned but is still reported as overlapping

	periods := []leave.Period{
		period("1", "2026-03-04", "2026-03-04", leave.Aanvullend),
		period("2", "2026-03-04", "2026-03-04", leave.Vakantiedagen),
	}
	dayMap, overlaps := leave.GenerateDayMap(periods, monToThu(), 0, nil)

	assert.Empty(t, dayMap)
	assert.True(t, overlaps.Has("2026-03-04"))
}

func TestGenerateDayMap_CascadesInPriorityOrder(t *testing.T) {
	// GIVEN: a period declared as [onbetaald, vakantiedagen] with 3 vakantiedagen
	// WHEN: the day map is generated
	// THEN: vakantiedagen (higher priority) are spent first, then onbetaald

	p := period("1", "2026-03-02", "2026-03-12", leave.OnbetaaldOuderschapsverlof, leave.Vakantiedagen)
	dayMap, _ := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 3, nil)

	assert.Len(t, dayMap, 8)
	for _, key := range []string{"2026-03-02", "2026-03-03", "2026-03-04"} {
		assert.Equal(t, leave.Vakantiedagen, dayMap[key], key)
	}
	for _, key := range []string{"2026-03-05", "2026-03-09", "2026-03-12"} {
		assert.Equal(t, leave.OnbetaaldOuderschapsverlof, dayMap[key], key)
	}
}

func TestGenerateDayMap_AnnualBudgetResetsPerYear(t *testing.T) {
	// GIVEN: 1 vakantiedag per year and a period spanning new year
	// WHEN: the day map is generated
	// THEN: one day is funded in each calendar year

	p := period("1", "2026-12-28", "2027-01-08", leave.Vakantiedagen)
	dayMap, _ := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 1, nil)

	assert.Equal(t, leave.DayMap{
		"2026-12-28": leave.Vakantiedagen,
		"2027-01-04": leave.Vakantiedagen,
	}, dayMap)

	budgets := leave.CalculateBudgets(dayMap, monToThu(), 1)
	assert.Equal(t, 1, budgetFor(t, budgets, leave.Vakantiedagen, 2026).Used)
	assert.Equal(t, 1, budgetFor(t, budgets, leave.Vakantiedagen, 2027).Used)
}

func TestGenerateDayMap_WeekFilter(t *testing.T) {
	// GIVEN: a two-week period restricted to even ISO weeks (week 10 even, week 11 odd)
	// WHEN: the day map is generated
	// THEN: only the working days of week 10 are assigned

	p := period("1", "2026-03-02", "2026-03-13", leave.OnbetaaldOuderschapsverlof)
	p.EveryWeek = false
	p.WeekFilter = leave.WeekFilterEven

	dayMap, _ := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 20, nil)
	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05"}, dayMap.Keys())
}

func TestGenerateDayMap_DaySelector(t *testing.T) {
	p := period("1", "2026-03-02", "2026-03-13", leave.BetaaldOuderschapsverlof)
	p.Days = [5]bool{true, false, false, false, false}

	dayMap, _ := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 20, nil)
	assert.Equal(t, []string{"2026-03-02", "2026-03-09"}, dayMap.Keys())
}

func TestGenerateDayMap_SkipsHolidays(t *testing.T) {
	holidays := generic.HolidayFunc(func(d generic.Date) (string, bool) {
		return "Testdag", d.Key() == "2026-03-03"
	})
	p := period("1", "2026-03-02", "2026-03-05", leave.Aanvullend)

	dayMap, _ := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 20, holidays)
	assert.Equal(t, []string{"2026-03-02", "2026-03-04", "2026-03-05"}, dayMap.Keys())
}

func TestGenerateDayMap_DegeneratePeriods(t *testing.T) {
	periods := []leave.Period{
		period("1", "2026-03-06", "2026-03-02", leave.Aanvullend), // inverted
		period("2", "2026-03-02", "2026-03-06"),                   // no types
		{ID: "3", Types: []leave.Type{leave.Aanvullend}, Days: leave.AllWeekdays, EveryWeek: true},
	}

	dayMap, overlaps := leave.GenerateDayMap(periods, monToThu(), 20, nil)
	assert.Empty(t, dayMap)
	assert.Empty(t, overlaps)
}

func TestGenerateDayMap_SinglePeriodWithTwoTypesIsNoOverlap(t *testing.T) {
	p := period("1", "2026-03-02", "2026-03-05", leave.Geboorteverlof, leave.Aanvullend)
	_, overlaps := leave.GenerateDayMap([]leave.Period{p}, monToThu(), 20, nil)
	assert.Empty(t, overlaps)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func randomPeriods(r *rand.Rand, n int) []leave.Period {
	base := date("2026-01-05")
	periods := make([]leave.Period, 0, n)
	for i := 0; i < n; i++ {
		start := base.AddDays(r.Intn(400))
		p := leave.Period{
			ID:        string(rune('a' + i)),
			Start:     start,
			End:       start.AddDays(r.Intn(60) - 5),
			EveryWeek: r.Intn(3) > 0,
		}
		for d := range p.Days {
			p.Days[d] = r.Intn(4) > 0
		}
		if !p.EveryWeek {
			p.WeekFilter = []leave.WeekFilter{leave.WeekFilterNone, leave.WeekFilterEven, leave.WeekFilterOdd}[r.Intn(3)]
		}
		for _, t := range leave.Types {
			if r.Intn(2) == 0 {
				p.Types = append(p.Types, t)
			}
		}
		periods = append(periods, p)
	}
	return periods
}

func TestGenerateDayMap_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	holidays := generic.HolidayFunc(func(d generic.Date) (string, bool) {
		return "Kerst", d.Month() == time.December && d.Day() == 25
	})

	for run := 0; run < 200; run++ {
		periods := randomPeriods(r, 1+r.Intn(5))
		pattern := leave.WorkWeekPattern{HoursPerWeek: 32}
		for d := 0; d < 5; d++ {
			pattern.EvenWeek[d] = r.Intn(3) > 0
			pattern.OddWeek[d] = r.Intn(3) > 0
		}
		annual := r.Intn(25)

		dayMap, overlaps := leave.GenerateDayMap(periods, pattern, annual, holidays)

		// Idempotence
		again, againOverlaps := leave.GenerateDayMap(periods, pattern, annual, holidays)
		require.Equal(t, dayMap, again, "run %d", run)
		require.Equal(t, overlaps, againOverlaps, "run %d", run)

		// Only working days, and only types a covering period declared
		for key, lt := range dayMap {
			d := date(key)
			require.True(t, pattern.IsWorkingDay(d, holidays), "run %d: %s is not a working day", run, key)
			declared := false
			for _, p := range periods {
				if p.Range().Contains(d) && p.HasType(lt) {
					declared = true
				}
			}
			require.True(t, declared, "run %d: %s assigned undeclared %s", run, key, lt)
		}

		// The allocator never overspends
		for _, b := range leave.CalculateBudgets(dayMap, pattern, annual) {
			require.False(t, b.Overflows(), "run %d: %s %d used %d > max %d", run, b.Type, b.Year, b.Used, b.Max)
		}

		// Overlaps are always dates covered by at least two periods
		for key := range overlaps {
			covering := 0
			for _, p := range periods {
				if p.Range().Contains(date(key)) {
					covering++
				}
			}
			require.GreaterOrEqual(t, covering, 2, "run %d: %s", run, key)
		}
	}
}

// =============================================================================
// MANUAL DAYS
// =============================================================================

func TestMergeManual_OnlyFillsUnassignedDates(t *testing.T) {
	dayMap := leave.DayMap{"2026-03-02": leave.Aanvullend}
	manual := map[string]leave.Type{
		"2026-03-02": leave.Vakantiedagen,
		"2026-03-03": leave.Vakantiedagen,
		"2026-03-04": leave.Type("bogus"),
	}

	merged := leave.MergeManual(dayMap, manual)

	assert.Equal(t, leave.DayMap{
		"2026-03-02": leave.Aanvullend,
		"2026-03-03": leave.Vakantiedagen,
	}, merged)
	assert.Len(t, dayMap, 1, "input map must not be mutated")
}
