/*
scenarios.go - Demo scenarios for testing and demonstrations

PURPOSE:

	Provides pre-built planner configurations that show specific behaviour
	of the allocator and the projectors. Loading a scenario creates a new
	session; nothing is written to the database.

AVAILABLE SCENARIOS:

	standard-birth-leave:   default six-week period, Mon-Thu roster
	alternating-roster:     two-week roster with Fridays off in odd weeks,
	                        paid parental leave on alternate Wednesdays
	annual-budget-overflow: a long stretch of vakantiedagen that runs out,
	                        then resets on 1 January

HOW SCENARIOS WORK:
 1. Build a planner.Session with the scenario settings
 2. Add the scenario periods in declaration order
 3. Register the session and return it like POST /api/sessions

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "alternating-roster"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description and a build func

SEE ALSO:
  - handlers.go: session handlers
  - planner/session.go: the session being populated
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/planner"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	build func(s *planner.Session)
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "standard-birth-leave",
			Name:        "Standaard geboorteverlof",
			Description: "Birth on 2 March 2026, Mon-Thu roster, the default six-week period",
			Category:    "geboorte",
		},
		build: loadStandardScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "alternating-roster",
			Name:        "Wisselend rooster",
			Description: "Fridays off in odd weeks only, paid parental leave every other Wednesday",
			Category:    "ouderschapsverlof",
		},
		build: loadAlternatingScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "annual-budget-overflow",
			Name:        "Vakantiedagen op",
			Description: "Ten vakantiedagen per year spent over New Year, falling back to unpaid leave",
			Category:    "vakantiedagen",
		},
		build: loadOverflowScenario,
	},
}

func findScenario(id string) (scenario, bool) {
	for _, sc := range scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, 0, len(scenarios))
	for _, sc := range scenarios {
		dtos = append(dtos, sc.ScenarioDTO)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario creates a session from a scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	sc, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	s := planner.NewSession(planner.WithEnv(h.env()))
	sc.build(s)
	id := h.Sessions.Add(s)

	h.Log.WithField("scenario", sc.ID).WithField("session", id).Info("scenario loaded")
	h.writeSession(w, r, http.StatusCreated, id, s)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadStandardScenario(s *planner.Session) {
	s.SetMonthlySalary(decimal.NewFromInt(4_000))
	s.SetBirthDate(generic.MustParseDate("2026-03-02"))
}

func loadAlternatingScenario(s *planner.Session) {
	even := [5]bool{true, true, true, true, true}
	odd := [5]bool{true, true, true, true, false}
	s.SetWorkWeek(leave.WorkWeekPattern{EvenWeek: even, OddWeek: odd, HoursPerWeek: 36})
	s.SetMonthlySalary(decimal.NewFromInt(5_200))
	s.SetBirthDate(generic.MustParseDate("2026-05-04"))

	s.AddPeriod(leave.Period{
		Types:      []leave.Type{leave.BetaaldOuderschapsverlof},
		Start:      generic.MustParseDate("2026-07-01"),
		End:        generic.MustParseDate("2026-12-31"),
		Days:       [5]bool{false, false, true, false, false},
		WeekFilter: leave.WeekFilterEven,
	})
}

func loadOverflowScenario(s *planner.Session) {
	s.SetMonthlySalary(decimal.NewFromInt(3_600))
	s.SetAnnualBudget(10)
	s.SetBirthDate(generic.MustParseDate("2026-09-07"))

	s.AddPeriod(leave.Period{
		Types:     []leave.Type{leave.Vakantiedagen, leave.OnbetaaldOuderschapsverlof},
		Start:     generic.MustParseDate("2026-11-30"),
		End:       generic.MustParseDate("2027-01-29"),
		Days:      leave.AllWeekdays,
		EveryWeek: true,
	})
}
