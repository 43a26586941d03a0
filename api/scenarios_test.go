package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-planner/api"
)

func TestListScenarios(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]api.ScenarioDTO](t, rec)
	require.Len(t, list, 3)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"standard-birth-leave", "alternating-roster", "annual-budget-overflow"}, ids)
}

func loadScenario(t *testing.T, s *testServer, id string) api.SessionDTO {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.SessionDTO](t, rec)
}

func TestLoadScenario_Standard(t *testing.T) {
	s := newTestServer(t)
	sess := loadScenario(t, s, "standard-birth-leave")

	// 6 weeks x Mon-Thu minus Easter Monday
	assert.Len(t, sess.Result.DayMap, 23)
	assert.Empty(t, sess.Result.Warnings)
	assert.True(t, sess.Result.Financial.TotalDifference.IsNegative())

	// the loaded session is a normal session
	rec := s.do(t, http.MethodGet, "/api/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoadScenario_AlternatingRoster(t *testing.T) {
	s := newTestServer(t)
	sess := loadScenario(t, s, "alternating-roster")

	require.Len(t, sess.Result.Config.Periods, 2)
	assert.Equal(t, "even", sess.Result.Config.Periods[1].WeekFilter)

	parental := 0
	for _, typ := range sess.Result.DayMap {
		if typ == "betaaldOuderschapsverlof" {
			parental++
		}
	}
	// Wednesdays of even ISO weeks 28 to 52
	assert.Equal(t, 13, parental)
}

func TestLoadScenario_AnnualBudgetOverflow(t *testing.T) {
	// GIVEN: ten vakantiedagen per year and leave from 30 Nov 2026 to 29 Jan 2027
	s := newTestServer(t)

	// WHEN: the scenario is loaded
	sess := loadScenario(t, s, "annual-budget-overflow")

	// THEN: both years spend their full vakantiedagen budget
	perYear := map[int]api.BudgetDTO{}
	for _, b := range sess.Result.Budgets {
		if b.Type == "vakantiedagen" {
			perYear[b.Year] = b
		}
	}
	require.Contains(t, perYear, 2026)
	require.Contains(t, perYear, 2027)
	assert.Equal(t, 10, perYear[2026].Used)
	assert.Equal(t, 10, perYear[2027].Used)
	assert.Equal(t, 0, perYear[2027].Remaining)

	// AND: the rest of the stretch falls back to unpaid leave
	assert.Equal(t, "vakantiedagen", sess.Result.DayMap["2026-12-15"])
	assert.Equal(t, "onbetaaldOuderschapsverlof", sess.Result.DayMap["2026-12-16"])
	assert.Equal(t, "vakantiedagen", sess.Result.DayMap["2027-01-04"])
	assert.Empty(t, sess.Result.Warnings)
}

func TestLoadScenario_Unknown(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
