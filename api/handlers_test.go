/*
handlers_test.go - HTTP tests for the planner API

Tests for:
- Stateless compute, encode and decode
- Session lifecycle and period editing
- Manual days with a brush
- Custom holidays layered on the national calendar
- Reference data endpoints
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-planner/api"
	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/holidays"
	"github.com/warp/leave-planner/store/sqlite"
)

type testServer struct {
	handler *api.Handler
	router  *chi.Mux
}

func newTestServer(t *testing.T) *testServer {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, holidays.NewDefaultDutch(), finance.NewTaxTables())
	return &testServer{handler: h, router: api.NewRouter(h)}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func strPtr(s string) *string { return &s }

// one week of birth leave on the default Mon-Thu roster
func birthWeekPlan() map[string]any {
	return map[string]any{
		"birth_date":     "2026-03-02",
		"monthly_salary": "4000",
		"periods": []map[string]any{{
			"types":      []string{"geboorteverlof", "aanvullend"},
			"start":      "2026-03-02",
			"end":        "2026-03-06",
			"every_week": true,
		}},
	}
}

// =============================================================================
// STATELESS PLAN
// =============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestComputePlan(t *testing.T) {
	// GIVEN: one week of leave with Fridays off
	s := newTestServer(t)

	// WHEN: computing it
	rec := s.do(t, http.MethodPost, "/api/plan", birthWeekPlan())

	// THEN: the four working days are geboorteverlof with no income loss
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[api.PlanResponse](t, rec)

	assert.Len(t, resp.DayMap, 4)
	for key, typ := range resp.DayMap {
		assert.Equal(t, "geboorteverlof", typ, key)
	}
	assert.NotContains(t, resp.DayMap, "2026-03-06")
	assert.Empty(t, resp.Warnings)
	assert.Empty(t, resp.Overlaps)
	assert.NotEmpty(t, resp.Token)
	assert.Len(t, resp.Budgets, 5)

	assert.True(t, resp.Financial.TotalDifference.IsZero())
	require.NotNil(t, resp.Financial.Net)
	assert.Equal(t, 2026, resp.Financial.Net.TaxYear)
	assert.True(t, resp.Financial.Net.NetDifference.IsZero())

	// the echoed config carries the defaults that were filled in
	require.NotNil(t, resp.Config.AnnualBudget)
	assert.Equal(t, 20, *resp.Config.AnnualBudget)
	assert.Equal(t, "1", resp.Config.Periods[0].ID)
}

func TestComputePlan_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]func(map[string]any){
		"unknown type": func(p map[string]any) {
			p["periods"].([]map[string]any)[0]["types"] = []string{"sabbatical"}
		},
		"bad date": func(p map[string]any) {
			p["birth_date"] = "02-03-2026"
		},
		"bad week filter": func(p map[string]any) {
			p["periods"].([]map[string]any)[0]["week_filter"] = "sometimes"
		},
		"short roster": func(p map[string]any) {
			p["work_week"] = map[string]any{"even_week": []bool{true}, "odd_week": []bool{true}, "hours_per_week": 8}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			plan := birthWeekPlan()
			mutate(plan)
			rec := s.do(t, http.MethodPost, "/api/plan", plan)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decode[api.ErrorResponse](t, rec)
			assert.NotEmpty(t, errResp.Error)
			assert.NotEmpty(t, errResp.Details)
		})
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.handler.BaseURL = "https://verlof.example.nl/"

	// WHEN: a plan is encoded
	rec := s.do(t, http.MethodPost, "/api/plan/encode", birthWeekPlan())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	enc := decode[api.EncodeResponse](t, rec)
	assert.NotEmpty(t, enc.Token)
	assert.True(t, strings.HasPrefix(enc.URL, "https://verlof.example.nl/?s="))

	// AND: decoded with a salary
	rec = s.do(t, http.MethodPost, "/api/plan/decode", map[string]any{"token": enc.Token, "monthly_salary": 4000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[api.PlanResponse](t, rec)

	// THEN: the configuration comes back with a fresh period id
	assert.Equal(t, "2026-03-02", resp.Config.BirthDate)
	require.Len(t, resp.Config.Periods, 1)
	assert.Equal(t, "1", resp.Config.Periods[0].ID)
	assert.Equal(t, []string{"geboorteverlof", "aanvullend"}, resp.Config.Periods[0].Types)
	assert.Len(t, resp.DayMap, 4)
	assert.Equal(t, "4000", resp.Config.MonthlySalary.String())
}

func TestDecodePlan_InvalidToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/plan/decode", map[string]any{"token": "%%%"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "Invalid share token", errResp.Error)
	assert.True(t, strings.HasPrefix(errResp.Details, "token:"), errResp.Details)
}

// =============================================================================
// SESSIONS
// =============================================================================

func TestSession_Lifecycle(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: a new empty session
	rec := s.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.SessionDTO](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.Result.DayMap)
	base := "/api/sessions/" + created.ID

	// WHEN: the birth date is set
	rec = s.do(t, http.MethodPut, base+"/settings", map[string]any{
		"birth_date":     "2026-03-02",
		"monthly_salary": "4000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess := decode[api.SessionDTO](t, rec)

	// THEN: the default six-week period is seeded; Easter Monday is skipped
	require.Len(t, sess.Result.Config.Periods, 1)
	assert.Equal(t, "2026-04-12", sess.Result.Config.Periods[0].End)
	assert.Len(t, sess.Result.DayMap, 23)
	assert.NotContains(t, sess.Result.DayMap, "2026-04-06")

	// AND: periods can be added, edited and removed
	rec = s.do(t, http.MethodPost, base+"/periods", api.PeriodRequest{
		Types: []string{"betaaldOuderschapsverlof"},
		Start: strPtr("2026-06-01"),
		End:   strPtr("2026-06-30"),
		Days:  []bool{false, false, true, false, false},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess = decode[api.SessionDTO](t, rec)
	require.Len(t, sess.Result.Config.Periods, 2)
	assert.Equal(t, "2", sess.Result.Config.Periods[1].ID)
	assert.Equal(t, "betaaldOuderschapsverlof", sess.Result.DayMap["2026-06-03"])

	rec = s.do(t, http.MethodPut, base+"/periods/2", api.PeriodRequest{End: strPtr("2026-06-10")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess = decode[api.SessionDTO](t, rec)
	assert.Equal(t, "2026-06-10", sess.Result.Config.Periods[1].End)
	assert.NotContains(t, sess.Result.DayMap, "2026-06-17")

	rec = s.do(t, http.MethodDelete, base+"/periods/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, base+"/periods/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sess = decode[api.SessionDTO](t, rec)
	require.Len(t, sess.Result.Config.Periods, 1)
	assert.Equal(t, "2", sess.Result.Config.Periods[0].ID)

	// finally the session can be dropped
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, base, nil).Code)
}

func TestSession_FromToken(t *testing.T) {
	s := newTestServer(t)
	enc := decode[api.EncodeResponse](t, s.do(t, http.MethodPost, "/api/plan/encode", birthWeekPlan()))

	rec := s.do(t, http.MethodPost, "/api/sessions", api.CreateSessionRequest{Token: enc.Token})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decode[api.SessionDTO](t, rec)

	require.Len(t, sess.Result.Config.Periods, 1)
	assert.Len(t, sess.Result.DayMap, 4)

	// a restored session keeps its periods when the birth date changes
	rec = s.do(t, http.MethodPut, "/api/sessions/"+sess.ID+"/settings", map[string]any{"birth_date": "2026-03-03"})
	require.Equal(t, http.StatusOK, rec.Code)
	sess = decode[api.SessionDTO](t, rec)
	assert.Len(t, sess.Result.Config.Periods, 1)

	rec = s.do(t, http.MethodPost, "/api/sessions", api.CreateSessionRequest{Token: "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession_ManualDays(t *testing.T) {
	s := newTestServer(t)
	sess := decode[api.SessionDTO](t, s.do(t, http.MethodPost, "/api/sessions", nil))
	base := "/api/sessions/" + sess.ID
	s.do(t, http.MethodPut, base+"/settings", map[string]any{"birth_date": "2026-03-02"})

	// WHEN: a free day is painted with vakantiedagen
	rec := s.do(t, http.MethodPost, base+"/manual-days", api.ManualDayRequest{Date: "2026-08-04", Brush: strPtr("vakantiedagen")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess = decode[api.SessionDTO](t, rec)

	// THEN: it is allocated and the brush is remembered
	assert.Equal(t, "vakantiedagen", sess.Result.DayMap["2026-08-04"])
	assert.Equal(t, "vakantiedagen", sess.Brush)

	// AND: toggling again clears it
	sess = decode[api.SessionDTO](t, s.do(t, http.MethodPost, base+"/manual-days", api.ManualDayRequest{Date: "2026-08-04"}))
	assert.NotContains(t, sess.Result.DayMap, "2026-08-04")

	rec = s.do(t, http.MethodPost, base+"/manual-days", api.ManualDayRequest{Date: "2026-08-04", Brush: strPtr("bogus")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, base+"/manual-days", api.ManualDayRequest{Date: "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession_NotFound(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/sessions/not-a-uuid",
		"/api/sessions/00000000-0000-4000-8000-000000000000",
	} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func TestHolidays_CustomLayer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/holidays?year=2026", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.HolidayDTO](t, rec), 8)

	// GIVEN: a custom bridge day inside the planned week
	rec = s.do(t, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{Date: "2026-03-04", Name: "Brugdag"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.HolidayDTO](t, rec)
	assert.Equal(t, "custom", created.Source)

	list := decode[[]api.HolidayDTO](t, s.do(t, http.MethodGet, "/api/holidays?year=2026", nil))
	require.Len(t, list, 9)
	assert.Equal(t, "2026-01-01", list[0].Date)
	assert.Equal(t, "2026-03-04", list[1].Date)

	// THEN: the planner skips it
	resp := decode[api.PlanResponse](t, s.do(t, http.MethodPost, "/api/plan", birthWeekPlan()))
	assert.Len(t, resp.DayMap, 3)
	assert.NotContains(t, resp.DayMap, "2026-03-04")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/holidays/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/holidays/"+created.ID, nil).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/holidays?year=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{Date: "2026-03-04"}).Code)
}

func TestListLeaveTypes(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/leave-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	types := decode[[]api.LeaveTypeDTO](t, rec)
	require.Len(t, types, 5)
	assert.Equal(t, "geboorteverlof", types[0].ID)
	assert.Equal(t, 0, types[0].Priority)

	aanvullend := types[1]
	assert.Equal(t, "a", aanvullend.Code)
	require.NotNil(t, aanvullend.DayCap)
	assert.Equal(t, "290.67", aanvullend.DayCap.String())
	assert.Equal(t, 2, aanvullend.Priority)

	vakantie := types[4]
	assert.True(t, vakantie.Annual)
	assert.Nil(t, vakantie.MaxWeeks)
	assert.Nil(t, vakantie.DeadlineWeeks)
}

func TestListTaxYears(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/tax-years", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"years":[2026],"fallback":2026}`, rec.Body.String())
}
