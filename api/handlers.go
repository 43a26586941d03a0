/*
handlers.go - HTTP API handlers for the leave planner

PURPOSE:
  Exposes the planner via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the planner packages.

ENDPOINTS:
  Stateless:
    POST   /api/plan                      Compute a full configuration
    POST   /api/plan/decode               Share token -> configuration + result
    POST   /api/plan/encode               Configuration -> share token

  Sessions:
    POST   /api/sessions                  Create (optionally from a token)
    GET    /api/sessions/{id}             Current state and result
    DELETE /api/sessions/{id}             Drop a session
    PUT    /api/sessions/{id}/settings    Birth date, roster, salary, budget, tax year
    POST   /api/sessions/{id}/periods     Add a period
    PUT    /api/sessions/{id}/periods/{pid}    Edit a period
    DELETE /api/sessions/{id}/periods/{pid}    Remove a period
    POST   /api/sessions/{id}/manual-days Toggle a manual day

  Reference data:
    GET    /api/leave-types               Leave type registry
    GET    /api/holidays?year=            National + custom holidays
    POST   /api/holidays                  Add a custom holiday
    DELETE /api/holidays/{id}             Remove a custom holiday
    GET    /api/tax-years                 Years with their own tax table

  Scenarios:
    GET    /api/scenarios                 List demo scenarios
    POST   /api/scenarios/load            Create a session from a scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: custom holidays and saved tax years
  - Dutch: the national holiday calendar
  - TaxTables: tax years known to the net projector
  - Sessions: in-memory planner sessions

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, invalid share token
  - 404: Session or period not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication. Sessions are only reachable by their random id.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenarios
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/holidays"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/planner"
	"github.com/warp/leave-planner/store/sqlite"
	"github.com/warp/leave-planner/urlstate"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

var errNoStore = errors.New("no holiday store configured")

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Dutch     *holidays.Dutch
	TaxTables *finance.TaxTables
	Sessions  *SessionRegistry

	// BaseURL, when set, is used to build share links.
	BaseURL string
	Log     logrus.FieldLogger

	calendar generic.HolidayCalendar
}

// NewHandler creates a handler. Custom holidays from store are layered on
// top of the national calendar.
func NewHandler(store *sqlite.Store, dutch *holidays.Dutch, tables *finance.TaxTables) *Handler {
	if dutch == nil {
		dutch = holidays.NewDefaultDutch()
	}
	if tables == nil {
		tables = finance.NewTaxTables()
	}
	calendar := generic.LayeredCalendar{dutch}
	if store != nil {
		calendar = append(calendar, store)
	}
	return &Handler{
		Store:     store,
		Dutch:     dutch,
		TaxTables: tables,
		Sessions:  NewSessionRegistry(),
		Log:       logrus.StandardLogger(),
		calendar:  calendar,
	}
}

func (h *Handler) env() planner.Env {
	return planner.Env{Holidays: h.calendar, TaxTables: h.TaxTables}
}

// =============================================================================
// STATELESS PLAN HANDLERS
// =============================================================================

// ComputePlan computes a configuration sent in full.
// POST /api/plan
func (h *Handler) ComputePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	plan, err := req.toPlan()
	if err != nil {
		h.fail(w, r, "Invalid plan", err)
		return
	}

	resp, err := h.planResponse(plan)
	if err != nil {
		h.fail(w, r, "Failed to compute plan", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DecodePlan restores a configuration from a share token and computes it.
// POST /api/plan/decode
func (h *Handler) DecodePlan(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	state, err := urlstate.Decode(req.Token)
	if err != nil {
		h.fail(w, r, "Invalid share token", err)
		return
	}

	plan := planFromState(state)
	if req.MonthlySalary != nil {
		plan.Input.MonthlySalary = *req.MonthlySalary
	}
	plan.TaxYear = req.TaxYear

	resp, err := h.planResponse(plan)
	if err != nil {
		h.fail(w, r, "Failed to compute plan", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// EncodePlan turns a configuration into a share token.
// POST /api/plan/encode
func (h *Handler) EncodePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	plan, err := req.toPlan()
	if err != nil {
		h.fail(w, r, "Invalid plan", err)
		return
	}

	resp, err := h.encode(plan)
	if err != nil {
		h.fail(w, r, "Failed to encode plan", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// CreateSession starts a session, restored from a token when one is given.
// POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	var s *planner.Session
	if req.Token != "" {
		state, err := urlstate.Decode(req.Token)
		if err != nil {
			h.fail(w, r, "Invalid share token", err)
			return
		}
		s = planner.Restore(state, planner.WithEnv(h.env()))
	} else {
		s = planner.NewSession(planner.WithEnv(h.env()))
	}

	id := h.Sessions.Add(s)
	h.Log.WithField("session", id).Debug("planner session created")
	h.writeSession(w, r, http.StatusCreated, id, s)
}

// GetSession returns a session with its current result.
// GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeSession(w, r, http.StatusOK, id, s)
}

// DeleteSession drops a session.
// DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.Sessions.Delete(id) {
		h.fail(w, r, "Session not found", fmt.Errorf("%w: %s", generic.ErrSessionNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings changes the session settings.
// PUT /api/sessions/{id}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	// validate everything before touching the session
	var birth generic.Date
	if req.BirthDate != nil {
		d, err := parseOptionalDate(*req.BirthDate)
		if err != nil {
			h.fail(w, r, "Invalid birth date", err)
			return
		}
		birth = d
	}
	var pattern leave.WorkWeekPattern
	if req.WorkWeek != nil {
		p, err := req.WorkWeek.toPattern()
		if err != nil {
			h.fail(w, r, "Invalid work week", err)
			return
		}
		pattern = p
	}

	if req.BirthDate != nil {
		s.SetBirthDate(birth)
	}
	if req.WorkWeek != nil {
		s.SetWorkWeek(pattern)
	}
	if req.MonthlySalary != nil {
		s.SetMonthlySalary(*req.MonthlySalary)
	}
	if req.AnnualBudget != nil {
		s.SetAnnualBudget(*req.AnnualBudget)
	}
	if req.TaxYear != nil {
		s.SetTaxYear(*req.TaxYear)
	}

	h.writeSession(w, r, http.StatusOK, id, s)
}

// AddPeriod appends a leave period.
// POST /api/sessions/{id}/periods
func (h *Handler) AddPeriod(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PeriodRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	p, err := req.toPeriod()
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}

	s.AddPeriod(p)
	h.writeSession(w, r, http.StatusCreated, id, s)
}

// UpdatePeriod edits a leave period in place.
// PUT /api/sessions/{id}/periods/{pid}
func (h *Handler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PeriodRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}

	if _, err := s.UpdatePeriod(chi.URLParam(r, "pid"), update); err != nil {
		h.fail(w, r, "Failed to update period", err)
		return
	}
	h.writeSession(w, r, http.StatusOK, id, s)
}

// DeletePeriod removes a leave period.
// DELETE /api/sessions/{id}/periods/{pid}
func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.RemovePeriod(chi.URLParam(r, "pid")); err != nil {
		h.fail(w, r, "Failed to remove period", err)
		return
	}
	h.writeSession(w, r, http.StatusOK, id, s)
}

// ToggleManualDay paints or clears a single day.
// POST /api/sessions/{id}/manual-days
func (h *Handler) ToggleManualDay(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ManualDayRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	if req.Brush != nil {
		if err := s.SelectBrush(leave.Type(*req.Brush)); err != nil {
			h.fail(w, r, "Invalid brush", err)
			return
		}
	}

	s.ToggleManualDay(date)
	h.writeSession(w, r, http.StatusOK, id, s)
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListLeaveTypes returns the leave type registry.
// GET /api/leave-types
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	rules := leave.Rules()
	dtos := make([]LeaveTypeDTO, 0, len(rules))
	for _, rule := range rules {
		dtos = append(dtos, leaveTypeDTO(rule))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListHolidays returns national and custom holidays of a year.
// GET /api/holidays?year=2026
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := generic.Today().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, "Invalid year", fmt.Errorf("%w: year %q", generic.ErrInvalidInput, raw))
			return
		}
		year = y
	}

	dtos := []HolidayDTO{}
	for _, hd := range h.Dutch.Holidays(year) {
		dtos = append(dtos, HolidayDTO{ID: hd.ID, Date: hd.Date.Key(), Name: hd.Name, Source: "national"})
	}

	if h.Store != nil {
		custom, err := h.Store.HolidaysInYear(r.Context(), year)
		if err != nil {
			h.fail(w, r, "Failed to list holidays", err)
			return
		}
		for _, hd := range custom {
			dtos = append(dtos, HolidayDTO{ID: hd.ID, Date: hd.Date.Key(), Name: hd.Name, Source: "custom"})
		}
	}

	sort.SliceStable(dtos, func(i, j int) bool { return dtos[i].Date < dtos[j].Date })
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday stores a custom holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.fail(w, r, "Invalid holiday", fmt.Errorf("%w: name is required", generic.ErrInvalidInput))
		return
	}

	if h.Store == nil {
		h.fail(w, r, "Failed to save holiday", errNoStore)
		return
	}
	rec, err := h.Store.SaveHoliday(r.Context(), sqlite.HolidayRecord{Date: date, Name: name, Recurring: req.Recurring})
	if err != nil {
		h.fail(w, r, "Failed to save holiday", err)
		return
	}

	h.Log.WithFields(logrus.Fields{"date": rec.Date.Key(), "name": rec.Name}).Info("custom holiday saved")
	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:        rec.ID,
		Date:      rec.Date.Key(),
		Name:      rec.Name,
		Source:    "custom",
		Recurring: rec.Recurring,
	})
}

// DeleteHoliday removes a custom holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		h.fail(w, r, "Failed to delete holiday", errNoStore)
		return
	}
	id := chi.URLParam(r, "id")
	removed, err := h.Store.DeleteHoliday(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to delete holiday", err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTaxYears returns the years that have their own tax table.
// GET /api/tax-years
func (h *Handler) ListTaxYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"years":    h.TaxTables.Years(),
		"fallback": finance.ReferenceTaxYear,
	})
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.Sessions.Len(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// session resolves the {id} URL parameter, writing a 404 when unknown.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *planner.Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.Sessions.Get(id)
	if err != nil {
		h.fail(w, r, "Session not found", err)
		return "", nil, false
	}
	return id, s, true
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, status int, id string, s *planner.Session) {
	resp, err := h.planResponse(s.Plan())
	if err != nil {
		h.fail(w, r, "Failed to compute plan", err)
		return
	}
	writeJSON(w, status, SessionDTO{ID: id, Brush: string(s.Brush()), Result: resp})
}

func (h *Handler) planResponse(plan planner.Plan) (PlanResponse, error) {
	token, err := urlstate.Encode(stateFromPlan(plan))
	if err != nil {
		return PlanResponse{}, err
	}
	return planResponse(plan, planner.Compute(plan, h.env()), token), nil
}

func (h *Handler) encode(plan planner.Plan) (EncodeResponse, error) {
	state := stateFromPlan(plan)
	token, err := urlstate.Encode(state)
	if err != nil {
		return EncodeResponse{}, err
	}
	resp := EncodeResponse{Token: token}
	if h.BaseURL != "" {
		if resp.URL, err = urlstate.ShareURL(h.BaseURL, state); err != nil {
			return EncodeResponse{}, err
		}
	}
	return resp, nil
}

func stateFromPlan(p planner.Plan) urlstate.State {
	return urlstate.State{
		BirthDate:    p.Input.BirthDate,
		WorkWeek:     p.Input.WorkWeek,
		AnnualBudget: p.Input.AnnualBudget,
		Periods:      p.Input.Periods,
		ManualDays:   p.ManualDays,
	}
}

func planFromState(s urlstate.State) planner.Plan {
	return planner.Plan{
		Input: leave.Input{
			BirthDate:    s.BirthDate,
			WorkWeek:     s.WorkWeek,
			Periods:      s.Periods,
			AnnualBudget: s.AnnualBudget,
		},
		ManualDays: s.ManualDays,
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", generic.ErrInvalidInput, err)
	}
	return nil
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status its class maps to. Server errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error(message)
	}

	var decodeErr *generic.DecodeError
	if errors.As(err, &decodeErr) {
		err = fmt.Errorf("%s: %v", decodeErr.Field, decodeErr.Cause())
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
