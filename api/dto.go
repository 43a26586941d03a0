/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the planner types from the external API contract: leave types travel as
  their identifiers, dates as "2006-01-02" strings, money as decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Plan:
    PlanRequest, PlanResponse, TokenRequest, EncodeResponse

  Session:
    SessionDTO, PeriodRequest, SettingsRequest, ManualDayRequest

  Reference data:
    LeaveTypeDTO, HolidayDTO, CreateHolidayRequest, ScenarioDTO

VALIDATION:
  Conversion to planner types happens here and fails with errors wrapping
  generic.ErrInvalidInput, generic.ErrInvalidDate, generic.ErrInvalidWorkWeek
  or generic.ErrUnknownLeaveType. Handlers map those to 400.

SEE ALSO:
  - handlers.go: Uses these types
  - urlstate/codec.go: the compact form of the same configuration
*/
package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/planner"
)

// =============================================================================
// CONFIGURATION TYPES
// =============================================================================

// WorkWeekDTO is a two-week roster, Monday first.
type WorkWeekDTO struct {
	EvenWeek     []bool  `json:"even_week"`
	OddWeek      []bool  `json:"odd_week"`
	HoursPerWeek float64 `json:"hours_per_week"`
}

// PeriodDTO is a leave period. Days defaults to all weekdays.
type PeriodDTO struct {
	ID         string   `json:"id,omitempty"`
	Types      []string `json:"types"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Days       []bool   `json:"days,omitempty"`
	EveryWeek  bool     `json:"every_week"`
	WeekFilter string   `json:"week_filter,omitempty"`
}

// PlanRequest is a complete planner configuration.
type PlanRequest struct {
	BirthDate     string            `json:"birth_date"`
	WorkWeek      *WorkWeekDTO      `json:"work_week,omitempty"`
	MonthlySalary decimal.Decimal   `json:"monthly_salary"`
	AnnualBudget  *int              `json:"annual_budget,omitempty"`
	TaxYear       int               `json:"tax_year,omitempty"`
	Periods       []PeriodDTO       `json:"periods"`
	ManualDays    map[string]string `json:"manual_days,omitempty"`
}

// TokenRequest carries a share token plus the values a token does not hold.
type TokenRequest struct {
	Token         string           `json:"token"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`
	TaxYear       int              `json:"tax_year,omitempty"`
}

// EncodeResponse is a share token and, when a base URL is configured, a link.
type EncodeResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// BudgetDTO is one leave budget line.
type BudgetDTO struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	Used      int    `json:"used"`
	Max       int    `json:"max"`
	Remaining int    `json:"remaining"`
	Unlimited bool   `json:"unlimited,omitempty"`
	Year      int    `json:"year,omitempty"`
}

// IncomeRowDTO is the gross and net view of one leave type.
type IncomeRowDTO struct {
	Type          string           `json:"type"`
	Label         string           `json:"label"`
	PaidBy        string           `json:"paid_by"`
	Days          int              `json:"days"`
	DailyIncome   decimal.Decimal  `json:"daily_income"`
	TotalIncome   decimal.Decimal  `json:"total_income"`
	NormalIncome  decimal.Decimal  `json:"normal_income"`
	Difference    decimal.Decimal  `json:"difference"`
	NetDifference *decimal.Decimal `json:"net_difference,omitempty"`
}

// MonthDTO is the gross and net view of one month.
type MonthDTO struct {
	Month         string           `json:"month"`
	Year          int              `json:"year"`
	WorkingDays   int              `json:"working_days"`
	LeaveDays     int              `json:"leave_days"`
	NormalIncome  decimal.Decimal  `json:"normal_income"`
	ActualIncome  decimal.Decimal  `json:"actual_income"`
	Difference    decimal.Decimal  `json:"difference"`
	NetNormal     *decimal.Decimal `json:"net_normal,omitempty"`
	NetActual     *decimal.Decimal `json:"net_actual,omitempty"`
	NetDifference *decimal.Decimal `json:"net_difference,omitempty"`
}

// NetTotalsDTO summarises the net projection.
type NetTotalsDTO struct {
	TaxYear       int             `json:"tax_year"`
	TableYear     int             `json:"table_year"`
	NetNormal     decimal.Decimal `json:"net_normal"`
	NetActual     decimal.Decimal `json:"net_actual"`
	NetDifference decimal.Decimal `json:"net_difference"`
}

// FinancialDTO is the income projection.
type FinancialDTO struct {
	PerType         []IncomeRowDTO  `json:"per_type"`
	Monthly         []MonthDTO      `json:"monthly"`
	TotalNormal     decimal.Decimal `json:"total_normal"`
	TotalActual     decimal.Decimal `json:"total_actual"`
	TotalDifference decimal.Decimal `json:"total_difference"`
	Net             *NetTotalsDTO   `json:"net,omitempty"`
}

// PlanResponse is a configuration with everything derived from it.
type PlanResponse struct {
	Config    PlanRequest       `json:"config"`
	Token     string            `json:"token"`
	DayMap    map[string]string `json:"day_map"`
	Overlaps  []string          `json:"overlaps"`
	Budgets   []BudgetDTO       `json:"budgets"`
	Financial FinancialDTO      `json:"financial"`
	Warnings  []string          `json:"warnings"`
}

// =============================================================================
// SESSION TYPES
// =============================================================================

// SessionDTO is a planner session with its current result.
type SessionDTO struct {
	ID     string       `json:"id"`
	Brush  string       `json:"brush,omitempty"`
	Result PlanResponse `json:"result"`
}

// CreateSessionRequest optionally restores a session from a share token.
type CreateSessionRequest struct {
	Token string `json:"token,omitempty"`
}

// PeriodRequest creates or edits a period. On update, omitted fields stay.
type PeriodRequest struct {
	Types      []string `json:"types,omitempty"`
	Start      *string  `json:"start,omitempty"`
	End        *string  `json:"end,omitempty"`
	Days       []bool   `json:"days,omitempty"`
	EveryWeek  *bool    `json:"every_week,omitempty"`
	WeekFilter *string  `json:"week_filter,omitempty"`
}

// SettingsRequest changes session settings; omitted fields stay.
type SettingsRequest struct {
	BirthDate     *string          `json:"birth_date,omitempty"`
	WorkWeek      *WorkWeekDTO     `json:"work_week,omitempty"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`
	AnnualBudget  *int             `json:"annual_budget,omitempty"`
	TaxYear       *int             `json:"tax_year,omitempty"`
}

// ManualDayRequest toggles a manual day, optionally selecting the brush first.
type ManualDayRequest struct {
	Date  string  `json:"date"`
	Brush *string `json:"brush,omitempty"`
}

// =============================================================================
// REFERENCE DATA TYPES
// =============================================================================

// LeaveTypeDTO describes one leave type.
type LeaveTypeDTO struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	Label            string           `json:"label"`
	ShortLabel       string           `json:"short_label"`
	MaxWeeks         *int             `json:"max_weeks,omitempty"`
	SalaryPercentage int              `json:"salary_percentage"`
	PaidBy           string           `json:"paid_by"`
	DeadlineWeeks    *int             `json:"deadline_weeks,omitempty"`
	DayCap           *decimal.Decimal `json:"day_cap,omitempty"`
	FixedDuration    bool             `json:"fixed_duration"`
	Annual           bool             `json:"annual"`
	Priority         int              `json:"priority"`
	Description      string           `json:"description"`
}

// HolidayDTO is a public or custom holiday.
type HolidayDTO struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Source    string `json:"source"` // national, custom
	Recurring bool   `json:"recurring,omitempty"`
}

// CreateHolidayRequest adds a custom holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST -> PLANNER
// =============================================================================

func (w WorkWeekDTO) toPattern() (leave.WorkWeekPattern, error) {
	return leave.WorkWeekFromSlices(w.EvenWeek, w.OddWeek, w.HoursPerWeek)
}

func parseTypes(names []string) ([]leave.Type, error) {
	out := make([]leave.Type, 0, len(names))
	for _, n := range names {
		t, err := leave.ParseType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseDays(days []bool) ([5]bool, error) {
	if len(days) == 0 {
		return leave.AllWeekdays, nil
	}
	if len(days) != 5 {
		return [5]bool{}, fmt.Errorf("%w: days needs 5 entries, got %d", generic.ErrInvalidInput, len(days))
	}
	var out [5]bool
	copy(out[:], days)
	return out, nil
}

func parseWeekFilter(s string) (leave.WeekFilter, error) {
	switch f := leave.WeekFilter(s); f {
	case leave.WeekFilterNone, leave.WeekFilterEven, leave.WeekFilterOdd:
		return f, nil
	default:
		return "", fmt.Errorf("%w: week filter %q", generic.ErrInvalidInput, s)
	}
}

func parseOptionalDate(s string) (generic.Date, error) {
	if s == "" {
		return generic.Date{}, nil
	}
	return generic.ParseDate(s)
}

func (p PeriodDTO) toPeriod() (leave.Period, error) {
	types, err := parseTypes(p.Types)
	if err != nil {
		return leave.Period{}, err
	}
	start, err := generic.ParseDate(p.Start)
	if err != nil {
		return leave.Period{}, err
	}
	end, err := generic.ParseDate(p.End)
	if err != nil {
		return leave.Period{}, err
	}
	days, err := parseDays(p.Days)
	if err != nil {
		return leave.Period{}, err
	}
	filter, err := parseWeekFilter(p.WeekFilter)
	if err != nil {
		return leave.Period{}, err
	}
	return leave.Period{
		ID:         p.ID,
		Types:      types,
		Start:      start,
		End:        end,
		Days:       days,
		EveryWeek:  p.EveryWeek,
		WeekFilter: filter,
	}, nil
}

func parseManualDays(in map[string]string) (map[string]leave.Type, error) {
	out := make(map[string]leave.Type, len(in))
	for key, name := range in {
		d, err := generic.ParseDate(key)
		if err != nil {
			return nil, err
		}
		t, err := leave.ParseType(name)
		if err != nil {
			return nil, err
		}
		out[d.Key()] = t
	}
	return out, nil
}

// toPlan converts a request into a planner.Plan. Missing work week and
// budget take the session defaults.
func (req PlanRequest) toPlan() (planner.Plan, error) {
	birth, err := parseOptionalDate(req.BirthDate)
	if err != nil {
		return planner.Plan{}, err
	}

	pattern := leave.DefaultWorkWeek()
	if req.WorkWeek != nil {
		if pattern, err = req.WorkWeek.toPattern(); err != nil {
			return planner.Plan{}, err
		}
	}

	budget := leave.DefaultAnnualBudget
	if req.AnnualBudget != nil {
		budget = *req.AnnualBudget
	}

	periods := make([]leave.Period, 0, len(req.Periods))
	for i, pd := range req.Periods {
		p, err := pd.toPeriod()
		if err != nil {
			return planner.Plan{}, fmt.Errorf("period %d: %w", i+1, err)
		}
		if p.ID == "" {
			p.ID = fmt.Sprint(i + 1)
		}
		periods = append(periods, p)
	}

	manual, err := parseManualDays(req.ManualDays)
	if err != nil {
		return planner.Plan{}, err
	}

	return planner.Plan{
		Input: leave.Input{
			BirthDate:     birth,
			WorkWeek:      pattern,
			MonthlySalary: req.MonthlySalary,
			Periods:       periods,
			AnnualBudget:  budget,
		},
		ManualDays: manual,
		TaxYear:    req.TaxYear,
	}, nil
}

// toUpdate converts a period edit. Only set fields are validated.
func (req PeriodRequest) toUpdate() (planner.PeriodUpdate, error) {
	var u planner.PeriodUpdate
	if req.Types != nil {
		types, err := parseTypes(req.Types)
		if err != nil {
			return u, err
		}
		u.Types = types
	}
	if req.Start != nil {
		d, err := generic.ParseDate(*req.Start)
		if err != nil {
			return u, err
		}
		u.Start = &d
	}
	if req.End != nil {
		d, err := generic.ParseDate(*req.End)
		if err != nil {
			return u, err
		}
		u.End = &d
	}
	if req.Days != nil {
		days, err := parseDays(req.Days)
		if err != nil {
			return u, err
		}
		u.Days = &days
	}
	u.EveryWeek = req.EveryWeek
	if req.WeekFilter != nil {
		f, err := parseWeekFilter(*req.WeekFilter)
		if err != nil {
			return u, err
		}
		u.WeekFilter = &f
	}
	return u, nil
}

// toPeriod converts a request for a new period; start and end are required.
func (req PeriodRequest) toPeriod() (leave.Period, error) {
	if req.Start == nil || req.End == nil {
		return leave.Period{}, fmt.Errorf("%w: start and end are required", generic.ErrInvalidInput)
	}
	pd := PeriodDTO{Types: req.Types, Start: *req.Start, End: *req.End, Days: req.Days}
	if req.EveryWeek != nil {
		pd.EveryWeek = *req.EveryWeek
	} else {
		pd.EveryWeek = true
	}
	if req.WeekFilter != nil {
		pd.WeekFilter = *req.WeekFilter
	}
	return pd.toPeriod()
}

// =============================================================================
// PLANNER -> RESPONSE
// =============================================================================

func workWeekDTO(p leave.WorkWeekPattern) *WorkWeekDTO {
	return &WorkWeekDTO{
		EvenWeek:     append([]bool(nil), p.EvenWeek[:]...),
		OddWeek:      append([]bool(nil), p.OddWeek[:]...),
		HoursPerWeek: p.HoursPerWeek,
	}
}

func periodDTO(p leave.Period) PeriodDTO {
	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, string(t))
	}
	return PeriodDTO{
		ID:         p.ID,
		Types:      types,
		Start:      p.Start.Key(),
		End:        p.End.Key(),
		Days:       append([]bool(nil), p.Days[:]...),
		EveryWeek:  p.EveryWeek,
		WeekFilter: string(p.WeekFilter),
	}
}

func planRequestDTO(p planner.Plan) PlanRequest {
	in := p.Input
	budget := in.AnnualBudget
	req := PlanRequest{
		WorkWeek:      workWeekDTO(in.WorkWeek),
		MonthlySalary: in.MonthlySalary,
		AnnualBudget:  &budget,
		TaxYear:       p.TaxYear,
		Periods:       make([]PeriodDTO, 0, len(in.Periods)),
	}
	if in.HasBirthDate() {
		req.BirthDate = in.BirthDate.Key()
	}
	for _, period := range in.Periods {
		req.Periods = append(req.Periods, periodDTO(period))
	}
	if len(p.ManualDays) > 0 {
		req.ManualDays = make(map[string]string, len(p.ManualDays))
		for k, t := range p.ManualDays {
			req.ManualDays[k] = string(t)
		}
	}
	return req
}

func budgetDTOs(budgets []leave.Budget) []BudgetDTO {
	out := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetDTO{
			Type:      string(b.Type),
			Label:     b.Label,
			Used:      b.Used,
			Max:       b.Max,
			Remaining: b.Remaining(),
			Unlimited: b.Unlimited,
			Year:      b.Year,
		})
	}
	return out
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func financialDTO(gross finance.Summary, net *finance.NetSummary) FinancialDTO {
	out := FinancialDTO{
		PerType:         make([]IncomeRowDTO, 0, len(gross.PerType)),
		Monthly:         make([]MonthDTO, 0, len(gross.Monthly)),
		TotalNormal:     gross.TotalNormal,
		TotalActual:     gross.TotalActual,
		TotalDifference: gross.TotalDifference,
	}
	for i, r := range gross.PerType {
		row := IncomeRowDTO{
			Type:         string(r.Type),
			Label:        r.Label,
			PaidBy:       string(r.PaidBy),
			Days:         r.Days,
			DailyIncome:  r.DailyIncome,
			TotalIncome:  r.TotalIncome,
			NormalIncome: r.NormalIncome,
			Difference:   r.Difference,
		}
		if net != nil && i < len(net.PerType) {
			row.NetDifference = decimalPtr(net.PerType[i].NetDifference)
		}
		out.PerType = append(out.PerType, row)
	}
	for i, m := range gross.Monthly {
		row := MonthDTO{
			Month:        m.Month,
			Year:         m.Year,
			WorkingDays:  m.WorkingDays,
			LeaveDays:    m.LeaveDays,
			NormalIncome: m.NormalIncome,
			ActualIncome: m.ActualIncome,
			Difference:   m.Difference,
		}
		if net != nil && i < len(net.Monthly) {
			row.NetNormal = decimalPtr(net.Monthly[i].NetNormalIncome)
			row.NetActual = decimalPtr(net.Monthly[i].NetActualIncome)
			row.NetDifference = decimalPtr(net.Monthly[i].NetDifference)
		}
		out.Monthly = append(out.Monthly, row)
	}
	if net != nil {
		out.Net = &NetTotalsDTO{
			TaxYear:       net.TaxYear,
			TableYear:     net.TableYear,
			NetNormal:     net.TotalNetNormal,
			NetActual:     net.TotalNetActual,
			NetDifference: net.TotalNetDifference,
		}
	}
	return out
}

func planResponse(p planner.Plan, r planner.Result, token string) PlanResponse {
	dayMap := make(map[string]string, len(r.DayMap))
	for k, t := range r.DayMap {
		dayMap[k] = string(t)
	}
	return PlanResponse{
		Config:    planRequestDTO(p),
		Token:     token,
		DayMap:    dayMap,
		Overlaps:  r.Overlaps.Keys(),
		Budgets:   budgetDTOs(r.Budgets),
		Financial: financialDTO(r.Financial, r.Net),
		Warnings:  r.Warnings,
	}
}

func leaveTypeDTO(r leave.Rule) LeaveTypeDTO {
	dto := LeaveTypeDTO{
		ID:               string(r.Type),
		Code:             r.Type.Code(),
		Label:            r.Label,
		ShortLabel:       r.ShortLabel,
		SalaryPercentage: r.SalaryPercentage,
		PaidBy:           string(r.PaidBy),
		FixedDuration:    r.FixedDuration,
		Annual:           r.Annual,
		Priority:         r.Type.Rank(),
		Description:      r.Description,
	}
	if r.MaxWeeks.Bounded() && !r.Annual {
		w := int(r.MaxWeeks)
		dto.MaxWeeks = &w
	}
	if r.DeadlineWeeks.Bounded() {
		w := int(r.DeadlineWeeks)
		dto.DeadlineWeeks = &w
	}
	if r.DayCap.Valid {
		dto.DayCap = decimalPtr(r.DayCap.Decimal)
	}
	return dto
}
