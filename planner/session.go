package planner

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/urlstate"
)

// =============================================================================
// SESSION
// =============================================================================

// DefaultPeriodWeeks is the length of the period seeded by the first birth date.
const DefaultPeriodWeeks = 6

// Session is the editable planner state of one user. Period ids come from a
// counter owned by the session; restoring a session seeds it above the
// highest restored id. Safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	birthDate    generic.Date
	workWeek     leave.WorkWeekPattern
	salary       decimal.Decimal
	annualBudget int
	taxYear      int
	periods      []leave.Period
	manualDays   map[string]leave.Type
	brush        leave.Type

	nextID      int
	initialized bool

	env Env
}

// Option configures a Session.
type Option func(*Session)

// WithEnv sets the holiday calendar and tax tables used by Compute.
func WithEnv(env Env) Option {
	return func(s *Session) { s.env = env }
}

// NewSession returns an empty session with the default work week and budget.
func NewSession(opts ...Option) *Session {
	s := &Session{
		workWeek:     leave.DefaultWorkWeek(),
		salary:       decimal.Zero,
		annualBudget: leave.DefaultAnnualBudget,
		manualDays:   make(map[string]leave.Type),
		nextID:       1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore rebuilds a session from a share token state. A restored session
// never seeds default periods.
func Restore(state urlstate.State, opts ...Option) *Session {
	s := NewSession(opts...)
	s.birthDate = state.BirthDate
	s.workWeek = state.WorkWeek
	s.annualBudget = state.AnnualBudget
	s.initialized = true

	maxID := 0
	for _, p := range state.Periods {
		s.periods = append(s.periods, p.Clone())
		if n, err := strconv.Atoi(p.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	s.nextID = maxID + 1

	for k, t := range state.ManualDays {
		s.manualDays[k] = t
	}
	return s
}

func (s *Session) generateID() string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

// =============================================================================
// SETTERS
// =============================================================================

// SetBirthDate sets the reference date. The first birth date of a fresh
// session seeds a six-week period of geboorteverlof + aanvullend.
func (s *Session) SetBirthDate(d generic.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.birthDate = d
	if d.IsZero() || s.initialized {
		return
	}
	s.periods = []leave.Period{{
		ID:        s.generateID(),
		Types:     []leave.Type{leave.Geboorteverlof, leave.Aanvullend},
		Start:     d,
		End:       d.AddWeeks(DefaultPeriodWeeks).AddDays(-1),
		Days:      leave.AllWeekdays,
		EveryWeek: true,
	}}
	s.initialized = true
}

// SetWorkWeek replaces the work week pattern.
func (s *Session) SetWorkWeek(p leave.WorkWeekPattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workWeek = p
}

// SetMonthlySalary sets the gross monthly salary; negative values count as zero.
func (s *Session) SetMonthlySalary(amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	s.salary = amount
}

// SetAnnualBudget sets the vakantiedagen per calendar year.
func (s *Session) SetAnnualBudget(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days < 0 {
		days = 0
	}
	s.annualBudget = days
}

// SetTaxYear selects the tax table; zero follows the birth year.
func (s *Session) SetTaxYear(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxYear = year
}

// =============================================================================
// PERIODS
// =============================================================================

// AddPeriod appends p with a fresh id and returns the stored period.
func (s *Session) AddPeriod(p leave.Period) leave.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Clone()
	p.ID = s.generateID()
	s.periods = append(s.periods, p)
	return p.Clone()
}

// PeriodUpdate carries the fields to change; nil fields stay as they are.
type PeriodUpdate struct {
	Types      []leave.Type
	Start      *generic.Date
	End        *generic.Date
	Days       *[5]bool
	EveryWeek  *bool
	WeekFilter *leave.WeekFilter
}

// UpdatePeriod edits the period with the given id in place.
func (s *Session) UpdatePeriod(id string, u PeriodUpdate) (leave.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.periods {
		p := &s.periods[i]
		if p.ID != id {
			continue
		}
		if u.Types != nil {
			p.Types = append([]leave.Type(nil), u.Types...)
		}
		if u.Start != nil {
			p.Start = *u.Start
		}
		if u.End != nil {
			p.End = *u.End
		}
		if u.Days != nil {
			p.Days = *u.Days
		}
		if u.EveryWeek != nil {
			p.EveryWeek = *u.EveryWeek
		}
		if u.WeekFilter != nil {
			p.WeekFilter = *u.WeekFilter
		}
		return p.Clone(), nil
	}
	return leave.Period{}, fmt.Errorf("%w: %s", generic.ErrPeriodNotFound, id)
}

// RemovePeriod deletes the period with the given id.
func (s *Session) RemovePeriod(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.periods {
		if p.ID == id {
			s.periods = append(s.periods[:i], s.periods[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", generic.ErrPeriodNotFound, id)
}

// Periods returns a copy of the periods in declaration order.
func (s *Session) Periods() []leave.Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]leave.Period, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, p.Clone())
	}
	return out
}

// =============================================================================
// MANUAL DAYS
// =============================================================================

// SelectBrush sets the leave type that ToggleManualDay paints. The empty type
// clears the brush.
func (s *Session) SelectBrush(t leave.Type) error {
	if t != "" && !t.Valid() {
		return fmt.Errorf("%w: %q", generic.ErrUnknownLeaveType, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brush = t
	return nil
}

// Brush returns the selected brush, empty when none.
func (s *Session) Brush() leave.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brush
}

// ToggleManualDay removes the manual day on date if there is one, otherwise
// paints it with the selected brush. Without a brush nothing changes.
func (s *Session) ToggleManualDay(date generic.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := date.Key()
	if _, ok := s.manualDays[key]; ok {
		delete(s.manualDays, key)
		return
	}
	if s.brush != "" {
		s.manualDays[key] = s.brush
	}
}

// ManualDays returns a copy of the manual overrides.
func (s *Session) ManualDays() map[string]leave.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]leave.Type, len(s.manualDays))
	for k, v := range s.manualDays {
		out[k] = v
	}
	return out
}

// =============================================================================
// VIEWS
// =============================================================================

// Plan snapshots the session as a Plan.
func (s *Session) Plan() Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	periods := make([]leave.Period, 0, len(s.periods))
	for _, p := range s.periods {
		periods = append(periods, p.Clone())
	}
	manual := make(map[string]leave.Type, len(s.manualDays))
	for k, v := range s.manualDays {
		manual[k] = v
	}
	return Plan{
		Input: leave.Input{
			BirthDate:     s.birthDate,
			WorkWeek:      s.workWeek,
			MonthlySalary: s.salary,
			Periods:       periods,
			AnnualBudget:  s.annualBudget,
		},
		ManualDays: manual,
		TaxYear:    s.taxYear,
	}
}

// State returns the shareable part of the session.
func (s *Session) State() urlstate.State {
	p := s.Plan()
	return urlstate.State{
		BirthDate:    p.Input.BirthDate,
		WorkWeek:     p.Input.WorkWeek,
		AnnualBudget: p.Input.AnnualBudget,
		Periods:      p.Input.Periods,
		ManualDays:   p.ManualDays,
	}
}

// Compute derives the current Result from a consistent snapshot.
func (s *Session) Compute() Result {
	return Compute(s.Plan(), s.env)
}
