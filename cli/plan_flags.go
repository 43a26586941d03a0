package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/generic/store"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/planner"
	"github.com/warp/leave-planner/urlstate"
)

// planFlags are the configuration flags shared by compute and encode.
type planFlags struct {
	token    string
	birth    string
	salary   string
	budget   int
	taxYear  int
	evenWeek string
	oddWeek  string
	hours    float64
	periods  []string
	holidays []string
}

func (f *planFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.token, "token", "", "share token or share URL to start from")
	fl.StringVar(&f.birth, "birth", "", "birth date (YYYY-MM-DD)")
	fl.StringVar(&f.salary, "salary", "", "gross monthly salary in euros")
	fl.IntVar(&f.budget, "budget", leave.DefaultAnnualBudget, "vakantiedagen per calendar year")
	fl.IntVar(&f.taxYear, "tax-year", 0, "tax year (default: year of birth)")
	fl.StringVar(&f.evenWeek, "even-week", "", `working days in even weeks, Mon..Fri mask like "11110"`)
	fl.StringVar(&f.oddWeek, "odd-week", "", "working days in odd weeks (default: same as --even-week)")
	fl.Float64Var(&f.hours, "hours", 0, "contract hours per week")
	fl.StringArrayVar(&f.periods, "period", nil,
		`leave period TYPES:START:END[:DAYS[:even|odd]], e.g. "g+a:2026-03-02:2026-04-12"`)
	fl.StringArrayVar(&f.holidays, "holiday", nil, `extra holiday DATE=NAME, e.g. "2026-06-01=Bedrijfsdag"`)
}

// calendar layers the --holiday flags over the national calendar.
func (f *planFlags) calendar(app *App) (generic.HolidayCalendar, error) {
	if len(f.holidays) == 0 {
		return app.Dutch, nil
	}
	mem, err := parseHolidays(f.holidays)
	if err != nil {
		return nil, err
	}
	return generic.LayeredCalendar{app.Dutch, mem}, nil
}

// parseHolidays reads DATE=NAME pairs into an in-memory calendar.
func parseHolidays(raw []string) (*store.MemoryHolidays, error) {
	mem := store.NewMemoryHolidays()
	for _, r := range raw {
		date, name, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: holiday %q, want DATE=NAME", generic.ErrInvalidInput, r)
		}
		d, err := generic.ParseDate(strings.TrimSpace(date))
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", r, err)
		}
		mem.Add(generic.Holiday{Date: d, Name: strings.TrimSpace(name)})
	}
	return mem, nil
}

// session builds the planner session described by the flags.
func (f *planFlags) session(cmd *cobra.Command, app *App) (*planner.Session, error) {
	cal, err := f.calendar(app)
	if err != nil {
		return nil, err
	}
	opt := planner.WithEnv(planner.Env{Holidays: cal, TaxTables: app.TaxTables})
	changed := cmd.Flags().Changed

	var s *planner.Session
	switch {
	case f.token != "":
		state, err := decodeTokenOrURL(f.token)
		if err != nil {
			return nil, err
		}
		s = planner.Restore(state, opt)
	case len(f.periods) > 0:
		periods, err := parsePeriods(f.periods)
		if err != nil {
			return nil, err
		}
		s = planner.Restore(urlstate.State{
			WorkWeek:     leave.DefaultWorkWeek(),
			AnnualBudget: f.budget,
			Periods:      periods,
		}, opt)
	default:
		s = planner.NewSession(opt)
	}

	if changed("period") && f.token != "" {
		periods, err := parsePeriods(f.periods)
		if err != nil {
			return nil, err
		}
		for _, p := range periods {
			s.AddPeriod(p)
		}
	}

	if changed("even-week") || changed("odd-week") || changed("hours") {
		ww, err := f.workWeek(s.Plan().Input.WorkWeek)
		if err != nil {
			return nil, err
		}
		s.SetWorkWeek(ww)
	}
	if f.token == "" || changed("budget") {
		if f.budget < 0 {
			return nil, fmt.Errorf("%w: budget must not be negative", generic.ErrInvalidInput)
		}
		s.SetAnnualBudget(f.budget)
	}
	if f.salary != "" {
		amount, err := decimal.NewFromString(f.salary)
		if err != nil {
			return nil, fmt.Errorf("%w: salary %q", generic.ErrInvalidInput, f.salary)
		}
		s.SetMonthlySalary(amount)
	}
	if f.taxYear != 0 {
		s.SetTaxYear(f.taxYear)
	}
	if f.birth != "" {
		d, err := generic.ParseDate(f.birth)
		if err != nil {
			return nil, fmt.Errorf("birth: %w", err)
		}
		s.SetBirthDate(d)
	}
	return s, nil
}

func (f *planFlags) workWeek(base leave.WorkWeekPattern) (leave.WorkWeekPattern, error) {
	ww := base
	if f.evenWeek != "" {
		days, err := parseDayMask(f.evenWeek)
		if err != nil {
			return ww, err
		}
		ww.EvenWeek, ww.OddWeek = days, days
	}
	if f.oddWeek != "" {
		days, err := parseDayMask(f.oddWeek)
		if err != nil {
			return ww, err
		}
		ww.OddWeek = days
	}
	if f.hours != 0 {
		if f.hours < 0 {
			return ww, fmt.Errorf("%w: hours must be positive", generic.ErrInvalidWorkWeek)
		}
		ww.HoursPerWeek = f.hours
	}
	return ww, nil
}

func decodeTokenOrURL(raw string) (urlstate.State, error) {
	if strings.Contains(raw, "?") || strings.HasPrefix(raw, "http") {
		return urlstate.FromURL(raw)
	}
	return urlstate.Decode(raw)
}

// parseDayMask reads five 0/1 characters, Monday first.
func parseDayMask(s string) ([5]bool, error) {
	var days [5]bool
	if len(s) != 5 {
		return days, fmt.Errorf("%w: day mask %q needs 5 characters", generic.ErrInvalidInput, s)
	}
	for i, c := range s {
		switch c {
		case '1':
			days[i] = true
		case '0':
		default:
			return days, fmt.Errorf("%w: day mask %q", generic.ErrInvalidInput, s)
		}
	}
	return days, nil
}

func parsePeriods(raw []string) ([]leave.Period, error) {
	periods := make([]leave.Period, 0, len(raw))
	for i, r := range raw {
		p, err := parsePeriod(r)
		if err != nil {
			return nil, err
		}
		p.ID = strconv.Itoa(i + 1)
		periods = append(periods, p)
	}
	return periods, nil
}

// parsePeriod reads TYPES:START:END[:DAYS[:even|odd]]. TYPES is a "+"
// separated list of type names or share-token codes.
func parsePeriod(raw string) (leave.Period, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 5 {
		return leave.Period{}, fmt.Errorf("%w: period %q, want TYPES:START:END[:DAYS[:even|odd]]", generic.ErrInvalidInput, raw)
	}

	var types []leave.Type
	for _, name := range strings.Split(parts[0], "+") {
		t, ok := leave.TypeFromCode(name)
		if !ok {
			var err error
			if t, err = leave.ParseType(name); err != nil {
				return leave.Period{}, err
			}
		}
		types = append(types, t)
	}

	start, err := generic.ParseDate(parts[1])
	if err != nil {
		return leave.Period{}, fmt.Errorf("period start: %w", err)
	}
	end, err := generic.ParseDate(parts[2])
	if err != nil {
		return leave.Period{}, fmt.Errorf("period end: %w", err)
	}

	p := leave.Period{Types: types, Start: start, End: end, Days: leave.AllWeekdays, EveryWeek: true}
	if len(parts) > 3 {
		if p.Days, err = parseDayMask(parts[3]); err != nil {
			return leave.Period{}, err
		}
	}
	if len(parts) > 4 {
		switch parts[4] {
		case "even":
			p.WeekFilter = leave.WeekFilterEven
		case "odd", "uneven":
			p.WeekFilter = leave.WeekFilterOdd
		default:
			return leave.Period{}, fmt.Errorf("%w: week filter %q", generic.ErrInvalidInput, parts[4])
		}
		p.EveryWeek = false
	}
	return p, nil
}
