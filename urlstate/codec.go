/*
Package urlstate encodes a planner configuration into a compact share token.

FORMAT:
  base64( JSON {
    "b": "2026-03-02",                  birth date
    "w": {"e": 15, "u": 15, "h": 36},   work week: weekday bitmasks + hours
    "v": 20,                            vakantiedagen per year
    "p": [{                             leave periods, in order
      "t": ["g", "a"],                  leave type codes
      "s": "2026-03-02", "e": "...",    inclusive range
      "d": 31,                          weekday bitmask
      "w": 1,                           1 = every week
      "f": "e"                          optional parity: "e" even, "u" odd
    }],
    "m": {"2026-05-01": "v"}            optional manual days
  })

  Bit i of a weekday mask is weekday i, Monday = bit 0.

  Period identifiers are not part of the token. Decoding numbers the periods
  "1", "2", ... in token order. Unknown type codes are dropped.

USAGE:
  token, err := urlstate.Encode(state)
  restored, err := urlstate.Decode(token) // errors.Is(err, generic.ErrInvalidToken)
*/
package urlstate

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// QueryParam is the URL query parameter that carries the token.
const QueryParam = "s"

var errMissingToken = errors.New("missing token")

// State is the shareable part of a planner session.
type State struct {
	BirthDate    generic.Date
	WorkWeek     leave.WorkWeekPattern
	AnnualBudget int
	Periods      []leave.Period
	ManualDays   map[string]leave.Type
}

type compactWeek struct {
	E int     `json:"e"`
	U int     `json:"u"`
	H float64 `json:"h"`
}

type compactPeriod struct {
	T []string `json:"t"`
	S string   `json:"s"`
	E string   `json:"e"`
	D int      `json:"d"`
	W int      `json:"w"`
	F string   `json:"f,omitempty"`
}

type compactState struct {
	B string            `json:"b"`
	W compactWeek       `json:"w"`
	V int               `json:"v"`
	P []compactPeriod   `json:"p"`
	M map[string]string `json:"m,omitempty"`
}

func toMask(days [5]bool) int {
	mask := 0
	for i, on := range days {
		if on {
			mask |= 1 << i
		}
	}
	return mask
}

func fromMask(mask int) [5]bool {
	var days [5]bool
	for i := range days {
		days[i] = mask&(1<<i) != 0
	}
	return days
}

// Encode renders the state as a share token.
func Encode(s State) (string, error) {
	c := compactState{
		B: s.BirthDate.Key(),
		W: compactWeek{E: toMask(s.WorkWeek.EvenWeek), U: toMask(s.WorkWeek.OddWeek), H: s.WorkWeek.HoursPerWeek},
		V: s.AnnualBudget,
		P: make([]compactPeriod, 0, len(s.Periods)),
	}
	if s.BirthDate.IsZero() {
		c.B = ""
	}

	for _, p := range s.Periods {
		cp := compactPeriod{
			T: make([]string, 0, len(p.Types)),
			S: p.Start.Key(),
			E: p.End.Key(),
			D: toMask(p.Days),
		}
		for _, t := range p.Types {
			if code := t.Code(); code != "" {
				cp.T = append(cp.T, code)
			}
		}
		if p.EveryWeek {
			cp.W = 1
		} else {
			switch p.WeekFilter {
			case leave.WeekFilterEven:
				cp.F = "e"
			case leave.WeekFilterOdd:
				cp.F = "u"
			}
		}
		c.P = append(c.P, cp)
	}

	if len(s.ManualDays) > 0 {
		c.M = make(map[string]string, len(s.ManualDays))
		for key, t := range s.ManualDays {
			if code := t.Code(); code != "" {
				c.M[key] = code
			}
		}
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses a share token. Any malformed part fails the whole token with
// a *generic.DecodeError that matches generic.ErrInvalidToken.
func Decode(token string) (State, error) {
	raw, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return State{}, &generic.DecodeError{Field: "token", Err: err}
	}

	var c compactState
	if err := json.Unmarshal(raw, &c); err != nil {
		return State{}, &generic.DecodeError{Field: "json", Err: err}
	}

	var birth generic.Date
	if c.B != "" {
		if birth, err = generic.ParseDate(c.B); err != nil {
			return State{}, &generic.DecodeError{Field: "b", Err: err}
		}
	}

	s := State{
		BirthDate: birth,
		WorkWeek: leave.WorkWeekPattern{
			EvenWeek:     fromMask(c.W.E),
			OddWeek:      fromMask(c.W.U),
			HoursPerWeek: c.W.H,
		},
		AnnualBudget: c.V,
		Periods:      make([]leave.Period, 0, len(c.P)),
	}

	for i, cp := range c.P {
		field := "p[" + strconv.Itoa(i) + "]"
		start, err := generic.ParseDate(cp.S)
		if err != nil {
			return State{}, &generic.DecodeError{Field: field + ".s", Err: err}
		}
		end, err := generic.ParseDate(cp.E)
		if err != nil {
			return State{}, &generic.DecodeError{Field: field + ".e", Err: err}
		}

		p := leave.Period{
			ID:        strconv.Itoa(i + 1),
			Types:     make([]leave.Type, 0, len(cp.T)),
			Start:     start,
			End:       end,
			Days:      fromMask(cp.D),
			EveryWeek: cp.W == 1,
		}
		for _, code := range cp.T {
			if t, ok := leave.TypeFromCode(code); ok {
				p.Types = append(p.Types, t)
			}
		}
		switch cp.F {
		case "e":
			p.WeekFilter = leave.WeekFilterEven
		case "u":
			p.WeekFilter = leave.WeekFilterOdd
		}
		s.Periods = append(s.Periods, p)
	}

	if len(c.M) > 0 {
		s.ManualDays = make(map[string]leave.Type, len(c.M))
		for key, code := range c.M {
			if _, err := generic.ParseDate(key); err != nil {
				return State{}, &generic.DecodeError{Field: "m", Err: err}
			}
			if t, ok := leave.TypeFromCode(code); ok {
				s.ManualDays[key] = t
			}
		}
	}

	return s, nil
}

// decodeBase64 accepts standard padded base64 and the URL-safe alphabet that
// some link shorteners rewrite tokens into.
func decodeBase64(token string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err == nil {
		return raw, nil
	}
	if alt, altErr := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "=")); altErr == nil {
		return alt, nil
	}
	return nil, err
}

// ShareURL appends the token for s to base as the QueryParam query parameter.
func ShareURL(base string, s State) (string, error) {
	token, err := Encode(s)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL extracts and decodes the token of a share URL.
func FromURL(raw string) (State, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return State{}, &generic.DecodeError{Field: "url", Err: err}
	}
	token := u.Query().Get(QueryParam)
	if token == "" {
		return State{}, &generic.DecodeError{Field: QueryParam, Err: errMissingToken}
	}
	return Decode(token)
}
