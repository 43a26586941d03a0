/*
Package holidays provides the Dutch public-holiday calendar.

PURPOSE:
  Implements generic.HolidayCalendar for the Netherlands over a bounded range
  of years. Dates outside the range are never holidays, mirroring a static
  table that covers a handful of years around "now".

HOLIDAYS:
  Nieuwjaarsdag       1 January
  Goede Vrijdag       Easter - 2
  2e Paasdag          Easter + 1
  Koningsdag          27 April (26 April when the 27th is a Sunday)
  Bevrijdingsdag      5 May, every year (most employers grant it)
  Hemelvaartsdag      Easter + 39
  2e Pinksterdag      Easter + 50
  1e Kerstdag         25 December
  2e Kerstdag         26 December

  Only weekday occurrences count: a holiday on a Saturday or Sunday does not
  change the working days and is not reported.

USAGE:
  nl := holidays.NewDutch(2025, 2030)
  name, ok := nl.HolidayName(generic.NewDate(2026, time.April, 27)) // "Koningsdag", true

SEE ALSO:
  - generic/time.go: HolidayCalendar and LayeredCalendar
  - store/sqlite: persisted extra holidays layered on top
*/
package holidays

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2"

	"github.com/warp/leave-planner/generic"
)

// Default year range of the calendar.
const (
	DefaultFromYear = 2025
	DefaultToYear   = 2030
)

func dutchHolidays(from, to int) []*cal.Holiday {
	fixed := func(name string, month time.Month, day int) *cal.Holiday {
		return &cal.Holiday{
			Name:      name,
			Type:      cal.ObservancePublic,
			Month:     month,
			Day:       day,
			StartYear: from,
			EndYear:   to,
			Func:      cal.CalcDayOfMonth,
		}
	}
	easter := func(name string, offset int) *cal.Holiday {
		return &cal.Holiday{
			Name:      name,
			Type:      cal.ObservancePublic,
			Offset:    offset,
			StartYear: from,
			EndYear:   to,
			Func:      cal.CalcEasterOffset,
		}
	}

	koningsdag := fixed("Koningsdag", time.April, 27)
	koningsdag.Observed = []cal.AltDay{{Day: time.Sunday, Offset: -1}}

	return []*cal.Holiday{
		fixed("Nieuwjaarsdag", time.January, 1),
		easter("Goede Vrijdag", -2),
		easter("2e Paasdag", 1),
		koningsdag,
		fixed("Bevrijdingsdag", time.May, 5),
		easter("Hemelvaartsdag", 39),
		easter("2e Pinksterdag", 50),
		fixed("1e Kerstdag", time.December, 25),
		fixed("2e Kerstdag", time.December, 26),
	}
}

// Dutch is the Dutch national holiday calendar for a range of years.
type Dutch struct {
	from, to int
	calendar *cal.Calendar
}

// NewDutch builds the calendar for the years from..to inclusive. An inverted
// range yields a calendar without holidays.
func NewDutch(from, to int) *Dutch {
	c := &cal.Calendar{Name: "Nederland", Description: "Nationale feestdagen"}
	if from <= to {
		c.AddHoliday(dutchHolidays(from, to)...)
	}
	return &Dutch{from: from, to: to, calendar: c}
}

// NewDefaultDutch covers DefaultFromYear..DefaultToYear.
func NewDefaultDutch() *Dutch {
	return NewDutch(DefaultFromYear, DefaultToYear)
}

// Range returns the covered years.
func (d *Dutch) Range() (from, to int) {
	return d.from, d.to
}

// HolidayName implements generic.HolidayCalendar.
func (d *Dutch) HolidayName(date generic.Date) (string, bool) {
	if date.IsWeekend() || date.Year() < d.from || date.Year() > d.to {
		return "", false
	}
	actual, observed, h := d.calendar.IsHoliday(date.Time)
	if (!actual && !observed) || h == nil {
		return "", false
	}
	return h.Name, true
}

// Holidays lists the weekday holidays of a year in date order.
func (d *Dutch) Holidays(year int) []generic.Holiday {
	if year < d.from || year > d.to {
		return nil
	}
	var out []generic.Holiday
	for _, h := range d.calendar.Holidays {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		day := generic.DateOf(observed)
		if day.IsWeekend() {
			continue
		}
		out = append(out, generic.Holiday{ID: "nl-" + day.Key(), Date: day, Name: h.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
