/*
Package store provides an in-memory holiday calendar.

PURPOSE:
  A thread-safe HolidayCalendar backed by a map. The CLI fills one from its
  --holiday flags and layers it on top of the computed Dutch calendar.

USAGE:
  mem := store.NewMemoryHolidays()
  mem.Add(generic.Holiday{Date: generic.NewDate(2026, 6, 1), Name: "Bedrijfsdag"})
  cal := generic.LayeredCalendar{dutch, mem}

SEE ALSO:
  - store/sqlite/sqlite.go: persistent implementation of the same lookup
*/
package store

import (
	"sort"
	"sync"

	"github.com/warp/leave-planner/generic"
)

// MemoryHolidays is an in-memory holiday table keyed by date.
type MemoryHolidays struct {
	mu       sync.RWMutex
	holidays map[string]generic.Holiday
}

// NewMemoryHolidays creates an empty table, optionally pre-filled.
func NewMemoryHolidays(initial ...generic.Holiday) *MemoryHolidays {
	m := &MemoryHolidays{holidays: make(map[string]generic.Holiday)}
	for _, h := range initial {
		m.Add(h)
	}
	return m
}

// Add stores a holiday, replacing any holiday on the same date.
func (m *MemoryHolidays) Add(h generic.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == "" {
		h.ID = "holiday-" + h.Date.Key()
	}
	m.holidays[h.Date.Key()] = h
}

// Remove deletes the holiday on the given date, reporting whether one existed.
func (m *MemoryHolidays) Remove(date generic.Date) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date.Key()
	if _, ok := m.holidays[key]; !ok {
		return false
	}
	delete(m.holidays, key)
	return true
}

// HolidayName implements generic.HolidayCalendar.
func (m *MemoryHolidays) HolidayName(date generic.Date) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.holidays[date.Key()]
	if !ok {
		return "", false
	}
	return h.Name, true
}

// InYear returns the holidays of a year sorted by date.
func (m *MemoryHolidays) InYear(year int) []generic.Holiday {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.Holiday
	for _, h := range m.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Len returns the number of stored holidays.
func (m *MemoryHolidays) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.holidays)
}
