/*
Package sqlite provides a SQLite-backed store for planner reference data.

PURPOSE:
  Persists the data an operator edits between releases: company holidays on
  top of the computed Dutch calendar, and tax years published after the
  binary was built. Planner sessions themselves are never stored; they live
  in share tokens.

KEY TABLES:
  holidays:  extra non-working days, optionally recurring every year
  tax_years: one JSON tax table document per year

INTERFACES IMPLEMENTED:
  generic.HolidayCalendar: HolidayName

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of the single SQLite writer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not block
  the writer.

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  calendar := generic.LayeredCalendar{holidays.NewDefaultDutch(), store}

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store/memory.go: in-memory holiday table with the same lookup
  - factory/taxtable.go: the document form of a tax year
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
)

// Store persists holidays and tax years.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Extra holidays (company days, bridge days)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);

	-- Tax tables, one document per year
	CREATE TABLE IF NOT EXISTS tax_years (
		year INTEGER PRIMARY KEY,
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// HolidayRecord is a stored holiday. A recurring holiday repeats on the same
// month and day every year.
type HolidayRecord struct {
	ID        string       `json:"id"`
	Date      generic.Date `json:"date"`
	Name      string       `json:"name"`
	Recurring bool         `json:"recurring"`
}

// SaveHoliday inserts a holiday or replaces the one on the same date.
// A missing ID is generated.
func (s *Store) SaveHoliday(ctx context.Context, h HolidayRecord) (HolidayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.Date.IsZero() {
		return HolidayRecord{}, fmt.Errorf("%w: holiday without date", generic.ErrInvalidDate)
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			name = excluded.name,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Date.Key(),
		h.Name,
		h.Recurring,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return HolidayRecord{}, err
	}

	// on conflict the existing row keeps its id
	err = s.db.QueryRowContext(ctx, "SELECT id FROM holidays WHERE date = ?", h.Date.Key()).Scan(&h.ID)
	return h, err
}

// DeleteHoliday deletes a holiday by ID, reporting whether it existed.
func (s *Store) DeleteHoliday(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// HolidayName implements generic.HolidayCalendar. Lookup errors count as
// "no holiday".
func (s *Store) HolidayName(date generic.Date) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT name FROM holidays
		WHERE (recurring = FALSE AND date = ?)
		   OR (recurring = TRUE AND strftime('%m-%d', date) = ? AND date <= ?)
		ORDER BY recurring ASC
		LIMIT 1
	`

	var name string
	key := date.Key()
	err := s.db.QueryRow(query, key, date.Time.Format("01-02"), key).Scan(&name)
	if err != nil {
		return "", false
	}
	return name, true
}

// HolidaysInYear returns the holidays falling in year, recurring ones moved
// into that year, ordered by date.
func (s *Store) HolidaysInYear(ctx context.Context, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, recurring
		FROM holidays
		WHERE (recurring = FALSE AND strftime('%Y', date) = ?)
		   OR (recurring = TRUE AND strftime('%Y', date) <= ?)
		ORDER BY strftime('%m-%d', date) ASC
	`

	y := strconv.Itoa(year)
	rows, err := s.db.QueryContext(ctx, query, y, y)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		rec, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		d := rec.Date
		if rec.Recurring {
			d = generic.NewDate(year, d.Month(), d.Day())
			// 29 February only recurs in leap years
			if d.Month() != rec.Date.Month() {
				continue
			}
		}
		holidays = append(holidays, generic.Holiday{ID: rec.ID, Date: d, Name: rec.Name})
	}

	return holidays, rows.Err()
}

// AllHolidays returns every stored holiday (for admin UI).
func (s *Store) AllHolidays(ctx context.Context) ([]HolidayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, recurring
		FROM holidays
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HolidayRecord
	for rows.Next() {
		rec, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanHoliday(rows *sql.Rows) (HolidayRecord, error) {
	var rec HolidayRecord
	var dateStr string
	if err := rows.Scan(&rec.ID, &dateStr, &rec.Name, &rec.Recurring); err != nil {
		return HolidayRecord{}, err
	}
	d, err := generic.ParseDate(dateStr)
	if err != nil {
		return HolidayRecord{}, err
	}
	rec.Date = d
	return rec, nil
}

// =============================================================================
// TAX YEARS
// =============================================================================

// SaveTaxYear validates and stores a tax year, replacing an earlier version.
func (s *Store) SaveTaxYear(ctx context.Context, y finance.TaxYear) error {
	if err := y.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(factory.NewTaxTableFactory().ToDoc(y))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tax_years (year, config_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`, y.Year, string(doc), time.Now().Format(time.RFC3339))
	return err
}

// LoadTaxYears returns all stored tax years in ascending order.
func (s *Store) LoadTaxYears(ctx context.Context) ([]finance.TaxYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT year, config_json FROM tax_years ORDER BY year ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	f := factory.NewTaxTableFactory()
	var years []finance.TaxYear
	for rows.Next() {
		var year int
		var raw string
		if err := rows.Scan(&year, &raw); err != nil {
			return nil, err
		}
		var doc factory.TaxYearDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("%w: stored year %d: %v", generic.ErrInvalidTaxTable, year, err)
		}
		years = append(years, f.FromYearDoc(doc))
	}
	return years, rows.Err()
}

// LoadInto registers every stored tax year in tables.
func (s *Store) LoadInto(ctx context.Context, tables *finance.TaxTables) (int, error) {
	years, err := s.LoadTaxYears(ctx)
	if err != nil {
		return 0, err
	}
	for _, y := range years {
		if err := tables.Register(y); err != nil {
			return 0, err
		}
	}
	return len(years), nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"holidays", "tax_years"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
