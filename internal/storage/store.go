// Package storage persists fetched indicator tables to SQLite so a full
// history can be exported and inspected offline.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bcbseries/internal/catalog"
	"bcbseries/internal/series"

	_ "modernc.org/sqlite"
)

const dayLayout = "2006-01-02"

// ErrNotFound is returned by LoadTable for a code that was never saved.
var ErrNotFound = errors.New("storage: table not found")

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates (if needed) and migrates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer keeps sqlite away from SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveTable replaces every stored row of ind.Code with t in one transaction.
func (s *Store) SaveTable(ctx context.Context, ind catalog.Indicator, t *series.Table) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO indicators (code, name, frequency, unit, column_name, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			frequency = excluded.frequency,
			unit = excluded.unit,
			column_name = excluded.column_name,
			fetched_at = excluded.fetched_at`,
		ind.Code, ind.Name, ind.Frequency.String(), ind.Unit, ind.Column(), s.now().UTC(),
	); err != nil {
		return fmt.Errorf("upsert indicator %s: %w", ind.Code, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM observations WHERE code = ?`, ind.Code); err != nil {
		return fmt.Errorf("clear observations %s: %w", ind.Code, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO observations (code, day, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range t.Points {
		if _, err = stmt.ExecContext(ctx, ind.Code, p.Date.Format(dayLayout), p.Value); err != nil {
			return fmt.Errorf("insert observation %s %s: %w", ind.Code, p.Date.Format(dayLayout), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadTable reads back a saved table ordered by date.
func (s *Store) LoadTable(ctx context.Context, code string) (*series.Table, error) {
	var column, unit string
	err := s.db.QueryRowContext(ctx, `SELECT column_name, unit FROM indicators WHERE code = ?`, code).Scan(&column, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load indicator %s: %w", code, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT day, value FROM observations WHERE code = ? ORDER BY day`, code)
	if err != nil {
		return nil, fmt.Errorf("query observations %s: %w", code, err)
	}
	defer rows.Close()

	out := series.Empty(column, unit)
	for rows.Next() {
		var day string
		var value float64
		if err := rows.Scan(&day, &value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		d, err := time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		out.Points = append(out.Points, series.Point{Date: d, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}
