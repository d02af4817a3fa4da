package registry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadtrack/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS tracked_sheets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	client_tag TEXT NOT NULL DEFAULT '',
	sheet_name TEXT NOT NULL DEFAULT '',
	added_at   TEXT NOT NULL
);
`

// Migrate creates the registry table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.TrackedSheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, client_tag, sheet_name, added_at FROM tracked_sheets ORDER BY rowid`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sheets")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.TrackedSheet{}
	for rows.Next() {
		sheet, err := scanSQLiteSheet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sheet)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list sheets")
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.TrackedSheet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, client_tag, sheet_name, added_at FROM tracked_sheets WHERE id = ?`,
		id,
	)
	sheet, err := scanSQLiteSheet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sheet, err
}

func (s *SQLiteStore) Add(ctx context.Context, sheet model.TrackedSheet) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tracked_sheets (id, name, client_tag, sheet_name, added_at) VALUES (?, ?, ?, ?, ?)`,
		sheet.ID, sheet.Name, sheet.ClientTag, sheet.SheetName, sheet.AddedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: add sheet %s", sheet.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrAlreadyTracked
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tracked_sheets WHERE id = ?`, id)
	return eris.Wrapf(err, "sqlite: remove sheet %s", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSheet(row rowScanner) (*model.TrackedSheet, error) {
	var (
		sheet   model.TrackedSheet
		addedAt string
	)
	if err := row.Scan(&sheet.ID, &sheet.Name, &sheet.ClientTag, &sheet.SheetName, &addedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan sheet")
	}
	t, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse added_at for %s", sheet.ID)
	}
	sheet.AddedAt = t
	return &sheet, nil
}
