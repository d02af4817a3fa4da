package registry

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	cfg.MaxConns = 4
	cfg.MinConns = 0
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			cfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			cfg.MinConns = poolCfg.MinConns
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS tracked_sheets (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	client_tag TEXT NOT NULL DEFAULT '',
	sheet_name TEXT NOT NULL DEFAULT '',
	added_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the registry table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.TrackedSheet, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, client_tag, sheet_name, added_at FROM tracked_sheets ORDER BY seq`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sheets")
	}
	defer rows.Close()

	out := []model.TrackedSheet{}
	for rows.Next() {
		var sheet model.TrackedSheet
		if err := rows.Scan(&sheet.ID, &sheet.Name, &sheet.ClientTag, &sheet.SheetName, &sheet.AddedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan sheet")
		}
		out = append(out, sheet)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list sheets")
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.TrackedSheet, error) {
	var sheet model.TrackedSheet
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, client_tag, sheet_name, added_at FROM tracked_sheets WHERE id = $1`,
		id,
	).Scan(&sheet.ID, &sheet.Name, &sheet.ClientTag, &sheet.SheetName, &sheet.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get sheet %s", id)
	}
	return &sheet, nil
}

func (s *PostgresStore) Add(ctx context.Context, sheet model.TrackedSheet) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO tracked_sheets (id, name, client_tag, sheet_name, added_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
		sheet.ID, sheet.Name, sheet.ClientTag, sheet.SheetName, sheet.AddedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: add sheet %s", sheet.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyTracked
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tracked_sheets WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: remove sheet %s", id)
}
