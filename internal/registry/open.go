package registry

import (
	"context"

	"github.com/rotisserie/eris"
)

// Supported Options.Driver values.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a Store backend.
type Options struct {
	Driver      string
	Path        string // file and sqlite
	DatabaseURL string // postgres
	RedisURL    string
	RedisKey    string
	Pool        *PoolConfig
}

// Open returns the Store named by opts.Driver, migrating SQL backends.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileStore(opts.Path), nil
	case DriverRedis:
		s, err := NewRedis(ctx, opts.RedisURL, opts.RedisKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := NewSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := NewPostgres(ctx, opts.DatabaseURL, opts.Pool)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("registry: unknown driver %q", opts.Driver)
	}
}
