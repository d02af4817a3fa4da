package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/analytics"
	"github.com/sells-group/leadtrack/internal/cache"
	"github.com/sells-group/leadtrack/internal/config"
	"github.com/sells-group/leadtrack/internal/registry"
	"github.com/sells-group/leadtrack/internal/sheets"
	"github.com/sells-group/leadtrack/pkg/gsheets"
)

// appEnv holds the registry, row source, loader and engine shared by the
// serve, analytics and sheets commands.
type appEnv struct {
	Store  registry.Store
	Source sheets.Source
	Loader *sheets.Loader
	Engine *analytics.Engine
	Cache  cache.Cache
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the registry and builds the Sheets-backed loader. Callers
// should defer env.Close().
func initEnv(ctx context.Context, c *config.Config) (*appEnv, error) {
	client, err := newSheetsClient(c.Sheets)
	if err != nil {
		return nil, err
	}

	st, err := openRegistry(ctx, c)
	if err != nil {
		return nil, err
	}

	return newEnv(c, st, sheets.NewGoogleSource(client)), nil
}

// newEnv wires a loader and engine around an open registry and source.
func newEnv(c *config.Config, st registry.Store, src sheets.Source) *appEnv {
	mem := newCache(c.Cache)
	return &appEnv{
		Store:  st,
		Source: src,
		Loader: sheets.NewLoader(src, mem, sheets.WithBatchSize(c.Sheets.BatchSize)),
		Engine: analytics.NewEngine(analytics.WithStaleWindow(c.Analytics.StaleWindow())),
		Cache:  mem,
	}
}

// newCache returns the snapshot cache. A ttl of 0 disables caching.
func newCache(c config.CacheConfig) cache.Cache {
	if c.TTL() <= 0 {
		return cache.Nop{}
	}
	return cache.NewMemory(c.TTL())
}

func openRegistry(ctx context.Context, c *config.Config) (registry.Store, error) {
	st, err := registry.Open(ctx, registry.Options{
		Driver:      c.Store.Driver,
		Path:        c.Store.Path,
		DatabaseURL: c.Store.DatabaseURL,
		RedisURL:    c.Redis.URL,
		RedisKey:    c.Redis.Key,
		Pool: &registry.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "open registry")
	}
	return st, nil
}

// newSheetsClient prefers service-account credentials and falls back to an
// API key, which only reaches publicly shared sheets.
func newSheetsClient(sc config.SheetsConfig) (gsheets.Client, error) {
	opts := []gsheets.Option{gsheets.WithRateLimit(sc.RateLimit, sc.RateBurst)}
	if sc.BaseURL != "" {
		opts = append(opts, gsheets.WithBaseURL(sc.BaseURL))
	}

	if sc.HasServiceAccount() {
		var saOpts []gsheets.ServiceAccountOption
		if sc.TokenURL != "" {
			saOpts = append(saOpts, gsheets.WithTokenURL(sc.TokenURL))
		}
		sa, err := gsheets.NewServiceAccount(sc.ClientEmail, sc.PrivateKey, saOpts...)
		if err != nil {
			return nil, eris.Wrap(err, "sheets credentials")
		}
		return gsheets.NewClient(sa, opts...), nil
	}
	if sc.APIKey != "" {
		return gsheets.NewClient(nil, append(opts, gsheets.WithAPIKey(sc.APIKey))...), nil
	}
	return nil, eris.New("sheets credentials are required (LEADTRACK_SHEETS_CLIENT_EMAIL and LEADTRACK_SHEETS_PRIVATE_KEY, or LEADTRACK_SHEETS_API_KEY)")
}
