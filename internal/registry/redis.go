package registry

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
)

// DefaultRedisKey holds the registry document in Redis.
const DefaultRedisKey = "sheets-config"

// maxTxRetries bounds optimistic-lock retries on concurrent writers.
const maxTxRetries = 5

// RedisStore keeps the registry as one JSON document under a single key.
// Writes use WATCH/MULTI so concurrent adds do not clobber each other.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedis connects to the Redis server at url (redis://...).
func NewRedis(ctx context.Context, url, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrap(err, "redis: parse url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "redis: ping")
	}
	return NewRedisStore(client, key), nil
}

// NewRedisStore wraps an existing client. An empty key uses DefaultRedisKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) read(ctx context.Context, c redis.Cmdable) (model.SheetConfig, error) {
	cfg := model.SheetConfig{Sheets: []model.TrackedSheet{}}
	raw, err := c.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return cfg, nil
	}
	if err != nil {
		return cfg, eris.Wrapf(err, "redis: get %s", r.key)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "redis: decode %s", r.key)
	}
	if cfg.Sheets == nil {
		cfg.Sheets = []model.TrackedSheet{}
	}
	return cfg, nil
}

// update applies fn to the stored document inside an optimistic transaction.
func (r *RedisStore) update(ctx context.Context, fn func(*model.SheetConfig) error) error {
	txf := func(tx *redis.Tx) error {
		cfg, err := r.read(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(&cfg); err != nil {
			return err
		}
		raw, err := json.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "redis: encode config")
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, r.key, raw, 0)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := r.client.Watch(ctx, txf, r.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrAlreadyTracked) {
			return eris.Wrap(err, "redis: update registry")
		}
		return err
	}
	return eris.New("redis: update registry: too many concurrent writers")
}

func (r *RedisStore) List(ctx context.Context) ([]model.TrackedSheet, error) {
	cfg, err := r.read(ctx, r.client)
	if err != nil {
		return nil, err
	}
	return cfg.Sheets, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*model.TrackedSheet, error) {
	cfg, err := r.read(ctx, r.client)
	if err != nil {
		return nil, err
	}
	i := find(cfg.Sheets, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s := cfg.Sheets[i]
	return &s, nil
}

func (r *RedisStore) Add(ctx context.Context, sheet model.TrackedSheet) error {
	return r.update(ctx, func(cfg *model.SheetConfig) error {
		if find(cfg.Sheets, sheet.ID) >= 0 {
			return ErrAlreadyTracked
		}
		cfg.Sheets = append(cfg.Sheets, sheet)
		return nil
	})
}

func (r *RedisStore) Remove(ctx context.Context, id string) error {
	return r.update(ctx, func(cfg *model.SheetConfig) error {
		cfg.Sheets = without(cfg.Sheets, id)
		return nil
	})
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
