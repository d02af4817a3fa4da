package sheets

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadtrack/internal/cache"
	"github.com/sells-group/leadtrack/internal/leads"
	"github.com/sells-group/leadtrack/internal/model"
)

// DefaultBatchSize is how many sources are fetched concurrently.
const DefaultBatchSize = 10

// AllLeadsKey is the cache key of the merged lead set.
const AllLeadsKey = "all-leads"

// SheetDataKey is the cache key of one tab's raw rows.
func SheetDataKey(sheetID, tab string) string {
	return "sheet-data:" + sheetID + ":" + tab
}

// Loader fetches tracked sheets in batches and caches what it reads.
type Loader struct {
	source    RowSource
	cache     cache.Cache
	batchSize int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBatchSize overrides DefaultBatchSize. Values below 1 are ignored.
func WithBatchSize(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// NewLoader creates a Loader. A nil cache disables memoization.
func NewLoader(source RowSource, c cache.Cache, opts ...LoaderOption) *Loader {
	if c == nil {
		c = cache.Nop{}
	}
	l := &Loader{source: source, cache: c, batchSize: DefaultBatchSize}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Cache returns the loader's cache.
func (l *Loader) Cache() cache.Cache { return l.cache }

// Raw returns one tab's rows, served from cache when fresh.
func (l *Loader) Raw(ctx context.Context, sheetID, tab string) (*model.SheetData, error) {
	key := SheetDataKey(sheetID, tab)
	if data, ok := cache.GetAs[*model.SheetData](l.cache, key); ok {
		return data, nil
	}

	data, err := l.source.FetchRows(ctx, sheetID, tab)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, data)
	return data, nil
}

// LoadSheet returns the accepted leads of one tracked sheet.
func (l *Loader) LoadSheet(ctx context.Context, s model.TrackedSheet) ([]model.Lead, error) {
	data, err := l.Raw(ctx, s.ID, s.Tab())
	if err != nil {
		return nil, err
	}
	return leads.NormalizeRows(data, s.ID, s.Tab()), nil
}

// LoadAll returns the merged leads of every sheet in registry order. Sheets
// that fail to load are logged and left out. The merged set is cached under
// AllLeadsKey; it is not cached when ctx ends mid-load.
func (l *Loader) LoadAll(ctx context.Context, tracked []model.TrackedSheet) ([]model.Lead, error) {
	if all, ok := cache.GetAs[[]model.Lead](l.cache, AllLeadsKey); ok {
		return all, nil
	}

	results := make([][]model.Lead, len(tracked))
	for start := 0; start < len(tracked); start += l.batchSize {
		end := min(start+l.batchSize, len(tracked))

		var g errgroup.Group
		for i := start; i < end; i++ {
			s := tracked[i]
			g.Go(func() error {
				got, err := l.LoadSheet(ctx, s)
				if err != nil {
					zap.L().Warn("sheets: load failed, skipping",
						zap.String("sheet_id", s.ID),
						zap.String("tab", s.Tab()),
						zap.Error(err),
					)
					return nil
				}
				results[i] = got
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "sheets: load all")
		}
	}

	all := make([]model.Lead, 0)
	for _, r := range results {
		all = append(all, r...)
	}

	zap.L().Debug("sheets: loaded",
		zap.Int("sheets", len(tracked)),
		zap.Int("leads", len(all)),
	)

	l.cache.Set(AllLeadsKey, all)
	return all, nil
}

// Invalidate drops every cached entry.
func (l *Loader) Invalidate() {
	l.cache.InvalidateAll()
}
