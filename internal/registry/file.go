package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
)

// FileStore keeps the registry as a JSON document on disk. A missing file
// reads as an empty registry.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) read() (model.SheetConfig, error) {
	cfg := model.SheetConfig{Sheets: []model.TrackedSheet{}}
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, eris.Wrapf(err, "registry: read %s", f.path)
	}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "registry: decode %s", f.path)
	}
	if cfg.Sheets == nil {
		cfg.Sheets = []model.TrackedSheet{}
	}
	return cfg, nil
}

func (f *FileStore) write(cfg model.SheetConfig) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return eris.Wrap(err, "registry: encode config")
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "registry: create %s", dir)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return eris.Wrapf(err, "registry: write %s", tmp)
	}
	return eris.Wrapf(os.Rename(tmp, f.path), "registry: replace %s", f.path)
}

func (f *FileStore) List(_ context.Context) ([]model.TrackedSheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, err := f.read()
	if err != nil {
		return nil, err
	}
	return cfg.Sheets, nil
}

func (f *FileStore) Get(_ context.Context, id string) (*model.TrackedSheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, err := f.read()
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

func (f *FileStore) Add(_ context.Context, sheet model.TrackedSheet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, err := f.read()
	if err != nil {
		return err
	}
	if find(cfg.Sheets, sheet.ID) >= 0 {
		return ErrAlreadyTracked
	}
	cfg.Sheets = append(cfg.Sheets, sheet)
	return f.write(cfg)
}

func (f *FileStore) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, err := f.read()
	if err != nil {
		return err
	}
	cfg.Sheets = without(cfg.Sheets, id)
	return f.write(cfg)
}

func (f *FileStore) Close() error { return nil }
