// Package registry persists the set of tracked lead sheets.
package registry

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
)

var (
	// ErrAlreadyTracked is returned by Add for a sheet id already present.
	ErrAlreadyTracked = eris.New("sheet already tracked")
	// ErrNotFound is returned by Get for an unknown sheet id.
	ErrNotFound = eris.New("sheet not found")
)

// Store is the tracked-sheet registry. List returns sheets in the order
// they were added. Remove of an unknown id is a no-op.
type Store interface {
	List(ctx context.Context) ([]model.TrackedSheet, error)
	Get(ctx context.Context, id string) (*model.TrackedSheet, error)
	Add(ctx context.Context, sheet model.TrackedSheet) error
	Remove(ctx context.Context, id string) error
	Close() error
}

var (
	sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	bareIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ExtractSheetID pulls the spreadsheet id out of a Sheets URL, or accepts a
// bare id.
func ExtractSheetID(input string) (string, error) {
	if m := sheetURLPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if id := strings.TrimSpace(input); bareIDPattern.MatchString(id) {
		return id, nil
	}
	return "", eris.Errorf("registry: could not extract sheet id from %q", input)
}

// find returns the index of id in sheets, or -1.
func find(sheets []model.TrackedSheet, id string) int {
	for i, s := range sheets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// without returns sheets minus any entry with id.
func without(sheets []model.TrackedSheet, id string) []model.TrackedSheet {
	out := make([]model.TrackedSheet, 0, len(sheets))
	for _, s := range sheets {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
