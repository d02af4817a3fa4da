package sheets

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
	"github.com/sells-group/leadtrack/internal/registry"
)

// Errors returned by Track, wrapped with detail. Match with errors.Is.
var (
	ErrMissingFields    = eris.New("URL and Client Tag are required")
	ErrInvalidSheetID   = eris.New("could not extract sheet ID from input")
	ErrSheetUnavailable = eris.New("could not access sheet")
	ErrTabNotFound      = eris.New("tab not found in sheet")
)

// TrackRequest names a sheet to start tracking.
type TrackRequest struct {
	Input     string // Sheets URL or bare id
	ClientTag string
	SheetName string // optional tab, checked against the sheet's tabs
}

// Track validates a sheet against its source and adds it to the registry.
// Duplicates fail with registry.ErrAlreadyTracked.
func Track(ctx context.Context, store registry.Store, meta MetadataSource, req TrackRequest, now time.Time) (model.TrackedSheet, error) {
	input := strings.TrimSpace(req.Input)
	clientTag := strings.TrimSpace(req.ClientTag)
	tab := strings.TrimSpace(req.SheetName)
	if input == "" || clientTag == "" {
		return model.TrackedSheet{}, ErrMissingFields
	}

	id, err := registry.ExtractSheetID(input)
	if err != nil {
		return model.TrackedSheet{}, eris.Wrapf(ErrInvalidSheetID, "input %q", input)
	}

	md, err := meta.Metadata(ctx, id)
	if err != nil {
		return model.TrackedSheet{}, eris.Wrap(err, ErrSheetUnavailable.Error())
	}
	if tab != "" && !slices.Contains(md.Tabs, tab) {
		return model.TrackedSheet{}, eris.Wrapf(ErrTabNotFound, "tab %q", tab)
	}

	sheet := model.TrackedSheet{
		ID:        id,
		Name:      md.Title,
		ClientTag: clientTag,
		SheetName: tab,
		AddedAt:   now.UTC(),
	}
	if err := store.Add(ctx, sheet); err != nil {
		return model.TrackedSheet{}, err
	}
	return sheet, nil
}
