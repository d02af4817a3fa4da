// Package sheets loads tracked lead sheets from a row source, normalizes
// them and memoizes the results.
package sheets

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
	"github.com/sells-group/leadtrack/pkg/gsheets"
)

// valueColumns is the column span read from every tab.
const valueColumns = "A1:AZ"

// RowSource returns the raw contents of one tab of a source.
type RowSource interface {
	FetchRows(ctx context.Context, sourceID, tabName string) (*model.SheetData, error)
}

// MetadataSource describes a source without reading its rows.
type MetadataSource interface {
	Metadata(ctx context.Context, sourceID string) (*model.SheetMetadata, error)
}

// Source is a RowSource that can also describe itself.
type Source interface {
	RowSource
	MetadataSource
}

// GoogleSource adapts a gsheets.Client to Source.
type GoogleSource struct {
	client gsheets.Client
}

// NewGoogleSource wraps client.
func NewGoogleSource(client gsheets.Client) *GoogleSource {
	return &GoogleSource{client: client}
}

// FetchRows reads tabName!A1:AZ and splits off the header row.
func (g *GoogleSource) FetchRows(ctx context.Context, sourceID, tabName string) (*model.SheetData, error) {
	values, err := g.client.Values(ctx, sourceID, gsheets.A1Range(tabName, valueColumns))
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: fetch %s/%s", sourceID, tabName)
	}

	data := &model.SheetData{Headers: []string{}, Rows: [][]string{}}
	if len(values) > 0 {
		data.Headers = values[0]
		data.Rows = values[1:]
	}
	return data, nil
}

// Metadata returns the spreadsheet title ("Unknown" when blank) and its tabs.
func (g *GoogleSource) Metadata(ctx context.Context, sourceID string) (*model.SheetMetadata, error) {
	ss, err := g.client.Spreadsheet(ctx, sourceID)
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: metadata %s", sourceID)
	}
	title := ss.Properties.Title
	if title == "" {
		title = "Unknown"
	}
	return &model.SheetMetadata{Title: title, Tabs: ss.SheetTitles()}, nil
}
