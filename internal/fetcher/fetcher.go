// Package fetcher reads lead sheets exported to local XLSX and CSV files.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack/internal/model"
)

// FileSource serves sheet data from files on disk. The source id is a path
// (relative paths resolve against Dir); the tab picks the XLSX worksheet and
// is ignored for CSV.
type FileSource struct {
	Dir string
}

// FetchRows reads the file and splits off its header row.
func (s FileSource) FetchRows(ctx context.Context, sourceID, tab string) (*model.SheetData, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "fetcher: context cancelled")
	}

	path := sourceID
	if s.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = ReadXLSX(path, XLSXOptions{SheetName: tab})
	case ".csv":
		rows, err = readCSVFile(path, CSVOptions{})
	default:
		return nil, eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return split(rows), nil
}

// Metadata reports the file name as title and, for XLSX, its worksheets.
func (s FileSource) Metadata(_ context.Context, sourceID string) (*model.SheetMetadata, error) {
	path := sourceID
	if s.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "fetcher: stat %s", path)
	}
	meta := &model.SheetMetadata{
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Tabs:  []string{model.DefaultSheetTab},
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		tabs, err := SheetNames(path)
		if err != nil {
			return nil, err
		}
		meta.Tabs = tabs
	}
	return meta, nil
}

func split(rows [][]string) *model.SheetData {
	data := &model.SheetData{Headers: []string{}, Rows: [][]string{}}
	if len(rows) == 0 {
		return data
	}
	data.Headers = rows[0]
	data.Rows = rows[1:]
	return data
}

func readCSVFile(path string, opts CSVOptions) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return ReadCSV(f, opts)
}
