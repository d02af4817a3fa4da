package model

import "time"

// TrackedSheet is a spreadsheet registered for ingestion.
type TrackedSheet struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	ClientTag string    `json:"clientTag" yaml:"client_tag"`
	SheetName string    `json:"sheetName,omitempty" yaml:"sheet_name,omitempty"`
	AddedAt   time.Time `json:"addedAt" yaml:"added_at"`
}

// Tab returns the tab to read, falling back to DefaultSheetTab.
func (s TrackedSheet) Tab() string {
	if s.SheetName == "" {
		return DefaultSheetTab
	}
	return s.SheetName
}

// SheetConfig is the persisted registry document.
type SheetConfig struct {
	Sheets []TrackedSheet `json:"sheets"`
}

// SheetData holds the raw contents of one tab: the header row and every
// row below it.
type SheetData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// SheetMetadata describes a source before any rows are read.
type SheetMetadata struct {
	Title string   `json:"title"`
	Tabs  []string `json:"tabs"`
}
