package excel

import "presshealth/domain/press"

// RawRowData represents a single row of raw data keyed by normalized header
type RawRowData map[string]string

// SheetData is the header row plus the data rows of one file
type SheetData struct {
	Headers []string
	Rows    []RawRowData
}

func pressColumns() []string {
	return press.RequiredColumns
}
