package excel

// ReaderConfig holds configuration for reading uploaded exports
type ReaderConfig struct {
	// Sheet is the worksheet read from XLSX files; empty means the first sheet
	Sheet string `json:"sheet"`
	// MaxRows caps the data rows accepted from one file; 0 means no cap
	MaxRows int `json:"max_rows"`
	// RequiredColumns must all appear in the header row
	RequiredColumns []string `json:"required_columns"`
}

// DefaultReaderConfig returns sensible defaults for press exports
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MaxRows:         1_000_000,
		RequiredColumns: append([]string(nil), pressColumns()...),
	}
}
