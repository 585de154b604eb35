package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"presshealth/domain/core"
	"presshealth/domain/press"
	"presshealth/internal"
)

// File types handled by DataReader
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DataReader handles reading uploaded Excel and CSV exports
type DataReader struct {
	fileType string
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a reader for filename's type (.csv or .xlsx)
func NewDataReader(filename string, config ReaderConfig) (*DataReader, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}
	return &DataReader{
		fileType: fileType,
		config:   config,
		logger:   internal.DefaultLogger.With("DataReader"),
	}, nil
}

// WithLogger makes the reader log through logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger.With("DataReader")
	return r
}

// DetectFileType maps a filename extension to a supported file type
func DetectFileType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx":
		return FileTypeXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (want .csv or .xlsx)", core.ErrUnsupportedExt, filename)
	}
}

// MimeType returns the MIME type of the reader's file type
func (r *DataReader) MimeType() string {
	if r.fileType == FileTypeCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ReadRows reads a whole file and converts it into measurement rows
func (r *DataReader) ReadRows(file io.Reader) ([]press.Row, error) {
	data, err := r.ReadData(file)
	if err != nil {
		return nil, err
	}
	return ToRows(data, r.config.RequiredColumns)
}

// ReadData reads raw header-keyed rows
func (r *DataReader) ReadData(file io.Reader) (*SheetData, error) {
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case FileTypeCSV:
		rows, err = r.readCSV(file)
	case FileTypeXLSX:
		rows, err = r.readExcel(file)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedExt, r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s file must have a header row and at least one data row", core.ErrEmptyFile, strings.ToUpper(r.fileType))
	}
	if r.config.MaxRows > 0 && len(rows)-1 > r.config.MaxRows {
		return nil, fmt.Errorf("%w: %d data rows exceed the limit of %d", core.ErrInvalidValue, len(rows)-1, r.config.MaxRows)
	}

	data := processRows(rows)
	r.logger.Debug("%s file read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(start).Nanoseconds())/1e6, len(data.Headers), len(data.Rows))
	return data, nil
}

func (r *DataReader) readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readExcel(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyFile)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts raw string rows into header-keyed rows. Headers are
// lower-cased and trimmed; a leading UTF-8 BOM is dropped.
func processRows(rows [][]string) *SheetData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, "\uFEFF")
		}
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &SheetData{Headers: headers, Rows: dataRows}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ToRows validates the header row and converts raw rows into measurement rows.
// Line numbers in errors are 1-based file lines (the header is line 1).
func ToRows(data *SheetData, required []string) ([]press.Row, error) {
	present := make(map[string]bool, len(data.Headers))
	for _, h := range data.Headers {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return nil, core.NewMissingColumnError(col)
		}
	}
	if len(data.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", core.ErrEmptyFile)
	}

	known := make(map[string]bool, len(press.RequiredColumns))
	for _, col := range press.RequiredColumns {
		known[col] = true
	}

	rows := make([]press.Row, 0, len(data.Rows))
	for i, raw := range data.Rows {
		line := i + 2
		row, err := toRow(raw, line)
		if err != nil {
			return nil, err
		}
		for k, v := range raw {
			if known[k] || k == "" {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRow(raw RawRowData, line int) (press.Row, error) {
	var (
		row press.Row
		err error
	)
	if row.SN, err = parseInt(raw, press.ColSN, line); err != nil {
		return row, err
	}
	if row.BlanketID, err = parseInt(raw, press.ColBlanketID, line); err != nil {
		return row, err
	}
	if row.ImageScalingUsedUPM, err = parseFloat(raw, press.ColImageScalingUsedUPM, line); err != nil {
		return row, err
	}
	if row.ImageScalingErrorUPM, err = parseFloat(raw, press.ColImageScalingErrorUPM, line); err != nil {
		return row, err
	}
	if row.GapErrorFinalUM, err = parseFloat(raw, press.ColGapErrorFinalUM, line); err != nil {
		return row, err
	}

	row.CalibrationName = raw[press.ColCalibrationName]
	row.CalibrationID = raw[press.ColCalibrationID]
	row.SubstrateName = raw[press.ColSubstrateName]
	row.StatusForHistory = raw[press.ColStatusForHistory]
	row.ScalingStatus = raw[press.ColScalingStatus]
	row.GapStatus = raw[press.ColGapStatus]
	row.StartTime = raw[press.ColStartTime]
	return row, nil
}

// parseFloat reads a numeric cell; blank cells read as 0. NaN and infinities
// are rejected since they cannot be encoded as JSON.
func parseFloat(raw RawRowData, column string, line int) (float64, error) {
	value := raw[column]
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, core.NewInvalidValueError(column, line, value)
	}
	return f, nil
}

// parseInt reads an integer cell, accepting integral floats such as "12.0"
func parseInt(raw RawRowData, column string, line int) (int, error) {
	value := raw[column]
	if value == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, core.NewInvalidValueError(column, line, value)
	}
	return int(f), nil
}
