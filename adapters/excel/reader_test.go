package excel

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"presshealth/domain/core"
	"presshealth/internal"
)

const header = "sn,calibrationname,substratename,statusforhistory,scalingstatus,gapstatus,imagescalingusedupm,blanketid,calibrationid,gaperrorfinalum,imagescalingerrorupm,starttime,operator"

func TestReadRowsCSV(t *testing.T) {
	csvData := header + "\n" +
		"101,CalA,Paper,Succeeded,Succeeded,Succeeded,-14010.5,1,7,2.5,-1.25,2024-03-01 10:00:00.123,ana\n" +
		"\n" +
		"101,CalA,Paper,Failed,Scaling limit,Succeeded,-14011,2.0,7,,3,2024-03-01 10:00:00.123,ana\n"

	reader, err := NewDataReader("export.CSV", DefaultReaderConfig())
	require.NoError(t, err)
	assert.Equal(t, "text/csv", reader.MimeType())

	rows, err := reader.ReadRows(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 101, rows[0].SN)
	assert.Equal(t, "CalA", rows[0].CalibrationName)
	assert.Equal(t, "7", rows[0].CalibrationID)
	assert.Equal(t, -14010.5, rows[0].ImageScalingUsedUPM)
	assert.Equal(t, -1.25, rows[0].ImageScalingErrorUPM)
	assert.Equal(t, 2.5, rows[0].GapErrorFinalUM)
	assert.Equal(t, "2024-03-01 10:00:00.123", rows[0].StartTime)
	assert.Equal(t, map[string]string{"operator": "ana"}, rows[0].Extra)

	assert.Equal(t, 2, rows[1].BlanketID)
	assert.Equal(t, 0.0, rows[1].GapErrorFinalUM)
	assert.Equal(t, "Scaling limit", rows[1].ScalingStatus)
}

func TestReadRowsMissingColumn(t *testing.T) {
	csvData := "sn,blanketid\n1,1\n"
	reader, err := NewDataReader("x.csv", DefaultReaderConfig())
	require.NoError(t, err)

	_, err = reader.ReadRows(strings.NewReader(csvData))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingColumn)
	assert.Contains(t, err.Error(), `"calibrationname"`)
}

func TestReadRowsInvalidNumber(t *testing.T) {
	csvData := header + "\n101,CalA,Paper,Succeeded,Succeeded,Succeeded,abc,1,7,2.5,-1.25,t,ana\n"
	reader, err := NewDataReader("x.csv", DefaultReaderConfig())
	require.NoError(t, err)

	_, err = reader.ReadRows(strings.NewReader(csvData))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidValue)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadRowsRejectsNonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"nan gap", "101,CalA,Paper,Succeeded,Succeeded,Succeeded,-14000,1,7,NaN,0.5,t,ana", "gaperrorfinalum"},
		{"inf scaling", "101,CalA,Paper,Succeeded,Succeeded,Succeeded,-14000,1,7,1,+Inf,t,ana", "imagescalingerrorupm"},
		{"negative inf used", "101,CalA,Paper,Succeeded,Succeeded,Succeeded,-Inf,1,7,1,0.5,t,ana", "imagescalingusedupm"},
		{"nan blanket", "101,CalA,Paper,Succeeded,Succeeded,Succeeded,-14000,nan,7,1,0.5,t,ana", "blanketid"},
		{"inf sn", "Infinity,CalA,Paper,Succeeded,Succeeded,Succeeded,-14000,1,7,1,0.5,t,ana", "sn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewDataReader("x.csv", DefaultReaderConfig())
			require.NoError(t, err)

			_, err = reader.ReadRows(strings.NewReader(header + "\n" + tt.row + "\n"))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidValue)
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}

func TestReadDataLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := internal.NewLogger(internal.LogLevelDebug)
	logger.SetOutput(log.New(&buf, "", 0))

	reader, err := NewDataReader("x.csv", DefaultReaderConfig())
	require.NoError(t, err)
	reader.WithLogger(logger)

	_, err = reader.ReadData(strings.NewReader(header + "\n101,CalA,Paper,Succeeded,Succeeded,Succeeded,-14000,1,7,1,0.5,t,ana\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[DEBUG] [DataReader] CSV file read")
}

func TestReadRowsHeaderOnly(t *testing.T) {
	reader, err := NewDataReader("x.csv", DefaultReaderConfig())
	require.NoError(t, err)

	_, err = reader.ReadRows(strings.NewReader(header + "\n"))
	assert.ErrorIs(t, err, core.ErrEmptyFile)
}

func TestReadRowsRespectsMaxRows(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.MaxRows = 1
	reader, err := NewDataReader("x.csv", cfg)
	require.NoError(t, err)

	line := "101,CalA,Paper,Succeeded,Succeeded,Succeeded,1,1,7,2.5,-1.25,t,ana\n"
	_, err = reader.ReadRows(strings.NewReader(header + "\n" + line + line))
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := NewDataReader("export.xls", DefaultReaderConfig())
	assert.ErrorIs(t, err, core.ErrUnsupportedExt)
}

func TestReadRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	headers := strings.Split(strings.ToUpper(header), ",")
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &headers))
	values := []interface{}{202, "CalB", "Film", "Succeeded", "Succeeded", "Gap too wide", -14000, 3, 9, 4.5, 0.75, "2024-03-02 08:00:00.5", "bo"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &values))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	reader, err := NewDataReader("press.xlsx", DefaultReaderConfig())
	require.NoError(t, err)

	rows, err := reader.ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 202, rows[0].SN)
	assert.Equal(t, 3, rows[0].BlanketID)
	assert.Equal(t, "Gap too wide", rows[0].GapStatus)
	assert.Equal(t, 0.75, rows[0].ImageScalingErrorUPM)
	assert.Equal(t, "2024-03-02 08:00:00.5", rows[0].StartTime)
}
