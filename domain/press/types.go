// Package press holds the measurement rows of press calibration exports and the
// payloads exchanged between the dashboard client and the computation service.
package press

import (
	"strings"
	"time"

	"presshealth/domain/core"
)

// Column names of a press calibration export
const (
	ColSN                   = "sn"
	ColCalibrationName      = "calibrationname"
	ColCalibrationID        = "calibrationid"
	ColSubstrateName        = "substratename"
	ColStatusForHistory     = "statusforhistory"
	ColScalingStatus        = "scalingstatus"
	ColGapStatus            = "gapstatus"
	ColImageScalingUsedUPM  = "imagescalingusedupm"
	ColImageScalingErrorUPM = "imagescalingerrorupm"
	ColGapErrorFinalUM      = "gaperrorfinalum"
	ColBlanketID            = "blanketid"
	ColStartTime            = "starttime"
)

// RequiredColumns lists the header names every upload must carry
var RequiredColumns = []string{
	ColSN, ColCalibrationName, ColSubstrateName, ColStatusForHistory, ColScalingStatus, ColGapStatus,
	ColImageScalingUsedUPM, ColBlanketID, ColCalibrationID, ColGapErrorFinalUM, ColImageScalingErrorUPM,
	ColStartTime,
}

// StatusSucceeded marks a successful calibration step in the status columns
const StatusSucceeded = "Succeeded"

// Row is a single process measurement
type Row struct {
	SN                   int               `json:"sn"`
	CalibrationName      string            `json:"calibrationname"`
	CalibrationID        string            `json:"calibrationid"`
	SubstrateName        string            `json:"substratename"`
	StatusForHistory     string            `json:"statusforhistory"`
	ScalingStatus        string            `json:"scalingstatus"`
	GapStatus            string            `json:"gapstatus"`
	ImageScalingUsedUPM  float64           `json:"imagescalingusedupm"`
	ImageScalingErrorUPM float64           `json:"imagescalingerrorupm"`
	GapErrorFinalUM      float64           `json:"gaperrorfinalum"`
	BlanketID            int               `json:"blanketid"`
	StartTime            string            `json:"starttime"`
	Extra                map[string]string `json:"extra,omitempty"`
}

// ShortStartTime cuts a start time at its fractional seconds; it is the session key
func ShortStartTime(full string) string {
	if i := strings.Index(full, "."); i >= 0 {
		return full[:i]
	}
	return full
}

// View discriminates the two upload outcomes
type View string

const (
	ViewSingle     View = "single"
	ViewMultiPress View = "multi_press"
)

// StartTime annotates one session of a press with its health
type StartTime struct {
	ShortTime    string  `json:"short_time"`
	FullTime     string  `json:"full_time"`
	HealthStatus string  `json:"health_status"`
	HealthColor  string  `json:"health_color"`
	Percent      float64 `json:"percent"`
}

// PressSummary is one line of the press selection list
type PressSummary struct {
	SN                   int     `json:"sn"`
	Cycles               int     `json:"cycles"`
	ScalingHealth        string  `json:"scalingHealth"`
	ScalingHealthPercent float64 `json:"scalingHealthPercent"`
	GapHealth            string  `json:"gapHealth"`
	GapHealthPercent     float64 `json:"gapHealthPercent"`
	OverallHealth        string  `json:"overallHealth"`
	OverallHealthPercent float64 `json:"overallHealthPercent"`
	Color                string  `json:"color"`
}

// UploadResult is the upload response; it is immutable once received
type UploadResult struct {
	Filename      string           `json:"filename"`
	View          View             `json:"view"`
	SN            int              `json:"sn,omitempty"`
	Summary       []PressSummary   `json:"summary,omitempty"`
	StartTimes    []StartTime      `json:"startTimes,omitempty"`
	OverallHealth string           `json:"overallHealth,omitempty"`
	Sessions      map[string][]Row `json:"sessions,omitempty"`
}

// IsMultiPress reports whether the upload needs a press selection step
func (u *UploadResult) IsMultiPress() bool {
	return u != nil && u.View == ViewMultiPress
}

// PressData returns the single-press payload carried by a single upload
func (u *UploadResult) PressData() *PressData {
	if u == nil || u.View != ViewSingle {
		return nil
	}
	return &PressData{
		SN:            u.SN,
		StartTimes:    u.StartTimes,
		OverallHealth: u.OverallHealth,
		Sessions:      u.Sessions,
	}
}

// PressData is everything the main view needs for one press
type PressData struct {
	SN            int              `json:"sn"`
	StartTimes    []StartTime      `json:"startTimes"`
	OverallHealth string           `json:"overallHealth"`
	Sessions      map[string][]Row `json:"sessions"`
}

// Session returns the rows of one session key
func (p *PressData) Session(key string) ([]Row, bool) {
	if p == nil {
		return nil, false
	}
	rows, ok := p.Sessions[key]
	return rows, ok
}

// FirstSessionKey returns the key of the earliest listed session
func (p *PressData) FirstSessionKey() string {
	if p == nil || len(p.StartTimes) == 0 {
		return ""
	}
	return p.StartTimes[0].ShortTime
}

// PressDataRequest asks for one press of a stored upload. SN 0 is a valid
// press (blank sn cells read as 0), so it is not a required field.
type PressDataRequest struct {
	Filename string `json:"filename" binding:"required"`
	SN       int    `json:"sn"`
}

// SessionHealthRequest asks for the health of one session of a stored upload
type SessionHealthRequest struct {
	Filename   string `json:"filename" binding:"required"`
	SN         int    `json:"sn"`
	SessionKey string `json:"sessionKey" binding:"required"`
}

// ProcessRequest carries a session to be cleaned for plotting
type ProcessRequest struct {
	SessionData    []Row `json:"sessionData"`
	RemoveOutliers bool  `json:"removeOutliers"`
	OutlierLevel   int   `json:"outlierLevel"`
	ShowTrend      bool  `json:"showTrend"`
}

// Trend is a least-squares line of a series against blanket id
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// ProcessResult is the cleaned session plus aggregate error statistics
type ProcessResult struct {
	PlotData      []Row   `json:"plotData"`
	ScalingStdDev float64 `json:"scalingStdDev"`
	GapStdDev     float64 `json:"gapStdDev"`
	ScalingTrend  *Trend  `json:"scalingTrend,omitempty"`
}

// ErrorStatsRequest carries a session whose status columns are counted
type ErrorStatsRequest struct {
	SessionData []Row `json:"sessionData"`
}

// StatusCount is one non-succeeded status and how often it occurred
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusStats splits a status column into succeeded and everything else.
// Succeeded is always present, zero when no row succeeded.
type StatusStats struct {
	Succeeded int           `json:"succeeded"`
	Others    []StatusCount `json:"others"`
}

// ErrorStats covers both status columns of a session
type ErrorStats struct {
	ScalingStats StatusStats `json:"scalingStats"`
	GapStats     StatusStats `json:"gapStats"`
}

// Upload is a stored, parsed upload
type Upload struct {
	ID        core.UploadID `json:"id"`
	Filename  string        `json:"filename"`
	MimeType  string        `json:"mime_type"`
	FileSize  int64         `json:"file_size"`
	RowCount  int           `json:"row_count"`
	CreatedAt time.Time     `json:"created_at"`
	Rows      []Row         `json:"-"`
}
