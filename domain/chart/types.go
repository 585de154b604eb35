// Package chart defines what crosses the presentation boundary: named numeric
// series keyed by blanket id, grouped into one panel per rendered session.
package chart

import (
	"presshealth/domain/core"
	"presshealth/domain/health"
	"presshealth/domain/press"
)

// Point is one plotted value; X is the blanket id
type Point struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

// Series is an ordered, named sequence of points
type Series struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Points []Point `json:"points"`
}

// Values returns the Y values in order
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Y
	}
	return out
}

// PanelStatus tracks a panel's render pipeline
type PanelStatus string

const (
	PanelPending PanelStatus = "pending"
	PanelReady   PanelStatus = "ready"
	PanelFailed  PanelStatus = "failed"
)

// Panel is one independently dismissible session view
type Panel struct {
	ID            core.PanelID      `json:"id"`
	SessionKey    string            `json:"session_key"`
	Health        health.Health     `json:"health"`
	Status        PanelStatus       `json:"status"`
	MaxBlanketID  int               `json:"max_blanket_id"`
	Scaling       Series            `json:"scaling"`
	Gap           Series            `json:"gap"`
	Trend         *Series           `json:"trend,omitempty"`
	ScalingStdDev float64           `json:"scaling_std_dev"`
	GapStdDev     float64           `json:"gap_std_dev"`
	ScalingTrend  *press.Trend      `json:"scaling_trend,omitempty"`
	ErrorStats    *press.ErrorStats `json:"error_stats,omitempty"`
	Err           string            `json:"error,omitempty"`
}
