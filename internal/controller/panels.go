package controller

import (
	"fmt"

	"presshealth/domain/chart"
	"presshealth/domain/health"
	"presshealth/domain/press"
)

// trendOffset shifts imagescalingusedupm onto the scaling error axis
const trendOffset = 14000

// Series names shown by renderers
const (
	SeriesScaling = "Scaling Error"
	SeriesGap     = "Gap Error"
	SeriesTrend   = "Scaling Used (normalized)"
)

// buildSeries maps rows to the scaling and gap series keyed by blanket id, in row order
func buildSeries(rows []press.Row) (scaling, gap chart.Series) {
	scaling = chart.Series{Name: SeriesScaling, Unit: "µm", Points: make([]chart.Point, len(rows))}
	gap = chart.Series{Name: SeriesGap, Unit: "µm", Points: make([]chart.Point, len(rows))}
	for i, r := range rows {
		scaling.Points[i] = chart.Point{X: r.BlanketID, Y: r.ImageScalingErrorUPM}
		gap.Points[i] = chart.Point{X: r.BlanketID, Y: r.GapErrorFinalUM}
	}
	return scaling, gap
}

// trendSeries is the scaling-used overlay, normalized by trendOffset
func trendSeries(rows []press.Row) *chart.Series {
	s := &chart.Series{Name: SeriesTrend, Unit: "µm", Points: make([]chart.Point, len(rows))}
	for i, r := range rows {
		s.Points[i] = chart.Point{X: r.BlanketID, Y: r.ImageScalingUsedUPM + trendOffset}
	}
	return s
}

// maxBlanketID is the number of blanket cycles a session ran
func maxBlanketID(rows []press.Row) int {
	max := 0
	for _, r := range rows {
		if r.BlanketID > max {
			max = r.BlanketID
		}
	}
	return max
}

// DropdownLabel formats a session entry as "<emoji> <short_time> (<status> - <percent>%)"
func DropdownLabel(st press.StartTime) string {
	return fmt.Sprintf("%s %s (%s - %g%%)",
		health.Emoji(health.Color(st.HealthColor)), st.ShortTime, st.HealthStatus, st.Percent)
}

// Legend numbers the non-succeeded statuses of a column as [1]..[n]
func Legend(stats press.StatusStats) []string {
	out := make([]string, 0, len(stats.Others))
	for i, o := range stats.Others {
		out = append(out, fmt.Sprintf("[%d] %s: %d", i+1, o.Status, o.Count))
	}
	return out
}
