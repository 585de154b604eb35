// Package analysis holds the server-side computations behind the press
// dashboard: session grouping, press summaries, outlier removal, error spread
// and status counting.
package analysis

import (
	"sort"

	"presshealth/domain/health"
	"presshealth/domain/press"
)

// GroupSessions splits a press's rows by start time. Sessions are listed in
// order of first appearance and keyed by the short start time; rows keep file order.
func GroupSessions(rows []press.Row) ([]press.StartTime, map[string][]press.Row) {
	sessions := make(map[string][]press.Row)
	fullTimes := make(map[string]string)
	var order []string

	for _, r := range rows {
		key := press.ShortStartTime(r.StartTime)
		if _, seen := sessions[key]; !seen {
			order = append(order, key)
			fullTimes[key] = r.StartTime
		}
		sessions[key] = append(sessions[key], r)
	}

	startTimes := make([]press.StartTime, 0, len(order))
	for _, key := range order {
		h := health.Evaluate(sessions[key])
		startTimes = append(startTimes, press.StartTime{
			ShortTime:    key,
			FullTime:     fullTimes[key],
			HealthStatus: string(h.Label),
			HealthColor:  string(h.Color),
			Percent:      h.Percent(),
		})
	}
	return startTimes, sessions
}

// BuildPressData assembles the main-view payload for the rows of one press
func BuildPressData(sn int, rows []press.Row) *press.PressData {
	startTimes, sessions := GroupSessions(rows)
	overall := health.EvaluateColumn(statusColumn(rows, press.ColStatusForHistory))
	return &press.PressData{
		SN:            sn,
		StartTimes:    startTimes,
		OverallHealth: string(overall.Label),
		Sessions:      sessions,
	}
}

// SplitBySN groups rows per press, SNs ascending
func SplitBySN(rows []press.Row) ([]int, map[int][]press.Row) {
	bySN := make(map[int][]press.Row)
	for _, r := range rows {
		bySN[r.SN] = append(bySN[r.SN], r)
	}
	sns := make([]int, 0, len(bySN))
	for sn := range bySN {
		sns = append(sns, sn)
	}
	sort.Ints(sns)
	return sns, bySN
}

// FilterSN returns the rows of one press in file order
func FilterSN(rows []press.Row, sn int) []press.Row {
	var out []press.Row
	for _, r := range rows {
		if r.SN == sn {
			out = append(out, r)
		}
	}
	return out
}

func statusColumn(rows []press.Row, column string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		switch column {
		case press.ColScalingStatus:
			out[i] = r.ScalingStatus
		case press.ColGapStatus:
			out[i] = r.GapStatus
		default:
			out[i] = r.StatusForHistory
		}
	}
	return out
}
