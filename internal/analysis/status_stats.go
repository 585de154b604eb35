package analysis

import (
	"sort"

	"presshealth/domain/press"
)

// CountStatuses splits a status column into the exact "Succeeded" count and the
// remaining statuses, most frequent first, ties by name. Empty cells are skipped.
func CountStatuses(values []string) press.StatusStats {
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}

	out := press.StatusStats{
		Succeeded: counts[press.StatusSucceeded],
		Others:    []press.StatusCount{},
	}
	delete(counts, press.StatusSucceeded)

	for status, n := range counts {
		out.Others = append(out.Others, press.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out.Others, func(i, j int) bool {
		if out.Others[i].Count != out.Others[j].Count {
			return out.Others[i].Count > out.Others[j].Count
		}
		return out.Others[i].Status < out.Others[j].Status
	})
	return out
}

// SessionErrorStats counts the scaling and gap status columns of a session
func SessionErrorStats(rows []press.Row) *press.ErrorStats {
	return &press.ErrorStats{
		ScalingStats: CountStatuses(statusColumn(rows, press.ColScalingStatus)),
		GapStats:     CountStatuses(statusColumn(rows, press.ColGapStatus)),
	}
}
