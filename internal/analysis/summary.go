package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"presshealth/domain/health"
	"presshealth/domain/press"
)

// maxSummaryWorkers bounds concurrent per-press summaries
const maxSummaryWorkers = 8

// Summarize builds one summary line per press, SNs ascending.
// Presses are summarized concurrently; the output order does not depend on scheduling.
func Summarize(ctx context.Context, rows []press.Row) ([]press.PressSummary, error) {
	sns, bySN := SplitBySN(rows)
	summaries := make([]press.PressSummary, len(sns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSummaryWorkers)
	for i, sn := range sns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summaries[i] = SummarizePress(sn, bySN[sn])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// SummarizePress computes the selection-list line for one press
func SummarizePress(sn int, rows []press.Row) press.PressSummary {
	scaling := health.EvaluateColumn(statusColumn(rows, press.ColScalingStatus))
	gap := health.EvaluateColumn(statusColumn(rows, press.ColGapStatus))
	overall := health.EvaluateColumn(statusColumn(rows, press.ColStatusForHistory))

	return press.PressSummary{
		SN:                   sn,
		Cycles:               Cycles(rows),
		ScalingHealth:        string(scaling.Label),
		ScalingHealthPercent: scaling.Percent(),
		GapHealth:            string(gap.Label),
		GapHealthPercent:     gap.Percent(),
		OverallHealth:        string(overall.Label),
		OverallHealthPercent: overall.Percent(),
		Color:                string(overall.Color),
	}
}

// Cycles sums, over calibration ids, the highest blanket id reached
func Cycles(rows []press.Row) int {
	maxByCalibration := make(map[string]int)
	for _, r := range rows {
		if cur, ok := maxByCalibration[r.CalibrationID]; !ok || r.BlanketID > cur {
			maxByCalibration[r.CalibrationID] = r.BlanketID
		}
	}
	total := 0
	for _, m := range maxByCalibration {
		total += m
	}
	return total
}
