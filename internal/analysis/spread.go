package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"presshealth/domain/press"
)

// Process cleans a session (when asked) and computes its error spread
func Process(req press.ProcessRequest) (*press.ProcessResult, error) {
	rows := req.SessionData
	if req.RemoveOutliers {
		level := req.OutlierLevel
		if level == 0 {
			level = DefaultOutlierLevel
		}
		if err := ValidateLevel(level); err != nil {
			return nil, err
		}
		rows = CleanSession(rows, level)
	}
	if rows == nil {
		rows = []press.Row{}
	}

	scaling := make([]float64, len(rows))
	gap := make([]float64, len(rows))
	for i, r := range rows {
		scaling[i] = r.ImageScalingErrorUPM
		gap[i] = r.GapErrorFinalUM
	}

	result := &press.ProcessResult{
		PlotData:      rows,
		ScalingStdDev: StdDev(scaling),
		GapStdDev:     StdDev(gap),
	}
	if req.ShowTrend {
		result.ScalingTrend = FitTrend(rows)
	}
	return result, nil
}

// StdDev is the sample standard deviation rounded to two decimals; fewer than
// two values have no spread.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return math.Round(sd*100) / 100
}

// FitTrend fits scaling error against blanket id by least squares.
// It returns nil when the fit is undefined (fewer than two distinct ids).
func FitTrend(rows []press.Row) *press.Trend {
	if len(rows) < 2 {
		return nil
	}
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = float64(r.BlanketID)
		ys[i] = r.ImageScalingErrorUPM
	}
	if v := stat.Variance(xs, nil); v == 0 || math.IsNaN(v) {
		return nil
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return &press.Trend{Slope: beta, Intercept: alpha}
}
