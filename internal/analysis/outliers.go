package analysis

import (
	"fmt"
	"math"

	"presshealth/domain/core"
	"presshealth/domain/press"
)

// Outlier levels accepted by RemoveOutliers
const (
	MinOutlierLevel     = 1
	MaxOutlierLevel     = 5
	DefaultOutlierLevel = 1
)

// nearZero treats a neighbour mean and a point both below it as flat signal
const nearZero = 1e-9

// ValidateLevel checks an outlier severity level
func ValidateLevel(level int) error {
	if level < MinOutlierLevel || level > MaxOutlierLevel {
		return fmt.Errorf("%w: %d (want %d..%d)", core.ErrInvalidLevel, level, MinOutlierLevel, MaxOutlierLevel)
	}
	return nil
}

// RemoveOutliers replaces spikes with the rounded-up integer mean of their
// neighbours. A point is a spike when its magnitude exceeds the neighbour mean's
// magnitude by a factor of 10^level. The scan works on the corrected series, so a
// replaced point is the left neighbour of the next test. Series shorter than
// three points are returned unchanged. The input slice is not modified.
func RemoveOutliers(values []float64, level int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(out) < 3 {
		return out
	}

	factor := math.Pow(10, float64(level))
	for i := 1; i < len(out)-1; i++ {
		before, current, after := out[i-1], out[i], out[i+1]
		mean := (before + after) / 2
		if math.Abs(mean) < nearZero && math.Abs(current) < nearZero {
			continue
		}
		if math.Abs(current) > math.Abs(mean)*factor {
			sum := before + after
			if floorMod(sum, 2) != 0 {
				sum++
			}
			out[i] = math.Floor(sum / 2)
		}
	}
	return out
}

// floorMod is the modulo whose sign follows the divisor
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// CleanSession removes outliers from the three plotted measurement columns and
// returns new rows in the same order.
func CleanSession(rows []press.Row, level int) []press.Row {
	scaling := make([]float64, len(rows))
	used := make([]float64, len(rows))
	gap := make([]float64, len(rows))
	for i, r := range rows {
		scaling[i] = r.ImageScalingErrorUPM
		used[i] = r.ImageScalingUsedUPM
		gap[i] = r.GapErrorFinalUM
	}

	scaling = RemoveOutliers(scaling, level)
	used = RemoveOutliers(used, level)
	gap = RemoveOutliers(gap, level)

	out := make([]press.Row, len(rows))
	for i, r := range rows {
		r.ImageScalingErrorUPM = scaling[i]
		r.ImageScalingUsedUPM = used[i]
		r.GapErrorFinalUM = gap[i]
		out[i] = r
	}
	return out
}
