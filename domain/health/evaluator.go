// Package health maps a session's success ratio to a health category and color.
//
// Every function here is pure: the same rows always yield the same Health, and
// nothing outside the arguments is read or written.
package health

import (
	"math"
	"strings"

	"presshealth/domain/press"
)

// Label is a categorical quality label
type Label string

const (
	Excellent    Label = "Excellent"
	Good         Label = "Good"
	Warning      Label = "Warning"
	Error        Label = "Error"
	NotAvailable Label = "N/A"
)

// Color is the display color attached to a Label
type Color string

const (
	Green  Color = "green"
	Gold   Color = "gold"
	Orange Color = "orange"
	Red    Color = "red"
	Grey   Color = "grey"
)

// Lower bounds of each band, inclusive
const (
	ExcellentThreshold = 90.0
	GoodThreshold      = 75.0
	WarningThreshold   = 40.0
)

// Health is the derived health of a row set
type Health struct {
	Label     Label   `json:"label"`
	Color     Color   `json:"color"`
	Rate      float64 `json:"rate"`
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
}

// Evaluate scores a session by its statusforhistory column.
// An empty session has rate 0 and is an Error.
func Evaluate(rows []press.Row) Health {
	statuses := make([]string, len(rows))
	for i, r := range rows {
		statuses[i] = r.StatusForHistory
	}
	return EvaluateStatuses(statuses)
}

// EvaluateStatuses scores any status sequence; a status counts as succeeded
// when it contains "Succeeded".
func EvaluateStatuses(statuses []string) Health {
	total := len(statuses)
	succeeded := 0
	for _, s := range statuses {
		if strings.Contains(s, press.StatusSucceeded) {
			succeeded++
		}
	}

	rate := 0.0
	if total > 0 {
		rate = float64(succeeded) / float64(total) * 100
	}

	label, color := Classify(rate)
	return Health{
		Label:     label,
		Color:     color,
		Rate:      rate,
		Total:     total,
		Succeeded: succeeded,
	}
}

// EvaluateColumn scores a column that may contain missing cells (empty strings).
// Missing cells are ignored; a column with nothing but missing cells is N/A.
func EvaluateColumn(values []string) Health {
	present := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return Health{Label: NotAvailable, Color: Grey}
	}
	return EvaluateStatuses(present)
}

// Classify picks the band for a success rate, evaluated high to low
func Classify(rate float64) (Label, Color) {
	switch {
	case rate >= ExcellentThreshold:
		return Excellent, Green
	case rate >= GoodThreshold:
		return Good, Gold
	case rate >= WarningThreshold:
		return Warning, Orange
	default:
		return Error, Red
	}
}

// Percent is the rate rounded to one decimal for display
func (h Health) Percent() float64 {
	return math.Round(h.Rate*10) / 10
}

// ColorOf returns the color used for a label, grey for unknown labels
func ColorOf(label string) Color {
	switch Label(label) {
	case Excellent:
		return Green
	case Good:
		return Gold
	case Warning:
		return Orange
	case Error:
		return Red
	default:
		return Grey
	}
}

var emojis = map[Color]string{
	Green:  "🟢",
	Gold:   "🟡",
	Orange: "🟠",
	Red:    "🔴",
	Grey:   "⚪",
}

// Emoji is the dropdown marker for a color
func Emoji(c Color) string {
	if e, ok := emojis[c]; ok {
		return e
	}
	return emojis[Grey]
}
