package health

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"presshealth/domain/press"
)

func rowsWith(succeeded, total int) []press.Row {
	rows := make([]press.Row, total)
	for i := range rows {
		rows[i].BlanketID = i + 1
		if i < succeeded {
			rows[i].StatusForHistory = "Calibration Succeeded"
		} else {
			rows[i].StatusForHistory = "Failed: gap out of range"
		}
	}
	return rows
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name      string
		succeeded int
		total     int
		label     Label
		color     Color
		rate      float64
	}{
		{"nine of ten is excellent", 9, 10, Excellent, Green, 90},
		{"seven of ten is warning", 7, 10, Warning, Orange, 70},
		{"all succeeded", 4, 4, Excellent, Green, 100},
		{"three of four is good", 3, 4, Good, Gold, 75},
		{"two of five is warning", 2, 5, Warning, Orange, 40},
		{"one of three is error", 1, 3, Error, Red, 100.0 / 3},
		{"empty session", 0, 0, Error, Red, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Evaluate(rowsWith(tt.succeeded, tt.total))
			assert.Equal(t, tt.label, h.Label)
			assert.Equal(t, tt.color, h.Color)
			assert.InDelta(t, tt.rate, h.Rate, 1e-9)
			assert.Equal(t, tt.total, h.Total)
			assert.Equal(t, tt.succeeded, h.Succeeded)
		})
	}
}

func TestEvaluateEmptyAndNil(t *testing.T) {
	for _, rows := range [][]press.Row{nil, {}} {
		h := Evaluate(rows)
		assert.Equal(t, Error, h.Label)
		assert.Equal(t, Red, h.Color)
		assert.Zero(t, h.Rate)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		rate  float64
		label Label
	}{
		{100, Excellent},
		{90, Excellent},
		{89.999, Good},
		{75, Good},
		{74.999, Warning},
		{40, Warning},
		{39.999, Error},
		{0, Error},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.rate), func(t *testing.T) {
			label, _ := Classify(tt.rate)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	rows := rowsWith(6, 11)
	first := Evaluate(rows)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(rows))
	}
}

func TestSucceededIsSubstringMatch(t *testing.T) {
	h := EvaluateStatuses([]string{"Succeeded", "Succeeded with warnings", "succeeded", "Failed"})
	assert.Equal(t, 2, h.Succeeded)
	assert.Equal(t, 50.0, h.Rate)
}

func TestEvaluateColumn(t *testing.T) {
	h := EvaluateColumn([]string{"", " ", ""})
	assert.Equal(t, NotAvailable, h.Label)
	assert.Equal(t, Grey, h.Color)

	h = EvaluateColumn([]string{"Succeeded", "", "Failed"})
	assert.Equal(t, 2, h.Total)
	assert.Equal(t, Warning, h.Label)
}

func TestPercentAndEmoji(t *testing.T) {
	h := Evaluate(rowsWith(1, 3))
	assert.Equal(t, 33.3, h.Percent())
	assert.Equal(t, "🟢", Emoji(Green))
	assert.Equal(t, "⚪", Emoji(Color("purple")))
	assert.Equal(t, Gold, ColorOf("Good"))
	assert.Equal(t, Grey, ColorOf("N/A"))
}
