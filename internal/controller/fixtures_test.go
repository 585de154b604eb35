package controller

import (
	"presshealth/domain/press"
)

const (
	sessionA = "2024-01-01 08:00:00"
	sessionB = "2024-01-02 09:30:00"
)

func sessionRows(key string, statuses ...string) []press.Row {
	rows := make([]press.Row, len(statuses))
	for i, s := range statuses {
		rows[i] = press.Row{
			SN:                   4,
			BlanketID:            i + 1,
			StatusForHistory:     s,
			ImageScalingErrorUPM: float64(i),
			ImageScalingUsedUPM:  -14000 + float64(i),
			GapErrorFinalUM:      float64(i) / 2,
			StartTime:            key + ".250",
		}
	}
	return rows
}

func samplePressData() *press.PressData {
	return &press.PressData{
		SN: 4,
		StartTimes: []press.StartTime{
			{ShortTime: sessionA, FullTime: sessionA + ".250", HealthStatus: "Excellent", HealthColor: "green", Percent: 100},
			{ShortTime: sessionB, FullTime: sessionB + ".250", HealthStatus: "Warning", HealthColor: "orange", Percent: 50},
		},
		OverallHealth: "Good",
		Sessions: map[string][]press.Row{
			sessionA: sessionRows(sessionA, "Succeeded", "Succeeded"),
			sessionB: sessionRows(sessionB, "Succeeded", "Failed"),
		},
	}
}

func singleUpload() *press.UploadResult {
	pd := samplePressData()
	return &press.UploadResult{
		Filename:      "single.csv",
		View:          press.ViewSingle,
		SN:            pd.SN,
		StartTimes:    pd.StartTimes,
		OverallHealth: pd.OverallHealth,
		Sessions:      pd.Sessions,
	}
}

func multiUpload() *press.UploadResult {
	return &press.UploadResult{
		Filename: "multi.csv",
		View:     press.ViewMultiPress,
		Summary: []press.PressSummary{
			{SN: 4, Cycles: 2, OverallHealth: "Good", Color: "gold"},
			{SN: 9, Cycles: 7, OverallHealth: "Error", Color: "red"},
		},
	}
}

func processResult(rows []press.Row) *press.ProcessResult {
	return &press.ProcessResult{PlotData: rows, ScalingStdDev: 0.71, GapStdDev: 0.35}
}
