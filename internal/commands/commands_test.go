package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presshealth/adapters/memstore"
	"presshealth/domain/press"
	"presshealth/internal/pressdata"
)

func resetFlag(name string) {
	flag := rootCmd.PersistentFlags().Lookup(name)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func resetFlags(t *testing.T) {
	t.Helper()
	names := []string{"server", "timeout", "outlierLevel", "removeOutliers", "trend", "errorStats", "logFile"}
	for _, name := range names {
		resetFlag(name)
	}
	t.Cleanup(func() {
		for _, name := range names {
			resetFlag(name)
		}
		currentSettings = nil
	})
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pressview.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	resetFlags(t)
	_ = rootCmd.PersistentFlags().Set("server", "http://press:9000")
	_ = rootCmd.PersistentFlags().Set("outlierLevel", "3")
	_ = rootCmd.PersistentFlags().Set("removeOutliers", "true")
	_ = rootCmd.PersistentFlags().Set("trend", "true")
	_ = rootCmd.PersistentFlags().Set("timeout", "5s")

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))

	s := GetSettings()
	require.NotNil(t, s)
	assert.Equal(t, "http://press:9000", s.Server)
	assert.Equal(t, 3, s.OutlierLevel)
	assert.Equal(t, "5s", s.Timeout.String())

	opts := s.Options()
	assert.True(t, opts.RemoveOutliers)
	assert.True(t, opts.ShowTrend)
	assert.False(t, opts.ShowErrorStats)
	assert.NoError(t, opts.Validate())
}

func TestPersistentPreRunEReadsConfigFile(t *testing.T) {
	resetFlags(t)
	path := writeTempConfig(t, `{"errorStats": true, "outlierLevel": 4}`)

	prev := cfgFile
	cfgFile = path
	viper.SetConfigFile(path)
	t.Cleanup(func() {
		cfgFile = prev
		viper.SetConfigFile(prev)
	})

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	assert.True(t, GetSettings().ErrorStats)
	assert.Equal(t, 4, GetSettings().OutlierLevel)
}

func TestPersistentPreRunERejectsLevel(t *testing.T) {
	resetFlags(t)
	_ = rootCmd.PersistentFlags().Set("outlierLevel", "9")

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9")
}

func TestPrintSummaryMultiPress(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printSummary(&buf, &press.UploadResult{
		Filename: "fleet.csv",
		View:     press.ViewMultiPress,
		Summary: []press.PressSummary{
			{SN: 1, Cycles: 4, ScalingHealth: "Excellent", ScalingHealthPercent: 100, GapHealth: "Good", GapHealthPercent: 75, OverallHealth: "Good", OverallHealthPercent: 87.5, Color: "gold"},
			{SN: 2, Cycles: 1, ScalingHealth: "Error", GapHealth: "Error", OverallHealth: "Error", Color: "red"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "fleet.csv")
	assert.Contains(t, out, "SN")
	assert.Contains(t, out, "Excellent (100.0%)")
	assert.Contains(t, out, "Good (87.5%)")
	assert.Contains(t, out, "Error (0.0%)")
}

func TestRunSummarySinglePress(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "press.csv")
	data := "sn,calibrationname,substratename,statusforhistory,scalingstatus,gapstatus,imagescalingusedupm,blanketid,calibrationid,gaperrorfinalum,imagescalingerrorupm,starttime\n" +
		"7,Cal,Paper,Succeeded,Succeeded,Succeeded,-14000,1,c1,1.5,0.5,2024-03-01 07:00:00.5\n" +
		"7,Cal,Paper,Succeeded,Failed,Succeeded,-14000,2,c1,1.5,0.5,2024-03-01 07:00:00.5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	svc := pressdata.NewService(memstore.NewUploadRepository())
	var buf bytes.Buffer
	require.NoError(t, runSummary(context.Background(), svc, path, &buf))

	out := buf.String()
	assert.Contains(t, out, "press.csv")
	assert.Contains(t, out, "SN 7")
	assert.Contains(t, out, "2024-03-01 07:00:00")
	assert.Contains(t, out, "2 rows")
}

func TestRunSummaryMissingFile(t *testing.T) {
	svc := pressdata.NewService(memstore.NewUploadRepository())
	err := runSummary(context.Background(), svc, filepath.Join(t.TempDir(), "nope.csv"), &bytes.Buffer{})
	assert.Error(t, err)
}
