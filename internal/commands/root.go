// Package commands holds the pressview command tree.
package commands

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"presshealth/adapters/httpclient"
	"presshealth/internal"
	"presshealth/internal/analysis"
	"presshealth/internal/controller"
)

// Settings are the client settings merged from flags, PRESSVIEW_* env vars and the config file
type Settings struct {
	Server         string        `mapstructure:"server"`
	Timeout        time.Duration `mapstructure:"timeout"`
	OutlierLevel   int           `mapstructure:"outlierLevel"`
	RemoveOutliers bool          `mapstructure:"removeOutliers"`
	ShowTrend      bool          `mapstructure:"trend"`
	ErrorStats     bool          `mapstructure:"errorStats"`
	LogFile        string        `mapstructure:"logFile"`
}

// Options converts the plot flags into controller options
func (s Settings) Options() controller.Options {
	return controller.Options{
		RemoveOutliers: s.RemoveOutliers,
		OutlierLevel:   s.OutlierLevel,
		ShowTrend:      s.ShowTrend,
		ShowErrorStats: s.ErrorStats,
	}
}

var (
	cfgFile         string
	currentSettings *Settings
	logger          = internal.DefaultLogger
	logFile         *os.File
)

// rootCmd runs the terminal dashboard when called without a subcommand
var rootCmd = &cobra.Command{
	Use:           "pressview",
	Short:         "pressview: terminal dashboard for press calibration health",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}
		var s Settings
		if err := viper.Unmarshal(&s); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if err := analysis.ValidateLevel(s.OutlierLevel); err != nil {
			return err
		}
		currentSettings = &s
		return nil
	},
	RunE: runTUI,
}

// Execute runs the command tree; main only needs to call this
func Execute() {
	defer closeLog()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("server", httpclient.DefaultConfig().BaseURL, "press health server URL")
	rootCmd.PersistentFlags().Duration("timeout", httpclient.DefaultConfig().Timeout, "request timeout")
	rootCmd.PersistentFlags().Int("outlierLevel", analysis.DefaultOutlierLevel, "outlier severity level (1-5)")
	rootCmd.PersistentFlags().Bool("removeOutliers", false, "remove outliers before plotting")
	rootCmd.PersistentFlags().Bool("trend", false, "overlay the scaling trend")
	rootCmd.PersistentFlags().Bool("errorStats", false, "show status breakdowns with each session")
	rootCmd.PersistentFlags().String("logFile", "pressview.log", "log file used while the dashboard owns the terminal")

	for _, name := range []string{"server", "timeout", "outlierLevel", "removeOutliers", "trend", "errorStats", "logFile"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	viper.SetEnvPrefix("PRESSVIEW")
	viper.AutomaticEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file when one was given
func ensureConfigLoaded() error {
	if cfgFile == "" {
		return nil
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetSettings returns the settings resolved for the running command
func GetSettings() *Settings {
	return currentSettings
}

func newClient() *httpclient.Client {
	s := GetSettings()
	return httpclient.New(httpclient.Config{BaseURL: s.Server, Timeout: s.Timeout})
}

// redirectLog sends log output to path so it does not draw over the dashboard
func redirectLog(path string) error {
	if path == "" {
		logger.SetOutput(log.New(io.Discard, "", 0))
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	logger.SetOutput(log.New(f, "", log.LstdFlags))
	return nil
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
