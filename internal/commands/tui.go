package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"presshealth/internal/controller"
	"presshealth/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard (default)",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	s := GetSettings()
	if err := redirectLog(s.LogFile); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	panels := tui.NewPanelStore()
	ctrl := controller.New(newClient(), panels,
		controller.WithOptions(s.Options()),
		controller.WithLogger(logger),
	)
	return tui.Run(cmd.Context(), ctrl, panels)
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
