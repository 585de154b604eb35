package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"presshealth/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report FILENAME",
	Short: "Download the health report of an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		body, err := newClient().FetchReport(cmd.Context(), args[0], format)
		if err != nil {
			return err
		}
		if output == "" {
			_, err = cmd.OutOrStdout().Write(body)
			return err
		}
		if err := os.WriteFile(output, body, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
		return nil
	},
}

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List the uploads stored on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		uploads, err := newClient().Uploads(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, u := range uploads {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s %6d rows  %s\n",
				u.CreatedAt.Format("2006-01-02 15:04:05"), u.Filename, u.RowCount, u.ID)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("format", "f", "md", "report format: md or html")
	reportCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	uploadsCmd.Flags().Int("limit", 20, "maximum uploads to list")
	rootCmd.AddCommand(reportCmd, uploadsCmd)
}
