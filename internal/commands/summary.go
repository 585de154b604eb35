package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"presshealth/domain/health"
	"presshealth/domain/press"
	"presshealth/internal/controller"
	"presshealth/ports"
)

var summaryCmd = &cobra.Command{
	Use:   "summary FILE",
	Short: "Upload a press export and print its health summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd.Context(), newClient(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

var healthPrinters = map[health.Color]*color.Color{
	health.Green:  color.New(color.FgGreen),
	health.Gold:   color.New(color.FgYellow),
	health.Orange: color.New(color.FgHiRed),
	health.Red:    color.New(color.FgRed, color.Bold),
	health.Grey:   color.New(color.FgHiBlack),
}

func colored(c health.Color, s string) string {
	p, ok := healthPrinters[c]
	if !ok {
		p = healthPrinters[health.Grey]
	}
	return p.Sprint(s)
}

func runSummary(ctx context.Context, svc ports.PressService, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := svc.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	printSummary(out, result)
	return nil
}

// printSummary writes the press table of a multi-press upload, or the session
// list of a single-press one
func printSummary(out io.Writer, result *press.UploadResult) {
	fmt.Fprintf(out, "%s\n", color.New(color.Bold).Sprint(result.Filename))
	if result.IsMultiPress() {
		fmt.Fprintf(out, "%-8s %-8s %-22s %-22s %-22s\n", "SN", "CYCLES", "SCALING", "GAP", "OVERALL")
		for _, p := range result.Summary {
			fmt.Fprintf(out, "%-8d %-8d %s %s %s\n", p.SN, p.Cycles,
				colored(health.ColorOf(p.ScalingHealth), fmt.Sprintf("%-22s", fmt.Sprintf("%s (%.1f%%)", p.ScalingHealth, p.ScalingHealthPercent))),
				colored(health.ColorOf(p.GapHealth), fmt.Sprintf("%-22s", fmt.Sprintf("%s (%.1f%%)", p.GapHealth, p.GapHealthPercent))),
				colored(health.Color(p.Color), fmt.Sprintf("%s (%.1f%%)", p.OverallHealth, p.OverallHealthPercent)))
		}
		return
	}

	fmt.Fprintf(out, "SN %d  overall %s\n", result.SN, colored(health.ColorOf(result.OverallHealth), result.OverallHealth))
	for _, st := range result.StartTimes {
		rows := len(result.Sessions[st.ShortTime])
		fmt.Fprintf(out, "  %s  %d rows\n", colored(health.Color(st.HealthColor), controller.DropdownLabel(st)), rows)
	}
}
