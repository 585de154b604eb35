package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"presshealth/domain/chart"
	"presshealth/domain/health"
	"presshealth/internal/controller"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

var healthColors = map[health.Color]lipgloss.Color{
	health.Green:  lipgloss.Color("10"),
	health.Gold:   lipgloss.Color("11"),
	health.Orange: lipgloss.Color("208"),
	health.Red:    lipgloss.Color("9"),
	health.Grey:   lipgloss.Color("8"),
}

// healthStyle colors text by health color
func healthStyle(c health.Color) lipgloss.Style {
	color, ok := healthColors[c]
	if !ok {
		color = healthColors[health.Grey]
	}
	return lipgloss.NewStyle().Foreground(color)
}

// Sparkline draws values as one row of block characters. Longer series are
// bucketed by mean so the line fits width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	values = downsample(values, width)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1)))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func downsample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func seriesRange(s chart.Series) (lo, hi float64) {
	if len(s.Points) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range s.Points {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi
}

func renderSeries(s chart.Series, width int) string {
	lo, hi := seriesRange(s)
	label := fmt.Sprintf("%-26s", s.Name)
	return fmt.Sprintf("%s %s  [%.2f .. %.2f %s]", label, Sparkline(s.Values(), width), lo, hi, s.Unit)
}

// renderPanel draws one session panel
func renderPanel(p chart.Panel, width int, selected bool) string {
	chartWidth := width - 50
	if chartWidth < 10 {
		chartWidth = 10
	}

	title := healthStyle(p.Health.Color).Bold(true).Render(
		fmt.Sprintf("%s  %s  %.1f%% (%d/%d)  cycles %d",
			p.SessionKey, p.Health.Label, p.Health.Percent(), p.Health.Succeeded, p.Health.Total, p.MaxBlanketID))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	switch p.Status {
	case chart.PanelPending:
		b.WriteString("loading plot data...")
	case chart.PanelFailed:
		b.WriteString(lipgloss.NewStyle().Foreground(healthColors[health.Red]).Render("plot failed: " + p.Err))
	default:
		b.WriteString(renderSeries(p.Scaling, chartWidth))
		b.WriteString("\n")
		b.WriteString(renderSeries(p.Gap, chartWidth))
		if p.Trend != nil {
			b.WriteString("\n")
			b.WriteString(renderSeries(*p.Trend, chartWidth))
		}
		fmt.Fprintf(&b, "\nstd dev: scaling %.2f  gap %.2f", p.ScalingStdDev, p.GapStdDev)
		if p.ScalingTrend != nil {
			fmt.Fprintf(&b, "  trend slope %.4f", p.ScalingTrend.Slope)
		}
		if p.ErrorStats != nil {
			b.WriteString("\n")
			b.WriteString(renderStats("scaling", p.ErrorStats.ScalingStats.Succeeded, controller.Legend(p.ErrorStats.ScalingStats)))
			b.WriteString("\n")
			b.WriteString(renderStats("gap", p.ErrorStats.GapStats.Succeeded, controller.Legend(p.ErrorStats.GapStats)))
		}
		if p.Err != "" {
			b.WriteString("\n" + p.Err)
		}
	}

	border := lipgloss.NormalBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(healthColors[p.Health.Color]).
		Padding(0, 1).
		Render(b.String())
}

func renderStats(column string, succeeded int, legend []string) string {
	line := fmt.Sprintf("%s: %d succeeded", column, succeeded)
	if len(legend) > 0 {
		line += "  " + strings.Join(legend, "  ")
	}
	return line
}
