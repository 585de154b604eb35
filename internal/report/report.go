// Package report renders a per-upload health report as markdown or HTML.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"presshealth/domain/health"
	"presshealth/domain/press"
	"presshealth/internal/analysis"
)

// Format selects the report rendering
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown" or "html"; empty means markdown
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType is the HTTP content type of a rendered report
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// PressSection is one press of the report
type PressSection struct {
	Summary    press.PressSummary
	StartTimes []press.StartTime
	ErrorStats *press.ErrorStats
}

// Document is the report model, independent of rendering
type Document struct {
	Filename    string
	GeneratedAt time.Time
	Presses     []PressSection
}

// Build computes a report for the rows of one upload
func Build(ctx context.Context, filename string, rows []press.Row) (*Document, error) {
	summaries, err := analysis.Summarize(ctx, rows)
	if err != nil {
		return nil, err
	}
	_, bySN := analysis.SplitBySN(rows)

	doc := &Document{Filename: filename, GeneratedAt: time.Now()}
	for _, s := range summaries {
		startTimes, _ := analysis.GroupSessions(bySN[s.SN])
		doc.Presses = append(doc.Presses, PressSection{
			Summary:    s,
			StartTimes: startTimes,
			ErrorStats: analysis.SessionErrorStats(bySN[s.SN]),
		})
	}
	return doc, nil
}

// Markdown renders the document as GitHub-style markdown
func (d *Document) Markdown() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Press health report: %s\n\n", d.Filename)
	fmt.Fprintf(&b, "Generated %s\n\n", d.GeneratedAt.Format(time.RFC3339))

	b.WriteString("| SN | Cycles | Scaling | Gap | Overall |\n")
	b.WriteString("|---:|---:|---|---|---|\n")
	for _, p := range d.Presses {
		s := p.Summary
		fmt.Fprintf(&b, "| %d | %d | %s (%.1f%%) | %s (%.1f%%) | %s %s (%.1f%%) |\n",
			s.SN, s.Cycles,
			s.ScalingHealth, s.ScalingHealthPercent,
			s.GapHealth, s.GapHealthPercent,
			health.Emoji(health.Color(s.Color)), s.OverallHealth, s.OverallHealthPercent)
	}

	for _, p := range d.Presses {
		fmt.Fprintf(&b, "\n## Press %d\n\n", p.Summary.SN)
		if len(p.StartTimes) == 0 {
			b.WriteString("No sessions.\n")
			continue
		}
		b.WriteString("| Session | Status | Success |\n")
		b.WriteString("|---|---|---:|\n")
		for _, st := range p.StartTimes {
			fmt.Fprintf(&b, "| %s | %s %s | %.1f%% |\n",
				st.ShortTime, health.Emoji(health.Color(st.HealthColor)), st.HealthStatus, st.Percent)
		}
		if p.ErrorStats != nil {
			writeStatusStats(&b, "Scaling", p.ErrorStats.ScalingStats)
			writeStatusStats(&b, "Gap", p.ErrorStats.GapStats)
		}
	}
	return b.Bytes()
}

func writeStatusStats(b *bytes.Buffer, title string, s press.StatusStats) {
	fmt.Fprintf(b, "\n**%s status**: %d succeeded", title, s.Succeeded)
	for i, o := range s.Others {
		fmt.Fprintf(b, ", [%d] %s: %d", i+1, o.Status, o.Count)
	}
	b.WriteString("\n")
}

// HTML renders the document as a standalone HTML page
func (d *Document) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: "Press health report: " + d.Filename,
	})
	return markdown.ToHTML(d.Markdown(), p, renderer)
}

// Render returns the document in the requested format
func (d *Document) Render(f Format) []byte {
	if f == FormatHTML {
		return d.HTML()
	}
	return d.Markdown()
}
