package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/eleven-am/fwaudit/internal/domain"
)

// detailLimit caps the findings listed per category in verbose output.
const detailLimit = 5

var (
	colorTitle   = lipgloss.Color("#2C3E50")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	severityStyles = map[domain.Severity]lipgloss.Style{
		domain.SeverityHigh:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		domain.SeverityMedium: lipgloss.NewStyle().Foreground(colorWarning),
		domain.SeverityLow:    lipgloss.NewStyle().Foreground(colorMuted),
		domain.SeverityNone:   lipgloss.NewStyle(),
	}
)

// PrintRules lists the loaded rules, one per line.
func PrintRules(w io.Writer, rules []domain.Rule) {
	fmt.Fprintln(w, headerStyle.Render("Loaded rules:"))
	for i, r := range rules {
		fmt.Fprintf(w, "  %d. %s - %s -> %s [%s]\n", i+1, r.Name, r.Source, r.Destination, r.Action)
	}
	fmt.Fprintln(w)
}

// PrintSummary writes per-category counts and severity totals. With verbose
// set it also lists up to five findings per category.
func PrintSummary(w io.Writer, r *domain.Report, verbose bool) {
	fmt.Fprintln(w, headerStyle.Render("Results:"))
	for _, k := range domain.Kinds {
		fmt.Fprintf(w, "  - %s: %d\n", Title(k), len(r.Category(k)))
	}
	total := r.TotalFindings()
	fmt.Fprintf(w, "  Total: %d finding(s)\n", total)

	c := r.SeverityCounts
	fmt.Fprintf(w, "  Severity: %s, %s, %s\n",
		severityStyles[domain.SeverityHigh].Render(fmt.Sprintf("high %d", c.High)),
		severityStyles[domain.SeverityMedium].Render(fmt.Sprintf("medium %d", c.Medium)),
		severityStyles[domain.SeverityLow].Render(fmt.Sprintf("low %d", c.Low)))

	for _, d := range r.Diagnostics {
		fmt.Fprintln(w, warningStyle.Render("  warning: ")+diagnosticText(d))
	}
	fmt.Fprintln(w)

	if verbose && total > 0 {
		fmt.Fprintln(w, headerStyle.Render("Details:"))
		for _, s := range sections(r) {
			fmt.Fprintf(w, "\n  %s:\n", headerStyle.Render(s.Title))
			for i, f := range s.Findings {
				if i == detailLimit {
					fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("    ... and %d more", len(s.Findings)-detailLimit)))
					break
				}
				fmt.Fprintf(w, "    - %s %s\n", severityStyles[f.Severity].Render("["+f.Severity.String()+"]"), f.Description)
			}
		}
		fmt.Fprintln(w)
	}

	if total > 0 {
		fmt.Fprintln(w, warningStyle.Render("Anomalies were detected. See the generated reports."))
	} else {
		fmt.Fprintln(w, successStyle.Render("No anomalies detected. The rules look consistent."))
	}
}

// PrintFiles lists generated report paths.
func PrintFiles(w io.Writer, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Reports:"))
	for _, p := range paths {
		fmt.Fprintf(w, "  - %s\n", p)
	}
}

func diagnosticText(d domain.Diagnostic) string {
	switch {
	case d.RuleID != "":
		return fmt.Sprintf("rule %s: %s", d.RuleID, d.Message)
	case d.Detector != "":
		return fmt.Sprintf("detector %s: %s", d.Detector, d.Message)
	default:
		return d.Message
	}
}
