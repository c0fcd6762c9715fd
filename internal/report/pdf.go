package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/eleven-am/fwaudit/internal/domain"
)

const (
	pdfMargin    = 15.0
	pdfLineH     = 5.0
	pdfBodyWidth = 180.0
)

var ruleColumns = []struct {
	title string
	width float64
}{
	{"ID", 14}, {"Name", 34}, {"Source", 30}, {"Destination", 30},
	{"Port", 22}, {"Proto", 14}, {"Action", 14}, {"Prio", 11}, {"Hits", 11},
}

// RenderPDF writes a tabular rendition of the report. Core fonts only
// cover Latin-1, so text is passed through the cp1252 translator.
func RenderPDF(w io.Writer, r *domain.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := generatedAt(r).Format("2006-01-02 15:04:05 MST")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(0, 8, fmt.Sprintf("fwaudit | %s | page %d", generated, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 10, "Firewall Audit Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(127, 140, 141)
	meta := fmt.Sprintf("Generated %s | %d rule(s) analyzed", generated, len(r.Rules))
	if r.ID != "" {
		meta += " | run " + r.ID
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdfSummary(pdf, r)

	secs := sections(r)
	if len(secs) == 0 {
		pdfHeading(pdf, "No anomalies detected")
		pdfParagraph(pdf, tr, "The rule set looks consistent.")
	}
	for _, s := range secs {
		pdfHeading(pdf, fmt.Sprintf("%s (%d)", s.Title, len(s.Findings)))
		for _, f := range s.Findings {
			pdfFinding(pdf, tr, f)
		}
	}

	if len(r.Diagnostics) > 0 {
		pdfHeading(pdf, "Diagnostics")
		for _, d := range r.Diagnostics {
			line := string(d.Kind)
			if d.RuleID != "" {
				line += " rule " + d.RuleID
			}
			if d.Detector != "" {
				line += " detector " + string(d.Detector)
			}
			pdfParagraph(pdf, tr, line+": "+d.Message)
		}
	}

	pdfHeading(pdf, "All Rules")
	pdfRuleTable(pdf, tr, r.Rules)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func pdfSummary(pdf *fpdf.Fpdf, r *domain.Report) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(120, 7, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "Findings", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, k := range domain.Kinds {
		pdf.CellFormat(120, 6, Title(k), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, strconv.Itoa(len(r.Category(k))), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, strconv.Itoa(r.TotalFindings()), "1", 1, "R", false, 0, "")

	c := r.SeverityCounts
	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(2)
	pdf.CellFormat(0, 6, fmt.Sprintf("Severity: high %d, medium %d, low %d", c.High, c.Medium, c.Low), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func pdfHeading(pdf *fpdf.Fpdf, text string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func pdfParagraph(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(85, 85, 85)
	pdf.MultiCell(pdfBodyWidth, pdfLineH, tr(text), "", "L", false)
}

func pdfFinding(pdf *fpdf.Fpdf, tr func(string) string, f domain.Finding) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(44, 62, 80)
	pdf.MultiCell(pdfBodyWidth, 6, tr(fmt.Sprintf("%s [%s]", f.Rule.Name, f.Severity)), "", "L", false)

	pdfParagraph(pdf, tr, f.Description)
	if rel := RelatedText(f); rel != "" {
		pdfParagraph(pdf, tr, rel)
	}
	if len(f.Issues) > 0 {
		pdfParagraph(pdf, tr, "Issues: "+strings.Join(f.Issues, "; "))
	}
	if f.Recommendation != "" {
		pdfParagraph(pdf, tr, "Recommendation: "+f.Recommendation)
	}

	pdf.SetFont("Courier", "", 9)
	pdf.SetFillColor(248, 249, 250)
	details := fmt.Sprintf("%s -> %s port %s/%s %s priority %d hits %d",
		f.Rule.Source, f.Rule.Destination, f.Rule.Port, f.Rule.Protocol, f.Rule.Action, f.Rule.Priority, f.Rule.HitCount)
	pdf.MultiCell(pdfBodyWidth, pdfLineH, tr(details), "", "L", true)
	pdf.Ln(3)
}

func pdfRuleTable(pdf *fpdf.Fpdf, tr func(string) string, rules []domain.Rule) {
	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(44, 62, 80)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range ruleColumns {
			pdf.CellFormat(c.width, 6, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(51, 51, 51)
	}
	header()

	_, pageH := pdf.GetPageSize()
	for _, r := range rules {
		if pdf.GetY()+6 > pageH-pdfMargin-6 {
			pdf.AddPage()
			header()
		}
		cells := []string{
			r.ID, r.Name, r.Source, r.Destination, r.Port, r.Protocol,
			string(r.Action), strconv.Itoa(r.Priority), strconv.Itoa(r.HitCount),
		}
		for i, c := range ruleColumns {
			pdf.CellFormat(c.width, 6, tr(fit(pdf, cells[i], c.width-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit truncates s so it renders within width at the current font.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"..") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ".."
}
