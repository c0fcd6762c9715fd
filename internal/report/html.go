package report

import (
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type htmlCard struct {
	Title string
	Class string
	Count int
}

type htmlView struct {
	Report    *domain.Report
	Generated string
	Total     int
	Cards     []htmlCard
	Sections  []section
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"related":  RelatedText,
	"join":     strings.Join,
	"severity": func(s domain.Severity) string { return s.String() },
}).Parse(htmlSource))

func RenderHTML(w io.Writer, r *domain.Report) error {
	view := htmlView{
		Report:    r,
		Generated: generatedAt(r).Format("2006-01-02 15:04:05 MST"),
		Total:     r.TotalFindings(),
		Sections:  sections(r),
	}
	for _, k := range domain.Kinds {
		view.Cards = append(view.Cards, htmlCard{Title: Title(k), Class: string(k), Count: len(r.Category(k))})
	}
	return htmlTemplate.Execute(w, view)
}

func generatedAt(r *domain.Report) time.Time {
	if r.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return r.GeneratedAt
}

const htmlSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="fwaudit">
<title>Firewall Audit Report</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; background: #f5f5f5; padding: 20px; }
.container { max-width: 1200px; margin: 0 auto; background: #fff; padding: 40px; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
header { border-bottom: 3px solid #2c3e50; padding-bottom: 20px; margin-bottom: 30px; }
h1 { color: #2c3e50; font-size: 32px; margin-bottom: 10px; }
h2 { color: #2c3e50; font-size: 24px; margin-bottom: 20px; padding-bottom: 10px; border-bottom: 2px solid #ecf0f1; }
.meta { color: #7f8c8d; font-size: 14px; }
.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 16px; margin: 30px 0; }
.card { background: #34495e; color: #fff; padding: 18px; border-radius: 8px; text-align: center; }
.card.total { background: #c0392b; }
.card.clean { background: #27ae60; }
.card h3 { font-size: 13px; margin-bottom: 8px; opacity: 0.9; }
.card .number { font-size: 32px; font-weight: bold; }
.section { margin: 40px 0; }
.finding { border: 1px solid #e0e0e0; border-left: 4px solid #e74c3c; padding: 20px; margin-bottom: 20px; border-radius: 4px; }
.finding.redundant { border-left-color: #f39c12; }
.finding.permissive { border-left-color: #e67e22; }
.finding.unused { border-left-color: #95a5a6; }
.finding.unsafe_service { border-left-color: #8e44ad; }
.finding.generalized { border-left-color: #2980b9; }
.finding h3 { color: #2c3e50; font-size: 18px; margin-bottom: 10px; }
.finding p { color: #555; font-size: 14px; margin-bottom: 8px; }
.related { font-style: italic; }
.rule-details { background: #f8f9fa; padding: 15px; border-radius: 4px; font-family: 'Courier New', monospace; font-size: 13px; }
.rule-details dt { font-weight: bold; color: #2c3e50; display: inline-block; width: 120px; }
.rule-details dd { display: inline; margin-left: 10px; color: #555; }
.rule-details dd::after { content: ""; display: block; margin-bottom: 6px; }
.clean-note { background: #d4edda; border: 1px solid #c3e6cb; color: #155724; padding: 20px; border-radius: 4px; text-align: center; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { padding: 10px; text-align: left; border-bottom: 1px solid #ddd; font-size: 14px; }
th { background: #2c3e50; color: #fff; font-weight: 600; }
.badge { display: inline-block; padding: 3px 8px; border-radius: 4px; font-size: 12px; font-weight: 600; }
.badge.allow { background: #d4edda; color: #155724; }
.badge.deny { background: #f8d7da; color: #721c24; }
.badge.high { background: #f8d7da; color: #721c24; }
.badge.medium { background: #fff3cd; color: #856404; }
.badge.low { background: #e2e3e5; color: #383d41; }
.badge.none { background: #d4edda; color: #155724; }
footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #ecf0f1; text-align: center; color: #7f8c8d; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
<header>
<h1>Firewall Audit Report</h1>
<div class="meta">Generated {{.Generated}} | {{len .Report.Rules}} rule(s) analyzed{{with .Report.ID}} | run {{.}}{{end}}</div>
</header>

<div class="summary">
<div class="card {{if eq .Total 0}}clean{{else}}total{{end}}"><h3>Total Findings</h3><div class="number">{{.Total}}</div></div>
{{range .Cards}}<div class="card {{.Class}}"><h3>{{.Title}}</h3><div class="number">{{.Count}}</div></div>
{{end}}</div>

<div class="meta">Severity: high {{.Report.SeverityCounts.High}}, medium {{.Report.SeverityCounts.Medium}}, low {{.Report.SeverityCounts.Low}}</div>

{{if .Sections}}{{range .Sections}}
<div class="section">
<h2>{{.Title}}</h2>
{{range .Findings}}<div class="finding {{.Kind}}">
<h3>{{.Rule.Name}} <span class="badge {{severity .Severity}}">{{severity .Severity}}</span></h3>
<p>{{.Description}}</p>
{{with related .}}<p class="related">{{.}}</p>{{end}}
{{if .Issues}}<p>Issues: {{join .Issues "; "}}</p>{{end}}
{{with .Impact}}<p>Impact: {{.}}</p>{{end}}
{{with .Recommendation}}<p>Recommendation: {{.}}</p>{{end}}
<dl class="rule-details">
<dt>Source:</dt><dd>{{.Rule.Source}}</dd>
<dt>Destination:</dt><dd>{{.Rule.Destination}}</dd>
<dt>Port:</dt><dd>{{.Rule.Port}}</dd>
<dt>Protocol:</dt><dd>{{.Rule.Protocol}}</dd>
<dt>Action:</dt><dd><span class="badge {{.Rule.Action}}">{{.Rule.Action}}</span></dd>
<dt>Priority:</dt><dd>{{.Rule.Priority}}</dd>
<dt>Hit count:</dt><dd>{{.Rule.HitCount}}</dd>
</dl>
</div>
{{end}}</div>
{{end}}{{else}}
<div class="section"><div class="clean-note">No anomalies detected. The rule set looks consistent.</div></div>
{{end}}
{{if .Report.Diagnostics}}
<div class="section">
<h2>Diagnostics</h2>
<table>
<thead><tr><th>Kind</th><th>Rule</th><th>Detector</th><th>Message</th></tr></thead>
<tbody>
{{range .Report.Diagnostics}}<tr><td>{{.Kind}}</td><td>{{.RuleID}}</td><td>{{.Detector}}</td><td>{{.Message}}</td></tr>
{{end}}</tbody>
</table>
</div>
{{end}}
<div class="section">
<h2>Correlation</h2>
<table>
<thead><tr><th>Rule</th><th>Tags</th><th>Severity</th></tr></thead>
<tbody>
{{range .Report.Correlated}}<tr><td>{{.Rule.Name}}</td><td>{{join .Tags ", "}}</td><td><span class="badge {{severity .Severity}}">{{severity .Severity}}</span></td></tr>
{{end}}</tbody>
</table>
</div>

<div class="section">
<h2>All Rules</h2>
<table>
<thead><tr><th>ID</th><th>Name</th><th>Source</th><th>Destination</th><th>Port</th><th>Protocol</th><th>Action</th><th>Priority</th><th>Hits</th></tr></thead>
<tbody>
{{range .Report.Rules}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Source}}</td><td>{{.Destination}}</td><td>{{.Port}}</td><td>{{.Protocol}}</td><td><span class="badge {{.Action}}">{{.Action}}</span></td><td>{{.Priority}}</td><td>{{.HitCount}}</td></tr>
{{end}}</tbody>
</table>
</div>

<footer>Generated by fwaudit | {{.Generated}}</footer>
</div>
</body>
</html>
`
