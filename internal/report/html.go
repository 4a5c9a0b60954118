package report

import (
	"bytes"
	"html/template"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.Filename}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 40px; }
h1 { font-size: 24px; margin-bottom: 4px; }
.meta { display: grid; grid-template-columns: repeat(3, 1fr); gap: 12px; margin: 24px 0; }
.meta div { border: 1px solid #e5e7eb; border-radius: 6px; padding: 8px; }
.label { font-size: 11px; color: #6b7280; text-transform: uppercase; }
.risk-HIGH { color: #dc2626; } .risk-MEDIUM { color: #d97706; } .risk-LOW { color: #16a34a; }
.issue { border-left: 3px solid #dc2626; padding-left: 8px; margin-bottom: 12px; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<p>{{.Filename}} &middot; Generated {{.GeneratedAt}}</p>
</header>
<section class="meta">
{{- range .Metadata}}
<div><div class="label">{{.Label}}</div><div>{{.Value}}</div></div>
{{- end}}
</section>
<section>
<h2>Executive Summary</h2>
<p>{{.ExecutiveSummary}}</p>
</section>
<section>
<h2>Risk Assessment</h2>
<p class="risk-{{.RiskLevel}}"><strong>{{.RiskLevel}} RISK</strong> ({{.RiskScore}})</p>
<p>{{.RiskAnalysis}}</p>
{{- if .RedFlags}}
<ul>{{range .RedFlags}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
</section>
<section>
<h2>Issues</h2>
{{- if .Issues}}
{{- range .Issues}}
<div class="issue">
<strong>{{.Title}}</strong>{{if .Severity}} [{{.Severity}}]{{end}}{{if .Section}} &middot; {{.Section}}{{end}}
<p>{{.Description}}</p>
{{- if .Recommendation}}<p><em>Recommendation:</em> {{.Recommendation}}</p>{{end}}
</div>
{{- end}}
{{- else}}
<p>No critical or moderate issues identified.</p>
{{- end}}
</section>
{{- if .Recommendations}}
<section>
<h2>Recommendations</h2>
<ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
</section>
{{- end}}
</body>
</html>
`))

// BuildHTML renders the report as a standalone HTML document.
func BuildHTML(in Input) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, Build(in)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
