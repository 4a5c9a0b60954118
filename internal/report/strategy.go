package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres. Every tier lays out A4 with the same margins.
const (
	marginLeft   = 15.0
	marginTop    = 15.0
	marginRight  = 15.0
	marginBottom = 15.0
	lineHeight   = 5.5
)

// Strategy renders a report into PDF bytes.
type Strategy interface {
	Name() string
	Render(in Input) ([]byte, error)
}

func newPage(in Input) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	if !in.GeneratedAt.IsZero() {
		pdf.SetCreationDate(in.GeneratedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Legal Document Analysis Report"), false)
	pdf.SetCreator("legaldesk", false)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf, tr
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// markupTemplate produces the tag subset fpdf's HTML writer understands:
// b, i, u, br and center.
var markupTemplate = template.Must(template.New("markup").Funcs(template.FuncMap{
	"safe": sanitize,
	"add":  func(a, b int) int { return a + b },
}).Parse(`<center><b>{{safe .Title}}</b></center><br><center>{{safe .Filename}}</center><br><center><i>Generated {{safe .GeneratedAt}}</i></center><br><br>
{{- range .Metadata}}<b>{{safe .Label}}:</b> {{safe .Value}}<br>{{end}}<br>
<b>EXECUTIVE SUMMARY</b><br>{{safe .ExecutiveSummary}}<br><br>
<b>RISK ASSESSMENT</b><br><b>{{safe (print .RiskLevel)}} RISK</b> ({{safe .RiskScore}})<br>{{safe .RiskAnalysis}}<br>
{{- range .RedFlags}}- {{safe .}}<br>{{end}}<br>
<b>ISSUES</b><br>
{{- if .Issues}}{{range $i, $it := .Issues}}<b>{{add $i 1}}. {{safe $it.Title}}</b>{{if $it.Severity}} [{{safe $it.Severity}}]{{end}}<br>{{if $it.Description}}{{safe $it.Description}}<br>{{end}}{{if $it.Recommendation}}<i>Recommendation:</i> {{safe $it.Recommendation}}<br>{{end}}<br>{{end}}
{{- else}}No critical or moderate issues identified.<br>{{end}}
{{- if .Recommendations}}<br><b>RECOMMENDATIONS</b><br>{{range .Recommendations}}- {{safe .}}<br>{{end}}{{end}}`))

// sanitize keeps user text from being read as markup and turns line breaks
// into explicit breaks, since the HTML writer folds newlines into spaces.
func sanitize(s string) string {
	r := strings.NewReplacer("<", "‹", ">", "›", "\r", "", "\n", "<br>")
	return r.Replace(s)
}

// HTMLStrategy flows the report markup through fpdf's HTML writer, which
// breaks onto new A4 pages until the content is consumed.
type HTMLStrategy struct{}

func (HTMLStrategy) Name() string { return "html" }

func (HTMLStrategy) Render(in Input) ([]byte, error) {
	var markup bytes.Buffer
	if err := markupTemplate.Execute(&markup, Build(in)); err != nil {
		return nil, fmt.Errorf("render markup: %w", err)
	}

	pdf, tr := newPage(in)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	html := pdf.HTMLBasicNew()
	html.Write(lineHeight, tr(markup.String()))
	return output(pdf)
}

// DirectStrategy draws the same sections with cells.
type DirectStrategy struct{}

func (DirectStrategy) Name() string { return "direct" }

func (DirectStrategy) Render(in Input) ([]byte, error) {
	r := Build(in)
	pdf, tr := newPage(in)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(r.Filename), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr("Generated "+r.GeneratedAt), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(243, 244, 246)
	for _, f := range r.Metadata {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(50, 7, tr(f.Label), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 7, tr(f.Value), "1", 1, "L", false, 0, "")
	}

	heading := func(s string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(s), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(1)
	}
	para := func(s string) {
		if s != "" {
			pdf.MultiCell(0, lineHeight, tr(s), "", "L", false)
		}
	}

	heading("Executive Summary")
	para(r.ExecutiveSummary)

	heading("Risk Assessment")
	switch r.RiskLevel {
	case "HIGH":
		pdf.SetTextColor(220, 38, 38)
	case "MEDIUM":
		pdf.SetTextColor(217, 119, 6)
	default:
		pdf.SetTextColor(22, 163, 74)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s RISK (%s)", r.RiskLevel, r.RiskScore)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	para(r.RiskAnalysis)
	for _, f := range r.RedFlags {
		para("- " + f)
	}

	heading("Issues")
	if len(r.Issues) == 0 {
		para("No critical or moderate issues identified.")
	}
	for i, it := range r.Issues {
		title := fmt.Sprintf("%d. %s", i+1, it.Title)
		if it.Severity != "" {
			title += " [" + it.Severity + "]"
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, lineHeight, tr(title), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		para(it.Description)
		if it.Recommendation != "" {
			para("Recommendation: " + it.Recommendation)
		}
		pdf.Ln(2)
	}

	if len(r.Recommendations) > 0 {
		heading("Recommendations")
		for _, rec := range r.Recommendations {
			para("- " + rec)
		}
	}
	return output(pdf)
}

// MinimalStrategy writes a single page stating that generation failed.
type MinimalStrategy struct{}

func (MinimalStrategy) Name() string { return "minimal" }

func (MinimalStrategy) Render(in Input) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "Report generation failed", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if in.Document.Filename != "" {
		pdf.CellFormat(0, 8, tr("Document: "+in.Document.Filename), "", 1, "L", false, 0, "")
	}
	pdf.MultiCell(0, 6, "The full report could not be rendered. Please view the analysis online or try the export again.", "", "L", false)
	return output(pdf)
}
