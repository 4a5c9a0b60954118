// Package report renders the analysis of a document as a PDF. Rendering goes
// through an ordered chain of strategies; the last one always succeeds.
package report

import (
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"legaldesk/internal/model"
	"legaldesk/internal/transform"
)

// Input is everything needed to render a report. It is read from the session,
// no network round-trip is involved.
type Input struct {
	Document    model.Document
	GeneratedAt time.Time
}

type Field struct {
	Label string
	Value string
}

type Issue struct {
	Title          string
	Severity       string
	Section        string
	Description    string
	Recommendation string
}

// Report is the render-ready content shared by every strategy.
type Report struct {
	Title            string
	Filename         string
	GeneratedAt      string
	Metadata         []Field
	ExecutiveSummary string
	RiskLevel        transform.RiskLevel
	RiskScore        string
	RiskAnalysis     string
	Issues           []Issue
	RedFlags         []string
	Recommendations  []string
}

// Build assembles the report content using the transformer defaults.
func Build(in Input) Report {
	view := transform.Document(in.Document, transform.ViewOptions{})
	gen := in.GeneratedAt
	if gen.IsZero() {
		gen = time.Now()
	}

	r := Report{
		Title:            "Legal Document Analysis Report",
		Filename:         in.Document.Filename,
		GeneratedAt:      gen.UTC().Format("January 2, 2006 15:04 MST"),
		ExecutiveSummary: CleanText(view.Summary.Overview),
		RiskLevel:        view.RiskAssessment.Level,
		RiskScore:        fmt.Sprintf("%s/10", formatNumber(view.RiskAssessment.RiskScore)),
		RiskAnalysis:     CleanText(view.RiskAssessment.Analysis),
		RedFlags:         view.RiskAssessment.RedFlags,
		Recommendations:  view.ConfidenceMetrics.Recommendations,
	}
	if r.Filename == "" {
		r.Filename = "Untitled document"
	}

	m := view.Summary.Metrics
	r.Metadata = []Field{
		{Label: "Document Type", Value: view.Summary.DocumentType},
		{Label: "Risk Level", Value: string(view.RiskAssessment.Level)},
		{Label: "AI Confidence", Value: formatNumber(m.AIConfidence) + "%"},
		{Label: "Compliance Score", Value: formatNumber(m.ComplianceScore) + "%"},
		{Label: "Critical Issues", Value: fmt.Sprint(m.CriticalIssues)},
		{Label: "Total Obligations", Value: fmt.Sprint(m.TotalObligations)},
	}
	if len(view.Summary.MainParties) > 0 {
		r.Metadata = append(r.Metadata, Field{Label: "Parties", Value: strings.Join(view.Summary.MainParties, ", ")})
	}

	for _, list := range [][]model.RiskItem{view.RiskAssessment.CriticalRisks, view.RiskAssessment.ModerateRisks} {
		for _, it := range list {
			r.Issues = append(r.Issues, Issue{
				Title:          it.Title,
				Severity:       strings.ToUpper(it.Severity),
				Section:        it.Section,
				Description:    CleanText(it.Description),
				Recommendation: CleanText(it.Recommendation),
			})
		}
	}
	return r
}

// Filename returns the download name for a report of doc.
func Filename(doc model.Document) string {
	base := strings.TrimSuffix(path.Base(doc.Filename), path.Ext(doc.Filename))
	if base == "" || base == "." || base == "/" {
		base = "document"
	}
	return fmt.Sprintf("%s_analysis_report.pdf", base)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
