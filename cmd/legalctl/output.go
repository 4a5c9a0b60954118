package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"legaldesk/internal/model"
	"legaldesk/internal/transform"
)

var (
	bold    = color.New(color.Bold)
	ok      = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	fail    = color.New(color.FgRed)
	subtle  = color.New(color.Faint)
	heading = color.New(color.FgCyan, color.Bold)
)

// riskBadge renders the risk level with its traffic-light color.
func riskBadge(level transform.RiskLevel) string {
	label := fmt.Sprintf(" %s RISK ", level)
	switch level {
	case transform.RiskHigh:
		return color.New(color.BgRed, color.FgWhite, color.Bold).Sprint(label)
	case transform.RiskMedium:
		return color.New(color.BgYellow, color.FgBlack, color.Bold).Sprint(label)
	default:
		return color.New(color.BgGreen, color.FgBlack, color.Bold).Sprint(label)
	}
}

func flag(on bool) string {
	if on {
		return ok.Sprint("up")
	}
	return fail.Sprint("down")
}

func printHealth(w io.Writer, snap model.HealthSnapshot) {
	status := fail.Sprint("offline")
	if snap.Online {
		status = ok.Sprint("online")
	}
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("backend:"), status)
	fmt.Fprintf(w, "  direct processing  %s\n", flag(snap.Services.DirectProcessing))
	fmt.Fprintf(w, "  vector processing  %s\n", flag(snap.Services.VectorProcessing))
	fmt.Fprintf(w, "  question answering %s\n", flag(snap.Services.RAGQA))
}

func printView(w io.Writer, v transform.DocumentView) {
	fmt.Fprintf(w, "%s %s\n", heading.Sprint(v.Filename), subtle.Sprintf("(%s)", v.DocumentID))
	fmt.Fprintf(w, "%s  score %.1f/10\n\n", riskBadge(v.RiskAssessment.Level), v.RiskAssessment.RiskScore)

	fmt.Fprintln(w, bold.Sprint("Summary"))
	fmt.Fprintf(w, "  %s\n", v.Summary.Overview)
	fmt.Fprintf(w, "  type: %s  confidence: %.0f%%  compliance: %.0f%%\n",
		v.Summary.DocumentType, v.Summary.Metrics.AIConfidence, v.Summary.Metrics.ComplianceScore)
	if len(v.Summary.MainParties) > 0 {
		fmt.Fprintf(w, "  parties: %s\n", strings.Join(v.Summary.MainParties, ", "))
	}

	if n := len(v.RiskAssessment.CriticalRisks); n > 0 {
		fmt.Fprintf(w, "\n%s\n", fail.Sprintf("Critical risks (%d)", n))
		for _, r := range v.RiskAssessment.CriticalRisks {
			fmt.Fprintf(w, "  - %s\n", r.Title)
		}
	}
	if n := len(v.RiskAssessment.RedFlags); n > 0 {
		fmt.Fprintf(w, "\n%s\n", warn.Sprintf("Red flags (%d)", n))
		for _, f := range v.RiskAssessment.RedFlags {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if n := len(v.KeyHighlights.CriticalDeadlines); n > 0 {
		fmt.Fprintf(w, "\n%s\n", bold.Sprintf("Deadlines (%d)", n))
		for _, d := range v.KeyHighlights.CriticalDeadlines {
			fmt.Fprintf(w, "  - %s %s\n", d.Title, subtle.Sprint(d.DueDate))
		}
	}
}

func printProgress(w io.Writer, st model.ProcessingStatus) {
	fmt.Fprintf(w, "%s %3d%%", subtle.Sprint("processing"), st.Progress())
	for _, s := range st.Steps() {
		mark := subtle.Sprint("·")
		if s.Completed {
			mark = ok.Sprint("✓")
		}
		fmt.Fprintf(w, "  %s %s", mark, s.Title)
	}
	fmt.Fprintln(w)
}

func printAnswer(w io.Writer, msg model.ChatMessage) {
	fmt.Fprintln(w, msg.Content)
	if msg.Confidence != nil {
		fmt.Fprintf(w, "%s\n", subtle.Sprintf("confidence %.0f%%", *msg.Confidence*100))
	}
	if len(msg.FollowUpQuestions) > 0 {
		fmt.Fprintln(w, bold.Sprint("\nFollow-up questions"))
		for _, q := range msg.FollowUpQuestions {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
}
