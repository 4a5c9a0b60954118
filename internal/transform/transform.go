package transform

import (
	"strings"

	"legaldesk/internal/model"
)

// NormalizeSummary normalizes the summary component. The overview falls back through
// overview, analysis and executive_summary before the placeholder.
func NormalizeSummary(raw *model.RawSummary) Summary {
	out := Summary{
		Overview:     NoSummary,
		DocumentType: DefaultDocumentType,
		MainParties:  []string{},
		Metrics:      normalizeMetrics(nil),
	}
	if raw == nil {
		return out
	}
	out.Overview = firstText(NoSummary, raw.Overview, raw.Analysis, raw.ExecutiveSummary)
	if t := strings.TrimSpace(raw.DocumentType); t != "" {
		out.DocumentType = t
	}
	out.MainParties = strs(raw.MainParties)
	out.Metrics = normalizeMetrics(raw.Metrics)
	return out
}

func normalizeMetrics(raw *model.RawSummaryMetrics) SummaryMetrics {
	m := SummaryMetrics{
		AIConfidence:     DefaultAIConfidence,
		RiskScore:        DefaultRiskScore,
		ComplianceScore:  DefaultComplianceScore,
		CriticalIssues:   DefaultCriticalIssues,
		TotalObligations: DefaultTotalObligations,
	}
	if raw == nil {
		return m
	}
	m.AIConfidence = floatOr(raw.AIConfidence, DefaultAIConfidence)
	m.RiskScore = floatOr(raw.RiskScore, DefaultRiskScore)
	m.ComplianceScore = floatOr(raw.ComplianceScore, DefaultComplianceScore)
	m.CriticalIssues = intOr(raw.CriticalIssues, DefaultCriticalIssues)
	m.TotalObligations = intOr(raw.TotalObligations, DefaultTotalObligations)
	m.DocumentPages = raw.DocumentPages
	m.DocumentSize = raw.DocumentSize
	m.ComplexityScore = raw.ComplexityScore
	return m
}

func NormalizeRiskAssessment(raw *model.RawRiskAssessment) RiskAssessment {
	out := RiskAssessment{
		OverallRiskLevel:   DefaultRiskLevel,
		RiskScore:          DefaultRiskScore,
		CriticalRisks:      []model.RiskItem{},
		ModerateRisks:      []model.RiskItem{},
		RedFlags:           []string{},
		FinancialPenalties: []string{},
		LiabilityConcerns:  []string{},
		Analysis:           NoRisk,
	}
	if raw != nil {
		if lvl := strings.TrimSpace(raw.OverallRiskLevel); lvl != "" {
			out.OverallRiskLevel = lvl
		}
		out.RiskScore = floatOr(raw.RiskScore, DefaultRiskScore)
		if raw.CriticalRisks != nil {
			out.CriticalRisks = raw.CriticalRisks
		}
		if raw.ModerateRisks != nil {
			out.ModerateRisks = raw.ModerateRisks
		}
		out.RedFlags = strs(raw.RedFlags)
		out.FinancialPenalties = strs(raw.FinancialPenalties)
		out.LiabilityConcerns = strs(raw.LiabilityConcerns)
		out.Analysis = firstText(NoRisk, raw.Analysis)
	}
	out.Level = ClassifyRisk(out.OverallRiskLevel, out.RiskScore)
	return out
}

func NormalizeKeyHighlights(raw *model.RawKeyHighlights) KeyHighlights {
	out := KeyHighlights{
		CriticalDeadlines:     []model.Deadline{},
		FinancialObligations:  []model.FinancialObligation{},
		TerminationProcedures: []string{},
		KeyRestrictions:       []string{},
		ActionItems:           []string{},
		Analysis:              NoHighlights,
	}
	if raw == nil {
		return out
	}
	if raw.CriticalDeadlines != nil {
		out.CriticalDeadlines = raw.CriticalDeadlines
	}
	if raw.FinancialObligations != nil {
		out.FinancialObligations = raw.FinancialObligations
	}
	if raw.AutoRenewalClause != nil {
		out.AutoRenewalClause = *raw.AutoRenewalClause
	}
	out.TerminationProcedures = strs(raw.TerminationProcedures)
	out.KeyRestrictions = strs(raw.KeyRestrictions)
	out.ActionItems = strs(raw.ActionItems)
	out.Analysis = firstText(NoHighlights, raw.Analysis)
	return out
}

// NormalizeConfidenceMetrics reports missing scores as zero.
func NormalizeConfidenceMetrics(raw *model.RawConfidenceMetrics) ConfidenceMetrics {
	out := ConfidenceMetrics{
		OverallConfidence:      DefaultConfidenceScore,
		ClarityScore:           DefaultConfidenceScore,
		Completeness:           DefaultConfidenceScore,
		LegalComplexity:        DefaultLegalComplexity,
		WellUnderstoodSections: []string{},
		ComplexSections:        []string{},
		UnclearSections:        []string{},
		Recommendations:        []string{},
		ConsultationReasons:    []string{},
		Analysis:               NoConfidence,
	}
	if raw == nil {
		return out
	}
	out.OverallConfidence = floatOr(raw.OverallConfidence, DefaultConfidenceScore)
	out.ClarityScore = floatOr(raw.ClarityScore, DefaultConfidenceScore)
	out.Completeness = floatOr(raw.Completeness, DefaultConfidenceScore)
	if c := strings.TrimSpace(raw.LegalComplexity); c != "" {
		out.LegalComplexity = c
	}
	out.WellUnderstoodSections = strs(raw.WellUnderstoodSections)
	out.ComplexSections = strs(raw.ComplexSections)
	out.UnclearSections = strs(raw.UnclearSections)
	out.Recommendations = strs(raw.Recommendations)
	out.LegalConsultationRecommended = raw.LegalConsultationRecommended
	out.ConsultationUrgency = raw.ConsultationUrgency
	out.ConsultationReasons = strs(raw.ConsultationReasons)
	out.QualityMetrics = raw.QualityMetrics
	out.Analysis = firstText(NoConfidence, raw.Analysis)
	return out
}

// Document builds the full view for doc. A document still hydrating
// (nil Analysis) yields the all-defaults view.
func Document(doc model.Document, opts ViewOptions) DocumentView {
	var res model.AnalysisResult
	if doc.Analysis != nil {
		res = *doc.Analysis
	}
	v := DocumentView{
		DocumentID:        doc.ID,
		Filename:          doc.Filename,
		Summary:           NormalizeSummary(res.Components.Summary),
		RiskAssessment:    NormalizeRiskAssessment(res.Components.RiskAssessment),
		KeyHighlights:     NormalizeKeyHighlights(res.Components.KeyHighlights),
		ConfidenceMetrics: NormalizeConfidenceMetrics(res.Components.ConfidenceMetrics),
	}
	// The summary carries the canonical risk score when the risk component omits one.
	if res.Components.RiskAssessment == nil || res.Components.RiskAssessment.RiskScore == nil {
		v.RiskAssessment.RiskScore = v.Summary.Metrics.RiskScore
		v.RiskAssessment.Level = ClassifyRisk(v.RiskAssessment.OverallRiskLevel, v.RiskAssessment.RiskScore)
	}
	if opts.ShowPerformanceMetrics && doc.Analysis != nil {
		perf := res.Performance
		v.Performance = &perf
	}
	if opts.ShowProcessingErrors {
		v.ProcessingErrors = strs(res.Metadata.ProcessingErrors)
	}
	return v
}

// Summarize produces the dashboard listing entry for doc.
func Summarize(doc model.Document) model.DocumentSummary {
	v := Document(doc, ViewOptions{})
	return model.DocumentSummary{
		ID:         doc.ID,
		Filename:   doc.Filename,
		RiskLevel:  string(v.RiskAssessment.Level),
		RiskScore:  v.RiskAssessment.RiskScore,
		AnalyzedAt: doc.OpenedAt,
	}
}

func firstText(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return fallback
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func strs(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
