package transform

import "legaldesk/internal/model"

type SummaryMetrics struct {
	AIConfidence     float64  `json:"ai_confidence"`
	RiskScore        float64  `json:"risk_score"`
	ComplianceScore  float64  `json:"compliance_score"`
	CriticalIssues   int      `json:"critical_issues"`
	TotalObligations int      `json:"total_obligations"`
	DocumentPages    *int     `json:"document_pages,omitempty"`
	DocumentSize     *int64   `json:"document_size,omitempty"`
	ComplexityScore  *float64 `json:"complexity_score,omitempty"`
}

type Summary struct {
	Overview     string         `json:"overview"`
	DocumentType string         `json:"document_type"`
	MainParties  []string       `json:"main_parties"`
	Metrics      SummaryMetrics `json:"metrics"`
}

type RiskAssessment struct {
	OverallRiskLevel   string           `json:"overall_risk_level"`
	Level              RiskLevel        `json:"level"`
	RiskScore          float64          `json:"risk_score"`
	CriticalRisks      []model.RiskItem `json:"critical_risks"`
	ModerateRisks      []model.RiskItem `json:"moderate_risks"`
	RedFlags           []string         `json:"red_flags"`
	FinancialPenalties []string         `json:"financial_penalties"`
	LiabilityConcerns  []string         `json:"liability_concerns"`
	Analysis           string           `json:"analysis"`
}

type KeyHighlights struct {
	CriticalDeadlines     []model.Deadline            `json:"critical_deadlines"`
	FinancialObligations  []model.FinancialObligation `json:"financial_obligations"`
	AutoRenewalClause     model.AutoRenewalClause     `json:"auto_renewal_clause"`
	TerminationProcedures []string                    `json:"termination_procedures"`
	KeyRestrictions       []string                    `json:"key_restrictions"`
	ActionItems           []string                    `json:"action_items"`
	Analysis              string                      `json:"analysis"`
}

type ConfidenceMetrics struct {
	OverallConfidence            float64               `json:"overall_confidence"`
	ClarityScore                 float64               `json:"clarity_score"`
	Completeness                 float64               `json:"completeness"`
	LegalComplexity              string                `json:"legal_complexity"`
	WellUnderstoodSections       []string              `json:"well_understood_sections"`
	ComplexSections              []string              `json:"complex_sections"`
	UnclearSections              []string              `json:"unclear_sections"`
	Recommendations              []string              `json:"recommendations"`
	LegalConsultationRecommended bool                  `json:"legal_consultation_recommended"`
	ConsultationUrgency          string                `json:"consultation_urgency,omitempty"`
	ConsultationReasons          []string              `json:"consultation_reasons"`
	QualityMetrics               *model.QualityMetrics `json:"quality_metrics,omitempty"`
	Analysis                     string                `json:"analysis"`
}

// ViewOptions enumerates the optional panels of the document view.
type ViewOptions struct {
	ShowPerformanceMetrics bool
	ShowProcessingErrors   bool
}

// DocumentView is the normalized analysis shown for an open document.
type DocumentView struct {
	DocumentID        string             `json:"document_id"`
	Filename          string             `json:"filename"`
	Summary           Summary            `json:"summary"`
	RiskAssessment    RiskAssessment     `json:"risk_assessment"`
	KeyHighlights     KeyHighlights      `json:"key_highlights"`
	ConfidenceMetrics ConfidenceMetrics  `json:"confidence_metrics"`
	Performance       *model.Performance `json:"performance,omitempty"`
	ProcessingErrors  []string           `json:"processing_errors,omitempty"`
}
