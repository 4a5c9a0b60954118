package model

// AnalysisResult is the payload returned by POST /process_direct.
// Optional scalars are pointers so the transformers can tell "absent" from zero.
type AnalysisResult struct {
	Status      string             `json:"status"`
	DocumentID  string             `json:"document_id,omitempty"`
	Analysis    string             `json:"analysis"`
	Performance Performance        `json:"performance"`
	Metadata    AnalysisMetadata   `json:"metadata"`
	Components  AnalysisComponents `json:"components"`
}

type Performance struct {
	TotalTime             float64 `json:"total_time"`
	TargetAchieved        bool    `json:"target_achieved"`
	ParallelExecutionTime float64 `json:"parallel_execution_time"`
	AgentsCompleted       int     `json:"agents_completed"`
	Architecture          string  `json:"architecture"`
}

type AnalysisMetadata struct {
	DocumentLength      int              `json:"document_length"`
	EstimatedPages      *int             `json:"estimated_pages,omitempty"`
	Filename            string           `json:"filename"`
	ProcessingMode      string           `json:"processing_mode"`
	DirectPDFProcessing bool             `json:"direct_pdf_processing"`
	ProcessingTimes     ProcessingTimes  `json:"processing_times"`
	DocumentMetadata    DocumentMetadata `json:"document_metadata"`
	ProcessingErrors    []string         `json:"processing_errors"`
}

type ProcessingTimes struct {
	PDFProcessing  float64 `json:"pdf_processing"`
	AIAnalysis     float64 `json:"ai_analysis"`
	ParallelAgents float64 `json:"parallel_agents"`
	Total          float64 `json:"total"`
}

type DocumentMetadata struct {
	Filename             string                `json:"filename"`
	FileSize             int64                 `json:"file_size"`
	EstimatedReadingTime *float64              `json:"estimated_reading_time,omitempty"`
	ComplexityIndicators *ComplexityIndicators `json:"complexity_indicators,omitempty"`
}

type ComplexityIndicators struct {
	LegalTermsCount     int    `json:"legal_terms_count"`
	FinancialTermsCount int    `json:"financial_terms_count"`
	TechnicalComplexity string `json:"technical_complexity"`
}

// AnalysisComponents holds the four analysis sections. Any of them may be missing.
type AnalysisComponents struct {
	Summary           *RawSummary           `json:"summary,omitempty"`
	RiskAssessment    *RawRiskAssessment    `json:"risk_assessment,omitempty"`
	KeyHighlights     *RawKeyHighlights     `json:"key_highlights,omitempty"`
	ConfidenceMetrics *RawConfidenceMetrics `json:"confidence_metrics,omitempty"`
}

type RawSummary struct {
	Overview         string             `json:"overview"`
	Analysis         string             `json:"analysis,omitempty"`
	ExecutiveSummary string             `json:"executive_summary,omitempty"`
	DocumentType     string             `json:"document_type"`
	MainParties      []string           `json:"main_parties"`
	Metrics          *RawSummaryMetrics `json:"metrics,omitempty"`
}

type RawSummaryMetrics struct {
	AIConfidence     *float64 `json:"ai_confidence,omitempty"`
	RiskScore        *float64 `json:"risk_score,omitempty"`
	ComplianceScore  *float64 `json:"compliance_score,omitempty"`
	CriticalIssues   *int     `json:"critical_issues,omitempty"`
	TotalObligations *int     `json:"total_obligations,omitempty"`
	DocumentPages    *int     `json:"document_pages,omitempty"`
	DocumentSize     *int64   `json:"document_size,omitempty"`
	ComplexityScore  *float64 `json:"complexity_score,omitempty"`
}

// RiskItem is a single critical or moderate risk.
type RiskItem struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Section        string  `json:"section"`
	Description    string  `json:"description"`
	Impact         string  `json:"impact"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

type RawRiskAssessment struct {
	OverallRiskLevel   string     `json:"overall_risk_level"`
	RiskScore          *float64   `json:"risk_score,omitempty"`
	CriticalRisks      []RiskItem `json:"critical_risks"`
	ModerateRisks      []RiskItem `json:"moderate_risks"`
	RedFlags           []string   `json:"red_flags"`
	FinancialPenalties []string   `json:"financial_penalties"`
	LiabilityConcerns  []string   `json:"liability_concerns"`
	Analysis           string     `json:"analysis"`
}

type Deadline struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Party       string `json:"party"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

type FinancialObligation struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Party       string `json:"party"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

type AutoRenewalClause struct {
	Exists         bool   `json:"exists"`
	RenewalPeriod  string `json:"renewal_period,omitempty"`
	NoticeRequired string `json:"notice_required,omitempty"`
	Automatic      bool   `json:"automatic"`
}

type RawKeyHighlights struct {
	CriticalDeadlines     []Deadline            `json:"critical_deadlines"`
	FinancialObligations  []FinancialObligation `json:"financial_obligations"`
	AutoRenewalClause     *AutoRenewalClause    `json:"auto_renewal_clause,omitempty"`
	TerminationProcedures []string              `json:"termination_procedures"`
	KeyRestrictions       []string              `json:"key_restrictions"`
	ActionItems           []string              `json:"action_items"`
	Analysis              string                `json:"analysis"`
}

type QualityMetrics struct {
	DetailLevel        string  `json:"detail_level"`
	AccuracyConfidence float64 `json:"accuracy_confidence"`
	PracticalValue     string  `json:"practical_value"`
	Comprehensiveness  float64 `json:"comprehensiveness"`
}

type RawConfidenceMetrics struct {
	OverallConfidence            *float64        `json:"overall_confidence,omitempty"`
	ClarityScore                 *float64        `json:"clarity_score,omitempty"`
	Completeness                 *float64        `json:"completeness,omitempty"`
	LegalComplexity              string          `json:"legal_complexity"`
	WellUnderstoodSections       []string        `json:"well_understood_sections"`
	ComplexSections              []string        `json:"complex_sections"`
	UnclearSections              []string        `json:"unclear_sections"`
	Recommendations              []string        `json:"recommendations"`
	LegalConsultationRecommended bool            `json:"legal_consultation_recommended"`
	ConsultationUrgency          string          `json:"consultation_urgency"`
	ConsultationReasons          []string        `json:"consultation_reasons"`
	QualityMetrics               *QualityMetrics `json:"quality_metrics,omitempty"`
	Analysis                     string          `json:"analysis"`
}
