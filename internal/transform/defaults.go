// Package transform normalizes backend analysis payloads into view shapes.
// Every absent scalar gets a fixed default and every absent list becomes an
// empty slice, so callers never branch on presence.
package transform

const (
	DefaultAIConfidence     = 85.0
	DefaultRiskScore        = 5.0
	DefaultComplianceScore  = 75.0
	DefaultCriticalIssues   = 0
	DefaultTotalObligations = 0
	// Confidence-panel scores are not estimated when the backend omits them.
	DefaultConfidenceScore = 0.0

	DefaultDocumentType    = "Document"
	DefaultRiskLevel       = "unknown"
	DefaultLegalComplexity = "unknown"

	NoSummary    = "No summary available"
	NoRisk       = "No risk analysis available"
	NoHighlights = "No highlights analysis available"
	NoConfidence = "No confidence analysis available"
)

// RiskLevel is the three-way bucket shown wherever risk is displayed.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)
