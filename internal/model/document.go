package model

import "time"

// Document is the document a session currently has open.
// Analysis is nil while the document is still being hydrated.
type Document struct {
	ID       string          `json:"id"`
	Filename string          `json:"filename"`
	Analysis *AnalysisResult `json:"analysis"`
	OpenedAt time.Time       `json:"opened_at"`
}

// Upload describes a file submitted for analysis. The content itself is streamed
// straight to the backend and never kept on the session.
type Upload struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// DocumentSummary is the dashboard listing entry for an analyzed document.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	RiskLevel  string    `json:"risk_level"`
	RiskScore  float64   `json:"risk_score"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
