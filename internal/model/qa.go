package model

// Citation is a source reference attached to an answer. The backend does not
// fix its shape, so it is kept as a loose JSON object.
type Citation map[string]any

// QAResponse is the payload returned by POST /ask_question.
type QAResponse struct {
	Status            string     `json:"status"`
	Query             string     `json:"query"`
	Answer            string     `json:"answer"`
	ConfidenceScore   *float64   `json:"confidence_score,omitempty"`
	ResponseType      string     `json:"response_type,omitempty"`
	SourceSections    []string   `json:"source_sections,omitempty"`
	RelatedTopics     []string   `json:"related_topics"`
	Citations         []Citation `json:"citations"`
	FollowUpQuestions []string   `json:"follow_up_questions"`
	ProcessingTime    *float64   `json:"processing_time,omitempty"`
	Timestamp         float64    `json:"timestamp,omitempty"`
}

// SuggestedQuestionsResponse is the payload returned by GET /suggested_questions.
type SuggestedQuestionsResponse struct {
	Status             string   `json:"status"`
	DocumentID         string   `json:"document_id,omitempty"`
	SuggestedQuestions []string `json:"suggested_questions"`
	TotalSuggestions   int      `json:"total_suggestions"`
}
