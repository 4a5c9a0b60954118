package model

type StatusTimes struct {
	FastTrack            float64  `json:"fast_track"`
	BackgroundProcessing *float64 `json:"background_processing,omitempty"`
	TotalTime            *float64 `json:"total_time,omitempty"`
}

// ProcessingStatus reports the backend's background enrichment after the
// fast-track analysis has returned.
type ProcessingStatus struct {
	DocumentID            string      `json:"document_id,omitempty"`
	FastTrackCompleted    bool        `json:"fast_track_completed"`
	BackgroundCompleted   bool        `json:"background_completed"`
	VectorStorageReady    bool        `json:"vector_storage_ready"`
	SummaryEmbeddingReady bool        `json:"summary_embedding_ready"`
	QASystemReady         bool        `json:"qa_system_ready"`
	ProcessingTimes       StatusTimes `json:"processing_times"`
}

// ProcessingStep is one stage of the analyzing screen.
type ProcessingStep struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Seconds     *float64 `json:"seconds,omitempty"`
}

// Progress maps the completed stages to a percentage: 40 after the fast track,
// 70 once vectors are stored and 100 when Q&A is ready.
func (s ProcessingStatus) Progress() int {
	switch {
	case s.QASystemReady:
		return 100
	case s.VectorStorageReady:
		return 70
	case s.FastTrackCompleted:
		return 40
	default:
		return 0
	}
}

func (s ProcessingStatus) Steps() []ProcessingStep {
	fastTrack := s.ProcessingTimes.FastTrack
	return []ProcessingStep{
		{
			Title:       "Fast Track Analysis",
			Description: "AI-powered document summarization",
			Completed:   s.FastTrackCompleted,
			Seconds:     &fastTrack,
		},
		{
			Title:       "Vector Processing",
			Description: "Background embedding & chunking",
			Completed:   s.VectorStorageReady,
			Seconds:     s.ProcessingTimes.BackgroundProcessing,
		},
		{
			Title:       "Q&A System",
			Description: "Interactive knowledge base ready",
			Completed:   s.QASystemReady,
			Seconds:     s.ProcessingTimes.TotalTime,
		},
	}
}
