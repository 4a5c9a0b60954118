package model

// Backend service status values reported by GET /health.
const (
	ServiceHealthy   = "healthy"
	ServicePartial   = "partial"
	ServiceUnhealthy = "unhealthy"
)

// ServiceStatus is one entry of the /health services map.
type ServiceStatus struct {
	Status string `json:"status"`
}

// HealthResponse is the payload returned by GET /health.
type HealthResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
}

type RAGHealthStatus struct {
	Status           string `json:"status"`
	VectorStore      string `json:"vector_store"`
	EmbeddingService string `json:"embedding_service"`
	LLMModel         string `json:"llm_model"`
	WorkflowReady    bool   `json:"workflow_ready"`
}

// RAGCapabilities are the flags advertised by GET /rag_health.
type RAGCapabilities struct {
	QuestionAnswering  bool `json:"question_answering"`
	SemanticSearch     bool `json:"semantic_search"`
	DocumentCitation   bool `json:"document_citation"`
	ConfidenceScoring  bool `json:"confidence_scoring"`
	FollowUpGeneration bool `json:"follow_up_generation"`
}

// RAGHealthResponse is the payload returned by GET /rag_health.
type RAGHealthResponse struct {
	Status       string          `json:"status"`
	RAGHealth    RAGHealthStatus `json:"rag_health"`
	Capabilities RAGCapabilities `json:"capabilities"`
}

// ServiceFlags says which backend pipelines are usable.
type ServiceFlags struct {
	DirectProcessing bool `json:"direct_processing"`
	VectorProcessing bool `json:"vector_processing"`
	RAGQA            bool `json:"rag_qa"`
}

// HealthSnapshot is the client-side view of backend health.
type HealthSnapshot struct {
	Online       bool            `json:"online"`
	Services     ServiceFlags    `json:"services"`
	Capabilities RAGCapabilities `json:"capabilities"`
}
