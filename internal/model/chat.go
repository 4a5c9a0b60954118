package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a Q&A conversation.
type ChatMessage struct {
	ID                    string     `json:"id"`
	Role                  Role       `json:"role"`
	Content               string     `json:"content"`
	Timestamp             time.Time  `json:"timestamp"`
	Confidence            *float64   `json:"confidence,omitempty"`
	Citations             []Citation `json:"citations,omitempty"`
	RelatedTopics         []string   `json:"related_topics,omitempty"`
	FollowUpQuestions     []string   `json:"follow_up_questions,omitempty"`
	ProcessingTimeSeconds *float64   `json:"processing_time_seconds,omitempty"`
	IsLoading             bool       `json:"is_loading,omitempty"`
}
