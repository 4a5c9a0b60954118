// Package chat builds Q&A conversation messages.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldesk/internal/backend"
	"legaldesk/internal/model"
)

const (
	LoadingText = "Analyzing your question..."

	BackendErrorText   = "I apologize, but I encountered an error processing your question. Please try again or rephrase your question."
	TransportErrorText = "I'm sorry, but I'm having trouble connecting to the analysis service. Please check your connection and try again."

	// ContextWindow is how many trailing messages are sent as conversation context.
	ContextWindow = 6
)

// FallbackQuestions is shown whenever suggested questions cannot be loaded.
var FallbackQuestions = []string{
	"What are the key obligations for each party?",
	"What are the termination conditions?",
	"How are disputes resolved?",
	"What are the liability limitations?",
	"What intellectual property rights are involved?",
	"What are the payment terms and conditions?",
}

// Fallback returns a copy of FallbackQuestions.
func Fallback() []string {
	return append([]string(nil), FallbackQuestions...)
}

var now = func() time.Time { return time.Now().UTC() }

func UserMessage(content string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: now(),
	}
}

func LoadingMessage() model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   LoadingText,
		Timestamp: now(),
		IsLoading: true,
	}
}

// AnswerMessage converts a backend answer into an assistant message.
func AnswerMessage(res *model.QAResponse) model.ChatMessage {
	msg := model.ChatMessage{
		ID:                    uuid.NewString(),
		Role:                  model.RoleAssistant,
		Content:               res.Answer,
		Timestamp:             now(),
		Confidence:            res.ConfidenceScore,
		Citations:             res.Citations,
		RelatedTopics:         res.RelatedTopics,
		FollowUpQuestions:     res.FollowUpQuestions,
		ProcessingTimeSeconds: res.ProcessingTime,
	}
	if strings.TrimSpace(msg.Content) == "" {
		msg.Content = BackendErrorText
	}
	return msg
}

// ErrorMessage is the assistant reply shown when a question fails.
func ErrorMessage(err error) model.ChatMessage {
	text := BackendErrorText
	if backend.IsTransport(err) {
		text = TransportErrorText
	}
	zero := 0.0
	return model.ChatMessage{
		ID:         uuid.NewString(),
		Role:       model.RoleAssistant,
		Content:    text,
		Timestamp:  now(),
		Confidence: &zero,
	}
}

// Conversation is an ordered message list. Messages are only appended, except
// that a trailing loading placeholder is replaced by its resolved answer.
type Conversation struct {
	Messages []model.ChatMessage
}

func NewConversation(history []model.ChatMessage) *Conversation {
	return &Conversation{Messages: append([]model.ChatMessage(nil), history...)}
}

func (c *Conversation) AddUser(content string) model.ChatMessage {
	msg := UserMessage(content)
	c.Messages = append(c.Messages, msg)
	return msg
}

// BeginAnswer appends the loading placeholder.
func (c *Conversation) BeginAnswer() model.ChatMessage {
	msg := LoadingMessage()
	c.Messages = append(c.Messages, msg)
	return msg
}

// ResolveAnswer replaces the trailing placeholder with msg, or appends msg
// when there is none.
func (c *Conversation) ResolveAnswer(msg model.ChatMessage) {
	if n := len(c.Messages); n > 0 && c.Messages[n-1].IsLoading {
		c.Messages[n-1] = msg
		return
	}
	c.Messages = append(c.Messages, msg)
}

// Context renders the last ContextWindow settled messages as "role: content" lines.
func (c *Conversation) Context() string {
	settled := make([]model.ChatMessage, 0, len(c.Messages))
	for _, m := range c.Messages {
		if !m.IsLoading {
			settled = append(settled, m)
		}
	}
	if len(settled) > ContextWindow {
		settled = settled[len(settled)-ContextWindow:]
	}
	lines := make([]string, 0, len(settled))
	for _, m := range settled {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// Tail returns the last n messages, never including a loading placeholder.
func (c *Conversation) Tail(n int) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(c.Messages))
	for _, m := range c.Messages {
		if !m.IsLoading {
			out = append(out, m)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
