// Package service holds the use cases behind the gateway and the CLI. Every
// operation acts on one session store passed in by the caller.
package service

import (
	"errors"

	"legaldesk/internal/session"
)

var (
	ErrReaderNil         = errors.New("reader is nil")
	ErrFilenameRequired  = errors.New("filename is required")
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("document not found")
	ErrNoDocument        = session.ErrNoDocument
	ErrAlreadyProcessing = session.ErrAlreadyProcessing
	ErrNoAnalysis        = errors.New("document analysis is not available yet")
	ErrStorageDisabled   = errors.New("report storage is not configured")
	ErrQuestionRequired  = errors.New("question is required")
	ErrQuestionInFlight  = errors.New("a question is already being answered")
	ErrAnalysisCancelled = errors.New("analysis cancelled because the session was reset")
)

// DefaultConversation names a session's Q&A thread while no document is open.
const DefaultConversation = "default"

// ConversationID keys Q&A history per client session and open document, so
// one client never sees or clears another client's conversation.
func ConversationID(sessionID string, s session.State) string {
	doc := DefaultConversation
	if s.CurrentDocument != nil && s.CurrentDocument.ID != "" {
		doc = s.CurrentDocument.ID
	}
	return sessionID + ":" + doc
}

func notProcessing(s session.State) error {
	if s.IsProcessing {
		return ErrAlreadyProcessing
	}
	return nil
}
