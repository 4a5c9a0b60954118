// Package repository contains data access layer abstractions.
// Implementations live in subpackages: postgres for SQL, memory for
// single-process deployments without a database.
package repository

import (
	"context"
	"errors"

	"legaldesk/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentRepository persists analyzed documents so they can be reopened from the dashboard.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Save inserts or replaces a document and its analysis.
	Save(ctx context.Context, doc *model.Document) error

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents, most recent first, and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

// ChatHistoryRepository persists Q&A conversations keyed by conversation id
// (the client session id joined with the open document id, or "default").
type ChatHistoryRepository interface {
	// Append stores msgs at the end of the conversation, in order.
	Append(ctx context.Context, conversationID string, msgs ...model.ChatMessage) error

	// Recent returns up to limit most recent messages in chronological order.
	Recent(ctx context.Context, conversationID string, limit int) ([]model.ChatMessage, error)

	// Trim deletes everything but the keep most recent messages.
	Trim(ctx context.Context, conversationID string, keep int) error

	// Clear deletes the whole conversation.
	Clear(ctx context.Context, conversationID string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
