// Package memory provides in-process repositories used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"legaldesk/internal/model"
	"legaldesk/internal/repository"
)

type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]model.Document)}
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

func (s *DocumentStore) Save(_ context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *DocumentStore) FindByID(_ context.Context, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (s *DocumentStore) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	s.mu.RLock()
	all := make([]model.Document, 0, len(s.docs))
	for _, d := range s.docs {
		all = append(all, d)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].OpenedAt.Equal(all[j].OpenedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].OpenedAt.After(all[j].OpenedAt)
	})

	items := make([]model.Document, 0)
	if pq.Offset < len(all) {
		end := len(all)
		if pq.Limit > 0 && pq.Offset+pq.Limit < end {
			end = pq.Offset + pq.Limit
		}
		items = append(items, all[pq.Offset:end]...)
	}
	return &repository.PageResult[model.Document]{Items: items, Total: len(all)}, nil
}

func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

type ChatStore struct {
	mu    sync.Mutex
	convs map[string][]model.ChatMessage
}

func NewChatStore() *ChatStore {
	return &ChatStore{convs: make(map[string][]model.ChatMessage)}
}

var _ repository.ChatHistoryRepository = (*ChatStore)(nil)

func (s *ChatStore) Append(_ context.Context, conversationID string, msgs ...model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[conversationID] = append(s.convs[conversationID], msgs...)
	return nil
}

func (s *ChatStore) Recent(_ context.Context, conversationID string, limit int) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.convs[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append(make([]model.ChatMessage, 0, len(msgs)), msgs...), nil
}

func (s *ChatStore) Trim(_ context.Context, conversationID string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.convs[conversationID]
	if len(msgs) > keep {
		s.convs[conversationID] = append([]model.ChatMessage(nil), msgs[len(msgs)-keep:]...)
	}
	return nil
}

func (s *ChatStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, conversationID)
	return nil
}
