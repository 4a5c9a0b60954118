package mocks

import (
	"context"

	"legaldesk/internal/model"
	"legaldesk/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockChatHistoryRepository struct {
	mock.Mock
}

func (m *MockChatHistoryRepository) Append(ctx context.Context, conversationID string, msgs ...model.ChatMessage) error {
	args := m.Called(ctx, conversationID, msgs)
	return args.Error(0)
}

func (m *MockChatHistoryRepository) Recent(ctx context.Context, conversationID string, limit int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, conversationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatHistoryRepository) Trim(ctx context.Context, conversationID string, keep int) error {
	args := m.Called(ctx, conversationID, keep)
	return args.Error(0)
}

func (m *MockChatHistoryRepository) Clear(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}
