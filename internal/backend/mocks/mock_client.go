package mocks

import (
	"context"
	"io"

	"legaldesk/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) ProcessDocument(ctx context.Context, filename string, content io.Reader) (*model.AnalysisResult, error) {
	args := m.Called(ctx, filename, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockClient) AskQuestion(ctx context.Context, query, documentID, conversationContext string) (*model.QAResponse, error) {
	args := m.Called(ctx, query, documentID, conversationContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QAResponse), args.Error(1)
}

func (m *MockClient) GetSuggestedQuestions(ctx context.Context, documentID string) (*model.SuggestedQuestionsResponse, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SuggestedQuestionsResponse), args.Error(1)
}

func (m *MockClient) CheckRAGHealth(ctx context.Context) (*model.RAGHealthResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RAGHealthResponse), args.Error(1)
}

func (m *MockClient) HealthCheck(ctx context.Context) (*model.HealthResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HealthResponse), args.Error(1)
}

func (m *MockClient) CheckProcessingStatus(ctx context.Context, documentID string) (*model.ProcessingStatus, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessingStatus), args.Error(1)
}
