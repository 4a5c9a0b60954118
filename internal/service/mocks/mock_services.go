package mocks

import (
	"context"
	"io"

	"legaldesk/internal/model"
	"legaldesk/internal/report"
	"legaldesk/internal/service"
	"legaldesk/internal/session"
	"legaldesk/internal/transform"

	"github.com/stretchr/testify/mock"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, st *session.Store, upload model.Upload, content io.Reader) (*model.Document, error) {
	args := m.Called(ctx, st, upload, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockAnalysisService) Select(ctx context.Context, st *session.Store, id string) (*model.Document, error) {
	args := m.Called(ctx, st, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockAnalysisService) View(st *session.Store, opts transform.ViewOptions) (*transform.DocumentView, error) {
	args := m.Called(st, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transform.DocumentView), args.Error(1)
}

func (m *MockAnalysisService) Back(st *session.Store) session.State {
	args := m.Called(st)
	return args.Get(0).(session.State)
}

func (m *MockAnalysisService) Reset(st *session.Store) session.State {
	args := m.Called(st)
	return args.Get(0).(session.State)
}

func (m *MockAnalysisService) List(ctx context.Context, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

type MockQAService struct {
	mock.Mock
}

func (m *MockQAService) Ask(ctx context.Context, st *session.Store, query string) (model.ChatMessage, error) {
	args := m.Called(ctx, st, query)
	return args.Get(0).(model.ChatMessage), args.Error(1)
}

func (m *MockQAService) SuggestedQuestions(ctx context.Context, st *session.Store) []string {
	args := m.Called(ctx, st)
	return args.Get(0).([]string)
}

func (m *MockQAService) History(ctx context.Context, st *session.Store) ([]model.ChatMessage, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockQAService) ClearHistory(ctx context.Context, st *session.Store) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Export(st *session.Store) (report.Output, error) {
	args := m.Called(st)
	return args.Get(0).(report.Output), args.Error(1)
}

func (m *MockReportService) HTML(st *session.Store) (string, error) {
	args := m.Called(st)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) Publish(ctx context.Context, st *session.Store) (*service.PublishedReport, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedReport), args.Error(1)
}
