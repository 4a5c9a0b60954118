package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"legaldesk/internal/backend"
	backendMocks "legaldesk/internal/backend/mocks"
	"legaldesk/internal/chat"
	"legaldesk/internal/model"
	"legaldesk/internal/repository/memory"
	repoMocks "legaldesk/internal/repository/mocks"
	"legaldesk/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storeWithDocument(t *testing.T, id string) *session.Store {
	t.Helper()
	st := session.NewStore()
	_, err := st.Batch(nil,
		session.SetDocument(id, "msa.pdf", analysisResult(id)),
		session.SetView(session.ViewDocument),
	)
	require.NoError(t, err)
	return st
}

func TestQAService_Ask(t *testing.T) {
	conf := 0.92

	tests := []struct {
		name        string
		query       string
		setupMocks  func(mClient *backendMocks.MockClient)
		wantErr     error
		wantContent string
		wantConf    *float64
	}{
		{
			name:  "answer",
			query: "  What is the term?  ",
			setupMocks: func(mClient *backendMocks.MockClient) {
				mClient.On("AskQuestion", mock.Anything, "What is the term?", "doc-1", "").
					Return(&model.QAResponse{Answer: "Two years.", ConfidenceScore: &conf}, nil)
			},
			wantContent: "Two years.",
			wantConf:    &conf,
		},
		{
			name:  "backend error becomes an apology",
			query: "What is the term?",
			setupMocks: func(mClient *backendMocks.MockClient) {
				mClient.On("AskQuestion", mock.Anything, "What is the term?", "doc-1", "").
					Return(nil, &backend.APIError{Kind: backend.KindBackend, StatusCode: 500, Message: "boom"})
			},
			wantContent: chat.BackendErrorText,
		},
		{
			name:  "transport error becomes a connectivity notice",
			query: "What is the term?",
			setupMocks: func(mClient *backendMocks.MockClient) {
				mClient.On("AskQuestion", mock.Anything, "What is the term?", "doc-1", "").
					Return(nil, &backend.APIError{Kind: backend.KindTransport, Message: "refused"})
			},
			wantContent: chat.TransportErrorText,
		},
		{
			name:    "empty question",
			query:   "   ",
			wantErr: ErrQuestionRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mClient := new(backendMocks.MockClient)
			if tt.setupMocks != nil {
				tt.setupMocks(mClient)
			}
			history := memory.NewChatStore()
			svc := NewQAService(mClient, history, QAConfig{}, nil)
			st := storeWithDocument(t, "doc-1")
			_, _ = st.Dispatch(session.SetError("previous failure"))
			before := st.State()

			msg, err := svc.Ask(testContext(t), st, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.RoleAssistant, msg.Role)
			assert.Equal(t, tt.wantContent, msg.Content)
			assert.False(t, msg.IsLoading)
			if tt.wantConf != nil {
				assert.Equal(t, *tt.wantConf, *msg.Confidence)
			} else {
				require.NotNil(t, msg.Confidence)
				assert.Zero(t, *msg.Confidence)
			}

			saved, err := history.Recent(testContext(t), ConversationID(st.ID(), st.State()), 10)
			require.NoError(t, err)
			require.Len(t, saved, 2)
			assert.Equal(t, model.RoleUser, saved[0].Role)
			assert.Equal(t, "What is the term?", saved[0].Content)
			assert.Equal(t, msg.ID, saved[1].ID)

			// lastError belongs to the analysis flow
			assert.Equal(t, before.LastError, st.State().LastError)
			mClient.AssertExpectations(t)
		})
	}
}

func TestQAService_Ask_SendsRecentContext(t *testing.T) {
	st := storeWithDocument(t, "doc-1")
	convID := ConversationID(st.ID(), st.State())
	history := memory.NewChatStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, history.Append(context.Background(), convID,
			chat.UserMessage("q"), model.ChatMessage{Role: model.RoleAssistant, Content: "a"}))
	}

	wantCtx := "user: q\nassistant: a\nuser: q\nassistant: a\nuser: q\nassistant: a"
	mClient := new(backendMocks.MockClient)
	mClient.On("AskQuestion", mock.Anything, "next?", "doc-1", wantCtx).Return(&model.QAResponse{Answer: "ok"}, nil)

	svc := NewQAService(mClient, history, QAConfig{HistoryLimit: 5}, nil)
	msg, err := svc.Ask(testContext(t), st, "next?")
	require.NoError(t, err)
	mClient.AssertExpectations(t)

	saved, err := history.Recent(testContext(t), convID, 50)
	require.NoError(t, err)
	assert.Len(t, saved, 5)
	assert.Equal(t, "ok", saved[len(saved)-1].Content)
	assert.Equal(t, msg.ID, saved[len(saved)-1].ID)
	assert.Equal(t, "next?", saved[len(saved)-2].Content)
	for _, m := range saved {
		assert.False(t, m.IsLoading)
	}
}

func TestQAService_Ask_NoDocumentUsesDefaultConversation(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mClient.On("AskQuestion", mock.Anything, "hello", "", "").Return(&model.QAResponse{Answer: "hi"}, nil)
	history := memory.NewChatStore()

	svc := NewQAService(mClient, history, QAConfig{}, nil)
	st := session.NewStore()
	_, err := svc.Ask(testContext(t), st, "hello")
	require.NoError(t, err)

	saved, err := history.Recent(testContext(t), st.ID()+":"+DefaultConversation, 10)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestQAService_ConversationsAreIsolatedPerSession(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mClient.On("AskQuestion", mock.Anything, mock.Anything, "", "").Return(&model.QAResponse{Answer: "noted"}, nil)
	svc := NewQAService(mClient, memory.NewChatStore(), QAConfig{}, nil)
	sessions := session.NewManager(10, nil)
	_, alice := sessions.GetOrCreate("")
	_, bob := sessions.GetOrCreate("")

	_, err := svc.Ask(testContext(t), alice, "alice private question")
	require.NoError(t, err)

	bobs, err := svc.History(testContext(t), bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = svc.Ask(testContext(t), bob, "bob question")
	require.NoError(t, err)
	require.NoError(t, svc.ClearHistory(testContext(t), bob))

	alices, err := svc.History(testContext(t), alice)
	require.NoError(t, err)
	require.Len(t, alices, 2)
	assert.Equal(t, "alice private question", alices[0].Content)
}

func TestConversationID(t *testing.T) {
	st := storeWithDocument(t, "doc-1")
	assert.Equal(t, st.ID()+":doc-1", ConversationID(st.ID(), st.State()))
	assert.Equal(t, "sid:default", ConversationID("sid", session.Initial()))
}

func TestQAService_Ask_RejectsConcurrentQuestion(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	mClient := new(backendMocks.MockClient)
	mClient.On("AskQuestion", mock.Anything, "first", "doc-1", "").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&model.QAResponse{Answer: "done"}, nil)

	svc := NewQAService(mClient, memory.NewChatStore(), QAConfig{}, nil)
	st := storeWithDocument(t, "doc-1")

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Ask(context.Background(), st, "first")
		errc <- err
	}()
	<-started

	_, err := svc.Ask(testContext(t), st, "second")
	assert.ErrorIs(t, err, ErrQuestionInFlight)

	close(release)
	require.NoError(t, <-errc)
}

func TestQAService_Ask_HistoryFailuresAreLogged(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mClient.On("AskQuestion", mock.Anything, "q", "doc-1", "").Return(&model.QAResponse{Answer: "a"}, nil)
	mRepo := new(repoMocks.MockChatHistoryRepository)
	st := storeWithDocument(t, "doc-1")
	convID := ConversationID(st.ID(), st.State())
	mRepo.On("Recent", mock.Anything, convID, 50).Return(nil, errors.New("db down"))
	mRepo.On("Append", mock.Anything, convID, mock.MatchedBy(func(msgs []model.ChatMessage) bool {
		return len(msgs) == 2 && msgs[0].Content == "q" && msgs[1].Content == "a"
	})).Return(errors.New("db down"))

	svc := NewQAService(mClient, mRepo, QAConfig{}, nil)
	msg, err := svc.Ask(testContext(t), st, "q")
	require.NoError(t, err)
	assert.Equal(t, "a", msg.Content)
	mRepo.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
}

func TestQAService_SuggestedQuestions(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(mClient *backendMocks.MockClient)
		want       []string
	}{
		{
			name: "from backend",
			setupMocks: func(mClient *backendMocks.MockClient) {
				mClient.On("GetSuggestedQuestions", mock.Anything, "doc-1").
					Return(&model.SuggestedQuestionsResponse{SuggestedQuestions: []string{"Who pays?"}}, nil).Once()
			},
			want: []string{"Who pays?"},
		},
		{
			name: "error falls back",
			setupMocks: func(mClient *backendMocks.MockClient) {
				mClient.On("GetSuggestedQuestions", mock.Anything, "doc-1").
					Return(nil, &backend.APIError{Kind: backend.KindTransport, Message: "refused"}).Twice()
			},
			want: chat.FallbackQuestions,
		},
		{
			name: "empty list falls back",
			setupMocks: func(mClient *backendMocks.MockClient) {
				mClient.On("GetSuggestedQuestions", mock.Anything, "doc-1").
					Return(&model.SuggestedQuestionsResponse{}, nil).Twice()
			},
			want: chat.FallbackQuestions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mClient := new(backendMocks.MockClient)
			tt.setupMocks(mClient)
			svc := NewQAService(mClient, memory.NewChatStore(), QAConfig{SuggestionTTL: time.Minute}, nil)
			st := storeWithDocument(t, "doc-1")

			assert.Equal(t, tt.want, svc.SuggestedQuestions(testContext(t), st))
			// successes are cached, fallbacks are retried
			assert.Equal(t, tt.want, svc.SuggestedQuestions(testContext(t), st))
			assert.Nil(t, st.State().LastError)
			mClient.AssertExpectations(t)
		})
	}
}

func TestQAService_HistoryAndClear(t *testing.T) {
	st := storeWithDocument(t, "doc-1")
	history := memory.NewChatStore()
	require.NoError(t, history.Append(context.Background(), ConversationID(st.ID(), st.State()), chat.UserMessage("q1")))
	svc := NewQAService(new(backendMocks.MockClient), history, QAConfig{}, nil)

	msgs, err := svc.History(testContext(t), st)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	require.NoError(t, svc.ClearHistory(testContext(t), st))
	msgs, err = svc.History(testContext(t), st)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}
