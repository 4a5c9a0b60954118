package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"legaldesk/internal/backend"
	backendMocks "legaldesk/internal/backend/mocks"
	"legaldesk/internal/model"
	"legaldesk/internal/poller"
	"legaldesk/internal/repository"
	"legaldesk/internal/repository/memory"
	repoMocks "legaldesk/internal/repository/mocks"
	"legaldesk/internal/session"
	"legaldesk/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func analysisResult(id string) *model.AnalysisResult {
	score := 9.0
	return &model.AnalysisResult{
		Status:     "success",
		DocumentID: id,
		Components: model.AnalysisComponents{
			Summary:        &model.RawSummary{Overview: "Master services agreement"},
			RiskAssessment: &model.RawRiskAssessment{RiskScore: &score},
		},
	}
}

func TestAnalysisService_Analyze(t *testing.T) {
	upload := model.Upload{Filename: "msa.pdf", Size: 5, ContentType: "application/pdf"}

	tests := []struct {
		name       string
		upload     model.Upload
		nilReader  bool
		prepare    func(st *session.Store)
		setupMocks func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		wantErrMsg string
		check      func(t *testing.T, st session.State, doc *model.Document)
	}{
		{
			name:   "happy path",
			upload: upload,
			setupMocks: func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository) {
				mClient.On("ProcessDocument", mock.Anything, "msa.pdf", mock.Anything).Return(analysisResult("doc-1"), nil)
				mRepo.On("Save", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
					return d.ID == "doc-1" && d.Filename == "msa.pdf"
				})).Return(nil)
			},
			check: func(t *testing.T, st session.State, doc *model.Document) {
				assert.Equal(t, "doc-1", doc.ID)
				assert.Equal(t, session.ViewDocument, st.ActiveView)
				assert.False(t, st.IsProcessing)
				assert.Nil(t, st.LastError)
				require.NotNil(t, st.CurrentDocument)
				assert.NotNil(t, st.CurrentDocument.Analysis)
				require.NotNil(t, st.UploadedFile)
				assert.Equal(t, "msa.pdf", st.UploadedFile.Filename)
				require.NotNil(t, st.ProcessingStatus)
				assert.True(t, st.ProcessingStatus.FastTrackCompleted)
			},
		},
		{
			name:   "missing document id gets generated",
			upload: upload,
			setupMocks: func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository) {
				mClient.On("ProcessDocument", mock.Anything, "msa.pdf", mock.Anything).Return(analysisResult(""), nil)
				mRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, st session.State, doc *model.Document) {
				assert.Len(t, doc.ID, 36)
				assert.Equal(t, doc.ID, st.CurrentDocument.ID)
			},
		},
		{
			name:   "repository failure is not fatal",
			upload: upload,
			setupMocks: func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository) {
				mClient.On("ProcessDocument", mock.Anything, "msa.pdf", mock.Anything).Return(analysisResult("doc-1"), nil)
				mRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))
			},
			check: func(t *testing.T, st session.State, doc *model.Document) {
				assert.Equal(t, session.ViewDocument, st.ActiveView)
			},
		},
		{
			name:      "validation error - nil reader",
			upload:    upload,
			nilReader: true,
			wantErr:   ErrReaderNil,
		},
		{
			name:    "validation error - empty filename",
			upload:  model.Upload{Filename: "  "},
			wantErr: ErrFilenameRequired,
		},
		{
			name:   "already processing",
			upload: upload,
			prepare: func(st *session.Store) {
				_, _ = st.Dispatch(session.SetProcessing(true))
			},
			wantErr: ErrAlreadyProcessing,
		},
		{
			name:   "backend error keeps its message",
			upload: upload,
			setupMocks: func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository) {
				mClient.On("ProcessDocument", mock.Anything, "msa.pdf", mock.Anything).
					Return(nil, &backend.APIError{Kind: backend.KindBackend, StatusCode: 400, Message: "Unsupported file type"})
			},
			wantErrMsg: "process document: Unsupported file type",
			check: func(t *testing.T, st session.State, _ *model.Document) {
				require.NotNil(t, st.LastError)
				assert.Equal(t, "Unsupported file type", *st.LastError)
				assert.Equal(t, session.ViewDashboard, st.ActiveView)
				assert.False(t, st.IsProcessing)
				assert.Nil(t, st.CurrentDocument)
			},
		},
		{
			name:   "blank backend message falls back",
			upload: upload,
			setupMocks: func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository) {
				mClient.On("ProcessDocument", mock.Anything, "msa.pdf", mock.Anything).
					Return(nil, &backend.APIError{Kind: backend.KindDecode})
			},
			wantErrMsg: "process document: ",
			check: func(t *testing.T, st session.State, _ *model.Document) {
				require.NotNil(t, st.LastError)
				assert.Equal(t, "Failed to process document", *st.LastError)
			},
		},
		{
			name:   "transport error uses connectivity message",
			upload: upload,
			setupMocks: func(mClient *backendMocks.MockClient, mRepo *repoMocks.MockDocumentRepository) {
				mClient.On("ProcessDocument", mock.Anything, "msa.pdf", mock.Anything).
					Return(nil, &backend.APIError{Kind: backend.KindTransport, Message: "dial tcp: refused"})
			},
			wantErrMsg: "process document: dial tcp: refused",
			check: func(t *testing.T, st session.State, _ *model.Document) {
				require.NotNil(t, st.LastError)
				assert.Equal(t, ConnectivityMessage, *st.LastError)
				assert.False(t, st.BackendHealth.Online)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mClient := new(backendMocks.MockClient)
			mRepo := new(repoMocks.MockDocumentRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mClient, mRepo)
			}
			st := session.NewStore()
			defer st.Close()
			if tt.prepare != nil {
				tt.prepare(st)
			}

			svc := NewAnalysisService(mClient, mRepo, time.Hour, nil)
			var content *strings.Reader
			if !tt.nilReader {
				content = strings.NewReader("hello")
			}

			var doc *model.Document
			var err error
			if tt.nilReader {
				doc, err = svc.Analyze(testContext(t), st, tt.upload, nil)
			} else {
				doc, err = svc.Analyze(testContext(t), st, tt.upload, content)
			}

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, doc)
			default:
				require.NoError(t, err)
				require.NotNil(t, doc)
			}
			if tt.check != nil {
				tt.check(t, st.State(), doc)
			}
			mClient.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAnalysisService_Analyze_OfflineHook(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mClient.On("ProcessDocument", mock.Anything, "a.pdf", mock.Anything).
		Return(nil, &backend.APIError{Kind: backend.KindTransport, Message: "timeout"})

	var calls atomic.Int32
	svc := NewAnalysisService(mClient, memory.NewDocumentStore(), time.Hour, nil,
		WithOfflineHook(func() { calls.Add(1) }))

	_, err := svc.Analyze(testContext(t), session.NewStore(), model.Upload{Filename: "a.pdf"}, strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalysisService_Analyze_ResetWhileInFlight(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mRepo := new(repoMocks.MockDocumentRepository)

	started := make(chan context.Context, 1)
	finish := make(chan struct{})
	mClient.On("ProcessDocument", mock.Anything, "first.pdf", mock.Anything).
		Run(func(args mock.Arguments) {
			started <- args.Get(0).(context.Context)
			<-finish
		}).
		Return(analysisResult("doc-late"), nil).Once()
	mClient.On("ProcessDocument", mock.Anything, "next.pdf", mock.Anything).Return(analysisResult("doc-next"), nil).Once()
	mRepo.On("Save", mock.Anything, mock.MatchedBy(func(d *model.Document) bool { return d.ID == "doc-next" })).Return(nil)

	svc := NewAnalysisService(mClient, mRepo, time.Hour, nil)
	st := session.NewStore()
	defer st.Close()

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(testContext(t), st, model.Upload{Filename: "first.pdf"}, strings.NewReader("x"))
		firstErr <- err
	}()
	callCtx := <-started

	svc.Reset(st)
	assert.Error(t, callCtx.Err(), "reset cancels the backend call")

	_, err := svc.Analyze(testContext(t), st, model.Upload{Filename: "second.pdf"}, strings.NewReader("y"))
	require.ErrorIs(t, err, ErrAlreadyProcessing)

	close(finish)
	require.ErrorIs(t, <-firstErr, ErrAnalysisCancelled)

	state := st.State()
	assert.Equal(t, session.ViewDashboard, state.ActiveView)
	assert.Nil(t, state.CurrentDocument)
	assert.Nil(t, state.UploadedFile)
	assert.False(t, state.IsProcessing)
	mRepo.AssertNotCalled(t, "Save", mock.Anything, mock.MatchedBy(func(d *model.Document) bool { return d.ID == "doc-late" }))

	doc, err := svc.Analyze(testContext(t), st, model.Upload{Filename: "next.pdf"}, strings.NewReader("z"))
	require.NoError(t, err)
	assert.Equal(t, "doc-next", doc.ID)
	assert.Equal(t, session.ViewDocument, st.State().ActiveView)
	mClient.AssertExpectations(t)
}

func TestAnalysisService_Analyze_BackDiscardsLateFailure(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	started := make(chan struct{})
	mClient.On("ProcessDocument", mock.Anything, "a.pdf", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, &backend.APIError{Kind: backend.KindTransport, Message: "context canceled", Err: context.Canceled})

	var offline atomic.Int32
	svc := NewAnalysisService(mClient, memory.NewDocumentStore(), time.Hour, nil,
		WithOfflineHook(func() { offline.Add(1) }))
	st := session.NewStore()
	defer st.Close()

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(testContext(t), st, model.Upload{Filename: "a.pdf"}, strings.NewReader("x"))
		errc <- err
	}()
	<-started
	svc.Back(st)

	require.ErrorIs(t, <-errc, ErrAnalysisCancelled)
	state := st.State()
	assert.Nil(t, state.LastError)
	assert.Equal(t, session.ViewDashboard, state.ActiveView)
	assert.Equal(t, int32(0), offline.Load())
}

func TestAnalysisService_Analyze_FollowsProcessingStatus(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mClient.On("ProcessDocument", mock.Anything, "a.pdf", mock.Anything).Return(analysisResult("doc-7"), nil)
	mClient.On("CheckProcessingStatus", mock.Anything, "doc-7").Return(&model.ProcessingStatus{
		DocumentID:          "doc-7",
		FastTrackCompleted:  true,
		BackgroundCompleted: true,
		VectorStorageReady:  true,
		QASystemReady:       true,
	}, nil)

	sp := poller.NewStatusPoller(mClient, 0, time.Millisecond, 3, nil)
	svc := NewAnalysisService(mClient, memory.NewDocumentStore(), time.Hour, nil, WithStatusPoller(sp))
	st := session.NewStore()
	defer st.Close()

	_, err := svc.Analyze(testContext(t), st, model.Upload{Filename: "a.pdf"}, strings.NewReader("x"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		ps := st.State().ProcessingStatus
		return ps != nil && ps.QASystemReady
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return st.Tasks() == 0 }, time.Second, 5*time.Millisecond)
}

func TestAnalysisService_Back_CancelsPolling(t *testing.T) {
	mClient := new(backendMocks.MockClient)
	mClient.On("ProcessDocument", mock.Anything, "a.pdf", mock.Anything).Return(analysisResult("doc-8"), nil)

	sp := poller.NewStatusPoller(mClient, time.Hour, time.Hour, 3, nil)
	svc := NewAnalysisService(mClient, memory.NewDocumentStore(), time.Hour, nil, WithStatusPoller(sp))
	st := session.NewStore()

	_, err := svc.Analyze(testContext(t), st, model.Upload{Filename: "a.pdf"}, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Tasks())

	next := svc.Back(st)
	assert.Equal(t, session.ViewDashboard, next.ActiveView)
	assert.Nil(t, next.CurrentDocument)
	assert.Nil(t, next.UploadedFile)
	assert.Eventually(t, func() bool { return st.Tasks() == 0 }, time.Second, 5*time.Millisecond)
	mClient.AssertNotCalled(t, "CheckProcessingStatus", mock.Anything, mock.Anything)
}

func TestAnalysisService_Select(t *testing.T) {
	stored := &model.Document{ID: "doc-2", Filename: "nda.pdf", Analysis: analysisResult("doc-2")}

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "found in repository",
			id:   "doc-2",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", mock.Anything, "doc-2").Return(stored, nil).Once()
			},
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "empty id",
			wantErr: ErrIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mRepo)
			}
			svc := NewAnalysisService(new(backendMocks.MockClient), mRepo, time.Hour, nil)
			st := session.NewStore()

			doc, err := svc.Select(testContext(t), st, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, session.ViewDashboard, st.State().ActiveView)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "nda.pdf", doc.Filename)

			state := st.State()
			assert.Equal(t, session.ViewDocument, state.ActiveView)
			require.NotNil(t, state.CurrentDocument)
			assert.NotNil(t, state.CurrentDocument.Analysis)

			// second lookup is served from the cache
			_, err = svc.Select(testContext(t), st, tt.id)
			require.NoError(t, err)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAnalysisService_View(t *testing.T) {
	docs := memory.NewDocumentStore()
	require.NoError(t, docs.Save(context.Background(), &model.Document{ID: "doc-3", Filename: "lease.pdf", Analysis: analysisResult("doc-3")}))
	svc := NewAnalysisService(new(backendMocks.MockClient), docs, time.Hour, nil)
	st := session.NewStore()

	_, err := svc.View(st, transform.ViewOptions{})
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = svc.Select(testContext(t), st, "doc-3")
	require.NoError(t, err)

	view, err := svc.View(st, transform.ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Master services agreement", view.Summary.Overview)
	assert.Equal(t, transform.RiskHigh, view.RiskAssessment.Level)
}

func TestAnalysisService_Reset_ReappliesHealth(t *testing.T) {
	health := model.HealthSnapshot{Online: true, Services: model.ServiceFlags{DirectProcessing: true}}
	svc := NewAnalysisService(new(backendMocks.MockClient), memory.NewDocumentStore(), time.Hour, nil,
		WithHealth(func() model.HealthSnapshot { return health }))
	st := session.NewStore()
	_, _ = st.Dispatch(session.SetError("boom"))

	next := svc.Reset(st)
	assert.Equal(t, session.ViewDashboard, next.ActiveView)
	assert.Nil(t, next.LastError)
	assert.Equal(t, health, next.BackendHealth)
}

func TestAnalysisService_List(t *testing.T) {
	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("List", mock.Anything, repository.PageQuery{Limit: 10, Offset: 0}).Return(&repository.PageResult[model.Document]{
		Items: []model.Document{{ID: "doc-4", Filename: "a.pdf", Analysis: analysisResult("doc-4")}},
		Total: 1,
	}, nil)
	mRepo.On("List", mock.Anything, repository.PageQuery{Limit: 5, Offset: 5}).Return(nil, errors.New("db error"))

	svc := NewAnalysisService(new(backendMocks.MockClient), mRepo, time.Hour, nil)

	res, err := svc.List(testContext(t), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "doc-4", res.Items[0].ID)
	assert.Equal(t, string(transform.RiskHigh), res.Items[0].RiskLevel)

	_, err = svc.List(testContext(t), 5, 5)
	assert.EqualError(t, err, "db error")
}
