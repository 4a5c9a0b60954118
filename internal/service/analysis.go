package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"legaldesk/internal/backend"
	"legaldesk/internal/model"
	"legaldesk/internal/poller"
	"legaldesk/internal/repository"
	"legaldesk/internal/session"
	"legaldesk/internal/transform"
)

const (
	// ConnectivityMessage replaces transport errors in lastError.
	ConnectivityMessage  = "Unable to reach the analysis service. Please check your connection and try again."
	defaultProcessFailed = "Failed to process document"
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.DocumentSummary `json:"data"`
	Total int                     `json:"total"`
}

// AnalysisService drives the dashboard, analyzing and document views.
type AnalysisService interface {
	// Analyze submits content for analysis. Only one submission per session
	// may be in flight, even across back and reset; a second one gets
	// ErrAlreadyProcessing. Backing out of or resetting the session cancels
	// the call and its result is discarded with ErrAnalysisCancelled.
	Analyze(ctx context.Context, st *session.Store, upload model.Upload, content io.Reader) (*model.Document, error)

	// Select opens a previously analyzed document.
	Select(ctx context.Context, st *session.Store, id string) (*model.Document, error)

	// View returns the normalized analysis of the open document.
	View(st *session.Store, opts transform.ViewOptions) (*transform.DocumentView, error)

	// Back returns to the dashboard, clearing document, upload and error.
	Back(st *session.Store) session.State

	// Reset returns the session to its initial state.
	Reset(st *session.Store) session.State

	// List returns analyzed documents, most recent first.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)
}

type analysisService struct {
	client   backend.Client
	repo     repository.DocumentRepository
	cache    *cache.Cache
	status   *poller.StatusPoller
	log      *zap.Logger
	health   func() model.HealthSnapshot
	offline  func()
	clock    func() time.Time
	pollRoot context.Context

	mu       sync.Mutex
	inflight map[*session.Store]struct{}
}

type AnalysisOption func(*analysisService)

// WithStatusPoller follows background processing after each analysis.
func WithStatusPoller(p *poller.StatusPoller) AnalysisOption {
	return func(s *analysisService) { s.status = p }
}

// WithHealth supplies the last known backend health, re-applied after a reset.
func WithHealth(fn func() model.HealthSnapshot) AnalysisOption {
	return func(s *analysisService) { s.health = fn }
}

// WithOfflineHook is called when the backend cannot be reached.
func WithOfflineHook(fn func()) AnalysisOption {
	return func(s *analysisService) { s.offline = fn }
}

// WithPollContext bounds every status poll; cancel it on shutdown.
func WithPollContext(ctx context.Context) AnalysisOption {
	return func(s *analysisService) { s.pollRoot = ctx }
}

// NewAnalysisService constructs an AnalysisService. documentTTL bounds how
// long analyses are served from memory before falling back to repo.
func NewAnalysisService(client backend.Client, repo repository.DocumentRepository, documentTTL time.Duration, log *zap.Logger, opts ...AnalysisOption) AnalysisService {
	if log == nil {
		log = zap.NewNop()
	}
	if documentTTL <= 0 {
		documentTTL = 24 * time.Hour
	}
	s := &analysisService{
		client:   client,
		repo:     repo,
		cache:    cache.New(documentTTL, documentTTL/2),
		log:      log.With(zap.String("component", "analysis")),
		clock:    func() time.Time { return time.Now().UTC() },
		pollRoot: context.Background(),
		inflight: make(map[*session.Store]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire holds the submission gate of st until the returned release is
// called. Back and reset clear IsProcessing but never this gate.
func (s *analysisService) acquire(st *session.Store) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[st]; busy {
		return nil, false
	}
	s.inflight[st] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, st)
		s.mu.Unlock()
	}, true
}

func (s *analysisService) Analyze(ctx context.Context, st *session.Store, upload model.Upload, content io.Reader) (*model.Document, error) {
	if content == nil {
		return nil, ErrReaderNil
	}
	if strings.TrimSpace(upload.Filename) == "" {
		return nil, ErrFilenameRequired
	}

	release, ok := s.acquire(st)
	if !ok {
		return nil, ErrAlreadyProcessing
	}
	defer release()

	gen := st.Generation()
	if _, err := st.BatchAt(gen, notProcessing,
		session.SetUploadedFile(&upload),
		session.SetProcessing(true),
		session.SetError(""),
		session.SetView(session.ViewAnalyzing),
	); err != nil {
		if errors.Is(err, session.ErrStale) {
			return nil, ErrAnalysisCancelled
		}
		return nil, err
	}

	callCtx, done := st.Bind(ctx)
	defer done()

	start := s.clock()
	res, err := s.client.ProcessDocument(callCtx, upload.Filename, content)
	if st.Generation() != gen {
		s.log.Info("analysis discarded after session moved on", zap.String("filename", upload.Filename))
		return nil, ErrAnalysisCancelled
	}
	if err != nil {
		msg := s.failureMessage(err)
		actions := []session.Action{session.SetError(msg)}
		if backend.IsTransport(err) {
			actions = append(actions, session.SetBackendHealth(model.HealthSnapshot{}))
		}
		if _, bErr := st.BatchAt(gen, nil, actions...); errors.Is(bErr, session.ErrStale) {
			return nil, ErrAnalysisCancelled
		}
		if backend.IsTransport(err) && s.offline != nil {
			s.offline()
		}
		s.log.Warn("document analysis failed",
			zap.String("filename", upload.Filename),
			zap.String("error_kind", string(backend.KindOf(err))),
			zap.Error(err),
		)
		return nil, fmt.Errorf("process document: %w", err)
	}

	id := res.DocumentID
	if id == "" {
		id = uuid.NewString()
	}
	doc := &model.Document{ID: id, Filename: upload.Filename, Analysis: res, OpenedAt: s.clock()}

	if _, err := st.BatchAt(gen, nil,
		session.SetDocument(doc.ID, doc.Filename, doc.Analysis),
		session.SetView(session.ViewDocument),
		session.SetProcessing(false),
		session.SetProcessingStatus(&model.ProcessingStatus{DocumentID: id, FastTrackCompleted: true}),
	); err != nil {
		if errors.Is(err, session.ErrStale) {
			return nil, ErrAnalysisCancelled
		}
		return nil, err
	}

	s.cache.SetDefault(id, *doc)
	if err := s.repo.Save(ctx, doc); err != nil {
		s.log.Warn("persist analyzed document failed", zap.String("document_id", id), zap.Error(err))
	}
	s.log.Info("document analyzed",
		zap.String("document_id", id),
		zap.String("filename", upload.Filename),
		zap.Int64("size", upload.Size),
		zap.Duration("elapsed", s.clock().Sub(start)),
	)

	s.followStatus(st, id)
	return doc, nil
}

func (s *analysisService) followStatus(st *session.Store, id string) {
	if s.status == nil {
		return
	}
	st.Go(s.pollRoot, func(ctx context.Context) {
		outcome := s.status.Poll(ctx, id, func(ps model.ProcessingStatus) {
			if cur := st.State().CurrentDocument; cur == nil || cur.ID != id {
				return
			}
			_, _ = st.Dispatch(session.SetProcessingStatus(&ps))
		})
		s.log.Debug("status polling finished", zap.String("document_id", id), zap.String("outcome", string(outcome)))
	})
}

func (s *analysisService) failureMessage(err error) string {
	if backend.IsTransport(err) {
		return ConnectivityMessage
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return defaultProcessFailed
}

func (s *analysisService) Select(ctx context.Context, st *session.Store, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := st.Batch(notProcessing,
		session.SetDocument(doc.ID, doc.Filename, nil),
		session.SetView(session.ViewDocument),
		session.SetAnalysisData(doc.Analysis),
		session.SetError(""),
	); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *analysisService) lookup(ctx context.Context, id string) (*model.Document, error) {
	if v, ok := s.cache.Get(id); ok {
		doc := v.(model.Document)
		return &doc, nil
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cache.SetDefault(id, *doc)
	return doc, nil
}

func (s *analysisService) View(st *session.Store, opts transform.ViewOptions) (*transform.DocumentView, error) {
	cur := st.State().CurrentDocument
	if cur == nil {
		return nil, ErrNoDocument
	}
	v := transform.Document(*cur, opts)
	return &v, nil
}

func (s *analysisService) Back(st *session.Store) session.State {
	next, _ := st.Dispatch(session.ClearDocument())
	return next
}

func (s *analysisService) Reset(st *session.Store) session.State {
	next, _ := st.Dispatch(session.ResetState())
	if s.health != nil {
		next, _ = st.Dispatch(session.SetBackendHealth(s.health()))
	}
	return next
}

func (s *analysisService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]model.DocumentSummary, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, transform.Summarize(d))
	}
	return &DocumentListResult{Items: items, Total: res.Total}, nil
}
