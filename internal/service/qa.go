package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"legaldesk/internal/backend"
	"legaldesk/internal/chat"
	"legaldesk/internal/model"
	"legaldesk/internal/repository"
	"legaldesk/internal/session"
)

// QAConfig bounds persisted history and suggestion caching.
type QAConfig struct {
	HistoryLimit     int
	HistoryLoadLimit int
	SuggestionTTL    time.Duration
}

// QAService answers questions about the open document.
type QAService interface {
	// Ask sends query with the recent conversation as context and returns the
	// resolved assistant message. Backend failures come back as an error
	// message in the conversation, not as an error.
	Ask(ctx context.Context, st *session.Store, query string) (model.ChatMessage, error)

	// SuggestedQuestions never fails; the fixed fallback list is returned
	// whenever the backend cannot supply questions.
	SuggestedQuestions(ctx context.Context, st *session.Store) []string

	History(ctx context.Context, st *session.Store) ([]model.ChatMessage, error)
	ClearHistory(ctx context.Context, st *session.Store) error
}

type qaService struct {
	client  backend.Client
	history repository.ChatHistoryRepository
	cfg     QAConfig
	cache   *cache.Cache
	log     *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewQAService(client backend.Client, history repository.ChatHistoryRepository, cfg QAConfig, log *zap.Logger) QAService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.HistoryLoadLimit < cfg.HistoryLimit {
		cfg.HistoryLoadLimit = max(50, cfg.HistoryLimit)
	}
	if cfg.SuggestionTTL <= 0 {
		cfg.SuggestionTTL = 10 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &qaService{
		client:   client,
		history:  history,
		cfg:      cfg,
		cache:    cache.New(cfg.SuggestionTTL, 2*cfg.SuggestionTTL),
		log:      log.With(zap.String("component", "qa")),
		inflight: make(map[string]struct{}),
	}
}

func documentID(s session.State) string {
	if s.CurrentDocument == nil {
		return ""
	}
	return s.CurrentDocument.ID
}

func (s *qaService) acquire(convID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[convID]; busy {
		return false
	}
	s.inflight[convID] = struct{}{}
	return true
}

func (s *qaService) release(convID string) {
	s.mu.Lock()
	delete(s.inflight, convID)
	s.mu.Unlock()
}

func (s *qaService) Ask(ctx context.Context, st *session.Store, query string) (model.ChatMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.ChatMessage{}, ErrQuestionRequired
	}

	state := st.State()
	convID := ConversationID(st.ID(), state)
	if !s.acquire(convID) {
		return model.ChatMessage{}, ErrQuestionInFlight
	}
	defer s.release(convID)

	log := s.log.With(zap.String("conversation_id", convID))

	past, err := s.history.Recent(ctx, convID, s.cfg.HistoryLoadLimit)
	if err != nil {
		log.Warn("load chat history failed", zap.Error(err))
		past = nil
	}
	conv := chat.NewConversation(past)
	convCtx := conv.Context()
	conv.AddUser(query)
	conv.BeginAnswer()

	var answer model.ChatMessage
	res, err := s.client.AskQuestion(ctx, query, documentID(state), convCtx)
	if err != nil {
		log.Warn("question failed",
			zap.String("error_kind", string(backend.KindOf(err))),
			zap.Error(err),
		)
		answer = chat.ErrorMessage(err)
	} else {
		answer = chat.AnswerMessage(res)
	}
	conv.ResolveAnswer(answer)

	// the question and its resolved answer
	if err := s.history.Append(ctx, convID, conv.Tail(2)...); err != nil {
		log.Warn("persist chat messages failed", zap.Error(err))
		return answer, nil
	}
	if err := s.history.Trim(ctx, convID, s.cfg.HistoryLimit); err != nil {
		log.Warn("trim chat history failed", zap.Error(err))
	}
	return answer, nil
}

func (s *qaService) SuggestedQuestions(ctx context.Context, st *session.Store) []string {
	docID := documentID(st.State())
	key := docID
	if key == "" {
		key = DefaultConversation
	}
	if v, ok := s.cache.Get(key); ok {
		return append([]string(nil), v.([]string)...)
	}

	res, err := s.client.GetSuggestedQuestions(ctx, docID)
	if err != nil || res == nil || len(res.SuggestedQuestions) == 0 {
		if err != nil {
			s.log.Debug("suggested questions unavailable", zap.String("document_id", docID), zap.Error(err))
		}
		return chat.Fallback()
	}
	qs := append([]string(nil), res.SuggestedQuestions...)
	s.cache.SetDefault(key, qs)
	return append([]string(nil), qs...)
}

func (s *qaService) History(ctx context.Context, st *session.Store) ([]model.ChatMessage, error) {
	msgs, err := s.history.Recent(ctx, ConversationID(st.ID(), st.State()), s.cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}

func (s *qaService) ClearHistory(ctx context.Context, st *session.Store) error {
	return s.history.Clear(ctx, ConversationID(st.ID(), st.State()))
}
