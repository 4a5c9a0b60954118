package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"legaldesk/internal/config"
	"legaldesk/internal/model"
)

const tracerName = "legaldesk/backend"

// Client is the typed surface of the document-analysis backend.
type Client interface {
	ProcessDocument(ctx context.Context, filename string, content io.Reader) (*model.AnalysisResult, error)
	AskQuestion(ctx context.Context, query, documentID, conversationContext string) (*model.QAResponse, error)
	GetSuggestedQuestions(ctx context.Context, documentID string) (*model.SuggestedQuestionsResponse, error)
	CheckRAGHealth(ctx context.Context) (*model.RAGHealthResponse, error)
	HealthCheck(ctx context.Context) (*model.HealthResponse, error)
	CheckProcessingStatus(ctx context.Context, documentID string) (*model.ProcessingStatus, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
	metrics *Metrics
	tracer  trace.Tracer
}

// Option customizes the client built by NewClient.
type Option func(*httpClient)

// WithHTTPClient replaces the underlying *http.Client. Its transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.http = c }
}

// WithMetrics records call latency on m.
func WithMetrics(m *Metrics) Option {
	return func(h *httpClient) { h.metrics = m }
}

// NewClient builds a Client for the backend at cfg.BaseURL.
// No retries are attempted; cfg.Timeout bounds every request.
func NewClient(cfg config.BackendConfig, opts ...Option) Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = config.DefaultBackendURL
	}
	c := &httpClient{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ProcessDocument(ctx context.Context, filename string, content io.Reader) (*model.AnalysisResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error(), Err: err}
	}

	var out model.AnalysisResult
	err = c.do(ctx, "process_direct", http.MethodPost, "/process_direct", nil, &body, mw.FormDataContentType(), &out,
		attribute.String("document.filename", filename))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) AskQuestion(ctx context.Context, query, documentID, conversationContext string) (*model.QAResponse, error) {
	q := url.Values{}
	q.Set("query", query)
	if documentID != "" {
		q.Set("document_id", documentID)
	}
	if conversationContext != "" {
		q.Set("conversation_context", conversationContext)
	}
	var out model.QAResponse
	if err := c.do(ctx, "ask_question", http.MethodPost, "/ask_question", q, nil, "", &out,
		attribute.String("document.id", documentID)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) GetSuggestedQuestions(ctx context.Context, documentID string) (*model.SuggestedQuestionsResponse, error) {
	var q url.Values
	if documentID != "" {
		q = url.Values{"document_id": {documentID}}
	}
	var out model.SuggestedQuestionsResponse
	if err := c.do(ctx, "suggested_questions", http.MethodGet, "/suggested_questions", q, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) CheckRAGHealth(ctx context.Context) (*model.RAGHealthResponse, error) {
	var out model.RAGHealthResponse
	if err := c.do(ctx, "rag_health", http.MethodGet, "/rag_health", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) HealthCheck(ctx context.Context) (*model.HealthResponse, error) {
	var out model.HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckProcessingStatus polls background enrichment. Backends without the
// endpoint answer 404/405/501, which is reported as KindUnavailable.
func (c *httpClient) CheckProcessingStatus(ctx context.Context, documentID string) (*model.ProcessingStatus, error) {
	var out model.ProcessingStatus
	err := c.do(ctx, "processing_status", http.MethodGet, "/processing_status/"+url.PathEscape(documentID), nil, nil, "", &out,
		attribute.String("document.id", documentID))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindBackend {
			switch apiErr.StatusCode {
			case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
				apiErr.Kind = KindUnavailable
			}
		}
		return nil, err
	}
	if out.DocumentID == "" {
		out.DocumentID = documentID
	}
	return &out, nil
}

func (c *httpClient) do(ctx context.Context, endpoint, method, path string, query url.Values, body io.Reader, contentType string, out any, attrs ...attribute.KeyValue) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "backend."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(append(attrs, attribute.String("http.method", method), attribute.String("backend.endpoint", endpoint))...)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.observe(endpoint, start, err)
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindTransport, StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Kind: KindBackend, StatusCode: resp.StatusCode, Message: detailMessage(raw, resp.StatusCode)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response from %s: %v", endpoint, err),
			Err:        err,
		}
	}
	return nil
}

// detailMessage extracts {"detail": "..."} from an error body.
// FastAPI validation errors carry a list in detail; those fall back to the status line.
func detailMessage(raw []byte, code int) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if s, ok := body.Detail.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return statusMessage(code)
}
