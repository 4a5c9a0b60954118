package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"legaldesk/internal/report"
	"legaldesk/internal/session"
	"legaldesk/internal/storage"
)

// PublishedReport describes a report uploaded to object storage.
type PublishedReport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Strategy  string    `json:"strategy"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportService renders the open document's analysis.
type ReportService interface {
	Export(st *session.Store) (report.Output, error)
	HTML(st *session.Store) (string, error)
	// Publish exports and uploads the report, returning a presigned download URL.
	Publish(ctx context.Context, st *session.Store) (*PublishedReport, error)
}

type reportService struct {
	exporter *report.Exporter
	store    storage.Storage
	expiry   time.Duration
	log      *zap.Logger
	clock    func() time.Time
}

// NewReportService constructs a ReportService. store may be nil, in which
// case Publish returns ErrStorageDisabled.
func NewReportService(exporter *report.Exporter, store storage.Storage, expiry time.Duration, log *zap.Logger) ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &reportService{
		exporter: exporter,
		store:    store,
		expiry:   expiry,
		log:      log.With(zap.String("component", "report_service")),
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) input(st *session.Store) (report.Input, error) {
	cur := st.State().CurrentDocument
	if cur == nil {
		return report.Input{}, ErrNoDocument
	}
	if cur.Analysis == nil {
		return report.Input{}, ErrNoAnalysis
	}
	return report.Input{Document: *cur, GeneratedAt: s.clock()}, nil
}

func (s *reportService) Export(st *session.Store) (report.Output, error) {
	in, err := s.input(st)
	if err != nil {
		return report.Output{}, err
	}
	return s.exporter.Export(in)
}

func (s *reportService) HTML(st *session.Store) (string, error) {
	in, err := s.input(st)
	if err != nil {
		return "", err
	}
	return report.BuildHTML(in)
}

func (s *reportService) Publish(ctx context.Context, st *session.Store) (*PublishedReport, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	in, err := s.input(st)
	if err != nil {
		return nil, err
	}
	out, err := s.exporter.Export(in)
	if err != nil {
		return nil, err
	}

	docID := in.Document.ID
	now := s.clock()
	key := storage.ReportKey(docID, now)
	info, err := s.store.Put(ctx, key, bytes.NewReader(out.Data), storage.PutObjectOptions{
		Size:               int64(len(out.Data)),
		ContentType:        "application/pdf",
		ContentDisposition: storage.AttachmentDisposition(out.Filename),
		Metadata: map[string]string{
			"document-id": docID,
			"strategy":    out.Strategy,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	url, err := s.store.PresignGet(ctx, info.Key, out.Filename, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign report: %w", err)
	}
	s.log.Info("report published",
		zap.String("document_id", docID),
		zap.String("key", info.Key),
		zap.String("strategy", out.Strategy),
		zap.Int("size", len(out.Data)),
	)
	return &PublishedReport{
		Key:       info.Key,
		URL:       url,
		Filename:  out.Filename,
		Strategy:  out.Strategy,
		Size:      int64(len(out.Data)),
		ExpiresAt: now.Add(s.expiry),
	}, nil
}
