// Package bootstrap wires configuration into the clients, stores and services
// shared by the gateway and the CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"legaldesk/internal/backend"
	"legaldesk/internal/config"
	"legaldesk/internal/database"
	"legaldesk/internal/database/migration"
	"legaldesk/internal/model"
	"legaldesk/internal/poller"
	"legaldesk/internal/report"
	"legaldesk/internal/repository"
	"legaldesk/internal/repository/memory"
	"legaldesk/internal/repository/postgres"
	"legaldesk/internal/service"
	"legaldesk/internal/session"
	"legaldesk/internal/storage"
)

type Container struct {
	Config   *config.AppConfig
	Log      *zap.Logger
	Registry *prometheus.Registry

	// DB and Storage are nil when not configured.
	DB      *sql.DB
	Storage storage.Storage

	Client   backend.Client
	Sessions *session.Manager
	Health   *poller.HealthMonitor
	Status   *poller.StatusPoller

	Analysis service.AnalysisService
	QA       service.QAService
	Reports  service.ReportService

	cancelPolls context.CancelFunc
}

type Option func(*options)

type options struct {
	httpClient     *http.Client
	foregroundOnly bool
}

// WithHTTPClient replaces the transport used to reach the backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithoutBackgroundStatus stops analyses from following processing status
// in the background. Short-lived callers poll c.Status themselves.
func WithoutBackgroundStatus() Option {
	return func(o *options) { o.foregroundOnly = true }
}

// NewContainer connects the configured dependencies. Postgres and MinIO are
// optional: without DB_HOST documents and chat history live in memory, and
// without MINIO_ENDPOINT reports can only be downloaded.
func NewContainer(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, opts ...Option) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Log: log, Registry: prometheus.NewRegistry()}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		docs    repository.DocumentRepository    = memory.NewDocumentStore()
		history repository.ChatHistoryRepository = memory.NewChatStore()
	)
	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		c.DB = db
		docs = postgres.NewDocumentPostgres(db)
		history = postgres.NewChatPostgres(db)
	} else {
		log.Info("database not configured, keeping documents and chat history in memory")
	}

	if cfg.MinIO.Enabled() {
		st, err := storage.NewMinIO(ctx, cfg.MinIO, log)
		if err != nil {
			c.closeDB()
			return nil, fmt.Errorf("initialize object storage: %w", err)
		}
		c.Storage = st
	}

	metrics, err := backend.NewMetrics(c.Registry)
	if err != nil {
		c.closeDB()
		return nil, err
	}
	clientOpts := []backend.Option{backend.WithMetrics(metrics)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, backend.WithHTTPClient(o.httpClient))
	}
	c.Client = backend.NewClient(cfg.Backend, clientOpts...)

	c.Sessions = session.NewManager(cfg.Session.MaxSessions, log)
	c.Health = poller.NewHealthMonitor(c.Client, cfg.Polling.HealthInterval, c.Sessions.BroadcastHealth, log)
	c.Status = poller.NewStatusPoller(c.Client, cfg.Polling.StatusDelay, cfg.Polling.StatusInterval, cfg.Polling.StatusMaxAttempts, log)

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancelPolls = cancel

	analysisOpts := []service.AnalysisOption{
		service.WithHealth(c.Sessions.Health),
		service.WithOfflineHook(func() { c.Sessions.BroadcastHealth(model.HealthSnapshot{}) }),
		service.WithPollContext(pollCtx),
	}
	if !o.foregroundOnly {
		analysisOpts = append(analysisOpts, service.WithStatusPoller(c.Status))
	}
	c.Analysis = service.NewAnalysisService(c.Client, docs, cfg.Session.DocumentCacheTTL, log, analysisOpts...)
	c.QA = service.NewQAService(c.Client, history, service.QAConfig{
		HistoryLimit:     cfg.Session.HistoryLimit,
		HistoryLoadLimit: cfg.Session.HistoryLoadLimit,
		SuggestionTTL:    cfg.Session.SuggestionCacheTTL,
	}, log)

	exporter := report.NewExporter(log, report.WithRegisterer(c.Registry))
	c.Reports = service.NewReportService(exporter, c.Storage, cfg.MinIO.PresignExpiry, log)
	return c, nil
}

// Start begins health polling.
func (c *Container) Start(ctx context.Context) {
	c.Health.Start(ctx)
}

// Close stops background work and releases connections.
func (c *Container) Close() {
	c.Health.Stop()
	c.cancelPolls()
	c.Sessions.Close()
	c.closeDB()
}

func (c *Container) closeDB() {
	if c.DB == nil {
		return
	}
	if err := c.DB.Close(); err != nil {
		c.Log.Warn("close database", zap.Error(err))
	}
}
