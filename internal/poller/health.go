// Package poller runs the periodic backend health check and the post-upload
// processing-status poll as cancellable tasks.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"legaldesk/internal/backend"
	"legaldesk/internal/model"
)

// Snapshot folds a health and a RAG health response into a HealthSnapshot.
// A failed or unhealthy health check means offline with every flag false.
// A RAG failure only clears the RAG flag and capabilities.
func Snapshot(health *model.HealthResponse, healthErr error, rag *model.RAGHealthResponse, ragErr error) model.HealthSnapshot {
	var snap model.HealthSnapshot
	if healthErr != nil || health == nil {
		return snap
	}
	snap.Online = health.Status == model.ServiceHealthy || health.Status == model.ServicePartial
	if !snap.Online {
		return snap
	}
	snap.Services = model.ServiceFlags{
		DirectProcessing: serviceUp(health.Services, "direct_processing"),
		VectorProcessing: serviceUp(health.Services, "vector_processing"),
		RAGQA:            serviceUp(health.Services, "rag_qa"),
	}
	if ragErr != nil || rag == nil {
		snap.Services.RAGQA = false
		return snap
	}
	snap.Capabilities = rag.Capabilities
	if rag.RAGHealth.Status != "" && rag.RAGHealth.Status != model.ServiceHealthy {
		snap.Services.RAGQA = false
	}
	return snap
}

func serviceUp(services map[string]model.ServiceStatus, name string) bool {
	s, ok := services[name]
	return ok && s.Status == model.ServiceHealthy
}

// HealthMonitor checks backend health on a fixed interval and publishes every
// snapshot. The first check runs immediately on Start.
type HealthMonitor struct {
	client   backend.Client
	interval time.Duration
	publish  func(model.HealthSnapshot)
	log      *zap.Logger

	mu     sync.Mutex
	last   model.HealthSnapshot
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHealthMonitor(client backend.Client, interval time.Duration, publish func(model.HealthSnapshot), log *zap.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if publish == nil {
		publish = func(model.HealthSnapshot) {}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthMonitor{
		client:   client,
		interval: interval,
		publish:  publish,
		log:      log.With(zap.String("component", "health_monitor")),
	}
}

// Check runs the backend and readiness checks concurrently, publishes and returns the snapshot.
func (m *HealthMonitor) Check(ctx context.Context) model.HealthSnapshot {
	var (
		health    *model.HealthResponse
		rag       *model.RAGHealthResponse
		healthErr error
		ragErr    error
	)
	var g errgroup.Group
	g.Go(func() error {
		health, healthErr = m.client.HealthCheck(ctx)
		return nil
	})
	g.Go(func() error {
		rag, ragErr = m.client.CheckRAGHealth(ctx)
		return nil
	})
	_ = g.Wait()

	if healthErr != nil {
		m.log.Warn("health check failed", zap.Error(healthErr))
	}
	if ragErr != nil {
		m.log.Debug("rag health check failed", zap.Error(ragErr))
	}

	snap := Snapshot(health, healthErr, rag, ragErr)
	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()
	m.publish(snap)
	return snap
}

// Last returns the most recent snapshot.
func (m *HealthMonitor) Last() model.HealthSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Start launches the polling loop. Calling Start twice is a no-op.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (m *HealthMonitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
