package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"legaldesk/internal/backend"
	"legaldesk/internal/model"
)

// Outcome says why a status poll stopped.
type Outcome string

const (
	OutcomeReady       Outcome = "ready"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeExhausted   Outcome = "exhausted"
	OutcomeCancelled   Outcome = "cancelled"
)

// StatusPoller follows background enrichment of one document until the
// Q&A pipeline is ready or the attempt budget runs out.
type StatusPoller struct {
	client      backend.Client
	delay       time.Duration
	interval    time.Duration
	maxAttempts int
	log         *zap.Logger
}

func NewStatusPoller(client backend.Client, delay, interval time.Duration, maxAttempts int, log *zap.Logger) *StatusPoller {
	if maxAttempts <= 0 {
		maxAttempts = 30
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusPoller{
		client:      client,
		delay:       delay,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         log.With(zap.String("component", "status_poller")),
	}
}

// Poll blocks until the poll ends. publish receives every successful status.
// Transient errors count as attempts; an unavailable endpoint stops at once.
func (p *StatusPoller) Poll(ctx context.Context, documentID string, publish func(model.ProcessingStatus)) Outcome {
	log := p.log.With(zap.String("document_id", documentID))
	if !sleep(ctx, p.delay) {
		return OutcomeCancelled
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		st, err := p.client.CheckProcessingStatus(ctx, documentID)
		switch {
		case ctx.Err() != nil:
			return OutcomeCancelled
		case backend.IsUnavailable(err):
			log.Debug("processing status endpoint not available")
			return OutcomeUnavailable
		case err != nil:
			log.Debug("processing status check failed", zap.Int("attempt", attempt), zap.Error(err))
		default:
			if publish != nil {
				publish(*st)
			}
			if st.QASystemReady {
				log.Info("document ready for questions", zap.Int("attempt", attempt))
				return OutcomeReady
			}
		}

		if attempt < p.maxAttempts && !sleep(ctx, p.interval) {
			return OutcomeCancelled
		}
	}
	log.Debug("processing status budget exhausted", zap.Int("attempts", p.maxAttempts))
	return OutcomeExhausted
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
