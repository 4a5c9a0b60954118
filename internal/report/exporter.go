package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrAllStrategiesFailed is returned only when even the last tier failed.
var ErrAllStrategiesFailed = errors.New("report generation failed")

// Output is a rendered report.
type Output struct {
	Data     []byte
	Strategy string
	Filename string
}

// Exporter tries each strategy in order and returns the first PDF produced.
type Exporter struct {
	strategies []Strategy
	log        *zap.Logger
	exports    *prometheus.CounterVec
}

type ExporterOption func(*Exporter)

// WithStrategies replaces the default html, direct, minimal chain.
func WithStrategies(s ...Strategy) ExporterOption {
	return func(e *Exporter) { e.strategies = s }
}

// WithRegisterer counts exports per strategy on reg.
func WithRegisterer(reg prometheus.Registerer) ExporterOption {
	return func(e *Exporter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_exports_total",
			Help: "PDF reports produced, by the strategy that produced them.",
		}, []string{"strategy"})
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				c = are.ExistingCollector.(*prometheus.CounterVec)
			} else {
				return
			}
		}
		e.exports = c
	}
}

func NewExporter(log *zap.Logger, opts ...ExporterOption) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Exporter{
		strategies: []Strategy{HTMLStrategy{}, DirectStrategy{}, MinimalStrategy{}},
		log:        log.With(zap.String("component", "report")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders in through the strategy chain.
func (e *Exporter) Export(in Input) (Output, error) {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	var errs []error
	for _, s := range e.strategies {
		data, err := render(s, in)
		if err == nil && len(data) == 0 {
			err = errors.New("empty output")
		}
		if err != nil {
			e.log.Warn("report strategy failed",
				zap.String("strategy", s.Name()),
				zap.String("document_id", in.Document.ID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if e.exports != nil {
			e.exports.WithLabelValues(s.Name()).Inc()
		}
		return Output{Data: data, Strategy: s.Name(), Filename: Filename(in.Document)}, nil
	}
	return Output{}, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, errors.Join(errs...))
}

// render turns a panic inside a strategy into an error so the chain continues.
func render(s Strategy, in Input) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Render(in)
}
