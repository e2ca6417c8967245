package persist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// FailedMsg is the log message written for a failed call. logtail looks for
// it when listing sync issues.
const FailedMsg = "remote mirror failed"

// Gate reports whether mirroring is enabled. *session.Session satisfies it.
type Gate interface {
	Active() bool
}

// Metrics counts mirror outcomes.
type Metrics struct {
	calls *prometheus.CounterVec
}

// NewMetrics registers the mirror counters on reg. A nil reg leaves the
// counters unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foxnuts",
			Name:      "mirror_calls_total",
			Help:      "Remote mirror calls by operation and result.",
		}, []string{"op", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.calls)
	}
	return m
}

func (m *Metrics) observe(op, result string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, result).Inc()
}

// Mirror runs remote calls in the background when the gate is open.
type Mirror struct {
	gate    Gate
	logger  *slog.Logger
	metrics *Metrics
	wg      sync.WaitGroup
}

// NewMirror builds a mirror. metrics may be nil.
func NewMirror(gate Gate, logger *slog.Logger, metrics *Metrics) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{gate: gate, logger: logger, metrics: metrics}
}

// Enabled reports whether calls would currently be issued.
func (m *Mirror) Enabled() bool {
	return m != nil && m.gate != nil && m.gate.Active()
}

// Do starts fn on its own goroutine when the gate is open and returns at
// once. It reports whether fn was started. Errors are logged and counted,
// nothing else. The call gets a background context: there is no timeout or
// cancellation beyond whatever the transport applies.
func (m *Mirror) Do(op string, fn func(ctx context.Context) error) bool {
	if !m.Enabled() {
		m.metrics.observe(op, "skipped")
		return false
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := fn(context.Background()); err != nil {
			m.metrics.observe(op, "failed")
			m.logger.Warn(FailedMsg, "op", op, "error", err)
			return
		}
		m.metrics.observe(op, "ok")
		m.logger.Debug("remote mirror ok", "op", op)
	}()
	return true
}

// Wait blocks until every started call has returned.
func (m *Mirror) Wait() {
	m.wg.Wait()
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() when ctx ends
// first; the calls keep running.
func (m *Mirror) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
