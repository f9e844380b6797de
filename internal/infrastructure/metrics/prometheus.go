package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"eventbot/internal/ports/output"
)

var _ output.Metrics = (*Prometheus)(nil)

// Prometheus records engine activity as counters.
type Prometheus struct {
	transitions *prometheus.CounterVec
	attendance  *prometheus.CounterVec
	promotions  prometheus.Counter
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wizard_transitions_total",
				Help: "Wizard steps handled, by flow, step and outcome",
			},
			[]string{"flow", "step", "outcome"},
		),
		attendance: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_operations_total",
				Help: "Join and cancel requests, by result",
			},
			[]string{"operation", "result"},
		),
		promotions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "waitlist_promotions_total",
				Help: "Participants promoted from the waitlist",
			},
		),
	}
}

func (p *Prometheus) WizardTransition(flow, step, outcome string) {
	p.transitions.WithLabelValues(flow, step, outcome).Inc()
}

func (p *Prometheus) Attendance(operation, result string) {
	p.attendance.WithLabelValues(operation, result).Inc()
}

func (p *Prometheus) Promotion() {
	p.promotions.Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
