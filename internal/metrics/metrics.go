package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/remaimber-it/examprep/internal/event"
)

// Metrics owns the service's Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	answers         *prometheus.CounterVec
	completions     *prometheus.CounterVec
	thetaEnd        prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examprep_events_total",
				Help: "Domain events emitted, by type",
			},
			[]string{"type"},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examprep_answers_total",
				Help: "Recorded answers, by correctness",
			},
			[]string{"correct"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examprep_sessions_completed_total",
				Help: "Completed sessions, by completion reason",
			},
			[]string{"reason"},
		),
		thetaEnd: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "examprep_session_theta_end",
				Help:    "Final ability estimate of completed sessions",
				Buckets: prometheus.LinearBuckets(-4, 1, 9),
			},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "examprep_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
	}
	m.registry.MustRegister(
		m.events,
		m.answers,
		m.completions,
		m.thetaEnd,
		m.requestDuration,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Publisher counts every event before handing it to next.
func (m *Metrics) Publisher(next event.Publisher) event.Publisher {
	return &countingPublisher{m: m, next: next}
}

type countingPublisher struct {
	m    *Metrics
	next event.Publisher
}

func (p *countingPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	p.m.events.WithLabelValues(eventType).Inc()
	switch e := payload.(type) {
	case event.AnswerRecorded:
		p.m.answers.WithLabelValues(strconv.FormatBool(e.Correct)).Inc()
	case event.SessionCompleted:
		p.m.completions.WithLabelValues(e.Reason).Inc()
		p.m.thetaEnd.Observe(e.ThetaEnd)
	}
	return p.next.Publish(ctx, eventType, payload)
}

func (p *countingPublisher) Close() error {
	return p.next.Close()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records the duration of every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}
