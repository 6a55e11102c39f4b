package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	metricsaggregates "github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	"github.com/prometheus/client_golang/prometheus"
)

// Store is the durable archive for generated alerts.
type Store interface {
	CreateAlert(ctx context.Context, alert aggregates.Alert) error
	ListAlerts(ctx context.Context, limit uint) ([]*aggregates.Alert, error)
	CountAlerts(ctx context.Context) (int, error)
	CleanAlerts(ctx context.Context, threshold time.Time) (int64, error)
}

// MetricsSource provides the metrics snapshots evaluated by the engine.
type MetricsSource interface {
	Snapshots() []metricsaggregates.ServiceMetrics
}

// Notifier delivers an alert to an external system (pager, webhook...).
// Deliveries run in their own goroutine so a slow notifier never stalls
// evaluation.
type Notifier interface {
	Notify(alert aggregates.Alert)
}

type firingKey struct {
	service  string
	severity aggregates.Severity
}

type Configuration struct {
	EvaluationInterval time.Duration
	Cooldown           time.Duration
	Retention          time.Duration
}

type Service struct {
	logger   *slog.Logger
	metrics  MetricsSource
	store    Store
	notifier Notifier
	config   Configuration
	now      func() time.Time

	mu        sync.Mutex
	log       []aggregates.Alert
	lastFired map[firingKey]time.Time

	evaluationsCounter *prometheus.CounterVec
	alertsCounter      *prometheus.CounterVec

	wg     sync.WaitGroup
	stop   chan bool
	ticker *time.Ticker
}

type Option func(*Service)

// WithClock overrides the clock used for alert timestamps and cooldown
// bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithNotifier registers an external delivery collaborator.
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

func New(logger *slog.Logger, metrics MetricsSource, store Store, registry *prometheus.Registry, config Configuration, options ...Option) (*Service, error) {
	if config.EvaluationInterval <= 0 {
		config.EvaluationInterval = 60 * time.Second
	}
	evaluationsCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_evaluations_total",
			Help: "Count the number of executions of the alert evaluation job",
		},
		[]string{"status"})
	err := registry.Register(evaluationsCounter)
	if err != nil {
		return nil, err
	}
	alertsCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Count the number of alerts fired by the alert engine",
		},
		[]string{"severity"})
	err = registry.Register(alertsCounter)
	if err != nil {
		return nil, err
	}
	service := &Service{
		logger:             logger,
		metrics:            metrics,
		store:              store,
		config:             config,
		now:                time.Now,
		lastFired:          make(map[firingKey]time.Time),
		evaluationsCounter: evaluationsCounter,
		alertsCounter:      alertsCounter,
		stop:               make(chan bool),
		ticker:             time.NewTicker(config.EvaluationInterval),
	}
	for _, option := range options {
		option(service)
	}
	return service, nil
}

// Start launches the periodic evaluation job and the archive retention
// cleanup.
func (s *Service) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.stop:
				return
			case <-s.ticker.C:
				s.logger.Debug("evaluating fleet health")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				_, err := s.Evaluate(ctx)
				if err != nil {
					s.logger.Error(err.Error())
					s.evaluationsCounter.With(prometheus.Labels{"status": "failure"}).Inc()
				} else {
					s.evaluationsCounter.With(prometheus.Labels{"status": "success"}).Inc()
				}
				if s.config.Retention > 0 {
					threshold := s.now().UTC().Add(-s.config.Retention)
					_, err := s.store.CleanAlerts(ctx, threshold)
					if err != nil {
						s.logger.Error(err.Error())
					}
				}
				cancel()
			}
		}
	}()
}

func (s *Service) Stop() {
	s.ticker.Stop()
	s.stop <- true
	s.wg.Wait()
}
