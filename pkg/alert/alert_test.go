package alert_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/appclacks/fleetwatch/pkg/alert"
	"github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	metricsaggregates "github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type fakeMetrics struct {
	snapshots []metricsaggregates.ServiceMetrics
}

func (f *fakeMetrics) Snapshots() []metricsaggregates.ServiceMetrics {
	return f.snapshots
}

type fakeStore struct {
	mu      sync.Mutex
	alerts  []aggregates.Alert
	cleaned int
}

func (f *fakeStore) CreateAlert(ctx context.Context, alert aggregates.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeStore) ListAlerts(ctx context.Context, limit uint) ([]*aggregates.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*aggregates.Alert{}
	for i := len(f.alerts) - 1; i >= 0; i-- {
		if limit > 0 && uint(len(result)) == limit {
			break
		}
		alert := f.alerts[i]
		result = append(result, &alert)
	}
	return result, nil
}

func (f *fakeStore) CountAlerts(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts), nil
}

func (f *fakeStore) CleanAlerts(ctx context.Context, threshold time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned++
	return 0, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func manySamples(value float64, count int) []float64 {
	samples := make([]float64, count)
	for i := range samples {
		samples[i] = value
	}
	return samples
}

func newService(t *testing.T, metrics *fakeMetrics, store *fakeStore, config alert.Configuration, options ...alert.Option) *alert.Service {
	t.Helper()
	service, err := alert.New(slog.Default(), metrics, store, prometheus.NewRegistry(), config, options...)
	assert.NoError(t, err)
	return service
}

func TestEvaluateHealthyFleetIsQuiet(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "api", SuccessCount: 100, UptimeChecks: 10, UptimePasses: 10},
			{Name: "worker"},
		},
	}
	store := &fakeStore{}
	service := newService(t, metrics, store, alert.Configuration{})

	alerts, err := service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 0)
	assert.Equal(t, 0, service.AlertCount())
	assert.Len(t, store.alerts, 0)
}

func TestEvaluateCriticalService(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "healthy-1", SuccessCount: 100},
			{
				Name:           "payments",
				LatencySamples: manySamples(800, 100),
				SuccessCount:   80,
				ErrorCount:     20,
				UptimeChecks:   100,
				UptimePasses:   100,
			},
			{Name: "healthy-2", SuccessCount: 100},
		},
	}
	store := &fakeStore{}
	service := newService(t, metrics, store, alert.Configuration{})

	alerts, err := service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Equal(t, "payments", alerts[0].Service)
	assert.Equal(t, aggregates.SeverityCritical, alerts[0].Severity)
	assert.NotEmpty(t, alerts[0].ID)
	// the message alone must be actionable
	assert.Contains(t, alerts[0].Message, "20.00%")
	assert.Contains(t, alerts[0].Message, "800.00ms")
	// archived
	assert.Len(t, store.alerts, 1)
}

func TestEvaluateSeverities(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{
				// degraded: 6% errors
				Name:         "api",
				SuccessCount: 94,
				ErrorCount:   6,
			},
			{
				// down: 90% availability, error rate ignored
				Name:         "db",
				SuccessCount: 80,
				ErrorCount:   20,
				UptimeChecks: 100,
				UptimePasses: 90,
			},
		},
	}
	store := &fakeStore{}
	service := newService(t, metrics, store, alert.Configuration{})

	alerts, err := service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 2)
	assert.Equal(t, aggregates.SeverityWarning, alerts[0].Severity)
	assert.Equal(t, aggregates.SeverityPage, alerts[1].Severity)
	assert.Contains(t, alerts[1].Message, "90.00%")
}

func TestEvaluateWithoutCooldownRefires(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "api", SuccessCount: 80, ErrorCount: 20},
		},
	}
	store := &fakeStore{}
	service := newService(t, metrics, store, alert.Configuration{})

	for i := 0; i < 3; i++ {
		alerts, err := service.Evaluate(context.Background())
		assert.NoError(t, err)
		assert.Len(t, alerts, 1)
	}
	assert.Equal(t, 3, service.AlertCount())
}

func TestEvaluateCooldownSuppressesRepeats(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "api", SuccessCount: 80, ErrorCount: 20},
		},
	}
	store := &fakeStore{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := newService(t, metrics, store, alert.Configuration{
		Cooldown: 300 * time.Second,
	}, alert.WithClock(clock.Now))

	alerts, err := service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)

	// still unhealthy inside the window: suppressed
	clock.Advance(60 * time.Second)
	alerts, err = service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 0)

	// window expired: fires again
	clock.Advance(241 * time.Second)
	alerts, err = service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Equal(t, 2, service.AlertCount())
}

func TestCooldownDoesNotSuppressEscalation(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "api", SuccessCount: 94, ErrorCount: 6},
		},
	}
	store := &fakeStore{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := newService(t, metrics, store, alert.Configuration{
		Cooldown: 300 * time.Second,
	}, alert.WithClock(clock.Now))

	alerts, err := service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Equal(t, aggregates.SeverityWarning, alerts[0].Severity)

	// the service worsens inside the warning cooldown window
	clock.Advance(30 * time.Second)
	metrics.snapshots[0].ErrorCount = 20
	metrics.snapshots[0].SuccessCount = 80

	alerts, err = service.Evaluate(context.Background())
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Equal(t, aggregates.SeverityCritical, alerts[0].Severity)
}

func TestRecent(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "a", SuccessCount: 80, ErrorCount: 20},
			{Name: "b", SuccessCount: 80, ErrorCount: 20},
			{Name: "c", SuccessCount: 80, ErrorCount: 20},
		},
	}
	store := &fakeStore{}
	service := newService(t, metrics, store, alert.Configuration{})

	_, err := service.Evaluate(context.Background())
	assert.NoError(t, err)

	recent := service.Recent(2)
	assert.Len(t, recent, 2)
	// most recent first
	assert.Equal(t, "c", recent[0].Service)
	assert.Equal(t, "b", recent[1].Service)

	assert.Len(t, service.Alerts(), 3)
	assert.Equal(t, 3, service.AlertCount())
}

type fakeNotifier struct {
	received chan aggregates.Alert
}

func (f *fakeNotifier) Notify(alert aggregates.Alert) {
	f.received <- alert
}

func TestNotifierReceivesAlerts(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "api", SuccessCount: 80, ErrorCount: 20},
		},
	}
	store := &fakeStore{}
	notifier := &fakeNotifier{received: make(chan aggregates.Alert, 1)}
	service := newService(t, metrics, store, alert.Configuration{}, alert.WithNotifier(notifier))

	_, err := service.Evaluate(context.Background())
	assert.NoError(t, err)

	select {
	case alert := <-notifier.received:
		assert.Equal(t, "api", alert.Service)
	case <-time.After(time.Second):
		t.Fatal("the notifier never received the alert")
	}
}
