package report_test

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	alertaggregates "github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	metricsaggregates "github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	"github.com/appclacks/fleetwatch/pkg/report"
	"github.com/stretchr/testify/assert"
)

type fakeMetrics struct {
	snapshots []metricsaggregates.ServiceMetrics
}

func (f *fakeMetrics) Snapshots() []metricsaggregates.ServiceMetrics {
	return f.snapshots
}

type fakeAlerts struct {
	log []alertaggregates.Alert
}

func (f *fakeAlerts) Recent(n int) []alertaggregates.Alert {
	result := []alertaggregates.Alert{}
	for i := len(f.log) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, f.log[i])
	}
	return result
}

func (f *fakeAlerts) AlertCount() int {
	return len(f.log)
}

func TestAggregateEmptyFleet(t *testing.T) {
	service := report.New(slog.Default(), &fakeMetrics{}, &fakeAlerts{}, 0)

	result := service.Aggregate()
	assert.Equal(t, "healthy", result.OverallHealth)
	assert.Equal(t, 0, result.ServiceCount)
	assert.Equal(t, 0, result.AlertCount)
	assert.Len(t, result.Services, 0)
	assert.Len(t, result.Alerts, 0)
	assert.Equal(t, 0, result.Summary.Healthy)
}

func TestAggregateWorstStatusWins(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "a", SuccessCount: 100},
			{Name: "b", SuccessCount: 100},
			{Name: "c", SuccessCount: 94, ErrorCount: 6},
			{Name: "d", SuccessCount: 100},
			{Name: "e", SuccessCount: 100},
		},
	}
	service := report.New(slog.Default(), metrics, &fakeAlerts{}, 0)

	result := service.Aggregate()
	assert.Equal(t, "degraded", result.OverallHealth)
	assert.Equal(t, 5, result.ServiceCount)
	assert.Equal(t, 4, result.Summary.Healthy)
	assert.Equal(t, 1, result.Summary.Degraded)
	assert.Equal(t, 0, result.Summary.Critical)
	assert.Equal(t, 0, result.Summary.Down)
}

func TestAggregateBuckets(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{Name: "healthy", SuccessCount: 100},
			{Name: "degraded", SuccessCount: 94, ErrorCount: 6},
			{Name: "critical", SuccessCount: 80, ErrorCount: 20},
			{Name: "down", UptimeChecks: 100, UptimePasses: 50},
		},
	}
	service := report.New(slog.Default(), metrics, &fakeAlerts{}, 0)

	result := service.Aggregate()
	assert.Equal(t, "down", result.OverallHealth)
	assert.Equal(t, 1, result.Summary.Healthy)
	assert.Equal(t, 1, result.Summary.Degraded)
	assert.Equal(t, 1, result.Summary.Critical)
	assert.Equal(t, 1, result.Summary.Down)
}

func TestAggregateServiceRows(t *testing.T) {
	metrics := &fakeMetrics{
		snapshots: []metricsaggregates.ServiceMetrics{
			{
				Name:           "api",
				LatencySamples: []float64{100, 200, 300, 400},
				SuccessCount:   97,
				ErrorCount:     3,
				UptimeChecks:   10,
				UptimePasses:   9,
			},
		},
	}
	service := report.New(slog.Default(), metrics, &fakeAlerts{}, 0)

	result := service.Aggregate()
	assert.Len(t, result.Services, 1)
	row := result.Services[0]
	assert.Equal(t, "api", row.Name)
	assert.Equal(t, uint64(100), row.Requests)
	assert.InDelta(t, 3.0, row.ErrorRatePct, 0.0001)
	assert.InDelta(t, 90.0, row.AvailabilityPct, 0.0001)
	assert.Equal(t, uint64(10), row.UptimeChecks)
	assert.Equal(t, 200.0, row.P50MS)
	assert.Equal(t, 400.0, row.P95MS)
	assert.Equal(t, 400.0, row.P99MS)
	assert.Equal(t, "healthy", row.Health)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestAggregateBoundsRecentAlerts(t *testing.T) {
	alerts := &fakeAlerts{}
	for i := 0; i < 30; i++ {
		alerts.log = append(alerts.log, alertaggregates.Alert{
			ID:        fmt.Sprintf("alert-%d", i),
			Service:   "api",
			Severity:  alertaggregates.SeverityWarning,
			Message:   fmt.Sprintf("message %d", i),
			CreatedAt: time.Now().UTC(),
		})
	}
	service := report.New(slog.Default(), &fakeMetrics{}, alerts, 0)

	result := service.Aggregate()
	// the payload is bounded, the full log stays available internally
	assert.Len(t, result.Alerts, report.DefaultRecentAlerts)
	assert.Equal(t, 30, result.AlertCount)
	// most recent first
	assert.Equal(t, "message 29", result.Alerts[0].Message)

	service = report.New(slog.Default(), &fakeMetrics{}, alerts, 5)
	result = service.Aggregate()
	assert.Len(t, result.Alerts, 5)
}
