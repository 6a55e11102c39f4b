package report

import (
	"fmt"
	"log/slog"
	"time"

	alertaggregates "github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	"github.com/appclacks/fleetwatch/pkg/health"
	metricsaggregates "github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	"github.com/appclacks/fleetwatch/pkg/report/aggregates"
)

const DefaultRecentAlerts = 20

// MetricsSource provides the metrics snapshots aggregated into a report.
type MetricsSource interface {
	Snapshots() []metricsaggregates.ServiceMetrics
}

// AlertSource provides the alert log view exposed by reports.
type AlertSource interface {
	Recent(n int) []alertaggregates.Alert
	AlertCount() int
}

type Service struct {
	logger       *slog.Logger
	metrics      MetricsSource
	alerts       AlertSource
	recentAlerts int
	now          func() time.Time
}

func New(logger *slog.Logger, metrics MetricsSource, alerts AlertSource, recentAlerts int) *Service {
	if recentAlerts <= 0 {
		recentAlerts = DefaultRecentAlerts
	}
	return &Service{
		logger:       logger,
		metrics:      metrics,
		alerts:       alerts,
		recentAlerts: recentAlerts,
		now:          time.Now,
	}
}

func toServiceReport(m metricsaggregates.ServiceMetrics, state health.State) aggregates.ServiceReport {
	p50, _ := health.Percentile(m.LatencySamples, 50)
	p95, _ := health.Percentile(m.LatencySamples, 95)
	p99, _ := health.Percentile(m.LatencySamples, 99)
	return aggregates.ServiceReport{
		Name:            m.Name,
		Requests:        m.RequestCount(),
		ErrorRatePct:    health.ErrorRate(m) * 100,
		AvailabilityPct: health.Availability(m),
		UptimeChecks:    m.UptimeChecks,
		P50MS:           p50,
		P95MS:           p95,
		P99MS:           p99,
		Health:          state.String(),
	}
}

// Aggregate assembles a platform report from the current metrics and alert
// log. The overall health is the worst health across all services; an
// empty fleet is healthy. Aggregate never fails.
func (s *Service) Aggregate() aggregates.PlatformReport {
	snapshots := s.metrics.Snapshots()
	report := aggregates.PlatformReport{
		OverallHealth: health.Healthy.String(),
		ServiceCount:  len(snapshots),
		AlertCount:    s.alerts.AlertCount(),
		Services:      []aggregates.ServiceReport{},
		Alerts:        []aggregates.AlertReport{},
		GeneratedAt:   s.now().UTC(),
	}
	overall := health.Healthy
	for i := range snapshots {
		snapshot := snapshots[i]
		state := health.Classify(snapshot)
		overall = health.Worst(overall, state)
		switch state {
		case health.Degraded:
			report.Summary.Degraded++
		case health.Critical:
			report.Summary.Critical++
		case health.Down:
			report.Summary.Down++
		default:
			report.Summary.Healthy++
		}
		report.Services = append(report.Services, toServiceReport(snapshot, state))
	}
	report.OverallHealth = overall.String()
	s.logger.Debug(fmt.Sprintf("report generated: %d services, overall health %s", len(snapshots), report.OverallHealth))
	for _, alert := range s.alerts.Recent(s.recentAlerts) {
		report.Alerts = append(report.Alerts, aggregates.AlertReport{
			Service:   alert.Service,
			Severity:  string(alert.Severity),
			Message:   alert.Message,
			CreatedAt: alert.CreatedAt,
		})
	}
	return report
}
