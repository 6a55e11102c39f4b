package alert

import (
	"context"
	"fmt"

	"github.com/appclacks/fleetwatch/internal/util"
	"github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	"github.com/appclacks/fleetwatch/pkg/health"
	metricsaggregates "github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	"github.com/prometheus/client_golang/prometheus"
)

func severityFor(state health.State) (aggregates.Severity, bool) {
	switch state {
	case health.Degraded:
		return aggregates.SeverityWarning, true
	case health.Critical:
		return aggregates.SeverityCritical, true
	case health.Down:
		return aggregates.SeverityPage, true
	default:
		return "", false
	}
}

func buildMessage(m metricsaggregates.ServiceMetrics, state health.State) string {
	errorRate := health.ErrorRate(m) * 100
	availability := health.Availability(m)
	p99, _ := health.Percentile(m.LatencySamples, 99)
	switch state {
	case health.Down:
		return fmt.Sprintf("service %s is down: availability %.2f%% is below %d%% (error rate %.2f%%, p99 latency %.2fms)",
			m.Name, availability, health.AvailabilityDownThreshold, errorRate, p99)
	case health.Critical:
		return fmt.Sprintf("service %s is critical: error rate %.2f%%, p99 latency %.2fms (availability %.2f%%)",
			m.Name, errorRate, p99, availability)
	default:
		return fmt.Sprintf("service %s is degraded: error rate %.2f%%, p99 latency %.2fms (availability %.2f%%)",
			m.Name, errorRate, p99, availability)
	}
}

// shouldFire applies the cooldown window. The key includes the severity:
// a service escalating from warning to page alerts immediately, the window
// only suppresses repeats of the same condition.
func (s *Service) shouldFire(key firingKey) bool {
	if s.config.Cooldown <= 0 {
		return true
	}
	last, ok := s.lastFired[key]
	if !ok {
		return true
	}
	return s.now().Sub(last) >= s.config.Cooldown
}

// Evaluate classifies every registered service and generates an alert for
// each one in a non-healthy state. Generated alerts are appended to the
// in-memory log, archived, counted, and handed to the notifier.
func (s *Service) Evaluate(ctx context.Context) ([]aggregates.Alert, error) {
	snapshots := s.metrics.Snapshots()
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []aggregates.Alert{}
	for i := range snapshots {
		snapshot := snapshots[i]
		state := health.Classify(snapshot)
		severity, firing := severityFor(state)
		if !firing {
			continue
		}
		key := firingKey{service: snapshot.Name, severity: severity}
		if !s.shouldFire(key) {
			s.logger.Debug(fmt.Sprintf("alert for service %s suppressed by cooldown", snapshot.Name))
			continue
		}
		now := s.now().UTC()
		alert := aggregates.Alert{
			ID:        util.NewUUID(),
			Service:   snapshot.Name,
			Severity:  severity,
			Message:   buildMessage(snapshot, state),
			CreatedAt: now,
		}
		s.logger.Info(alert.Message)
		s.lastFired[key] = now
		s.log = append(s.log, alert)
		s.alertsCounter.With(prometheus.Labels{"severity": string(severity)}).Inc()
		if err := s.store.CreateAlert(ctx, alert); err != nil {
			return result, fmt.Errorf("fail to archive alert for service %s: %w", snapshot.Name, err)
		}
		if s.notifier != nil {
			go s.notifier.Notify(alert)
		}
		result = append(result, alert)
	}
	return result, nil
}

// Alerts returns a copy of the full in-memory alert log, oldest first.
func (s *Service) Alerts() []aggregates.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]aggregates.Alert(nil), s.log...)
}

// Recent returns the n most recent alerts, most recent first.
func (s *Service) Recent(n int) []aggregates.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []aggregates.Alert{}
	for i := len(s.log) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.log[i])
	}
	return result
}

// AlertCount returns the size of the in-memory alert log.
func (s *Service) AlertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}

// ListArchivedAlerts reads back alerts from the durable archive.
func (s *Service) ListArchivedAlerts(ctx context.Context, limit uint) ([]*aggregates.Alert, error) {
	return s.store.ListAlerts(ctx, limit)
}
