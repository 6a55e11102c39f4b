package metrics

import (
	"fmt"

	"github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	er "github.com/mcorbin/corbierror"
	"github.com/prometheus/client_golang/prometheus"
)

// Register creates a zero-initialized record for the service. Registering
// an already-known name is a no-op.
func (s *Store) Register(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[name]; ok {
		return
	}
	s.logger.Info(fmt.Sprintf("registering service %s", name))
	s.services[name] = &serviceRecord{
		samples: make([]float64, 0, s.maxSamples),
	}
}

// Deregister removes a decommissioned service. Telemetry arriving after
// deregistration falls under the unregistered-service drop policy.
func (s *Store) Deregister(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[name]; !ok {
		return er.Newf("service %s not found", er.NotFound, true, name)
	}
	s.logger.Info(fmt.Sprintf("deregistering service %s", name))
	delete(s.services, name)
	return nil
}

// RecordRequest appends one request telemetry sample. Telemetry for an
// unregistered service is dropped: registration ordering is not guaranteed
// in a dynamic fleet and late samples must not fail ingestion.
func (s *Store) RecordRequest(name string, latencyMS float64, success bool) error {
	if latencyMS < 0 {
		return er.Newf("invalid latency %f: latencies must be positive", er.BadRequest, true, latencyMS)
	}
	record := s.get(name)
	if record == nil {
		s.droppedCounter.With(prometheus.Labels{"type": "request"}).Inc()
		return nil
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	if len(record.samples) < s.maxSamples {
		record.samples = append(record.samples, latencyMS)
	} else {
		// ring buffer: overwrite the oldest sample
		record.samples[record.next] = latencyMS
	}
	record.next = (record.next + 1) % s.maxSamples
	if success {
		record.successCount++
	} else {
		record.errorCount++
	}
	return nil
}

// RecordHealthCheck registers the result of one periodic health check.
// Same unregistered-service policy as RecordRequest.
func (s *Store) RecordHealthCheck(name string, passed bool) {
	record := s.get(name)
	if record == nil {
		s.droppedCounter.With(prometheus.Labels{"type": "health_check"}).Inc()
		return
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	record.uptimeChecks++
	if passed {
		record.uptimePasses++
	}
}

// Reset zeroes the counters and samples of a service. This is an
// administrative operation, the registration itself is kept.
func (s *Store) Reset(name string) error {
	record := s.get(name)
	if record == nil {
		return er.Newf("service %s not found", er.NotFound, true, name)
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	record.samples = record.samples[:0]
	record.next = 0
	record.successCount = 0
	record.errorCount = 0
	record.uptimeChecks = 0
	record.uptimePasses = 0
	return nil
}

// Snapshot returns a consistent copy of the service metrics, taken under
// the same lock as writes.
func (s *Store) Snapshot(name string) (aggregates.ServiceMetrics, bool) {
	record := s.get(name)
	if record == nil {
		return aggregates.ServiceMetrics{}, false
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	return aggregates.ServiceMetrics{
		Name:           name,
		LatencySamples: append([]float64(nil), record.samples...),
		SuccessCount:   record.successCount,
		ErrorCount:     record.errorCount,
		UptimeChecks:   record.uptimeChecks,
		UptimePasses:   record.uptimePasses,
	}, true
}

// Snapshots returns a snapshot for every registered service, sorted by
// name.
func (s *Store) Snapshots() []aggregates.ServiceMetrics {
	names := s.ServiceNames()
	result := make([]aggregates.ServiceMetrics, 0, len(names))
	for _, name := range names {
		snapshot, ok := s.Snapshot(name)
		if !ok {
			continue
		}
		result = append(result, snapshot)
	}
	return result
}
