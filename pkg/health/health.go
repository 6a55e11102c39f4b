package health

import (
	"math"
	"sort"

	"github.com/appclacks/fleetwatch/pkg/metrics/aggregates"
	er "github.com/mcorbin/corbierror"
)

// State is a service health state. States are ordered by severity so the
// fleet aggregation can pick the worst one.
type State int

const (
	Healthy State = iota
	Degraded
	Critical
	Down
)

func (s State) String() string {
	switch s {
	case Degraded:
		return "degraded"
	case Critical:
		return "critical"
	case Down:
		return "down"
	default:
		return "healthy"
	}
}

// Classification thresholds. Unreachability outranks error and latency
// signals: a service that is reachable but degraded and a service that is
// unreachable call for different operational responses.
const (
	AvailabilityDownThreshold = 95

	ErrorRateCriticalThreshold = 0.10
	ErrorRateDegradedThreshold = 0.05

	P99CriticalThresholdMS = 1000
	P99DegradedThresholdMS = 500
)

// Percentile computes the nearest-rank percentile of the samples: the
// samples are sorted ascending and the value at index ceil(p/100*n)-1
// (clamped to the valid range) is selected. An empty sample set yields 0,
// not an error, so quiet services always report defined latencies.
func Percentile(samples []float64, p float64) (float64, error) {
	if p <= 0 || p > 100 {
		return 0, er.Newf("invalid percentile rank %f: must be in ]0;100]", er.BadRequest, true, p)
	}
	if len(samples) == 0 {
		return 0, nil
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	index := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if index < 0 {
		index = 0
	}
	if index > len(sorted)-1 {
		index = len(sorted) - 1
	}
	return sorted[index], nil
}

func percentile(samples []float64, p float64) float64 {
	result, _ := Percentile(samples, p)
	return result
}

// ErrorRate is the fraction of failed requests. A service without traffic
// has an error rate of 0: absence of traffic is not failure.
func ErrorRate(m aggregates.ServiceMetrics) float64 {
	total := m.RequestCount()
	if total == 0 {
		return 0
	}
	return float64(m.ErrorCount) / float64(total)
}

// Availability is the percentage of health checks that passed. A service
// that was never checked defaults to 100%.
func Availability(m aggregates.ServiceMetrics) float64 {
	if m.UptimeChecks == 0 {
		return 100
	}
	return float64(m.UptimePasses) / float64(m.UptimeChecks) * 100
}

// Classify maps a metrics snapshot to a health state. The rules form an
// ordered guard chain, the first matching one wins. The result is computed
// fresh on every call.
func Classify(m aggregates.ServiceMetrics) State {
	errorRate := ErrorRate(m)
	p99 := percentile(m.LatencySamples, 99)
	if Availability(m) < AvailabilityDownThreshold {
		return Down
	}
	if errorRate > ErrorRateCriticalThreshold || p99 > P99CriticalThresholdMS {
		return Critical
	}
	if errorRate > ErrorRateDegradedThreshold || p99 > P99DegradedThresholdMS {
		return Degraded
	}
	return Healthy
}

// Worst returns the most severe of two states.
func Worst(a State, b State) State {
	if b > a {
		return b
	}
	return a
}
