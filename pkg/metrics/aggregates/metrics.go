package aggregates

// ServiceMetrics is a consistent snapshot of the telemetry accumulated for
// one registered service.
type ServiceMetrics struct {
	Name           string
	LatencySamples []float64
	SuccessCount   uint64
	ErrorCount     uint64
	UptimeChecks   uint64
	UptimePasses   uint64
}

// RequestCount is the denominator used for error rate computations.
func (m ServiceMetrics) RequestCount() uint64 {
	return m.SuccessCount + m.ErrorCount
}
