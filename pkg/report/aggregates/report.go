package aggregates

import "time"

// ServiceReport is the per-service line of a platform report.
type ServiceReport struct {
	Name            string
	Requests        uint64
	ErrorRatePct    float64
	AvailabilityPct float64
	UptimeChecks    uint64
	P50MS           float64
	P95MS           float64
	P99MS           float64
	Health          string
}

// AlertReport is the alert view exposed to report consumers.
type AlertReport struct {
	Service   string
	Severity  string
	Message   string
	CreatedAt time.Time
}

// Summary counts services per health bucket.
type Summary struct {
	Healthy  int
	Degraded int
	Critical int
	Down     int
}

// PlatformReport is a read-only snapshot of the whole fleet, assembled on
// demand. It has no lifecycle beyond the call that produced it.
type PlatformReport struct {
	OverallHealth string
	ServiceCount  int
	AlertCount    int
	Services      []ServiceReport
	Alerts        []AlertReport
	Summary       Summary
	GeneratedAt   time.Time
}
