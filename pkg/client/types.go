package client

import "time"

type Response struct {
	Messages []string `json:"messages"`
}

type RegisterServiceInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type ResetServiceInput struct {
	Name string `param:"name" validate:"required,max=255"`
}

type DeleteServiceInput struct {
	Name string `param:"name" validate:"required,max=255"`
}

type RecordRequestInput struct {
	Service   string  `json:"service" validate:"required,max=255"`
	LatencyMS float64 `json:"latency_ms" validate:"gte=0"`
	Success   bool    `json:"success"`
}

type RecordHealthCheckInput struct {
	Service string `json:"service" validate:"required,max=255"`
	Passed  bool   `json:"passed"`
}

type ServiceReport struct {
	Name            string  `json:"name"`
	Requests        uint64  `json:"requests"`
	ErrorRatePct    float64 `json:"error_rate_pct"`
	AvailabilityPct float64 `json:"availability_pct"`
	UptimeChecks    uint64  `json:"uptime_checks"`
	P50MS           float64 `json:"p50_ms"`
	P95MS           float64 `json:"p95_ms"`
	P99MS           float64 `json:"p99_ms"`
	Health          string  `json:"health"`
}

type ListServicesOutput struct {
	Result []ServiceReport `json:"result"`
}

type Alert struct {
	ID        string    `json:"id,omitempty"`
	Service   string    `json:"service"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ListAlertsInput struct {
	Limit uint `query:"limit"`
}

type ListAlertsOutput struct {
	Result []Alert `json:"result"`
}

type EvaluateOutput struct {
	Result []Alert `json:"result"`
}

type Summary struct {
	Healthy  int `json:"healthy"`
	Degraded int `json:"degraded"`
	Critical int `json:"critical"`
	Down     int `json:"down"`
}

type PlatformReport struct {
	OverallHealth string          `json:"overall_health"`
	ServiceCount  int             `json:"service_count"`
	AlertCount    int             `json:"alert_count"`
	Services      []ServiceReport `json:"services"`
	Alerts        []Alert         `json:"alerts"`
	Summary       Summary         `json:"summary"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
