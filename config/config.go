package config

import (
	"github.com/appclacks/fleetwatch/internal/database"
	"github.com/appclacks/fleetwatch/internal/http"
)

// Platform configures the observability core: sample retention, alerting
// cadence and report shape. Durations are Go duration strings.
type Platform struct {
	MaxLatencySamples  uint   `yaml:"max-latency-samples"`
	EvaluationInterval string `yaml:"evaluation-interval"`
	AlertCooldown      string `yaml:"alert-cooldown"`
	AlertRetention     string `yaml:"alert-retention"`
	RecentAlerts       uint   `yaml:"recent-alerts"`
}

type Tracing struct {
	Endpoint string
}

type Configuration struct {
	HTTP     http.Configuration
	Database database.Configuration
	Platform Platform
	Tracing  Tracing
}
