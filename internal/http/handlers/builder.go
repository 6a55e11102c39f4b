package handlers

import (
	"context"

	alertaggregates "github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	reportaggregates "github.com/appclacks/fleetwatch/pkg/report/aggregates"
)

type MetricsService interface {
	Register(name string)
	Deregister(name string) error
	RecordRequest(name string, latencyMS float64, success bool) error
	RecordHealthCheck(name string, passed bool)
	Reset(name string) error
}

type AlertService interface {
	Evaluate(ctx context.Context) ([]alertaggregates.Alert, error)
	ListArchivedAlerts(ctx context.Context, limit uint) ([]*alertaggregates.Alert, error)
}

type ReportService interface {
	Aggregate() reportaggregates.PlatformReport
}

// RegistryStore persists service registrations so they survive restarts.
type RegistryStore interface {
	CreateService(ctx context.Context, name string) error
	DeleteService(ctx context.Context, name string) error
}

type Builder struct {
	metrics  MetricsService
	alerts   AlertService
	reports  ReportService
	registry RegistryStore
}

func NewBuilder(metrics MetricsService, alerts AlertService, reports ReportService, registry RegistryStore) *Builder {
	return &Builder{
		metrics:  metrics,
		alerts:   alerts,
		reports:  reports,
		registry: registry,
	}
}
