package handlers

import (
	"net/http"

	"github.com/appclacks/fleetwatch/pkg/client"
	reportaggregates "github.com/appclacks/fleetwatch/pkg/report/aggregates"
	"github.com/labstack/echo/v4"
)

func toPlatformReport(report reportaggregates.PlatformReport) client.PlatformReport {
	result := client.PlatformReport{
		OverallHealth: report.OverallHealth,
		ServiceCount:  report.ServiceCount,
		AlertCount:    report.AlertCount,
		Services:      []client.ServiceReport{},
		Alerts:        []client.Alert{},
		Summary: client.Summary{
			Healthy:  report.Summary.Healthy,
			Degraded: report.Summary.Degraded,
			Critical: report.Summary.Critical,
			Down:     report.Summary.Down,
		},
		GeneratedAt: report.GeneratedAt,
	}
	for i := range report.Services {
		result.Services = append(result.Services, toServiceReport(report.Services[i]))
	}
	for _, alert := range report.Alerts {
		result.Alerts = append(result.Alerts, client.Alert{
			Service:   alert.Service,
			Severity:  alert.Severity,
			Message:   alert.Message,
			CreatedAt: alert.CreatedAt,
		})
	}
	return result
}

func (b *Builder) GetReport(ec echo.Context) error {
	result := toPlatformReport(b.reports.Aggregate())
	return ec.JSON(http.StatusOK, &result)
}
