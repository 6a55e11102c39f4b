package handlers

import (
	"fmt"
	"net/http"

	"github.com/appclacks/fleetwatch/internal/validator"
	"github.com/appclacks/fleetwatch/pkg/client"
	reportaggregates "github.com/appclacks/fleetwatch/pkg/report/aggregates"
	"github.com/labstack/echo/v4"
)

func (b *Builder) RegisterService(ec echo.Context) error {
	var payload client.RegisterServiceInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := validator.Validator.Struct(payload); err != nil {
		return err
	}

	if err := b.registry.CreateService(ec.Request().Context(), payload.Name); err != nil {
		return err
	}
	b.metrics.Register(payload.Name)
	return ec.JSON(http.StatusCreated, NewResponse(fmt.Sprintf("Service %s registered", payload.Name)))
}

func toServiceReport(report reportaggregates.ServiceReport) client.ServiceReport {
	return client.ServiceReport{
		Name:            report.Name,
		Requests:        report.Requests,
		ErrorRatePct:    report.ErrorRatePct,
		AvailabilityPct: report.AvailabilityPct,
		UptimeChecks:    report.UptimeChecks,
		P50MS:           report.P50MS,
		P95MS:           report.P95MS,
		P99MS:           report.P99MS,
		Health:          report.Health,
	}
}

func (b *Builder) ListServices(ec echo.Context) error {
	report := b.reports.Aggregate()
	result := client.ListServicesOutput{
		Result: []client.ServiceReport{},
	}
	for i := range report.Services {
		result.Result = append(result.Result, toServiceReport(report.Services[i]))
	}
	return ec.JSON(http.StatusOK, result)
}

func (b *Builder) DeleteService(ec echo.Context) error {
	var payload client.DeleteServiceInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := validator.Validator.Struct(payload); err != nil {
		return err
	}

	if err := b.registry.DeleteService(ec.Request().Context(), payload.Name); err != nil {
		return err
	}
	if err := b.metrics.Deregister(payload.Name); err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse(fmt.Sprintf("Service %s deleted", payload.Name)))
}

func (b *Builder) ResetServiceMetrics(ec echo.Context) error {
	var payload client.ResetServiceInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := validator.Validator.Struct(payload); err != nil {
		return err
	}

	if err := b.metrics.Reset(payload.Name); err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse(fmt.Sprintf("Metrics for service %s reset", payload.Name)))
}
