package handlers

import (
	"net/http"

	"github.com/appclacks/fleetwatch/internal/validator"
	aggregates "github.com/appclacks/fleetwatch/pkg/alert/aggregates"
	"github.com/appclacks/fleetwatch/pkg/client"
	"github.com/labstack/echo/v4"
)

func toAlert(alert aggregates.Alert) client.Alert {
	return client.Alert{
		ID:        alert.ID,
		Service:   alert.Service,
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	}
}

func (b *Builder) ListAlerts(ec echo.Context) error {
	var payload client.ListAlertsInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := validator.Validator.Struct(payload); err != nil {
		return err
	}

	alerts, err := b.alerts.ListArchivedAlerts(ec.Request().Context(), payload.Limit)
	if err != nil {
		return err
	}
	result := client.ListAlertsOutput{
		Result: []client.Alert{},
	}
	for i := range alerts {
		result.Result = append(result.Result, toAlert(*alerts[i]))
	}
	return ec.JSON(http.StatusOK, result)
}

func (b *Builder) Evaluate(ec echo.Context) error {
	alerts, err := b.alerts.Evaluate(ec.Request().Context())
	if err != nil {
		return err
	}
	result := client.EvaluateOutput{
		Result: []client.Alert{},
	}
	for i := range alerts {
		result.Result = append(result.Result, toAlert(alerts[i]))
	}
	return ec.JSON(http.StatusOK, result)
}
