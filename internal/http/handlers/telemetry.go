package handlers

import (
	"net/http"

	"github.com/appclacks/fleetwatch/internal/validator"
	"github.com/appclacks/fleetwatch/pkg/client"
	"github.com/labstack/echo/v4"
)

func (b *Builder) RecordRequest(ec echo.Context) error {
	var payload client.RecordRequestInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := validator.Validator.Struct(payload); err != nil {
		return err
	}

	if err := b.metrics.RecordRequest(payload.Service, payload.LatencyMS, payload.Success); err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Request recorded"))
}

func (b *Builder) RecordHealthCheck(ec echo.Context) error {
	var payload client.RecordHealthCheckInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := validator.Validator.Struct(payload); err != nil {
		return err
	}

	b.metrics.RecordHealthCheck(payload.Service, payload.Passed)
	return ec.JSON(http.StatusOK, NewResponse("Health check recorded"))
}
