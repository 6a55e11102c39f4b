package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appclacks/fleetwatch/config"
	"github.com/appclacks/fleetwatch/internal/database"
	"github.com/appclacks/fleetwatch/internal/http"
	"github.com/appclacks/fleetwatch/internal/http/handlers"
	"github.com/appclacks/fleetwatch/pkg/alert"
	"github.com/appclacks/fleetwatch/pkg/metrics"
	"github.com/appclacks/fleetwatch/pkg/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func buildServerCmd(logger *slog.Logger) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Runs the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			err := runServer(logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}

		},
	}
	return serverCmd
}

func parseDuration(value string, fallback time.Duration, name string) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration %s: %w", name, value, err)
	}
	return duration, nil
}

func runServer(logger *slog.Logger) error {
	file, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("fail to read configuration file: %w", err)
	}
	var config config.Configuration
	if err := yaml.Unmarshal(file, &config); err != nil {
		return fmt.Errorf("fail to parse yaml configuration file: %w", err)
	}
	evaluationInterval, err := parseDuration(config.Platform.EvaluationInterval, 60*time.Second, "evaluation-interval")
	if err != nil {
		return err
	}
	alertCooldown, err := parseDuration(config.Platform.AlertCooldown, 300*time.Second, "alert-cooldown")
	if err != nil {
		return err
	}
	alertRetention, err := parseDuration(config.Platform.AlertRetention, 30*24*time.Hour, "alert-retention")
	if err != nil {
		return err
	}
	stopTracing, err := initTracing(context.Background(), config.Tracing)
	if err != nil {
		return err
	}
	registry := prometheus.DefaultRegisterer.(*prometheus.Registry)
	store, err := database.New(logger, config.Database)
	if err != nil {
		return err
	}
	metricsStore, err := metrics.New(logger, int(config.Platform.MaxLatencySamples), registry)
	if err != nil {
		return err
	}
	// re-register the services persisted by previous runs
	services, err := store.ListServices(context.Background())
	if err != nil {
		return err
	}
	for _, service := range services {
		metricsStore.Register(service)
	}
	alertService, err := alert.New(logger, metricsStore, store, registry, alert.Configuration{
		EvaluationInterval: evaluationInterval,
		Cooldown:           alertCooldown,
		Retention:          alertRetention,
	})
	if err != nil {
		return err
	}
	reportService := report.New(logger, metricsStore, alertService, int(config.Platform.RecentAlerts))
	handlersBuilder := handlers.NewBuilder(metricsStore, alertService, reportService, store)
	server, err := http.NewServer(logger, config.HTTP, registry, handlersBuilder)
	if err != nil {
		return err
	}
	signals := make(chan os.Signal, 1)
	errChan := make(chan error)

	signal.Notify(
		signals,
		syscall.SIGINT,
		syscall.SIGTERM)

	alertService.Start()
	server.Start()
	go func() {
		for sig := range signals {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Info(fmt.Sprintf("received signal %s, starting shutdown", sig))
				signal.Stop(signals)
				alertService.Stop()
				err := server.Stop()
				if err != nil {
					errChan <- err
				}
				if stopTracing != nil {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					if err := stopTracing(ctx); err != nil {
						logger.Error(err.Error())
					}
					cancel()
				}
				errChan <- nil
			}

		}
	}()
	exitErr := <-errChan
	return exitErr
}
