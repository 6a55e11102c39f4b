package database

import (
	"context"
	"fmt"
	"time"

	"github.com/appclacks/fleetwatch/pkg/alert/aggregates"
)

type dbAlert struct {
	ID        string
	Service   string
	Severity  string
	Message   string
	CreatedAt time.Time `db:"created_at"`
}

func toAlert(alert *dbAlert) *aggregates.Alert {
	return &aggregates.Alert{
		ID:        alert.ID,
		Service:   alert.Service,
		Severity:  aggregates.Severity(alert.Severity),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt.UTC(),
	}
}

func (c *Database) CreateAlert(ctx context.Context, alert aggregates.Alert) error {
	data := dbAlert{
		ID:        alert.ID,
		Service:   alert.Service,
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	}
	result, err := c.db.NamedExecContext(ctx, "INSERT INTO alert (id, service, severity, message, created_at) VALUES (:id, :service, :severity, :message, :created_at)", data)
	if err != nil {
		return fmt.Errorf("fail to create alert for service %s: %w", alert.Service, err)
	}
	return checkResult(result, 1)
}

// ListAlerts returns archived alerts, most recent first. A zero limit
// returns everything.
func (c *Database) ListAlerts(ctx context.Context, limit uint) ([]*aggregates.Alert, error) {
	alerts := []dbAlert{}
	var err error
	if limit > 0 {
		err = c.db.SelectContext(ctx, &alerts, "SELECT id, service, severity, message, created_at FROM alert ORDER BY created_at DESC LIMIT $1", limit)
	} else {
		err = c.db.SelectContext(ctx, &alerts, "SELECT id, service, severity, message, created_at FROM alert ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("fail to list alerts: %w", err)
	}
	result := []*aggregates.Alert{}
	for i := range alerts {
		alert := alerts[i]
		result = append(result, toAlert(&alert))
	}
	return result, nil
}

func (c *Database) CountAlerts(ctx context.Context) (int, error) {
	count := 0
	err := c.db.GetContext(ctx, &count, "SELECT count(*) FROM alert")
	if err != nil {
		return 0, fmt.Errorf("fail to count alerts: %w", err)
	}
	return count, nil
}

// CleanAlerts deletes archived alerts older than the threshold.
func (c *Database) CleanAlerts(ctx context.Context, threshold time.Time) (int64, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM alert WHERE created_at < $1", threshold)
	if err != nil {
		return 0, fmt.Errorf("fail to clean alerts: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("fail to check affected row: %w", err)
	}
	return affected, nil
}
