package database

import (
	"context"
	"fmt"
	"time"
)

type dbService struct {
	Name      string
	CreatedAt time.Time `db:"created_at"`
}

// CreateService persists a service registration. Re-registering an
// existing name is a no-op.
func (c *Database) CreateService(ctx context.Context, name string) error {
	data := dbService{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := c.db.NamedExecContext(ctx, "INSERT INTO service (name, created_at) VALUES (:name, :created_at) ON CONFLICT (name) DO NOTHING", data)
	if err != nil {
		return fmt.Errorf("fail to create service %s: %w", name, err)
	}
	return nil
}

// ListServices returns the persisted service names, sorted. Used at boot
// to rebuild the in-memory registrations.
func (c *Database) ListServices(ctx context.Context) ([]string, error) {
	services := []dbService{}
	err := c.db.SelectContext(ctx, &services, "SELECT name, created_at FROM service ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("fail to list services: %w", err)
	}
	result := []string{}
	for i := range services {
		result = append(result, services[i].Name)
	}
	return result, nil
}

// DeleteService removes a service from the persisted registry.
func (c *Database) DeleteService(ctx context.Context, name string) error {
	result, err := c.db.ExecContext(ctx, "DELETE FROM service WHERE name=$1", name)
	if err != nil {
		return fmt.Errorf("fail to delete service %s: %w", name, err)
	}
	return checkResult(result, 1)
}

func (c *Database) CountServices(ctx context.Context) (int, error) {
	count := 0
	err := c.db.GetContext(ctx, &count, "SELECT count(*) FROM service")
	if err != nil {
		return 0, fmt.Errorf("fail to count services: %w", err)
	}
	return count, nil
}
