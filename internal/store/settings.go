package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepo is a small key/value table for bridge state that outlives
// the process, currently the active organization and project ids.
type SettingsRepo struct{ pool *pgxpool.Pool }

const (
	KeyActiveOrganizationID = "active_organization_id"
	KeyActiveProjectID      = "active_project_id"
)

// Get returns "" for unset keys.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.pool.QueryRow(ctx, `
SELECT value FROM bridge_settings WHERE key=$1
`, key).Scan(&v)
	if err != nil {
		return "", nil
	}
	return v, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO bridge_settings(key, value)
VALUES($1,$2)
ON CONFLICT(key) DO UPDATE SET value=EXCLUDED.value
`, key, value)
	return err
}
