package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoSession = errors.New("no session key stored")

// SessionsRepo holds the single Claude.ai session cookie. The table has
// exactly one row; Set unconditionally overwrites it (last-writer-wins,
// no concurrent-session model).
type SessionsRepo struct{ pool *pgxpool.Pool }

func (r *SessionsRepo) Get(ctx context.Context) (token string, expiresAt time.Time, err error) {
	err = r.pool.QueryRow(ctx, `
SELECT session_key, expires_at
FROM session_credentials
WHERE singleton = true
`).Scan(&token, &expiresAt)
	if err != nil {
		return "", time.Time{}, ErrNoSession
	}
	if token == "" {
		return "", time.Time{}, ErrNoSession
	}
	return token, expiresAt, nil
}

func (r *SessionsRepo) Set(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO session_credentials(singleton, session_key, expires_at, updated_at)
VALUES(true, $1, $2, now())
ON CONFLICT(singleton) DO UPDATE
SET session_key=EXCLUDED.session_key, expires_at=EXCLUDED.expires_at, updated_at=now()
`, token, expiresAt)
	return err
}

// SessionKey satisfies claude.SessionSource.
func (r *SessionsRepo) SessionKey(ctx context.Context) (string, error) {
	token, _, err := r.Get(ctx)
	return token, err
}
