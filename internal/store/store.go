package store

import "github.com/jackc/pgx/v5/pgxpool"

type Store struct {
	pool *pgxpool.Pool

	sessions *SessionsRepo
	settings *SettingsRepo
}

func New(pool *pgxpool.Pool) *Store {
	s := &Store{pool: pool}
	s.sessions = &SessionsRepo{pool: pool}
	s.settings = &SettingsRepo{pool: pool}
	return s
}

func (s *Store) Sessions() *SessionsRepo { return s.sessions }
func (s *Store) Settings() *SettingsRepo { return s.settings }
