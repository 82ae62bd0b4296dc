package store

import (
	"context"
	"database/sql"
)

// Postgres guarda os slots numa tabela única, um registro por slot, com
// upsert pelo nome.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria a tabela de slots se ainda não existir.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bankroll_slots (
			slot       TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (s *Postgres) Load(ctx context.Context, slot string) ([]byte, error) {
	var b []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM bankroll_slots WHERE slot=$1`, slot).Scan(&b)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Postgres) Save(ctx context.Context, slot string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bankroll_slots (slot, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		slot, payload,
	)
	return err
}
