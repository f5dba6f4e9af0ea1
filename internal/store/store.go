package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps DB access for battle history. The protocol itself never
// depends on it; everything here is display/archival.
type Store struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// EnsureSchema creates the history tables when they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS battles (
    id          TEXT PRIMARY KEY,
    arena_id    TEXT NOT NULL,
    combatant_a TEXT NOT NULL,
    combatant_b TEXT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    ended_at    TIMESTAMPTZ,
    rounds      INT NOT NULL DEFAULT 0,
    damage_a    BIGINT NOT NULL DEFAULT 0,
    damage_b    BIGINT NOT NULL DEFAULT 0,
    winner      TEXT,
    pot         BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS battle_rounds (
    battle_id   TEXT NOT NULL REFERENCES battles(id),
    round_index INT NOT NULL,
    action_a    TEXT NOT NULL,
    action_b    TEXT NOT NULL,
    damage_a    BIGINT NOT NULL,
    damage_b    BIGINT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (battle_id, round_index)
);
CREATE INDEX IF NOT EXISTS battles_arena_idx ON battles(arena_id, started_at DESC);
`)
	return err
}
