package store

import (
	"context"
	"time"
)

type BattleRecord struct {
	ID         string     `json:"battle_id"`
	ArenaID    string     `json:"arena_id"`
	CombatantA string     `json:"combatant_a"`
	CombatantB string     `json:"combatant_b"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Rounds     int        `json:"rounds"`
	DamageA    int64      `json:"damage_a"`
	DamageB    int64      `json:"damage_b"`
	Winner     *string    `json:"winner,omitempty"`
	Pot        int64      `json:"pot"`
}

type RoundRecord struct {
	BattleID   string    `json:"battle_id"`
	RoundIndex int       `json:"round_index"`
	ActionA    string    `json:"action_a"`
	ActionB    string    `json:"action_b"`
	DamageA    int64     `json:"damage_a"`
	DamageB    int64     `json:"damage_b"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Store) CreateBattle(ctx context.Context, arenaID, combatantA, combatantB string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO battles (id, arena_id, combatant_a, combatant_b) VALUES ($1, $2, $3, $4)`,
		id, arenaID, combatantA, combatantB)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) InsertRound(ctx context.Context, battleID string, roundIndex int, actionA, actionB string, damageA, damageB int64) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO battle_rounds (battle_id, round_index, action_a, action_b, damage_a, damage_b)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (battle_id, round_index) DO NOTHING`,
		battleID, roundIndex, actionA, actionB, damageA, damageB)
	return err
}

func (s *Store) FinishBattle(ctx context.Context, battleID string, rounds int, damageA, damageB int64, winner *string, pot int64) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE battles SET ended_at = now(), rounds = $2, damage_a = $3, damage_b = $4, winner = $5, pot = $6 WHERE id = $1`,
		battleID, rounds, damageA, damageB, winner, pot)
	return err
}

func (s *Store) ListHistory(ctx context.Context, arenaID string, limit, offset int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, arena_id, combatant_a, combatant_b, started_at, ended_at, rounds, damage_a, damage_b, winner, pot
		 FROM battles
		 WHERE ($1 = '' OR arena_id = $1)
		 ORDER BY started_at DESC
		 LIMIT $2 OFFSET $3`,
		arenaID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BattleRecord{}
	for rows.Next() {
		var r BattleRecord
		if err := rows.Scan(&r.ID, &r.ArenaID, &r.CombatantA, &r.CombatantB, &r.StartedAt, &r.EndedAt, &r.Rounds, &r.DamageA, &r.DamageB, &r.Winner, &r.Pot); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListRounds(ctx context.Context, battleID string) ([]RoundRecord, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT battle_id, round_index, action_a, action_b, damage_a, damage_b, created_at
		 FROM battle_rounds
		 WHERE battle_id = $1
		 ORDER BY round_index`,
		battleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RoundRecord{}
	for rows.Next() {
		var r RoundRecord
		if err := rows.Scan(&r.BattleID, &r.RoundIndex, &r.ActionA, &r.ActionB, &r.DamageA, &r.DamageB, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
