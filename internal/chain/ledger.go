package chain

import (
	"context"
	"time"

	"chain-arena/internal/arena"
	"chain-arena/internal/wager"
)

// ArenaState is a point-in-time snapshot of one arena as the ledger sees
// it. Phase is a single authoritative value; observers never have to stitch
// it together from independently-read flags.
type ArenaState struct {
	ArenaID          string
	Phase            arena.Phase
	CombatantA       *arena.Combatant
	CombatantB       *arena.Combatant
	BaseUnit         int64
	RoundIndex       int
	MaxRounds        int
	DamageA          int64
	DamageB          int64
	DamageThreshold  int64
	InitializedAt    time.Time
	BettingWindow    time.Duration
	RoundInterval    time.Duration
	BattleStarted    bool
	LastRoundEndedAt time.Time
	Winner           *arena.Side
}

// RoundReceipt confirms one accepted round submission.
type RoundReceipt struct {
	RoundIndex int
	ActionA    arena.Action
	ActionB    arena.Action
	DamageA    int64
	DamageB    int64
	Finished   bool
	Duplicate  bool
}

// Payout is one backer's share of a settled pot.
type Payout struct {
	Backer string `json:"backer"`
	Amount int64  `json:"amount"`
}

// Ledger is the authoritative collaborator. All writes block until the
// ledger confirms the state change; all reads are point-in-time snapshots.
type Ledger interface {
	Initialize(ctx context.Context, arenaID string, a, b arena.Combatant) error
	StartBattle(ctx context.Context, arenaID string) error
	// SubmitRound accepts one round iff the attestation verifies and
	// roundIndex equals the ledger's current expected round. The round
	// index disambiguates a legitimate new round from a resend, since the
	// deterministic signature over an identical action pair is byte-equal
	// across rounds.
	SubmitRound(ctx context.Context, arenaID string, roundIndex int, actionA, actionB arena.Action, sig []byte) (RoundReceipt, error)

	PlaceWager(ctx context.Context, arenaID string, side arena.Side, backer string, amount int64) error
	Backers(ctx context.Context, arenaID string, side arena.Side) ([]wager.Wager, error)
	Pots(ctx context.Context, arenaID string) (potA, potB int64, err error)

	State(ctx context.Context, arenaID string) (ArenaState, error)

	// Reset empties a finished arena so it can be reused. Reuse never
	// happens implicitly.
	Reset(ctx context.Context, arenaID string) error
}
