package chain

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"chain-arena/internal/arena"
	"chain-arena/internal/attest"
	"chain-arena/internal/wager"
)

// SimConfig fixes the per-arena parameters the real chain would carry in
// contract storage.
type SimConfig struct {
	Trusted         common.Address
	BaseUnit        int64
	MaxRounds       int
	DamageThreshold int64
	BettingWindow   time.Duration
	RoundInterval   time.Duration
	Now             func() time.Time
}

// SimLedger is an in-process authoritative ledger. It independently
// re-checks every timing and trust condition a client claims to have
// checked: the betting window before starting, the attestation signature,
// and its own expected-round counter.
type SimLedger struct {
	cfg SimConfig

	mu     sync.Mutex
	arenas map[string]*simArena
}

type simArena struct {
	mu sync.Mutex

	rec      arena.Record
	book     *wager.Book
	started  bool
	finished bool
	winner   *arena.Side
	payouts  []Payout

	lastActionA arena.Action
	lastActionB arena.Action
	lastSig     []byte
}

func NewSimLedger(cfg SimConfig) *SimLedger {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.BaseUnit <= 0 {
		cfg.BaseUnit = 1
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 9
	}
	if cfg.DamageThreshold <= 0 {
		cfg.DamageThreshold = 100
	}
	return &SimLedger{cfg: cfg, arenas: map[string]*simArena{}}
}

func (l *SimLedger) arenaByID(arenaID string, create bool) (*simArena, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sa, ok := l.arenas[arenaID]
	if !ok && create {
		sa = &simArena{
			rec: arena.Record{
				ID:              arenaID,
				BaseUnit:        l.cfg.BaseUnit,
				MaxRounds:       l.cfg.MaxRounds,
				DamageThreshold: l.cfg.DamageThreshold,
				BettingWindow:   l.cfg.BettingWindow,
				RoundInterval:   l.cfg.RoundInterval,
			},
			book: wager.NewBook(l.cfg.BaseUnit),
		}
		l.arenas[arenaID] = sa
		ok = true
	}
	return sa, ok
}

func (l *SimLedger) Initialize(_ context.Context, arenaID string, a, b arena.Combatant) error {
	sa, _ := l.arenaByID(arenaID, true)
	sa.mu.Lock()
	defer sa.mu.Unlock()
	if sa.rec.CombatantA != nil || sa.rec.CombatantB != nil {
		return arena.ErrAlreadyInitialized
	}
	ca, cb := a, b
	sa.rec.CombatantA = &ca
	sa.rec.CombatantB = &cb
	sa.rec.RoundIndex = 0
	sa.rec.DamageA = 0
	sa.rec.DamageB = 0
	sa.rec.InitializedAt = l.cfg.Now()
	log.Info().Str("arena_id", arenaID).
		Str("combatant_a", a.ID).
		Str("combatant_b", b.ID).
		Dur("betting_window", sa.rec.BettingWindow).
		Msg("arena initialized")
	return nil
}

func (l *SimLedger) StartBattle(_ context.Context, arenaID string) error {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return arena.ErrNotFound
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	if sa.rec.CombatantA == nil || sa.finished {
		return arena.ErrPhase
	}
	if sa.started {
		return arena.ErrPhase
	}
	now := l.cfg.Now()
	if arena.BettingOpen(sa.rec.InitializedAt, sa.rec.BettingWindow, now) {
		return arena.ErrBettingStillOpen
	}
	sa.started = true
	sa.rec.LastRoundEndedAt = now
	log.Info().Str("arena_id", arenaID).Int64("pot", sa.book.TotalPot()).Msg("battle started")
	return nil
}

func (l *SimLedger) SubmitRound(_ context.Context, arenaID string, roundIndex int, actionA, actionB arena.Action, sig []byte) (RoundReceipt, error) {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return RoundReceipt{}, arena.ErrNotFound
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	if sa.rec.CombatantA == nil || !sa.started {
		return RoundReceipt{}, arena.ErrPhase
	}

	// Identical resend of the last confirmed round is a no-op; damage is
	// never applied twice. The fast path only exists once a round has been
	// confirmed, so an empty signature can never match the zero-value state.
	if len(sa.lastSig) > 0 && roundIndex == sa.rec.RoundIndex-1 && actionA == sa.lastActionA && actionB == sa.lastActionB && bytes.Equal(sig, sa.lastSig) {
		return RoundReceipt{
			RoundIndex: roundIndex,
			ActionA:    actionA,
			ActionB:    actionB,
			DamageA:    sa.rec.DamageA,
			DamageB:    sa.rec.DamageB,
			Finished:   sa.finished,
			Duplicate:  true,
		}, nil
	}
	if sa.finished {
		return RoundReceipt{}, arena.ErrPhase
	}

	// Any other stale or future round index is rejected outright; this is
	// what makes a leaked attestation useless for replay.
	if roundIndex != sa.rec.RoundIndex {
		return RoundReceipt{}, arena.ErrRoundNotReady
	}
	now := l.cfg.Now()
	if !arena.RoundEligible(sa.rec.LastRoundEndedAt, sa.rec.RoundInterval, now) {
		return RoundReceipt{}, arena.ErrRoundNotReady
	}
	if !actionA.Valid() || !actionB.Valid() || !attest.Verify(l.cfg.Trusted, actionA, actionB, sig) {
		return RoundReceipt{}, arena.ErrAttestationMismatch
	}

	dmgToA, dmgToB := resolveRound(sa.rec.CombatantA.Traits, sa.rec.CombatantB.Traits, actionA, actionB)
	sa.rec.DamageA += dmgToA
	if sa.rec.DamageA < 0 {
		sa.rec.DamageA = 0
	}
	sa.rec.DamageB += dmgToB
	if sa.rec.DamageB < 0 {
		sa.rec.DamageB = 0
	}
	round := sa.rec.RoundIndex
	sa.rec.RoundIndex++
	sa.rec.LastRoundEndedAt = now
	sa.lastActionA = actionA
	sa.lastActionB = actionB
	sa.lastSig = append([]byte(nil), sig...)

	// Termination checks run after the round outcome is applied, never
	// before.
	if sa.rec.DamageA >= sa.rec.DamageThreshold || sa.rec.DamageB >= sa.rec.DamageThreshold || sa.rec.RoundIndex >= sa.rec.MaxRounds {
		sa.finishLocked()
	}

	log.Info().Str("arena_id", arenaID).
		Int("round", round).
		Str("action_a", actionA.String()).
		Str("action_b", actionB.String()).
		Int64("damage_a", sa.rec.DamageA).
		Int64("damage_b", sa.rec.DamageB).
		Bool("finished", sa.finished).
		Msg("round confirmed")

	return RoundReceipt{
		RoundIndex: round,
		ActionA:    actionA,
		ActionB:    actionB,
		DamageA:    sa.rec.DamageA,
		DamageB:    sa.rec.DamageB,
		Finished:   sa.finished,
	}, nil
}

// finishLocked resolves the winner and settles the pooled pot to the
// winning side's backers pro rata. A draw returns each side its own pot.
func (sa *simArena) finishLocked() {
	sa.finished = true
	var winner *arena.Side
	switch {
	case sa.rec.DamageA >= sa.rec.DamageThreshold && sa.rec.DamageB < sa.rec.DamageThreshold:
		w := arena.SideB
		winner = &w
	case sa.rec.DamageB >= sa.rec.DamageThreshold && sa.rec.DamageA < sa.rec.DamageThreshold:
		w := arena.SideA
		winner = &w
	case sa.rec.DamageA < sa.rec.DamageB:
		w := arena.SideA
		winner = &w
	case sa.rec.DamageB < sa.rec.DamageA:
		w := arena.SideB
		winner = &w
	}
	sa.winner = winner

	if winner == nil {
		for _, s := range []arena.Side{arena.SideA, arena.SideB} {
			for _, w := range sa.book.Backers(s) {
				sa.payouts = append(sa.payouts, Payout{Backer: w.Backer, Amount: w.Amount})
			}
		}
		return
	}
	total := sa.book.TotalPot()
	winningPot := sa.book.Pot(*winner)
	if winningPot == 0 {
		return
	}
	for _, w := range sa.book.Backers(*winner) {
		sa.payouts = append(sa.payouts, Payout{Backer: w.Backer, Amount: total * w.Amount / winningPot})
	}
}

func (l *SimLedger) PlaceWager(_ context.Context, arenaID string, side arena.Side, backer string, amount int64) error {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return arena.ErrNotFound
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	if sa.rec.CombatantA == nil || sa.finished || sa.started {
		return arena.ErrPhase
	}
	if !arena.BettingOpen(sa.rec.InitializedAt, sa.rec.BettingWindow, l.cfg.Now()) {
		return arena.ErrPhase
	}
	return sa.book.Place(side, backer, amount)
}

func (l *SimLedger) Backers(_ context.Context, arenaID string, side arena.Side) ([]wager.Wager, error) {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return nil, arena.ErrNotFound
	}
	return sa.book.Backers(side), nil
}

func (l *SimLedger) Pots(_ context.Context, arenaID string) (int64, int64, error) {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return 0, 0, arena.ErrNotFound
	}
	return sa.book.Pot(arena.SideA), sa.book.Pot(arena.SideB), nil
}

// Payouts returns the settlement for a finished arena.
func (l *SimLedger) Payouts(arenaID string) []Payout {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return nil
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	out := make([]Payout, len(sa.payouts))
	copy(out, sa.payouts)
	return out
}

func (l *SimLedger) State(_ context.Context, arenaID string) (ArenaState, error) {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return ArenaState{}, arena.ErrNotFound
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	st := ArenaState{
		ArenaID:          arenaID,
		Phase:            sa.phaseLocked(l.cfg.Now()),
		CombatantA:       sa.rec.CombatantA,
		CombatantB:       sa.rec.CombatantB,
		BaseUnit:         sa.rec.BaseUnit,
		RoundIndex:       sa.rec.RoundIndex,
		MaxRounds:        sa.rec.MaxRounds,
		DamageA:          sa.rec.DamageA,
		DamageB:          sa.rec.DamageB,
		DamageThreshold:  sa.rec.DamageThreshold,
		InitializedAt:    sa.rec.InitializedAt,
		BettingWindow:    sa.rec.BettingWindow,
		RoundInterval:    sa.rec.RoundInterval,
		BattleStarted:    sa.started,
		LastRoundEndedAt: sa.rec.LastRoundEndedAt,
	}
	if sa.winner != nil {
		w := *sa.winner
		st.Winner = &w
	}
	return st, nil
}

func (sa *simArena) phaseLocked(now time.Time) arena.Phase {
	switch {
	case sa.rec.CombatantA == nil:
		return arena.PhaseEmpty
	case sa.finished:
		return arena.PhaseFinished
	case arena.BettingOpen(sa.rec.InitializedAt, sa.rec.BettingWindow, now):
		return arena.PhaseBetting
	default:
		return arena.PhaseBattle
	}
}

func (l *SimLedger) Reset(_ context.Context, arenaID string) error {
	sa, ok := l.arenaByID(arenaID, false)
	if !ok {
		return arena.ErrNotFound
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	if !sa.finished {
		return arena.ErrPhase
	}
	sa.rec.CombatantA = nil
	sa.rec.CombatantB = nil
	sa.rec.RoundIndex = 0
	sa.rec.DamageA = 0
	sa.rec.DamageB = 0
	sa.rec.InitializedAt = time.Time{}
	sa.rec.LastRoundEndedAt = time.Time{}
	sa.started = false
	sa.finished = false
	sa.winner = nil
	sa.payouts = nil
	sa.lastSig = nil
	sa.book = wager.NewBook(sa.rec.BaseUnit)
	return nil
}
