package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"chain-arena/internal/chain"
)

// Recorder adapts the Store to the automation controller's history hook.
// Everything is best-effort: a failed insert is logged and forgotten, the
// protocol never waits on the archive.
type Recorder struct {
	st *Store

	mu   sync.Mutex
	open map[string]string // arena id -> in-progress battle id
}

func NewRecorder(st *Store) *Recorder {
	return &Recorder{st: st, open: map[string]string{}}
}

func (r *Recorder) RecordStart(ctx context.Context, arenaID, combatantA, combatantB string) {
	id, err := r.st.CreateBattle(ctx, arenaID, combatantA, combatantB)
	if err != nil {
		log.Warn().Err(err).Str("arena_id", arenaID).Msg("record battle start failed")
		return
	}
	r.mu.Lock()
	r.open[arenaID] = id
	r.mu.Unlock()
}

func (r *Recorder) RecordRound(ctx context.Context, arenaID string, receipt chain.RoundReceipt) {
	r.mu.Lock()
	id := r.open[arenaID]
	r.mu.Unlock()
	if id == "" {
		return
	}
	err := r.st.InsertRound(ctx, id, receipt.RoundIndex, receipt.ActionA.String(), receipt.ActionB.String(), receipt.DamageA, receipt.DamageB)
	if err != nil {
		log.Warn().Err(err).Str("arena_id", arenaID).Int("round", receipt.RoundIndex).Msg("record round failed")
	}
}

func (r *Recorder) RecordResult(ctx context.Context, arenaID string, st chain.ArenaState) {
	r.mu.Lock()
	id := r.open[arenaID]
	delete(r.open, arenaID)
	r.mu.Unlock()
	if id == "" {
		return
	}
	var winner *string
	if st.Winner != nil {
		w := st.Winner.String()
		winner = &w
	}
	if err := r.st.FinishBattle(ctx, id, st.RoundIndex, st.DamageA, st.DamageB, winner, 0); err != nil {
		log.Warn().Err(err).Str("arena_id", arenaID).Msg("record battle result failed")
	}
}
