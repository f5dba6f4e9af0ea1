package automation

import (
	"time"

	"chain-arena/internal/arena"
	"chain-arena/internal/chain"
)

// AutomationState is the client-visible mirror of one arena's automation.
// It is derived from a fresh ledger read on every request and is never the
// source of truth.
type AutomationState struct {
	ArenaID       string      `json:"arena_id"`
	Phase         arena.Phase `json:"phase"`
	RoundIndex    int         `json:"round_index"`
	TotalRounds   int         `json:"total_rounds"`
	TimeRemaining float64     `json:"time_remaining_seconds"`
	TotalTime     float64     `json:"total_time_seconds"`
	DamageA       int64       `json:"damage_a"`
	DamageB       int64       `json:"damage_b"`
	PotA          int64       `json:"pot_a"`
	PotB          int64       `json:"pot_b"`
	Winner        *string     `json:"winner,omitempty"`
	Degraded      bool        `json:"degraded,omitempty"`
	DegradedCause string      `json:"degraded_cause,omitempty"`
}

// deriveState recomputes the display state from a ledger snapshot and the
// timing oracle. During betting the countdown tracks the betting window;
// during battle it tracks the next round interval.
func deriveState(st chain.ArenaState, potA, potB int64, now time.Time) AutomationState {
	out := AutomationState{
		ArenaID:     st.ArenaID,
		Phase:       st.Phase,
		RoundIndex:  st.RoundIndex,
		TotalRounds: st.MaxRounds,
		DamageA:     st.DamageA,
		DamageB:     st.DamageB,
		PotA:        potA,
		PotB:        potB,
	}
	switch st.Phase {
	case arena.PhaseBetting:
		out.TotalTime = st.BettingWindow.Seconds()
		out.TimeRemaining = arena.BettingRemaining(st.InitializedAt, st.BettingWindow, now).Seconds()
	case arena.PhaseBattle:
		if st.BattleStarted {
			out.TotalTime = st.RoundInterval.Seconds()
			out.TimeRemaining = arena.RoundRemaining(st.LastRoundEndedAt, st.RoundInterval, now).Seconds()
		}
	}
	if st.Winner != nil {
		w := st.Winner.String()
		out.Winner = &w
	}
	return out
}
