package automation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chain-arena/internal/arena"
	"chain-arena/internal/chain"
	"chain-arena/internal/proposal"
)

// runtime is one arena's automation loop: idle → betting-wait →
// battle-loop → finished. All round execution for the arena happens on
// this goroutine, so at most one proposal/attestation/submission cycle is
// ever in flight.
type runtime struct {
	arenaID string
	ctx     context.Context
	cancel  context.CancelFunc
	events  *EventBuffer

	mu            sync.Mutex
	degraded      bool
	degradedCause string
}

func (rt *runtime) degrade(cause string, err error) {
	rt.mu.Lock()
	rt.degraded = true
	rt.degradedCause = cause
	rt.mu.Unlock()
	rt.events.Append("automation_degraded", rt.arenaID, map[string]any{"cause": cause})
	log.Error().Err(err).Str("arena_id", rt.arenaID).Str("cause", cause).Msg("automation degraded, halting loop")
}

func (c *Controller) run(rt *runtime) {
	if !c.bettingWait(rt) {
		return
	}
	if !c.startBattle(rt) {
		return
	}
	c.battleLoop(rt)
}

// bettingWait polls the timing oracle (via ledger reads) until the betting
// window has elapsed.
func (c *Controller) bettingWait(rt *runtime) bool {
	for {
		st, err := c.ledger.State(rt.ctx, rt.arenaID)
		if err != nil {
			rt.degrade("ledger_unreachable", err)
			return false
		}
		switch st.Phase {
		case arena.PhaseBattle:
			return true
		case arena.PhaseFinished:
			rt.events.Append("battle_finished", rt.arenaID, nil)
			return false
		}
		wait := c.cfg.PollInterval
		if rem := arena.BettingRemaining(st.InitializedAt, st.BettingWindow, c.cfg.Now()); rem > 0 && rem < wait {
			wait = rem
		}
		if !sleepCtx(rt.ctx, wait) {
			return false
		}
	}
}

// startBattle issues the explicit start action. The ledger re-checks the
// betting window on its side, so a race against the boundary just means
// another short wait.
func (c *Controller) startBattle(rt *runtime) bool {
	for {
		err := c.ledger.StartBattle(rt.ctx, rt.arenaID)
		switch {
		case err == nil:
			rt.events.Append("battle_started", rt.arenaID, nil)
			return true
		case errors.Is(err, arena.ErrBettingStillOpen):
			if !sleepCtx(rt.ctx, c.cfg.PollInterval) {
				return false
			}
		case errors.Is(err, arena.ErrPhase):
			// Already started, e.g. after a controller restart.
			return true
		default:
			rt.degrade("ledger_unreachable", err)
			return false
		}
	}
}

func (c *Controller) battleLoop(rt *runtime) {
	proposalFailures := 0
	for {
		select {
		case <-rt.ctx.Done():
			return
		default:
		}

		st, err := c.ledger.State(rt.ctx, rt.arenaID)
		if err != nil {
			rt.degrade("ledger_unreachable", err)
			return
		}
		if st.Phase == arena.PhaseFinished {
			c.finish(rt, st)
			return
		}
		now := c.cfg.Now()
		if !arena.RoundEligible(st.LastRoundEndedAt, st.RoundInterval, now) {
			wait := c.cfg.PollInterval
			if rem := arena.RoundRemaining(st.LastRoundEndedAt, st.RoundInterval, now); rem > 0 && rem < wait {
				wait = rem
			}
			if !sleepCtx(rt.ctx, wait) {
				return
			}
			continue
		}

		actionA, actionB, err := c.proposer.Propose(rt.ctx, buildRequest(st))
		if err != nil {
			proposalFailures++
			rt.events.Append("proposal_rejected", rt.arenaID, map[string]any{
				"round": st.RoundIndex,
				"error": err.Error(),
			})
			if !errors.Is(err, arena.ErrInvalidProposal) && proposalFailures >= c.cfg.ProposalFailureLimit {
				rt.degrade("decision_service_unreachable", err)
				return
			}
			if errors.Is(err, arena.ErrInvalidProposal) && proposalFailures >= c.cfg.ProposalFailureLimit {
				rt.degrade("invalid_proposals", err)
				return
			}
			if !sleepCtx(rt.ctx, c.cfg.PollInterval) {
				return
			}
			continue
		}
		proposalFailures = 0

		att, err := c.signer.Sign(actionA, actionB)
		if err != nil {
			rt.degrade("signer_unavailable", err)
			return
		}

		// Once signed, the round is seen through to confirmation or
		// rejection; cleanup cannot abandon a signed payload mid-flight.
		submitCtx, cancel := context.WithTimeout(context.WithoutCancel(rt.ctx), c.cfg.SubmitTimeout)
		receipt, err := c.submitter.Submit(submitCtx, rt.arenaID, st.RoundIndex, actionA, actionB, att)
		cancel()
		if err != nil {
			switch {
			case errors.Is(err, arena.ErrAttestationMismatch):
				rt.degrade("attestation_mismatch", err)
				return
			case errors.Is(err, arena.ErrRoundNotReady), errors.Is(err, arena.ErrPhase):
				// Re-read and re-derive; the ledger's view wins.
				continue
			default:
				rt.degrade("submission_failed", err)
				return
			}
		}

		rt.events.Append("round_confirmed", rt.arenaID, map[string]any{
			"round":    receipt.RoundIndex,
			"action_a": receipt.ActionA.String(),
			"action_b": receipt.ActionB.String(),
			"damage_a": receipt.DamageA,
			"damage_b": receipt.DamageB,
		})
		if c.recorder != nil && !receipt.Duplicate {
			c.recorder.RecordRound(context.WithoutCancel(rt.ctx), rt.arenaID, receipt)
		}

		if receipt.Finished {
			if st, err := c.ledger.State(rt.ctx, rt.arenaID); err == nil {
				c.finish(rt, st)
			}
			return
		}
	}
}

func (c *Controller) finish(rt *runtime, st chain.ArenaState) {
	data := map[string]any{
		"rounds":   st.RoundIndex,
		"damage_a": st.DamageA,
		"damage_b": st.DamageB,
	}
	if st.Winner != nil {
		data["winner"] = st.Winner.String()
	}
	rt.events.Append("battle_finished", rt.arenaID, data)
	log.Info().Str("arena_id", rt.arenaID).Interface("result", data).Msg("battle finished")
	if c.recorder != nil {
		c.recorder.RecordResult(context.WithoutCancel(rt.ctx), rt.arenaID, st)
	}
}

func buildRequest(st chain.ArenaState) proposal.Request {
	req := proposal.Request{RoundIndex: st.RoundIndex}
	if st.CombatantA != nil {
		req.CombatantA = proposal.CombatantSummary{
			Traits:           st.CombatantA.Traits,
			Personality:      st.CombatantA.Personality,
			Knowledge:        st.CombatantA.Knowledge,
			CumulativeDamage: st.DamageA,
		}
	}
	if st.CombatantB != nil {
		req.CombatantB = proposal.CombatantSummary{
			Traits:           st.CombatantB.Traits,
			Personality:      st.CombatantB.Personality,
			Knowledge:        st.CombatantB.Knowledge,
			CumulativeDamage: st.DamageB,
		}
	}
	return req
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		d = time.Millisecond
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
