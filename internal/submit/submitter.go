package submit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"chain-arena/internal/arena"
	"chain-arena/internal/attest"
	"chain-arena/internal/chain"
)

// Submitter pushes a signed round to the ledger and waits for confirmation.
// Ledger rejections are surfaced as-is; the payload is never altered and
// re-sent. Only transient failures are retried, and always with the
// identical payload, which is safe because the encoding is deterministic
// and the ledger treats an already-confirmed resend as a no-op.
type Submitter struct {
	ledger     chain.Ledger
	maxRetries int
	backoff    time.Duration
}

func New(ledger chain.Ledger) *Submitter {
	return &Submitter{ledger: ledger, maxRetries: 3, backoff: 2 * time.Second}
}

// NewWithPolicy overrides the retry count and backoff, mainly for tests.
func NewWithPolicy(ledger chain.Ledger, maxRetries int, backoff time.Duration) *Submitter {
	return &Submitter{ledger: ledger, maxRetries: maxRetries, backoff: backoff}
}

// Submit sends the action pair plus attestation for one round.
func (s *Submitter) Submit(ctx context.Context, arenaID string, roundIndex int, actionA, actionB arena.Action, att attest.Attestation) (chain.RoundReceipt, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().Str("arena_id", arenaID).Int("round", roundIndex).Int("attempt", attempt).Err(lastErr).Msg("retrying round submission")
			select {
			case <-ctx.Done():
				return chain.RoundReceipt{}, ctx.Err()
			case <-time.After(s.backoff):
			}
		}
		receipt, err := s.ledger.SubmitRound(ctx, arenaID, roundIndex, actionA, actionB, att.Signature)
		if err == nil {
			return receipt, nil
		}
		if !transient(err) {
			return chain.RoundReceipt{}, err
		}
		lastErr = err
	}
	return chain.RoundReceipt{}, errors.Join(arena.ErrSubmissionTimeout, lastErr)
}

// transient reports whether resending the identical payload can help.
// Signature mismatches and phase errors never qualify.
func transient(err error) bool {
	switch {
	case errors.Is(err, arena.ErrAttestationMismatch),
		errors.Is(err, arena.ErrPhase),
		errors.Is(err, arena.ErrRoundNotReady),
		errors.Is(err, arena.ErrNotFound):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
