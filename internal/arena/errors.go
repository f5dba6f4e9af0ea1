package arena

import "errors"

// Shared error taxonomy for the battle protocol. Transport maps these to
// HTTP codes; the automation loop decides retry policy from them.
var (
	// ErrPhase: action attempted in the wrong lifecycle state. Recoverable;
	// the caller should re-check status and try again later.
	ErrPhase = errors.New("phase_error")

	// ErrInvalidAmount: wager is not a positive multiple of the base unit.
	ErrInvalidAmount = errors.New("invalid_amount")

	// ErrInvalidProposal: decision service returned something outside the
	// legal action set or in an unrecognized shape. The round attempt fails;
	// no substitute action is ever chosen.
	ErrInvalidProposal = errors.New("invalid_proposal")

	// ErrAttestationMismatch: the ledger refused the signature. Fatal for
	// this round; resubmitting the same payload is pointless.
	ErrAttestationMismatch = errors.New("attestation_mismatch")

	// ErrSubmissionTimeout: transient transport failure. Resending the
	// identical payload is safe.
	ErrSubmissionTimeout = errors.New("submission_timeout")

	// ErrConflict: a second initialize for an arena that already has a
	// running automation. The first caller keeps running.
	ErrConflict = errors.New("conflict")

	ErrAlreadyInitialized = errors.New("already_initialized")
	ErrBettingStillOpen   = errors.New("betting_still_open")
	ErrRoundNotReady      = errors.New("round_not_ready")
	ErrNotFound           = errors.New("not_found")
)
