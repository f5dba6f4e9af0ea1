package arena

import "time"

// Phase is the single authoritative lifecycle value. The ledger exposes it
// as one field rather than independent boolean flags so observers never see
// a torn read between "initialized" and "betting closed".
type Phase string

const (
	PhaseEmpty    Phase = "empty"
	PhaseBetting  Phase = "betting"
	PhaseBattle   Phase = "battle_ongoing"
	PhaseFinished Phase = "finished"
)

// The timing oracle: pure functions from recorded timestamps plus configured
// durations to eligibility. Nothing here mutates state, and every comparison
// uses the caller-supplied server clock, never client-reported time.

// BettingOpen reports whether the betting window is still open at now.
// A zero window means betting is skipped entirely.
func BettingOpen(initializedAt time.Time, window time.Duration, now time.Time) bool {
	if window <= 0 {
		return false
	}
	return now.Before(initializedAt.Add(window))
}

// BattleEligible reports whether the explicit start action may be taken.
// The oracle only reports eligibility; the caller still has to invoke the
// start, and the ledger independently re-checks the same boundary.
func BattleEligible(initializedAt time.Time, window time.Duration, now time.Time) bool {
	return !BettingOpen(initializedAt, window, now)
}

// RoundEligible reports whether the next round may be executed. For round
// zero lastRoundEndedAt is the battle start time.
func RoundEligible(lastRoundEndedAt time.Time, interval time.Duration, now time.Time) bool {
	if interval <= 0 {
		return true
	}
	return !now.Before(lastRoundEndedAt.Add(interval))
}

// BettingRemaining returns the time left in the betting window, clamped at
// zero once the window has elapsed.
func BettingRemaining(initializedAt time.Time, window time.Duration, now time.Time) time.Duration {
	if window <= 0 {
		return 0
	}
	rem := initializedAt.Add(window).Sub(now)
	if rem < 0 {
		return 0
	}
	return rem
}

// RoundRemaining returns the time left before the next round becomes
// eligible, clamped at zero.
func RoundRemaining(lastRoundEndedAt time.Time, interval time.Duration, now time.Time) time.Duration {
	if interval <= 0 {
		return 0
	}
	rem := lastRoundEndedAt.Add(interval).Sub(now)
	if rem < 0 {
		return 0
	}
	return rem
}
