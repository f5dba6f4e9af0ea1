package arena

import (
	"testing"
	"time"
)

func TestBettingWindowBoundary(t *testing.T) {
	init := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 60 * time.Second

	if !BettingOpen(init, window, init.Add(59*time.Second)) {
		t.Fatalf("betting should still be open at +59s")
	}
	if BattleEligible(init, window, init.Add(59*time.Second)) {
		t.Fatalf("battle must not be eligible at +59s")
	}
	if BettingOpen(init, window, init.Add(60*time.Second)) {
		t.Fatalf("betting must be closed at exactly +60s")
	}
	if !BattleEligible(init, window, init.Add(60*time.Second)) {
		t.Fatalf("battle must be eligible at exactly +60s")
	}
}

func TestZeroBettingWindowSkipsBetting(t *testing.T) {
	init := time.Now()
	if BettingOpen(init, 0, init) {
		t.Fatalf("zero window must mean betting never opens")
	}
	if !BattleEligible(init, 0, init) {
		t.Fatalf("zero window must make the battle immediately eligible")
	}
	if got := BettingRemaining(init, 0, init); got != 0 {
		t.Fatalf("remaining = %v, want 0", got)
	}
}

func TestRoundEligibility(t *testing.T) {
	last := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	interval := 30 * time.Second

	if RoundEligible(last, interval, last.Add(29*time.Second)) {
		t.Fatalf("round must not be eligible before the interval elapses")
	}
	if !RoundEligible(last, interval, last.Add(30*time.Second)) {
		t.Fatalf("round must be eligible at exactly the interval boundary")
	}
	if !RoundEligible(last, 0, last) {
		t.Fatalf("zero interval must always be eligible")
	}
}

func TestRemainingClampsAtZero(t *testing.T) {
	init := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := BettingRemaining(init, time.Minute, init.Add(2*time.Minute)); got != 0 {
		t.Fatalf("betting remaining = %v, want 0", got)
	}
	if got := BettingRemaining(init, time.Minute, init.Add(45*time.Second)); got != 15*time.Second {
		t.Fatalf("betting remaining = %v, want 15s", got)
	}
	if got := RoundRemaining(init, 30*time.Second, init.Add(10*time.Second)); got != 20*time.Second {
		t.Fatalf("round remaining = %v, want 20s", got)
	}
	if got := RoundRemaining(init, 30*time.Second, init.Add(time.Minute)); got != 0 {
		t.Fatalf("round remaining = %v, want 0", got)
	}
}
