package chain

import (
	"testing"

	"chain-arena/internal/arena"
)

var (
	bruiser = arena.Traits{Power: 80, Speed: 20, Defense: 90, Accuracy: 60, Resilience: 85}
	evader  = arena.Traits{Power: 50, Speed: 95, Defense: 30, Accuracy: 85, Resilience: 40}
)

func TestResolveRoundIsDeterministic(t *testing.T) {
	a1, b1 := resolveRound(bruiser, evader, arena.ActionStrike, arena.ActionDodge)
	a2, b2 := resolveRound(bruiser, evader, arena.ActionStrike, arena.ActionDodge)
	if a1 != a2 || b1 != b2 {
		t.Fatalf("same inputs gave different outcomes: (%d,%d) vs (%d,%d)", a1, b1, a2, b2)
	}
}

func TestStrikeDamage(t *testing.T) {
	dmgToA, dmgToB := resolveRound(bruiser, evader, arena.ActionStrike, arena.ActionTaunt)
	if dmgToB != 10+80/10 {
		t.Fatalf("strike from power 80 dealt %d, want 18", dmgToB)
	}
	if dmgToA != 2 {
		t.Fatalf("taunt dealt %d, want 2", dmgToA)
	}
}

func TestDodgeHalvesStrike(t *testing.T) {
	_, dmgToB := resolveRound(bruiser, evader, arena.ActionStrike, arena.ActionDodge)
	if dmgToB != (10+80/10)/2 {
		t.Fatalf("dodged strike dealt %d, want 9", dmgToB)
	}
}

func TestDodgeNegatesSpecial(t *testing.T) {
	_, dmgToB := resolveRound(bruiser, evader, arena.ActionSpecial, arena.ActionDodge)
	if dmgToB != 0 {
		t.Fatalf("dodged special dealt %d, want 0", dmgToB)
	}
	_, undodged := resolveRound(bruiser, evader, arena.ActionSpecial, arena.ActionTaunt)
	if undodged != 16+80/8 {
		t.Fatalf("special from power 80 dealt %d, want 26", undodged)
	}
}

func TestRecoverHealsActor(t *testing.T) {
	dmgToA, dmgToB := resolveRound(bruiser, evader, arena.ActionRecover, arena.ActionStrike)
	if dmgToB != 0 {
		t.Fatalf("recover dealt %d damage, want 0", dmgToB)
	}
	// Strike from power 50 deals 15; recovery of 6 + 85/10 = 14 offsets it.
	if dmgToA != 15-14 {
		t.Fatalf("net damage to recovering side = %d, want 1", dmgToA)
	}
}

func TestMutualDodgeIsBloodless(t *testing.T) {
	dmgToA, dmgToB := resolveRound(bruiser, evader, arena.ActionDodge, arena.ActionDodge)
	if dmgToA != 0 || dmgToB != 0 {
		t.Fatalf("mutual dodge dealt (%d, %d), want (0, 0)", dmgToA, dmgToB)
	}
}
