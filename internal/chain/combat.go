package chain

import "chain-arena/internal/arena"

// resolveRound applies one exchange of actions and returns the damage dealt
// to each side. The function is deterministic: the ledger and any replayer
// arrive at the same totals from the same inputs.
func resolveRound(ta, tb arena.Traits, actionA, actionB arena.Action) (dmgToA, dmgToB int64) {
	dmgToB = outgoing(ta, actionA, actionB)
	dmgToA = outgoing(tb, actionB, actionA)

	// Recover heals the acting side instead of dealing damage.
	if actionA == arena.ActionRecover {
		dmgToA -= recoverAmount(ta)
	}
	if actionB == arena.ActionRecover {
		dmgToB -= recoverAmount(tb)
	}
	return dmgToA, dmgToB
}

// outgoing computes the damage an attacker's action deals through the
// defender's action.
func outgoing(attacker arena.Traits, act, defense arena.Action) int64 {
	var base int64
	switch act {
	case arena.ActionStrike:
		base = 10 + int64(attacker.Power)/10
	case arena.ActionSpecial:
		base = 16 + int64(attacker.Power)/8
	case arena.ActionTaunt:
		base = 2
	default:
		return 0
	}

	switch defense {
	case arena.ActionDodge:
		if act == arena.ActionSpecial {
			return 0
		}
		return base / 2
	default:
		return base
	}
}

func recoverAmount(t arena.Traits) int64 {
	return 6 + int64(t.Resilience)/10
}
