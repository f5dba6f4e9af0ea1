package proposal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"chain-arena/internal/arena"
)

// The decision service has shipped its reply in a few different shapes over
// time. Each accepted shape gets its own case below; anything else fails
// closed with ErrInvalidProposal. Substituting a default action is never an
// option, because the attestation must cover what was actually chosen.

// shape 1: {"agent_1_move": "dodge", "agent_2_move": "taunt"}
type agentMovesShape struct {
	Agent1Move string `json:"agent_1_move"`
	Agent2Move string `json:"agent_2_move"`
}

// shape 2: {"moves": [{"side": "A", "action": "strike"}, {"side": "B", ...}]}
type sidedMovesShape struct {
	Moves []struct {
		Side   string `json:"side"`
		Action string `json:"action"`
	} `json:"moves"`
}

// shape 3: {"combatant_a": {"move": "strike"}, "combatant_b": {"move": "dodge"}}
type combatantMovesShape struct {
	CombatantA struct {
		Move string `json:"move"`
	} `json:"combatant_a"`
	CombatantB struct {
		Move string `json:"move"`
	} `json:"combatant_b"`
}

// Normalize reduces a raw decision-service reply to the canonical action
// pair. Exactly one action per side must be present and in the legal
// vocabulary.
func Normalize(raw []byte) (arena.Action, arena.Action, error) {
	var moveA, moveB string
	switch {
	case decodeStrict(raw, &agentMovesShape{}) == nil:
		var s agentMovesShape
		_ = json.Unmarshal(raw, &s)
		moveA, moveB = s.Agent1Move, s.Agent2Move
	case decodeStrict(raw, &sidedMovesShape{}) == nil:
		var s sidedMovesShape
		_ = json.Unmarshal(raw, &s)
		if len(s.Moves) != 2 {
			return 0, 0, fmt.Errorf("%w: expected two sided moves, got %d", arena.ErrInvalidProposal, len(s.Moves))
		}
		for _, m := range s.Moves {
			switch strings.ToUpper(m.Side) {
			case "A":
				moveA = m.Action
			case "B":
				moveB = m.Action
			default:
				return 0, 0, fmt.Errorf("%w: unknown side %q", arena.ErrInvalidProposal, m.Side)
			}
		}
	case decodeStrict(raw, &combatantMovesShape{}) == nil:
		var s combatantMovesShape
		_ = json.Unmarshal(raw, &s)
		moveA, moveB = s.CombatantA.Move, s.CombatantB.Move
	default:
		return 0, 0, fmt.Errorf("%w: unrecognized response shape", arena.ErrInvalidProposal)
	}

	if moveA == "" || moveB == "" {
		return 0, 0, fmt.Errorf("%w: missing move for one side", arena.ErrInvalidProposal)
	}
	actionA, ok := arena.ParseAction(strings.ToLower(strings.TrimSpace(moveA)))
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not a legal action", arena.ErrInvalidProposal, moveA)
	}
	actionB, ok := arena.ParseAction(strings.ToLower(strings.TrimSpace(moveB)))
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not a legal action", arena.ErrInvalidProposal, moveB)
	}
	return actionA, actionB, nil
}

// decodeStrict rejects unknown fields so each reply matches exactly one of
// the enumerated shapes instead of half-matching several.
func decodeStrict(raw []byte, into any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return err
	}
	return nil
}
