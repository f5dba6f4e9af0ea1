package proposal

import (
	"errors"
	"testing"

	"chain-arena/internal/arena"
)

func TestNormalizeAgentMovesShape(t *testing.T) {
	a, b, err := Normalize([]byte(`{"agent_1_move": "dodge", "agent_2_move": "taunt"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if a != arena.ActionDodge || b != arena.ActionTaunt {
		t.Fatalf("got (%s, %s), want (dodge, taunt)", a, b)
	}
}

func TestNormalizeSidedMovesShape(t *testing.T) {
	a, b, err := Normalize([]byte(`{"moves": [{"side": "B", "action": "special"}, {"side": "A", "action": "strike"}]}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if a != arena.ActionStrike || b != arena.ActionSpecial {
		t.Fatalf("got (%s, %s), want (strike, special)", a, b)
	}
}

func TestNormalizeCombatantMovesShape(t *testing.T) {
	a, b, err := Normalize([]byte(`{"combatant_a": {"move": "recover"}, "combatant_b": {"move": "dodge"}}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if a != arena.ActionRecover || b != arena.ActionDodge {
		t.Fatalf("got (%s, %s), want (recover, dodge)", a, b)
	}
}

func TestNormalizeTrimsAndLowercases(t *testing.T) {
	a, b, err := Normalize([]byte(`{"agent_1_move": " Strike ", "agent_2_move": "DODGE"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if a != arena.ActionStrike || b != arena.ActionDodge {
		t.Fatalf("got (%s, %s), want (strike, dodge)", a, b)
	}
}

func TestNormalizeFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"unknown action", `{"agent_1_move": "fly", "agent_2_move": "taunt"}`},
		{"missing side", `{"agent_1_move": "strike"}`},
		{"unrecognized shape", `{"best_move": "strike"}`},
		{"extra fields", `{"agent_1_move": "strike", "agent_2_move": "taunt", "confidence": 0.9}`},
		{"one sided move", `{"moves": [{"side": "A", "action": "strike"}]}`},
		{"bad side", `{"moves": [{"side": "A", "action": "strike"}, {"side": "C", "action": "taunt"}]}`},
		{"empty moves", `{"combatant_a": {"move": ""}, "combatant_b": {"move": "dodge"}}`},
		{"not json", `strike and taunt`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Normalize([]byte(tc.raw)); !errors.Is(err, arena.ErrInvalidProposal) {
				t.Fatalf("err = %v, want ErrInvalidProposal", err)
			}
		})
	}
}
