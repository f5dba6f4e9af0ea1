package arena

import "time"

// Side identifies one of the two combatant slots of an arena.
type Side uint8

const (
	SideA Side = 0
	SideB Side = 1
)

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Action is one move in a round. The numeric values are the wire values
// signed into attestations and checked by the ledger; they must never be
// reordered.
type Action uint8

const (
	ActionStrike Action = iota
	ActionTaunt
	ActionDodge
	ActionSpecial
	ActionRecover
)

var actionNames = [...]string{"strike", "taunt", "dodge", "special", "recover"}

func (a Action) Valid() bool {
	return int(a) < len(actionNames)
}

func (a Action) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a vocabulary word to its Action. The second return is
// false for anything outside the legal set.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if s == name {
			return Action(i), true
		}
	}
	return 0, false
}

// Actions returns the legal action vocabulary in wire order.
func Actions() []Action {
	out := make([]Action, len(actionNames))
	for i := range actionNames {
		out[i] = Action(i)
	}
	return out
}

// ActionNames returns the vocabulary as strings, for decision-service prompts.
func ActionNames() []string {
	out := make([]string, len(actionNames))
	copy(out, actionNames[:])
	return out
}

// Traits is a combatant's five-attribute vector on a 0-100 scale.
type Traits struct {
	Power      int `json:"power"`
	Speed      int `json:"speed"`
	Defense    int `json:"defense"`
	Accuracy   int `json:"accuracy"`
	Resilience int `json:"resilience"`
}

// Combatant is the immutable-per-battle snapshot of a character. It is
// captured at initialize time and never mutated mid-battle.
type Combatant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Traits      Traits `json:"traits"`
	Personality string `json:"personality"`
	Knowledge   string `json:"knowledge,omitempty"`
}

// Record is one arena's ledger-visible state. Fields are point-in-time
// snapshots; the automation controller re-reads rather than caching.
type Record struct {
	ID               string
	CombatantA       *Combatant
	CombatantB       *Combatant
	BaseUnit         int64
	RoundIndex       int
	MaxRounds        int
	DamageA          int64
	DamageB          int64
	DamageThreshold  int64
	InitializedAt    time.Time
	BettingWindow    time.Duration
	RoundInterval    time.Duration
	LastRoundEndedAt time.Time
}
