package wager

import (
	"sync"

	"chain-arena/internal/arena"
)

// Wager is one placed stake. Wagers are append-only: nothing removes one
// once placed, and a backer may stack multiple wagers on the same side.
type Wager struct {
	Backer string     `json:"backer"`
	Side   arena.Side `json:"-"`
	Amount int64      `json:"amount"`
}

// Book records wagers for a single arena against a fixed base unit.
// Placement may be concurrent across many backers; the per-side totals are
// guarded by one mutex so no update is lost.
type Book struct {
	baseUnit int64

	mu   sync.Mutex
	side [2][]Wager
	pot  [2]int64
}

func NewBook(baseUnit int64) *Book {
	if baseUnit <= 0 {
		baseUnit = 1
	}
	return &Book{baseUnit: baseUnit}
}

func (b *Book) BaseUnit() int64 { return b.baseUnit }

// Place appends a wager. The amount must be a strictly positive integer
// multiple of the base unit; phase gating is the caller's job, since the
// book has no clock of its own.
func (b *Book) Place(side arena.Side, backer string, amount int64) error {
	if amount <= 0 || amount%b.baseUnit != 0 {
		return arena.ErrInvalidAmount
	}
	if side != arena.SideA && side != arena.SideB {
		return arena.ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.side[side] = append(b.side[side], Wager{Backer: backer, Side: side, Amount: amount})
	b.pot[side] += amount
	return nil
}

func (b *Book) Pot(side arena.Side) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pot[side]
}

// TotalPot is potA + potB.
func (b *Book) TotalPot() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pot[0] + b.pot[1]
}

// Backers returns a copy of the wager list for one side, for display.
func (b *Book) Backers(side arena.Side) []Wager {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Wager, len(b.side[side]))
	copy(out, b.side[side])
	return out
}
