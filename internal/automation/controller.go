package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chain-arena/internal/arena"
	"chain-arena/internal/attest"
	"chain-arena/internal/chain"
	"chain-arena/internal/identity"
	"chain-arena/internal/proposal"
	"chain-arena/internal/submit"
)

// Proposer is the decision-service seam. proposal.Client is the production
// implementation.
type Proposer interface {
	Propose(ctx context.Context, req proposal.Request) (arena.Action, arena.Action, error)
}

// Recorder persists battle history for the public endpoints. Recording is
// best-effort; it never blocks or fails the protocol.
type Recorder interface {
	RecordStart(ctx context.Context, arenaID, combatantAID, combatantBID string)
	RecordRound(ctx context.Context, arenaID string, receipt chain.RoundReceipt)
	RecordResult(ctx context.Context, arenaID string, st chain.ArenaState)
}

type Config struct {
	// PollInterval paces the betting-wait and round-eligibility checks.
	PollInterval time.Duration
	// ProposalFailureLimit is how many consecutive proposal failures the
	// loop tolerates before marking the arena degraded.
	ProposalFailureLimit int
	// SubmitTimeout bounds one submission cycle. A signed round is seen
	// through to confirmation or rejection even if the arena is cleaned
	// up mid-flight.
	SubmitTimeout time.Duration
	Now           func() time.Time
}

func (c *Config) defaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Millisecond
	}
	if c.ProposalFailureLimit <= 0 {
		c.ProposalFailureLimit = 3
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = 30 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Controller owns one long-lived automation loop per active arena. The
// registry is an explicit map with per-entry runtimes; each arena's round
// progression has exactly one writer, its own goroutine.
type Controller struct {
	ledger    chain.Ledger
	signer    *attest.Signer
	proposer  Proposer
	submitter *submit.Submitter
	resolver  identity.Resolver
	recorder  Recorder
	cfg       Config

	mu       sync.Mutex
	runtimes map[string]*runtime
}

func NewController(ledger chain.Ledger, signer *attest.Signer, proposer Proposer, submitter *submit.Submitter, resolver identity.Resolver, cfg Config) *Controller {
	cfg.defaults()
	return &Controller{
		ledger:    ledger,
		signer:    signer,
		proposer:  proposer,
		submitter: submitter,
		resolver:  resolver,
		cfg:       cfg,
		runtimes:  map[string]*runtime{},
	}
}

// SetRecorder attaches an optional battle-history recorder.
func (c *Controller) SetRecorder(r Recorder) { c.recorder = r }

// Initialize resolves both combatants, initializes the arena on the ledger
// and starts the automation loop. A second call for the same arena gets
// ErrConflict while the first loop exists; the first keeps running.
func (c *Controller) Initialize(ctx context.Context, arenaID, combatantAID, combatantBID string) error {
	if arenaID == "" || combatantAID == "" || combatantBID == "" {
		return fmt.Errorf("initialize: %w", arena.ErrNotFound)
	}
	ca, err := c.resolver.Resolve(ctx, combatantAID)
	if err != nil {
		return fmt.Errorf("resolve combatant A: %w", err)
	}
	cb, err := c.resolver.Resolve(ctx, combatantBID)
	if err != nil {
		return fmt.Errorf("resolve combatant B: %w", err)
	}

	c.mu.Lock()
	if _, exists := c.runtimes[arenaID]; exists {
		c.mu.Unlock()
		return arena.ErrConflict
	}
	runCtx, cancel := context.WithCancel(context.Background())
	rt := &runtime{
		arenaID: arenaID,
		ctx:     runCtx,
		cancel:  cancel,
		events:  NewEventBuffer(200),
	}
	c.runtimes[arenaID] = rt
	c.mu.Unlock()

	if err := c.ledger.Initialize(ctx, arenaID, ca, cb); err != nil {
		c.mu.Lock()
		delete(c.runtimes, arenaID)
		c.mu.Unlock()
		cancel()
		return err
	}

	rt.events.Append("automation_started", arenaID, map[string]any{
		"combatant_a": ca.ID,
		"combatant_b": cb.ID,
	})
	if c.recorder != nil {
		c.recorder.RecordStart(ctx, arenaID, ca.ID, cb.ID)
	}
	go c.run(rt)
	return nil
}

// Status derives the display state from a fresh ledger read. The bool is
// false when no automation is active for the arena; that is a normal
// answer, not an error.
func (c *Controller) Status(ctx context.Context, arenaID string) (AutomationState, bool) {
	c.mu.Lock()
	rt := c.runtimes[arenaID]
	c.mu.Unlock()
	if rt == nil {
		return AutomationState{}, false
	}
	var out AutomationState
	st, err := c.ledger.State(ctx, arenaID)
	if err != nil {
		// The automation exists even when the ledger read fails; answer
		// with the runtime's degraded view instead of pretending the
		// arena is unknown.
		out = AutomationState{ArenaID: arenaID}
	} else {
		potA, potB, _ := c.ledger.Pots(ctx, arenaID)
		out = deriveState(st, potA, potB, c.cfg.Now())
	}
	rt.mu.Lock()
	out.Degraded = rt.degraded
	out.DegradedCause = rt.degradedCause
	rt.mu.Unlock()
	return out, true
}

// Events exposes an arena's event stream for spectators.
func (c *Controller) Events(arenaID string) (*EventBuffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt := c.runtimes[arenaID]
	if rt == nil {
		return nil, false
	}
	return rt.events, true
}

// Cleanup stops the loop and releases the arena's automation resources.
func (c *Controller) Cleanup(arenaID string) error {
	c.mu.Lock()
	rt := c.runtimes[arenaID]
	delete(c.runtimes, arenaID)
	c.mu.Unlock()
	if rt == nil {
		return arena.ErrNotFound
	}
	rt.cancel()
	rt.events.Append("automation_cleaned_up", arenaID, nil)
	rt.events.Close()
	log.Info().Str("arena_id", arenaID).Msg("automation cleaned up")
	return nil
}

// Active lists the arenas with a live automation loop.
func (c *Controller) Active() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.runtimes))
	for id := range c.runtimes {
		out = append(out, id)
	}
	return out
}
