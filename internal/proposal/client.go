package proposal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"chain-arena/internal/arena"
)

// CombatantSummary is what the decision service learns about one side.
type CombatantSummary struct {
	Traits           arena.Traits `json:"traits"`
	Personality      string       `json:"personality"`
	Knowledge        string       `json:"knowledge,omitempty"`
	CumulativeDamage int64        `json:"cumulative_damage"`
}

// Request is the battle summary sent for one round.
type Request struct {
	RoundIndex   int              `json:"round_index"`
	CombatantA   CombatantSummary `json:"combatant_a"`
	CombatantB   CombatantSummary `json:"combatant_b"`
	LegalActions []string         `json:"legal_actions"`
}

// Client asks the external decision service for one action per side. The
// service is trusted for content but never for authorization: its reply
// goes through Normalize and then to the signer, never to the ledger
// directly.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// Propose returns the decision service's chosen action pair for the round.
func (c *Client) Propose(ctx context.Context, req Request) (arena.Action, arena.Action, error) {
	req.LegalActions = arena.ActionNames()
	body, err := json.Marshal(req)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal proposal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, 0, fmt.Errorf("decision service unreachable: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return 0, 0, fmt.Errorf("read decision service reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("decision service returned status %d", resp.StatusCode)
	}

	actionA, actionB, err := Normalize(raw)
	if err != nil {
		log.Warn().Err(err).Int("round", req.RoundIndex).Msg("decision service reply rejected")
		return 0, 0, err
	}
	return actionA, actionB, nil
}
