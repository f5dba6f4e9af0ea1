package replica

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"chain-arena/internal/arena"
	"chain-arena/internal/automation"
)

// Client is a sync replica: a read/command proxy over the controller's
// HTTP surface. It performs no combat logic and treats its local copy of
// the state as display-only.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// Initialize asks the controller to start automation for an arena.
func (c *Client) Initialize(ctx context.Context, arenaID, combatantAID, combatantBID string) error {
	body, _ := json.Marshal(map[string]string{
		"combatant_a": combatantAID,
		"combatant_b": combatantBID,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/arenas/"+arenaID+"/initialize", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		return arena.ErrConflict
	default:
		return fmt.Errorf("initialize returned status %d: %s", resp.StatusCode, readErrorCode(resp.Body))
	}
}

// Status fetches the derived automation state. The bool is false when the
// controller reports no automation for the arena; callers should clear
// their display rather than treat that as fatal.
func (c *Client) Status(ctx context.Context, arenaID string) (automation.AutomationState, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/arenas/"+arenaID+"/status", nil)
	if err != nil {
		return automation.AutomationState{}, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return automation.AutomationState{}, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return automation.AutomationState{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return automation.AutomationState{}, false, fmt.Errorf("status returned %d", resp.StatusCode)
	}
	var st automation.AutomationState
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return automation.AutomationState{}, false, err
	}
	return st, true, nil
}

// Cleanup releases the arena's automation.
func (c *Client) Cleanup(ctx context.Context, arenaID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/arenas/"+arenaID, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return arena.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cleanup returned %d", resp.StatusCode)
	}
	return nil
}

// Poll fetches status every interval and hands each result to onUpdate
// until the context ends. A not-found answer degrades gracefully: onGone
// runs, the local state is considered cleared, and polling continues.
func (c *Client) Poll(ctx context.Context, arenaID string, interval time.Duration, onUpdate func(automation.AutomationState), onGone func()) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		st, ok, err := c.Status(ctx, arenaID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("arena_id", arenaID).Msg("status poll failed")
		case !ok:
			if onGone != nil {
				onGone()
			}
		default:
			if onUpdate != nil {
				onUpdate(st)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func readErrorCode(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil || body.Error == "" {
		return "unknown_error"
	}
	return body.Error
}
