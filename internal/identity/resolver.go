package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"chain-arena/internal/arena"
)

// Resolver turns a combatant id into its trait/personality snapshot. The
// metadata service is read-only from this side, so results are cacheable
// for the life of the process.
type Resolver interface {
	Resolve(ctx context.Context, combatantID string) (arena.Combatant, error)
}

// HTTPResolver fetches combatant metadata over HTTP with a read-through
// in-memory cache.
type HTTPResolver struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	cache map[string]arena.Combatant
}

func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   map[string]arena.Combatant{},
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, combatantID string) (arena.Combatant, error) {
	r.mu.Lock()
	if c, ok := r.cache[combatantID]; ok {
		r.mu.Unlock()
		return c, nil
	}
	r.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/characters/"+combatantID, nil)
	if err != nil {
		return arena.Combatant{}, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return arena.Combatant{}, fmt.Errorf("metadata service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return arena.Combatant{}, fmt.Errorf("combatant %s: %w", combatantID, arena.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return arena.Combatant{}, fmt.Errorf("metadata service returned status %d", resp.StatusCode)
	}
	var c arena.Combatant
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return arena.Combatant{}, fmt.Errorf("decode combatant metadata: %w", err)
	}
	if c.ID == "" {
		c.ID = combatantID
	}

	r.mu.Lock()
	r.cache[combatantID] = c
	r.mu.Unlock()
	return c, nil
}

// StaticResolver serves a fixed roster. Standalone mode and tests use it in
// place of the metadata service.
type StaticResolver struct {
	mu     sync.Mutex
	roster map[string]arena.Combatant
}

func NewStaticResolver(roster ...arena.Combatant) *StaticResolver {
	m := make(map[string]arena.Combatant, len(roster))
	for _, c := range roster {
		m[c.ID] = c
	}
	return &StaticResolver{roster: m}
}

func (r *StaticResolver) Add(c arena.Combatant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster[c.ID] = c
}

func (r *StaticResolver) Resolve(_ context.Context, combatantID string) (arena.Combatant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.roster[combatantID]
	if !ok {
		return arena.Combatant{}, fmt.Errorf("combatant %s: %w", combatantID, arena.ErrNotFound)
	}
	return c, nil
}
