package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"chain-arena/internal/arena"
	"chain-arena/internal/attest"
	"chain-arena/internal/automation"
	"chain-arena/internal/chain"
	"chain-arena/internal/identity"
	"chain-arena/internal/proposal"
	"chain-arena/internal/submit"
)

type stubProposer struct{}

func (stubProposer) Propose(context.Context, proposal.Request) (arena.Action, arena.Action, error) {
	return arena.ActionTaunt, arena.ActionTaunt, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := attest.NewSigner(key)
	ledger := chain.NewSimLedger(chain.SimConfig{
		Trusted:       signer.Address(),
		BaseUnit:      5,
		BettingWindow: time.Minute,
		RoundInterval: time.Minute,
	})
	resolver := identity.NewStaticResolver(
		arena.Combatant{ID: "golem", Traits: arena.Traits{Power: 80}},
		arena.Combatant{ID: "viper", Traits: arena.Traits{Power: 50}},
	)
	ctrl := automation.NewController(ledger, signer, stubProposer{}, submit.New(ledger), resolver, automation.Config{})
	return NewRouter(ctrl, ledger, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	out := map[string]any{}
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr, out
}

func TestInitializeEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rr, body := doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem","combatant_b":"viper"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem","combatant_b":"viper"}`)
	if rr.Code != http.StatusConflict || body["error"] != "conflict" {
		t.Fatalf("duplicate initialize: status = %d, body %v", rr.Code, body)
	}
}

func TestInitializeValidation(t *testing.T) {
	r := newTestRouter(t)

	rr, body := doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem"}`)
	if rr.Code != http.StatusBadRequest || body["error"] != "missing_combatant" {
		t.Fatalf("status = %d, body %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `not json`)
	if rr.Code != http.StatusBadRequest || body["error"] != "invalid_json" {
		t.Fatalf("status = %d, body %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem","combatant_b":"nobody"}`)
	if rr.Code != http.StatusNotFound || body["error"] != "combatant_not_found" {
		t.Fatalf("status = %d, body %v", rr.Code, body)
	}
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rr, body := doJSON(t, r, http.MethodGet, "/api/arenas/ar/status", "")
	if rr.Code != http.StatusNotFound || body["error"] != "automation_not_found" {
		t.Fatalf("status before initialize: %d, body %v", rr.Code, body)
	}

	if rr, body = doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem","combatant_b":"viper"}`); rr.Code != http.StatusOK {
		t.Fatalf("initialize: %d %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodGet, "/api/arenas/ar/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body["phase"] != string(arena.PhaseBetting) {
		t.Fatalf("phase = %v, want betting", body["phase"])
	}
	if body["arena_id"] != "ar" {
		t.Fatalf("arena_id = %v", body["arena_id"])
	}
	if rem, ok := body["time_remaining_seconds"].(float64); !ok || rem <= 0 || rem > 60 {
		t.Fatalf("time remaining = %v", body["time_remaining_seconds"])
	}
}

func TestWagerEndpoints(t *testing.T) {
	r := newTestRouter(t)
	if rr, body := doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem","combatant_b":"viper"}`); rr.Code != http.StatusOK {
		t.Fatalf("initialize: %d %v", rr.Code, body)
	}

	rr, body := doJSON(t, r, http.MethodPost, "/api/arenas/ar/wagers", `{"side":"A","backer":"alice","amount":12}`)
	if rr.Code != http.StatusBadRequest || body["error"] != "invalid_amount" {
		t.Fatalf("amount 12: status = %d, body %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodPost, "/api/arenas/ar/wagers", `{"side":"C","backer":"alice","amount":15}`)
	if rr.Code != http.StatusBadRequest || body["error"] != "invalid_side" {
		t.Fatalf("side C: status = %d, body %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodPost, "/api/arenas/ar/wagers", `{"side":"A","backer":"alice","amount":15}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid wager: status = %d, body %v", rr.Code, body)
	}
	if body["pot_a"] != float64(15) {
		t.Fatalf("pot_a = %v, want 15", body["pot_a"])
	}

	rr, body = doJSON(t, r, http.MethodGet, "/api/arenas/ar/wagers", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list wagers: %d", rr.Code)
	}
	sideA, ok := body["side_a"].([]any)
	if !ok || len(sideA) != 1 {
		t.Fatalf("side_a = %v", body["side_a"])
	}
}

func TestWagerUnknownArena(t *testing.T) {
	r := newTestRouter(t)
	rr, body := doJSON(t, r, http.MethodPost, "/api/arenas/nope/wagers", `{"side":"A","backer":"alice","amount":15}`)
	if rr.Code != http.StatusNotFound || body["error"] != "arena_not_found" {
		t.Fatalf("status = %d, body %v", rr.Code, body)
	}
}

func TestCleanupEndpoint(t *testing.T) {
	r := newTestRouter(t)
	if rr, body := doJSON(t, r, http.MethodPost, "/api/arenas/ar/initialize", `{"combatant_a":"golem","combatant_b":"viper"}`); rr.Code != http.StatusOK {
		t.Fatalf("initialize: %d %v", rr.Code, body)
	}

	rr, _ := doJSON(t, r, http.MethodDelete, "/api/arenas/ar", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cleanup: %d", rr.Code)
	}
	rr, body := doJSON(t, r, http.MethodDelete, "/api/arenas/ar", "")
	if rr.Code != http.StatusNotFound || body["error"] != "automation_not_found" {
		t.Fatalf("second cleanup: %d, body %v", rr.Code, body)
	}
}

func TestHealthAndHistoryWithoutStore(t *testing.T) {
	r := newTestRouter(t)

	rr, body := doJSON(t, r, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || body["ok"] != true {
		t.Fatalf("healthz: %d, body %v", rr.Code, body)
	}

	rr, body = doJSON(t, r, http.MethodGet, "/api/battles/history", "")
	if rr.Code != http.StatusServiceUnavailable || body["error"] != "history_unavailable" {
		t.Fatalf("history without store: %d, body %v", rr.Code, body)
	}
}

func TestParsePaginationBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=9999&offset=-3", nil)
	limit, offset := ParsePagination(req)
	if limit != 500 || offset != 0 {
		t.Fatalf("pagination = (%d, %d), want (500, 0)", limit, offset)
	}
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	limit, offset = ParsePagination(req)
	if limit != 50 || offset != 0 {
		t.Fatalf("defaults = (%d, %d)", limit, offset)
	}
}
