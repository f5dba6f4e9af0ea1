package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"chain-arena/internal/arena"
	"chain-arena/internal/chain"

	"github.com/go-chi/chi/v5"
)

type placeWagerRequest struct {
	Side   string `json:"side"`
	Backer string `json:"backer"`
	Amount int64  `json:"amount"`
}

func parseSide(s string) (arena.Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return arena.SideA, true
	case "B":
		return arena.SideB, true
	}
	return 0, false
}

func PlaceWagerHandler(ledger chain.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricWagerPlaceTotal.Add(1)
		arenaID := chi.URLParam(r, "arena_id")
		var req placeWagerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		side, ok := parseSide(req.Side)
		if !ok {
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_side")
			return
		}
		if req.Backer == "" {
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "missing_backer")
			return
		}
		err := ledger.PlaceWager(r.Context(), arenaID, side, req.Backer, req.Amount)
		switch {
		case err == nil:
			potA, potB, _ := ledger.Pots(r.Context(), arenaID)
			WriteJSON(w, map[string]any{"ok": true, "pot_a": potA, "pot_b": potB})
		case errors.Is(err, arena.ErrInvalidAmount):
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_amount")
		case errors.Is(err, arena.ErrPhase):
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusConflict, "phase_error")
		case errors.Is(err, arena.ErrNotFound):
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusNotFound, "arena_not_found")
		default:
			metricWagerPlaceErrors.Add(1)
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
		}
	}
}

func WagersHandler(ledger chain.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arenaID := chi.URLParam(r, "arena_id")
		backersA, err := ledger.Backers(r.Context(), arenaID, arena.SideA)
		if err != nil {
			if errors.Is(err, arena.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "arena_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		backersB, err := ledger.Backers(r.Context(), arenaID, arena.SideB)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		potA, potB, err := ledger.Pots(r.Context(), arenaID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, map[string]any{
			"arena_id": arenaID,
			"pot_a":    potA,
			"pot_b":    potB,
			"side_a":   backersA,
			"side_b":   backersB,
		})
	}
}
