package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"chain-arena/internal/arena"
	"chain-arena/internal/automation"

	"github.com/go-chi/chi/v5"
)

type initializeRequest struct {
	CombatantA string `json:"combatant_a"`
	CombatantB string `json:"combatant_b"`
}

func InitializeHandler(ctrl *automation.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricArenaInitTotal.Add(1)
		arenaID := chi.URLParam(r, "arena_id")
		if arenaID == "" {
			metricArenaInitErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "arena_not_found")
			return
		}
		var req initializeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			metricArenaInitErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if req.CombatantA == "" || req.CombatantB == "" {
			metricArenaInitErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "missing_combatant")
			return
		}
		err := ctrl.Initialize(r.Context(), arenaID, req.CombatantA, req.CombatantB)
		switch {
		case err == nil:
			WriteJSON(w, map[string]any{"ok": true, "arena_id": arenaID})
		case errors.Is(err, arena.ErrConflict), errors.Is(err, arena.ErrAlreadyInitialized):
			metricArenaInitErrors.Add(1)
			WriteHTTPError(w, http.StatusConflict, "conflict")
		case errors.Is(err, arena.ErrNotFound):
			metricArenaInitErrors.Add(1)
			WriteHTTPError(w, http.StatusNotFound, "combatant_not_found")
		default:
			metricArenaInitErrors.Add(1)
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
		}
	}
}

func StatusHandler(ctrl *automation.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arenaID := chi.URLParam(r, "arena_id")
		st, ok := ctrl.Status(r.Context(), arenaID)
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "automation_not_found")
			return
		}
		WriteJSON(w, st)
	}
}

func CleanupHandler(ctrl *automation.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arenaID := chi.URLParam(r, "arena_id")
		if err := ctrl.Cleanup(arenaID); err != nil {
			if errors.Is(err, arena.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "automation_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, map[string]any{"ok": true})
	}
}
