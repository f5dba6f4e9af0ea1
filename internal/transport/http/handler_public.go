package httptransport

import (
	"net/http"

	"chain-arena/internal/store"

	"github.com/go-chi/chi/v5"
)

func HealthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := map[string]any{"ok": true}
		if st != nil {
			if err := st.Ping(r.Context()); err != nil {
				out["db"] = "down"
			} else {
				out["db"] = "up"
			}
		}
		WriteJSON(w, out)
	}
}

func HistoryHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "history_unavailable")
			return
		}
		limit, offset := ParsePagination(r)
		battles, err := st.ListHistory(r.Context(), r.URL.Query().Get("arena_id"), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, map[string]any{"battles": battles})
	}
}

func BattleRoundsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "history_unavailable")
			return
		}
		battleID := chi.URLParam(r, "battle_id")
		rounds, err := st.ListRounds(r.Context(), battleID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, map[string]any{"battle_id": battleID, "rounds": rounds})
	}
}
