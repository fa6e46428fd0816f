package api

import (
	"encoding/json"
	"net/http"

	"github.com/colevans/resistance/pkg/log"
	"github.com/colevans/resistance/pkg/repositories"
	"github.com/gorilla/mux"
)

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func HandleListSessions(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := repository.ListSessionIDs(r.Context())
		if err != nil {
			log.Error("failed to list sessions: %v", err)
			http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
			return
		}
		if ids == nil {
			ids = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(ids); err != nil {
			log.Error("failed to encode session ids: %v", err)
			http.Error(w, "Failed to encode session ids", http.StatusInternalServerError)
			return
		}
	}
}

// HandleGetSession serves a persisted session snapshot with the secret
// role information stripped out. Roles are only revealed over the game
// connection itself.
func HandleGetSession(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["sessionID"]

		session, err := repository.LoadSession(r.Context(), sessionID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load session %s: %v", sessionID, err)
			http.Error(w, "Failed to load session", http.StatusInternalServerError)
			return
		}

		// Redact the roster split and per-player roles.
		session.Resistance = nil
		session.Spies = nil
		for _, p := range session.Players {
			p.IsSpy = false
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(session); err != nil {
			log.Error("failed to encode session %s: %v", sessionID, err)
			http.Error(w, "Failed to encode session", http.StatusInternalServerError)
			return
		}
	}
}
