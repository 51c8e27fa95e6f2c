package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodrigoscoelho/ClaudeSync/internal/store"
)

// sessionTTL is how long a pasted cookie is considered fresh. Claude.ai
// does not tell us when the cookie actually expires.
const sessionTTL = 24 * time.Hour

func LoginSubmit(sessions SessionStore, settings Settings, provider Provider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionKey := r.FormValue("session_key")
		if sessionKey == "" {
			writeError(w, http.StatusBadRequest, "No session key provided")
			return
		}

		ctx := r.Context()
		if err := sessions.Set(ctx, sessionKey, time.Now().Add(sessionTTL)); err != nil {
			logger.Error().Err(err).Msg("failed saving session key")
			writeError(w, http.StatusInternalServerError, "Failed to save session key")
			return
		}

		if provider == nil {
			writeError(w, http.StatusInternalServerError, "Claude provider is not initialized")
			return
		}

		// Verify the key by listing organizations, then pin the first one
		// as active (the original behavior).
		orgs, err := provider.Organizations(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("login verification failed")
			writeError(w, http.StatusUnauthorized, "Login failed: "+err.Error())
			return
		}
		if len(orgs) == 0 {
			writeError(w, http.StatusUnauthorized, "Login failed: Unable to retrieve organizations")
			return
		}
		if err := settings.Set(ctx, store.KeyActiveOrganizationID, orgs[0].ID); err != nil {
			logger.Error().Err(err).Msg("failed saving active organization")
			writeError(w, http.StatusInternalServerError, "Failed to save active organization")
			return
		}
		logger.Info().Str("organization", orgs[0].Name).Int("count", len(orgs)).Msg("logged in")

		writeJSON(w, http.StatusOK, map[string]any{
			"message":             "Successfully logged in to Claude.ai",
			"organizations_count": len(orgs),
			"active_organization": orgs[0].Name,
		})
	}
}

func CheckLogin(sessions SessionStore, settings Settings, provider Provider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if key, err := sessions.SessionKey(ctx); err != nil || key == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "Not logged in"})
			return
		}
		if provider == nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "Error", "message": "Claude provider is not initialized"})
			return
		}

		orgs, err := provider.Organizations(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("login check failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "Error", "message": err.Error()})
			return
		}
		if len(orgs) == 0 {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "Error", "message": "Unable to verify login status"})
			return
		}

		active := orgs[0]
		activeID, _ := settings.Get(ctx, store.KeyActiveOrganizationID)
		if activeID != "" {
			for _, o := range orgs {
				if o.ID == activeID {
					active = o
					break
				}
			}
		}
		if activeID != active.ID {
			_ = settings.Set(ctx, store.KeyActiveOrganizationID, active.ID)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":              "Logged in",
			"organizations_count": len(orgs),
			"active_organization": active.Name,
		})
	}
}

func ConfigSubmit(sessions SessionStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := r.FormValue("cookie")
		if cookie == "" {
			writeError(w, http.StatusBadRequest, "No cookie provided")
			return
		}
		if err := sessions.Set(r.Context(), cookie, time.Now().Add(sessionTTL)); err != nil {
			logger.Error().Err(err).Msg("failed saving cookie")
			writeError(w, http.StatusInternalServerError, "Failed to save cookie")
			return
		}
		logger.Info().Msg("session cookie updated")
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cookie updated successfully"})
	}
}
