package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rodrigoscoelho/ClaudeSync/internal/store"
)

// Conversation/project browsing endpoints, mostly useful when debugging a
// session key by hand.

func ListOrganizations(provider Provider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			writeError(w, http.StatusInternalServerError, "Claude provider is not initialized")
			return
		}
		orgs, err := provider.Organizations(r.Context())
		if err != nil {
			respondProviderError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, orgs)
	}
}

func ListChats(settings Settings, provider Provider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			writeError(w, http.StatusInternalServerError, "Claude provider is not initialized")
			return
		}
		ctx := r.Context()
		orgID, _ := settings.Get(ctx, store.KeyActiveOrganizationID)
		if orgID == "" {
			writeError(w, http.StatusBadRequest, "No active organization set")
			return
		}
		chats, err := provider.ChatConversations(ctx, orgID)
		if err != nil {
			respondProviderError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, chats)
	}
}

func ListProjects(settings Settings, provider Provider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			writeError(w, http.StatusInternalServerError, "Claude provider is not initialized")
			return
		}
		ctx := r.Context()
		orgID, _ := settings.Get(ctx, store.KeyActiveOrganizationID)
		if orgID == "" {
			writeError(w, http.StatusBadRequest, "No active organization set")
			return
		}
		projects, err := provider.Projects(ctx, orgID)
		if err != nil {
			respondProviderError(w, logger, err)
			return
		}
		if len(projects) == 0 {
			logger.Info().Msg("no projects found, creating a default project")
			p, err := provider.CreateProject(ctx, orgID, "Default Bridge Project", "Default project created automatically by the bridge")
			if err != nil {
				respondProviderError(w, logger, err)
				return
			}
			projects = append(projects, p)
		}
		writeJSON(w, http.StatusOK, projects)
	}
}
