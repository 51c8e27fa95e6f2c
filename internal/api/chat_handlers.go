package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodrigoscoelho/ClaudeSync/internal/claude"
	"github.com/rodrigoscoelho/ClaudeSync/internal/openai"
	"github.com/rodrigoscoelho/ClaudeSync/internal/store"
	"github.com/rodrigoscoelho/ClaudeSync/internal/translate"
)

const (
	defaultModel     = "claude-3.5-sonnet"
	defaultMaxTokens = 1000
)

// ChatHeaderChatID lets a caller pin requests to an existing conversation
// instead of starting a fresh one per request.
const ChatHeaderChatID = "X-Claude-Chat-Id"

func ChatCompletions(settings Settings, provider Provider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			writeError(w, http.StatusInternalServerError, "Claude provider is not initialized")
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
			writeError(w, http.StatusUnsupportedMediaType, "Unsupported Media Type: Content-Type must be application/json")
			return
		}

		var req openai.ChatCompletionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		model := req.Model
		if model == "" {
			model = defaultModel
		}
		if req.MaxTokens == 0 {
			// Accepted for OpenAI compatibility; the upstream endpoint has
			// no equivalent knob so it is logged but not enforced.
			req.MaxTokens = defaultMaxTokens
		}

		prompt, err := translate.BuildPrompt(req.Messages)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := r.Context()
		orgID, _ := settings.Get(ctx, store.KeyActiveOrganizationID)
		if orgID == "" {
			writeError(w, http.StatusBadRequest, "No active organization set")
			return
		}

		chatID := r.Header.Get(ChatHeaderChatID)
		if chatID == "" {
			projectID, _ := settings.Get(ctx, store.KeyActiveProjectID)
			name := "#claude-bridge - " + time.Now().Format("15:04:05")
			chat, err := provider.CreateChat(ctx, orgID, projectID, name)
			if err != nil {
				respondProviderError(w, logger, err)
				return
			}
			chatID = chat.UUID
		}

		logger.Debug().
			Str("model", model).
			Str("chat_id", chatID).
			Int("max_tokens", req.MaxTokens).
			Int("messages", len(req.Messages)).
			Msg("chat completion")

		reply, err := provider.SendMessage(ctx, orgID, chatID, prompt)
		if err != nil {
			respondProviderError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, translate.Completion(reply, model))
	}
}

func ListModels() http.HandlerFunc {
	models := []openai.ModelEntry{
		{ID: "claude-3.5-sonnet", Object: "model", Created: 1686935002, OwnedBy: "anthropic"},
		{ID: "claude-2", Object: "model", Created: 1686935002, OwnedBy: "anthropic"},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, openai.ModelsResponse{Object: "list", Data: models})
	}
}

// respondProviderError surfaces upstream failures as 500 with the
// provider's own message; anything unrecognized gets a generic 500.
func respondProviderError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var pe *claude.ProviderError
	if errors.As(err, &pe) {
		logger.Error().Err(err).Int("upstream_status", pe.StatusCode).Msg("provider error")
		writeError(w, http.StatusInternalServerError, pe.Message)
		return
	}
	logger.Error().Err(err).Msg("unexpected error")
	writeError(w, http.StatusInternalServerError, "Unexpected error: "+err.Error())
}
