package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rodrigoscoelho/ClaudeSync/internal/claude"
	"github.com/rodrigoscoelho/ClaudeSync/internal/openai"
	"github.com/rodrigoscoelho/ClaudeSync/internal/store"
)

func postChat(t *testing.T, h http.Handler, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatCompletions(t *testing.T) {
	t.Parallel()

	var gotPrompt, gotChatID string
	provider := &fakeProvider{
		createChat: func(ctx context.Context, orgID, projectID, name string) (claude.Chat, error) {
			if orgID != "org-1" {
				t.Errorf("orgID = %q, want org-1", orgID)
			}
			return claude.Chat{UUID: "chat-42"}, nil
		},
		sendMessage: func(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error) {
			gotPrompt, gotChatID = prompt, chatID
			return claude.Reply{ID: chatID, Content: "Hello!"}, nil
		},
	}

	body := `{"model":"claude-2","messages":[{"role":"system","content":"You are helpful."},{"role":"user","content":"Hi"}],"max_tokens":150}`
	rec := postChat(t, newTestServer(provider), body, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if gotPrompt != "Human: System: You are helpful.\nHuman: Hi" {
		t.Errorf("prompt = %q", gotPrompt)
	}
	if gotChatID != "chat-42" {
		t.Errorf("chatID = %q, want chat-42", gotChatID)
	}

	var resp openai.ChatCompletionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp.ID != "chatcmpl-chat-42" {
		t.Errorf("ID = %q", resp.ID)
	}
	if resp.Model != "claude-2" {
		t.Errorf("Model = %q", resp.Model)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "Hello!" {
		t.Errorf("Choices = %+v", resp.Choices)
	}
	if resp.Usage.TotalTokens != -1 {
		t.Errorf("TotalTokens = %d, want -1", resp.Usage.TotalTokens)
	}
}

func TestChatCompletionsUnknownRole(t *testing.T) {
	t.Parallel()

	// No provider functions set: an unknown role must fail before any
	// upstream call happens.
	rec := postChat(t, newTestServer(&fakeProvider{}),
		`{"messages":[{"role":"tool","content":"x"}]}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body)
	}
	var resp openai.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp.Error, "unknown message role") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestChatCompletionsEmptyMessages(t *testing.T) {
	t.Parallel()

	called := false
	provider := &fakeProvider{
		createChat: func(ctx context.Context, orgID, projectID, name string) (claude.Chat, error) {
			return claude.Chat{UUID: "chat-1"}, nil
		},
		sendMessage: func(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error) {
			called = true
			if prompt != "" {
				t.Errorf("prompt = %q, want empty", prompt)
			}
			return claude.Reply{ID: chatID, Content: "?"}, nil
		},
	}

	rec := postChat(t, newTestServer(provider), `{"messages":[]}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !called {
		t.Fatal("provider was not invoked for empty messages")
	}
}

func TestChatCompletionsProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		createChat: func(ctx context.Context, orgID, projectID, name string) (claude.Chat, error) {
			return claude.Chat{UUID: "chat-1"}, nil
		},
		sendMessage: func(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error) {
			return claude.Reply{}, &claude.ProviderError{StatusCode: 403, Message: "Received a 403 Forbidden error."}
		},
	}

	rec := postChat(t, newTestServer(provider), `{"messages":[{"role":"user","content":"hi"}]}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp openai.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "Received a 403 Forbidden error." {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestChatCompletionsNilProvider(t *testing.T) {
	t.Parallel()

	rec := postChat(t, newTestServer(nil), `{"messages":[{"role":"user","content":"hi"}]}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not initialized") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestChatCompletionsInvalidJSON(t *testing.T) {
	t.Parallel()

	rec := postChat(t, newTestServer(&fakeProvider{}), `{"messages":`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatCompletionsWrongContentType(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader("messages=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestServer(&fakeProvider{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestChatCompletionsNotAuthenticated(t *testing.T) {
	t.Parallel()

	h := newTestServer(&fakeProvider{}, func(s *fakeSessions, _ fakeSettings) { s.token = "" })
	rec := postChat(t, h, `{"messages":[]}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not authenticated") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestChatCompletionsNoActiveOrganization(t *testing.T) {
	t.Parallel()

	h := newTestServer(&fakeProvider{}, func(_ *fakeSessions, st fakeSettings) {
		delete(st, store.KeyActiveOrganizationID)
	})
	rec := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body)
	}
}

func TestChatCompletionsReusesHeaderChat(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		// createChat deliberately unset: reusing a chat id must not
		// create a new conversation.
		sendMessage: func(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error) {
			if chatID != "existing-chat" {
				t.Errorf("chatID = %q, want existing-chat", chatID)
			}
			return claude.Reply{ID: chatID, Content: "ok"}, nil
		},
	}

	rec := postChat(t, newTestServer(provider),
		`{"messages":[{"role":"user","content":"hi"}]}`,
		map[string]string{ChatHeaderChatID: "existing-chat"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestListModels(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/v1/models", nil)
	rec := httptest.NewRecorder()
	newTestServer(&fakeProvider{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp openai.ModelsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp.Object != "list" || len(resp.Data) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Data[0].ID != "claude-3.5-sonnet" || resp.Data[0].OwnedBy != "anthropic" {
		t.Errorf("Data[0] = %+v", resp.Data[0])
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("OPTIONS", "/v1/chat/completions", nil)
	rec := httptest.NewRecorder()
	newTestServer(&fakeProvider{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS headers")
	}
}
