// Package claude is an HTTP client for the Claude.ai web API. It
// authenticates the way a browser does: every request carries the
// sessionKey cookie of a logged-in claude.ai session.
package claude

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultModel = "claude-2"

// SessionSource serves the session cookie used on every outbound call.
// The store-backed implementation lives in internal/store; tests use an
// in-memory fake.
type SessionSource interface {
	SessionKey(ctx context.Context) (string, error)
}

// Reply is one assistant turn as returned by the completion endpoint.
// Created is 0 when the upstream gives no timestamp; callers default it.
type Reply struct {
	ID      string
	Created int64
	Content string
}

type Organization struct {
	ID   string `json:"uuid"`
	Name string `json:"name"`
}

type Project struct {
	ID          string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Chat struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type Client struct {
	log     zerolog.Logger
	baseURL string
	session SessionSource

	httpClient *http.Client
}

func NewClient(log zerolog.Logger, baseURL string, session SessionSource) *Client {
	return &Client{
		log:        log,
		baseURL:    baseURL,
		session:    session,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.do(ctx, "GET", "/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (c *Client) Projects(ctx context.Context, orgID string) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, "GET", "/organizations/"+orgID+"/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, orgID, name, description string) (Project, error) {
	in := map[string]string{"name": name, "description": description}
	var p Project
	if err := c.do(ctx, "POST", "/organizations/"+orgID+"/projects", in, &p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (c *Client) ChatConversations(ctx context.Context, orgID string) ([]Chat, error) {
	var chats []Chat
	if err := c.do(ctx, "GET", "/organizations/"+orgID+"/chat_conversations", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat starts a new conversation in the organization. projectID may
// be empty for a project-less chat.
func (c *Client) CreateChat(ctx context.Context, orgID, projectID, name string) (Chat, error) {
	in := map[string]any{
		"uuid": newUUID(),
		"name": name,
	}
	if projectID != "" {
		in["project_uuid"] = projectID
	}
	var chat Chat
	if err := c.do(ctx, "POST", "/organizations/"+orgID+"/chat_conversations", in, &chat); err != nil {
		return Chat{}, err
	}
	return chat, nil
}

// SendMessage appends the prompt to the conversation and returns the
// assistant's completion. Each call is a fresh exchange: the endpoint
// replies with the full completion text, not a stream of deltas.
func (c *Client) SendMessage(ctx context.Context, orgID, chatID, prompt string) (Reply, error) {
	in := map[string]any{
		"completion": map[string]string{
			"model":    defaultModel,
			"prompt":   prompt,
			"timezone": "UTC",
		},
		"conversation_uuid": chatID,
		"organization_uuid": orgID,
	}
	var out struct {
		Completion string `json:"completion"`
		Error      string `json:"error"`
	}
	if err := c.do(ctx, "POST", "/append_message", in, &out); err != nil {
		return Reply{}, err
	}
	if out.Error != "" {
		return Reply{}, &ProviderError{Message: "Error from Claude.ai: " + out.Error}
	}
	return Reply{ID: chatID, Content: out.Completion}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	key, err := c.session.SessionKey(ctx)
	if err != nil {
		return transportError(err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return transportError(err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Content-Type", "application/json")
	// Setting Accept-Encoding by hand disables Go's transparent gzip, so
	// the response is decoded explicitly below.
	req.Header.Set("Accept-Encoding", "gzip")
	req.AddCookie(&http.Cookie{Name: "sessionKey", Value: key})

	c.log.Debug().Str("method", method).Str("endpoint", endpoint).Msg("claude request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode >= 300 {
		return httpError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ProviderError{Message: "Invalid JSON response from API: " + err.Error()}
	}
	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return io.ReadAll(resp.Body)
}

func newUUID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	hx := hex.EncodeToString(b[:])
	return hx[:8] + "-" + hx[8:12] + "-" + hx[12:16] + "-" + hx[16:20] + "-" + hx[20:]
}
