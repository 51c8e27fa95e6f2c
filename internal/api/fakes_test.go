package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodrigoscoelho/ClaudeSync/internal/claude"
	"github.com/rodrigoscoelho/ClaudeSync/internal/config"
	"github.com/rodrigoscoelho/ClaudeSync/internal/store"
)

type fakeSessions struct {
	token  string
	expiry time.Time
}

func (f *fakeSessions) Get(ctx context.Context) (string, time.Time, error) {
	if f.token == "" {
		return "", time.Time{}, store.ErrNoSession
	}
	return f.token, f.expiry, nil
}

func (f *fakeSessions) Set(ctx context.Context, token string, expiresAt time.Time) error {
	f.token = token
	f.expiry = expiresAt
	return nil
}

func (f *fakeSessions) SessionKey(ctx context.Context) (string, error) {
	if f.token == "" {
		return "", store.ErrNoSession
	}
	return f.token, nil
}

type fakeSettings map[string]string

func (f fakeSettings) Get(ctx context.Context, key string) (string, error) {
	return f[key], nil
}

func (f fakeSettings) Set(ctx context.Context, key, value string) error {
	f[key] = value
	return nil
}

// fakeProvider follows the dep-struct pattern: tests fill in only the
// calls they expect.
type fakeProvider struct {
	sendMessage       func(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error)
	createChat        func(ctx context.Context, orgID, projectID, name string) (claude.Chat, error)
	chatConversations func(ctx context.Context, orgID string) ([]claude.Chat, error)
	organizations     func(ctx context.Context) ([]claude.Organization, error)
	projects          func(ctx context.Context, orgID string) ([]claude.Project, error)
	createProject     func(ctx context.Context, orgID, name, description string) (claude.Project, error)
}

var errUnexpectedCall = errors.New("unexpected provider call")

func (f *fakeProvider) SendMessage(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error) {
	if f.sendMessage == nil {
		return claude.Reply{}, errUnexpectedCall
	}
	return f.sendMessage(ctx, orgID, chatID, prompt)
}

func (f *fakeProvider) CreateChat(ctx context.Context, orgID, projectID, name string) (claude.Chat, error) {
	if f.createChat == nil {
		return claude.Chat{}, errUnexpectedCall
	}
	return f.createChat(ctx, orgID, projectID, name)
}

func (f *fakeProvider) ChatConversations(ctx context.Context, orgID string) ([]claude.Chat, error) {
	if f.chatConversations == nil {
		return nil, errUnexpectedCall
	}
	return f.chatConversations(ctx, orgID)
}

func (f *fakeProvider) Organizations(ctx context.Context) ([]claude.Organization, error) {
	if f.organizations == nil {
		return nil, errUnexpectedCall
	}
	return f.organizations(ctx)
}

func (f *fakeProvider) Projects(ctx context.Context, orgID string) ([]claude.Project, error) {
	if f.projects == nil {
		return nil, errUnexpectedCall
	}
	return f.projects(ctx, orgID)
}

func (f *fakeProvider) CreateProject(ctx context.Context, orgID, name, description string) (claude.Project, error) {
	if f.createProject == nil {
		return claude.Project{}, errUnexpectedCall
	}
	return f.createProject(ctx, orgID, name, description)
}

// newTestServer wires a server with a logged-in session and an active
// organization unless the options override them.
func newTestServer(provider Provider, opts ...func(*fakeSessions, fakeSettings)) http.Handler {
	sessions := &fakeSessions{token: "sk-test", expiry: time.Now().Add(time.Hour)}
	settings := fakeSettings{store.KeyActiveOrganizationID: "org-1"}
	for _, o := range opts {
		o(sessions, settings)
	}
	return NewServer(config.Config{}, sessions, settings, provider, zerolog.Nop()).Router
}
