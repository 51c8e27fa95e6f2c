package api

import (
	"context"
	"time"

	"github.com/rodrigoscoelho/ClaudeSync/internal/claude"
)

// Provider is the capability surface the handlers need from the Claude.ai
// client. Tests substitute a fake; nothing in this package touches the
// concrete transport.
type Provider interface {
	SendMessage(ctx context.Context, orgID, chatID, prompt string) (claude.Reply, error)
	CreateChat(ctx context.Context, orgID, projectID, name string) (claude.Chat, error)
	ChatConversations(ctx context.Context, orgID string) ([]claude.Chat, error)
	Organizations(ctx context.Context) ([]claude.Organization, error)
	Projects(ctx context.Context, orgID string) ([]claude.Project, error)
	CreateProject(ctx context.Context, orgID, name, description string) (claude.Project, error)
}

// SessionStore holds the single session cookie (see internal/store for
// the Postgres implementation).
type SessionStore interface {
	Get(ctx context.Context) (token string, expiresAt time.Time, err error)
	Set(ctx context.Context, token string, expiresAt time.Time) error
	SessionKey(ctx context.Context) (string, error)
}

// Settings is persistent key/value bridge state (active org/project).
type Settings interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
