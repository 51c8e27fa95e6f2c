// Package translate converts between the OpenAI chat schema and the
// Human/Assistant turn format the Claude.ai completion endpoint expects.
package translate

import (
	"fmt"
	"strings"
	"time"

	"github.com/rodrigoscoelho/ClaudeSync/internal/claude"
	"github.com/rodrigoscoelho/ClaudeSync/internal/openai"
)

// ErrUnknownRole is returned by BuildPrompt for any role outside
// system|user|assistant. Unknown roles are a client error, never a
// silent skip.
var ErrUnknownRole = fmt.Errorf("unknown message role")

// UsageUnknown is the sentinel for token counters Claude.ai does not report.
const UsageUnknown = -1

// BuildPrompt flattens an ordered list of chat messages into a single
// newline-joined prompt string:
//
//	system    -> "Human: System: <content>"
//	user      -> "Human: <content>"
//	assistant -> "Assistant: <content>"
//
// Order is preserved, the separator is a single '\n', and there is no
// trailing newline. An empty message list yields "".
func BuildPrompt(msgs []openai.ChatMessage) (string, error) {
	turns := make([]string, 0, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case openai.RoleSystem:
			turns = append(turns, "Human: System: "+m.Content)
		case openai.RoleUser:
			turns = append(turns, "Human: "+m.Content)
		case openai.RoleAssistant:
			turns = append(turns, "Assistant: "+m.Content)
		default:
			return "", fmt.Errorf("%w: %q (message %d)", ErrUnknownRole, m.Role, i)
		}
	}
	return strings.Join(turns, "\n"), nil
}

// Completion shapes an upstream reply into an OpenAI chat completion with
// exactly one choice. Missing optional fields are defaulted, never an
// error: an absent id becomes "unknown", a zero created becomes now, and
// usage counters are always the -1 sentinel.
func Completion(reply claude.Reply, model string) openai.ChatCompletionsResponse {
	id := reply.ID
	if id == "" {
		id = "unknown"
	}
	created := reply.Created
	if created == 0 {
		created = time.Now().Unix()
	}
	return openai.ChatCompletionsResponse{
		ID:      "chatcmpl-" + id,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []openai.ChatChoice{{
			Index: 0,
			Message: openai.ChatMessage{
				Role:    openai.RoleAssistant,
				Content: reply.Content,
			},
			FinishReason: "stop",
		}},
		Usage: openai.ChatUsage{
			PromptTokens:     UsageUnknown,
			CompletionTokens: UsageUnknown,
			TotalTokens:      UsageUnknown,
		},
	}
}
