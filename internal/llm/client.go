// Package llm is the boundary to the external language-model completion
// service. The orchestrator depends only on the Client interface; the concrete
// provider (hosted OpenAI vs a self-hosted OpenAI-compatible endpoint) is a
// configuration detail of the implementation.
package llm

import "context"

// Prompt segment roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged prompt segment.
type Message struct {
	Role    string
	Content string
}

// Client produces a single assistant utterance for an ordered prompt.
// An empty string with a nil error means the provider returned no usable
// content; callers decide what to substitute. No retries, caching or streaming
// happen at this boundary.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
