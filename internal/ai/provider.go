// Package ai wraps the LLM collaborators behind a small provider
// interface. The core hands a fully rendered prompt to a provider and
// takes the text back verbatim; nothing here validates or reshapes the
// model's output.
package ai

import "context"

// Message is one prompt message in provider wire order.
type Message struct {
	Role    string
	Content string
}

// Provider executes one blocking chat completion.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// StreamProvider is optional; providers that can stream implement it
// in addition to Provider.
type StreamProvider interface {
	StreamChat(ctx context.Context, messages []Message) (<-chan string, <-chan error)
}

// UserPrompt wraps a rendered prompt as the single user message.
func UserPrompt(prompt string) []Message {
	return []Message{{Role: "user", Content: prompt}}
}
