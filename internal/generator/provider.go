package generator

import "context"

// Provider is a chat-style text-generation service
type Provider interface {
	// Complete sends a system instruction and a user message and returns
	// the first text segment of the reply
	Complete(ctx context.Context, system, user string) (string, error)

	// Name returns the provider identifier (e.g., "gemini")
	Name() string

	// Model returns the specific model being used
	Model() string
}
