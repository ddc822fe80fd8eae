package llm

import (
	"context"
)

// Generator is an interface for producing text from a filled prompt.
type Generator interface {
	// String returns the name of the provider.
	String() string

	// IsAvailable checks if the provider has all required configuration (e.g. API keys)
	// to be used. Returns true if the provider can be used, false otherwise.
	IsAvailable() bool

	// Generate creates new output text using the context, system prompt,
	// and user prompt. Returns the generated text and an error if it fails.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
