// Package llm abstracts the model backend used by the advisor.
package llm

import "context"

// Provider generates one completion for a prompt pair.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}
