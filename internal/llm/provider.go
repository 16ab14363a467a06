// Package llm provides the model provider interface and registry behind the
// document create and edit workflows.
package llm

import (
	"context"
)

// Provider is the interface that all model providers implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string

	// Complete sends one request and returns the model's text response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Validate checks if the provider is properly configured.
	Validate() error
}

// Request is a single completion request.
type Request struct {
	System      string  `json:"system,omitempty"`      // system prompt
	Prompt      string  `json:"prompt"`                // user prompt, document JSON included
	MaxTokens   int     `json:"max_tokens,omitempty"`  // maximum tokens for response
	Temperature float64 `json:"temperature,omitempty"` // creativity level (0.0 - 1.0)
	JSONOnly    bool    `json:"json_only,omitempty"`   // constrain output to JSON where supported
}

// Response contains the result of a completion.
type Response struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
	Model string     `json:"model"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// DefaultRequest returns a request with the default generation settings.
func DefaultRequest() Request {
	return Request{
		MaxTokens:   8192,
		Temperature: 0.3,
	}
}
