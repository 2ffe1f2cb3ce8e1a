package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
// The model is an opaque text generator: callers send a prompt and parse
// the returned text themselves.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its text response.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Generation in Clai is
	// single-turn, so this usually holds one user message.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64

	// JSON asks for a JSON response on providers that have such a mode.
	// Others rely on the prompt alone.
	JSON bool
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
	}
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the LLM's output.
type Response struct {
	// Text is the raw generated text.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Complete runs a single blocking request and returns the trimmed text.
// A response cut off by the token limit is returned as
// *ErrMaxTokensExceeded carrying the partial text; one the provider
// refused to finish is *ErrInvalidResponse.
func Complete(ctx context.Context, p Provider, req Request) (string, error) {
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.StopReason == "error" {
		return "", &ErrInvalidResponse{Err: errors.New("generation stopped by the provider")}
	}
	text := strings.TrimSpace(resp.Text)
	if resp.StopReason == "max_tokens" {
		return text, &ErrMaxTokensExceeded{Text: text}
	}
	return text, nil
}
