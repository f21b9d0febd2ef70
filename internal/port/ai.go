package port

import "context"

// CompletionRequest is a single chat-completion round trip.
type CompletionRequest struct {
	// System is an optional system instruction.
	System string
	// Prompt is the user message.
	Prompt string
	// JSON asks the model for a JSON object response.
	JSON        bool
	Temperature float32
	MaxTokens   int
}

// LLMGateway abstracts the chat-completion backend.
// Implementations strip model reasoning before returning content and fail
// with domain.ErrLLMUnavailable when the upstream call errors or returns nothing.
type LLMGateway interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete sends the request and returns the cleaned response text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
