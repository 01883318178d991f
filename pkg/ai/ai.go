package ai

import "context"

// GenerateOptions holds configuration for oracle generation requests.
type GenerateOptions struct {
	Model        string  // Model identifier to use for generation
	SystemPrompt string  // System prompt prepended to the request
	Temperature  float64 // Sampling temperature (0.0-2.0)
	MaxTokens    int     // Upper bound on generated tokens, 0 means provider default
}

// GenerateOption is a functional option for configuring oracle requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompt returns a GenerateOption that sets the system prompt
// prepended to the generation request.
func WithSystemPrompt(prompt string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompt = prompt
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Lower values (e.g., 0.1) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens returns a GenerateOption that caps the generated output size.
func WithMaxTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = n
	}
}

// ConceptAIClient is the text-understanding oracle consumed by the graph
// engine. It is untrusted: callers must treat its output as loosely-typed
// data and validate at the boundary.
//
// GenerateCompletion returns free text that is expected, but not guaranteed,
// to contain one JSON object. GenerateCompletionWithFormat enforces a JSON
// schema derived from out and unmarshals the response into it; it serves as
// the strict retry path when free-text output cannot be parsed.
type ConceptAIClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error
}
