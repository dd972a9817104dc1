package llm

import (
	"context"
	"errors"
)

// ConfigError indicates that the text-generation backend is not
// configured, typically because no API key is available. It is raised
// before any network I/O is attempted.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Message
}

// IsConfigError reports whether err (or any error in its chain) is a
// ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// GenerateRequest describes one call to the text-generation backend.
type GenerateRequest struct {
	// System is the instruction context conditioning the generation.
	System string

	// Prompt is the task prompt.
	Prompt string

	// Temperature controls sampling variance.
	Temperature float64

	// MaxTokens bounds the output length.
	MaxTokens int
}

// Generator is the text-generation boundary. Given an instruction
// context and a prompt, it returns generated text. Implementations are
// blocking request/response; callers impose their own timeouts via ctx.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
