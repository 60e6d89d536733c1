package tutor

import (
	"context"
	"errors"
)

const RoleSystem = "system"

// ErrEmptyCompletion is returned when the provider answers with no text.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// LLMMessage is one provider-neutral chat turn. Role is system, user or
// assistant.
type LLMMessage struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLMClient generates the next assistant turn for an ordered conversation.
type LLMClient interface {
	Generate(ctx context.Context, messages []LLMMessage, opts GenerateOptions) (string, error)
}
