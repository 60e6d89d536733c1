package tutor

import (
	"context"
	"fmt"
	"strings"

	"schooltutor/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client *anthropic.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{client: &client}
}

func (c *AnthropicClient) Generate(ctx context.Context, messages []LLMMessage, opts GenerateOptions) (string, error) {
	system, turns := toAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(opts.Model),
		MaxTokens:   int64(opts.MaxTokens),
		Messages:    turns,
		Temperature: anthropic.Float(opts.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(b.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

// toAnthropicMessages pulls system turns out into the system prompt and
// drops leading assistant turns, since the conversation must open with the
// user.
func toAnthropicMessages(messages []LLMMessage) (string, []anthropic.MessageParam) {
	var system []string
	var turns []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case string(models.RoleAssistant):
			if len(turns) == 0 {
				continue
			}
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return strings.Join(system, "\n\n"), turns
}
