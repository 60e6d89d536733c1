package tutor

import (
	"context"
	"fmt"
	"strings"

	"schooltutor/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangchainClient adapts any langchaingo model to LLMClient.
type LangchainClient struct {
	llm llms.Model
}

func NewLangchainClient(llm llms.Model) *LangchainClient {
	return &LangchainClient{llm: llm}
}

func NewOpenAIClient(apiKey, model string) (*LangchainClient, error) {
	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLangchainClient(llm), nil
}

func (c *LangchainClient) Generate(ctx context.Context, messages []LLMMessage, opts GenerateOptions) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
	}
	if opts.Model != "" {
		callOpts = append(callOpts, llms.WithModel(opts.Model))
	}

	resp, err := c.llm.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case string(models.RoleAssistant):
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
