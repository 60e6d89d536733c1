package tutor

import (
	"fmt"

	"schooltutor/models"
)

const SystemPromptTemplate = `You are a helpful AI tutor for school students. Use this student information:
Name: %s
Standard: %s
Stream: %s

Focus on:
- Providing clear, accurate explanations
- Using age-appropriate language
- Breaking down complex topics
- Explaining step-by-step solutions
- Providing relevant examples
- Maintaining context from previous messages`

const (
	defaultName     = "Student"
	defaultStandard = "Unknown"
	defaultStream   = "Not specified"
)

func SystemPrompt(profile models.SessionProfile) string {
	return fmt.Sprintf(SystemPromptTemplate,
		orDefault(profile.Name, defaultName),
		orDefault(profile.Standard, defaultStandard),
		orDefault(profile.Stream, defaultStream),
	)
}

// BuildMessages orders the conversation as system prompt, prior history
// oldest first, then the new query.
func BuildMessages(profile models.SessionProfile, history []models.Message, query string) []LLMMessage {
	messages := make([]LLMMessage, 0, len(history)+2)
	messages = append(messages, LLMMessage{Role: RoleSystem, Content: SystemPrompt(profile)})
	for _, msg := range history {
		messages = append(messages, LLMMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return append(messages, LLMMessage{Role: string(models.RoleUser), Content: query})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
