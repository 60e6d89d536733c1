package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Immutable once recorded.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionProfile is what the student told us about themselves. Fields are
// empty when unknown.
type SessionProfile struct {
	Name     string `json:"name,omitempty"`
	Standard string `json:"standard,omitempty"`
	Stream   string `json:"stream,omitempty"`
}
