package chat

import (
	"fmt"
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// DefaultAgent labels assistant messages when the stream does not name one.
const DefaultAgent = "EnchantedDay AI Assistant"

// Message is the unit shown to the user. Assistant messages grow while
// Streaming is true and are final afterwards.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Thinking  string    `json:"thinking,omitempty"`
	Streaming bool      `json:"is_streaming"`
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent,omitempty"`
	Actions   []Action  `json:"actions,omitempty"`
}

func (m Message) clone() Message {
	if m.Actions != nil {
		actions := make([]Action, len(m.Actions))
		copy(actions, m.Actions)
		m.Actions = actions
	}
	return m
}

// AgentError is an error reported by the remote agent through an `error` frame.
type AgentError struct {
	Message string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent error: %s", e.Message)
}
