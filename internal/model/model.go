package model

import (
	"encoding/json"
	"time"
)

// Chat stores metadata about a conversation with the planning assistant.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	WeddingID *string   `json:"wedding_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Model     string    `json:"model"`
}

// Message stores a single message in a chat.
type Message struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Thinking  string          `json:"thinking,omitempty"`
	Agent     *string         `json:"agent,omitempty"`
	Model     *string         `json:"model,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Actions   json.RawMessage `json:"actions,omitempty"`
}

// FullChat includes the chat metadata and all its messages.
type FullChat struct {
	Chat
	Messages []Message `json:"messages"`
}

// Wedding is the summary of a wedding owned by a signed-in user.
type Wedding struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	CoupleNames     []string  `json:"couple_names"`
	WeddingDate     time.Time `json:"wedding_date"`
	Status          string    `json:"status"`
	OverallProgress int       `json:"overall_progress"`
	CreatedAt       time.Time `json:"created_at"`
}

// Wedding statuses.
const (
	WeddingStatusPlanning  = "PLANNING"
	WeddingStatusConfirmed = "CONFIRMED"
	WeddingStatusCompleted = "COMPLETED"
)

// EventType discriminates the frames of a chat stream.
type EventType string

const (
	EventStart    EventType = "start"
	EventThinking EventType = "thinking"
	EventContent  EventType = "content"
	EventEnd      EventType = "end"
	EventError    EventType = "error"
)

// StreamEvent is one `data: <json>` frame of a chat stream.
type StreamEvent struct {
	Type     EventType `json:"type"`
	Content  string    `json:"content,omitempty"`
	Thinking string    `json:"thinking,omitempty"`
	Agent    string    `json:"agent,omitempty"`
	ChatID   string    `json:"chat_id,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Text returns the free-text payload of the event. Thinking frames may carry
// their text in either field.
func (e StreamEvent) Text() string {
	if e.Type == EventThinking && e.Thinking != "" {
		return e.Thinking
	}
	return e.Content
}
