// Package llm holds the upstream model providers the gateway streams from.
package llm

import "context"

// StreamResponse is one delta from a streaming generation.
type StreamResponse struct {
	Content  string
	Thinking string
	Done     bool
	Error    string
}

// Provider defines the interface for interacting with a language model.
type Provider interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	// GenerateStream sends deltas to ch and closes it before returning.
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
}

type GenerateRequest struct {
	Model    string    `json:"model"`
	System   string    `json:"-"`
	Prompt   string    `json:"-"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Think    bool      `json:"think,omitempty"`
}

type Message struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Thinking string `json:"thinking,omitempty"`
}

type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Thinking string `json:"thinking,omitempty"`
	Done     bool   `json:"done"`
}

// conversation flattens System and Prompt into the message list.
func (r *GenerateRequest) conversation() []Message {
	msgs := make([]Message, 0, len(r.Messages)+2)
	if r.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: r.System})
	}
	msgs = append(msgs, r.Messages...)
	if r.Prompt != "" {
		msgs = append(msgs, Message{Role: "user", Content: r.Prompt})
	}
	return msgs
}
