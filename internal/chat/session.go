package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"enchanted-day/backend/internal/stream"
)

// Transport opens a streamed chat response for a prompt. The returned body
// carries `data: <json>` frames.
type Transport interface {
	StreamChat(ctx context.Context, prompt, weddingID string) (io.ReadCloser, error)
}

// Session sends prompts through a Transport and folds the responses into
// messages. Each Send is independent, so a Session may be shared between
// goroutines.
type Session struct {
	transport Transport
	agent     string
	newID     func() string
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithAgent sets the label used for assistant messages until the stream names one.
func WithAgent(name string) SessionOption {
	return func(s *Session) { s.agent = name }
}

// WithIDGenerator replaces the uuid-based message id generator.
func WithIDGenerator(fn func() string) SessionOption {
	return func(s *Session) { s.newID = fn }
}

// NewSession creates a Session on top of transport.
func NewSession(transport Transport, opts ...SessionOption) *Session {
	s := &Session{
		transport: transport,
		agent:     DefaultAgent,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts prompt and streams the answer, reporting progress through cb. It
// returns the last state of the assistant message together with the error
// that ended the exchange, if any. The response body is always released,
// including when ctx is cancelled mid-stream. Nothing is retried.
func (s *Session) Send(ctx context.Context, prompt, weddingID string, cb Callbacks) (Message, error) {
	user := Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Content:   prompt,
		Timestamp: time.Now(),
	}
	if cb.UserMessage != nil {
		cb.UserMessage(user)
	}

	reducer := NewReducer(s.newID(), s.agent, cb)

	body, err := s.transport.StreamChat(ctx, prompt, weddingID)
	if err != nil {
		err = fmt.Errorf("could not open chat stream: %w", err)
		reducer.Fail(err)
		return reducer.Snapshot(), err
	}

	reader := stream.NewReader(body)
	defer func() {
		if cErr := reader.Close(); cErr != nil {
			slog.Debug("Failed to release chat stream", "error", cErr)
		}
	}()

	for !reducer.State().Terminal() {
		if err := ctx.Err(); err != nil {
			reducer.Fail(err)
			break
		}

		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			reducer.Finish()
			break
		}
		if err != nil {
			reducer.Fail(err)
			break
		}
		reducer.Apply(ev)
	}

	return reducer.Snapshot(), reducer.Err()
}
