package chat

import (
	"log/slog"
	"strings"
	"time"

	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/thinking"
)

// State is the lifecycle position of an assistant message being streamed.
type State int

const (
	StateAwaitingStart State = iota
	StateStreaming
	StateFinalized
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateAwaitingStart:
		return "awaiting-start"
	case StateStreaming:
		return "streaming"
	case StateFinalized:
		return "finalized"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events can change the message.
func (s State) Terminal() bool {
	return s == StateFinalized || s == StateErrored
}

// Callbacks are the integration points for a UI following a chat. Every field
// is optional.
type Callbacks struct {
	UserMessage        func(Message)
	AssistantUpdated   func(Message)
	AssistantFinalized func(Message, []Action)
	Error              func(string)
}

// Reducer folds stream events into a single assistant message.
// It is owned by one stream and is not safe for concurrent use.
type Reducer struct {
	state     State
	msg       Message
	raw       strings.Builder
	callbacks Callbacks
	err       error
}

// NewReducer starts an empty, streaming assistant message.
func NewReducer(id, agent string, cb Callbacks) *Reducer {
	if agent == "" {
		agent = DefaultAgent
	}
	return &Reducer{
		state:     StateAwaitingStart,
		callbacks: cb,
		msg: Message{
			ID:        id,
			Role:      RoleAssistant,
			Streaming: true,
			Timestamp: time.Now(),
			Agent:     agent,
		},
	}
}

// State returns the current lifecycle state.
func (r *Reducer) State() State { return r.state }

// Err returns why the message errored, or nil. Errors reported by the agent
// are *AgentError.
func (r *Reducer) Err() error { return r.err }

// Snapshot returns a copy of the message as it stands.
func (r *Reducer) Snapshot() Message { return r.msg.clone() }

// Apply folds one event into the message. It returns false when the event was
// ignored because the message is already final.
func (r *Reducer) Apply(ev model.StreamEvent) bool {
	if r.state.Terminal() {
		slog.Debug("Ignoring chat event after terminal state", "type", ev.Type, "state", r.state.String())
		return false
	}

	switch ev.Type {
	case model.EventStart:
		r.state = StateStreaming
		if ev.Agent != "" {
			r.msg.Agent = ev.Agent
		}
	case model.EventThinking:
		r.state = StateStreaming
		r.msg.Thinking = ev.Text()
		r.updated()
	case model.EventContent:
		r.state = StateStreaming
		r.raw.WriteString(ev.Content)
		split := thinking.Split(r.raw.String())
		if split.Thinking != "" && split.Thinking != r.msg.Thinking {
			r.msg.Thinking = split.Thinking
		}
		r.msg.Content = split.Content
		r.updated()
	case model.EventEnd:
		r.finalize()
	case model.EventError:
		msg := ev.Error
		if msg == "" {
			msg = "Stream processing failed"
		}
		r.fail(&AgentError{Message: msg}, msg)
	default:
		slog.Warn("Ignoring chat event of unknown type", "type", ev.Type)
	}
	return true
}

// Finish finalizes a message whose stream ended without an `end` frame.
func (r *Reducer) Finish() {
	if r.state.Terminal() {
		return
	}
	r.finalize()
}

// Fail moves the message to the errored state, keeping any partial content.
func (r *Reducer) Fail(err error) {
	if r.state.Terminal() || err == nil {
		return
	}
	r.fail(err, err.Error())
}

func (r *Reducer) finalize() {
	split := thinking.Split(r.raw.String())
	r.msg.Content = split.Content
	if split.Thinking != "" {
		r.msg.Thinking = split.Thinking
	}
	r.msg.Streaming = false
	r.msg.Actions = GenerateActions(split.Content)
	r.state = StateFinalized

	r.updated()
	if r.callbacks.AssistantFinalized != nil {
		final := r.msg.clone()
		r.callbacks.AssistantFinalized(final, final.Actions)
	}
}

func (r *Reducer) fail(err error, msg string) {
	r.err = err
	r.msg.Streaming = false
	r.state = StateErrored
	r.updated()
	if r.callbacks.Error != nil {
		r.callbacks.Error(msg)
	}
}

func (r *Reducer) updated() {
	if r.callbacks.AssistantUpdated != nil {
		r.callbacks.AssistantUpdated(r.msg.clone())
	}
}
