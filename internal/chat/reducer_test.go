package chat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enchanted-day/backend/internal/chat"
	"enchanted-day/backend/internal/model"
)

type recorder struct {
	updates   []chat.Message
	finalized []chat.Message
	actions   [][]chat.Action
	errors    []string
}

func (rec *recorder) callbacks() chat.Callbacks {
	return chat.Callbacks{
		AssistantUpdated: func(m chat.Message) { rec.updates = append(rec.updates, m) },
		AssistantFinalized: func(m chat.Message, a []chat.Action) {
			rec.finalized = append(rec.finalized, m)
			rec.actions = append(rec.actions, a)
		},
		Error: func(msg string) { rec.errors = append(rec.errors, msg) },
	}
}

func content(s string) model.StreamEvent {
	return model.StreamEvent{Type: model.EventContent, Content: s}
}

func TestReducer_FinalizesWithThinkingSplitOut(t *testing.T) {
	rec := &recorder{}
	r := chat.NewReducer("ai-1", "", rec.callbacks())
	assert.Equal(t, chat.StateAwaitingStart, r.State())

	r.Apply(model.StreamEvent{Type: model.EventStart})
	assert.Equal(t, chat.StateStreaming, r.State())

	r.Apply(content("Hello "))
	r.Apply(content("<thinking>plan</thinking>world"))
	r.Apply(model.StreamEvent{Type: model.EventEnd})

	msg := r.Snapshot()
	assert.Equal(t, chat.StateFinalized, r.State())
	assert.Equal(t, "Hello world", msg.Content)
	assert.Equal(t, "plan", msg.Thinking)
	assert.False(t, msg.Streaming)
	assert.Equal(t, chat.DefaultAgent, msg.Agent)
	assert.NoError(t, r.Err())

	require.Len(t, rec.finalized, 1)
	assert.Equal(t, msg, rec.finalized[0])
	assert.GreaterOrEqual(t, len(rec.updates), 2)
	assert.Empty(t, rec.errors)
}

func TestReducer_VisibleContentNeverIncludesCompleteTags(t *testing.T) {
	rec := &recorder{}
	r := chat.NewReducer("ai-1", "", rec.callbacks())

	r.Apply(model.StreamEvent{Type: model.EventStart})
	r.Apply(content("<think"))
	r.Apply(content("ing>weighing venues</thin"))
	assert.Equal(t, "<thinking>weighing venues</thin", r.Snapshot().Content, "an unterminated block is shown as-is")

	r.Apply(content("king>The garden venue fits."))
	msg := r.Snapshot()
	assert.Equal(t, "The garden venue fits.", msg.Content)
	assert.Equal(t, "weighing venues", msg.Thinking)
	assert.True(t, msg.Streaming)
}

func TestReducer_ThinkingEvents(t *testing.T) {
	t.Run("Explicit thinking is last-write-wins", func(t *testing.T) {
		r := chat.NewReducer("ai-1", "", chat.Callbacks{})
		r.Apply(model.StreamEvent{Type: model.EventStart})
		r.Apply(model.StreamEvent{Type: model.EventThinking, Content: "first idea"})
		r.Apply(model.StreamEvent{Type: model.EventThinking, Thinking: "second idea"})
		assert.Equal(t, "second idea", r.Snapshot().Thinking)

		r.Apply(content("Answer"))
		r.Apply(model.StreamEvent{Type: model.EventEnd})
		assert.Equal(t, "second idea", r.Snapshot().Thinking, "explicit thinking survives when content has no tags")
	})

	t.Run("Parsed thinking replaces explicit thinking", func(t *testing.T) {
		r := chat.NewReducer("ai-1", "", chat.Callbacks{})
		r.Apply(model.StreamEvent{Type: model.EventThinking, Content: "explicit"})
		r.Apply(content("<thinking>parsed</thinking>Answer"))
		assert.Equal(t, "parsed", r.Snapshot().Thinking)

		r.Apply(model.StreamEvent{Type: model.EventEnd})
		assert.Equal(t, "parsed", r.Snapshot().Thinking)
	})
}

func TestReducer_ErrorKeepsPartialContent(t *testing.T) {
	rec := &recorder{}
	r := chat.NewReducer("ai-1", "", rec.callbacks())

	r.Apply(model.StreamEvent{Type: model.EventStart})
	r.Apply(content("Your budget "))
	r.Apply(content("looks healthy"))
	r.Apply(model.StreamEvent{Type: model.EventError, Error: "rate limited"})

	msg := r.Snapshot()
	assert.Equal(t, chat.StateErrored, r.State())
	assert.Equal(t, "Your budget looks healthy", msg.Content)
	assert.False(t, msg.Streaming)
	assert.Equal(t, []string{"rate limited"}, rec.errors)
	assert.Empty(t, rec.finalized)

	var agentErr *chat.AgentError
	require.ErrorAs(t, r.Err(), &agentErr)
	assert.Equal(t, "rate limited", agentErr.Message)
}

func TestReducer_IgnoresEventsAfterTerminalState(t *testing.T) {
	rec := &recorder{}
	r := chat.NewReducer("ai-1", "", rec.callbacks())
	r.Apply(content("Done."))
	r.Apply(model.StreamEvent{Type: model.EventEnd})
	final := r.Snapshot()
	updates := len(rec.updates)

	assert.False(t, r.Apply(content(" more")))
	assert.False(t, r.Apply(model.StreamEvent{Type: model.EventError, Error: "late"}))
	r.Finish()
	r.Fail(errors.New("late transport error"))

	assert.Equal(t, final, r.Snapshot())
	assert.Len(t, rec.updates, updates)
	assert.Len(t, rec.finalized, 1)
	assert.Empty(t, rec.errors)
}

func TestReducer_FinishAndFail(t *testing.T) {
	t.Run("Finish finalizes an open stream", func(t *testing.T) {
		rec := &recorder{}
		r := chat.NewReducer("ai-1", "", rec.callbacks())
		r.Apply(content("Check the guest list"))
		r.Finish()

		assert.Equal(t, chat.StateFinalized, r.State())
		require.Len(t, rec.actions, 1)
		require.Len(t, rec.actions[0], 1)
		assert.Equal(t, "Manage Guests", rec.actions[0][0].Label)
	})

	t.Run("Fail surfaces transport errors", func(t *testing.T) {
		rec := &recorder{}
		r := chat.NewReducer("ai-1", "", rec.callbacks())
		r.Apply(content("partial"))
		r.Fail(errors.New("connection reset"))

		assert.Equal(t, chat.StateErrored, r.State())
		assert.Equal(t, "partial", r.Snapshot().Content)
		assert.Equal(t, []string{"connection reset"}, rec.errors)
		assert.EqualError(t, r.Err(), "connection reset")
	})

	t.Run("Start names the agent", func(t *testing.T) {
		r := chat.NewReducer("ai-1", "", chat.Callbacks{})
		r.Apply(model.StreamEvent{Type: model.EventStart, Agent: "Vendor Agent"})
		assert.Equal(t, "Vendor Agent", r.Snapshot().Agent)
	})
}
