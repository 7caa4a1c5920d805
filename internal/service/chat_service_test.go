package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"enchanted-day/backend/internal/agent"
	"enchanted-day/backend/internal/chat"
	app_errors "enchanted-day/backend/internal/errors"
	"enchanted-day/backend/internal/llm"
	mock_llm "enchanted-day/backend/internal/llm/mocks"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/repository"
	mock_repo "enchanted-day/backend/internal/repository/mocks"
	"enchanted-day/backend/internal/service"
)

type Mocks struct {
	repo *mock_repo.MockRepository
	llm  *mock_llm.MockProvider
}

func setupChatService(t *testing.T, opts ...service.ChatOption) (*service.ChatService, Mocks) {
	mocks := Mocks{
		repo: mock_repo.NewMockRepository(t),
		llm:  mock_llm.NewMockProvider(t),
	}
	return service.NewChatService(mocks.repo, mocks.llm, opts...), mocks
}

func byRole(role chat.Role) any {
	return mock.MatchedBy(func(m *model.Message) bool { return m.Role == string(role) })
}

// streamChunks makes the provider mock behave like a real provider: send every
// chunk, then close the channel.
func streamChunks(chunks ...llm.StreamResponse) func(mock.Arguments) {
	return func(args mock.Arguments) {
		ch := args.Get(2).(chan<- llm.StreamResponse)
		for _, c := range chunks {
			ch <- c
		}
		close(ch)
	}
}

func collectEvents(t *testing.T, run func(chan<- model.StreamEvent)) []model.StreamEvent {
	t.Helper()
	out := make(chan model.StreamEvent, 64)
	run(out)
	var events []model.StreamEvent
	for ev := range out {
		events = append(events, ev)
	}
	return events
}

func TestEnhancePrompt(t *testing.T) {
	testCases := []struct {
		name string
		req  service.PromptRequest
		want string
	}{
		{name: "Chat", req: service.PromptRequest{Prompt: "Hi"}, want: "Hi"},
		{
			name: "Guest inquiry",
			req:  service.PromptRequest{Prompt: "Parking?", Type: agent.TypeGuestInquiry, Context: map[string]any{"guestId": "g1"}},
			want: `GUEST INQUIRY: Parking?. Context: {"guestId":"g1"}`,
		},
		{name: "Guest inquiry without context", req: service.PromptRequest{Prompt: "Parking?", Type: agent.TypeGuestInquiry}, want: "GUEST INQUIRY: Parking?. Context: {}"},
		{
			name: "Optimization",
			req:  service.PromptRequest{Prompt: "Save money", Type: agent.TypeOptimization, Context: map[string]any{"goals": []string{"budget"}}},
			want: `WEDDING OPTIMIZATION: Save money. Goals: ["budget"]`,
		},
		{name: "Optimization without goals", req: service.PromptRequest{Prompt: "Save", Type: agent.TypeOptimization}, want: "WEDDING OPTIMIZATION: Save. Goals: []"},
		{
			name: "Negotiation",
			req:  service.PromptRequest{Prompt: "Lower it", Type: agent.TypeNegotiation, Context: map[string]any{"budget": 900}},
			want: `VENDOR NEGOTIATION: Lower it. Terms: {"budget":900}`,
		},
		{name: "Coordination", req: service.PromptRequest{Prompt: "Align", Type: agent.TypeVendorCoordination}, want: "VENDOR COORDINATION: Align. Details: {}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.EnhancePrompt(&tc.req))
		})
	}
}

func TestChatService_HandlePrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("New chat streams and stores the reply", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		var created *model.Chat
		mocks.repo.On("CreateChat", ctx, mock.AnythingOfType("*model.Chat")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.Chat) }).
			Return(nil).Once()
		mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleUser)).Return(nil).Once()

		var llmReq *llm.GenerateRequest
		mocks.llm.On("GenerateStream", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				llmReq = args.Get(1).(*llm.GenerateRequest)
				streamChunks(
					llm.StreamResponse{Thinking: "check "},
					llm.StreamResponse{Thinking: "vendors"},
					llm.StreamResponse{Content: "<thinking>prices</thinking>Try "},
					llm.StreamResponse{Content: "the vendor list."},
					llm.StreamResponse{Done: true},
				)(args)
			}).
			Return(nil).Once()

		var saved *model.Message
		mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleAssistant)).
			Run(func(args mock.Arguments) { saved = args.Get(2).(*model.Message) }).
			Return(nil).Once()

		events := collectEvents(t, func(out chan<- model.StreamEvent) {
			chatService.HandlePrompt(ctx, "u1", &service.PromptRequest{Prompt: "Which florist?", WeddingID: "w1"}, out)
		})

		require.NotNil(t, created)
		assert.Equal(t, "u1", created.UserID)
		assert.Equal(t, "Which florist?", created.Title)
		require.NotNil(t, created.WeddingID)
		assert.Equal(t, "w1", *created.WeddingID)

		assert.Equal(t, "Which florist?", llmReq.Prompt)
		assert.Contains(t, llmReq.System, "w1")

		require.Len(t, events, 6)
		assert.Equal(t, model.StreamEvent{Type: model.EventStart, Agent: chat.DefaultAgent, ChatID: created.ID}, events[0])
		assert.Equal(t, model.StreamEvent{Type: model.EventThinking, Thinking: "check "}, events[1])
		assert.Equal(t, model.StreamEvent{Type: model.EventThinking, Thinking: "check vendors"}, events[2])
		assert.Equal(t, "<thinking>prices</thinking>Try ", events[3].Content)
		assert.Equal(t, "the vendor list.", events[4].Content)
		assert.Equal(t, model.EventEnd, events[5].Type)

		require.NotNil(t, saved)
		assert.Equal(t, "Try the vendor list.", saved.Content)
		assert.Equal(t, "prices", saved.Thinking)
		require.NotNil(t, saved.Agent)
		assert.Equal(t, chat.DefaultAgent, *saved.Agent)
		var actions []chat.Action
		require.NoError(t, json.Unmarshal(saved.Actions, &actions))
		require.Len(t, actions, 1)
		assert.Equal(t, "Manage Vendors", actions[0].Label)
	})

	t.Run("Existing chat sends history", func(t *testing.T) {
		chatService, mocks := setupChatService(t, service.WithAgentName("Planner"))

		mocks.repo.On("GetChat", ctx, "c1").Return(&model.Chat{ID: "c1", UserID: "u1"}, nil).Once()
		mocks.repo.On("GetMessagesByChatID", ctx, "c1").Return([]model.Message{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello!"},
		}, nil).Once()
		mocks.repo.On("AddMessage", ctx, "c1", byRole(chat.RoleUser)).Return(nil).Once()
		mocks.llm.On("GenerateStream", ctx, mock.MatchedBy(func(r *llm.GenerateRequest) bool {
			return len(r.Messages) == 2 && r.Messages[1].Content == "Hello!" &&
				strings.HasPrefix(r.Prompt, "VENDOR NEGOTIATION: Cheaper?")
		}), mock.Anything).Run(streamChunks(llm.StreamResponse{Content: "Sure."})).Return(nil).Once()
		mocks.repo.On("AddMessage", ctx, "c1", byRole(chat.RoleAssistant)).Return(nil).Once()

		events := collectEvents(t, func(out chan<- model.StreamEvent) {
			chatService.HandlePrompt(ctx, "u1", &service.PromptRequest{Prompt: "Cheaper?", ChatID: "c1", Type: agent.TypeNegotiation}, out)
		})

		require.Len(t, events, 3)
		assert.Equal(t, "Planner", events[0].Agent)
		assert.Equal(t, "Sure.", events[1].Content)
		assert.Equal(t, model.EventEnd, events[2].Type)
	})

	t.Run("Chat of another user", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetChat", ctx, "c1").Return(&model.Chat{ID: "c1", UserID: "someone-else"}, nil).Once()

		events := collectEvents(t, func(out chan<- model.StreamEvent) {
			chatService.HandlePrompt(ctx, "u1", &service.PromptRequest{Prompt: "hi", ChatID: "c1"}, out)
		})

		require.Len(t, events, 1)
		assert.Equal(t, model.StreamEvent{Type: model.EventError, Error: "Could not find chat"}, events[0])
	})

	t.Run("Provider fails mid-stream", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("CreateChat", ctx, mock.Anything).Return(nil).Once()
		mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleUser)).Return(nil).Once()
		mocks.llm.On("GenerateStream", ctx, mock.Anything, mock.Anything).
			Run(streamChunks(
				llm.StreamResponse{Content: "Partial"},
				llm.StreamResponse{Error: "Failed to decode stream chunk"},
				llm.StreamResponse{Content: "dropped"},
			)).
			Return(nil).Once()

		events := collectEvents(t, func(out chan<- model.StreamEvent) {
			chatService.HandlePrompt(ctx, "u1", &service.PromptRequest{Prompt: "hi"}, out)
		})

		require.Len(t, events, 3)
		assert.Equal(t, "Partial", events[1].Content)
		assert.Equal(t, model.StreamEvent{Type: model.EventError, Error: service.ReplyFailedMessage}, events[2])
	})

	t.Run("Provider returns an error", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("CreateChat", ctx, mock.Anything).Return(nil).Once()
		mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleUser)).Return(nil).Once()
		mocks.llm.On("GenerateStream", ctx, mock.Anything, mock.Anything).
			Run(streamChunks()).
			Return(errors.New(`Post "http://ollama:11434/api/chat": api returned non-200 status 500: model crashed`)).Once()

		events := collectEvents(t, func(out chan<- model.StreamEvent) {
			chatService.HandlePrompt(ctx, "u1", &service.PromptRequest{Prompt: "hi"}, out)
		})

		require.Len(t, events, 2)
		assert.Equal(t, model.StreamEvent{Type: model.EventError, Error: service.ReplyFailedMessage}, events[1])
		assert.NotContains(t, events[1].Error, "ollama:11434")
	})

	t.Run("Pseudo streaming re-chunks a full reply", func(t *testing.T) {
		chatService, mocks := setupChatService(t, service.WithPseudoStreaming())
		mocks.repo.On("CreateChat", ctx, mock.Anything).Return(nil).Once()
		mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleUser)).Return(nil).Once()
		mocks.llm.On("Generate", ctx, mock.Anything).Return(&llm.GenerateResponse{
			Response: "<thinking>outline</thinking>one two three four five six seven eight nine ten eleven twelve",
		}, nil).Once()
		mocks.repo.On("AddMessage", ctx, mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
			return m.Role == "assistant" && m.Thinking == "outline" && strings.HasPrefix(m.Content, "one two")
		})).Return(nil).Once()

		events := collectEvents(t, func(out chan<- model.StreamEvent) {
			chatService.HandlePrompt(ctx, "u1", &service.PromptRequest{Prompt: "hi"}, out)
		})

		require.Len(t, events, 5)
		assert.Equal(t, model.StreamEvent{Type: model.EventThinking, Thinking: "outline"}, events[1])
		assert.Equal(t, "one two three four five six seven eight nine ten ", events[2].Content)
		assert.Equal(t, "eleven twelve", events[3].Content)
		assert.Equal(t, model.EventEnd, events[4].Type)
	})
}

func TestChatService_Complete(t *testing.T) {
	ctx := context.Background()
	chatService, mocks := setupChatService(t)

	mocks.repo.On("CreateChat", ctx, mock.Anything).Return(nil).Once()
	mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleUser)).Return(nil).Once()
	mocks.llm.On("Generate", ctx, mock.Anything).Return(&llm.GenerateResponse{
		Response: "Check your budget and timeline.",
		Thinking: "two areas",
	}, nil).Once()
	mocks.repo.On("AddMessage", ctx, mock.Anything, byRole(chat.RoleAssistant)).Return(nil).Once()

	resp, err := chatService.Complete(ctx, "u1", &service.PromptRequest{Prompt: "What next?"})
	require.NoError(t, err)

	assert.Equal(t, "Check your budget and timeline.", resp.Response)
	assert.Equal(t, "two areas", resp.Data["thinking"])
	assert.NotEmpty(t, resp.Data["chat_id"])
	assert.Equal(t, []agent.Suggestion{
		{Label: "View Budget", Path: "/budget"},
		{Label: "View Timeline", Path: "/timeline"},
	}, resp.Suggestions)
}

func TestChatService_ListChats(t *testing.T) {
	ctx := context.Background()
	chatService, mocks := setupChatService(t)

	expected := []*model.Chat{{ID: "c1", UserID: "u1", Title: "Venues"}}
	mocks.repo.On("GetChats", ctx, "u1").Return(expected, nil).Once()

	chats, err := chatService.ListChats(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, expected, chats)
}

func TestChatService_GetFullChat(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetChat", ctx, "c1").Return(&model.Chat{ID: "c1", UserID: "u1"}, nil).Once()
		mocks.repo.On("GetMessagesByChatID", ctx, "c1").Return([]model.Message{{ID: "m1"}}, nil).Once()

		full, err := chatService.GetFullChat(ctx, "u1", "c1")
		require.NoError(t, err)
		assert.Equal(t, "c1", full.ID)
		assert.Len(t, full.Messages, 1)
	})

	t.Run("Missing", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetChat", ctx, "c1").Return(nil, repository.ErrNotFound).Once()

		_, err := chatService.GetFullChat(ctx, "u1", "c1")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Owned by someone else", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetChat", ctx, "c1").Return(&model.Chat{ID: "c1", UserID: "u2"}, nil).Once()

		_, err := chatService.GetFullChat(ctx, "u1", "c1")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestChatService_DeleteChat(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetChat", ctx, "c1").Return(&model.Chat{ID: "c1", UserID: "u1"}, nil).Once()
		mocks.repo.On("DeleteChat", ctx, "c1").Return(nil).Once()

		assert.NoError(t, chatService.DeleteChat(ctx, "u1", "c1"))
	})

	t.Run("Repository failure", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetChat", ctx, "c1").Return(&model.Chat{ID: "c1", UserID: "u1"}, nil).Once()
		mocks.repo.On("DeleteChat", ctx, "c1").Return(errors.New("database is locked")).Once()

		err := chatService.DeleteChat(ctx, "u1", "c1")
		assert.ErrorContains(t, err, "database is locked")
	})
}
