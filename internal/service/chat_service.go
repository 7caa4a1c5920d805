package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"enchanted-day/backend/internal/agent"
	"enchanted-day/backend/internal/chat"
	app_errors "enchanted-day/backend/internal/errors"
	"enchanted-day/backend/internal/llm"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/repository"
	"enchanted-day/backend/internal/thinking"
)

// DefaultSystemPrompt frames every conversation with the planning assistant.
const DefaultSystemPrompt = "You are EnchantedDay, a warm and precise wedding planning assistant. " +
	"Help couples with budgets, vendors, guests and timelines. " +
	"Put any private reasoning inside <thinking></thinking> tags before the answer."

// PromptRequest is a prompt sent to the assistant through the gateway.
type PromptRequest struct {
	Prompt    string            `json:"prompt" validate:"required"`
	ChatID    string            `json:"chat_id,omitempty"`
	WeddingID string            `json:"wedding_id,omitempty"`
	Type      agent.RequestType `json:"type,omitempty" validate:"omitempty,oneof=chat guest_inquiry optimization negotiation vendor_coordination"`
	Context   map[string]any    `json:"context,omitempty"`
	Model     string            `json:"model,omitempty"`
}

type ChatService struct {
	repo         repository.Repository
	llm          llm.Provider
	agentName    string
	systemPrompt string
	pseudoStream bool
}

// ChatOption customizes a ChatService.
type ChatOption func(*ChatService)

// WithAgentName sets the agent label sent in start frames and stored on replies.
func WithAgentName(name string) ChatOption {
	return func(s *ChatService) { s.agentName = name }
}

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(prompt string) ChatOption {
	return func(s *ChatService) { s.systemPrompt = prompt }
}

// WithPseudoStreaming makes HandlePrompt fetch the whole reply and re-stream
// it in word chunks instead of forwarding provider deltas.
func WithPseudoStreaming() ChatOption {
	return func(s *ChatService) { s.pseudoStream = true }
}

func NewChatService(repo repository.Repository, provider llm.Provider, opts ...ChatOption) *ChatService {
	s := &ChatService{
		repo:         repo,
		llm:          provider,
		agentName:    chat.DefaultAgent,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnhancePrompt prefixes prompt according to the request type. Plain chat
// prompts are returned unchanged.
func EnhancePrompt(req *PromptRequest) string {
	switch req.Type {
	case agent.TypeGuestInquiry:
		return fmt.Sprintf("GUEST INQUIRY: %s. Context: %s", req.Prompt, marshalOr(req.Context, "{}"))
	case agent.TypeOptimization:
		var goals any = []any{}
		if g, ok := req.Context["goals"]; ok && g != nil {
			goals = g
		}
		return fmt.Sprintf("WEDDING OPTIMIZATION: %s. Goals: %s", req.Prompt, marshalOr(goals, "[]"))
	case agent.TypeNegotiation:
		return fmt.Sprintf("VENDOR NEGOTIATION: %s. Terms: %s", req.Prompt, marshalOr(req.Context, "{}"))
	case agent.TypeVendorCoordination:
		return fmt.Sprintf("VENDOR COORDINATION: %s. Details: %s", req.Prompt, marshalOr(req.Context, "{}"))
	default:
		return req.Prompt
	}
}

func marshalOr(v any, fallback string) string {
	if m, ok := v.(map[string]any); ok && m == nil {
		return fallback
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

// DeleteChat removes a chat owned by userID together with its messages.
func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID string) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	slog.Info("Deleting chat", "chat_id", chatID, "user_id", userID)
	if err := s.repo.DeleteChat(ctx, chatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: chat %s", app_errors.ErrNotFound, chatID)
		}
		return fmt.Errorf("could not delete chat: %w", err)
	}
	return nil
}

// ListChats retrieves all chats for a specific user, most recent first.
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	chats, err := s.repo.GetChats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list chats: %w", err)
	}
	return chats, nil
}

// GetFullChat retrieves a chat's metadata and all its messages.
func (s *ChatService) GetFullChat(ctx context.Context, userID, chatID string) (*model.FullChat, error) {
	c, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.GetMessagesByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("could not get messages: %w", err)
	}
	return &model.FullChat{Chat: *c, Messages: messages}, nil
}

// ownedChat loads a chat and hides chats of other users behind ErrNotFound.
func (s *ChatService) ownedChat(ctx context.Context, userID, chatID string) (*model.Chat, error) {
	c, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chat %s", app_errors.ErrNotFound, chatID)
		}
		return nil, fmt.Errorf("could not get chat: %w", err)
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("%w: chat %s", app_errors.ErrNotFound, chatID)
	}
	return c, nil
}

// prepare gets or creates the chat, stores the user's message and builds the
// provider request from the prior history.
func (s *ChatService) prepare(ctx context.Context, userID string, req *PromptRequest) (*model.Chat, *llm.GenerateRequest, error) {
	var c *model.Chat
	var history []model.Message
	if req.ChatID == "" {
		now := time.Now().UTC()
		c = &model.Chat{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     truncate(req.Prompt, 50),
			Model:     req.Model,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.WeddingID != "" {
			weddingID := req.WeddingID
			c.WeddingID = &weddingID
		}
		if err := s.repo.CreateChat(ctx, c); err != nil {
			return nil, nil, fmt.Errorf("could not create chat: %w", err)
		}
	} else {
		var err error
		if c, err = s.ownedChat(ctx, userID, req.ChatID); err != nil {
			return nil, nil, err
		}
		if history, err = s.repo.GetMessagesByChatID(ctx, c.ID); err != nil {
			slog.Error("Failed to load chat history", "chat_id", c.ID, "error", err)
		}
	}

	userMessage := &model.Message{ID: uuid.NewString(), Role: string(chat.RoleUser), Content: req.Prompt, Timestamp: time.Now().UTC()}
	if err := s.repo.AddMessage(ctx, c.ID, userMessage); err != nil {
		slog.Error("Failed to save user message", "chat_id", c.ID, "error", err)
	}

	system := s.systemPrompt
	if req.WeddingID != "" {
		system += " The user is currently planning wedding " + req.WeddingID + "."
	}
	llmReq := &llm.GenerateRequest{
		Model:  req.Model,
		System: system,
		Prompt: EnhancePrompt(req),
	}
	for _, m := range history {
		llmReq.Messages = append(llmReq.Messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	return c, llmReq, nil
}

// HandlePrompt streams the assistant's reply to out as chat stream events and
// stores both sides of the exchange. out is closed before HandlePrompt returns.
func (s *ChatService) HandlePrompt(ctx context.Context, userID string, req *PromptRequest, out chan<- model.StreamEvent) {
	defer close(out)

	send := func(ev model.StreamEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	c, llmReq, err := s.prepare(ctx, userID, req)
	if err != nil {
		slog.Error("Failed to prepare chat", "user_id", userID, "error", err)
		send(model.StreamEvent{Type: model.EventError, Error: clientMessage(err)})
		return
	}
	if !send(model.StreamEvent{Type: model.EventStart, Agent: s.agentName, ChatID: c.ID}) {
		return
	}

	var raw string
	var reasoning string
	if s.pseudoStream {
		raw, reasoning, err = s.generateChunked(ctx, llmReq, send)
	} else {
		raw, reasoning, err = s.generateStream(ctx, llmReq, send)
	}
	if err != nil {
		slog.Error("Stream error from LLM", "chat_id", c.ID, "error", err)
		send(model.StreamEvent{Type: model.EventError, Error: ReplyFailedMessage})
		return
	}

	if _, _, err := s.saveReply(ctx, c.ID, llmReq.Model, raw, reasoning); err != nil {
		slog.Error("Failed to save assistant message", "chat_id", c.ID, "error", err)
	}
	send(model.StreamEvent{Type: model.EventEnd, ChatID: c.ID})
}

// generateStream forwards provider deltas as they arrive. Reasoning is resent
// in full on every change since clients keep only the latest thinking frame.
func (s *ChatService) generateStream(ctx context.Context, req *llm.GenerateRequest, send func(model.StreamEvent) bool) (string, string, error) {
	ch := make(chan llm.StreamResponse)
	errCh := make(chan error, 1)
	go func() { errCh <- s.llm.GenerateStream(ctx, req, ch) }()

	var raw, reasoning strings.Builder
	var streamErr error
	for chunk := range ch {
		if streamErr != nil {
			continue
		}
		if chunk.Error != "" {
			streamErr = errors.New(chunk.Error)
			continue
		}
		if chunk.Thinking != "" {
			reasoning.WriteString(chunk.Thinking)
			if !send(model.StreamEvent{Type: model.EventThinking, Thinking: reasoning.String()}) {
				streamErr = ctx.Err()
				continue
			}
		}
		if chunk.Content != "" {
			raw.WriteString(chunk.Content)
			if !send(model.StreamEvent{Type: model.EventContent, Content: chunk.Content}) {
				streamErr = ctx.Err()
			}
		}
	}
	if err := <-errCh; err != nil && streamErr == nil {
		streamErr = err
	}
	return raw.String(), reasoning.String(), streamErr
}

// generateChunked asks for the whole reply, then emits its thinking and its
// content in word chunks.
func (s *ChatService) generateChunked(ctx context.Context, req *llm.GenerateRequest, send func(model.StreamEvent) bool) (string, string, error) {
	resp, err := s.llm.Generate(ctx, req)
	if err != nil {
		return "", "", err
	}
	parts := thinking.Split(resp.Response)
	thought := parts.Thinking
	if thought == "" {
		thought = resp.Thinking
	}
	if thought != "" && !send(model.StreamEvent{Type: model.EventThinking, Thinking: thought}) {
		return "", "", ctx.Err()
	}
	for _, chunk := range thinking.Chunk(parts.Content, thinking.DefaultWordsPerChunk) {
		if !send(model.StreamEvent{Type: model.EventContent, Content: chunk}) {
			return "", "", ctx.Err()
		}
	}
	return parts.Content, thought, nil
}

// saveReply splits raw into content and thinking, derives actions and stores
// the assistant message.
func (s *ChatService) saveReply(ctx context.Context, chatID, modelName, raw, reasoning string) (*model.Message, []chat.Action, error) {
	parts := thinking.Split(raw)
	thought := parts.Thinking
	if thought == "" {
		thought = strings.TrimSpace(reasoning)
	}
	actions := chat.GenerateActions(parts.Content)
	encoded, err := json.Marshal(actions)
	if err != nil {
		return nil, nil, fmt.Errorf("could not encode actions: %w", err)
	}

	agentName := s.agentName
	msg := &model.Message{
		ID:        uuid.NewString(),
		Role:      string(chat.RoleAssistant),
		Content:   parts.Content,
		Thinking:  thought,
		Agent:     &agentName,
		Timestamp: time.Now().UTC(),
		Actions:   encoded,
	}
	if modelName != "" {
		msg.Model = &modelName
	}
	if err := s.repo.AddMessage(ctx, chatID, msg); err != nil {
		return nil, nil, err
	}
	return msg, actions, nil
}

// Complete answers a prompt without streaming. The reply has the same shape as
// the agent endpoint's non-streaming responses.
func (s *ChatService) Complete(ctx context.Context, userID string, req *PromptRequest) (*agent.Response, error) {
	c, llmReq, err := s.prepare(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	resp, err := s.llm.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("could not generate reply: %w", err)
	}

	msg, actions, err := s.saveReply(ctx, c.ID, llmReq.Model, resp.Response, resp.Thinking)
	if err != nil {
		return nil, fmt.Errorf("could not save reply: %w", err)
	}

	suggestions := make([]agent.Suggestion, 0, len(actions))
	for _, a := range actions {
		path, _ := a.Data["path"].(string)
		suggestions = append(suggestions, agent.Suggestion{Label: a.Label, Path: path})
	}
	return &agent.Response{
		Response: msg.Content,
		Data: map[string]any{
			"chat_id":  c.ID,
			"thinking": msg.Thinking,
			"agent":    s.agentName,
		},
		Suggestions: suggestions,
	}, nil
}

// ReplyFailedMessage is sent to clients when the model fails to answer. The
// underlying error is only logged.
const ReplyFailedMessage = "The assistant could not answer, please try again"

// clientMessage hides internal error details from stream consumers.
func clientMessage(err error) string {
	if errors.Is(err, app_errors.ErrNotFound) {
		return "Could not find chat"
	}
	return "Could not start chat"
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
