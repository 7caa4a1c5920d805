package interfaces

import (
	"context"

	"enchanted-day/backend/internal/agent"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/service"
)

// The API layer depends on these interfaces rather than on the concrete
// services, so handlers can be tested against mocks.

// ChatService defines the contract for chat-related business logic.
type ChatService interface {
	HandlePrompt(ctx context.Context, userID string, req *service.PromptRequest, out chan<- model.StreamEvent)
	Complete(ctx context.Context, userID string, req *service.PromptRequest) (*agent.Response, error)
	ListChats(ctx context.Context, userID string) ([]*model.Chat, error)
	GetFullChat(ctx context.Context, userID, chatID string) (*model.FullChat, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
}

// WeddingService defines the contract for the user's wedding session.
type WeddingService interface {
	Current(ctx context.Context, userID string) (*service.WeddingSession, error)
	Refresh(ctx context.Context, userID string) (*service.WeddingSession, error)
	Select(ctx context.Context, userID, weddingID string) (*service.WeddingSession, error)
	Create(ctx context.Context, userID string, req *service.CreateWeddingRequest) (*model.Wedding, error)
}
