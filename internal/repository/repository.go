package repository

import (
	"context"

	"enchanted-day/backend/internal/model"
)

// Repository defines the storage operations for chats and their messages.
type Repository interface {
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChat(ctx context.Context, chatID string) (*model.Chat, error)
	GetChats(ctx context.Context, userID string) ([]*model.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error

	AddMessage(ctx context.Context, chatID string, message *model.Message) error
	GetMessagesByChatID(ctx context.Context, chatID string) ([]model.Message, error)
}

// WeddingRepository stores the weddings a user plans.
type WeddingRepository interface {
	ListWeddings(ctx context.Context, userID string) ([]model.Wedding, error)
	CreateWedding(ctx context.Context, wedding *model.Wedding) error
}

// SelectionStore remembers which wedding each user has selected.
type SelectionStore interface {
	// GetSelected returns "" when the user has not selected anything yet.
	GetSelected(ctx context.Context, userID string) (string, error)
	SetSelected(ctx context.Context, userID, weddingID string) error
}
