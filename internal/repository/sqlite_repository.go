package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"enchanted-day/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateChat(ctx context.Context, chat *model.Chat) error {
	query := "INSERT INTO chats (id, user_id, wedding_id, title, model, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, chat.ID, chat.UserID, chat.WeddingID, chat.Title, chat.Model, chat.CreatedAt, chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not insert chat: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	query := "SELECT id, user_id, wedding_id, title, model, created_at, updated_at FROM chats WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, chatID)
	chat, err := scanChat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return chat, nil
}

func (r *sqliteRepository) GetChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	query := "SELECT id, user_id, wedding_id, title, model, created_at, updated_at FROM chats WHERE user_id = ? ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []*model.Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChat(s scanner) (*model.Chat, error) {
	var chat model.Chat
	var weddingID sql.NullString
	if err := s.Scan(&chat.ID, &chat.UserID, &weddingID, &chat.Title, &chat.Model, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return nil, err
	}
	if weddingID.Valid {
		chat.WeddingID = &weddingID.String
	}
	return &chat, nil
}

func (r *sqliteRepository) DeleteChat(ctx context.Context, chatID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", chatID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMessage inserts the message and bumps the chat's updated_at in one
// transaction.
func (r *sqliteRepository) AddMessage(ctx context.Context, chatID string, message *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var actions sql.NullString
	if len(message.Actions) > 0 && string(message.Actions) != "null" {
		actions = sql.NullString{String: string(message.Actions), Valid: true}
	}

	insertMsgQuery := `
		INSERT INTO messages (id, chat_id, role, content, thinking, agent, model, actions, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertMsgQuery,
		message.ID,
		chatID,
		message.Role,
		message.Content,
		message.Thinking,
		message.Agent,
		message.Model,
		actions,
		message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE chats SET updated_at = ? WHERE id = ?", time.Now().UTC(), chatID)
	if err != nil {
		return fmt.Errorf("could not update chat timestamp: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessagesByChatID(ctx context.Context, chatID string) ([]model.Message, error) {
	query := `
		SELECT id, role, content, thinking, agent, model, actions, timestamp
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var msg model.Message
		var agent, modelName, actions sql.NullString
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.Thinking, &agent, &modelName, &actions, &msg.Timestamp); err != nil {
			return nil, err
		}
		if agent.Valid {
			msg.Agent = &agent.String
		}
		if modelName.Valid {
			msg.Model = &modelName.String
		}
		if actions.Valid {
			msg.Actions = json.RawMessage(actions.String)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
