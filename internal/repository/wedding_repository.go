package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"enchanted-day/backend/internal/model"
)

type sqliteWeddingRepository struct {
	db *sql.DB
}

func NewSQLiteWeddingRepository(db *sql.DB) WeddingRepository {
	return &sqliteWeddingRepository{db: db}
}

// ListWeddings returns the user's weddings, oldest first.
func (r *sqliteWeddingRepository) ListWeddings(ctx context.Context, userID string) ([]model.Wedding, error) {
	query := `
		SELECT id, user_id, couple_names, wedding_date, status, overall_progress, created_at
		FROM weddings
		WHERE user_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weddings := []model.Wedding{}
	for rows.Next() {
		var w model.Wedding
		var names string
		if err := rows.Scan(&w.ID, &w.UserID, &names, &w.WeddingDate, &w.Status, &w.OverallProgress, &w.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(names), &w.CoupleNames); err != nil {
			return nil, fmt.Errorf("could not decode couple names of wedding %s: %w", w.ID, err)
		}
		weddings = append(weddings, w)
	}
	return weddings, rows.Err()
}

func (r *sqliteWeddingRepository) CreateWedding(ctx context.Context, w *model.Wedding) error {
	names, err := json.Marshal(w.CoupleNames)
	if err != nil {
		return fmt.Errorf("could not encode couple names: %w", err)
	}
	query := `
		INSERT INTO weddings (id, user_id, couple_names, wedding_date, status, overall_progress, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query, w.ID, w.UserID, string(names), w.WeddingDate, w.Status, w.OverallProgress, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert wedding: %w", err)
	}
	return nil
}
