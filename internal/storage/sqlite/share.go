package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

// CreateShareLink issues a random token for a bill.
func (s *SQLiteStore) CreateShareLink(ctx context.Context, billID string) (*models.ShareLink, error) {
	link := &models.ShareLink{
		Token:     uuid.New().String(),
		BillID:    billID,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO share_links (token, bill_id, created_at) VALUES (?, ?, ?)",
		link.Token, link.BillID, link.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert share link: %w", err)
	}
	return link, nil
}

// GetShareLink resolves a token to its bill.
func (s *SQLiteStore) GetShareLink(ctx context.Context, token string) (*models.ShareLink, error) {
	link := &models.ShareLink{}
	err := s.db.QueryRowContext(ctx,
		"SELECT token, bill_id, created_at FROM share_links WHERE token = ?",
		token,
	).Scan(&link.Token, &link.BillID, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("share link: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}
	return link, nil
}
