package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

// AddItem inserts an item. A zero quantity is stored as 1.
func (s *SQLiteStore) AddItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO items (id, bill_id, name, unit_price, quantity) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.BillID, item.Name, item.UnitPrice, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// ListItems returns items in the order they were added.
func (s *SQLiteStore) ListItems(ctx context.Context, billID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, name, unit_price, quantity FROM items WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) getItem(ctx context.Context, billID, itemID string) (*models.Item, error) {
	var item models.Item
	err := s.db.QueryRowContext(ctx,
		"SELECT id, bill_id, name, unit_price, quantity FROM items WHERE id = ? AND bill_id = ?",
		itemID, billID,
	).Scan(&item.ID, &item.BillID, &item.Name, &item.UnitPrice, &item.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// UpdateItem applies the set fields of patch to one item.
func (s *SQLiteStore) UpdateItem(ctx context.Context, billID, itemID string, patch models.ItemPatch) error {
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.UnitPrice != nil {
		sets = append(sets, "unit_price = ?")
		args = append(args, *patch.UnitPrice)
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	args = append(args, itemID, billID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET "+strings.Join(sets, ", ")+" WHERE id = ? AND bill_id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return expectAffected(res, "item", itemID)
}

// DeleteItem removes one item. Its split weights cascade.
func (s *SQLiteStore) DeleteItem(ctx context.Context, billID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM items WHERE id = ? AND bill_id = ?",
		itemID, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return expectAffected(res, "item", itemID)
}
