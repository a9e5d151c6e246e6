// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/patungan/internal/models"
)

// ErrNotFound is wrapped by every error a Store returns for a missing record.
var ErrNotFound = errors.New("not found")

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Bill-scoped methods take the bill ID alongside the child ID so that a child
// record belonging to another bill is reported as not found.
type Store interface {
	UserStore

	// CreateBill persists a new bill. ID and CreatedAt are populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBillsByOwner returns the owner's bills, newest first, at most limit.
	ListBillsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Bill, error)

	// DeleteBill removes a bill together with its participants, items, splits and share links.
	DeleteBill(ctx context.Context, billID string) error

	// ResetBill removes participants, items and splits and clears the adjustment policy.
	ResetBill(ctx context.Context, billID string) error

	// MarkBillSaved records the current time as the bill's saved_at.
	MarkBillSaved(ctx context.Context, billID string) error

	// UpdatePolicy overwrites all six adjustment fields; nil fields are stored as NULL.
	UpdatePolicy(ctx context.Context, billID string, policy models.AdjustmentPolicy) error

	// AddParticipants appends participants to a bill in the given order.
	AddParticipants(ctx context.Context, billID string, names []string) ([]models.Participant, error)

	// ListParticipants returns a bill's participants in creation order.
	ListParticipants(ctx context.Context, billID string) ([]models.Participant, error)

	// DeleteParticipant removes a participant and its split weights.
	DeleteParticipant(ctx context.Context, billID, participantID string) error

	// AddItem persists a new item. ID is populated by the store.
	AddItem(ctx context.Context, item *models.Item) error

	// ListItems returns a bill's items in creation order.
	ListItems(ctx context.Context, billID string) ([]models.Item, error)

	// UpdateItem applies the non-nil fields of patch.
	UpdateItem(ctx context.Context, billID, itemID string, patch models.ItemPatch) error

	// DeleteItem removes an item and its split weights.
	DeleteItem(ctx context.Context, billID, itemID string) error

	// SetItemSplits replaces all weights recorded for an item.
	SetItemSplits(ctx context.Context, billID, itemID string, weights []models.SplitWeight) error

	// ListItemSplits returns the weights recorded for an item.
	ListItemSplits(ctx context.Context, itemID string) ([]models.SplitWeight, error)

	// GetSnapshot loads a bill with its participants, items and splits.
	GetSnapshot(ctx context.Context, billID string) (*models.Snapshot, error)

	// CreateShareLink issues a new public token for a bill.
	CreateShareLink(ctx context.Context, billID string) (*models.ShareLink, error)

	// GetShareLink resolves a public token.
	GetShareLink(ctx context.Context, token string) (*models.ShareLink, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore defines user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UserExists reports whether the username or email is already registered (case-insensitive).
	UserExists(ctx context.Context, username, email string) (bool, error)
}
