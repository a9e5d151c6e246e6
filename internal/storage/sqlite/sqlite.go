// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// pragmas are applied to every pooled connection through the DSN.
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Title == "" {
		bill.Title = models.DefaultBillTitle
	}

	p := bill.Policy
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (id, owner_id, title, created_at, saved_at,
			discount_percent, discount_amount, tip_percent, tip_amount, tax_percent, tax_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.OwnerID, bill.Title, bill.CreatedAt, bill.SavedAt,
		p.DiscountPercent, p.DiscountAmount, p.TipPercent, p.TipAmount, p.TaxPercent, p.TaxAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

const billColumns = `id, owner_id, title, created_at, saved_at,
	discount_percent, discount_amount, tip_percent, tip_amount, tax_percent, tax_amount`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var savedAt sql.NullInt64
	var dp, da, tp, ta, xp, xa sql.NullFloat64
	if err := row.Scan(&bill.ID, &bill.OwnerID, &bill.Title, &bill.CreatedAt, &savedAt,
		&dp, &da, &tp, &ta, &xp, &xa); err != nil {
		return nil, err
	}
	if savedAt.Valid {
		bill.SavedAt = &savedAt.Int64
	}
	bill.Policy = models.AdjustmentPolicy{
		DiscountPercent: nullable(dp),
		DiscountAmount:  nullable(da),
		TipPercent:      nullable(tp),
		TipAmount:       nullable(ta),
		TaxPercent:      nullable(xp),
		TaxAmount:       nullable(xa),
	}
	return bill, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ?", billID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// ListBillsByOwner returns the owner's most recent bills.
func (s *SQLiteStore) ListBillsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// DeleteBill deletes a bill. Child rows go with it through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return expectAffected(res, "bill", billID)
}

// ResetBill clears a bill back to an empty state, keeping its title and owner.
func (s *SQLiteStore) ResetBill(ctx context.Context, billID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET discount_percent = NULL, discount_amount = NULL, tip_percent = NULL,
			tip_amount = NULL, tax_percent = NULL, tax_amount = NULL
		 WHERE id = ?`, billID)
	if err != nil {
		return fmt.Errorf("failed to clear policy: %w", err)
	}
	if err := expectAffected(res, "bill", billID); err != nil {
		return err
	}

	// Splits cascade from both items and participants.
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE bill_id = ?", billID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkBillSaved stamps saved_at with the current time.
func (s *SQLiteStore) MarkBillSaved(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE bills SET saved_at = ? WHERE id = ?", time.Now().Unix(), billID)
	if err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return expectAffected(res, "bill", billID)
}

// UpdatePolicy overwrites the six adjustment fields.
func (s *SQLiteStore) UpdatePolicy(ctx context.Context, billID string, p models.AdjustmentPolicy) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills SET discount_percent = ?, discount_amount = ?, tip_percent = ?,
			tip_amount = ?, tax_percent = ?, tax_amount = ?
		 WHERE id = ?`,
		p.DiscountPercent, p.DiscountAmount, p.TipPercent, p.TipAmount, p.TaxPercent, p.TaxAmount, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}
	return expectAffected(res, "bill", billID)
}

// GetSnapshot loads everything the allocation engine needs for one bill.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, billID string) (*models.Snapshot, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	participants, err := s.ListParticipants(ctx, billID)
	if err != nil {
		return nil, err
	}
	items, err := s.ListItems(ctx, billID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.item_id, s.participant_id, s.weight
		 FROM item_splits s JOIN items i ON i.id = s.item_id
		 WHERE i.bill_id = ?
		 ORDER BY s.rowid`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string][]models.SplitWeight)
	for rows.Next() {
		var itemID string
		var w models.SplitWeight
		if err := rows.Scan(&itemID, &w.ParticipantID, &w.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits[itemID] = append(splits[itemID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return &models.Snapshot{
		Bill:         *bill,
		Participants: participants,
		Items:        items,
		Splits:       splits,
	}, nil
}

// expectAffected turns a zero-row write into a wrapped storage.ErrNotFound.
func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
