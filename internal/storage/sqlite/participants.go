package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

// AddParticipants inserts participants in order and returns the created records.
func (s *SQLiteStore) AddParticipants(ctx context.Context, billID string, names []string) ([]models.Participant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := make([]models.Participant, 0, len(names))
	for _, name := range names {
		p := models.Participant{ID: uuid.New().String(), BillID: billID, Name: name}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO participants (id, bill_id, name) VALUES (?, ?, ?)",
			p.ID, p.BillID, p.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to insert participant: %w", err)
		}
		created = append(created, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// ListParticipants returns participants in the order they were added.
func (s *SQLiteStore) ListParticipants(ctx context.Context, billID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, name FROM participants WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.BillID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// DeleteParticipant removes one participant. Its split weights cascade.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, billID, participantID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND bill_id = ?",
		participantID, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return expectAffected(res, "participant", participantID)
}

// participantIDs returns the set of participant IDs on a bill.
func (s *SQLiteStore) participantIDs(ctx context.Context, billID string) (map[string]bool, error) {
	participants, err := s.ListParticipants(ctx, billID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(participants))
	for _, p := range participants {
		ids[p.ID] = true
	}
	return ids, nil
}

// SetItemSplits replaces an item's weights in one transaction.
// Every weight must name a participant of the same bill.
func (s *SQLiteStore) SetItemSplits(ctx context.Context, billID, itemID string, weights []models.SplitWeight) error {
	if _, err := s.getItem(ctx, billID, itemID); err != nil {
		return err
	}
	known, err := s.participantIDs(ctx, billID)
	if err != nil {
		return err
	}
	for _, w := range weights {
		if !known[w.ParticipantID] {
			return fmt.Errorf("participant %s: %w", w.ParticipantID, storage.ErrNotFound)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM item_splits WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	for _, w := range weights {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_splits (item_id, participant_id, weight) VALUES (?, ?, ?)",
			itemID, w.ParticipantID, w.Weight,
		); err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListItemSplits returns the weights recorded for one item.
func (s *SQLiteStore) ListItemSplits(ctx context.Context, itemID string) ([]models.SplitWeight, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, weight FROM item_splits WHERE item_id = ? ORDER BY rowid",
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var weights []models.SplitWeight
	for rows.Next() {
		var w models.SplitWeight
		if err := rows.Scan(&w.ParticipantID, &w.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		weights = append(weights, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return weights, nil
}
