package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func newTestBill(t *testing.T, store *SQLiteStore, ownerID string) *models.Bill {
	t.Helper()
	bill := &models.Bill{OwnerID: ownerID}
	if err := store.CreateBill(context.Background(), bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	return bill
}

func f64(v float64) *float64 { return &v }

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, store, "alice")

	t.Run("New is idempotent on an existing database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "twice.db")
		first, err := New(path)
		if err != nil {
			t.Fatalf("first New failed: %v", err)
		}
		first.Close()
		second, err := New(path)
		if err != nil {
			t.Fatalf("second New failed: %v", err)
		}
		second.Close()
	})

	t.Run("CreateBill generates ID and default title", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)

		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.Title != models.DefaultBillTitle {
			t.Errorf("Title = %q, want %q", bill.Title, models.DefaultBillTitle)
		}
		if bill.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetBill returns ErrNotFound for nonexistent bill", func(t *testing.T) {
		_, err := store.GetBill(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdatePolicy round-trips nullable fields", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		policy := models.AdjustmentPolicy{DiscountAmount: f64(5000), TipPercent: f64(10)}
		if err := store.UpdatePolicy(ctx, bill.ID, policy); err != nil {
			t.Fatalf("UpdatePolicy failed: %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Policy.DiscountAmount == nil || *got.Policy.DiscountAmount != 5000 {
			t.Errorf("DiscountAmount = %v, want 5000", got.Policy.DiscountAmount)
		}
		if got.Policy.TipPercent == nil || *got.Policy.TipPercent != 10 {
			t.Errorf("TipPercent = %v, want 10", got.Policy.TipPercent)
		}
		if got.Policy.DiscountPercent != nil || got.Policy.TaxAmount != nil || got.Policy.TaxPercent != nil || got.Policy.TipAmount != nil {
			t.Errorf("Expected unset fields to stay nil, got %+v", got.Policy)
		}

		// Nulling a subset independently
		if err := store.UpdatePolicy(ctx, bill.ID, models.AdjustmentPolicy{TipPercent: f64(10)}); err != nil {
			t.Fatalf("UpdatePolicy failed: %v", err)
		}
		got, _ = store.GetBill(ctx, bill.ID)
		if got.Policy.DiscountAmount != nil {
			t.Errorf("Expected DiscountAmount to be cleared, got %v", *got.Policy.DiscountAmount)
		}
	})

	t.Run("UpdatePolicy on missing bill", func(t *testing.T) {
		err := store.UpdatePolicy(ctx, "missing", models.AdjustmentPolicy{})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Participants keep creation order", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		names := []string{"Zed", "Budi", "Ani", "Citra"}
		created, err := store.AddParticipants(ctx, bill.ID, names)
		if err != nil {
			t.Fatalf("AddParticipants failed: %v", err)
		}
		if len(created) != len(names) {
			t.Fatalf("created %d participants, want %d", len(created), len(names))
		}

		listed, err := store.ListParticipants(ctx, bill.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		for i, p := range listed {
			if p.Name != names[i] {
				t.Errorf("participant %d = %s, want %s", i, p.Name, names[i])
			}
		}
	})

	t.Run("Item update and delete are scoped to the bill", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		other := newTestBill(t, store, owner.ID)
		item := &models.Item{BillID: bill.ID, Name: "Sate", UnitPrice: 25000}
		if err := store.AddItem(ctx, item); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
		if item.Quantity != 1 {
			t.Errorf("Quantity = %d, want default 1", item.Quantity)
		}

		qty := 3
		if err := store.UpdateItem(ctx, other.ID, item.ID, models.ItemPatch{Quantity: &qty}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateItem on wrong bill: expected ErrNotFound, got %v", err)
		}
		if err := store.UpdateItem(ctx, bill.ID, item.ID, models.ItemPatch{Quantity: &qty}); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		items, err := store.ListItems(ctx, bill.ID)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(items) != 1 || items[0].Quantity != 3 || items[0].Name != "Sate" {
			t.Errorf("unexpected items after update: %+v", items)
		}

		if err := store.DeleteItem(ctx, other.ID, item.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteItem on wrong bill: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteItem(ctx, bill.ID, item.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
	})

	t.Run("Splits replace and cascade", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		ps, _ := store.AddParticipants(ctx, bill.ID, []string{"Ani", "Budi"})
		item := &models.Item{BillID: bill.ID, Name: "Pizza", UnitPrice: 100000, Quantity: 1}
		if err := store.AddItem(ctx, item); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}

		if err := store.SetItemSplits(ctx, bill.ID, item.ID, []models.SplitWeight{
			{ParticipantID: ps[0].ID, Weight: 1},
			{ParticipantID: ps[1].ID, Weight: 3},
		}); err != nil {
			t.Fatalf("SetItemSplits failed: %v", err)
		}
		if err := store.SetItemSplits(ctx, bill.ID, item.ID, []models.SplitWeight{
			{ParticipantID: ps[1].ID, Weight: 2},
		}); err != nil {
			t.Fatalf("SetItemSplits (replace) failed: %v", err)
		}

		weights, err := store.ListItemSplits(ctx, item.ID)
		if err != nil {
			t.Fatalf("ListItemSplits failed: %v", err)
		}
		if len(weights) != 1 || weights[0].ParticipantID != ps[1].ID || weights[0].Weight != 2 {
			t.Errorf("unexpected weights after replace: %+v", weights)
		}

		if err := store.DeleteParticipant(ctx, bill.ID, ps[1].ID); err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}
		weights, _ = store.ListItemSplits(ctx, item.ID)
		if len(weights) != 0 {
			t.Errorf("Expected splits to cascade with participant, got %+v", weights)
		}
	})

	t.Run("SetItemSplits rejects participants from another bill", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		other := newTestBill(t, store, owner.ID)
		stranger, _ := store.AddParticipants(ctx, other.ID, []string{"Eko"})
		item := &models.Item{BillID: bill.ID, Name: "Teh", UnitPrice: 5000, Quantity: 1}
		store.AddItem(ctx, item)

		err := store.SetItemSplits(ctx, bill.ID, item.ID, []models.SplitWeight{{ParticipantID: stranger[0].ID, Weight: 1}})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetSnapshot loads the full bill", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		ps, _ := store.AddParticipants(ctx, bill.ID, []string{"Ani", "Budi"})
		first := &models.Item{BillID: bill.ID, Name: "Nasi", UnitPrice: 10000, Quantity: 2}
		second := &models.Item{BillID: bill.ID, Name: "Ayam", UnitPrice: 20000, Quantity: 1}
		store.AddItem(ctx, first)
		store.AddItem(ctx, second)
		store.SetItemSplits(ctx, bill.ID, second.ID, []models.SplitWeight{{ParticipantID: ps[0].ID, Weight: 1}})
		store.UpdatePolicy(ctx, bill.ID, models.AdjustmentPolicy{TaxPercent: f64(11)})

		snap, err := store.GetSnapshot(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetSnapshot failed: %v", err)
		}
		if len(snap.Participants) != 2 || len(snap.Items) != 2 {
			t.Fatalf("unexpected snapshot sizes: %d participants, %d items", len(snap.Participants), len(snap.Items))
		}
		if snap.Items[0].ID != first.ID {
			t.Errorf("Expected items in creation order")
		}
		if _, ok := snap.Splits[first.ID]; ok {
			t.Errorf("Expected no split recorded for %s", first.Name)
		}
		if len(snap.Splits[second.ID]) != 1 {
			t.Errorf("Expected one weight for %s, got %d", second.Name, len(snap.Splits[second.ID]))
		}
		if snap.Bill.Policy.TaxPercent == nil || *snap.Bill.Policy.TaxPercent != 11 {
			t.Errorf("Expected tax percent 11, got %v", snap.Bill.Policy.TaxPercent)
		}
	})

	t.Run("ResetBill empties the bill", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		ps, _ := store.AddParticipants(ctx, bill.ID, []string{"Ani"})
		item := &models.Item{BillID: bill.ID, Name: "Kopi", UnitPrice: 15000, Quantity: 1}
		store.AddItem(ctx, item)
		store.SetItemSplits(ctx, bill.ID, item.ID, []models.SplitWeight{{ParticipantID: ps[0].ID, Weight: 1}})
		store.UpdatePolicy(ctx, bill.ID, models.AdjustmentPolicy{DiscountPercent: f64(20)})

		if err := store.ResetBill(ctx, bill.ID); err != nil {
			t.Fatalf("ResetBill failed: %v", err)
		}

		snap, err := store.GetSnapshot(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetSnapshot failed: %v", err)
		}
		if len(snap.Participants) != 0 || len(snap.Items) != 0 || len(snap.Splits) != 0 {
			t.Errorf("Expected empty bill after reset, got %+v", snap)
		}
		if snap.Bill.Policy != (models.AdjustmentPolicy{}) {
			t.Errorf("Expected cleared policy, got %+v", snap.Bill.Policy)
		}
	})

	t.Run("DeleteBill cascades to share links", func(t *testing.T) {
		bill := newTestBill(t, store, owner.ID)
		link, err := store.CreateShareLink(ctx, bill.ID)
		if err != nil {
			t.Fatalf("CreateShareLink failed: %v", err)
		}
		if got, err := store.GetShareLink(ctx, link.Token); err != nil || got.BillID != bill.ID {
			t.Fatalf("GetShareLink = %+v, %v", got, err)
		}

		if err := store.DeleteBill(ctx, bill.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if _, err := store.GetShareLink(ctx, link.Token); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected share link to be gone, got %v", err)
		}
		if err := store.DeleteBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("ListBillsByOwner and MarkBillSaved", func(t *testing.T) {
		other := newTestUser(t, store, "budi")
		first := newTestBill(t, store, other.ID)
		second := newTestBill(t, store, other.ID)

		if err := store.MarkBillSaved(ctx, first.ID); err != nil {
			t.Fatalf("MarkBillSaved failed: %v", err)
		}

		bills, err := store.ListBillsByOwner(ctx, other.ID, 10)
		if err != nil {
			t.Fatalf("ListBillsByOwner failed: %v", err)
		}
		if len(bills) != 2 {
			t.Fatalf("got %d bills, want 2", len(bills))
		}
		if bills[0].ID != second.ID {
			t.Errorf("Expected newest bill first")
		}
		if bills[1].SavedAt == nil {
			t.Errorf("Expected saved_at to be set on %s", first.ID)
		}

		limited, _ := store.ListBillsByOwner(ctx, other.ID, 1)
		if len(limited) != 1 {
			t.Errorf("limit not applied: got %d", len(limited))
		}
	})

	t.Run("Users are unique by username and email ignoring case", func(t *testing.T) {
		exists, err := store.UserExists(ctx, "ALICE", "nobody@example.com")
		if err != nil {
			t.Fatalf("UserExists failed: %v", err)
		}
		if !exists {
			t.Error("Expected username match ignoring case")
		}
		exists, _ = store.UserExists(ctx, "nobody", "Alice@Example.com")
		if !exists {
			t.Error("Expected email match ignoring case")
		}
		exists, _ = store.UserExists(ctx, "nobody", "nobody@example.com")
		if exists {
			t.Error("Expected no match")
		}

		got, err := store.GetUserByEmail(ctx, "ALICE@example.com")
		if err != nil || got.ID != owner.ID {
			t.Errorf("GetUserByEmail = %+v, %v", got, err)
		}
		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
