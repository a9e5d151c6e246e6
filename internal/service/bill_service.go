package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/patungan/internal/api"
	"github.com/mmynk/patungan/internal/auth"
	"github.com/mmynk/patungan/internal/middleware"
	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 50
)

var errBillNotFound = errors.New("bill not found")

// BillService implements the authenticated BillService.
// Every bill-scoped call first checks that the caller owns the bill.
type BillService struct {
	store   storage.Store
	metrics *middleware.Metrics
	logger  *slog.Logger
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, metrics *middleware.Metrics, logger *slog.Logger) *BillService {
	return &BillService{store: store, metrics: metrics, logger: logger}
}

// storeError maps a storage error onto a Connect error, logging anything unexpected.
func (s *BillService) storeError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	s.logger.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, fmt.Errorf("%s failed", op))
}

// ownedBill loads a bill and checks it belongs to the caller.
// A bill owned by someone else is reported exactly like a missing one.
func (s *BillService) ownedBill(ctx context.Context, billID string) (*models.Bill, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if err := requireID("bill_id", billID); err != nil {
		return nil, invalidArgument(err)
	}

	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errBillNotFound)
		}
		return nil, s.storeError("GetBill", err)
	}
	if bill.OwnerID != userID {
		s.logger.Debug("Bill owned by another user", "bill_id", billID, "user_id", userID)
		return nil, connect.NewError(connect.CodeNotFound, errBillNotFound)
	}
	return bill, nil
}

// ownedSnapshot is ownedBill followed by a full load.
func (s *BillService) ownedSnapshot(ctx context.Context, billID string) (*models.Snapshot, error) {
	if _, err := s.ownedBill(ctx, billID); err != nil {
		return nil, err
	}
	snap, err := s.store.GetSnapshot(ctx, billID)
	if err != nil {
		return nil, s.storeError("GetSnapshot", err)
	}
	return snap, nil
}

// findItem returns one item of a bill together with its weights.
func (s *BillService) findItem(ctx context.Context, billID, itemID string) (api.Item, error) {
	items, err := s.store.ListItems(ctx, billID)
	if err != nil {
		return api.Item{}, s.storeError("ListItems", err)
	}
	for _, item := range items {
		if item.ID != itemID {
			continue
		}
		weights, err := s.store.ListItemSplits(ctx, itemID)
		if err != nil {
			return api.Item{}, s.storeError("ListItemSplits", err)
		}
		return toAPIItem(item, weights), nil
	}
	return api.Item{}, connect.NewError(connect.CodeNotFound, fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound))
}

// CreateBill creates an empty bill owned by the caller.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	bill := &models.Bill{OwnerID: userID, Title: strings.TrimSpace(req.Msg.Title)}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, s.storeError("CreateBill", err)
	}

	s.logger.Info("Bill created", "bill_id", bill.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateBillResponse{Bill: toAPIBill(bill)}), nil
}

// GetBill returns the full contents of a bill.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	snap, err := s.ownedSnapshot(ctx, req.Msg.BillID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetBillResponse{
		Bill:         toAPIBill(&snap.Bill),
		Participants: toAPIParticipants(snap.Participants),
		Items:        toAPIItems(snap.Items, snap.Splits),
		Adjustments:  toAPIAdjustments(snap.Bill.Policy),
	}), nil
}

// ListBills returns the caller's bill history with computed totals.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	limit := req.Msg.Limit
	switch {
	case limit < 0:
		return nil, invalidArgument(errors.New("limit must not be negative"))
	case limit == 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	bills, err := s.store.ListBillsByOwner(ctx, userID, limit)
	if err != nil {
		return nil, s.storeError("ListBillsByOwner", err)
	}

	entries := make([]api.BillHistoryEntry, 0, len(bills))
	for _, bill := range bills {
		snap, err := s.store.GetSnapshot(ctx, bill.ID)
		if err != nil {
			return nil, s.storeError("GetSnapshot", err)
		}
		summary, _ := summarize(s.metrics, sourceHistory, snap, false)
		entries = append(entries, api.BillHistoryEntry{
			Bill:             toAPIBill(bill),
			ParticipantCount: len(snap.Participants),
			ItemCount:        len(snap.Items),
			Subtotal:         summary.Subtotal,
			Discount:         summary.Discount,
			Tip:              summary.Tip,
			Tax:              summary.Tax,
			Total:            summary.Total,
		})
	}

	return connect.NewResponse(&api.ListBillsResponse{Bills: entries}), nil
}

// SaveBill marks the bill as saved to history.
func (s *BillService) SaveBill(ctx context.Context, req *connect.Request[api.SaveBillRequest]) (*connect.Response[api.SaveBillResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := s.store.MarkBillSaved(ctx, req.Msg.BillID); err != nil {
		return nil, s.storeError("MarkBillSaved", err)
	}
	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, s.storeError("GetBill", err)
	}
	return connect.NewResponse(&api.SaveBillResponse{Bill: toAPIBill(bill)}), nil
}

// DeleteBill permanently removes a bill and everything attached to it.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		return nil, s.storeError("DeleteBill", err)
	}
	s.logger.Info("Bill deleted", "bill_id", req.Msg.BillID)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// ResetBill empties a bill, keeping its title.
func (s *BillService) ResetBill(ctx context.Context, req *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := s.store.ResetBill(ctx, req.Msg.BillID); err != nil {
		return nil, s.storeError("ResetBill", err)
	}
	return connect.NewResponse(&api.ResetBillResponse{}), nil
}

// AddParticipants appends named participants to a bill.
func (s *BillService) AddParticipants(ctx context.Context, req *connect.Request[api.AddParticipantsRequest]) (*connect.Response[api.AddParticipantsResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if len(req.Msg.Names) == 0 {
		return nil, invalidArgument(errors.New("at least one name is required"))
	}
	names := make([]string, len(req.Msg.Names))
	for i, n := range req.Msg.Names {
		name, err := requireName("name", n)
		if err != nil {
			return nil, invalidArgument(err)
		}
		names[i] = name
	}

	participants, err := s.store.AddParticipants(ctx, req.Msg.BillID, names)
	if err != nil {
		return nil, s.storeError("AddParticipants", err)
	}
	return connect.NewResponse(&api.AddParticipantsResponse{Participants: toAPIParticipants(participants)}), nil
}

// ListParticipants returns a bill's participants in the order they were added.
func (s *BillService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	participants, err := s.store.ListParticipants(ctx, req.Msg.BillID)
	if err != nil {
		return nil, s.storeError("ListParticipants", err)
	}
	return connect.NewResponse(&api.ListParticipantsResponse{Participants: toAPIParticipants(participants)}), nil
}

// RemoveParticipant deletes a participant and their split weights.
func (s *BillService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := requireID("participant_id", req.Msg.ParticipantID); err != nil {
		return nil, invalidArgument(err)
	}
	if err := s.store.DeleteParticipant(ctx, req.Msg.BillID, req.Msg.ParticipantID); err != nil {
		return nil, s.storeError("DeleteParticipant", err)
	}
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// AddItem adds a line item to a bill.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Msg.Name)
	if err != nil {
		return nil, invalidArgument(err)
	}
	price, err := validatePrice(req.Msg.Price)
	if err != nil {
		return nil, invalidArgument(err)
	}
	qty, err := validateQuantity(req.Msg.Quantity)
	if err != nil {
		return nil, invalidArgument(err)
	}

	item := &models.Item{BillID: req.Msg.BillID, Name: name, UnitPrice: price, Quantity: qty}
	if err := s.store.AddItem(ctx, item); err != nil {
		return nil, s.storeError("AddItem", err)
	}
	return connect.NewResponse(&api.AddItemResponse{Item: toAPIItem(*item, nil)}), nil
}

// ListItems returns a bill's items with their recorded weights.
func (s *BillService) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	items, err := s.store.ListItems(ctx, req.Msg.BillID)
	if err != nil {
		return nil, s.storeError("ListItems", err)
	}

	out := make([]api.Item, len(items))
	for i, item := range items {
		weights, err := s.store.ListItemSplits(ctx, item.ID)
		if err != nil {
			return nil, s.storeError("ListItemSplits", err)
		}
		out[i] = toAPIItem(item, weights)
	}
	return connect.NewResponse(&api.ListItemsResponse{Items: out}), nil
}

// UpdateItem changes the name, price or quantity of an item.
func (s *BillService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := requireID("item_id", req.Msg.ItemID); err != nil {
		return nil, invalidArgument(err)
	}
	patch, err := validateItemPatch(req.Msg)
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := s.store.UpdateItem(ctx, req.Msg.BillID, req.Msg.ItemID, patch); err != nil {
		return nil, s.storeError("UpdateItem", err)
	}
	item, err := s.findItem(ctx, req.Msg.BillID, req.Msg.ItemID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.UpdateItemResponse{Item: item}), nil
}

// RemoveItem deletes an item and its weights.
func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := requireID("item_id", req.Msg.ItemID); err != nil {
		return nil, invalidArgument(err)
	}
	if err := s.store.DeleteItem(ctx, req.Msg.BillID, req.Msg.ItemID); err != nil {
		return nil, s.storeError("DeleteItem", err)
	}
	return connect.NewResponse(&api.RemoveItemResponse{}), nil
}

// SetItemSplits replaces the weights of one item. An empty map clears the split,
// which makes the item fall back to an equal division.
func (s *BillService) SetItemSplits(ctx context.Context, req *connect.Request[api.SetItemSplitsRequest]) (*connect.Response[api.SetItemSplitsResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	if err := requireID("item_id", req.Msg.ItemID); err != nil {
		return nil, invalidArgument(err)
	}
	weights, err := validateWeights(req.Msg.Weights)
	if err != nil {
		return nil, invalidArgument(err)
	}

	participants, err := s.store.ListParticipants(ctx, req.Msg.BillID)
	if err != nil {
		return nil, s.storeError("ListParticipants", err)
	}
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}
	for _, w := range weights {
		if !known[w.ParticipantID] {
			return nil, invalidArgument(fmt.Errorf("participant %s is not on this bill", w.ParticipantID))
		}
	}

	if err := s.store.SetItemSplits(ctx, req.Msg.BillID, req.Msg.ItemID, weights); err != nil {
		return nil, s.storeError("SetItemSplits", err)
	}
	item, err := s.findItem(ctx, req.Msg.BillID, req.Msg.ItemID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.SetItemSplitsResponse{Item: item}), nil
}

// SetAdjustments overwrites the discount, tip and tax policy. Omitted fields become null.
func (s *BillService) SetAdjustments(ctx context.Context, req *connect.Request[api.SetAdjustmentsRequest]) (*connect.Response[api.SetAdjustmentsResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	policy, err := validatePolicy(req.Msg.AdjustmentsInput)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := s.store.UpdatePolicy(ctx, req.Msg.BillID, policy); err != nil {
		return nil, s.storeError("UpdatePolicy", err)
	}
	return connect.NewResponse(&api.SetAdjustmentsResponse{Adjustments: toAPIAdjustments(policy)}), nil
}

// GetSummary allocates the bill across its participants.
func (s *BillService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	snap, err := s.ownedSnapshot(ctx, req.Msg.BillID)
	if err != nil {
		return nil, err
	}
	summary, _ := summarize(s.metrics, sourceSummary, snap, false)
	return connect.NewResponse(&api.GetSummaryResponse{Summary: summary}), nil
}

// CreateShareLink issues a public read-only token for the bill.
func (s *BillService) CreateShareLink(ctx context.Context, req *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error) {
	if _, err := s.ownedBill(ctx, req.Msg.BillID); err != nil {
		return nil, err
	}
	link, err := s.store.CreateShareLink(ctx, req.Msg.BillID)
	if err != nil {
		return nil, s.storeError("CreateShareLink", err)
	}
	s.logger.Info("Share link created", "bill_id", req.Msg.BillID)
	return connect.NewResponse(&api.CreateShareLinkResponse{Token: link.Token}), nil
}
