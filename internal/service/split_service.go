package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/patungan/internal/api"
	"github.com/mmynk/patungan/internal/middleware"
	"github.com/mmynk/patungan/internal/models"
	"github.com/mmynk/patungan/internal/storage"
)

// SplitService implements the public SplitService: stateless calculation and
// read-only access to shared bills.
type SplitService struct {
	store   storage.Store
	metrics *middleware.Metrics
	logger  *slog.Logger
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store, metrics *middleware.Metrics, logger *slog.Logger) *SplitService {
	return &SplitService{store: store, metrics: metrics, logger: logger}
}

// calculationSnapshot validates a stateless request and builds the snapshot it describes.
// Participant names double as IDs.
func calculationSnapshot(req *api.CalculateSplitRequest) (*models.Snapshot, error) {
	snap := &models.Snapshot{Splits: make(map[string][]models.SplitWeight)}

	seen := make(map[string]bool, len(req.Participants))
	for _, n := range req.Participants {
		name, err := requireName("participant name", n)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("participant %q is listed twice", name)
		}
		seen[name] = true
		snap.Participants = append(snap.Participants, models.Participant{ID: name, Name: name})
	}

	for i, in := range req.Items {
		name, err := requireName("item name", in.Name)
		if err != nil {
			return nil, err
		}
		price, err := validatePrice(in.Price)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		qty, err := validateQuantity(in.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		weights, err := validateWeights(in.Weights)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		for _, w := range weights {
			if !seen[w.ParticipantID] {
				return nil, fmt.Errorf("item %q: unknown participant %q", name, w.ParticipantID)
			}
		}

		id := fmt.Sprintf("item-%d", i+1)
		snap.Items = append(snap.Items, models.Item{ID: id, Name: name, UnitPrice: price, Quantity: qty})
		if len(weights) > 0 {
			snap.Splits[id] = weights
		}
	}

	policy, err := validatePolicy(req.AdjustmentsInput)
	if err != nil {
		return nil, err
	}
	snap.Bill.Policy = policy
	return snap, nil
}

// CalculateSplit allocates a bill passed in full with the request. Nothing is stored.
func (s *SplitService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	snap, err := calculationSnapshot(req.Msg)
	if err != nil {
		return nil, invalidArgument(err)
	}

	summary, _ := summarize(s.metrics, sourceCalculate, snap, true)
	s.logger.Debug("Split calculated",
		"participants", len(snap.Participants),
		"items", len(snap.Items),
		"total", summary.Total,
	)
	return connect.NewResponse(&api.CalculateSplitResponse{Summary: summary}), nil
}

// GetSharedBill returns the summary of a bill through its share token.
func (s *SplitService) GetSharedBill(ctx context.Context, req *connect.Request[api.GetSharedBillRequest]) (*connect.Response[api.GetSharedBillResponse], error) {
	if err := requireID("token", req.Msg.Token); err != nil {
		return nil, invalidArgument(err)
	}

	link, err := s.store.GetShareLink(ctx, req.Msg.Token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errors.New("share link not found"))
		}
		s.logger.Error("GetShareLink failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("GetShareLink failed"))
	}

	snap, err := s.store.GetSnapshot(ctx, link.BillID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errBillNotFound)
		}
		s.logger.Error("GetSnapshot failed", "bill_id", link.BillID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("GetSnapshot failed"))
	}

	summary, _ := summarize(s.metrics, sourceShared, snap, true)
	return connect.NewResponse(&api.GetSharedBillResponse{Title: snap.Bill.Title, Summary: summary}), nil
}
