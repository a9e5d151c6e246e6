package service

import (
	"github.com/mmynk/patungan/internal/api"
	"github.com/mmynk/patungan/internal/calculator"
	"github.com/mmynk/patungan/internal/middleware"
	"github.com/mmynk/patungan/internal/models"
)

// Allocation sources, used as the metric label.
const (
	sourceSummary   = "summary"
	sourceHistory   = "history"
	sourceShared    = "shared"
	sourceCalculate = "calculate"
	sourceReceipt   = "receipt"
)

// summarize is the one place handlers turn a snapshot into totals.
func summarize(metrics *middleware.Metrics, source string, snap *models.Snapshot, withItems bool) (api.Summary, *calculator.Allocation) {
	metrics.ObserveAllocation(source)
	alloc := calculator.Allocate(snap.Participants, snap.Items, snap.Splits, snap.Bill.Policy)

	summary := api.Summary{
		Participants: toAPIParticipants(snap.Participants),
		Subtotal:     alloc.Subtotal,
		Discount:     alloc.Discount,
		Tip:          alloc.Tip,
		Tax:          alloc.Tax,
		Total:        alloc.Total,
		Totals:       alloc.Totals,
	}
	if withItems {
		summary.Items = toAPIItems(snap.Items, snap.Splits)
	}
	return summary, alloc
}

func toAPIBill(b *models.Bill) api.Bill {
	return api.Bill{ID: b.ID, Title: b.Title, CreatedAt: b.CreatedAt, SavedAt: b.SavedAt}
}

func toAPIParticipants(ps []models.Participant) []api.Participant {
	out := make([]api.Participant, len(ps))
	for i, p := range ps {
		out[i] = api.Participant{ID: p.ID, Name: p.Name}
	}
	return out
}

func toAPIItem(item models.Item, weights []models.SplitWeight) api.Item {
	out := api.Item{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.UnitPrice,
		Quantity:  item.Quantity,
		LineTotal: item.LineTotal(),
	}
	if len(weights) > 0 {
		out.Weights = make(map[string]float64, len(weights))
		for _, w := range weights {
			out.Weights[w.ParticipantID] = w.Weight
		}
	}
	return out
}

func toAPIItems(items []models.Item, splits map[string][]models.SplitWeight) []api.Item {
	out := make([]api.Item, len(items))
	for i, item := range items {
		out[i] = toAPIItem(item, splits[item.ID])
	}
	return out
}

func toAPIAdjustments(p models.AdjustmentPolicy) api.Adjustments {
	return api.Adjustments{
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		TipPercent:      p.TipPercent,
		TipAmount:       p.TipAmount,
		TaxPercent:      p.TaxPercent,
		TaxAmount:       p.TaxAmount,
	}
}
