package calculator

import (
	"math"

	"github.com/mmynk/patungan/internal/models"
)

// Allocation is the result of splitting one bill.
type Allocation struct {
	// Subtotal is the sum of all line totals before any adjustment.
	Subtotal float64

	// Discount is the applied discount, never more than Subtotal.
	Discount float64

	// Tip and Tax are computed on the post-discount base.
	Tip float64
	Tax float64

	// Total is max(Subtotal - Discount, 0) + Tip + Tax.
	Total float64

	// Subtotals is each participant's share of the items before adjustments.
	Subtotals map[string]float64

	// Totals is what each participant owes after discount, tip and tax.
	Totals map[string]float64
}

// Allocate splits the items of a bill across participants.
//
// Algorithm:
//   - Each item's line total goes to the participants in its split, weighted by w / Σw.
//     Weights for unknown participants are ignored.
//   - Items without a split (or whose weights sum to zero) are divided equally among
//     all participants. With no participants they only count towards the subtotal.
//   - Discount, tip and tax are resolved from the policy (amount wins over percent)
//     and distributed in proportion to each participant's subtotal.
//
// Allocate never fails and does not modify its inputs.
func Allocate(participants []models.Participant, items []models.Item, splits map[string][]models.SplitWeight, policy models.AdjustmentPolicy) *Allocation {
	subtotals := make(map[string]float64, len(participants))
	for _, p := range participants {
		subtotals[p.ID] = 0
	}

	var subtotal float64
	for _, item := range items {
		lineTotal := item.LineTotal()
		subtotal += lineTotal

		weights, sum := knownWeights(splits[item.ID], subtotals)
		if sum > 0 {
			for _, w := range weights {
				subtotals[w.ParticipantID] += lineTotal * (w.Weight / sum)
			}
			continue
		}

		if len(participants) == 0 {
			continue
		}
		equal := lineTotal / float64(len(participants))
		for _, p := range participants {
			subtotals[p.ID] += equal
		}
	}

	discount := resolveDiscount(policy, subtotal)
	base := math.Max(subtotal-discount, 0)
	tip := resolve(policy.TipAmount, policy.TipPercent, base)
	tax := resolve(policy.TaxAmount, policy.TaxPercent, base)

	totals := make(map[string]float64, len(participants))
	for _, p := range participants {
		var share float64
		if subtotal != 0 {
			share = subtotals[p.ID] / subtotal
		}
		totals[p.ID] = (subtotals[p.ID] - discount*share) + tip*share + tax*share
	}

	return &Allocation{
		Subtotal:  subtotal,
		Discount:  discount,
		Tip:       tip,
		Tax:       tax,
		Total:     base + tip + tax,
		Subtotals: subtotals,
		Totals:    totals,
	}
}

// knownWeights drops weights for participants outside the bill and returns the rest with their sum.
func knownWeights(weights []models.SplitWeight, known map[string]float64) ([]models.SplitWeight, float64) {
	if len(weights) == 0 {
		return nil, 0
	}
	kept := make([]models.SplitWeight, 0, len(weights))
	var sum float64
	for _, w := range weights {
		if _, ok := known[w.ParticipantID]; !ok {
			continue
		}
		kept = append(kept, w)
		sum += w.Weight
	}
	return kept, sum
}

func resolveDiscount(policy models.AdjustmentPolicy, subtotal float64) float64 {
	return math.Min(resolve(policy.DiscountAmount, policy.DiscountPercent, subtotal), subtotal)
}

// resolve applies the amount-over-percent rule against base.
func resolve(amount, percent *float64, base float64) float64 {
	switch {
	case amount != nil:
		return *amount
	case percent != nil:
		return base * *percent / 100
	default:
		return 0
	}
}
