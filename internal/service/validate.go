package service

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/patungan/internal/api"
	"github.com/mmynk/patungan/internal/models"
)

var (
	minPrice    = decimal.NewFromInt(1)
	minQuantity = decimal.NewFromInt(1)

	// maxAmount bounds prices, weights and adjustments so that sums and
	// products in the allocation stay finite.
	maxAmount = decimal.New(1, 12)
	// maxQuantity keeps quantities inside int32.
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
)

func invalidArgument(err error) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// requireName trims s and rejects it when empty.
func requireName(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return s, nil
}

// bounded rejects amounts above maxAmount.
func bounded(field string, d decimal.Decimal) error {
	if d.GreaterThan(maxAmount) {
		return fmt.Errorf("%s must not exceed %s", field, maxAmount)
	}
	return nil
}

func requireID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// validatePrice requires a price of at least 1.
func validatePrice(a api.Amount) (float64, error) {
	if !a.Valid {
		return 0, errors.New("price is required")
	}
	if a.Decimal.LessThan(minPrice) {
		return 0, errors.New("price must be at least 1")
	}
	if err := bounded("price", a.Decimal); err != nil {
		return 0, err
	}
	return a.Decimal.InexactFloat64(), nil
}

// validateQuantity requires a whole number of at least 1. A null quantity means 1.
func validateQuantity(a api.Amount) (int, error) {
	if !a.Valid {
		return 1, nil
	}
	if !a.Decimal.IsInteger() || a.Decimal.LessThan(minQuantity) {
		return 0, errors.New("quantity must be a whole number of at least 1")
	}
	if a.Decimal.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("quantity must not exceed %s", maxQuantity)
	}
	return int(a.Decimal.IntPart()), nil
}

// nonNegative rejects negative amounts. Null passes through as nil.
func nonNegative(field string, a api.Amount) (*float64, error) {
	if !a.Valid {
		return nil, nil
	}
	if a.Decimal.IsNegative() {
		return nil, fmt.Errorf("%s must not be negative", field)
	}
	if err := bounded(field, a.Decimal); err != nil {
		return nil, err
	}
	return a.Float(), nil
}

// validateWeights converts a participant→weight map into split weights, ordered by key.
func validateWeights(weights map[string]api.Amount) ([]models.SplitWeight, error) {
	out := make([]models.SplitWeight, 0, len(weights))
	for _, id := range slices.Sorted(maps.Keys(weights)) {
		w := weights[id]
		if !w.Valid {
			return nil, fmt.Errorf("weight for %s must be a number", id)
		}
		if w.Decimal.IsNegative() {
			return nil, fmt.Errorf("weight for %s must not be negative", id)
		}
		if err := bounded("weight for "+id, w.Decimal); err != nil {
			return nil, err
		}
		out = append(out, models.SplitWeight{ParticipantID: id, Weight: w.Decimal.InexactFloat64()})
	}
	return out, nil
}

// validatePolicy checks that every adjustment is absent or non-negative.
func validatePolicy(in api.AdjustmentsInput) (models.AdjustmentPolicy, error) {
	var p models.AdjustmentPolicy
	fields := []struct {
		name string
		in   api.Amount
		out  **float64
	}{
		{"discount_percent", in.DiscountPercent, &p.DiscountPercent},
		{"discount_amount", in.DiscountAmount, &p.DiscountAmount},
		{"tip_percent", in.TipPercent, &p.TipPercent},
		{"tip_amount", in.TipAmount, &p.TipAmount},
		{"tax_percent", in.TaxPercent, &p.TaxPercent},
		{"tax_amount", in.TaxAmount, &p.TaxAmount},
	}
	for _, f := range fields {
		v, err := nonNegative(f.name, f.in)
		if err != nil {
			return models.AdjustmentPolicy{}, err
		}
		*f.out = v
	}
	return p, nil
}

// validateItemPatch builds a patch from the fields present in req.
func validateItemPatch(req *api.UpdateItemRequest) (models.ItemPatch, error) {
	var patch models.ItemPatch
	if req.Name != nil {
		name, err := requireName("name", *req.Name)
		if err != nil {
			return patch, err
		}
		patch.Name = &name
	}
	if req.Price.Valid {
		price, err := validatePrice(req.Price)
		if err != nil {
			return patch, err
		}
		patch.UnitPrice = &price
	}
	if req.Quantity.Valid {
		qty, err := validateQuantity(req.Quantity)
		if err != nil {
			return patch, err
		}
		patch.Quantity = &qty
	}
	if patch.Empty() {
		return patch, errors.New("nothing to update")
	}
	return patch, nil
}
