// Package pricing turns the loosely-typed quantity/amount fields a client
// submits into one canonical (quantity, amount in cents) pair.
package pricing

import (
	"errors"
	"math"
)

// ErrInvalidAmount means the caller supplied an amount that resolved to zero
// or negative. This is a hard validation failure: nothing may be persisted.
var ErrInvalidAmount = errors.New("resolved amount is zero or negative")

type Resolver struct {
	UnitPriceCents int64
	MinQuantity    int32
}

// Request carries the raw fields from the order-creation payload. Pointer
// fields distinguish "absent" from an explicit zero, which matters for the
// invalid-amount check.
type Request struct {
	Quantity      *float64
	TotalInCents  *float64
	AmountInCents *float64
	Amount        *float64
	Numbers       []int64
}

type Resolution struct {
	Quantity    int32
	AmountCents int64
}

// Resolve applies the precedence chain for quantity (explicit numbers,
// quantity field, amount-derived, configured minimum) and amount (explicit
// total in cents, amount alias, quantity times unit price). The resolved
// quantity is floored at the configured minimum.
func (r Resolver) Resolve(req Request) (Resolution, error) {
	explicitAmount, amountSupplied := r.explicitAmount(req)

	quantity := r.resolveQuantity(req, explicitAmount)
	if quantity < r.MinQuantity {
		quantity = r.MinQuantity
	}

	var amountCents int64
	switch {
	case explicitAmount > 0:
		amountCents = explicitAmount
	case amountSupplied:
		return Resolution{}, ErrInvalidAmount
	default:
		amountCents = int64(quantity) * r.UnitPriceCents
	}

	if amountCents <= 0 {
		return Resolution{}, ErrInvalidAmount
	}

	return Resolution{Quantity: quantity, AmountCents: amountCents}, nil
}

func (r Resolver) resolveQuantity(req Request, explicitAmount int64) int32 {
	if len(req.Numbers) > 0 {
		return int32(len(req.Numbers))
	}

	if q := deref(req.Quantity); isPositive(q) {
		return int32(math.Round(q))
	}

	if explicitAmount > 0 && r.UnitPriceCents > 0 {
		derived := int32(math.Round(float64(explicitAmount) / float64(r.UnitPriceCents)))
		if derived > 0 {
			return derived
		}
	}

	return r.MinQuantity
}

func (r Resolver) explicitAmount(req Request) (int64, bool) {
	supplied := false
	for _, candidate := range []*float64{req.TotalInCents, req.AmountInCents, req.Amount} {
		if candidate == nil {
			continue
		}

		supplied = true
		if isPositive(*candidate) {
			return int64(math.Round(*candidate)), true
		}
	}

	return 0, supplied
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
