package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestResolve(t *testing.T) {
	resolver := Resolver{UnitPriceCents: 10, MinQuantity: 100}

	tests := []struct {
		name             string
		req              Request
		expectedQuantity int32
		expectedAmount   int64
		expectedErr      error
	}{
		{
			name:             "explicit numbers win over quantity field",
			req:              Request{Numbers: []int64{7, 13, 21, 44}, Quantity: f(250), TotalInCents: f(40)},
			expectedQuantity: 100, // floored at minimum
			expectedAmount:   40,
		},
		{
			name:             "quantity field with derived amount",
			req:              Request{Quantity: f(250)},
			expectedQuantity: 250,
			expectedAmount:   2500,
		},
		{
			name:             "quantity below minimum is floored",
			req:              Request{Quantity: f(10)},
			expectedQuantity: 100,
			expectedAmount:   1000,
		},
		{
			name:             "quantity derived from amount",
			req:              Request{TotalInCents: f(2500)},
			expectedQuantity: 250,
			expectedAmount:   2500,
		},
		{
			name:             "amountInCents alias",
			req:              Request{AmountInCents: f(3000)},
			expectedQuantity: 300,
			expectedAmount:   3000,
		},
		{
			name:             "amount alias after empty aliases",
			req:              Request{Amount: f(5000)},
			expectedQuantity: 500,
			expectedAmount:   5000,
		},
		{
			name:             "totalInCents preferred over alias",
			req:              Request{TotalInCents: f(2500), AmountInCents: f(9999)},
			expectedQuantity: 250,
			expectedAmount:   2500,
		},
		{
			name:             "everything absent falls back to minimum",
			req:              Request{},
			expectedQuantity: 100,
			expectedAmount:   1000,
		},
		{
			name:        "explicit zero amount is a hard failure",
			req:         Request{AmountInCents: f(0)},
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "explicit negative amount is a hard failure",
			req:         Request{TotalInCents: f(-500), Quantity: f(250)},
			expectedErr: ErrInvalidAmount,
		},
		{
			name:             "negative quantity ignored",
			req:              Request{Quantity: f(-5)},
			expectedQuantity: 100,
			expectedAmount:   1000,
		},
		{
			name:             "fractional amount rounded",
			req:              Request{TotalInCents: f(2499.6)},
			expectedQuantity: 250,
			expectedAmount:   2500,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := resolver.Resolve(tc.req)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedQuantity, res.Quantity)
			assert.Equal(t, tc.expectedAmount, res.AmountCents)
			assert.GreaterOrEqual(t, res.Quantity, resolver.MinQuantity)
			assert.Positive(t, res.AmountCents)
		})
	}
}
