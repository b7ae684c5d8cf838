package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceToCents(t *testing.T) {
	cases := []struct {
		name  string
		in    float64
		want  int64
		valid bool
	}{
		{"rounds to cents", 9.999, 1000, true},
		{"zero", 0, 0, true},
		{"negative in range", -1, -100, true},
		{"largest price", 999999.99, MaxPriceCents, true},
		{"one cent too much", 1000000.00, 0, false},
		{"beyond int64", 1e17, 0, false},
		{"huge negative", -1e20, 0, false},
		{"infinity", math.Inf(1), 0, false},
		{"nan", math.NaN(), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PriceToCents(tc.in)
			assert.Equal(t, tc.valid, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidatePriceCents(t *testing.T) {
	assert.NoError(t, ValidatePriceCents(0))
	assert.NoError(t, ValidatePriceCents(MaxPriceCents))
	assert.ErrorIs(t, ValidatePriceCents(-1), ErrInvalid)
	assert.EqualError(t, ValidatePriceCents(MaxPriceCents+1),
		"validation failed: price_cents must be less than or equal to 99999999")
}

func TestValidateReportsPriceBounds(t *testing.T) {
	err := Validate(&MenuItem{RestaurantID: 1, Name: "Caviar", PriceCents: MaxPriceCents + 1})
	assert.EqualError(t, err, "validation failed: price_cents must be less than or equal to 99999999")
}
