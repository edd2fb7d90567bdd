package quotes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foliotrack/foliotrack/internal/domain"
)

func TestNormalizePrice(t *testing.T) {
	rates := RateTable{
		ToBase: map[domain.Currency]float64{
			domain.CurrencyUSD: 0.8,
		},
		FromBase: map[domain.Currency]float64{
			domain.CurrencyUSD: 1.25,
		},
	}

	tests := []struct {
		name      string
		price     float64
		currency  domain.Currency
		wantPrice float64
		wantOK    bool
	}{
		{
			name:      "base currency passes through",
			price:     42.5,
			currency:  domain.CurrencyGBP,
			wantPrice: 42.5,
			wantOK:    true,
		},
		{
			name:      "minor unit scales by 100",
			price:     12345,
			currency:  domain.CurrencyGBX,
			wantPrice: 123.45,
			wantOK:    true,
		},
		{
			name:      "minor unit raw 500 normalizes to 5.00",
			price:     500,
			currency:  domain.CurrencyGBX,
			wantPrice: 5.0,
			wantOK:    true,
		},
		{
			name:      "foreign currency converts via rate table",
			price:     10,
			currency:  domain.CurrencyUSD,
			wantPrice: 8,
			wantOK:    true,
		},
		{
			name:     "missing rate is unavailable",
			price:    10,
			currency: domain.CurrencyEUR,
			wantOK:   false,
		},
		{
			name:     "zero price is unavailable",
			price:    0,
			currency: domain.CurrencyGBP,
			wantOK:   false,
		},
		{
			name:     "negative price is unavailable",
			price:    -3,
			currency: domain.CurrencyGBP,
			wantOK:   false,
		},
		{
			name:     "NaN price is unavailable",
			price:    math.NaN(),
			currency: domain.CurrencyGBP,
			wantOK:   false,
		},
		{
			name:     "infinite price is unavailable",
			price:    math.Inf(1),
			currency: domain.CurrencyUSD,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePrice(tt.price, tt.currency, domain.CurrencyGBP, rates)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantPrice, got, 1e-9)
			}
		})
	}
}

func TestNormalizePrice_EmptyRateTable(t *testing.T) {
	// Cold FX failure: every non-base currency is unavailable
	_, ok := NormalizePrice(10, domain.CurrencyUSD, domain.CurrencyGBP, emptyRateTable())
	assert.False(t, ok)

	// Base and minor-unit prices still resolve without any rates
	price, ok := NormalizePrice(500, domain.CurrencyGBX, domain.CurrencyGBP, emptyRateTable())
	assert.True(t, ok)
	assert.InDelta(t, 5.0, price, 1e-9)
}
