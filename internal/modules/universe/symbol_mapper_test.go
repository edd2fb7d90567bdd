package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderSymbol(t *testing.T) {
	tests := []struct {
		name     string
		ticker   string
		exchange string
		want     string
	}{
		{
			name:     "LSE listing gets .L suffix",
			ticker:   "OGZD",
			exchange: "LSE",
			want:     "OGZD.L",
		},
		{
			name:     "NYSE listing has no suffix",
			ticker:   "KO",
			exchange: "NYSE",
			want:     "KO",
		},
		{
			name:     "NASDAQ listing has no suffix",
			ticker:   "AAPL",
			exchange: "NASDAQ",
			want:     "AAPL",
		},
		{
			name:     "XETRA listing gets .DE suffix",
			ticker:   "BAS",
			exchange: "XETRA",
			want:     "BAS.DE",
		},
		{
			name:     "unknown exchange falls back to bare ticker",
			ticker:   "FOO",
			exchange: "UNKNOWN",
			want:     "FOO",
		},
		{
			name:     "empty exchange falls back to bare ticker",
			ticker:   "BARC",
			exchange: "",
			want:     "BARC",
		},
		{
			name:     "empty ticker maps to empty symbol",
			ticker:   "",
			exchange: "LSE",
			want:     "",
		},
		{
			name:     "lowercase input is normalized",
			ticker:   "ogzd",
			exchange: "lse",
			want:     "OGZD.L",
		},
		{
			name:     "whitespace is trimmed",
			ticker:   " VOD ",
			exchange: " LSE ",
			want:     "VOD.L",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProviderSymbol(tt.ticker, tt.exchange)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTickerExchange(t *testing.T) {
	tests := []struct {
		name         string
		identifier   string
		wantTicker   string
		wantExchange string
	}{
		{
			name:         "combined identifier",
			identifier:   "OGZD.LSE",
			wantTicker:   "OGZD",
			wantExchange: "LSE",
		},
		{
			name:         "bare ticker",
			identifier:   "AAPL",
			wantTicker:   "AAPL",
			wantExchange: "",
		},
		{
			name:         "empty input",
			identifier:   "",
			wantTicker:   "",
			wantExchange: "",
		},
		{
			name:         "multiple separators split on the last",
			identifier:   "BT.A.LSE",
			wantTicker:   "BT.A",
			wantExchange: "LSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker, exchange := SplitTickerExchange(tt.identifier)
			assert.Equal(t, tt.wantTicker, ticker)
			assert.Equal(t, tt.wantExchange, exchange)
		})
	}
}
