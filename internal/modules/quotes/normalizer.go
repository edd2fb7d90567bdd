package quotes

import (
	"math"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// NormalizePrice converts a raw quote price into the base currency.
//
// Minor-unit aliases of the base (pence vs. pounds) are scaled down by the
// fixed minor-unit factor; base-currency quotes pass through; anything else
// is converted with the rate table. The second return value is false when
// no conversion can be resolved; callers must skip the live valuation in
// that case rather than substitute zero, since a silent zero would flip the
// sign of the unrealized gain.
func NormalizePrice(price float64, currency, base domain.Currency, rates RateTable) (float64, bool) {
	// Missing or non-finite prices are unavailable before any arithmetic
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}

	if currency.IsMinorUnitOf(base) {
		return price / domain.MinorUnitFactor, true
	}

	if currency == base {
		return price, true
	}

	rate, ok := rates.ToBase[currency]
	if !ok || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}

	return price * rate, true
}
