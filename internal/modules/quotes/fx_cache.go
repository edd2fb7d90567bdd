package quotes

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// DefaultRateTTL is how long a fetched FX snapshot stays valid
const DefaultRateTTL = 12 * time.Hour

// RateTable holds conversion rates between the base currency and every
// other currency in play. FromBase is units-of-currency per one unit of
// base (the provider's native direction); ToBase is its reciprocal.
type RateTable struct {
	ToBase   map[domain.Currency]float64
	FromBase map[domain.Currency]float64
}

func emptyRateTable() RateTable {
	return RateTable{
		ToBase:   map[domain.Currency]float64{},
		FromBase: map[domain.Currency]float64{},
	}
}

// RateFetcher fetches units-per-base rates for the given currencies
type RateFetcher func(base domain.Currency, symbols []domain.Currency) (map[domain.Currency]float64, error)

// FXRateCache maintains a time-bounded FX snapshot shared across valuation
// runs. A failed refresh degrades to the last good snapshot when one
// exists, and to empty tables otherwise; it never errors past this boundary.
type FXRateCache struct {
	base  domain.Currency
	ttl   time.Duration
	now   func() time.Time
	fetch RateFetcher
	log   zerolog.Logger

	mu       sync.Mutex
	snapshot *rateSnapshot
}

type rateSnapshot struct {
	table     RateTable
	fetchedAt time.Time
}

// NewFXRateCache creates a new FX rate cache
func NewFXRateCache(base domain.Currency, fetch RateFetcher, log zerolog.Logger) *FXRateCache {
	return &FXRateCache{
		base:  base,
		ttl:   DefaultRateTTL,
		now:   time.Now,
		fetch: fetch,
		log:   log.With().Str("component", "fx_cache").Logger(),
	}
}

// Rates returns conversion tables covering the needed currencies.
//
// When nothing outside the base currency (or its minor-unit alias) is
// needed, empty tables come back without any provider round trip. A fresh
// snapshot is returned unchanged; an expired or missing one triggers a
// single fetch attempt. The lock spans the fetch, so concurrent callers
// never issue duplicate refreshes for the same snapshot.
func (c *FXRateCache) Rates(needed map[domain.Currency]bool) RateTable {
	foreign := c.foreignCurrencies(needed)
	if len(foreign) == 0 {
		return emptyRateTable()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.snapshot.fetchedAt) < c.ttl {
		return c.snapshot.table
	}

	rates, err := c.fetch(c.base, foreign)
	if err != nil {
		if c.snapshot != nil {
			c.log.Warn().Err(err).
				Time("fetched_at", c.snapshot.fetchedAt).
				Msg("FX refresh failed, serving stale snapshot")
			return c.snapshot.table
		}
		c.log.Warn().Err(err).Msg("FX refresh failed with no cached snapshot, conversion unavailable")
		return emptyRateTable()
	}

	table := buildRateTable(rates)
	c.snapshot = &rateSnapshot{table: table, fetchedAt: c.now()}

	c.log.Info().
		Str("base", string(c.base)).
		Int("currencies", len(table.FromBase)).
		Msg("FX rates refreshed")

	return table
}

// foreignCurrencies filters the needed set down to currencies that actually
// require conversion, sorted for deterministic provider requests.
func (c *FXRateCache) foreignCurrencies(needed map[domain.Currency]bool) []domain.Currency {
	var foreign []domain.Currency
	for cur := range needed {
		if cur == "" || cur == c.base || cur.IsMinorUnitOf(c.base) {
			continue
		}
		foreign = append(foreign, cur)
	}

	sort.Slice(foreign, func(i, j int) bool { return foreign[i] < foreign[j] })
	return foreign
}

// buildRateTable computes the inverse table from units-per-base rates.
// Zero or non-finite provider rates are dropped rather than inverted.
func buildRateTable(rates map[domain.Currency]float64) RateTable {
	table := emptyRateTable()
	for cur, rate := range rates {
		if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			continue
		}
		table.FromBase[cur] = rate
		table.ToBase[cur] = 1 / rate
	}
	return table
}
