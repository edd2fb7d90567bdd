package main

import (
	"encoding/csv"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foliotrack/foliotrack/internal/config"
	"github.com/foliotrack/foliotrack/internal/database"
	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/events"
	"github.com/foliotrack/foliotrack/internal/modules/quotes"
	"github.com/foliotrack/foliotrack/internal/modules/trading"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
	"github.com/foliotrack/foliotrack/pkg/logger"
)

// Expected broker export columns. Extra columns are ignored.
const (
	colTicker    = "Ticker"
	colHolding   = "Holding"
	colCurrency  = "Holding Currency"
	colType      = "Type"
	colDate      = "Date"
	colQuantity  = "Quantity"
	colPrice     = "Price"
	colBaseValue = "Value (GBP)"
	colFXRate    = "Exchange Rate"
	colFee       = "Fee"
	colFeeCcy    = "Fee Currency"
	colLocal     = "Local Value"
)

var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

func main() {
	csvPath := flag.String("csv", "", "path to the trade history CSV export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})

	if *csvPath == "" {
		log.Fatal().Msg("Usage: import -csv <trade-history.csv>")
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *csvPath).Msg("Failed to open CSV file")
	}
	defer file.Close()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(universe.StocksSchema, trading.TradesSchema, quotes.QuotesSchema); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	stockRepo := universe.NewStockRepository(db.Conn(), log)
	tradeRepo := trading.NewTradeRepository(db.Conn(), log)
	eventManager := events.NewManager(log)

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read CSV header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTicker, colHolding, colType, colDate, colQuantity} {
		if _, ok := cols[required]; !ok {
			log.Fatal().Str("column", required).Msg("CSV is missing a required column")
		}
	}

	// Stocks already imported this run, keyed by (ticker, exchange)
	stockIDs := make(map[string]int64)

	imported := 0
	skipped := 0
	line := 1

	for {
		row, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Unreadable CSV row, skipping")
			skipped++
			continue
		}

		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		ticker, exchange := universe.SplitTickerExchange(get(colTicker))
		name := get(colHolding)
		side := strings.ToUpper(get(colType))
		date, dateOK := parseDate(get(colDate))
		qty, qtyOK := parseDecimal(get(colQuantity))

		if ticker == "" || name == "" || side == "" || !dateOK || !qtyOK || qty == 0 {
			log.Warn().Int("line", line).Str("ticker", ticker).Msg("Incomplete trade row, skipping")
			skipped++
			continue
		}

		key := ticker + "." + exchange
		stockID, ok := stockIDs[key]
		if !ok {
			stockID, err = stockRepo.Upsert(domain.Stock{
				Ticker:   ticker,
				Exchange: exchange,
				Name:     name,
				Currency: domain.NormalizeCurrency(get(colCurrency)),
			})
			if err != nil {
				log.Fatal().Err(err).Str("ticker", ticker).Msg("Failed to upsert stock")
			}
			stockIDs[key] = stockID
		}

		trade := domain.Trade{
			StockID:       stockID,
			Side:          domain.TradeSide(side),
			TradeDate:     date,
			Quantity:      qty,
			PricePerShare: parseDecimalPtr(get(colPrice)),
			PriceCurrency: domain.NormalizeCurrency(get(colCurrency)),
			BaseValue:     parseDecimalPtr(get(colBaseValue)),
			FXRate:        parseDecimalPtr(get(colFXRate)),
			Fee:           parseDecimalPtr(get(colFee)),
			FeeCurrency:   domain.NormalizeCurrency(get(colFeeCcy)),
			LocalValue:    parseDecimalPtr(get(colLocal)),
		}

		if err := tradeRepo.Create(trade); err != nil {
			log.Fatal().Err(err).Int("line", line).Msg("Failed to insert trade")
		}
		imported++
	}

	eventManager.Emit(events.TradesImported, "import", map[string]interface{}{
		"file":     *csvPath,
		"imported": imported,
		"skipped":  skipped,
		"stocks":   len(stockIDs),
	})

	log.Info().
		Int("imported", imported).
		Int("skipped", skipped).
		Int("stocks", len(stockIDs)).
		Msg("Import complete")
}

// parseDate normalizes broker dates (day first) to ISO format
func parseDate(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// parseDecimal parses a numeric cell, tolerating thousands separators
func parseDecimal(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func parseDecimalPtr(raw string) *float64 {
	if v, ok := parseDecimal(raw); ok {
		return &v
	}
	return nil
}
