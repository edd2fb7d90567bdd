package quotes

import "database/sql"

// QuotesSchema defines the quote cache and price history tables
const QuotesSchema = `
CREATE TABLE IF NOT EXISTS quote_cache (
    symbol TEXT PRIMARY KEY,
    price REAL NOT NULL,
    currency TEXT NOT NULL,
    last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS price_history (
    symbol TEXT NOT NULL,
    date TEXT NOT NULL,
    close REAL NOT NULL,
    PRIMARY KEY (symbol, date)
);

CREATE INDEX IF NOT EXISTS idx_price_history_symbol ON price_history(symbol);
`

// InitSchema ensures the quote tables exist
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(QuotesSchema)
	return err
}
