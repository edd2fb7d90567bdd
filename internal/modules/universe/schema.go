package universe

import "database/sql"

// StocksSchema defines the stocks table
const StocksSchema = `
CREATE TABLE IF NOT EXISTS stocks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ticker TEXT NOT NULL,
    exchange TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    currency TEXT NOT NULL DEFAULT 'GBP',
    created_at TEXT NOT NULL,
    UNIQUE(ticker, exchange)
);
`

// InitSchema ensures the stocks table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(StocksSchema)
	return err
}
