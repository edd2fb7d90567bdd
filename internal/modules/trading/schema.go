package trading

import "database/sql"

// TradesSchema defines the trades table
const TradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    stock_id INTEGER NOT NULL,
    trade_type TEXT,
    trade_date TEXT NOT NULL,
    quantity REAL NOT NULL,
    price_per_share REAL,
    price_currency TEXT,
    base_value REAL,
    fx_rate REAL,
    fee REAL,
    fee_currency TEXT,
    local_value REAL,
    created_at TEXT NOT NULL,
    FOREIGN KEY(stock_id) REFERENCES stocks(id)
);

CREATE INDEX IF NOT EXISTS idx_trades_stock ON trades(stock_id);
CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
`

// InitSchema ensures the trades table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(TradesSchema)
	return err
}
