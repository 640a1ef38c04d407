package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, direction, amount, entry_price, exit_price, open_time, close_time, profit, outcome, strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Direction, t.Amount, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.Profit, t.Outcome, t.Strategy,
	)
	return err
}

func (j *SQLite) RecordBalance(b BalanceMark) error {
	_, err := j.db.Exec(`
		INSERT INTO balance
		(time, balance, exposure, open_trades)
		VALUES (?, ?, ?, ?)`,
		b.Time, b.Balance, b.Exposure, b.OpenTrades,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
