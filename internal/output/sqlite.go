package output

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"newsgen/internal/types"

	_ "modernc.org/sqlite"
)

const newsSchema = `
CREATE TABLE news (
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	stock_symbol TEXT NOT NULL,
	stock_exchange TEXT,
	sector TEXT,
	headline_id TEXT NOT NULL,
	category TEXT,
	source TEXT,
	sentiment TEXT,
	impact_score REAL,
	confidence_score REAL,
	affected_symbols TEXT
);
CREATE INDEX idx_news_headline ON news(headline_id);
CREATE TABLE runs (
	run_id TEXT,
	rows INTEGER,
	written_at TEXT
);
`

// sqliteEncoder writes each batch to its own database file.
type sqliteEncoder struct {
	runID string
}

func (*sqliteEncoder) Ext() string { return "db" }

// Encode replaces any existing file at path with a fresh database holding the batch.
func (e *sqliteEncoder) Encode(path string, batch []types.NewsRecord) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(newsSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO news (date, time, stock_symbol, stock_exchange, sector, headline_id, category, source, sentiment, impact_score, confidence_score, affected_symbols) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range batch {
		if _, err := stmt.Exec(r.Date, r.Time, r.StockSymbol, r.StockExchange, r.Sector, r.HeadlineID,
			r.Category, r.Source, r.Sentiment, r.ImpactScore, r.ConfidenceScore, r.AffectedSymbols); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s/%s: %w", r.HeadlineID, r.StockSymbol, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO runs (run_id, rows, written_at) VALUES (?, ?, ?)`,
		e.runID, len(batch), time.Now().UTC().Format(time.RFC3339)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
