package recorder

import (
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"CornTicker/internal/model"
)

// SQLiteRecorder persists observed prices to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	// WAL so external readers can inspect the log while we append.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			timestamp TEXT NOT NULL,
			price     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_ts ON prices(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Append stores one observation. Duplicate timestamps are allowed.
func (r *SQLiteRecorder) Append(obs model.PriceObservation) error {
	if !model.ValidPrice(obs.Price) {
		return fmt.Errorf("%w: %v", model.ErrInvalidPrice, obs.Price)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec(`INSERT INTO prices (timestamp, price) VALUES (?, ?)`,
		obs.Timestamp(), obs.Price); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (r *SQLiteRecorder) Recent(limit int) ([]model.PriceObservation, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, price FROM prices
		ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent prices: %w", err)
	}
	defer rows.Close()

	out := make([]model.PriceObservation, 0, limit)
	for rows.Next() {
		var ts string
		var price float64
		if err := rows.Scan(&ts, &price); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		t, err := time.ParseInLocation(model.TimestampLayout, ts, time.Local)
		if err != nil {
			r.log.Warn().Str("timestamp", ts).Msg("skipping row with unparsable timestamp")
			continue
		}
		out = append(out, model.PriceObservation{Time: t, Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price rows: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}

// Count returns the number of stored observations.
func (r *SQLiteRecorder) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM prices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count prices: %w", err)
	}
	return n, nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
