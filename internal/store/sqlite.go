package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Reconstructed trades. Money columns are decimal strings.
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		option_type TEXT NOT NULL,
		strategy TEXT NOT NULL,
		strike TEXT NOT NULL,
		expiry DATE NOT NULL,
		volume INTEGER NOT NULL,
		entry_date DATETIME NOT NULL,
		exit_date DATETIME,
		debit TEXT NOT NULL,
		credit TEXT NOT NULL,
		account TEXT,
		incomplete INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Import history
	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file TEXT NOT NULL,
		broker TEXT NOT NULL,
		rows INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		trades INTEGER NOT NULL,
		incomplete INTEGER NOT NULL,
		imported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_strategy ON trades(strategy);
	CREATE INDEX IF NOT EXISTS idx_trades_entry_date ON trades(entry_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTrades saves a batch of trades in one transaction.
func (s *SQLiteStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (symbol, option_type, strategy, strike, expiry, volume, entry_date, exit_date, debit, credit, account, incomplete)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.NewStoreError("prepare", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		var exit interface{}
		if t.ExitDate != nil {
			exit = *t.ExitDate
		}
		incomplete := 0
		if t.Incomplete {
			incomplete = 1
		}
		_, err := stmt.ExecContext(ctx,
			t.Symbol, string(t.OptionType), string(t.Strategy), t.Strike.String(),
			t.Expiry, t.Volume, t.EntryDate, exit,
			t.Debit.String(), t.Credit.String(), t.Account, incomplete,
		)
		if err != nil {
			return apperrors.NewStoreError("insert trade", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit", err)
	}
	return nil
}

// GetTrades retrieves trades matching the filter, newest entry first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT symbol, option_type, strategy, strike, expiry, volume, entry_date, exit_date, debit, credit, account, incomplete FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Strategy != "" {
		query += " AND strategy = ?"
		args = append(args, string(filter.Strategy))
	}
	if filter.Account != "" {
		query += " AND account = ?"
		args = append(args, filter.Account)
	}
	if filter.OpenOnly {
		query += " AND exit_date IS NULL"
	}
	if filter.ClosedOnly {
		query += " AND exit_date IS NOT NULL"
	}
	if filter.Incomplete != nil {
		incomplete := 0
		if *filter.Incomplete {
			incomplete = 1
		}
		query += " AND incomplete = ?"
		args = append(args, incomplete)
	}
	if !filter.StartDate.IsZero() {
		query += " AND entry_date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND entry_date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY entry_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("query trades", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate trades", err)
	}
	return trades, nil
}

func scanTrade(rows *sql.Rows) (models.Trade, error) {
	var t models.Trade
	var optionType, strategy, strikeStr, debitStr, creditStr string
	var exit sql.NullTime
	var account sql.NullString
	var incomplete int

	if err := rows.Scan(&t.Symbol, &optionType, &strategy, &strikeStr, &t.Expiry, &t.Volume, &t.EntryDate, &exit, &debitStr, &creditStr, &account, &incomplete); err != nil {
		return models.Trade{}, apperrors.NewStoreError("scan trade", err)
	}

	t.OptionType = models.OptionType(optionType)
	t.Strategy = models.Strategy(strategy)
	t.Incomplete = incomplete != 0
	t.Account = account.String
	if exit.Valid {
		exitTime := exit.Time
		t.ExitDate = &exitTime
	}

	var err error
	if t.Strike, err = decimal.NewFromString(strikeStr); err != nil {
		return models.Trade{}, apperrors.NewStoreError("parse strike", err)
	}
	if t.Debit, err = decimal.NewFromString(debitStr); err != nil {
		return models.Trade{}, apperrors.NewStoreError("parse debit", err)
	}
	if t.Credit, err = decimal.NewFromString(creditStr); err != nil {
		return models.Trade{}, apperrors.NewStoreError("parse credit", err)
	}
	return t, nil
}

// CountTrades returns the number of stored trades.
func (s *SQLiteStore) CountTrades(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trades").Scan(&count); err != nil {
		return 0, apperrors.NewStoreError("count trades", err)
	}
	return count, nil
}

// LogImport records one completed import run.
func (s *SQLiteStore) LogImport(ctx context.Context, record ImportRecord) error {
	if record.ImportedAt.IsZero() {
		record.ImportedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (file, broker, rows, skipped, trades, incomplete, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.File, string(record.Broker), record.Rows, record.Skipped, record.Trades, record.Incomplete, record.ImportedAt)
	if err != nil {
		return apperrors.NewStoreError("log import", err)
	}
	return nil
}

// GetImports returns the most recent import runs.
func (s *SQLiteStore) GetImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	query := "SELECT id, file, broker, rows, skipped, trades, incomplete, imported_at FROM imports ORDER BY imported_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("query imports", err)
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		var r ImportRecord
		var broker string
		if err := rows.Scan(&r.ID, &r.File, &broker, &r.Rows, &r.Skipped, &r.Trades, &r.Incomplete, &r.ImportedAt); err != nil {
			return nil, apperrors.NewStoreError("scan import", err)
		}
		r.Broker = models.BrokerKind(broker)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate imports", err)
	}
	return records, nil
}
