// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"options-tracker/internal/models"
)

// DataStore defines the interface for trade persistence.
type DataStore interface {
	// Trades
	SaveTrades(ctx context.Context, trades []models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	CountTrades(ctx context.Context) (int, error)

	// Import history
	LogImport(ctx context.Context, record ImportRecord) error
	GetImports(ctx context.Context, limit int) ([]ImportRecord, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Symbol     string
	Strategy   models.Strategy
	Account    string
	OpenOnly   bool
	ClosedOnly bool
	Incomplete *bool
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
}

// ImportRecord describes one completed import run.
type ImportRecord struct {
	ID         int64
	File       string
	Broker     models.BrokerKind
	Rows       int
	Skipped    int
	Trades     int
	Incomplete int
	ImportedAt time.Time
}
