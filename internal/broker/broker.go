// Package broker normalizes per-broker transaction exports into canonical legs.
//
// Each supported brokerage gets one narrow adapter from its raw CSV record
// shape to models.Leg. Everything downstream (grouping, classification,
// matching, aggregation) is broker-agnostic.
package broker

import (
	"time"

	"github.com/rs/zerolog"

	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/ingest"
	"options-tracker/internal/logging"
	"options-tracker/internal/models"
)

// Normalizer converts one raw record into a canonical leg.
//
// A returned apperrors.ErrNotOptionTrade means the row is not an option
// trade (cash movement, fee, dividend, stock trade) and is dropped without
// a warning. Any other error marks the row malformed: it is skipped with a
// logged warning, never aborting the batch.
type Normalizer interface {
	Kind() models.BrokerKind
	Normalize(rec ingest.Record) (models.Leg, error)
}

// Options carries normalization settings shared by both brokers.
type Options struct {
	Account  string
	Location *time.Location // applied to date-only timestamps
}

// ForKind returns the normalizer for the given broker kind.
func ForKind(kind models.BrokerKind, opts Options) (Normalizer, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	switch kind {
	case models.BrokerTastytrade:
		return &TastytradeNormalizer{opts: opts}, nil
	case models.BrokerRobinhood:
		return &RobinhoodNormalizer{opts: opts}, nil
	default:
		return nil, apperrors.ErrUnknownFormat
	}
}

// BatchResult is the outcome of normalizing one export batch.
type BatchResult struct {
	Legs     []models.Leg
	Skipped  int // malformed rows dropped with a warning
	NonTrade int // rows that are not option trades (filtered silently)
}

// NormalizeBatch runs the normalizer over every record in the batch.
// Malformed rows are logged and counted, never fatal.
func NormalizeBatch(n Normalizer, batch *ingest.Batch, logger zerolog.Logger) BatchResult {
	logger = logging.WithBroker(logger, string(n.Kind()))

	var result BatchResult
	for i, rec := range batch.Records {
		leg, err := n.Normalize(rec)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotOptionTrade) {
				result.NonTrade++
				continue
			}
			result.Skipped++
			logging.LogSkippedRow(logger, string(n.Kind()), i+2, err) // +2: header row, 1-based lines
			continue
		}
		result.Legs = append(result.Legs, leg)
	}
	return result
}
