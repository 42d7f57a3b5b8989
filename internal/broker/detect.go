package broker

import (
	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/ingest"
	"options-tracker/internal/models"
)

// DetectKind identifies the export format from the header set.
//
// A multi-leg order-linkage column marks a tastytrade export; the activity
// date / trans code / instrument triple marks a Robinhood export.
func DetectKind(batch *ingest.Batch) (models.BrokerKind, error) {
	if batch.HasHeaders("Order #") {
		return models.BrokerTastytrade, nil
	}
	if batch.HasHeaders("Activity Date", "Trans Code", "Instrument") {
		return models.BrokerRobinhood, nil
	}
	return "", apperrors.ErrUnknownFormat
}
