package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	ctxLogger := FromContext(ctx)
	ctxLogger.Info().Msg("reconstruction started")

	if !strings.Contains(buf.String(), "reconstruction started") {
		t.Errorf("context logger lost the event: %q", buf.String())
	}
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("level = %v, want disabled no-op logger", logger.GetLevel())
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	fieldLogger := WithFile(WithBroker(logger, "robinhood"), "activity.csv")
	fieldLogger.Info().Msg("import")

	out := buf.String()
	if !strings.Contains(out, `"broker":"robinhood"`) {
		t.Errorf("broker field missing: %q", out)
	}
	if !strings.Contains(out, `"file":"activity.csv"`) {
		t.Errorf("file field missing: %q", out)
	}
}

func TestLogSkippedRow(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogSkippedRow(logger, "tastytrade", 17, errors.New("unknown action"))

	out := buf.String()
	if !strings.Contains(out, `"row":17`) || !strings.Contains(out, "skipped_row") {
		t.Errorf("skip event malformed: %q", out)
	}
}
