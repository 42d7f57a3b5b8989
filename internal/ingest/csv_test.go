package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "options-tracker/internal/errors"
)

func TestRead(t *testing.T) {
	data := strings.Join([]string{
		"Activity Date,Trans Code,Description,Amount",
		`6/3/2024,BTO,"SPY 6/21/2024 Call $550.00","($435.00)"`,
		",,,",
		"6/5/2024,STC,SPY 6/21/2024 Call $550.00,$520.00",
	}, "\n")

	batch, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(batch.Headers) != 4 {
		t.Errorf("headers = %d, want 4", len(batch.Headers))
	}
	if len(batch.Records) != 2 {
		t.Fatalf("records = %d, want 2 (blank row skipped)", len(batch.Records))
	}
	if got := batch.Records[0]["Amount"]; got != "($435.00)" {
		t.Errorf("quoted amount = %q, want ($435.00)", got)
	}
	if got := batch.Records[1]["Trans Code"]; got != "STC" {
		t.Errorf("trans code = %q, want STC", got)
	}
}

func TestRead_StripsBOM(t *testing.T) {
	data := "\ufeffDate,Value\n2024-06-03,1.00\n"

	batch, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !batch.HasHeaders("Date", "Value") {
		t.Errorf("headers = %v, want BOM stripped from first header", batch.Headers)
	}
}

func TestRead_ShortRows(t *testing.T) {
	data := "A,B,C\n1,2\n"

	batch, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	rec := batch.Records[0]
	if rec["A"] != "1" || rec["B"] != "2" {
		t.Errorf("record = %v", rec)
	}
	if got, ok := rec["C"]; ok && got != "" {
		t.Errorf("missing cell = %q, want empty", got)
	}
}

func TestRead_Empty(t *testing.T) {
	for _, data := range []string{"", "Date,Value\n"} {
		if _, err := Read(strings.NewReader(data)); !apperrors.Is(err, apperrors.ErrNoRecords) {
			t.Errorf("Read(%q): got %v, want ErrNoRecords", data, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("Date,Value\n2024-06-03,1.00\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	batch, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(batch.Records) != 1 {
		t.Errorf("records = %d, want 1", len(batch.Records))
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("want error, got nil")
	}
	var ingestErr *apperrors.IngestError
	if !apperrors.As(err, &ingestErr) {
		t.Fatalf("got %T, want *IngestError", err)
	}
}

func TestHasHeaders(t *testing.T) {
	batch := &Batch{Headers: []string{"Date", "Type", "Order #"}}
	if !batch.HasHeaders("Order #") {
		t.Error("want Order # present")
	}
	if !batch.HasHeaders("Date", "Type") {
		t.Error("want Date and Type present")
	}
	if batch.HasHeaders("Date", "Missing") {
		t.Error("want Missing absent")
	}
}
