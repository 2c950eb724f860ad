package core_test

import (
	"testing"
	"time"

	"gst-engine/internal/core"
)

func TestFiscalYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-04-01", 2024}, // FY starts in April
		{"2024-03-31", 2023}, // last day of the previous FY
		{"2024-12-31", 2024},
		{"2025-01-15", 2024},
		{"2025-04-30", 2025},
	}

	for _, tc := range tests {
		date, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := core.FiscalYear(date); got != tc.want {
			t.Errorf("FiscalYear(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestFormatDocumentNumber(t *testing.T) {
	number, truncated := core.FormatDocumentNumber(core.SeriesPurchaseOrder, 2024, 1)
	if number != "FY2024/PO-0001" || truncated {
		t.Errorf("got %q (truncated=%v), want FY2024/PO-0001", number, truncated)
	}

	number, truncated = core.FormatDocumentNumber(core.SeriesInvoice, 2024, 42)
	if number != "FY2024/INV-0042" || truncated {
		t.Errorf("got %q (truncated=%v), want FY2024/INV-0042", number, truncated)
	}
}

func TestFormatDocumentNumber_Truncation(t *testing.T) {
	// Sequence 100000 overflows the %04d width and pushes the formatted
	// number past the legacy 16-character field.
	number, truncated := core.FormatDocumentNumber(core.SeriesInvoice, 2024, 100000)
	if !truncated {
		t.Fatal("expected truncation for 6-digit sequence")
	}
	if len(number) != core.MaxDocumentNumberLen {
		t.Errorf("truncated number %q has length %d, want %d", number, len(number), core.MaxDocumentNumberLen)
	}
	if number != "FY2024/INV-10000" {
		t.Errorf("truncated number = %q, want FY2024/INV-10000", number)
	}
}

func TestValidateDocumentNumber(t *testing.T) {
	if err := core.ValidateDocumentNumber("FY2024/INV-0042"); err != nil {
		t.Errorf("valid number rejected: %v", err)
	}
	if err := core.ValidateDocumentNumber(""); err == nil {
		t.Error("empty number accepted")
	}
	if err := core.ValidateDocumentNumber("FY2024/INV-000000042"); err == nil {
		t.Error("over-length number accepted")
	}
}
