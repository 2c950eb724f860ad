package core

import (
	"fmt"
	"time"
)

// Series identifies a document numbering series.
type Series string

const (
	SeriesInvoice       Series = "INV"
	SeriesPurchase      Series = "PUR"
	SeriesPurchaseOrder Series = "PO"
)

// MaxDocumentNumberLen is the legacy width of the document number field.
// Numbers are truncated to this length for compatibility; validation
// independently rejects stored numbers that exceed it.
const MaxDocumentNumberLen = 16

// FiscalYear returns the Indian fiscal year (April–March) a date falls in:
// the calendar year if the month is April or later, otherwise the previous
// calendar year.
func FiscalYear(date time.Time) int {
	if date.Month() >= time.April {
		return date.Year()
	}
	return date.Year() - 1
}

// FormatDocumentNumber renders a FY-scoped sequential number, e.g.
// "FY2024/PO-0001". If the formatted string exceeds MaxDocumentNumberLen
// it is truncated from the right and truncated=true is returned so the
// caller can log the compatibility hazard (truncation can collide at very
// high sequence counts).
func FormatDocumentNumber(series Series, fiscalYear int, seq int64) (number string, truncated bool) {
	number = fmt.Sprintf("FY%d/%s-%04d", fiscalYear, series, seq)
	if len(number) > MaxDocumentNumberLen {
		return number[:MaxDocumentNumberLen], true
	}
	return number, false
}

// ValidateDocumentNumber checks a stored document number against the
// legacy field-width contract.
func ValidateDocumentNumber(number string) error {
	if number == "" {
		return validationErrorf("number", "document number is required")
	}
	if len(number) > MaxDocumentNumberLen {
		return validationErrorf("number", "document number %q exceeds %d characters", number, MaxDocumentNumberLen)
	}
	return nil
}

// validateEWayBillNo rejects e-way bill numbers containing non-digits.
// An empty value is allowed — the bill number is optional.
func validateEWayBillNo(s string) error {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return validationErrorf("eway_bill_no", "e-way bill number must contain only digits, got %q", s)
		}
	}
	return nil
}
