package core_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"gst-engine/internal/core"
)

func setupGSTRTest(t *testing.T) (core.GSTRService, core.InvoiceService, core.PurchaseService, context.Context, func()) {
	t.Helper()
	pool := setupTestDB(t)
	ctx := context.Background()

	numbering := core.NewDocumentNumberService()
	invoices := core.NewInvoiceService(pool, numbering)
	purchases := core.NewPurchaseService(pool, numbering)
	gstr := core.NewGSTRService(pool, invoices, purchases)
	return gstr, invoices, purchases, ctx, pool.Close
}

func TestGSTRService_GenerateGSTR1(t *testing.T) {
	gstr, invoices, _, ctx, cleanup := setupGSTRTest(t)
	defer cleanup()

	if _, err := invoices.Create(ctx, 1, testDocumentInput(t, 1, "29")); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	report, err := gstr.GenerateGSTR1(ctx, 1, mustDate(t, "2024-07-01"), mustDate(t, "2024-07-31"))
	if err != nil {
		t.Fatalf("GenerateGSTR1: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if row.RecipientGSTIN != "29AABCT1332L1ZU" {
		t.Errorf("recipient GSTIN = %q", row.RecipientGSTIN)
	}
	if row.IGST.StringFixed(2) != "32.40" {
		t.Errorf("IGST = %s, want 32.40", row.IGST)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("CSV export is empty")
	}
}

func TestGSTRService_GenerateFailsClosed(t *testing.T) {
	gstr, invoices, _, ctx, cleanup := setupGSTRTest(t)
	defer cleanup()

	// Line without an HSN code: valid to invoice, not valid to file.
	input := testDocumentInput(t, 1, "27")
	input.Lines[0].HSNCode = ""
	if _, err := invoices.Create(ctx, 1, input); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	problems, err := gstr.ValidateGSTR1(ctx, 1, mustDate(t, "2024-07-01"), mustDate(t, "2024-07-31"))
	if err != nil {
		t.Fatalf("ValidateGSTR1: %v", err)
	}
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}

	_, err = gstr.GenerateGSTR1(ctx, 1, mustDate(t, "2024-07-01"), mustDate(t, "2024-07-31"))
	var cerrs core.ComplianceErrors
	if !errors.As(err, &cerrs) {
		t.Fatalf("GenerateGSTR1 error = %v, want ComplianceErrors", err)
	}
	if len(cerrs) != 1 {
		t.Errorf("error carries %d problems, want 1", len(cerrs))
	}
}

func TestGSTRService_GenerateGSTR3B(t *testing.T) {
	gstr, invoices, purchases, ctx, cleanup := setupGSTRTest(t)
	defer cleanup()

	if _, err := invoices.Create(ctx, 1, testDocumentInput(t, 1, "27")); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	if _, err := purchases.Create(ctx, 1, testDocumentInput(t, 2, "27")); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	report, err := gstr.GenerateGSTR3B(ctx, 1, mustDate(t, "2024-07-01"), mustDate(t, "2024-07-31"))
	if err != nil {
		t.Fatalf("GenerateGSTR3B: %v", err)
	}

	// Identical documents on both sides: output and credit cancel out.
	if report.OutwardSupply.CGST.StringFixed(2) != "16.20" {
		t.Errorf("output CGST = %s, want 16.20", report.OutwardSupply.CGST)
	}
	if report.InputTaxCredit.CGST.StringFixed(2) != "16.20" {
		t.Errorf("ITC CGST = %s, want 16.20", report.InputTaxCredit.CGST)
	}
	if !report.NetCGST.IsZero() || !report.NetSGST.IsZero() {
		t.Errorf("net CGST/SGST = %s/%s, want 0/0", report.NetCGST, report.NetSGST)
	}
}

func TestPurchaseService_CreateDirect(t *testing.T) {
	_, _, purchases, ctx, cleanup := setupGSTRTest(t)
	defer cleanup()

	pur, err := purchases.Create(ctx, 1, testDocumentInput(t, 2, "27"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pur.Number != "FY2024/PUR-0001" {
		t.Errorf("number = %q, want FY2024/PUR-0001", pur.Number)
	}
	if pur.SourcePOID != nil {
		t.Errorf("direct purchase carries source_po_id %v", *pur.SourcePOID)
	}
}
