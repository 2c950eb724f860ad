package core_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"gst-engine/internal/core"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return date
}

func sampleInvoice(t *testing.T) core.Invoice {
	t.Helper()
	return core.Invoice{
		ID:                1,
		CompanyID:         1,
		PartyID:           10,
		Number:            "FY2024/INV-0001",
		Date:              mustDate(t, "2024-07-15"),
		PlaceOfSupply:     "Maharashtra",
		PlaceOfSupplyCode: "27",
		Totals: core.DocumentTotals{
			Subtotal:     d("200"),
			TaxableValue: d("180"),
			CGST:         d("16.20"),
			SGST:         d("16.20"),
			GrandTotal:   d("212.40"),
		},
		Items: []core.LineItem{
			{
				LineNumber: 1, Description: "Widget", HSNCode: "8471", Unit: "nos",
				Quantity: d("2"), Rate: d("100"), Discount: d("10"), DiscountType: core.DiscountPercentage,
				GSTRate: d("18"), TaxableValue: d("180"),
				CGST: d("16.20"), SGST: d("16.20"), IGST: d("0"), Amount: d("212.40"),
			},
		},
	}
}

func sampleParties() map[int]core.Party {
	return map[int]core.Party{
		10: {ID: 10, Name: "Acme Traders", Type: core.PartyCustomer, GSTEnabled: true, GSTIN: "27AAPFU0939F1ZV"},
		11: {ID: 11, Name: "Walk-in Customer", Type: core.PartyCustomer, GSTEnabled: false},
	}
}

func TestValidateInvoicesForGSTR1(t *testing.T) {
	parties := sampleParties()
	parties[12] = core.Party{ID: 12, Name: "Shady Corp", Type: core.PartyCustomer, GSTEnabled: true, GSTIN: ""}

	clean := sampleInvoice(t)

	missingHSN := sampleInvoice(t)
	missingHSN.Number = "FY2024/INV-0002"
	missingHSN.Items[0].HSNCode = ""

	noGSTIN := sampleInvoice(t)
	noGSTIN.Number = "FY2024/INV-0003"
	noGSTIN.PartyID = 12

	errs := core.ValidateInvoicesForGSTR1([]core.Invoice{clean, missingHSN, noGSTIN}, parties)
	if len(errs) != 2 {
		t.Fatalf("got %d problems, want 2: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "missing HSN/SAC code") {
		t.Errorf("first problem = %q, want missing-HSN message", errs[0])
	}
	if !strings.Contains(errs[1], "has no GSTIN") {
		t.Errorf("second problem = %q, want missing-GSTIN message", errs[1])
	}
}

func TestValidateInvoicesForGSTR1_Deduplicates(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Items[0].HSNCode = ""
	// A second identical line produces the same message once.
	inv.Items = append(inv.Items, inv.Items[0])

	errs := core.ValidateInvoicesForGSTR1([]core.Invoice{inv}, sampleParties())
	if len(errs) != 1 {
		t.Fatalf("got %d problems, want 1 after dedup: %v", len(errs), errs)
	}
}

func TestValidateInvoicesForGSTR1_CleanPeriod(t *testing.T) {
	errs := core.ValidateInvoicesForGSTR1([]core.Invoice{sampleInvoice(t)}, sampleParties())
	if len(errs) != 0 {
		t.Fatalf("clean period reported problems: %v", errs)
	}
}

func TestBuildGSTR1(t *testing.T) {
	start := mustDate(t, "2024-07-01")
	end := mustDate(t, "2024-07-31")

	b2b := sampleInvoice(t)

	export := sampleInvoice(t)
	export.Number = "FY2024/INV-0002"
	export.ExportSupply = true

	b2c := sampleInvoice(t)
	b2c.Number = "FY2024/INV-0003"
	b2c.PartyID = 11

	report := core.BuildGSTR1(start, end, []core.Invoice{b2b, export, b2c}, sampleParties())

	if len(report.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(report.Rows))
	}
	if report.Rows[0].InvoiceNumber != "FY2024/INV-0001" || report.Rows[2].InvoiceNumber != "FY2024/INV-0003" {
		t.Error("rows are not in encounter order")
	}

	first := report.Rows[0]
	if first.RecipientGSTIN != "27AAPFU0939F1ZV" || first.ReceiverName != "Acme Traders" {
		t.Errorf("recipient = %q / %q", first.RecipientGSTIN, first.ReceiverName)
	}
	if first.InvoiceType != "Regular" || first.ITCEligibility != "Eligible" {
		t.Errorf("type/eligibility = %q / %q", first.InvoiceType, first.ITCEligibility)
	}
	if !first.TotalTax.Equal(d("32.40")) {
		t.Errorf("total tax = %s, want 32.40", first.TotalTax)
	}

	if report.Rows[1].InvoiceType != "Export" {
		t.Errorf("export invoice type = %q", report.Rows[1].InvoiceType)
	}
	if report.Rows[2].ITCEligibility != "Ineligible" {
		t.Errorf("B2C eligibility = %q", report.Rows[2].ITCEligibility)
	}
}

func TestBuildGSTR3B(t *testing.T) {
	start := mustDate(t, "2024-07-01")
	end := mustDate(t, "2024-07-31")

	inv := sampleInvoice(t)
	pur := core.Purchase{
		PartyID: 20,
		Number:  "FY2024/PUR-0001",
		Totals: core.DocumentTotals{
			TaxableValue: d("1000"),
			CGST:         d("90"),
			SGST:         d("90"),
		},
	}

	report := core.BuildGSTR3B(start, end, []core.Invoice{inv}, []core.Purchase{pur})

	if !report.OutwardSupply.CGST.Equal(d("16.20")) {
		t.Errorf("output CGST = %s, want 16.20", report.OutwardSupply.CGST)
	}
	if !report.InputTaxCredit.CGST.Equal(d("90")) {
		t.Errorf("ITC CGST = %s, want 90", report.InputTaxCredit.CGST)
	}
	// ITC exceeds output tax: the net goes negative and stays negative.
	if !report.NetCGST.Equal(d("-73.80")) {
		t.Errorf("net CGST = %s, want -73.80", report.NetCGST)
	}
	if !report.NetIGST.IsZero() {
		t.Errorf("net IGST = %s, want 0", report.NetIGST)
	}
}

func TestGSTR1Report_WriteCSV(t *testing.T) {
	start := mustDate(t, "2024-07-01")
	end := mustDate(t, "2024-07-31")
	report := core.BuildGSTR1(start, end, []core.Invoice{sampleInvoice(t)}, sampleParties())

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}

	header := records[0]
	if len(header) != 26 {
		t.Fatalf("header has %d columns, want 26", len(header))
	}
	wantHeads := map[int]string{
		0:  "GSTIN/UIN of Recipient",
		3:  "Invoice Date",
		10: "HSN/SAC Code",
		18: "CGST Amount",
		25: "ITC Eligibility",
	}
	for idx, want := range wantHeads {
		if header[idx] != want {
			t.Errorf("header[%d] = %q, want %q", idx, header[idx], want)
		}
	}

	row := records[1]
	if row[3] != "15-07-2024" {
		t.Errorf("invoice date = %q, want DD-MM-YYYY 15-07-2024", row[3])
	}
	if row[4] != "212.40" {
		t.Errorf("invoice value = %q, want 212.40", row[4])
	}
	if row[7] != "N" || row[8] != "N" {
		t.Errorf("reverse charge / export flags = %q / %q, want N / N", row[7], row[8])
	}
}

func TestGSTR3BReport_WriteCSV(t *testing.T) {
	start := mustDate(t, "2024-07-01")
	end := mustDate(t, "2024-07-31")
	report := core.BuildGSTR3B(start, end, []core.Invoice{sampleInvoice(t)}, nil)

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "GSTR-3B Summary" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "Period: 01-07-2024 to 31-07-2024" {
		t.Errorf("period line = %q", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("line 3 = %q, want blank separator", lines[2])
	}
	if lines[3] != "Description,Amount" {
		t.Errorf("section header = %q", lines[3])
	}

	for _, want := range []string{
		"Outward Taxable Supplies,180.00",
		"Output CGST,16.20",
		"Input Tax Credit,",
		"ITC CGST,0.00",
		"Net Tax Payable,",
		"Net CGST,16.20",
		"Net SGST,16.20",
		"Net IGST,0.00",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("output missing line %q", want)
		}
	}
}
