package core_test

import (
	"errors"
	"strings"
	"testing"

	"gst-engine/internal/core"
)

func testSettings() core.CompanySettings {
	return core.CompanySettings{
		CompanyID:  1,
		Name:       "Test Traders",
		StateName:  "Maharashtra",
		StateCode:  "27",
		GSTIN:      "27AAPFU0939F1ZV",
		GSTEnabled: true,
	}
}

func TestComputeTotals_IntraStateWithPercentageDiscount(t *testing.T) {
	drafts := []core.LineDraft{
		{
			Description:  "Widget",
			HSNCode:      "8471",
			Quantity:     d("2"),
			Rate:         d("100"),
			Discount:     d("10"),
			DiscountType: core.DiscountPercentage,
			GSTRate:      d("18"),
		},
	}

	items, totals, err := core.ComputeTotals(drafts, testSettings(), "27", true)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].LineNumber != 1 {
		t.Errorf("line number = %d, want 1", items[0].LineNumber)
	}
	if !items[0].TaxableValue.Equal(d("180")) {
		t.Errorf("line taxable = %s, want 180", items[0].TaxableValue)
	}
	if !items[0].Amount.Equal(d("212.40")) {
		t.Errorf("line amount = %s, want 212.40", items[0].Amount)
	}

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"subtotal", totals.Subtotal.StringFixed(2), "200.00"},
		{"discount", totals.TotalDiscount.StringFixed(2), "20.00"},
		{"taxable", totals.TaxableValue.StringFixed(2), "180.00"},
		{"cgst", totals.CGST.StringFixed(2), "16.20"},
		{"sgst", totals.SGST.StringFixed(2), "16.20"},
		{"igst", totals.IGST.StringFixed(2), "0.00"},
		{"grand total", totals.GrandTotal.StringFixed(2), "212.40"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestComputeTotals_InterStateUsesIGST(t *testing.T) {
	drafts := []core.LineDraft{
		{Description: "Service", HSNCode: "9983", Quantity: d("1"), Rate: d("1000"), GSTRate: d("18")},
	}

	// Place of supply differs from the company's home state.
	_, totals, err := core.ComputeTotals(drafts, testSettings(), "29", true)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.CGST.IsZero() || !totals.SGST.IsZero() {
		t.Errorf("inter-state supply produced CGST %s / SGST %s", totals.CGST, totals.SGST)
	}
	if !totals.IGST.Equal(d("180.00")) {
		t.Errorf("IGST = %s, want 180.00", totals.IGST)
	}
}

func TestComputeTotals_MixedRates(t *testing.T) {
	drafts := []core.LineDraft{
		{Description: "Staple", HSNCode: "1001", Quantity: d("10"), Rate: d("50"), GSTRate: d("5")},
		{Description: "Gadget", HSNCode: "8517", Quantity: d("1"), Rate: d("2000"), GSTRate: d("28")},
	}

	_, totals, err := core.ComputeTotals(drafts, testSettings(), "27", true)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	// 500 @ 5% = 25.00, 2000 @ 28% = 560.00, split per line.
	if !totals.CGST.Equal(d("292.50")) || !totals.SGST.Equal(d("292.50")) {
		t.Errorf("CGST/SGST = %s/%s, want 292.50 each", totals.CGST, totals.SGST)
	}
	if !totals.GrandTotal.Equal(d("3085.00")) {
		t.Errorf("grand total = %s, want 3085.00", totals.GrandTotal)
	}
}

func TestComputeTotals_PartyWithoutGST(t *testing.T) {
	drafts := []core.LineDraft{
		{Description: "Widget", Quantity: d("1"), Rate: d("100"), GSTRate: d("18")},
	}

	_, totals, err := core.ComputeTotals(drafts, testSettings(), "27", false)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.CGST.IsZero() || !totals.SGST.IsZero() || !totals.IGST.IsZero() {
		t.Errorf("unregistered party still taxed: %s/%s/%s", totals.CGST, totals.SGST, totals.IGST)
	}
	if !totals.GrandTotal.Equal(d("100.00")) {
		t.Errorf("grand total = %s, want 100.00", totals.GrandTotal)
	}
}

func TestComputeTotals_RoundOffResidual(t *testing.T) {
	// 10% of 99.99 leaves a sub-paisa residual on the taxable value.
	drafts := []core.LineDraft{
		{Description: "Widget", Quantity: d("1"), Rate: d("99.99"),
			Discount: d("10"), DiscountType: core.DiscountPercentage, GSTRate: d("0")},
	}

	_, totals, err := core.ComputeTotals(drafts, testSettings(), "27", true)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.GrandTotal.Equal(d("89.99")) {
		t.Errorf("grand total = %s, want 89.99", totals.GrandTotal)
	}
	if !totals.GrandTotal.Sub(totals.RoundOff).Equal(d("89.991")) {
		t.Errorf("round-off %s does not reconcile with unrounded total", totals.RoundOff)
	}
}

func TestComputeTotals_Validation(t *testing.T) {
	base := core.LineDraft{Description: "Widget", Quantity: d("1"), Rate: d("100"), GSTRate: d("18")}

	tests := []struct {
		name   string
		mutate func(*core.LineDraft)
		field  string
	}{
		{"Zero quantity", func(l *core.LineDraft) { l.Quantity = d("0") }, "quantity"},
		{"Negative quantity", func(l *core.LineDraft) { l.Quantity = d("-1") }, "quantity"},
		{"Negative rate", func(l *core.LineDraft) { l.Rate = d("-5") }, "rate"},
		{"Negative discount", func(l *core.LineDraft) { l.Discount = d("-5"); l.DiscountType = core.DiscountFixed }, "discount"},
		{"Negative GST rate", func(l *core.LineDraft) { l.GSTRate = d("-18") }, "gst_rate"},
		{"Fixed discount exceeds line total", func(l *core.LineDraft) { l.Discount = d("101"); l.DiscountType = core.DiscountFixed }, "discount"},
		{"Percentage discount over 100", func(l *core.LineDraft) { l.Discount = d("101"); l.DiscountType = core.DiscountPercentage }, "discount"},
		{"Discount without type", func(l *core.LineDraft) { l.Discount = d("5") }, "discount_type"},
		{"Unknown discount type", func(l *core.LineDraft) { l.Discount = d("5"); l.DiscountType = "flat" }, "discount_type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			line := base
			tc.mutate(&line)
			_, _, err := core.ComputeTotals([]core.LineDraft{line}, testSettings(), "27", true)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if !strings.Contains(verr.Field, tc.field) {
				t.Errorf("error field = %q, want it to name %q", verr.Field, tc.field)
			}
		})
	}
}

func TestComputeTotals_EmptyDocument(t *testing.T) {
	_, _, err := core.ComputeTotals(nil, testSettings(), "27", true)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError for empty document, got %v", err)
	}
}
