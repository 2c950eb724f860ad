package core_test

import (
	"testing"

	"gst-engine/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitTax(t *testing.T) {
	tests := []struct {
		name       string
		taxable    string
		rate       string
		intraState bool
		gstEnabled bool
		cgst       string
		sgst       string
		igst       string
	}{
		{
			name:    "Intra-state 18% on 1000",
			taxable: "1000", rate: "18", intraState: true, gstEnabled: true,
			cgst: "90.00", sgst: "90.00", igst: "0",
		},
		{
			name:    "Inter-state 18% on 1000",
			taxable: "1000", rate: "18", intraState: false, gstEnabled: true,
			cgst: "0", sgst: "0", igst: "180.00",
		},
		{
			name:    "GST disabled zeroes everything",
			taxable: "1000", rate: "18", intraState: true, gstEnabled: false,
			cgst: "0", sgst: "0", igst: "0",
		},
		{
			name:    "Zero rate",
			taxable: "1000", rate: "0", intraState: true, gstEnabled: true,
			cgst: "0", sgst: "0", igst: "0",
		},
		{
			name:    "Odd paisa goes to CGST",
			taxable: "100.27", rate: "18", intraState: true, gstEnabled: true,
			// total 18.05, half 9.025 rounds to 9.03, SGST takes the remainder
			cgst: "9.03", sgst: "9.02", igst: "0",
		},
		{
			name:    "Fractional rate 2.5%",
			taxable: "999.99", rate: "2.5", intraState: false, gstEnabled: true,
			cgst: "0", sgst: "0", igst: "25.00",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			split := core.SplitTax(d(tc.taxable), d(tc.rate), tc.intraState, tc.gstEnabled)
			if !split.CGST.Equal(d(tc.cgst)) {
				t.Errorf("CGST = %s, want %s", split.CGST, tc.cgst)
			}
			if !split.SGST.Equal(d(tc.sgst)) {
				t.Errorf("SGST = %s, want %s", split.SGST, tc.sgst)
			}
			if !split.IGST.Equal(d(tc.igst)) {
				t.Errorf("IGST = %s, want %s", split.IGST, tc.igst)
			}
		})
	}
}

// The intra-state halves must always recombine to the rounded total, even
// when the half itself needs rounding.
func TestSplitTax_HalvesSumToTotal(t *testing.T) {
	amounts := []string{"0.01", "0.99", "1.27", "33.33", "100.27", "999.99", "12345.67"}
	for _, a := range amounts {
		split := core.SplitTax(d(a), d("18"), true, true)
		want := core.Round2(d(a).Mul(d("18")).Div(d("100")))
		if !split.CGST.Add(split.SGST).Equal(want) {
			t.Errorf("taxable %s: CGST %s + SGST %s != total %s", a, split.CGST, split.SGST, want)
		}
	}
}
