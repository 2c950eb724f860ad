package core

import "github.com/shopspring/decimal"

// TaxSplit is the CGST/SGST/IGST breakup of one taxable amount.
type TaxSplit struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Total returns CGST + SGST + IGST.
func (t TaxSplit) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// SplitTax computes the GST breakup for a taxable amount at the given
// percentage rate.
//
// gstEnabled=false is the authoritative "GST off" path: all components are
// zero regardless of rate and state. Otherwise the total tax is
// Round2(taxable * rate / 100). Intra-state supplies split it into CGST =
// Round2(total/2) and SGST = total − CGST — SGST is never rounded
// independently, so CGST + SGST equals the total exactly. Inter-state
// supplies carry the whole amount as IGST.
func SplitTax(taxable, rate decimal.Decimal, intraState, gstEnabled bool) TaxSplit {
	if !gstEnabled {
		return TaxSplit{CGST: decimal.Zero, SGST: decimal.Zero, IGST: decimal.Zero}
	}

	totalTax := Round2(taxable.Mul(rate).Div(hundred))
	if intraState {
		cgst := Round2(totalTax.Div(two))
		return TaxSplit{CGST: cgst, SGST: totalTax.Sub(cgst), IGST: decimal.Zero}
	}
	return TaxSplit{CGST: decimal.Zero, SGST: decimal.Zero, IGST: totalTax}
}
