package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// validateLineDraft rejects malformed input before any arithmetic begins.
// All drafts in a document are validated up front — partial totals are
// never produced.
func validateLineDraft(i int, d LineDraft) error {
	field := func(name string) string {
		return fmt.Sprintf("lines[%d].%s", i, name)
	}

	if d.Quantity.Sign() <= 0 {
		return validationErrorf(field("quantity"), "quantity must be positive, got %s", d.Quantity)
	}
	if d.Rate.IsNegative() {
		return validationErrorf(field("rate"), "rate cannot be negative, got %s", d.Rate)
	}
	if d.Discount.IsNegative() {
		return validationErrorf(field("discount"), "discount cannot be negative, got %s", d.Discount)
	}
	if d.GSTRate.IsNegative() {
		return validationErrorf(field("gst_rate"), "GST rate cannot be negative, got %s", d.GSTRate)
	}

	switch d.DiscountType {
	case DiscountFixed:
		if d.Discount.GreaterThan(d.Rate.Mul(d.Quantity)) {
			return validationErrorf(field("discount"), "fixed discount %s exceeds line total %s",
				d.Discount, d.Rate.Mul(d.Quantity))
		}
	case DiscountPercentage:
		if d.Discount.GreaterThan(hundred) {
			return validationErrorf(field("discount"), "percentage discount cannot exceed 100, got %s", d.Discount)
		}
	case "":
		// No discount type means no discount.
		if !d.Discount.IsZero() {
			return validationErrorf(field("discount_type"), "discount_type is required when discount is set")
		}
	default:
		return validationErrorf(field("discount_type"), "unknown discount type %q", d.DiscountType)
	}

	return nil
}

// ComputeTotals folds an ordered list of line drafts into derived line
// items and document-level totals. intraState is decided by comparing the
// company's home state code to the document's place-of-supply code; lines
// may carry different GST rates and each line's tax is split at its own
// rate. Per-line tax components are rounded, intermediate document sums
// are not, and the grand total is rounded exactly once at the document
// level with the residual exposed as RoundOff.
func ComputeTotals(drafts []LineDraft, settings CompanySettings, placeOfSupplyCode string, partyGSTEnabled bool) ([]LineItem, DocumentTotals, error) {
	if len(drafts) == 0 {
		return nil, DocumentTotals{}, validationErrorf("lines", "document must have at least one line")
	}
	for i, d := range drafts {
		if err := validateLineDraft(i, d); err != nil {
			return nil, DocumentTotals{}, err
		}
	}

	gstEnabled := settings.GSTEnabled && partyGSTEnabled
	intraState := settings.StateCode == placeOfSupplyCode

	items := make([]LineItem, 0, len(drafts))
	totals := DocumentTotals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TaxableValue:  decimal.Zero,
		CGST:          decimal.Zero,
		SGST:          decimal.Zero,
		IGST:          decimal.Zero,
		UTGST:         decimal.Zero,
		CESS:          decimal.Zero,
	}

	for n, d := range drafts {
		lineTotal := d.Rate.Mul(d.Quantity)

		discount := d.Discount
		if d.DiscountType == DiscountPercentage {
			discount = lineTotal.Mul(d.Discount).Div(hundred)
		}

		taxable := lineTotal.Sub(discount)
		split := SplitTax(taxable, d.GSTRate, intraState, gstEnabled)

		items = append(items, LineItem{
			LineNumber:   n + 1,
			ProductID:    d.ProductID,
			Description:  d.Description,
			HSNCode:      d.HSNCode,
			Unit:         d.Unit,
			Quantity:     d.Quantity,
			Rate:         d.Rate,
			Discount:     d.Discount,
			DiscountType: d.DiscountType,
			GSTRate:      d.GSTRate,
			TaxableValue: taxable,
			CGST:         split.CGST,
			SGST:         split.SGST,
			IGST:         split.IGST,
			Amount:       taxable.Add(split.Total()),
		})

		totals.Subtotal = totals.Subtotal.Add(lineTotal)
		totals.TotalDiscount = totals.TotalDiscount.Add(discount)
		totals.TaxableValue = totals.TaxableValue.Add(taxable)
		totals.CGST = totals.CGST.Add(split.CGST)
		totals.SGST = totals.SGST.Add(split.SGST)
		totals.IGST = totals.IGST.Add(split.IGST)
	}

	unrounded := totals.Subtotal.Sub(totals.TotalDiscount).
		Add(totals.CGST).Add(totals.SGST).Add(totals.IGST)
	totals.GrandTotal = Round2(unrounded)
	totals.RoundOff = totals.GrandTotal.Sub(unrounded)

	return items, totals, nil
}
