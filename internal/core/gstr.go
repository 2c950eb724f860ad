package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// reportDateFormat is the statutory DD-MM-YYYY date rendering used in
// GSTR exports.
const reportDateFormat = "02-01-2006"

// GSTR1Row is one transaction-level compliance row: one invoice line
// flattened with its invoice header. Field order mirrors the CSV contract
// in gstr1CSVHeader.
type GSTR1Row struct {
	RecipientGSTIN    string          `json:"recipient_gstin"`
	ReceiverName      string          `json:"receiver_name"`
	InvoiceNumber     string          `json:"invoice_number"`
	InvoiceDate       time.Time       `json:"invoice_date"`
	InvoiceValue      decimal.Decimal `json:"invoice_value"`
	PlaceOfSupply     string          `json:"place_of_supply"`
	PlaceOfSupplyCode string          `json:"place_of_supply_code"`
	ReverseCharge     bool            `json:"reverse_charge"`
	ExportSupply      bool            `json:"export_supply"`
	InvoiceType       string          `json:"invoice_type"`
	HSNCode           string          `json:"hsn_code"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	ItemRate          decimal.Decimal `json:"item_rate"`
	Discount          decimal.Decimal `json:"discount"`
	TaxableValue      decimal.Decimal `json:"taxable_value"`
	GSTRate           decimal.Decimal `json:"gst_rate"`
	CGST              decimal.Decimal `json:"cgst"`
	SGST              decimal.Decimal `json:"sgst"`
	IGST              decimal.Decimal `json:"igst"`
	UTGST             decimal.Decimal `json:"utgst"`
	CESS              decimal.Decimal `json:"cess"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	LineTotal         decimal.Decimal `json:"line_total"`
	ITCEligibility    string          `json:"itc_eligibility"`
}

// GSTR1Report is the transaction-level GSTR-1 return for a period.
// Rows preserve encounter order: invoice iteration order, then item order
// within each invoice — they are not re-sorted.
type GSTR1Report struct {
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Rows        []GSTR1Row `json:"rows"`
}

// GSTR3BSection is one component block of the GSTR-3B summary.
type GSTR3BSection struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	CESS         decimal.Decimal `json:"cess"`
}

// GSTR3BReport is the aggregated GSTR-3B summary: output tax from sales
// invoices, input tax credit from purchases, and net payable per
// component. Net components may be negative — that is carry-forward
// credit and is deliberately not clamped to zero.
type GSTR3BReport struct {
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	OutwardSupply  GSTR3BSection   `json:"outward_supply"`
	InputTaxCredit GSTR3BSection   `json:"input_tax_credit"`
	NetCGST        decimal.Decimal `json:"net_cgst"`
	NetSGST        decimal.Decimal `json:"net_sgst"`
	NetIGST        decimal.Decimal `json:"net_igst"`
	NetCESS        decimal.Decimal `json:"net_cess"`
}

// ── Compliance validation ─────────────────────────────────────────────────────

// ValidateInvoicesForGSTR1 scans invoices (with their items) for statutory
// completeness: every line needs an HSN/SAC code and every B2B invoice
// (counterparty has GST enabled) needs a counterparty GSTIN. The full
// distinct list of human-readable problems is returned; an empty list
// means the period is compliant.
func ValidateInvoicesForGSTR1(invoices []Invoice, parties map[int]Party) ComplianceErrors {
	var errs ComplianceErrors
	seen := map[string]bool{}
	add := func(msg string) {
		if !seen[msg] {
			seen[msg] = true
			errs = append(errs, msg)
		}
	}

	for _, inv := range invoices {
		party, ok := parties[inv.PartyID]
		if ok && party.GSTEnabled && party.GSTIN == "" {
			add(fmt.Sprintf("invoice %s: B2B customer %q has no GSTIN", inv.Number, party.Name))
		}
		for _, item := range inv.Items {
			if item.HSNCode == "" {
				add(fmt.Sprintf("invoice %s: line %d (%s) is missing HSN/SAC code", inv.Number, item.LineNumber, item.Description))
			}
		}
	}
	return errs
}

// ValidatePurchasesForGSTR3B applies the same completeness rules to the
// purchase side of the period.
func ValidatePurchasesForGSTR3B(purchases []Purchase, parties map[int]Party) ComplianceErrors {
	var errs ComplianceErrors
	seen := map[string]bool{}
	add := func(msg string) {
		if !seen[msg] {
			seen[msg] = true
			errs = append(errs, msg)
		}
	}

	for _, pur := range purchases {
		party, ok := parties[pur.PartyID]
		if ok && party.GSTEnabled && party.GSTIN == "" {
			add(fmt.Sprintf("purchase %s: B2B vendor %q has no GSTIN", pur.Number, party.Name))
		}
		for _, item := range pur.Items {
			if item.HSNCode == "" {
				add(fmt.Sprintf("purchase %s: line %d (%s) is missing HSN/SAC code", pur.Number, item.LineNumber, item.Description))
			}
		}
	}
	return errs
}

// ── Report generation ─────────────────────────────────────────────────────────

// BuildGSTR1 flattens every invoice line in the period into one compliance
// row. Callers must validate first — generation is fail-closed at the
// service layer when the validation list is non-empty.
func BuildGSTR1(start, end time.Time, invoices []Invoice, parties map[int]Party) *GSTR1Report {
	report := &GSTR1Report{PeriodStart: start, PeriodEnd: end}

	for _, inv := range invoices {
		party := parties[inv.PartyID]

		invoiceType := "Regular"
		if inv.ExportSupply {
			invoiceType = "Export"
		}

		// B2C supplies carry no input-credit for the recipient.
		eligibility := "Eligible"
		if !party.GSTEnabled {
			eligibility = "Ineligible"
		}

		for _, item := range inv.Items {
			totalTax := item.CGST.Add(item.SGST).Add(item.IGST)
			report.Rows = append(report.Rows, GSTR1Row{
				RecipientGSTIN:    party.GSTIN,
				ReceiverName:      party.Name,
				InvoiceNumber:     inv.Number,
				InvoiceDate:       inv.Date,
				InvoiceValue:      inv.Totals.GrandTotal,
				PlaceOfSupply:     inv.PlaceOfSupply,
				PlaceOfSupplyCode: inv.PlaceOfSupplyCode,
				ReverseCharge:     inv.ReverseCharge,
				ExportSupply:      inv.ExportSupply,
				InvoiceType:       invoiceType,
				HSNCode:           item.HSNCode,
				Description:       item.Description,
				Unit:              item.Unit,
				Quantity:          item.Quantity,
				ItemRate:          item.Rate,
				Discount:          item.Discount,
				TaxableValue:      item.TaxableValue,
				GSTRate:           item.GSTRate,
				CGST:              item.CGST,
				SGST:              item.SGST,
				IGST:              item.IGST,
				UTGST:             decimal.Zero,
				CESS:              decimal.Zero,
				TotalTax:          totalTax,
				LineTotal:         item.Amount,
				ITCEligibility:    eligibility,
			})
		}
	}
	return report
}

// BuildGSTR3B aggregates the period's invoices into output tax and its
// purchases into input tax credit, then nets them per component.
func BuildGSTR3B(start, end time.Time, invoices []Invoice, purchases []Purchase) *GSTR3BReport {
	report := &GSTR3BReport{PeriodStart: start, PeriodEnd: end}

	out := &report.OutwardSupply
	for _, inv := range invoices {
		out.TaxableValue = out.TaxableValue.Add(inv.Totals.TaxableValue)
		out.CGST = out.CGST.Add(inv.Totals.CGST)
		out.SGST = out.SGST.Add(inv.Totals.SGST)
		out.IGST = out.IGST.Add(inv.Totals.IGST)
		out.CESS = out.CESS.Add(inv.Totals.CESS)
	}

	itc := &report.InputTaxCredit
	for _, pur := range purchases {
		itc.TaxableValue = itc.TaxableValue.Add(pur.Totals.TaxableValue)
		itc.CGST = itc.CGST.Add(pur.Totals.CGST)
		itc.SGST = itc.SGST.Add(pur.Totals.SGST)
		itc.IGST = itc.IGST.Add(pur.Totals.IGST)
		itc.CESS = itc.CESS.Add(pur.Totals.CESS)
	}

	report.NetCGST = out.CGST.Sub(itc.CGST)
	report.NetSGST = out.SGST.Sub(itc.SGST)
	report.NetIGST = out.IGST.Sub(itc.IGST)
	report.NetCESS = out.CESS.Sub(itc.CESS)
	return report
}
