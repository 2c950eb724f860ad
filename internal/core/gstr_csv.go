package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// gstr1CSVHeader is the GSTR-1 export header. The field names and their
// order are a compatibility contract with the statutory portal upload —
// they are not cosmetic and must not be reworded.
var gstr1CSVHeader = []string{
	"GSTIN/UIN of Recipient",
	"Receiver Name",
	"Invoice Number",
	"Invoice Date",
	"Invoice Value",
	"Place Of Supply",
	"Place Of Supply Code",
	"Reverse Charge",
	"Export Supply",
	"Invoice Type",
	"HSN/SAC Code",
	"Item Description",
	"Unit",
	"Quantity",
	"Item Rate",
	"Discount",
	"Taxable Value",
	"GST Rate",
	"CGST Amount",
	"SGST Amount",
	"IGST Amount",
	"UTGST Amount",
	"CESS Amount",
	"Total Tax",
	"Line Total",
	"ITC Eligibility",
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// WriteCSV serializes the report as the flat one-row-per-line statutory
// upload format: a header row followed by one row per invoice line, in
// encounter order. Numeric fields are plain decimal text, dates are
// DD-MM-YYYY.
func (r *GSTR1Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(gstr1CSVHeader); err != nil {
		return fmt.Errorf("write GSTR-1 header: %w", err)
	}

	for i, row := range r.Rows {
		record := []string{
			row.RecipientGSTIN,
			row.ReceiverName,
			row.InvoiceNumber,
			row.InvoiceDate.Format(reportDateFormat),
			row.InvoiceValue.StringFixed(2),
			row.PlaceOfSupply,
			row.PlaceOfSupplyCode,
			yesNo(row.ReverseCharge),
			yesNo(row.ExportSupply),
			row.InvoiceType,
			row.HSNCode,
			row.Description,
			row.Unit,
			row.Quantity.String(),
			row.ItemRate.StringFixed(2),
			row.Discount.StringFixed(2),
			row.TaxableValue.StringFixed(2),
			row.GSTRate.String(),
			row.CGST.StringFixed(2),
			row.SGST.StringFixed(2),
			row.IGST.StringFixed(2),
			row.UTGST.StringFixed(2),
			row.CESS.StringFixed(2),
			row.TotalTax.StringFixed(2),
			row.LineTotal.StringFixed(2),
			row.ITCEligibility,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write GSTR-1 row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV serializes the GSTR-3B summary in its fixed labeled layout:
// title line, period line, then blank-line-separated "Description,Amount"
// sections for outward supplies, input tax credit, and net tax payable.
// Consumers parse this by row label, not by position within the file, so
// the labels are a second compatibility contract.
func (r *GSTR3BReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	period := fmt.Sprintf("Period: %s to %s",
		r.PeriodStart.Format(reportDateFormat), r.PeriodEnd.Format(reportDateFormat))

	rows := [][]string{
		{"GSTR-3B Summary"},
		{period},
		{},
		{"Description", "Amount"},
		{"Outward Taxable Supplies", r.OutwardSupply.TaxableValue.StringFixed(2)},
		{"Output CGST", r.OutwardSupply.CGST.StringFixed(2)},
		{"Output SGST", r.OutwardSupply.SGST.StringFixed(2)},
		{"Output IGST", r.OutwardSupply.IGST.StringFixed(2)},
		{"Output CESS", r.OutwardSupply.CESS.StringFixed(2)},
		{},
		{"Input Tax Credit", ""},
		{"ITC Taxable Value", r.InputTaxCredit.TaxableValue.StringFixed(2)},
		{"ITC CGST", r.InputTaxCredit.CGST.StringFixed(2)},
		{"ITC SGST", r.InputTaxCredit.SGST.StringFixed(2)},
		{"ITC IGST", r.InputTaxCredit.IGST.StringFixed(2)},
		{"ITC CESS", r.InputTaxCredit.CESS.StringFixed(2)},
		{},
		{"Net Tax Payable", ""},
		{"Net CGST", r.NetCGST.StringFixed(2)},
		{"Net SGST", r.NetSGST.StringFixed(2)},
		{"Net IGST", r.NetIGST.StringFixed(2)},
		{"Net CESS", r.NetCESS.StringFixed(2)},
	}

	for _, row := range rows {
		if len(row) == 0 {
			// encoding/csv cannot emit a fully empty record; write the
			// blank separator line directly.
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write GSTR-3B separator: %w", err)
			}
			continue
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write GSTR-3B row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
