package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type PartyType string

const (
	PartyCustomer PartyType = "customer"
	PartyVendor   PartyType = "vendor"
)

// Party is a customer or vendor the company trades with.
// If GSTEnabled is true the GSTIN must be a valid 15-character identifier;
// if false the GSTIN must be empty. PartyService.Save enforces this.
type Party struct {
	ID         int       `json:"id"`
	CompanyID  int       `json:"company_id"`
	Type       PartyType `json:"type"`
	Name       string    `json:"name"`
	GSTIN      string    `json:"gstin,omitempty"`
	GSTEnabled bool      `json:"gst_enabled"`
	Address1   string    `json:"address1,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	Pincode    string    `json:"pincode,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product is a catalog item. The HSN/SAC code is optional at the catalog
// level but required on any line that must appear in a GSTR filing.
type Product struct {
	ID           int             `json:"id"`
	CompanyID    int             `json:"company_id"`
	Name         string          `json:"name"`
	HSNCode      string          `json:"hsn_code,omitempty"`
	Unit         string          `json:"unit"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	IsActive     bool            `json:"is_active"`
}

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// LineDraft is the caller-supplied shape of a document line before any
// tax derivation has happened. ComputeTotals validates a full slice of
// drafts up front and only then derives the stored LineItems.
type LineDraft struct {
	ProductID    *int            `json:"product_id,omitempty"`
	Description  string          `json:"description"`
	HSNCode      string          `json:"hsn_code,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
}

// LineItem is a stored document line with its derived tax fields.
// Invariants: TaxableValue = Rate*Quantity - discount amount,
// Amount = TaxableValue + CGST + SGST + IGST.
type LineItem struct {
	ID           int             `json:"id"`
	DocumentID   int             `json:"document_id"`
	LineNumber   int             `json:"line_number"`
	ProductID    *int            `json:"product_id,omitempty"`
	Description  string          `json:"description"`
	HSNCode      string          `json:"hsn_code,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Amount       decimal.Decimal `json:"amount"`
}

// DocumentTotals are the document-level aggregates. Each tax component is
// the sum of the corresponding per-line values (already rounded per line);
// GrandTotal is rounded once at the document level and RoundOff carries the
// paisa residual dropped by that final rounding.
type DocumentTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	UTGST         decimal.Decimal `json:"utgst"`
	CESS          decimal.Decimal `json:"cess"`
	RoundOff      decimal.Decimal `json:"round_off"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// DocumentInput carries the caller-supplied fields for creating an
// invoice, purchase, or purchase order. Lines are validated and derived
// by ComputeTotals inside the creating service's transaction.
type DocumentInput struct {
	PartyID           int
	Date              time.Time
	DueDate           *time.Time
	PaymentTerms      string
	PlaceOfSupply     string
	PlaceOfSupplyCode string
	ReverseCharge     bool
	ExportSupply      bool
	EWayBillNo        string
	BillingAddress    string
	ShippingAddress   string
	Notes             string
	Lines             []LineDraft
}

// Invoice is a sales invoice. Number is FY-scoped and at most 16 characters.
type Invoice struct {
	ID                int             `json:"id"`
	CompanyID         int             `json:"company_id"`
	PartyID           int             `json:"party_id"`
	Number            string          `json:"number"`
	Date              time.Time       `json:"date"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	PaymentTerms      string          `json:"payment_terms,omitempty"`
	PlaceOfSupply     string          `json:"place_of_supply"`
	PlaceOfSupplyCode string          `json:"place_of_supply_code"`
	ReverseCharge     bool            `json:"reverse_charge"`
	ExportSupply      bool            `json:"export_supply"`
	EWayBillNo        string          `json:"eway_bill_no,omitempty"`
	BillingAddress    string          `json:"billing_address,omitempty"`
	ShippingAddress   string          `json:"shipping_address,omitempty"`
	Totals            DocumentTotals  `json:"totals"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Balance           decimal.Decimal `json:"balance"`
	Items             []LineItem      `json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Purchase is a vendor purchase document. A purchase can be created
// directly or produced by converting an Approved purchase order, in which
// case SourcePOID points back at the (now Closed) order.
type Purchase struct {
	ID                int             `json:"id"`
	CompanyID         int             `json:"company_id"`
	PartyID           int             `json:"party_id"`
	Number            string          `json:"number"`
	SourcePOID        *int            `json:"source_po_id,omitempty"`
	Date              time.Time       `json:"date"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	PaymentTerms      string          `json:"payment_terms,omitempty"`
	PlaceOfSupply     string          `json:"place_of_supply"`
	PlaceOfSupplyCode string          `json:"place_of_supply_code"`
	ReverseCharge     bool            `json:"reverse_charge"`
	ExportSupply      bool            `json:"export_supply"`
	EWayBillNo        string          `json:"eway_bill_no,omitempty"`
	BillingAddress    string          `json:"billing_address,omitempty"`
	ShippingAddress   string          `json:"shipping_address,omitempty"`
	Totals            DocumentTotals  `json:"totals"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Balance           decimal.Decimal `json:"balance"`
	Items             []LineItem      `json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
}

// PurchaseOrder is a purchase order header. Workflow timestamps are set
// only by Transition / ConvertToPurchase.
type PurchaseOrder struct {
	ID                int            `json:"id"`
	CompanyID         int            `json:"company_id"`
	PartyID           int            `json:"party_id"`
	Number            string         `json:"number"`
	Status            POStatus       `json:"status"`
	Date              time.Time      `json:"date"`
	DeliveryDate      *time.Time     `json:"delivery_date,omitempty"`
	PaymentTerms      string         `json:"payment_terms,omitempty"`
	PlaceOfSupply     string         `json:"place_of_supply"`
	PlaceOfSupplyCode string         `json:"place_of_supply_code"`
	ReverseCharge     bool           `json:"reverse_charge"`
	ExportSupply      bool           `json:"export_supply"`
	BillingAddress    string         `json:"billing_address,omitempty"`
	ShippingAddress   string         `json:"shipping_address,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Totals            DocumentTotals `json:"totals"`
	Items             []LineItem     `json:"items"`
	ApprovedBy        *int           `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty"`
	SentAt            *time.Time     `json:"sent_at,omitempty"`
	ReceivedAt        *time.Time     `json:"received_at,omitempty"`
	ClosedAt          *time.Time     `json:"closed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// CompanySettings is the tenant-scoped configuration the engine needs to
// decide intra-state vs inter-state. It is resolved by the caller and
// passed in — the engine never looks up tenant context itself.
type CompanySettings struct {
	CompanyID     int    `json:"company_id"`
	Name          string `json:"name"`
	StateName     string `json:"state_name"`
	StateCode     string `json:"state_code"` // 2-digit GST state code
	GSTIN         string `json:"gstin,omitempty"`
	GSTEnabled    bool   `json:"gst_enabled"`
	InvoicePrefix string `json:"invoice_prefix,omitempty"`
}
