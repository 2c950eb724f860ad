package app

import (
	"time"

	"gst-engine/internal/core"
)

// CreateDocumentRequest carries the input for creating an invoice, a
// purchase, or a purchase order. Dates are YYYY-MM-DD strings; an empty
// Date defaults to today.
type CreateDocumentRequest struct {
	CompanyID         int              `json:"company_id"`
	PartyID           int              `json:"party_id"`
	Date              string           `json:"date"`
	DueDate           string           `json:"due_date,omitempty"`
	DeliveryDate      string           `json:"delivery_date,omitempty"`
	PaymentTerms      string           `json:"payment_terms,omitempty"`
	PlaceOfSupply     string           `json:"place_of_supply,omitempty"`
	PlaceOfSupplyCode string           `json:"place_of_supply_code"`
	ReverseCharge     bool             `json:"reverse_charge,omitempty"`
	ExportSupply      bool             `json:"export_supply,omitempty"`
	EWayBillNo        string           `json:"eway_bill_no,omitempty"`
	BillingAddress    string           `json:"billing_address,omitempty"`
	ShippingAddress   string           `json:"shipping_address,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	Lines             []core.LineDraft `json:"lines"`
}

// TransitionPORequest moves a purchase order to a new workflow status.
type TransitionPORequest struct {
	CompanyID      int           `json:"company_id"`
	OrderID        int           `json:"order_id"`
	NewStatus      core.POStatus `json:"new_status"`
	ExpectedStatus core.POStatus `json:"expected_status"`
	ActorID        int           `json:"actor_id,omitempty"`
}

// ConvertPORequest converts an Approved purchase order into a purchase.
type ConvertPORequest struct {
	CompanyID int `json:"company_id"`
	OrderID   int `json:"order_id"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
