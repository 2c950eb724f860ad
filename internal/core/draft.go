package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DraftLine is a single line in an AI-generated document draft. Amounts
// are strings on the wire so the model cannot introduce float noise.
type DraftLine struct {
	Description  string `json:"description" jsonschema_description:"What is being bought or sold on this line"`
	HSNCode      string `json:"hsn_code" jsonschema_description:"HSN/SAC code for the line if known, else empty"`
	Unit         string `json:"unit" jsonschema_description:"Unit of measure, e.g. 'nos', 'kg', 'hrs'"`
	Quantity     string `json:"quantity" jsonschema_description:"Quantity as a positive decimal string"`
	Rate         string `json:"rate" jsonschema_description:"Unit price as a decimal string, e.g. '100.00'"`
	Discount     string `json:"discount" jsonschema_description:"Discount amount or percentage as a decimal string; '0' if none"`
	DiscountType string `json:"discount_type" jsonschema_description:"'fixed', 'percentage', or empty when there is no discount"`
	GSTRate      string `json:"gst_rate" jsonschema_description:"GST percentage rate for this line, e.g. '18'"`
}

// DocumentDraft is the AI-generated proposal for a new document. It is
// normalized and validated with the engine's own line rules before it is
// ever shown to a user — a draft that fails validation is discarded, not
// repaired.
type DocumentDraft struct {
	DocumentKind      string      `json:"document_kind" jsonschema_description:"One of 'invoice', 'purchase', 'purchase_order'"`
	PartyName         string      `json:"party_name" jsonschema_description:"The exact counterparty name from the provided party list"`
	Date              string      `json:"date" jsonschema_description:"Document date in YYYY-MM-DD format; today if unspecified"`
	PlaceOfSupply     string      `json:"place_of_supply" jsonschema_description:"State name of the place of supply"`
	PlaceOfSupplyCode string      `json:"place_of_supply_code" jsonschema_description:"2-digit GST state code of the place of supply"`
	ReverseCharge     bool        `json:"reverse_charge" jsonschema_description:"True if tax is payable on reverse charge"`
	Confidence        float64     `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning         string      `json:"reasoning" jsonschema_description:"Explanation for the proposed document"`
	Lines             []DraftLine `json:"lines" jsonschema_description:"The document's line items"`
}

// ClarificationRequest is returned by the assistant when the user's input
// is too ambiguous to draft from.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A question asking the user for the missing details"`
}

// AssistantResponse wraps the AI output to branch between a usable draft
// and a clarification request. Exactly one of the two is set.
type AssistantResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information for a confident draft"`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true"`
	Draft                  *DocumentDraft        `json:"draft,omitempty" jsonschema_description:"Required if is_clarification_request is false"`
}

// Normalize cleans up common model output issues before validation.
func (d *DocumentDraft) Normalize() {
	d.DocumentKind = strings.ToLower(strings.TrimSpace(d.DocumentKind))
	d.Date = strings.TrimSpace(d.Date)
	d.PlaceOfSupplyCode = strings.TrimSpace(d.PlaceOfSupplyCode)

	if d.Date == "" {
		d.Date = time.Now().Format("2006-01-02")
	}

	for i := range d.Lines {
		line := &d.Lines[i]
		line.DiscountType = strings.ToLower(strings.TrimSpace(line.DiscountType))
		if blankNumber(line.Discount) {
			line.Discount = "0"
			line.DiscountType = ""
		}
		if line.Discount == "0" || line.Discount == "0.00" {
			line.DiscountType = ""
		}
		if blankNumber(line.Quantity) {
			line.Quantity = "0"
		}
		if blankNumber(line.Rate) {
			line.Rate = "0.00"
		}
		if blankNumber(line.GSTRate) {
			line.GSTRate = "0"
		}
	}
}

func blankNumber(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return t == "" || t == "null" || t == "none"
}

// Validate enforces the engine's document rules on the draft. It reuses
// the same per-line validation the totals aggregator applies, so a draft
// that passes here will also aggregate cleanly.
func (d *DocumentDraft) Validate() error {
	switch d.DocumentKind {
	case "invoice", "purchase", "purchase_order":
	default:
		return fmt.Errorf("draft must specify a document kind, got %q", d.DocumentKind)
	}
	if d.PartyName == "" {
		return fmt.Errorf("draft must specify a party name")
	}
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return fmt.Errorf("invalid draft date: %w", err)
	}
	if d.PlaceOfSupplyCode == "" {
		return fmt.Errorf("draft must specify a place-of-supply state code")
	}

	drafts, err := d.ToLineDrafts()
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return fmt.Errorf("draft must have at least one line")
	}
	for i, ld := range drafts {
		if err := validateLineDraft(i, ld); err != nil {
			return err
		}
	}
	return nil
}

// ToLineDrafts parses the draft's string amounts into engine line drafts.
func (d *DocumentDraft) ToLineDrafts() ([]LineDraft, error) {
	out := make([]LineDraft, 0, len(d.Lines))
	for i, line := range d.Lines {
		qty, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q: %v", i+1, line.Quantity, err)
		}
		rate, err := decimal.NewFromString(line.Rate)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rate %q: %v", i+1, line.Rate, err)
		}
		discount, err := decimal.NewFromString(line.Discount)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid discount %q: %v", i+1, line.Discount, err)
		}
		gstRate, err := decimal.NewFromString(line.GSTRate)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid GST rate %q: %v", i+1, line.GSTRate, err)
		}
		out = append(out, LineDraft{
			Description:  line.Description,
			HSNCode:      line.HSNCode,
			Unit:         line.Unit,
			Quantity:     qty,
			Rate:         rate,
			Discount:     discount,
			DiscountType: DiscountType(line.DiscountType),
			GSTRate:      gstRate,
		})
	}
	return out, nil
}
