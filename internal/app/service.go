package app

import (
	"context"
	"io"
	"time"

	"gst-engine/internal/core"
)

// ApplicationService is the single interface all adapters (web, CLI) call.
// It decouples presentation from business logic. Implementations must
// contain no display logic of any kind.
type ApplicationService interface {
	// GetSettings returns the company's GST profile.
	GetSettings(ctx context.Context, companyID int) (*core.CompanySettings, error)

	// SaveSettings validates and persists the company's GST profile.
	SaveSettings(ctx context.Context, settings core.CompanySettings) error

	// ListParties returns parties for a company, optionally filtered by type.
	ListParties(ctx context.Context, companyID int, partyType *core.PartyType) (*PartyListResult, error)

	// SaveParty creates or updates a party, enforcing the GSTIN rules.
	SaveParty(ctx context.Context, party core.Party) (*PartyResult, error)

	// CreateInvoice computes totals, assigns the next invoice number, and
	// persists the invoice atomically.
	CreateInvoice(ctx context.Context, req CreateDocumentRequest) (*InvoiceResult, error)

	// GetInvoice returns an invoice with its line items.
	GetInvoice(ctx context.Context, companyID, invoiceID int) (*InvoiceResult, error)

	// CreatePurchase records a vendor bill directly, without a purchase order.
	CreatePurchase(ctx context.Context, req CreateDocumentRequest) (*PurchaseResult, error)

	// GetPurchase returns a purchase with its line items.
	GetPurchase(ctx context.Context, companyID, purchaseID int) (*PurchaseResult, error)

	// CreatePurchaseOrder creates a Draft purchase order with an assigned number.
	CreatePurchaseOrder(ctx context.Context, req CreateDocumentRequest) (*PurchaseOrderResult, error)

	// GetPurchaseOrder returns a purchase order with its line items.
	GetPurchaseOrder(ctx context.Context, companyID, poID int) (*PurchaseOrderResult, error)

	// ListPurchaseOrders returns purchase orders, optionally filtered by status.
	ListPurchaseOrders(ctx context.Context, companyID int, status *core.POStatus) (*PurchaseOrderListResult, error)

	// TransitionPurchaseOrder moves a purchase order along its workflow.
	// expectedStatus is the status the caller last saw; a mismatch fails
	// with core.ErrConflict rather than acting on stale state.
	TransitionPurchaseOrder(ctx context.Context, req TransitionPORequest) (*PurchaseOrderResult, error)

	// ConvertPurchaseOrder converts an Approved purchase order into a
	// purchase and closes the order, atomically. Conversion is one-way.
	ConvertPurchaseOrder(ctx context.Context, req ConvertPORequest) (*PurchaseResult, error)

	// ValidateGSTR1 reports compliance problems that would block a GSTR-1
	// filing for the period, without generating the return.
	ValidateGSTR1(ctx context.Context, companyID int, start, end time.Time) (core.ComplianceErrors, error)

	// ValidateGSTR3B reports compliance problems that would block a GSTR-3B
	// filing for the period.
	ValidateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (core.ComplianceErrors, error)

	// GenerateGSTR1 builds the GSTR-1 outward-supply return for the period.
	// Fails with core.ComplianceErrors if any invoice in the period is not
	// filing-ready.
	GenerateGSTR1(ctx context.Context, companyID int, start, end time.Time) (*core.GSTR1Report, error)

	// GenerateGSTR3B builds the GSTR-3B summary return for the period.
	GenerateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (*core.GSTR3BReport, error)

	// ExportGSTR1CSV generates the GSTR-1 return and writes it as CSV.
	ExportGSTR1CSV(ctx context.Context, companyID int, start, end time.Time, w io.Writer) error

	// ExportGSTR3BCSV generates the GSTR-3B return and writes it as CSV.
	ExportGSTR3BCSV(ctx context.Context, companyID int, start, end time.Time, w io.Writer) error

	// InterpretDocumentEvent sends a natural-language event description to
	// the AI agent and returns either a document draft or a clarification
	// request. The draft is a proposal only; nothing is persisted.
	InterpretDocumentEvent(ctx context.Context, companyID int, text string) (*AIResult, error)

	// CommitDraft persists a previously returned (and user-confirmed)
	// document draft as a real document.
	CommitDraft(ctx context.Context, companyID int, draft core.DocumentDraft) (*CommitDraftResult, error)

	// AnswerQuery routes a read-only natural-language question about the
	// company's GST data through the agent's tool loop.
	AnswerQuery(ctx context.Context, companyID int, question string) (string, error)
}
