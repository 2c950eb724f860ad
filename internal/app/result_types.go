package app

import "gst-engine/internal/core"

type PartyResult struct {
	Party *core.Party `json:"party"`
}

type PartyListResult struct {
	Parties []core.Party `json:"parties"`
}

type InvoiceResult struct {
	Invoice *core.Invoice `json:"invoice"`
}

type PurchaseResult struct {
	Purchase *core.Purchase `json:"purchase"`
}

type PurchaseOrderResult struct {
	Order *core.PurchaseOrder `json:"order"`
}

type PurchaseOrderListResult struct {
	Orders []core.PurchaseOrder `json:"orders"`
}

// AIResult is the outcome of an InterpretDocumentEvent call: either a
// clarification question for the user or a document draft awaiting
// confirmation.
type AIResult struct {
	IsClarification      bool                `json:"is_clarification"`
	ClarificationMessage string              `json:"clarification_message,omitempty"`
	Draft                *core.DocumentDraft `json:"draft,omitempty"`
}

// CommitDraftResult identifies the document a confirmed draft became.
type CommitDraftResult struct {
	DocumentKind string `json:"document_kind"`
	DocumentID   int    `json:"document_id"`
	Number       string `json:"number"`
}
