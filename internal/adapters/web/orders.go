package web

import (
	"net/http"

	"gst-engine/internal/app"
	"gst-engine/internal/core"
)

func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var filter *core.POStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := core.POStatus(s)
		if !core.ValidPOStatus(status) {
			writeError(w, r, "unknown purchase order status", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter = &status
	}
	result, err := h.svc.ListPurchaseOrders(r.Context(), id, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var req app.CreateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyID = id
	result, err := h.svc.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	cid, ok := companyID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetPurchaseOrder(r.Context(), cid, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// transitionPurchaseOrder moves an order along its workflow. The caller
// must send the status it last saw; a mismatch returns HTTP 409.
func (h *Handler) transitionPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	cid, ok := companyID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.TransitionPORequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyID = cid
	req.OrderID = id
	result, err := h.svc.TransitionPurchaseOrder(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// convertPurchaseOrder converts an Approved order into a purchase and
// closes it. Conversion is one-way; a second call returns HTTP 409.
func (h *Handler) convertPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	cid, ok := companyID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ConvertPurchaseOrder(r.Context(), app.ConvertPORequest{CompanyID: cid, OrderID: id})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
