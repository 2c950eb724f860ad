package web

import (
	"net/http"

	"gst-engine/internal/app"
)

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var req app.CreateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyID = id
	result, err := h.svc.CreateInvoice(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	cid, ok := companyID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetInvoice(r.Context(), cid, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var req app.CreateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyID = id
	result, err := h.svc.CreatePurchase(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	cid, ok := companyID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetPurchase(r.Context(), cid, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
