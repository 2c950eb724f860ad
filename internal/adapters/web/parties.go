package web

import (
	"net/http"

	"gst-engine/internal/core"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	settings, err := h.svc.GetSettings(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, settings)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var settings core.CompanySettings
	if !decodeJSON(w, r, &settings) {
		return
	}
	settings.CompanyID = id
	if err := h.svc.SaveSettings(r.Context(), settings); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, settings)
}

func (h *Handler) listParties(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var filter *core.PartyType
	if t := r.URL.Query().Get("type"); t != "" {
		pt := core.PartyType(t)
		if pt != core.PartyCustomer && pt != core.PartyVendor {
			writeError(w, r, "type must be 'customer' or 'vendor'", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter = &pt
	}
	result, err := h.svc.ListParties(r.Context(), id, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) saveParty(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var party core.Party
	if !decodeJSON(w, r, &party) {
		return
	}
	party.CompanyID = id
	result, err := h.svc.SaveParty(r.Context(), party)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
