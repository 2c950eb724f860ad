package web

import (
	"net/http"
	"strings"

	"gst-engine/internal/core"
)

func (h *Handler) aiInterpret(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.InterpretDocumentEvent(r.Context(), id, req.Text)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// aiCommit persists a draft the user has confirmed. The draft is
// re-validated server side; the client's copy is never trusted as-is.
func (h *Handler) aiCommit(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var draft core.DocumentDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	result, err := h.svc.CommitDraft(r.Context(), id, draft)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) aiQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, r, "question is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	answer, err := h.svc.AnswerQuery(r.Context(), id, req.Question)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	type response struct {
		Answer string `json:"answer"`
	}
	writeJSON(w, response{Answer: answer})
}
