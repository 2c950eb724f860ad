package web

import (
	"fmt"
	"net/http"
	"time"
)

func (h *Handler) validateGSTR1(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	start, end, ok := period(w, r)
	if !ok {
		return
	}
	problems, err := h.svc.ValidateGSTR1(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeValidationResult(w, problems)
}

func (h *Handler) validateGSTR3B(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	start, end, ok := period(w, r)
	if !ok {
		return
	}
	problems, err := h.svc.ValidateGSTR3B(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeValidationResult(w, problems)
}

func (h *Handler) generateGSTR1(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	start, end, ok := period(w, r)
	if !ok {
		return
	}
	report, err := h.svc.GenerateGSTR1(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) generateGSTR3B(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	start, end, ok := period(w, r)
	if !ok {
		return
	}
	report, err := h.svc.GenerateGSTR3B(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) exportGSTR1CSV(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	start, end, ok := period(w, r)
	if !ok {
		return
	}
	// Generate before writing any output: a compliance failure must reach
	// the client as a JSON error, not a truncated CSV.
	report, err := h.svc.GenerateGSTR1(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	setCSVHeaders(w, "gstr1", start, end)
	if err := report.WriteCSV(w); err != nil {
		writeDomainError(w, r, err)
	}
}

func (h *Handler) exportGSTR3BCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(w, r)
	if !ok {
		return
	}
	start, end, ok := period(w, r)
	if !ok {
		return
	}
	report, err := h.svc.GenerateGSTR3B(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	setCSVHeaders(w, "gstr3b", start, end)
	if err := report.WriteCSV(w); err != nil {
		writeDomainError(w, r, err)
	}
}

func writeValidationResult(w http.ResponseWriter, problems []string) {
	type response struct {
		FilingReady bool     `json:"filing_ready"`
		Problems    []string `json:"problems"`
	}
	if problems == nil {
		problems = []string{}
	}
	writeJSON(w, response{FilingReady: len(problems) == 0, Problems: problems})
}

func setCSVHeaders(w http.ResponseWriter, report string, start, end time.Time) {
	filename := fmt.Sprintf("%s_%s_%s.csv", report, start.Format("20060102"), end.Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
