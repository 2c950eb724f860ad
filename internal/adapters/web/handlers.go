package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gst-engine/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Settings ──────────────────────────────────────────────────────────
		r.Get("/api/companies/{companyID}/settings", h.getSettings)
		r.Put("/api/companies/{companyID}/settings", h.saveSettings)

		// ── Parties ───────────────────────────────────────────────────────────
		r.Get("/api/companies/{companyID}/parties", h.listParties)
		r.Post("/api/companies/{companyID}/parties", h.saveParty)

		// ── Invoices ──────────────────────────────────────────────────────────
		r.Post("/api/companies/{companyID}/invoices", h.createInvoice)
		r.Get("/api/companies/{companyID}/invoices/{id}", h.getInvoice)

		// ── Purchases ─────────────────────────────────────────────────────────
		r.Post("/api/companies/{companyID}/purchases", h.createPurchase)
		r.Get("/api/companies/{companyID}/purchases/{id}", h.getPurchase)

		// ── Purchase orders ───────────────────────────────────────────────────
		r.Get("/api/companies/{companyID}/purchase-orders", h.listPurchaseOrders)
		r.Post("/api/companies/{companyID}/purchase-orders", h.createPurchaseOrder)
		r.Get("/api/companies/{companyID}/purchase-orders/{id}", h.getPurchaseOrder)
		r.Post("/api/companies/{companyID}/purchase-orders/{id}/transition", h.transitionPurchaseOrder)
		r.Post("/api/companies/{companyID}/purchase-orders/{id}/convert", h.convertPurchaseOrder)

		// ── GSTR reports ──────────────────────────────────────────────────────
		r.Get("/api/companies/{companyID}/reports/gstr1", h.generateGSTR1)
		r.Get("/api/companies/{companyID}/reports/gstr1/validate", h.validateGSTR1)
		r.Get("/api/companies/{companyID}/reports/gstr1/csv", h.exportGSTR1CSV)
		r.Get("/api/companies/{companyID}/reports/gstr3b", h.generateGSTR3B)
		r.Get("/api/companies/{companyID}/reports/gstr3b/validate", h.validateGSTR3B)
		r.Get("/api/companies/{companyID}/reports/gstr3b/csv", h.exportGSTR3BCSV)

		// ── AI assistant ──────────────────────────────────────────────────────
		r.Post("/api/companies/{companyID}/ai/interpret", h.aiInterpret)
		r.Post("/api/companies/{companyID}/ai/commit", h.aiCommit)
		r.Post("/api/companies/{companyID}/ai/query", h.aiQuery)
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// companyID extracts and parses the {companyID} URL parameter. Writes a 400
// and returns false on garbage.
func companyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "companyID"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid company id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pathID extracts and parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// period parses the from/to query parameters as an inclusive date range.
func period(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, "invalid or missing 'from' date (want YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, "invalid or missing 'to' date (want YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		writeError(w, r, "'to' date precedes 'from' date", "BAD_REQUEST", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
