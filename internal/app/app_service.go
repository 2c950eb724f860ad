package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gst-engine/internal/ai"
	"gst-engine/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	settings  core.SettingsService
	parties   core.PartyService
	invoices  core.InvoiceService
	purchases core.PurchaseService
	orders    core.PurchaseOrderService
	gstr      core.GSTRService
	agent     *ai.Agent
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil, in which case the AI endpoints report that the
// assistant is not configured.
func NewAppService(
	pool *pgxpool.Pool,
	settings core.SettingsService,
	parties core.PartyService,
	invoices core.InvoiceService,
	purchases core.PurchaseService,
	orders core.PurchaseOrderService,
	gstr core.GSTRService,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		pool:      pool,
		settings:  settings,
		parties:   parties,
		invoices:  invoices,
		purchases: purchases,
		orders:    orders,
		gstr:      gstr,
		agent:     agent,
	}
}

func (s *appService) GetSettings(ctx context.Context, companyID int) (*core.CompanySettings, error) {
	return s.settings.Get(ctx, companyID)
}

func (s *appService) SaveSettings(ctx context.Context, settings core.CompanySettings) error {
	return s.settings.Save(ctx, &settings)
}

func (s *appService) ListParties(ctx context.Context, companyID int, partyType *core.PartyType) (*PartyListResult, error) {
	filter := core.PartyType("")
	if partyType != nil {
		filter = *partyType
	}
	parties, err := s.parties.List(ctx, companyID, filter, true)
	if err != nil {
		return nil, err
	}
	return &PartyListResult{Parties: parties}, nil
}

func (s *appService) SaveParty(ctx context.Context, party core.Party) (*PartyResult, error) {
	saved, err := s.parties.Save(ctx, &party)
	if err != nil {
		return nil, err
	}
	return &PartyResult{Party: saved}, nil
}

func (s *appService) CreateInvoice(ctx context.Context, req CreateDocumentRequest) (*InvoiceResult, error) {
	input, err := req.toDocumentInput()
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoices.Create(ctx, req.CompanyID, input)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) GetInvoice(ctx context.Context, companyID, invoiceID int) (*InvoiceResult, error) {
	invoice, err := s.invoices.Get(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) CreatePurchase(ctx context.Context, req CreateDocumentRequest) (*PurchaseResult, error) {
	input, err := req.toDocumentInput()
	if err != nil {
		return nil, err
	}
	purchase, err := s.purchases.Create(ctx, req.CompanyID, input)
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Purchase: purchase}, nil
}

func (s *appService) GetPurchase(ctx context.Context, companyID, purchaseID int) (*PurchaseResult, error) {
	purchase, err := s.purchases.Get(ctx, companyID, purchaseID)
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Purchase: purchase}, nil
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req CreateDocumentRequest) (*PurchaseOrderResult, error) {
	input, err := req.toDocumentInput()
	if err != nil {
		return nil, err
	}
	order, err := s.orders.Create(ctx, req.CompanyID, input)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: order}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, companyID, poID int) (*PurchaseOrderResult, error) {
	order, err := s.orders.Get(ctx, companyID, poID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: order}, nil
}

func (s *appService) ListPurchaseOrders(ctx context.Context, companyID int, status *core.POStatus) (*PurchaseOrderListResult, error) {
	filter := core.POStatus("")
	if status != nil {
		filter = *status
	}
	orders, err := s.orders.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderListResult{Orders: orders}, nil
}

func (s *appService) TransitionPurchaseOrder(ctx context.Context, req TransitionPORequest) (*PurchaseOrderResult, error) {
	order, err := s.orders.Transition(ctx, req.CompanyID, req.OrderID, req.NewStatus, req.ExpectedStatus, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: order}, nil
}

func (s *appService) ConvertPurchaseOrder(ctx context.Context, req ConvertPORequest) (*PurchaseResult, error) {
	purchase, err := s.orders.ConvertToPurchase(ctx, req.CompanyID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Purchase: purchase}, nil
}

func (s *appService) ValidateGSTR1(ctx context.Context, companyID int, start, end time.Time) (core.ComplianceErrors, error) {
	return s.gstr.ValidateGSTR1(ctx, companyID, start, end)
}

func (s *appService) ValidateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (core.ComplianceErrors, error) {
	return s.gstr.ValidateGSTR3B(ctx, companyID, start, end)
}

func (s *appService) GenerateGSTR1(ctx context.Context, companyID int, start, end time.Time) (*core.GSTR1Report, error) {
	return s.gstr.GenerateGSTR1(ctx, companyID, start, end)
}

func (s *appService) GenerateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (*core.GSTR3BReport, error) {
	return s.gstr.GenerateGSTR3B(ctx, companyID, start, end)
}

func (s *appService) ExportGSTR1CSV(ctx context.Context, companyID int, start, end time.Time, w io.Writer) error {
	report, err := s.gstr.GenerateGSTR1(ctx, companyID, start, end)
	if err != nil {
		return err
	}
	return report.WriteCSV(w)
}

func (s *appService) ExportGSTR3BCSV(ctx context.Context, companyID int, start, end time.Time, w io.Writer) error {
	report, err := s.gstr.GenerateGSTR3B(ctx, companyID, start, end)
	if err != nil {
		return err
	}
	return report.WriteCSV(w)
}

// InterpretDocumentEvent sends a natural language event description to the AI
// agent and returns either a document draft or a clarification request.
func (s *appService) InterpretDocumentEvent(ctx context.Context, companyID int, text string) (*AIResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI assistant is not configured (set OPENAI_API_KEY)")
	}

	partyList, err := s.fetchPartyList(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch party list: %w", err)
	}
	catalog, err := s.fetchProductCatalog(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product catalog: %w", err)
	}

	response, err := s.agent.InterpretDocumentEvent(ctx, text, partyList, catalog)
	if err != nil {
		return nil, err
	}

	if response.IsClarificationRequest {
		return &AIResult{
			IsClarification:      true,
			ClarificationMessage: response.Clarification.Message,
		}, nil
	}

	return &AIResult{
		IsClarification: false,
		Draft:           response.Draft,
	}, nil
}

// CommitDraft persists a confirmed draft as a real document. The party is
// resolved by exact name; lines go through the same validation and totals
// path as a hand-entered document.
func (s *appService) CommitDraft(ctx context.Context, companyID int, draft core.DocumentDraft) (*CommitDraftResult, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	wantType := core.PartyCustomer
	if draft.DocumentKind != "invoice" {
		wantType = core.PartyVendor
	}
	partyID, err := s.resolvePartyByName(ctx, companyID, draft.PartyName, wantType)
	if err != nil {
		return nil, err
	}

	lines, err := draft.ToLineDrafts()
	if err != nil {
		return nil, err
	}
	date, err := parseDate(draft.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid draft date: %w", err)
	}

	input := core.DocumentInput{
		PartyID:           partyID,
		Date:              date,
		PlaceOfSupply:     draft.PlaceOfSupply,
		PlaceOfSupplyCode: draft.PlaceOfSupplyCode,
		ReverseCharge:     draft.ReverseCharge,
		Lines:             lines,
	}

	switch draft.DocumentKind {
	case "invoice":
		invoice, err := s.invoices.Create(ctx, companyID, input)
		if err != nil {
			return nil, err
		}
		return &CommitDraftResult{DocumentKind: "invoice", DocumentID: invoice.ID, Number: invoice.Number}, nil
	case "purchase":
		purchase, err := s.purchases.Create(ctx, companyID, input)
		if err != nil {
			return nil, err
		}
		return &CommitDraftResult{DocumentKind: "purchase", DocumentID: purchase.ID, Number: purchase.Number}, nil
	case "purchase_order":
		order, err := s.orders.Create(ctx, companyID, input)
		if err != nil {
			return nil, err
		}
		return &CommitDraftResult{DocumentKind: "purchase_order", DocumentID: order.ID, Number: order.Number}, nil
	default:
		return nil, fmt.Errorf("unknown document kind %q", draft.DocumentKind)
	}
}

// AnswerQuery routes a read-only question through the agent's tool loop.
func (s *appService) AnswerQuery(ctx context.Context, companyID int, question string) (string, error) {
	if s.agent == nil {
		return "", fmt.Errorf("AI assistant is not configured (set OPENAI_API_KEY)")
	}
	return s.agent.AnswerQuery(ctx, question, s.buildToolRegistry(companyID))
}

// ── private helpers ───────────────────────────────────────────────────────────

func (r CreateDocumentRequest) toDocumentInput() (core.DocumentInput, error) {
	dateStr := r.Date
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return core.DocumentInput{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	var dueDate *time.Time
	dueStr := r.DueDate
	if dueStr == "" {
		dueStr = r.DeliveryDate
	}
	if dueStr != "" {
		d, err := parseDate(dueStr)
		if err != nil {
			return core.DocumentInput{}, fmt.Errorf("invalid due date %q: %w", dueStr, err)
		}
		dueDate = &d
	}

	return core.DocumentInput{
		PartyID:           r.PartyID,
		Date:              date,
		DueDate:           dueDate,
		PaymentTerms:      r.PaymentTerms,
		PlaceOfSupply:     r.PlaceOfSupply,
		PlaceOfSupplyCode: r.PlaceOfSupplyCode,
		ReverseCharge:     r.ReverseCharge,
		ExportSupply:      r.ExportSupply,
		EWayBillNo:        r.EWayBillNo,
		BillingAddress:    r.BillingAddress,
		ShippingAddress:   r.ShippingAddress,
		Notes:             r.Notes,
		Lines:             r.Lines,
	}, nil
}

func (s *appService) resolvePartyByName(ctx context.Context, companyID int, name string, wantType core.PartyType) (int, error) {
	parties, err := s.parties.List(ctx, companyID, wantType, true)
	if err != nil {
		return 0, err
	}
	for _, p := range parties {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("no active %s named %q: %w", wantType, name, core.ErrNotFound)
}

// fetchPartyList returns active parties as a formatted string for the AI prompt.
func (s *appService) fetchPartyList(ctx context.Context, companyID int) (string, error) {
	parties, err := s.parties.List(ctx, companyID, "", true)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, p := range parties {
		gst := "unregistered"
		if p.GSTEnabled {
			gst = "GSTIN " + p.GSTIN
		}
		lines = append(lines, fmt.Sprintf("- %s (%s, %s)", p.Name, p.Type, gst))
	}
	return strings.Join(lines, "\n"), nil
}

// fetchProductCatalog returns active products as a formatted string for the AI prompt.
func (s *appService) fetchProductCatalog(ctx context.Context, companyID int) (string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, hsn_code, unit, gst_rate, selling_price
		FROM products
		WHERE company_id = $1 AND is_active
		ORDER BY name`, companyID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var name, hsn, unit, gstRate, price string
		if err := rows.Scan(&name, &hsn, &unit, &gstRate, &price); err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("- %s (HSN %s, %s, GST %s%%, price %s)", name, hsn, unit, gstRate, price))
	}
	return strings.Join(lines, "\n"), rows.Err()
}

// buildToolRegistry assembles the read tools the query agent may call,
// all scoped to one company.
func (s *appService) buildToolRegistry(companyID int) *ai.ToolRegistry {
	registry := ai.NewToolRegistry()

	periodSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"start": map[string]any{"type": "string", "description": "Period start date, YYYY-MM-DD"},
			"end":   map[string]any{"type": "string", "description": "Period end date, YYYY-MM-DD"},
		},
		"required":             []string{"start", "end"},
		"additionalProperties": false,
	}

	registry.Register(ai.ToolDefinition{
		Name:        "list_parties",
		Description: "List the company's active customers and vendors with their GST registration status.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}, "additionalProperties": false},
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			result, err := s.ListParties(ctx, companyID, nil)
			if err != nil {
				return "", err
			}
			return marshalToolResult(result)
		},
	})

	registry.Register(ai.ToolDefinition{
		Name:        "gstr3b_summary",
		Description: "Compute the GSTR-3B tax summary (outward tax, input tax credit, net payable) for a date range.",
		InputSchema: periodSchema,
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			start, end, err := periodFromParams(params)
			if err != nil {
				return "", err
			}
			report, err := s.gstr.GenerateGSTR3B(ctx, companyID, start, end)
			if err != nil {
				return "", err
			}
			return marshalToolResult(report)
		},
	})

	registry.Register(ai.ToolDefinition{
		Name:        "gstr1_validation",
		Description: "List compliance problems that would block a GSTR-1 filing for a date range.",
		InputSchema: periodSchema,
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			start, end, err := periodFromParams(params)
			if err != nil {
				return "", err
			}
			errs, err := s.gstr.ValidateGSTR1(ctx, companyID, start, end)
			if err != nil {
				return "", err
			}
			return marshalToolResult(map[string]any{"problems": []string(errs)})
		},
	})

	return registry
}

func periodFromParams(params map[string]any) (time.Time, time.Time, error) {
	startStr, _ := params["start"].(string)
	endStr, _ := params["end"].(string)
	start, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startStr, err)
	}
	end, err := parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endStr, err)
	}
	return start, end, nil
}

func marshalToolResult(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(b), nil
}
