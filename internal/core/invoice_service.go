package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceService creates and reads sales invoices. Creation validates the
// line drafts, derives taxes and totals, allocates the FY-scoped INV
// number, and inserts header plus lines in one transaction — the sequence
// row lock taken by the numbering service serializes concurrent creations.
type InvoiceService interface {
	Create(ctx context.Context, companyID int, input DocumentInput) (*Invoice, error)
	Get(ctx context.Context, companyID, invoiceID int) (*Invoice, error)
	// ListBetween returns invoices dated in [start, end] inclusive, with
	// items, in date-then-id order. Used by the GSTR generator.
	ListBetween(ctx context.Context, companyID int, start, end time.Time) ([]Invoice, error)
}

type invoiceService struct {
	pool      *pgxpool.Pool
	numbering DocumentNumberService
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool, numbering DocumentNumberService) InvoiceService {
	return &invoiceService{pool: pool, numbering: numbering}
}

// validateDocumentInput applies the header-level checks shared by all
// document kinds.
func validateDocumentInput(input DocumentInput) error {
	if input.PlaceOfSupplyCode == "" {
		return validationErrorf("place_of_supply_code", "place of supply is required")
	}
	if input.Date.IsZero() {
		return validationErrorf("date", "document date is required")
	}
	return validateEWayBillNo(input.EWayBillNo)
}

// loadDocContextTx resolves the company settings and counterparty a
// document creation needs, inside the creating transaction.
func loadDocContextTx(ctx context.Context, tx pgx.Tx, companyID, partyID int, wantType PartyType) (CompanySettings, Party, error) {
	var settings CompanySettings
	err := tx.QueryRow(ctx, `
		SELECT company_id, name, state_name, state_code, gstin, gst_enabled, invoice_prefix
		FROM company_settings
		WHERE company_id = $1`,
		companyID,
	).Scan(
		&settings.CompanyID, &settings.Name, &settings.StateName, &settings.StateCode,
		&settings.GSTIN, &settings.GSTEnabled, &settings.InvoicePrefix,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanySettings{}, Party{}, fmt.Errorf("company %d settings: %w", companyID, ErrNotFound)
		}
		return CompanySettings{}, Party{}, fmt.Errorf("load company %d settings: %w", companyID, err)
	}

	var party Party
	var partyType string
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, type, name, gstin, gst_enabled, is_active
		FROM parties
		WHERE id = $1 AND company_id = $2`,
		partyID, companyID,
	).Scan(&party.ID, &party.CompanyID, &partyType, &party.Name, &party.GSTIN, &party.GSTEnabled, &party.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanySettings{}, Party{}, fmt.Errorf("party %d: %w", partyID, ErrNotFound)
		}
		return CompanySettings{}, Party{}, fmt.Errorf("load party %d: %w", partyID, err)
	}
	party.Type = PartyType(partyType)

	if party.Type != wantType {
		return CompanySettings{}, Party{}, validationErrorf("party_id", "party %q is a %s, expected %s", party.Name, party.Type, wantType)
	}
	if !party.IsActive {
		return CompanySettings{}, Party{}, validationErrorf("party_id", "party %q is inactive", party.Name)
	}
	return settings, party, nil
}

func (s *invoiceService) Create(ctx context.Context, companyID int, input DocumentInput) (*Invoice, error) {
	if err := validateDocumentInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	settings, party, err := loadDocContextTx(ctx, tx, companyID, input.PartyID, PartyCustomer)
	if err != nil {
		return nil, err
	}

	items, totals, err := ComputeTotals(input.Lines, settings, input.PlaceOfSupplyCode, party.GSTEnabled)
	if err != nil {
		return nil, err
	}

	number, err := s.numbering.NextNumberTx(ctx, tx, companyID, SeriesInvoice, input.Date)
	if err != nil {
		return nil, err
	}

	var invoiceID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO invoices (company_id, party_id, number, date, due_date, payment_terms,
		                      place_of_supply, place_of_supply_code, reverse_charge, export_supply,
		                      eway_bill_no, billing_address, shipping_address,
		                      subtotal, total_discount, taxable_value, cgst, sgst, igst,
		                      utgst, cess, round_off, grand_total, paid_amount, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, 0, $23)
		RETURNING id`,
		companyID, input.PartyID, number, input.Date, input.DueDate, input.PaymentTerms,
		input.PlaceOfSupply, input.PlaceOfSupplyCode, input.ReverseCharge, input.ExportSupply,
		input.EWayBillNo, input.BillingAddress, input.ShippingAddress,
		totals.Subtotal, totals.TotalDiscount, totals.TaxableValue, totals.CGST, totals.SGST, totals.IGST,
		totals.UTGST, totals.CESS, totals.RoundOff, totals.GrandTotal,
	).Scan(&invoiceID); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	if err := insertLineItemsTx(ctx, tx, "invoice_items", "invoice_id", invoiceID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}

	return s.Get(ctx, companyID, invoiceID)
}

const invoiceColumns = `
	id, company_id, party_id, number, date, due_date, payment_terms,
	place_of_supply, place_of_supply_code, reverse_charge, export_supply,
	eway_bill_no, billing_address, shipping_address,
	subtotal, total_discount, taxable_value, cgst, sgst, igst,
	utgst, cess, round_off, grand_total, paid_amount, balance, created_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	inv := &Invoice{}
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.PartyID, &inv.Number, &inv.Date, &inv.DueDate, &inv.PaymentTerms,
		&inv.PlaceOfSupply, &inv.PlaceOfSupplyCode, &inv.ReverseCharge, &inv.ExportSupply,
		&inv.EWayBillNo, &inv.BillingAddress, &inv.ShippingAddress,
		&inv.Totals.Subtotal, &inv.Totals.TotalDiscount, &inv.Totals.TaxableValue,
		&inv.Totals.CGST, &inv.Totals.SGST, &inv.Totals.IGST,
		&inv.Totals.UTGST, &inv.Totals.CESS, &inv.Totals.RoundOff, &inv.Totals.GrandTotal,
		&inv.PaidAmount, &inv.Balance, &inv.CreatedAt,
	)
	return inv, err
}

func (s *invoiceService) Get(ctx context.Context, companyID, invoiceID int) (*Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		"SELECT"+invoiceColumns+" FROM invoices WHERE id = $1 AND company_id = $2",
		invoiceID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice %d: %w", invoiceID, err)
	}

	items, err := fetchLineItems(ctx, s.pool, "invoice_items", "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (s *invoiceService) ListBetween(ctx context.Context, companyID int, start, end time.Time) ([]Invoice, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT"+invoiceColumns+` FROM invoices
		 WHERE company_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date, id`,
		companyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		items, err := fetchLineItems(ctx, s.pool, "invoice_items", "invoice_id", invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}
	return invoices, nil
}
