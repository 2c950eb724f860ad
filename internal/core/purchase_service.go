package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseService creates and reads vendor purchase documents. Purchases
// produced by converting a purchase order are inserted by the purchase
// order service inside the conversion transaction; this service covers
// directly recorded purchases and all reads.
type PurchaseService interface {
	Create(ctx context.Context, companyID int, input DocumentInput) (*Purchase, error)
	Get(ctx context.Context, companyID, purchaseID int) (*Purchase, error)
	// ListBetween returns purchases dated in [start, end] inclusive, with
	// items, in date-then-id order. Used by the GSTR-3B generator.
	ListBetween(ctx context.Context, companyID int, start, end time.Time) ([]Purchase, error)
}

type purchaseService struct {
	pool      *pgxpool.Pool
	numbering DocumentNumberService
}

// NewPurchaseService constructs a PurchaseService backed by PostgreSQL.
func NewPurchaseService(pool *pgxpool.Pool, numbering DocumentNumberService) PurchaseService {
	return &purchaseService{pool: pool, numbering: numbering}
}

func (s *purchaseService) Create(ctx context.Context, companyID int, input DocumentInput) (*Purchase, error) {
	if err := validateDocumentInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	settings, party, err := loadDocContextTx(ctx, tx, companyID, input.PartyID, PartyVendor)
	if err != nil {
		return nil, err
	}

	items, totals, err := ComputeTotals(input.Lines, settings, input.PlaceOfSupplyCode, party.GSTEnabled)
	if err != nil {
		return nil, err
	}

	number, err := s.numbering.NextNumberTx(ctx, tx, companyID, SeriesPurchase, input.Date)
	if err != nil {
		return nil, err
	}

	purchaseID, err := insertPurchaseTx(ctx, tx, companyID, nil, number, input, items, totals)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase: %w", err)
	}

	return s.Get(ctx, companyID, purchaseID)
}

// insertPurchaseTx inserts a purchase header and its lines inside the
// caller's transaction. Shared with the PO conversion path so both
// creation routes write identical rows.
func insertPurchaseTx(ctx context.Context, tx pgx.Tx, companyID int, sourcePOID *int,
	number string, input DocumentInput, items []LineItem, totals DocumentTotals) (int, error) {

	var purchaseID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchases (company_id, party_id, number, source_po_id, date, due_date, payment_terms,
		                       place_of_supply, place_of_supply_code, reverse_charge, export_supply,
		                       eway_bill_no, billing_address, shipping_address,
		                       subtotal, total_discount, taxable_value, cgst, sgst, igst,
		                       utgst, cess, round_off, grand_total, paid_amount, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, 0, $24)
		RETURNING id`,
		companyID, input.PartyID, number, sourcePOID, input.Date, input.DueDate, input.PaymentTerms,
		input.PlaceOfSupply, input.PlaceOfSupplyCode, input.ReverseCharge, input.ExportSupply,
		input.EWayBillNo, input.BillingAddress, input.ShippingAddress,
		totals.Subtotal, totals.TotalDiscount, totals.TaxableValue, totals.CGST, totals.SGST, totals.IGST,
		totals.UTGST, totals.CESS, totals.RoundOff, totals.GrandTotal,
	).Scan(&purchaseID); err != nil {
		return 0, fmt.Errorf("insert purchase: %w", err)
	}

	if err := insertLineItemsTx(ctx, tx, "purchase_items", "purchase_id", purchaseID, items); err != nil {
		return 0, err
	}
	return purchaseID, nil
}

const purchaseColumns = `
	id, company_id, party_id, number, source_po_id, date, due_date, payment_terms,
	place_of_supply, place_of_supply_code, reverse_charge, export_supply,
	eway_bill_no, billing_address, shipping_address,
	subtotal, total_discount, taxable_value, cgst, sgst, igst,
	utgst, cess, round_off, grand_total, paid_amount, balance, created_at`

func scanPurchase(row pgx.Row) (*Purchase, error) {
	pur := &Purchase{}
	err := row.Scan(
		&pur.ID, &pur.CompanyID, &pur.PartyID, &pur.Number, &pur.SourcePOID,
		&pur.Date, &pur.DueDate, &pur.PaymentTerms,
		&pur.PlaceOfSupply, &pur.PlaceOfSupplyCode, &pur.ReverseCharge, &pur.ExportSupply,
		&pur.EWayBillNo, &pur.BillingAddress, &pur.ShippingAddress,
		&pur.Totals.Subtotal, &pur.Totals.TotalDiscount, &pur.Totals.TaxableValue,
		&pur.Totals.CGST, &pur.Totals.SGST, &pur.Totals.IGST,
		&pur.Totals.UTGST, &pur.Totals.CESS, &pur.Totals.RoundOff, &pur.Totals.GrandTotal,
		&pur.PaidAmount, &pur.Balance, &pur.CreatedAt,
	)
	return pur, err
}

func (s *purchaseService) Get(ctx context.Context, companyID, purchaseID int) (*Purchase, error) {
	pur, err := scanPurchase(s.pool.QueryRow(ctx,
		"SELECT"+purchaseColumns+" FROM purchases WHERE id = $1 AND company_id = $2",
		purchaseID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d: %w", purchaseID, ErrNotFound)
		}
		return nil, fmt.Errorf("get purchase %d: %w", purchaseID, err)
	}

	items, err := fetchLineItems(ctx, s.pool, "purchase_items", "purchase_id", purchaseID)
	if err != nil {
		return nil, err
	}
	pur.Items = items
	return pur, nil
}

func (s *purchaseService) ListBetween(ctx context.Context, companyID int, start, end time.Time) ([]Purchase, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT"+purchaseColumns+` FROM purchases
		 WHERE company_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date, id`,
		companyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		pur, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, *pur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range purchases {
		items, err := fetchLineItems(ctx, s.pool, "purchase_items", "purchase_id", purchases[i].ID)
		if err != nil {
			return nil, err
		}
		purchases[i].Items = items
	}
	return purchases, nil
}
