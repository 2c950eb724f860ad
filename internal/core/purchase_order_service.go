package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseOrderService governs the purchase order lifecycle.
//
// Transition re-reads the order's status under FOR UPDATE immediately
// before validating the move, and fails with ErrConflict when the status
// no longer matches what the caller last observed — a concurrent
// transition is never silently overwritten. ConvertToPurchase is the one
// operation that creates a second document: the new Purchase and the
// Closed order commit together or not at all.
type PurchaseOrderService interface {
	Create(ctx context.Context, companyID int, input DocumentInput) (*PurchaseOrder, error)
	Get(ctx context.Context, companyID, poID int) (*PurchaseOrder, error)
	// List returns a company's purchase orders, newest first, optionally
	// filtered by status (empty status means all).
	List(ctx context.Context, companyID int, status POStatus) ([]PurchaseOrder, error)
	// Transition moves the order to newStatus. expectedStatus is the
	// status the caller last observed; actorID is recorded as approved_by
	// on the Approved transition.
	Transition(ctx context.Context, companyID, poID int, newStatus, expectedStatus POStatus, actorID int) (*PurchaseOrder, error)
	// ConvertToPurchase converts an Approved order into a new Purchase,
	// re-deriving line taxes against the order's stored place-of-supply
	// state code, and closes the order.
	ConvertToPurchase(ctx context.Context, companyID, poID int) (*Purchase, error)
}

type purchaseOrderService struct {
	pool      *pgxpool.Pool
	numbering DocumentNumberService
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by
// PostgreSQL.
func NewPurchaseOrderService(pool *pgxpool.Pool, numbering DocumentNumberService) PurchaseOrderService {
	return &purchaseOrderService{pool: pool, numbering: numbering}
}

func (s *purchaseOrderService) Create(ctx context.Context, companyID int, input DocumentInput) (*PurchaseOrder, error) {
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

	number, err := s.numbering.NextNumberTx(ctx, tx, companyID, SeriesPurchaseOrder, input.Date)
	if err != nil {
		return nil, err
	}

	var poID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (company_id, party_id, number, status, date, delivery_date,
		                             payment_terms, place_of_supply, place_of_supply_code,
		                             reverse_charge, export_supply, billing_address, shipping_address, notes,
		                             subtotal, total_discount, taxable_value, cgst, sgst, igst,
		                             utgst, cess, round_off, grand_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id`,
		companyID, input.PartyID, number, string(PODraft), input.Date, input.DueDate,
		input.PaymentTerms, input.PlaceOfSupply, input.PlaceOfSupplyCode,
		input.ReverseCharge, input.ExportSupply, input.BillingAddress, input.ShippingAddress, input.Notes,
		totals.Subtotal, totals.TotalDiscount, totals.TaxableValue, totals.CGST, totals.SGST, totals.IGST,
		totals.UTGST, totals.CESS, totals.RoundOff, totals.GrandTotal,
	).Scan(&poID); err != nil {
		return nil, fmt.Errorf("insert purchase order: %w", err)
	}

	if err := insertLineItemsTx(ctx, tx, "purchase_order_items", "purchase_order_id", poID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order: %w", err)
	}

	return s.Get(ctx, companyID, poID)
}

func (s *purchaseOrderService) Transition(ctx context.Context, companyID, poID int, newStatus, expectedStatus POStatus, actorID int) (*PurchaseOrder, error) {
	if !ValidPOStatus(newStatus) {
		return nil, validationErrorf("status", "unknown purchase order status %q", newStatus)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current POStatus
	if err := tx.QueryRow(ctx,
		"SELECT status FROM purchase_orders WHERE id = $1 AND company_id = $2 FOR UPDATE",
		poID, companyID,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch purchase order %d: %w", poID, err)
	}

	if current != expectedStatus {
		return nil, fmt.Errorf("purchase order %d is %s, expected %s: %w", poID, current, expectedStatus, ErrConflict)
	}
	if !CanTransition(current, newStatus) {
		return nil, &StateTransitionError{OrderID: poID, From: current, To: newStatus}
	}

	query := "UPDATE purchase_orders SET status = $1"
	args := []any{string(newStatus)}
	if col := poTimestampColumn(newStatus); col != "" {
		query += fmt.Sprintf(", %s = NOW()", col)
	}
	if newStatus == POApproved {
		args = append(args, actorID)
		query += fmt.Sprintf(", approved_by = $%d", len(args))
	}
	args = append(args, poID)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("transition purchase order %d to %s: %w", poID, newStatus, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}

	return s.Get(ctx, companyID, poID)
}

func (s *purchaseOrderService) ConvertToPurchase(ctx context.Context, companyID, poID int) (*Purchase, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := fetchPOTx(ctx, tx, companyID, poID, true)
	if err != nil {
		return nil, err
	}
	if po.Status != POApproved {
		return nil, &StateTransitionError{OrderID: poID, From: po.Status, To: POClosed}
	}

	settings, party, err := loadDocContextTx(ctx, tx, companyID, po.PartyID, PartyVendor)
	if err != nil {
		return nil, err
	}

	// Re-derive taxes from the order's items against its stored
	// place-of-supply code — the state resolved when the order was made
	// is trusted, not re-validated against the current company state.
	drafts := make([]LineDraft, 0, len(po.Items))
	for _, item := range po.Items {
		drafts = append(drafts, LineDraft{
			ProductID:    item.ProductID,
			Description:  item.Description,
			HSNCode:      item.HSNCode,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			Rate:         item.Rate,
			Discount:     item.Discount,
			DiscountType: item.DiscountType,
			GSTRate:      item.GSTRate,
		})
	}
	items, totals, err := ComputeTotals(drafts, settings, po.PlaceOfSupplyCode, party.GSTEnabled)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	number, err := s.numbering.NextNumberTx(ctx, tx, companyID, SeriesPurchase, now)
	if err != nil {
		return nil, err
	}

	input := DocumentInput{
		PartyID:           po.PartyID,
		Date:              now,
		PaymentTerms:      po.PaymentTerms,
		PlaceOfSupply:     po.PlaceOfSupply,
		PlaceOfSupplyCode: po.PlaceOfSupplyCode,
		ReverseCharge:     po.ReverseCharge,
		ExportSupply:      po.ExportSupply,
		BillingAddress:    po.BillingAddress,
		ShippingAddress:   po.ShippingAddress,
	}
	purchaseID, err := insertPurchaseTx(ctx, tx, companyID, &poID, number, input, items, totals)
	if err != nil {
		return nil, err
	}

	// Conversion is itself the closing event: the order goes straight
	// from Approved to Closed.
	if _, err := tx.Exec(ctx,
		"UPDATE purchase_orders SET status = $1, closed_at = NOW() WHERE id = $2",
		string(POClosed), poID,
	); err != nil {
		return nil, fmt.Errorf("close purchase order %d: %w", poID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit conversion: %w", err)
	}

	pur, err := scanPurchase(s.pool.QueryRow(ctx,
		"SELECT"+purchaseColumns+" FROM purchases WHERE id = $1 AND company_id = $2",
		purchaseID, companyID,
	))
	if err != nil {
		return nil, fmt.Errorf("get purchase %d: %w", purchaseID, err)
	}
	purItems, err := fetchLineItems(ctx, s.pool, "purchase_items", "purchase_id", purchaseID)
	if err != nil {
		return nil, err
	}
	pur.Items = purItems
	return pur, nil
}

const poColumns = `
	id, company_id, party_id, number, status, date, delivery_date, payment_terms,
	place_of_supply, place_of_supply_code, reverse_charge, export_supply,
	billing_address, shipping_address, notes,
	subtotal, total_discount, taxable_value, cgst, sgst, igst,
	utgst, cess, round_off, grand_total,
	approved_by, approved_at, sent_at, received_at, closed_at, created_at`

func scanPO(row pgx.Row) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	var status string
	err := row.Scan(
		&po.ID, &po.CompanyID, &po.PartyID, &po.Number, &status, &po.Date, &po.DeliveryDate, &po.PaymentTerms,
		&po.PlaceOfSupply, &po.PlaceOfSupplyCode, &po.ReverseCharge, &po.ExportSupply,
		&po.BillingAddress, &po.ShippingAddress, &po.Notes,
		&po.Totals.Subtotal, &po.Totals.TotalDiscount, &po.Totals.TaxableValue,
		&po.Totals.CGST, &po.Totals.SGST, &po.Totals.IGST,
		&po.Totals.UTGST, &po.Totals.CESS, &po.Totals.RoundOff, &po.Totals.GrandTotal,
		&po.ApprovedBy, &po.ApprovedAt, &po.SentAt, &po.ReceivedAt, &po.ClosedAt, &po.CreatedAt,
	)
	po.Status = POStatus(status)
	return po, err
}

// fetchPOTx loads an order with its items inside a transaction, taking a
// row lock when forUpdate is set.
func fetchPOTx(ctx context.Context, tx pgx.Tx, companyID, poID int, forUpdate bool) (*PurchaseOrder, error) {
	query := "SELECT" + poColumns + " FROM purchase_orders WHERE id = $1 AND company_id = $2"
	if forUpdate {
		query += " FOR UPDATE"
	}

	po, err := scanPO(tx.QueryRow(ctx, query, poID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch purchase order %d: %w", poID, err)
	}

	items, err := fetchLineItems(ctx, tx, "purchase_order_items", "purchase_order_id", poID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, companyID, poID int) (*PurchaseOrder, error) {
	po, err := scanPO(s.pool.QueryRow(ctx,
		"SELECT"+poColumns+" FROM purchase_orders WHERE id = $1 AND company_id = $2",
		poID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrNotFound)
		}
		return nil, fmt.Errorf("get purchase order %d: %w", poID, err)
	}

	items, err := fetchLineItems(ctx, s.pool, "purchase_order_items", "purchase_order_id", poID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

func (s *purchaseOrderService) List(ctx context.Context, companyID int, status POStatus) ([]PurchaseOrder, error) {
	query := "SELECT" + poColumns + " FROM purchase_orders WHERE company_id = $1"
	args := []any{companyID}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, *po)
	}
	return orders, rows.Err()
}
