package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx, so line-item
// fetches work inside and outside a transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// insertLineItemsTx inserts derived line items for a document. table and
// fkColumn are compile-time constants supplied by the owning service
// (invoice_items/invoice_id etc.), never user input.
func insertLineItemsTx(ctx context.Context, tx pgx.Tx, table, fkColumn string, docID int, items []LineItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, line_number, product_id, description, hsn_code, unit,
		                quantity, rate, discount, discount_type, gst_rate,
		                taxable_value, cgst, sgst, igst, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		table, fkColumn)

	for _, item := range items {
		if _, err := tx.Exec(ctx, query,
			docID, item.LineNumber, item.ProductID, item.Description, item.HSNCode, item.Unit,
			item.Quantity, item.Rate, item.Discount, string(item.DiscountType), item.GSTRate,
			item.TaxableValue, item.CGST, item.SGST, item.IGST, item.Amount,
		); err != nil {
			return fmt.Errorf("insert %s line %d: %w", table, item.LineNumber, err)
		}
	}
	return nil
}

// fetchLineItems returns all lines of a document ordered by line number.
func fetchLineItems(ctx context.Context, q queryer, table, fkColumn string, docID int) ([]LineItem, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, line_number, product_id, description, hsn_code, unit,
		       quantity, rate, discount, discount_type, gst_rate,
		       taxable_value, cgst, sgst, igst, amount
		FROM %s
		WHERE %s = $1
		ORDER BY line_number`,
		fkColumn, table, fkColumn)

	rows, err := q.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s for document %d: %w", table, docID, err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		var discountType string
		if err := rows.Scan(
			&item.ID, &item.DocumentID, &item.LineNumber, &item.ProductID,
			&item.Description, &item.HSNCode, &item.Unit,
			&item.Quantity, &item.Rate, &item.Discount, &discountType, &item.GSTRate,
			&item.TaxableValue, &item.CGST, &item.SGST, &item.IGST, &item.Amount,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		item.DiscountType = DiscountType(discountType)
		items = append(items, item)
	}
	return items, rows.Err()
}
