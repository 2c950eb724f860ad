package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// DocumentNumberService allocates sequential, fiscal-year-scoped document
// numbers. NextNumberTx must be called inside the same transaction as the
// document insert: the counter-row upsert takes a row lock on the
// (company, series, fiscal year) scope, which serializes concurrent
// creations and makes the gapless sequence safe. Calling it outside that
// transaction re-opens the duplicate-number race.
type DocumentNumberService interface {
	NextNumberTx(ctx context.Context, tx pgx.Tx, companyID int, series Series, date time.Time) (string, error)
}

type documentNumberService struct{}

// NewDocumentNumberService constructs a DocumentNumberService backed by
// the document_sequences counter table.
func NewDocumentNumberService() DocumentNumberService {
	return &documentNumberService{}
}

func (s *documentNumberService) NextNumberTx(ctx context.Context, tx pgx.Tx, companyID int, series Series, date time.Time) (string, error) {
	fy := FiscalYear(date)

	var lastNumber int64
	const query = `
		INSERT INTO document_sequences (company_id, series, fiscal_year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, series, fiscal_year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`
	if err := tx.QueryRow(ctx, query, companyID, string(series), fy).Scan(&lastNumber); err != nil {
		return "", fmt.Errorf("allocate %s sequence for FY%d: %w", series, fy, err)
	}

	number, truncated := FormatDocumentNumber(series, fy, lastNumber)
	if truncated {
		// Legacy 16-char field width. Truncation can collide once the
		// sequence outgrows the remaining width, so make it visible.
		log.Warn().
			Str("series", string(series)).
			Int("fiscal_year", fy).
			Int64("sequence", lastNumber).
			Str("number", number).
			Msg("document number truncated to 16 characters")
	}
	return number, nil
}
