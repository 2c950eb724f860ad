package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GSTRService validates and generates statutory GST returns over a date
// range. Generation is fail-closed: a non-empty validation list is
// returned as ComplianceErrors and no report is produced. Reads are
// plain snapshot queries — reports are generated for closed historical
// periods, so no locking beyond the connection's isolation level is
// needed.
type GSTRService interface {
	ValidateGSTR1(ctx context.Context, companyID int, start, end time.Time) (ComplianceErrors, error)
	ValidateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (ComplianceErrors, error)
	GenerateGSTR1(ctx context.Context, companyID int, start, end time.Time) (*GSTR1Report, error)
	GenerateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (*GSTR3BReport, error)
}

type gstrService struct {
	pool      *pgxpool.Pool
	invoices  InvoiceService
	purchases PurchaseService
}

// NewGSTRService constructs a GSTRService over the invoice and purchase
// read paths.
func NewGSTRService(pool *pgxpool.Pool, invoices InvoiceService, purchases PurchaseService) GSTRService {
	return &gstrService{pool: pool, invoices: invoices, purchases: purchases}
}

func (s *gstrService) ValidateGSTR1(ctx context.Context, companyID int, start, end time.Time) (ComplianceErrors, error) {
	invoices, parties, err := s.loadSales(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	return ValidateInvoicesForGSTR1(invoices, parties), nil
}

func (s *gstrService) ValidateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (ComplianceErrors, error) {
	purchases, err := s.purchases.ListBetween(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	parties, err := loadPartiesByID(ctx, s.pool, companyID)
	if err != nil {
		return nil, err
	}
	return ValidatePurchasesForGSTR3B(purchases, parties), nil
}

func (s *gstrService) GenerateGSTR1(ctx context.Context, companyID int, start, end time.Time) (*GSTR1Report, error) {
	invoices, parties, err := s.loadSales(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	if errs := ValidateInvoicesForGSTR1(invoices, parties); len(errs) > 0 {
		return nil, errs
	}
	return BuildGSTR1(start, end, invoices, parties), nil
}

func (s *gstrService) GenerateGSTR3B(ctx context.Context, companyID int, start, end time.Time) (*GSTR3BReport, error) {
	invoices, parties, err := s.loadSales(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchases.ListBetween(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	if errs := ValidatePurchasesForGSTR3B(purchases, parties); len(errs) > 0 {
		return nil, errs
	}
	return BuildGSTR3B(start, end, invoices, purchases), nil
}

func (s *gstrService) loadSales(ctx context.Context, companyID int, start, end time.Time) ([]Invoice, map[int]Party, error) {
	invoices, err := s.invoices.ListBetween(ctx, companyID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("load invoices for period: %w", err)
	}
	parties, err := loadPartiesByID(ctx, s.pool, companyID)
	if err != nil {
		return nil, nil, err
	}
	return invoices, parties, nil
}
