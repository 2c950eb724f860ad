package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsService manages the tenant-scoped company settings row. The
// engine itself never calls Get — callers resolve settings and pass them
// in; the service exists for the CRUD surface around the engine.
type SettingsService interface {
	Get(ctx context.Context, companyID int) (*CompanySettings, error)
	Save(ctx context.Context, settings *CompanySettings) error
}

type settingsService struct {
	pool *pgxpool.Pool
}

// NewSettingsService constructs a SettingsService backed by PostgreSQL.
func NewSettingsService(pool *pgxpool.Pool) SettingsService {
	return &settingsService{pool: pool}
}

func (s *settingsService) Get(ctx context.Context, companyID int) (*CompanySettings, error) {
	settings := &CompanySettings{}
	err := s.pool.QueryRow(ctx, `
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
			return nil, fmt.Errorf("company %d settings: %w", companyID, ErrNotFound)
		}
		return nil, fmt.Errorf("get company %d settings: %w", companyID, err)
	}
	return settings, nil
}

func (s *settingsService) Save(ctx context.Context, settings *CompanySettings) error {
	if len(settings.StateCode) != 2 || !isDigit(settings.StateCode[0]) || !isDigit(settings.StateCode[1]) {
		return validationErrorf("state_code", "state code must be 2 digits, got %q", settings.StateCode)
	}
	if settings.GSTEnabled && !ValidGSTIN(settings.GSTIN) {
		return validationErrorf("gstin", "invalid GSTIN %q", settings.GSTIN)
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO company_settings (company_id, name, state_name, state_code, gstin, gst_enabled, invoice_prefix)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id)
		DO UPDATE SET name = $2, state_name = $3, state_code = $4, gstin = $5,
		              gst_enabled = $6, invoice_prefix = $7`,
		settings.CompanyID, settings.Name, settings.StateName, settings.StateCode,
		settings.GSTIN, settings.GSTEnabled, settings.InvoicePrefix,
	); err != nil {
		return fmt.Errorf("save company %d settings: %w", settings.CompanyID, err)
	}
	return nil
}
