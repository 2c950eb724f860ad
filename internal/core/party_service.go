package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartyService persists customers and vendors. Save enforces the GSTIN
// invariant: a GST-enabled party must carry a valid GSTIN, a non-GST
// party must carry none.
type PartyService interface {
	Save(ctx context.Context, party *Party) (*Party, error)
	Get(ctx context.Context, companyID, partyID int) (*Party, error)
	List(ctx context.Context, companyID int, partyType PartyType, activeOnly bool) ([]Party, error)
}

type partyService struct {
	pool *pgxpool.Pool
}

// NewPartyService constructs a PartyService backed by PostgreSQL.
func NewPartyService(pool *pgxpool.Pool) PartyService {
	return &partyService{pool: pool}
}

// validateParty applies the Party invariants before any write.
func validateParty(party *Party) error {
	if party.Name == "" {
		return validationErrorf("name", "party name is required")
	}
	if party.Type != PartyCustomer && party.Type != PartyVendor {
		return validationErrorf("type", "party type must be %q or %q, got %q",
			PartyCustomer, PartyVendor, party.Type)
	}
	if party.GSTEnabled {
		if !ValidGSTIN(party.GSTIN) {
			return validationErrorf("gstin", "invalid GSTIN %q for GST-enabled party", party.GSTIN)
		}
	} else if party.GSTIN != "" {
		return validationErrorf("gstin", "GSTIN must be empty when GST is disabled")
	}
	return nil
}

func (s *partyService) Save(ctx context.Context, party *Party) (*Party, error) {
	if err := validateParty(party); err != nil {
		return nil, err
	}

	if party.ID == 0 {
		err := s.pool.QueryRow(ctx, `
			INSERT INTO parties (company_id, type, name, gstin, gst_enabled,
			                     address1, city, state, pincode, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at`,
			party.CompanyID, string(party.Type), party.Name, party.GSTIN, party.GSTEnabled,
			party.Address1, party.City, party.State, party.Pincode, party.IsActive,
		).Scan(&party.ID, &party.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert party: %w", err)
		}
		return party, nil
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE parties
		SET type = $1, name = $2, gstin = $3, gst_enabled = $4,
		    address1 = $5, city = $6, state = $7, pincode = $8, is_active = $9
		WHERE id = $10 AND company_id = $11`,
		string(party.Type), party.Name, party.GSTIN, party.GSTEnabled,
		party.Address1, party.City, party.State, party.Pincode, party.IsActive,
		party.ID, party.CompanyID,
	)
	if err != nil {
		return nil, fmt.Errorf("update party %d: %w", party.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("party %d: %w", party.ID, ErrNotFound)
	}
	return party, nil
}

func (s *partyService) Get(ctx context.Context, companyID, partyID int) (*Party, error) {
	party := &Party{}
	var partyType string
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, type, name, gstin, gst_enabled,
		       address1, city, state, pincode, is_active, created_at
		FROM parties
		WHERE id = $1 AND company_id = $2`,
		partyID, companyID,
	).Scan(
		&party.ID, &party.CompanyID, &partyType, &party.Name, &party.GSTIN, &party.GSTEnabled,
		&party.Address1, &party.City, &party.State, &party.Pincode, &party.IsActive, &party.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("party %d: %w", partyID, ErrNotFound)
		}
		return nil, fmt.Errorf("get party %d: %w", partyID, err)
	}
	party.Type = PartyType(partyType)
	return party, nil
}

func (s *partyService) List(ctx context.Context, companyID int, partyType PartyType, activeOnly bool) ([]Party, error) {
	query := `
		SELECT id, company_id, type, name, gstin, gst_enabled,
		       address1, city, state, pincode, is_active, created_at
		FROM parties
		WHERE company_id = $1`
	args := []any{companyID}

	if partyType != "" {
		args = append(args, string(partyType))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		var pType string
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &pType, &p.Name, &p.GSTIN, &p.GSTEnabled,
			&p.Address1, &p.City, &p.State, &p.Pincode, &p.IsActive, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		p.Type = PartyType(pType)
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// loadPartiesByID returns all of a company's parties keyed by ID, used by
// the report generator to resolve counterparty GSTIN/name per invoice.
func loadPartiesByID(ctx context.Context, pool *pgxpool.Pool, companyID int) (map[int]Party, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, company_id, type, name, gstin, gst_enabled
		FROM parties
		WHERE company_id = $1`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("load parties: %w", err)
	}
	defer rows.Close()

	parties := make(map[int]Party)
	for rows.Next() {
		var p Party
		var pType string
		if err := rows.Scan(&p.ID, &p.CompanyID, &pType, &p.Name, &p.GSTIN, &p.GSTEnabled); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		p.Type = PartyType(pType)
		parties[p.ID] = p
	}
	return parties, rows.Err()
}
