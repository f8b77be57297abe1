package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vendorService struct {
	pool *pgxpool.Pool
}

// NewVendorService constructs a VendorService backed by PostgreSQL.
func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

const vendorColumns = `id, code, name, contact_person, email, phone, address, is_active, created_at`

func scanVendor(row pgx.Row, v *Vendor) error {
	return row.Scan(
		&v.ID, &v.Code, &v.Name,
		&v.ContactPerson, &v.Email, &v.Phone, &v.Address,
		&v.IsActive, &v.CreatedAt,
	)
}

// CreateVendor inserts a new vendor record.
func (s *vendorService) CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	if input.Code == "" || input.Name == "" {
		return nil, validationErrorf("vendor code and name are required")
	}

	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	v := &Vendor{}
	err := scanVendor(s.pool.QueryRow(ctx, `
		INSERT INTO vendors (code, name, contact_person, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+vendorColumns,
		input.Code, input.Name, toPtr(input.ContactPerson), toPtr(input.Email),
		toPtr(input.Phone), toPtr(input.Address),
	), v)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, validationErrorf("vendor code %q already exists", input.Code)
		}
		return nil, fmt.Errorf("create vendor %q: %w", input.Code, err)
	}
	return v, nil
}

// GetVendors returns all active vendors, ordered by code.
func (s *vendorService) GetVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors
		WHERE is_active = true
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("get vendors: %w", err)
	}
	defer rows.Close()

	vendors := []Vendor{}
	for rows.Next() {
		var v Vendor
		if err := scanVendor(rows, &v); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// GetVendor returns a vendor by ID.
func (s *vendorService) GetVendor(ctx context.Context, vendorID int) (*Vendor, error) {
	v := &Vendor{}
	err := scanVendor(s.pool.QueryRow(ctx,
		"SELECT "+vendorColumns+" FROM vendors WHERE id = $1", vendorID,
	), v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("vendor %d", vendorID)
		}
		return nil, fmt.Errorf("get vendor %d: %w", vendorID, err)
	}
	return v, nil
}
