package core

import (
	"context"
	"time"
)

// Vendor is a supplier that can quote against material requests.
type Vendor struct {
	ID            int       `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// VendorInput holds the fields required to create a new vendor.
type VendorInput struct {
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// VendorService provides vendor master data operations.
type VendorService interface {
	// CreateVendor creates a new active vendor. Codes are unique.
	CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error)

	// GetVendors returns all active vendors ordered by code.
	GetVendors(ctx context.Context) ([]Vendor, error)

	// GetVendor returns a vendor by ID.
	GetVendor(ctx context.Context, vendorID int) (*Vendor, error)
}
