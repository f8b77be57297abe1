package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequestStatus is the procurement state of a material request.
//
//	REQUESTED → QUOTED → PO_CREATED
//	REQUESTED|QUOTED → CANCELLED
type MaterialRequestStatus string

const (
	MRRequested MaterialRequestStatus = "REQUESTED"
	MRQuoted    MaterialRequestStatus = "QUOTED"
	MRPOCreated MaterialRequestStatus = "PO_CREATED"
	MRCancelled MaterialRequestStatus = "CANCELLED"
)

// ParseMaterialRequestStatus converts a stored or user-supplied status string.
func ParseMaterialRequestStatus(s string) (MaterialRequestStatus, error) {
	switch st := MaterialRequestStatus(s); st {
	case MRRequested, MRQuoted, MRPOCreated, MRCancelled:
		return st, nil
	}
	return "", validationErrorf("unknown material request status %q", s)
}

// AcceptsQuotes reports whether vendor quotes may still be submitted.
func (s MaterialRequestStatus) AcceptsQuotes() bool {
	switch s {
	case MRRequested, MRQuoted:
		return true
	case MRPOCreated, MRCancelled:
		return false
	}
	return false
}

// MaterialRequest is the canonical list of items a project or subgroup needs procured.
type MaterialRequest struct {
	ID          int                   `json:"id"`
	ProjectID   int                   `json:"project_id"`
	SubGroupID  *int                  `json:"subgroup_id,omitempty"`
	RequestedBy int                   `json:"requested_by"`
	Status      MaterialRequestStatus `json:"status"`
	Notes       string                `json:"notes"`
	CreatedAt   time.Time             `json:"created_at"`
	Items       []MaterialRequestItem `json:"items"`
}

// MaterialRequestItem is one requested item. ItemID is the catalogue reference, when known.
type MaterialRequestItem struct {
	ID           int             `json:"id"`
	LineNumber   int             `json:"line_number"`
	ItemID       *int            `json:"item_id,omitempty"`
	ItemName     string          `json:"item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	IsSystemItem bool            `json:"is_system_item"`
}

// MaterialRequestInput holds the fields for creating a material request.
type MaterialRequestInput struct {
	ProjectID  int
	SubGroupID *int
	Notes      string
	Items      []MaterialRequestItemInput
}

// MaterialRequestItemInput is one requested item.
type MaterialRequestItemInput struct {
	ItemID       *int
	ItemName     string
	Quantity     decimal.Decimal
	Unit         string
	IsSystemItem bool
}

// VendorQuote is one vendor's priced response to a material request.
type VendorQuote struct {
	ID                int               `json:"id"`
	MaterialRequestID int               `json:"material_request_id"`
	VendorID          int               `json:"vendor_id"`
	VendorName        string            `json:"vendor_name"`
	QuoteNumber       string            `json:"quote_number"`
	QuotedBy          string            `json:"quoted_by"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	CreatedAt         time.Time         `json:"created_at"`
	Lines             []VendorQuoteLine `json:"lines"`
}

// VendorQuoteLine is one priced line of a vendor quote.
type VendorQuoteLine struct {
	ID           int             `json:"id"`
	LineNumber   int             `json:"line_number"`
	ItemID       *int            `json:"item_id,omitempty"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// Subtotal is quantity × unit rate rounded to 2 dp, the amount a purchase order line holds.
func (l VendorQuoteLine) Subtotal() decimal.Decimal {
	return lineSubtotal(l.Quantity, l.UnitRate)
}

func lineSubtotal(qty, rate decimal.Decimal) decimal.Decimal {
	return qty.Mul(rate).Round(MoneyPlaces)
}

// VendorQuoteInput holds a submitted vendor quote. A nil TotalAmount is recomputed
// from the lines.
type VendorQuoteInput struct {
	VendorID    int
	QuoteNumber string
	QuotedBy    string
	TotalAmount *decimal.Decimal
	Lines       []VendorQuoteLineInput
}

// VendorQuoteLineInput is one submitted vendor quote line.
type VendorQuoteLineInput struct {
	ItemID       *int
	Description  string
	Quantity     decimal.Decimal
	UnitRate     decimal.Decimal
	LeadTimeDays int
}

// PurchaseOrder is created from exactly one vendor quote of a material request.
type PurchaseOrder struct {
	ID                int                 `json:"id"`
	MaterialRequestID int                 `json:"material_request_id"`
	VendorQuoteID     int                 `json:"vendor_quote_id"`
	VendorID          int                 `json:"vendor_id"`
	VendorName        string              `json:"vendor_name"`
	PONumber          string              `json:"po_number"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	CreatedBy         int                 `json:"created_by"`
	CreatedAt         time.Time           `json:"created_at"`
	Lines             []PurchaseOrderLine `json:"lines"`
}

// PurchaseOrderLine is copied from the chosen vendor quote line.
type PurchaseOrderLine struct {
	ID          int             `json:"id"`
	LineNumber  int             `json:"line_number"`
	ItemID      *int            `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ProcurementService manages material requests, vendor quotes and purchase orders.
type ProcurementService interface {
	// CreateMaterialRequest records a REQUESTED material request for a project or one of
	// its subgroups.
	CreateMaterialRequest(ctx context.Context, actor Actor, input MaterialRequestInput) (*MaterialRequest, error)

	// GetMaterialRequest returns a material request with its items.
	GetMaterialRequest(ctx context.Context, mrID int) (*MaterialRequest, error)

	// SubmitVendorQuote stores a vendor quote and moves the request to QUOTED.
	SubmitVendorQuote(ctx context.Context, mrID int, input VendorQuoteInput) (*VendorQuote, error)

	// ListVendorQuotes returns the quotes for a request in submission order.
	ListVendorQuotes(ctx context.Context, mrID int) ([]VendorQuote, error)

	// CompareQuotes builds the comparison matrix for a request. Nothing is written.
	CompareQuotes(ctx context.Context, mrID int) (*ComparisonMatrix, error)

	// CreatePurchaseOrder creates a PO from one of the request's vendor quotes and moves
	// the request to PO_CREATED. At most one PO exists per request.
	CreatePurchaseOrder(ctx context.Context, mrID, vendorQuoteID int, actor Actor) (*PurchaseOrder, error)

	// CancelMaterialRequest moves a REQUESTED or QUOTED request to CANCELLED.
	CancelMaterialRequest(ctx context.Context, mrID int) (*MaterialRequest, error)

	// GetPurchaseOrder returns a purchase order with its lines.
	GetPurchaseOrder(ctx context.Context, poID int) (*PurchaseOrder, error)
}
