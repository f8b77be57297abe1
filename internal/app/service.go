package app

import (
	"context"

	"fitout-erp/internal/core"
)

// ApplicationService is the single interface the CLI and web adapters call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// ResolveActor loads an active user and returns the identity used for transitions.
	ResolveActor(ctx context.Context, userID int) (core.Actor, error)

	// FindUser looks up an active user by username.
	FindUser(ctx context.Context, username string) (*core.User, error)

	// PriceQuotation prices lines and totals without touching the database.
	PriceQuotation(req PriceQuotationRequest) *PricingResult

	// CreateQuotation creates a DRAFT quotation prepared by actor.
	CreateQuotation(ctx context.Context, actor core.Actor, req CreateQuotationRequest) (*core.Quotation, error)

	// UpdateQuotation changes header fields of a DRAFT or SENT quotation.
	UpdateQuotation(ctx context.Context, quotationID int, req UpdateQuotationRequest) (*core.Quotation, error)

	// DeleteQuotation removes a DRAFT quotation.
	DeleteQuotation(ctx context.Context, quotationID int) error

	// AddQuotationLine prices and appends a line.
	AddQuotationLine(ctx context.Context, quotationID int, req LineRequest) (*core.Quotation, error)

	// UpdateQuotationLine reprices an existing line.
	UpdateQuotationLine(ctx context.Context, quotationID, lineID int, req LineRequest) (*core.Quotation, error)

	// RemoveQuotationLine deletes a line.
	RemoveQuotationLine(ctx context.Context, quotationID, lineID int) (*core.Quotation, error)

	// SendQuotation transitions DRAFT → SENT, optionally notifying recipients.
	SendQuotation(ctx context.Context, quotationID int, actor core.Actor, req SendQuotationRequest) (*core.Quotation, error)

	// ApproveQuotation transitions SENT → APPROVED.
	ApproveQuotation(ctx context.Context, quotationID int, actor core.Actor) (*core.Quotation, error)

	// RejectQuotation transitions DRAFT or SENT → REJECTED.
	RejectQuotation(ctx context.Context, quotationID int, actor core.Actor, reason string) (*core.Quotation, error)

	// ConvertQuotation creates the project for an APPROVED quotation.
	ConvertQuotation(ctx context.Context, quotationID int, actor core.Actor, req ConvertQuotationRequest) (*core.ConversionResult, error)

	// GetQuotation returns one quotation with its lines.
	GetQuotation(ctx context.Context, quotationID int) (*core.Quotation, error)

	// ListQuotations returns quotation headers. An empty status returns all.
	ListQuotations(ctx context.Context, status string) (*QuotationListResult, error)

	// QuotationPDF renders the client-facing quotation document.
	QuotationPDF(ctx context.Context, quotationID int) (*FileResult, error)

	// CreateProject creates a standalone project.
	CreateProject(ctx context.Context, actor core.Actor, req CreateProjectRequest) (*core.Project, error)

	// GetProject returns a project with its subgroups.
	GetProject(ctx context.Context, projectID int) (*core.Project, error)

	// ChangeProjectStatus moves a project to status.
	ChangeProjectStatus(ctx context.Context, projectID int, status string) (*core.Project, error)

	// ListVendors returns all active vendors.
	ListVendors(ctx context.Context) (*VendorsResult, error)

	// GetVendor returns one vendor.
	GetVendor(ctx context.Context, vendorID int) (*core.Vendor, error)

	// CreateVendor creates a vendor.
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*core.Vendor, error)

	// CreateMaterialRequest records a material request.
	CreateMaterialRequest(ctx context.Context, actor core.Actor, req CreateMaterialRequestRequest) (*core.MaterialRequest, error)

	// GetMaterialRequest returns a material request with its items.
	GetMaterialRequest(ctx context.Context, mrID int) (*core.MaterialRequest, error)

	// CancelMaterialRequest cancels a request without a purchase order.
	CancelMaterialRequest(ctx context.Context, mrID int) (*core.MaterialRequest, error)

	// SubmitVendorQuote stores a vendor's quote against a request.
	SubmitVendorQuote(ctx context.Context, mrID int, req SubmitVendorQuoteRequest) (*core.VendorQuote, error)

	// ListVendorQuotes returns a request's quotes in submission order.
	ListVendorQuotes(ctx context.Context, mrID int) (*VendorQuotesResult, error)

	// CompareQuotes returns the comparison matrix for a request.
	CompareQuotes(ctx context.Context, mrID int) (*core.ComparisonMatrix, error)

	// ComparisonWorkbook renders the comparison matrix as XLSX.
	ComparisonWorkbook(ctx context.Context, mrID int) (*FileResult, error)

	// CreatePurchaseOrder creates the purchase order from a chosen vendor quote.
	CreatePurchaseOrder(ctx context.Context, mrID int, actor core.Actor, req CreatePurchaseOrderRequest) (*core.PurchaseOrder, error)

	// GetPurchaseOrder returns a purchase order with its lines.
	GetPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error)
}
