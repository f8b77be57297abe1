package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus is the lifecycle state of a quotation.
//
//	DRAFT → SENT → APPROVED → CONVERTED
//	DRAFT|SENT → REJECTED
type QuotationStatus string

const (
	QuotationDraft     QuotationStatus = "DRAFT"
	QuotationSent      QuotationStatus = "SENT"
	QuotationApproved  QuotationStatus = "APPROVED"
	QuotationRejected  QuotationStatus = "REJECTED"
	QuotationConverted QuotationStatus = "CONVERTED"
)

// ParseQuotationStatus converts a stored or user-supplied status string.
func ParseQuotationStatus(s string) (QuotationStatus, error) {
	switch st := QuotationStatus(s); st {
	case QuotationDraft, QuotationSent, QuotationApproved, QuotationRejected, QuotationConverted:
		return st, nil
	}
	return "", validationErrorf("unknown quotation status %q", s)
}

// IsTerminal reports whether no further transition is possible.
func (s QuotationStatus) IsTerminal() bool {
	return s == QuotationRejected || s == QuotationConverted
}

// SystemType tags a line as a catalogued system product or a bespoke item.
type SystemType string

const (
	SystemItem    SystemType = "SYSTEM"
	NonSystemItem SystemType = "NON_SYSTEM"
)

// ParseSystemType converts a system-type tag; an empty string defaults to NON_SYSTEM.
func ParseSystemType(s string) (SystemType, error) {
	switch st := SystemType(s); st {
	case SystemItem, NonSystemItem:
		return st, nil
	case "":
		return NonSystemItem, nil
	}
	return "", validationErrorf("unknown system type %q", s)
}

// Quotation is a priced proposal to a client.
// Subtotal, VATAmount and TotalAmount are cached and recomputed on every line,
// discount or VAT change.
type Quotation struct {
	ID              int             `json:"id"`
	Number          string          `json:"quotation_number"` // QT-<year>-<seq>
	ClientID        int             `json:"client_id"`
	ClientName      string          `json:"client_name"` // joined from clients
	InquiryID       *int            `json:"inquiry_id,omitempty"`
	PreparedBy      int             `json:"prepared_by"`
	ValidityDays    int             `json:"validity_days"`
	Discount        decimal.Decimal `json:"discount"`
	VATPercent      decimal.Decimal `json:"vat_percent"`
	Notes           string          `json:"notes"`
	Status          QuotationStatus `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SentBy          *int            `json:"sent_by,omitempty"`
	SentAt          *time.Time      `json:"sent_at,omitempty"`
	ApprovedBy      *int            `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectedBy      *int            `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	ProjectID       *int            `json:"project_id,omitempty"` // set once converted
	CreatedAt       time.Time       `json:"created_at"`
	Lines           []QuotationLine `json:"lines"`
}

// QuotationLine is one priced item within a quotation.
type QuotationLine struct {
	ID           int              `json:"id"`
	QuotationID  int              `json:"quotation_id"`
	LineNumber   int              `json:"line_number"`
	ItemName     string           `json:"item_name"`
	Width        *decimal.Decimal `json:"width,omitempty"`
	Height       *decimal.Decimal `json:"height,omitempty"`
	Quantity     int              `json:"quantity"`
	AreaSqm      *decimal.Decimal `json:"area_sqm,omitempty"`
	AreaDerived  bool             `json:"area_derived"` // AreaSqm came from width × height × quantity
	RunningMeter *decimal.Decimal `json:"running_meter,omitempty"`
	UnitRate     decimal.Decimal  `json:"unit_rate"`
	SystemType   SystemType       `json:"system_type"`
	LabourCost   decimal.Decimal  `json:"labour_cost"`
	Overheads    decimal.Decimal  `json:"overheads"`
	Remarks      string           `json:"remarks"`
	LineTotal    decimal.Decimal  `json:"line_total"`
}

// QuotationInput holds the header fields for creating a quotation.
type QuotationInput struct {
	ClientID     int
	InquiryID    *int
	ValidityDays int
	Discount     decimal.Decimal
	VATPercent   decimal.Decimal
	Notes        string
	Lines        []LineInput
}

// QuotationUpdate changes header fields; nil fields are left as they are.
type QuotationUpdate struct {
	ValidityDays *int
	Discount     *decimal.Decimal
	VATPercent   *decimal.Decimal
	Notes        *string
}

// Attachment is a document sent along with a notification.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// SendOptions controls the notification side of the send transition.
type SendOptions struct {
	Notify     bool
	Recipients []string
	Attachment *Attachment // optional; the notifier renders a summary PDF when nil
}

// ConvertInput describes the project to materialize from an approved quotation.
type ConvertInput struct {
	ProjectName string
	ProjectType ProjectType
	StartDate   *time.Time
	SubGroups   []SubGroupSeed
	Notify      bool
	Recipients  []string
}

// ConversionResult is returned by Convert.
type ConversionResult struct {
	Quotation *Quotation `json:"quotation"`
	Project   *Project   `json:"project"`
}

// QuotationService manages quotations and their status transitions.
// Every transition takes the acting user explicitly.
type QuotationService interface {
	// CreateQuotation creates a DRAFT quotation, pricing any initial lines.
	CreateQuotation(ctx context.Context, actor Actor, input QuotationInput) (*Quotation, error)

	// UpdateQuotation changes discount, VAT, validity or notes and recomputes totals.
	// Only DRAFT and SENT quotations may be changed.
	UpdateQuotation(ctx context.Context, quotationID int, upd QuotationUpdate) (*Quotation, error)

	// DeleteQuotation removes a DRAFT quotation. Anything sent or later is kept.
	DeleteQuotation(ctx context.Context, quotationID int) error

	// AddLine prices and appends a line. Only DRAFT and SENT quotations accept lines.
	AddLine(ctx context.Context, quotationID int, line LineInput) (*Quotation, error)

	// UpdateLine replaces a line's inputs and reprices it.
	UpdateLine(ctx context.Context, quotationID, lineID int, line LineInput) (*Quotation, error)

	// RemoveLine deletes a line and recomputes totals.
	RemoveLine(ctx context.Context, quotationID, lineID int) (*Quotation, error)

	// Send transitions DRAFT → SENT. The quotation must have at least one line.
	// A requested notification is best-effort and never undoes the transition.
	Send(ctx context.Context, quotationID int, actor Actor, opts SendOptions) (*Quotation, error)

	// Approve transitions SENT → APPROVED. The actor's role must be an approver role.
	Approve(ctx context.Context, quotationID int, actor Actor) (*Quotation, error)

	// Reject transitions DRAFT or SENT → REJECTED with a mandatory reason.
	Reject(ctx context.Context, quotationID int, actor Actor, reason string) (*Quotation, error)

	// Convert creates a project and its subgroups from an APPROVED quotation in one
	// transaction and marks the quotation CONVERTED.
	Convert(ctx context.Context, quotationID int, actor Actor, input ConvertInput) (*ConversionResult, error)

	// GetQuotation returns a quotation with its lines.
	GetQuotation(ctx context.Context, quotationID int) (*Quotation, error)

	// ListQuotations returns quotations, optionally filtered by status (nil = all).
	ListQuotations(ctx context.Context, status *QuotationStatus) ([]Quotation, error)
}

func (in LineInput) validate(lineNo int) error {
	if in.ItemName == "" {
		return validationErrorf("line %d: item name is required", lineNo)
	}
	if in.Quantity < 0 {
		return validationErrorf("line %d: quantity must be positive", lineNo)
	}
	if _, err := ParseSystemType(string(in.SystemType)); err != nil {
		return fmt.Errorf("line %d: %w", lineNo, err)
	}
	return nil
}

func validateHeader(discount, vat decimal.Decimal, validityDays int) error {
	if discount.IsNegative() {
		return validationErrorf("discount must not be negative")
	}
	if vat.IsNegative() || vat.GreaterThan(hundred) {
		return validationErrorf("VAT percent must be between 0 and 100")
	}
	if validityDays < 0 {
		return validationErrorf("validity days must not be negative")
	}
	return nil
}
