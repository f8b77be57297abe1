package app

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fitout-erp/internal/core"
)

// LineRequest is one quotation line as entered by the user.
type LineRequest struct {
	ItemName     string           `json:"item_name"`
	Width        *decimal.Decimal `json:"width,omitempty"`
	Height       *decimal.Decimal `json:"height,omitempty"`
	Quantity     int              `json:"quantity"` // zero means 1
	AreaSqm      *decimal.Decimal `json:"area_sqm,omitempty"`
	RunningMeter *decimal.Decimal `json:"running_meter,omitempty"`
	UnitRate     decimal.Decimal  `json:"unit_rate"`
	SystemType   string           `json:"system_type"`
	LabourCost   decimal.Decimal  `json:"labour_cost"`
	Overheads    decimal.Decimal  `json:"overheads"`
	Remarks      string           `json:"remarks"`
}

func (r LineRequest) input() core.LineInput {
	return core.LineInput{
		ItemName:     r.ItemName,
		Width:        r.Width,
		Height:       r.Height,
		Quantity:     r.Quantity,
		AreaSqm:      r.AreaSqm,
		RunningMeter: r.RunningMeter,
		UnitRate:     r.UnitRate,
		SystemType:   core.SystemType(r.SystemType),
		LabourCost:   r.LabourCost,
		Overheads:    r.Overheads,
		Remarks:      r.Remarks,
	}
}

func lineInputs(lines []LineRequest) []core.LineInput {
	out := make([]core.LineInput, len(lines))
	for i, l := range lines {
		out[i] = l.input()
	}
	return out
}

// PriceQuotationRequest is the input for an offline price preview.
type PriceQuotationRequest struct {
	Discount   decimal.Decimal `json:"discount"`
	VATPercent decimal.Decimal `json:"vat_percent"`
	Lines      []LineRequest   `json:"lines"`
}

// CreateQuotationRequest is the input for creating a DRAFT quotation.
type CreateQuotationRequest struct {
	ClientID     int             `json:"client_id"`
	InquiryID    *int            `json:"inquiry_id,omitempty"`
	ValidityDays int             `json:"validity_days"` // zero means 30
	Discount     decimal.Decimal `json:"discount"`
	VATPercent   decimal.Decimal `json:"vat_percent"`
	Notes        string          `json:"notes"`
	Lines        []LineRequest   `json:"lines"`
}

// UpdateQuotationRequest changes header fields; omitted fields are left unchanged.
type UpdateQuotationRequest struct {
	ValidityDays *int             `json:"validity_days,omitempty"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	VATPercent   *decimal.Decimal `json:"vat_percent,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// AttachmentRequest is a document supplied with a send request. Data is base64 in JSON.
type AttachmentRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// SendQuotationRequest controls the notification part of sending.
type SendQuotationRequest struct {
	Notify     bool               `json:"notify"`
	Recipients []string           `json:"recipients"`
	Attachment *AttachmentRequest `json:"attachment,omitempty"`
}

// RejectQuotationRequest carries the mandatory rejection reason.
type RejectQuotationRequest struct {
	Reason string `json:"reason"`
}

// SubGroupRequest is one subgroup to create with a project.
type SubGroupRequest struct {
	Name            string           `json:"name"`
	PlannedQuantity decimal.Decimal  `json:"planned_quantity"`
	PlannedArea     *decimal.Decimal `json:"planned_area,omitempty"`
}

func subGroupSeeds(in []SubGroupRequest) []core.SubGroupSeed {
	out := make([]core.SubGroupSeed, len(in))
	for i, sg := range in {
		out[i] = core.SubGroupSeed{Name: sg.Name, PlannedQuantity: sg.PlannedQuantity, PlannedArea: sg.PlannedArea}
	}
	return out
}

// ConvertQuotationRequest describes the project to create from an approved quotation.
type ConvertQuotationRequest struct {
	ProjectName string            `json:"project_name"`
	ProjectType string            `json:"project_type"`
	StartDate   string            `json:"start_date"` // YYYY-MM-DD, optional
	SubGroups   []SubGroupRequest `json:"sub_groups"`
	Notify      bool              `json:"notify"`
	Recipients  []string          `json:"recipients"`
}

// CreateProjectRequest is the input for a standalone project.
type CreateProjectRequest struct {
	Name        string            `json:"name"`
	ClientID    int               `json:"client_id"`
	Type        string            `json:"type"`
	StartDate   string            `json:"start_date"` // YYYY-MM-DD, optional
	PlannedCost decimal.Decimal   `json:"planned_cost"`
	SubGroups   []SubGroupRequest `json:"sub_groups"`
}

// ChangeProjectStatusRequest names the target project status.
type ChangeProjectStatusRequest struct {
	Status string `json:"status"`
}

// CreateVendorRequest is the input for creating a new vendor.
type CreateVendorRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// MaterialRequestItemRequest is one requested item.
type MaterialRequestItemRequest struct {
	ItemID       *int            `json:"item_id,omitempty"`
	ItemName     string          `json:"item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	IsSystemItem bool            `json:"is_system_item"`
}

// CreateMaterialRequestRequest is the input for a material request.
type CreateMaterialRequestRequest struct {
	ProjectID  int                          `json:"project_id"`
	SubGroupID *int                         `json:"subgroup_id,omitempty"`
	Notes      string                       `json:"notes"`
	Items      []MaterialRequestItemRequest `json:"items"`
}

// VendorQuoteLineRequest is one line of a submitted vendor quote.
type VendorQuoteLineRequest struct {
	ItemID       *int            `json:"item_id,omitempty"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// SubmitVendorQuoteRequest is a vendor's priced response. A missing total is recomputed.
type SubmitVendorQuoteRequest struct {
	VendorID    int                      `json:"vendor_id"`
	QuoteNumber string                   `json:"quote_number"`
	QuotedBy    string                   `json:"quoted_by"`
	TotalAmount *decimal.Decimal         `json:"total_amount,omitempty"`
	Lines       []VendorQuoteLineRequest `json:"lines"`
}

// CreatePurchaseOrderRequest names the vendor quote to order from.
type CreatePurchaseOrderRequest struct {
	VendorQuoteID int `json:"vendor_quote_id"`
}

// parseDate parses an optional YYYY-MM-DD date.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", core.ErrValidation, field, s)
	}
	return &t, nil
}
