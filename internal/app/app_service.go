package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fitout-erp/internal/core"
	"fitout-erp/internal/export"
)

type appService struct {
	quotations  core.QuotationService
	projects    core.ProjectService
	procurement core.ProcurementService
	vendors     core.VendorService
	users       core.UserService
	issuer      string
}

// NewAppService constructs an appService that satisfies ApplicationService.
// issuer is the contractor name printed on generated documents.
func NewAppService(
	quotations core.QuotationService,
	projects core.ProjectService,
	procurement core.ProcurementService,
	vendors core.VendorService,
	users core.UserService,
	issuer string,
) ApplicationService {
	return &appService{
		quotations:  quotations,
		projects:    projects,
		procurement: procurement,
		vendors:     vendors,
		users:       users,
		issuer:      issuer,
	}
}

// ResolveActor loads the user so transitions use the role stored in the database.
func (s *appService) ResolveActor(ctx context.Context, userID int) (core.Actor, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return core.Actor{}, err
	}
	return u.Actor(), nil
}

// FindUser resolves a username to an active user.
func (s *appService) FindUser(ctx context.Context, username string) (*core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", core.ErrValidation)
	}
	return s.users.GetByUsername(ctx, username)
}

// PriceQuotation is a pure preview of line pricing and document totals.
func (s *appService) PriceQuotation(req PriceQuotationRequest) *PricingResult {
	return PriceLines(req)
}

// PriceLines prices req without an application service; the CLI uses it offline.
func PriceLines(req PriceQuotationRequest) *PricingResult {
	res := &PricingResult{Lines: make([]PricedLine, len(req.Lines))}
	totals := make([]decimal.Decimal, len(req.Lines))
	for i, l := range req.Lines {
		p := core.PriceLine(l.input())
		res.Lines[i] = PricedLine{ItemName: l.ItemName, LinePrice: p}
		totals[i] = p.LineTotal
	}
	res.Totals = core.ComputeTotals(totals, req.Discount, req.VATPercent)
	return res
}

func (s *appService) CreateQuotation(ctx context.Context, actor core.Actor, req CreateQuotationRequest) (*core.Quotation, error) {
	return s.quotations.CreateQuotation(ctx, actor, core.QuotationInput{
		ClientID:     req.ClientID,
		InquiryID:    req.InquiryID,
		ValidityDays: req.ValidityDays,
		Discount:     req.Discount,
		VATPercent:   req.VATPercent,
		Notes:        req.Notes,
		Lines:        lineInputs(req.Lines),
	})
}

func (s *appService) UpdateQuotation(ctx context.Context, quotationID int, req UpdateQuotationRequest) (*core.Quotation, error) {
	return s.quotations.UpdateQuotation(ctx, quotationID, core.QuotationUpdate{
		ValidityDays: req.ValidityDays,
		Discount:     req.Discount,
		VATPercent:   req.VATPercent,
		Notes:        req.Notes,
	})
}

func (s *appService) DeleteQuotation(ctx context.Context, quotationID int) error {
	return s.quotations.DeleteQuotation(ctx, quotationID)
}

func (s *appService) AddQuotationLine(ctx context.Context, quotationID int, req LineRequest) (*core.Quotation, error) {
	return s.quotations.AddLine(ctx, quotationID, req.input())
}

func (s *appService) UpdateQuotationLine(ctx context.Context, quotationID, lineID int, req LineRequest) (*core.Quotation, error) {
	return s.quotations.UpdateLine(ctx, quotationID, lineID, req.input())
}

func (s *appService) RemoveQuotationLine(ctx context.Context, quotationID, lineID int) (*core.Quotation, error) {
	return s.quotations.RemoveLine(ctx, quotationID, lineID)
}

func (s *appService) SendQuotation(ctx context.Context, quotationID int, actor core.Actor, req SendQuotationRequest) (*core.Quotation, error) {
	opts := core.SendOptions{Notify: req.Notify, Recipients: req.Recipients}
	if a := req.Attachment; a != nil {
		if a.Filename == "" || len(a.Data) == 0 {
			return nil, fmt.Errorf("%w: attachment needs a filename and data", core.ErrValidation)
		}
		mime := a.MimeType
		if mime == "" {
			mime = "application/octet-stream"
		}
		opts.Attachment = &core.Attachment{Filename: a.Filename, MimeType: mime, Data: a.Data}
	}
	return s.quotations.Send(ctx, quotationID, actor, opts)
}

func (s *appService) ApproveQuotation(ctx context.Context, quotationID int, actor core.Actor) (*core.Quotation, error) {
	return s.quotations.Approve(ctx, quotationID, actor)
}

func (s *appService) RejectQuotation(ctx context.Context, quotationID int, actor core.Actor, reason string) (*core.Quotation, error) {
	return s.quotations.Reject(ctx, quotationID, actor, reason)
}

func (s *appService) ConvertQuotation(ctx context.Context, quotationID int, actor core.Actor, req ConvertQuotationRequest) (*core.ConversionResult, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	return s.quotations.Convert(ctx, quotationID, actor, core.ConvertInput{
		ProjectName: req.ProjectName,
		ProjectType: core.ProjectType(req.ProjectType),
		StartDate:   start,
		SubGroups:   subGroupSeeds(req.SubGroups),
		Notify:      req.Notify,
		Recipients:  req.Recipients,
	})
}

func (s *appService) GetQuotation(ctx context.Context, quotationID int) (*core.Quotation, error) {
	return s.quotations.GetQuotation(ctx, quotationID)
}

func (s *appService) ListQuotations(ctx context.Context, status string) (*QuotationListResult, error) {
	var filter *core.QuotationStatus
	if status != "" {
		st, err := core.ParseQuotationStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	qs, err := s.quotations.ListQuotations(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &QuotationListResult{Quotations: qs}, nil
}

func (s *appService) QuotationPDF(ctx context.Context, quotationID int) (*FileResult, error) {
	q, err := s.quotations.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	data, err := export.QuotationPDF(q, s.issuer)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		Filename:    fmt.Sprintf("quotation-%d.pdf", q.ID),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *appService) CreateProject(ctx context.Context, actor core.Actor, req CreateProjectRequest) (*core.Project, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	return s.projects.CreateProject(ctx, actor, core.ProjectInput{
		Name:        req.Name,
		ClientID:    req.ClientID,
		Type:        core.ProjectType(req.Type),
		StartDate:   start,
		PlannedCost: req.PlannedCost,
		SubGroups:   subGroupSeeds(req.SubGroups),
	})
}

func (s *appService) GetProject(ctx context.Context, projectID int) (*core.Project, error) {
	return s.projects.GetProject(ctx, projectID)
}

func (s *appService) ChangeProjectStatus(ctx context.Context, projectID int, status string) (*core.Project, error) {
	st, err := core.ParseProjectStatus(status)
	if err != nil {
		return nil, err
	}
	return s.projects.ChangeProjectStatus(ctx, projectID, st)
}

func (s *appService) ListVendors(ctx context.Context) (*VendorsResult, error) {
	vendors, err := s.vendors.GetVendors(ctx)
	if err != nil {
		return nil, err
	}
	return &VendorsResult{Vendors: vendors}, nil
}

func (s *appService) GetVendor(ctx context.Context, vendorID int) (*core.Vendor, error) {
	return s.vendors.GetVendor(ctx, vendorID)
}

func (s *appService) CreateVendor(ctx context.Context, req CreateVendorRequest) (*core.Vendor, error) {
	return s.vendors.CreateVendor(ctx, core.VendorInput{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
}

func (s *appService) CreateMaterialRequest(ctx context.Context, actor core.Actor, req CreateMaterialRequestRequest) (*core.MaterialRequest, error) {
	items := make([]core.MaterialRequestItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = core.MaterialRequestItemInput{
			ItemID:       it.ItemID,
			ItemName:     it.ItemName,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			IsSystemItem: it.IsSystemItem,
		}
	}
	return s.procurement.CreateMaterialRequest(ctx, actor, core.MaterialRequestInput{
		ProjectID:  req.ProjectID,
		SubGroupID: req.SubGroupID,
		Notes:      req.Notes,
		Items:      items,
	})
}

func (s *appService) GetMaterialRequest(ctx context.Context, mrID int) (*core.MaterialRequest, error) {
	return s.procurement.GetMaterialRequest(ctx, mrID)
}

func (s *appService) CancelMaterialRequest(ctx context.Context, mrID int) (*core.MaterialRequest, error) {
	return s.procurement.CancelMaterialRequest(ctx, mrID)
}

func (s *appService) SubmitVendorQuote(ctx context.Context, mrID int, req SubmitVendorQuoteRequest) (*core.VendorQuote, error) {
	lines := make([]core.VendorQuoteLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.VendorQuoteLineInput{
			ItemID:       l.ItemID,
			Description:  l.Description,
			Quantity:     l.Quantity,
			UnitRate:     l.UnitRate,
			LeadTimeDays: l.LeadTimeDays,
		}
	}
	return s.procurement.SubmitVendorQuote(ctx, mrID, core.VendorQuoteInput{
		VendorID:    req.VendorID,
		QuoteNumber: req.QuoteNumber,
		QuotedBy:    req.QuotedBy,
		TotalAmount: req.TotalAmount,
		Lines:       lines,
	})
}

func (s *appService) ListVendorQuotes(ctx context.Context, mrID int) (*VendorQuotesResult, error) {
	quotes, err := s.procurement.ListVendorQuotes(ctx, mrID)
	if err != nil {
		return nil, err
	}
	return &VendorQuotesResult{MaterialRequestID: mrID, Quotes: quotes}, nil
}

func (s *appService) CompareQuotes(ctx context.Context, mrID int) (*core.ComparisonMatrix, error) {
	return s.procurement.CompareQuotes(ctx, mrID)
}

func (s *appService) ComparisonWorkbook(ctx context.Context, mrID int) (*FileResult, error) {
	m, err := s.procurement.CompareQuotes(ctx, mrID)
	if err != nil {
		return nil, err
	}
	data, err := export.ComparisonWorkbook(m)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		Filename:    fmt.Sprintf("comparison-mr-%d.xlsx", mrID),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, mrID int, actor core.Actor, req CreatePurchaseOrderRequest) (*core.PurchaseOrder, error) {
	if req.VendorQuoteID == 0 {
		return nil, fmt.Errorf("%w: vendor_quote_id is required", core.ErrValidation)
	}
	return s.procurement.CreatePurchaseOrder(ctx, mrID, req.VendorQuoteID, actor)
}

func (s *appService) GetPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error) {
	return s.procurement.GetPurchaseOrder(ctx, poID)
}
