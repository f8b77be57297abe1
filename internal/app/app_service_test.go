package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fitout-erp/internal/core"
)

// fakeQuotations records what the app layer hands to the core service.
type fakeQuotations struct {
	core.QuotationService

	sendOpts     core.SendOptions
	convertInput core.ConvertInput
}

func (f *fakeQuotations) Send(_ context.Context, id int, _ core.Actor, opts core.SendOptions) (*core.Quotation, error) {
	f.sendOpts = opts
	return &core.Quotation{ID: id, Status: core.QuotationSent}, nil
}

func (f *fakeQuotations) Convert(_ context.Context, id int, _ core.Actor, in core.ConvertInput) (*core.ConversionResult, error) {
	f.convertInput = in
	return &core.ConversionResult{Quotation: &core.Quotation{ID: id}}, nil
}

type fakeUsers struct {
	core.UserService
}

func (fakeUsers) GetByID(_ context.Context, id int) (*core.User, error) {
	if id != 4 {
		return nil, errors.New("user missing")
	}
	return &core.User{ID: 4, Role: "PROJECT_MANAGER"}, nil
}

func (fakeUsers) GetByUsername(_ context.Context, username string) (*core.User, error) {
	if username != "pat" {
		return nil, core.ErrNotFound
	}
	return &core.User{ID: 4, Username: "pat", Role: "PROJECT_MANAGER"}, nil
}

func newTestAppService(q *fakeQuotations) ApplicationService {
	return NewAppService(q, nil, nil, nil, fakeUsers{}, "Test Contracting")
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceLines(t *testing.T) {
	w, h := d("2"), d("3")
	res := PriceLines(PriceQuotationRequest{
		Discount:   d("30"),
		VATPercent: d("5"),
		Lines: []LineRequest{
			{ItemName: "Glass partition", Width: &w, Height: &h, UnitRate: d("100"), LabourCost: d("20"), Overheads: d("10")},
			{ItemName: "Site visit", UnitRate: d("50")},
		},
	})

	if len(res.Lines) != 2 || res.Lines[0].ItemName != "Glass partition" {
		t.Fatalf("unexpected lines: %+v", res.Lines)
	}
	if !res.Lines[0].LineTotal.Equal(d("630")) {
		t.Errorf("line 1 total: got %s, want 630", res.Lines[0].LineTotal)
	}
	if res.Lines[0].AreaSqm == nil || !res.Lines[0].AreaSqm.Equal(d("6")) {
		t.Errorf("line 1 area: got %v, want 6", res.Lines[0].AreaSqm)
	}
	if !res.Totals.Subtotal.Equal(res.Lines[0].LineTotal.Add(res.Lines[1].LineTotal)) {
		t.Errorf("subtotal %s is not the sum of line totals", res.Totals.Subtotal)
	}
}

func TestResolveActor(t *testing.T) {
	svc := newTestAppService(&fakeQuotations{})

	a, err := svc.ResolveActor(context.Background(), 4)
	if err != nil {
		t.Fatalf("ResolveActor: %v", err)
	}
	if a != (core.Actor{UserID: 4, Role: "PROJECT_MANAGER"}) {
		t.Errorf("got %+v", a)
	}
	if _, err := svc.ResolveActor(context.Background(), 5); err == nil {
		t.Error("expected an error for an unknown user")
	}
}

func TestFindUser(t *testing.T) {
	svc := newTestAppService(&fakeQuotations{})
	ctx := context.Background()

	u, err := svc.FindUser(ctx, " pat ")
	if err != nil {
		t.Fatalf("FindUser: %v", err)
	}
	if u.ID != 4 {
		t.Errorf("id: got %d, want 4", u.ID)
	}
	if _, err := svc.FindUser(ctx, "  "); !errors.Is(err, core.ErrValidation) {
		t.Errorf("blank username: expected ErrValidation, got %v", err)
	}
	if _, err := svc.FindUser(ctx, "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown username: expected ErrNotFound, got %v", err)
	}
}

func TestSendQuotation_Attachment(t *testing.T) {
	q := &fakeQuotations{}
	svc := newTestAppService(q)
	ctx := context.Background()

	_, err := svc.SendQuotation(ctx, 1, core.Actor{}, SendQuotationRequest{
		Attachment: &AttachmentRequest{Filename: "drawing.pdf"},
	})
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("attachment without data: expected ErrValidation, got %v", err)
	}

	_, err = svc.SendQuotation(ctx, 1, core.Actor{}, SendQuotationRequest{
		Notify:     true,
		Recipients: []string{"pm@acme.test"},
		Attachment: &AttachmentRequest{Filename: "drawing.dwg", Data: []byte{1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("SendQuotation: %v", err)
	}
	att := q.sendOpts.Attachment
	if att == nil || att.MimeType != "application/octet-stream" || len(att.Data) != 3 {
		t.Errorf("attachment not passed through with default MIME type: %+v", att)
	}
	if !q.sendOpts.Notify || len(q.sendOpts.Recipients) != 1 {
		t.Errorf("notify options lost: %+v", q.sendOpts)
	}
}

func TestConvertQuotation_StartDate(t *testing.T) {
	q := &fakeQuotations{}
	svc := newTestAppService(q)
	ctx := context.Background()

	_, err := svc.ConvertQuotation(ctx, 1, core.Actor{}, ConvertQuotationRequest{ProjectName: "HQ", StartDate: "03/02/2026"})
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad date: expected ErrValidation, got %v", err)
	}

	_, err = svc.ConvertQuotation(ctx, 1, core.Actor{}, ConvertQuotationRequest{
		ProjectName: "HQ",
		ProjectType: "INTERNAL",
		StartDate:   "2026-02-03",
		SubGroups:   []SubGroupRequest{{Name: "Floor 1", PlannedQuantity: d("4")}},
	})
	if err != nil {
		t.Fatalf("ConvertQuotation: %v", err)
	}
	in := q.convertInput
	if in.StartDate == nil || in.StartDate.Format("2006-01-02") != "2026-02-03" {
		t.Errorf("start date: got %v", in.StartDate)
	}
	if in.ProjectType != core.ProjectInternal || len(in.SubGroups) != 1 || in.SubGroups[0].Name != "Floor 1" {
		t.Errorf("convert input: %+v", in)
	}
}

func TestCreatePurchaseOrder_RequiresQuote(t *testing.T) {
	svc := newTestAppService(&fakeQuotations{})
	_, err := svc.CreatePurchaseOrder(context.Background(), 1, core.Actor{}, CreatePurchaseOrderRequest{})
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
