package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fitout-erp/internal/core"
)

func createProject(t *testing.T, pool *pgxpool.Pool, name string) *core.Project {
	t.Helper()
	p, err := core.NewProjectService(pool).CreateProject(context.Background(), director, core.ProjectInput{
		Name:        name,
		ClientID:    clientID,
		PlannedCost: dec("5000"),
		SubGroups: []core.SubGroupSeed{
			{Name: "Reception", PlannedQuantity: dec("1")},
		},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func boardRequest(projectID int) core.MaterialRequestInput {
	return core.MaterialRequestInput{
		ProjectID: projectID,
		Items: []core.MaterialRequestItemInput{
			{ItemName: "Gypsum board", Quantity: dec("10"), Unit: "sheet"},
			{ItemName: "Steel stud", Quantity: dec("20")},
		},
	}
}

func quoteInput(vendorID int, number, boardRate, studRate string) core.VendorQuoteInput {
	return core.VendorQuoteInput{
		VendorID:    vendorID,
		QuoteNumber: number,
		QuotedBy:    "Estimator",
		Lines: []core.VendorQuoteLineInput{
			{Description: "Gypsum board", Quantity: dec("10"), UnitRate: dec(boardRate), LeadTimeDays: 3},
			{Description: "Steel stud", Quantity: dec("20"), UnitRate: dec(studRate), LeadTimeDays: 5},
		},
	}
}

func TestCreateMaterialRequest_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewProcurementService(pool)

	p := createProject(t, pool, "Tower fit-out")
	other := createProject(t, pool, "Annex fit-out")

	_, err := svc.CreateMaterialRequest(ctx, director, core.MaterialRequestInput{ProjectID: p.ID})
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("no items: expected ErrValidation, got %v", err)
	}

	bad := boardRequest(p.ID)
	bad.Items[1].Quantity = dec("0")
	if _, err := svc.CreateMaterialRequest(ctx, director, bad); !errors.Is(err, core.ErrValidation) {
		t.Errorf("zero quantity: expected ErrValidation, got %v", err)
	}

	if _, err := svc.CreateMaterialRequest(ctx, director, boardRequest(999)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown project: expected ErrNotFound, got %v", err)
	}

	foreign := boardRequest(p.ID)
	foreign.SubGroupID = &other.SubGroups[0].ID
	if _, err := svc.CreateMaterialRequest(ctx, director, foreign); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("subgroup of another project: expected ErrNotFound, got %v", err)
	}

	in := boardRequest(p.ID)
	in.SubGroupID = &p.SubGroups[0].ID
	mr, err := svc.CreateMaterialRequest(ctx, director, in)
	if err != nil {
		t.Fatalf("CreateMaterialRequest: %v", err)
	}
	if mr.Status != core.MRRequested {
		t.Errorf("status: got %s, want REQUESTED", mr.Status)
	}
	if len(mr.Items) != 2 || mr.Items[1].Unit != "nos" || mr.Items[1].LineNumber != 2 {
		t.Errorf("items not stored in order with default unit: %+v", mr.Items)
	}
}

func TestProcurement_QuoteCompareOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewProcurementService(pool)

	p := createProject(t, pool, "Tower fit-out")
	mr, err := svc.CreateMaterialRequest(ctx, director, boardRequest(p.ID))
	if err != nil {
		t.Fatalf("CreateMaterialRequest: %v", err)
	}

	if _, err := svc.SubmitVendorQuote(ctx, mr.ID, quoteInput(vendorOff, "D-1", "1", "1")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("inactive vendor: expected ErrNotFound, got %v", err)
	}

	// Alpha: 10×12 + 20×4 = 200. Beta: 10×10 + 20×5 = 200, but it states its own total.
	qa, err := svc.SubmitVendorQuote(ctx, mr.ID, quoteInput(vendorA, "A-1", "12", "4"))
	if err != nil {
		t.Fatalf("SubmitVendorQuote A: %v", err)
	}
	if !qa.TotalAmount.Equal(dec("200")) {
		t.Errorf("recomputed total: got %s, want 200", qa.TotalAmount)
	}
	if qa.VendorName != "Alpha Interiors" || len(qa.Lines) != 2 {
		t.Errorf("unexpected quote: %+v", qa)
	}

	bIn := quoteInput(vendorB, "B-7", "10", "5")
	stated := dec("190")
	bIn.TotalAmount = &stated
	qb, err := svc.SubmitVendorQuote(ctx, mr.ID, bIn)
	if err != nil {
		t.Fatalf("SubmitVendorQuote B: %v", err)
	}

	got, err := svc.GetMaterialRequest(ctx, mr.ID)
	if err != nil {
		t.Fatalf("GetMaterialRequest: %v", err)
	}
	if got.Status != core.MRQuoted {
		t.Errorf("status after first quote: got %s, want QUOTED", got.Status)
	}

	quotes, err := svc.ListVendorQuotes(ctx, mr.ID)
	if err != nil {
		t.Fatalf("ListVendorQuotes: %v", err)
	}
	if len(quotes) != 2 || quotes[0].ID != qa.ID || quotes[1].ID != qb.ID {
		t.Fatalf("quotes not in submission order: %+v", quotes)
	}

	m, err := svc.CompareQuotes(ctx, mr.ID)
	if err != nil {
		t.Fatalf("CompareQuotes: %v", err)
	}
	if m.BestQuoteID != qb.ID {
		t.Errorf("best quote: got %d, want %d", m.BestQuoteID, qb.ID)
	}
	if !m.Rows[0].Cells[1].Lowest || m.Rows[0].Cells[0].Lowest {
		t.Errorf("board row: Beta should be lowest, got %+v", m.Rows[0].Cells)
	}
	if !m.Rows[1].Cells[0].Lowest || m.Rows[1].Cells[1].Lowest {
		t.Errorf("stud row: Alpha should be lowest, got %+v", m.Rows[1].Cells)
	}

	otherMR, err := svc.CreateMaterialRequest(ctx, director, boardRequest(p.ID))
	if err != nil {
		t.Fatalf("CreateMaterialRequest: %v", err)
	}
	if _, err := svc.CreatePurchaseOrder(ctx, otherMR.ID, qa.ID, director); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("PO on unquoted request: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.SubmitVendorQuote(ctx, otherMR.ID, quoteInput(vendorA, "A-2", "12", "4")); err != nil {
		t.Fatalf("SubmitVendorQuote on second request: %v", err)
	}
	if _, err := svc.CreatePurchaseOrder(ctx, otherMR.ID, qb.ID, director); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("quote from another request: expected ErrNotFound, got %v", err)
	}

	po, err := svc.CreatePurchaseOrder(ctx, mr.ID, qb.ID, director)
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	wantNumber := fmt.Sprintf("PO-%d-00001", time.Now().Year())
	if po.PONumber != wantNumber {
		t.Errorf("PO number: got %s, want %s", po.PONumber, wantNumber)
	}
	if po.VendorID != vendorB || !po.TotalAmount.Equal(dec("190")) {
		t.Errorf("PO header: vendor %d total %s", po.VendorID, po.TotalAmount)
	}
	if len(po.Lines) != 2 || !po.Lines[0].LineTotal.Equal(dec("100")) || !po.Lines[1].LineTotal.Equal(dec("100")) {
		t.Errorf("PO lines not copied from quote: %+v", po.Lines)
	}

	got, err = svc.GetMaterialRequest(ctx, mr.ID)
	if err != nil {
		t.Fatalf("GetMaterialRequest: %v", err)
	}
	if got.Status != core.MRPOCreated {
		t.Errorf("status after PO: got %s, want PO_CREATED", got.Status)
	}

	if _, err := svc.CreatePurchaseOrder(ctx, mr.ID, qa.ID, director); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("second PO: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.SubmitVendorQuote(ctx, mr.ID, quoteInput(vendorA, "A-3", "1", "1")); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("quote after PO: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.CancelMaterialRequest(ctx, mr.ID); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("cancel after PO: expected ErrInvalidTransition, got %v", err)
	}

	fetched, err := svc.GetPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPurchaseOrder: %v", err)
	}
	if fetched.VendorName != "Beta Glass" {
		t.Errorf("vendor name: got %q", fetched.VendorName)
	}
	if _, err := svc.GetPurchaseOrder(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown PO: expected ErrNotFound, got %v", err)
	}
}

func TestCancelMaterialRequest(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewProcurementService(pool)

	p := createProject(t, pool, "Tower fit-out")
	mr, err := svc.CreateMaterialRequest(ctx, director, boardRequest(p.ID))
	if err != nil {
		t.Fatalf("CreateMaterialRequest: %v", err)
	}

	cancelled, err := svc.CancelMaterialRequest(ctx, mr.ID)
	if err != nil {
		t.Fatalf("CancelMaterialRequest: %v", err)
	}
	if cancelled.Status != core.MRCancelled {
		t.Errorf("status: got %s, want CANCELLED", cancelled.Status)
	}
	if _, err := svc.CancelMaterialRequest(ctx, mr.ID); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("second cancel: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.SubmitVendorQuote(ctx, mr.ID, quoteInput(vendorA, "A-1", "1", "1")); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("quote on cancelled request: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.CancelMaterialRequest(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown request: expected ErrNotFound, got %v", err)
	}
}

func TestChangeProjectStatus(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewProjectService(pool)

	p := createProject(t, pool, "Tower fit-out")
	if p.Status != core.ProjectPlanned || p.Type != core.ProjectExternal {
		t.Fatalf("new project: status %s type %s", p.Status, p.Type)
	}

	if _, err := svc.ChangeProjectStatus(ctx, p.ID, core.ProjectCompleted); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("PLANNED → COMPLETED: expected ErrInvalidTransition, got %v", err)
	}
	for _, to := range []core.ProjectStatus{core.ProjectRunning, core.ProjectHold, core.ProjectRunning, core.ProjectCompleted} {
		got, err := svc.ChangeProjectStatus(ctx, p.ID, to)
		if err != nil {
			t.Fatalf("move to %s: %v", to, err)
		}
		if got.Status != to {
			t.Errorf("status: got %s, want %s", got.Status, to)
		}
	}
	if _, err := svc.ChangeProjectStatus(ctx, p.ID, "ARCHIVED"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("unknown status: expected ErrValidation, got %v", err)
	}
	if _, err := svc.ChangeProjectStatus(ctx, 999, core.ProjectRunning); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown project: expected ErrNotFound, got %v", err)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewProjectService(pool)

	cases := []struct {
		name  string
		input core.ProjectInput
		want  error
	}{
		{"blank name", core.ProjectInput{Name: "  ", ClientID: clientID}, core.ErrValidation},
		{"bad type", core.ProjectInput{Name: "X", ClientID: clientID, Type: "PUBLIC"}, core.ErrValidation},
		{"negative cost", core.ProjectInput{Name: "X", ClientID: clientID, PlannedCost: dec("-1")}, core.ErrValidation},
		{"unnamed subgroup", core.ProjectInput{Name: "X", ClientID: clientID, SubGroups: []core.SubGroupSeed{{}}}, core.ErrValidation},
		{"unknown client", core.ProjectInput{Name: "X", ClientID: 999}, core.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateProject(ctx, director, tc.input); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
