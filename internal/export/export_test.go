package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fitout-erp/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleMatrix() *core.ComparisonMatrix {
	items := []core.MaterialRequestItem{
		{ItemName: "Gypsum board", Quantity: dec("10"), Unit: "nos"},
		{ItemName: "Aluminium stud", Quantity: dec("4"), Unit: "rm"},
	}
	quotes := []core.VendorQuote{
		{ID: 1, VendorName: "Alpha Supplies", QuoteNumber: "A-1", TotalAmount: dec("50"),
			Lines: []core.VendorQuoteLine{{Description: "Gypsum board", Quantity: dec("10"), UnitRate: dec("5")}}},
		{ID: 2, VendorName: "=Beta Trading", QuoteNumber: "B-7", TotalAmount: dec("48"),
			Lines: []core.VendorQuoteLine{
				{Description: "Gypsum board", Quantity: dec("10"), UnitRate: dec("4")},
				{Description: "Aluminium stud", Quantity: dec("4"), UnitRate: dec("2")},
			}},
	}
	return core.CompareVendorQuotes(7, items, quotes)
}

func TestComparisonWorkbook(t *testing.T) {
	result, err := ComparisonWorkbook(sampleMatrix())
	if err != nil {
		t.Fatalf("ComparisonWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Comparison" {
		t.Fatalf("expected single Comparison sheet, got %v", sheets)
	}

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Vendor quote comparison: material request 7"},
		{"A3", "Item"},
		{"D3", "Alpha Supplies (A-1)"},
		{"F3", "'=Beta Trading (B-7)"},
		{"D4", "Rate"},
		{"E4", "Total"},
		{"A5", "Gypsum board"},
		{"A6", "Aluminium stud"},
		{"D6", "not quoted"},
		{"A7", "Quote total"},
		{"D7", "incomplete"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("Comparison", tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("cell %s = %q, want %q", tt.cell, got, tt.want)
		}
	}

	best, _ := f.GetCellValue("Comparison", "A9")
	if !strings.HasPrefix(best, "Best quote: '=Beta Trading (B-7)") {
		t.Errorf("unexpected best-quote line %q", best)
	}
}

func TestComparisonWorkbook_NoQuotes(t *testing.T) {
	m := core.CompareVendorQuotes(3, []core.MaterialRequestItem{{ItemName: "Paint", Quantity: dec("2")}}, nil)

	result, err := ComparisonWorkbook(m)
	if err != nil {
		t.Fatalf("ComparisonWorkbook() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Comparison", "A8")
	if got != "No quotes submitted" {
		t.Errorf("expected 'No quotes submitted', got %q", got)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"Board", "Board"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuotationPDF(t *testing.T) {
	w, h := dec("2"), dec("1.5")
	area := dec("6")
	q := &core.Quotation{
		ID:           12,
		ClientName:   "Acme Interiors",
		ValidityDays: 30,
		Discount:     dec("30"),
		VATPercent:   dec("5"),
		Notes:        "Prices exclude site preparation.",
		Status:       core.QuotationSent,
		CreatedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []core.QuotationLine{{
			LineNumber: 1, ItemName: "Glass partition", Width: &w, Height: &h, Quantity: 2,
			AreaSqm: &area, UnitRate: dec("100"), LabourCost: dec("20"), Overheads: dec("10"),
			SystemType: core.SystemItem, LineTotal: dec("630"),
		}},
	}

	result, err := QuotationPDF(q, "Fit-Out Contracting LLC")
	if err != nil {
		t.Fatalf("QuotationPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("QuotationPDF() returned empty bytes")
	}
	if len(result) > 5 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header")
	}
}

func TestQuotationPDF_NoLines(t *testing.T) {
	q := &core.Quotation{ID: 1, ClientName: "Empty", Status: core.QuotationDraft}

	result, err := QuotationPDF(q, "Fit-Out Contracting LLC")
	if err != nil {
		t.Fatalf("QuotationPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("QuotationPDF() returned empty bytes")
	}
}
