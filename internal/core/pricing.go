package core

import "github.com/shopspring/decimal"

// PricingBasis names the rule that produced a line's base amount.
type PricingBasis string

const (
	BasisArea         PricingBasis = "AREA"
	BasisRunningMeter PricingBasis = "RUNNING_METER"
	BasisDimensions   PricingBasis = "DIMENSIONS"
	BasisNone         PricingBasis = "NONE"
)

var hundred = decimal.NewFromInt(100)

// Stored precision: money and areas keep 2 places, lengths and quantities keep 3.
const (
	MoneyPlaces  = 2
	LengthPlaces = 3
)

// LineInput is the raw, user-entered part of a quotation line.
// Nil pointers mean "not supplied".
type LineInput struct {
	ItemName     string
	Width        *decimal.Decimal
	Height       *decimal.Decimal
	Quantity     int // zero means the default of 1
	AreaSqm      *decimal.Decimal
	RunningMeter *decimal.Decimal
	UnitRate     decimal.Decimal
	SystemType   SystemType
	LabourCost   decimal.Decimal
	Overheads    decimal.Decimal
	Remarks      string
}

// normalized clamps negative inputs to zero and rounds each one to the precision it is
// stored with, so a line priced before saving and the same line read back price alike.
func (in LineInput) normalized() LineInput {
	in.Width = roundPtr(clampPtr(in.Width), LengthPlaces)
	in.Height = roundPtr(clampPtr(in.Height), LengthPlaces)
	in.AreaSqm = roundPtr(clampPtr(in.AreaSqm), MoneyPlaces)
	in.RunningMeter = roundPtr(clampPtr(in.RunningMeter), LengthPlaces)
	in.UnitRate = clampZero(in.UnitRate).Round(MoneyPlaces)
	in.LabourCost = clampZero(in.LabourCost).Round(MoneyPlaces)
	in.Overheads = clampZero(in.Overheads).Round(MoneyPlaces)
	return in
}

// LinePrice is the result of pricing one line.
type LinePrice struct {
	// AreaSqm is the supplied area or, when absent, width × height × quantity rounded to 2 dp.
	AreaSqm   *decimal.Decimal `json:"area_sqm,omitempty"`
	Basis     PricingBasis     `json:"basis"`
	Base      decimal.Decimal  `json:"base"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

// PriceLine computes a line total. The first basis that applies wins:
// area (supplied, or derived from width × height × quantity), then running meter.
// Labour and overheads are added on top. Negative inputs are treated as zero so the
// total is never negative. Inputs are rounded to their stored precision first and the
// base is rounded to 2 dp, so the line total is exactly what a NUMERIC(14,2) column holds.
func PriceLine(in LineInput) LinePrice {
	in = in.normalized()
	rate := in.UnitRate
	qty := decimal.NewFromInt(int64(normalizeQuantity(in.Quantity)))

	area := in.AreaSqm
	derived := false
	if area == nil && in.Width != nil && in.Height != nil {
		a := in.Width.Mul(*in.Height).Mul(qty).Round(MoneyPlaces)
		area = &a
		derived = true
	}

	var out LinePrice
	out.AreaSqm = area

	switch {
	case area != nil:
		// A derived area is the rounded width × height × quantity, so dimension pricing
		// and a later reprice of the stored line agree.
		out.Basis = BasisArea
		if derived {
			out.Basis = BasisDimensions
		}
		out.Base = area.Mul(rate).Round(MoneyPlaces)
	case in.RunningMeter != nil:
		out.Basis = BasisRunningMeter
		out.Base = in.RunningMeter.Mul(rate).Round(MoneyPlaces)
	default:
		out.Basis = BasisNone
		out.Base = decimal.Zero
	}

	out.LineTotal = out.Base.Add(in.LabourCost).Add(in.Overheads)
	return out
}

// DocumentTotals holds the cached money fields of a quotation.
type DocumentTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"` // effective discount after clamping
	AfterDiscount decimal.Decimal `json:"after_discount"`
	VATPercent    decimal.Decimal `json:"vat_percent"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	Total         decimal.Decimal `json:"total"`
}

// ComputeTotals sums line totals and applies discount then VAT:
//
//	total = max(0, subtotal − discount) × (1 + vat/100)
//
// Discount and VAT percent are taken at their stored 2 dp. The VAT amount is rounded to
// 2 dp before it is added, and the total is rounded to 2 dp.
func ComputeTotals(lineTotals []decimal.Decimal, discount, vatPercent decimal.Decimal) DocumentTotals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(clampZero(lt))
	}

	disc := clampZero(discount).Round(MoneyPlaces)
	if disc.GreaterThan(subtotal) {
		disc = subtotal
	}

	vat := clampZero(vatPercent).Round(MoneyPlaces)
	if vat.GreaterThan(hundred) {
		vat = hundred
	}

	afterDiscount := subtotal.Sub(disc)
	vatAmount := afterDiscount.Mul(vat).Div(hundred).Round(2)

	return DocumentTotals{
		Subtotal:      subtotal.Round(2),
		Discount:      disc.Round(2),
		AfterDiscount: afterDiscount.Round(2),
		VATPercent:    vat,
		VATAmount:     vatAmount,
		Total:         afterDiscount.Add(vatAmount).Round(2),
	}
}

// QuotationTotals recomputes the totals of q from its lines' stored line totals.
func QuotationTotals(q *Quotation) DocumentTotals {
	totals := make([]decimal.Decimal, len(q.Lines))
	for i, l := range q.Lines {
		totals[i] = l.LineTotal
	}
	return ComputeTotals(totals, q.Discount, q.VATPercent)
}

func normalizeQuantity(q int) int {
	if q == 0 {
		return 1
	}
	if q < 0 {
		return 0
	}
	return q
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func roundPtr(d *decimal.Decimal, places int32) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Round(places)
	return &v
}

func clampPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := clampZero(*d)
	return &v
}
