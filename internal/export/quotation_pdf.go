package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	mcore "github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"fitout-erp/internal/core"
)

var grey = &props.Color{Red: 100, Green: 100, Blue: 100}

// QuotationPDF renders the client-facing summary of a quotation: header, priced lines
// and the discount / VAT / total block. issuer is printed as the letterhead.
func QuotationPDF(q *core.Quotation, issuer string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuotationHeader(m, q, issuer)
	addQuotationLines(m, q)
	addQuotationTotals(m, q)
	if q.Notes != "" {
		m.AddRows(row.New(4))
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("NOTES", props.Text{Size: 7, Style: fontstyle.Bold, Color: grey}))))
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New(q.Notes, props.Text{Size: 8}))))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addQuotationHeader(m mcore.Maroto, q *core.Quotation, issuer string) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(text.New(issuer, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left})),
			col.New(6).Add(text.New("QUOTATION", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right})),
		),
	)

	date := q.CreatedAt.Format("2006-01-02")
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("To: "+q.ClientName, props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(6).Add(text.New("Quotation #: "+q.Number, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		),
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New(fmt.Sprintf("Date: %s | Valid for %d days", date, q.ValidityDays), props.Text{Size: 8, Align: align.Right, Color: grey})),
		),
	)
	m.AddRows(row.New(4))
}

func addQuotationLines(m mcore.Maroto, q *core.Quotation) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	headCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New("#", head)).WithStyle(&headCell),
			col.New(4).Add(text.New("Item", head)).WithStyle(&headCell),
			col.New(2).Add(text.New("Size (W x H)", head)).WithStyle(&headCell),
			col.New(1).Add(text.New("Qty", head)).WithStyle(&headCell),
			col.New(1).Add(text.New("Area", head)).WithStyle(&headCell),
			col.New(1).Add(text.New("Rate", head)).WithStyle(&headCell),
			col.New(2).Add(text.New("Amount", head)).WithStyle(&headCell),
		),
	)

	cellText := props.Text{Size: 8, Align: align.Left}
	num := props.Text{Size: 8, Align: align.Right}
	for _, l := range q.Lines {
		size := ""
		if l.Width != nil && l.Height != nil {
			size = l.Width.String() + " x " + l.Height.String()
		}
		area := ""
		switch {
		case l.AreaSqm != nil:
			area = l.AreaSqm.StringFixed(2) + " sqm"
		case l.RunningMeter != nil:
			area = l.RunningMeter.String() + " rm"
		}
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", l.LineNumber), cellText)),
				col.New(4).Add(text.New(l.ItemName, cellText)),
				col.New(2).Add(text.New(size, cellText)),
				col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), num)),
				col.New(1).Add(text.New(area, num)),
				col.New(1).Add(text.New(l.UnitRate.StringFixed(2), num)),
				col.New(2).Add(text.New(l.LineTotal.StringFixed(2), num)),
			),
		)
	}
	m.AddRows(row.New(4))
}

func addQuotationTotals(m mcore.Maroto, q *core.Quotation) {
	t := core.QuotationTotals(q)
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 8, Align: align.Right}

	lines := [][2]string{
		{"Subtotal", t.Subtotal.StringFixed(2)},
		{"Discount", t.Discount.StringFixed(2)},
		{"After discount", t.AfterDiscount.StringFixed(2)},
		{fmt.Sprintf("VAT (%s%%)", t.VATPercent.String()), t.VATAmount.StringFixed(2)},
	}
	for _, kv := range lines {
		m.AddRows(row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New(kv[0], label)),
			col.New(2).Add(text.New(kv[1], value)),
		))
	}
	m.AddRows(row.New(8).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(t.Total.StringFixed(2), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
	))
}
