package core

import "github.com/shopspring/decimal"

// ComparisonMatrix lays requested items (rows) against vendor quotes (columns).
type ComparisonMatrix struct {
	MaterialRequestID int                `json:"material_request_id"`
	Columns           []ComparisonColumn `json:"columns"`
	Rows              []ComparisonRow    `json:"rows"`
	// BestQuoteIndex is the column with the smallest total amount, or -1 with no quotes.
	BestQuoteIndex int `json:"best_quote_index"`
	BestQuoteID    int `json:"best_quote_id,omitempty"`
}

// ComparisonColumn summarises one vendor quote.
type ComparisonColumn struct {
	VendorQuoteID int             `json:"vendor_quote_id"`
	VendorID      int             `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	QuoteNumber   string          `json:"quote_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	// Complete is false when at least one requested item has no matching quote line.
	Complete bool `json:"complete"`
	Best     bool `json:"best"`
}

// ComparisonRow is one requested item with a cell per vendor quote.
type ComparisonRow struct {
	ItemID   *int             `json:"item_id,omitempty"`
	ItemName string           `json:"item_name"`
	Quantity decimal.Decimal  `json:"quantity"`
	Unit     string           `json:"unit"`
	Cells    []ComparisonCell `json:"cells"`
}

// ComparisonCell is one vendor's price for one requested item.
// An unquoted cell has zero rate and total and is never flagged lowest.
type ComparisonCell struct {
	Quoted       bool            `json:"quoted"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	LineTotal    decimal.Decimal `json:"line_total"`
	LeadTimeDays int             `json:"lead_time_days"`
	Lowest       bool            `json:"lowest"`
}

// CompareVendorQuotes builds the comparison matrix for items against quotes.
//
// A quote line matches an item by catalogue reference first, then by exact description.
// Within a row every cell holding the strictly lowest non-zero rate is flagged. The best
// quote is the smallest total amount; on a tie the earliest quote keeps the win.
func CompareVendorQuotes(mrID int, items []MaterialRequestItem, quotes []VendorQuote) *ComparisonMatrix {
	m := &ComparisonMatrix{
		MaterialRequestID: mrID,
		Columns:           make([]ComparisonColumn, len(quotes)),
		Rows:              make([]ComparisonRow, len(items)),
		BestQuoteIndex:    -1,
	}

	for j, q := range quotes {
		m.Columns[j] = ComparisonColumn{
			VendorQuoteID: q.ID,
			VendorID:      q.VendorID,
			VendorName:    q.VendorName,
			QuoteNumber:   q.QuoteNumber,
			TotalAmount:   q.TotalAmount,
			Complete:      true,
		}
	}

	for i, item := range items {
		row := ComparisonRow{
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Cells:    make([]ComparisonCell, len(quotes)),
		}

		var lowest *decimal.Decimal
		for j, q := range quotes {
			line, ok := matchQuoteLine(item, q.Lines)
			if !ok {
				m.Columns[j].Complete = false
				row.Cells[j] = ComparisonCell{UnitRate: decimal.Zero, LineTotal: decimal.Zero}
				continue
			}
			cell := ComparisonCell{
				Quoted:       true,
				UnitRate:     line.UnitRate,
				LineTotal:    line.Subtotal(),
				LeadTimeDays: line.LeadTimeDays,
			}
			row.Cells[j] = cell
			if cell.UnitRate.IsPositive() && (lowest == nil || cell.UnitRate.LessThan(*lowest)) {
				r := cell.UnitRate
				lowest = &r
			}
		}

		if lowest != nil {
			for j := range row.Cells {
				c := &row.Cells[j]
				c.Lowest = c.Quoted && c.UnitRate.Equal(*lowest)
			}
		}
		m.Rows[i] = row
	}

	for j, q := range quotes {
		if m.BestQuoteIndex == -1 || q.TotalAmount.LessThan(quotes[m.BestQuoteIndex].TotalAmount) {
			m.BestQuoteIndex = j
		}
	}
	if m.BestQuoteIndex >= 0 {
		m.Columns[m.BestQuoteIndex].Best = true
		m.BestQuoteID = quotes[m.BestQuoteIndex].ID
	}
	return m
}

// matchQuoteLine finds the quote line for item: same catalogue reference, else the first
// line whose description equals the item name.
func matchQuoteLine(item MaterialRequestItem, lines []VendorQuoteLine) (VendorQuoteLine, bool) {
	if item.ItemID != nil {
		for _, l := range lines {
			if l.ItemID != nil && *l.ItemID == *item.ItemID {
				return l, true
			}
		}
	}
	for _, l := range lines {
		if l.Description == item.ItemName {
			return l, true
		}
	}
	return VendorQuoteLine{}, false
}
