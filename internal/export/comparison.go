package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fitout-erp/internal/core"
)

const comparisonSheet = "Comparison"

// ComparisonWorkbook renders a comparison matrix as an XLSX workbook: one row per
// requested item, a rate and total column pair per vendor quote, lowest cells shaded
// and the best quote named under the totals row.
func ComparisonWorkbook(m *core.ComparisonMatrix) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), comparisonSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	lastCol := 3 + 2*len(m.Columns)
	lastColName, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return nil, fmt.Errorf("last column: %w", err)
	}

	if err := f.SetColWidth(comparisonSheet, "A", "A", 36); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(comparisonSheet, "B", "C", 10); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	if lastCol > 3 {
		if err := f.SetColWidth(comparisonSheet, "D", lastColName, 14); err != nil {
			return nil, fmt.Errorf("set col width: %w", err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}
	lowestStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create lowest style: %w", err)
	}
	missingStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Italic: true, Size: 10, Color: "#999999"},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create missing style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.MergeCell(comparisonSheet, "A1", lastColName+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(comparisonSheet, "A1", fmt.Sprintf("Vendor quote comparison: material request %d", m.MaterialRequestID))
	f.SetCellStyle(comparisonSheet, "A1", "A1", titleStyle)

	// Rows 3 and 4: vendor names over rate/total sub-headers.
	f.SetCellValue(comparisonSheet, "A3", "Item")
	f.SetCellValue(comparisonSheet, "B3", "Qty")
	f.SetCellValue(comparisonSheet, "C3", "Unit")
	for _, c := range []string{"A", "B", "C"} {
		if err := f.MergeCell(comparisonSheet, c+"3", c+"4"); err != nil {
			return nil, fmt.Errorf("merge header: %w", err)
		}
	}
	for j, col := range m.Columns {
		rateCell := cell(4+2*j, 3)
		totalCell := cell(5+2*j, 3)
		if err := f.MergeCell(comparisonSheet, rateCell, totalCell); err != nil {
			return nil, fmt.Errorf("merge vendor header: %w", err)
		}
		label := sanitizeExcelCell(col.VendorName)
		if col.QuoteNumber != "" {
			label += " (" + sanitizeExcelCell(col.QuoteNumber) + ")"
		}
		f.SetCellValue(comparisonSheet, rateCell, label)
		f.SetCellValue(comparisonSheet, cell(4+2*j, 4), "Rate")
		f.SetCellValue(comparisonSheet, cell(5+2*j, 4), "Total")
	}
	f.SetCellStyle(comparisonSheet, "A3", lastColName+"4", headerStyle)

	r := 5
	for _, item := range m.Rows {
		f.SetCellValue(comparisonSheet, cell(1, r), sanitizeExcelCell(item.ItemName))
		f.SetCellValue(comparisonSheet, cell(2, r), item.Quantity.InexactFloat64())
		f.SetCellValue(comparisonSheet, cell(3, r), sanitizeExcelCell(item.Unit))
		f.SetCellStyle(comparisonSheet, cell(1, r), cell(3, r), cellStyle)

		for j, c := range item.Cells {
			rateCell, totalCell := cell(4+2*j, r), cell(5+2*j, r)
			switch {
			case !c.Quoted:
				f.SetCellValue(comparisonSheet, rateCell, "not quoted")
				f.SetCellStyle(comparisonSheet, rateCell, totalCell, missingStyle)
			case c.Lowest:
				f.SetCellValue(comparisonSheet, rateCell, c.UnitRate.InexactFloat64())
				f.SetCellValue(comparisonSheet, totalCell, c.LineTotal.InexactFloat64())
				f.SetCellStyle(comparisonSheet, rateCell, totalCell, lowestStyle)
			default:
				f.SetCellValue(comparisonSheet, rateCell, c.UnitRate.InexactFloat64())
				f.SetCellValue(comparisonSheet, totalCell, c.LineTotal.InexactFloat64())
				f.SetCellStyle(comparisonSheet, rateCell, totalCell, cellStyle)
			}
		}
		r++
	}

	f.SetCellValue(comparisonSheet, cell(1, r), "Quote total")
	for j, col := range m.Columns {
		f.SetCellValue(comparisonSheet, cell(5+2*j, r), col.TotalAmount.InexactFloat64())
		if !col.Complete {
			f.SetCellValue(comparisonSheet, cell(4+2*j, r), "incomplete")
		}
	}
	f.SetCellStyle(comparisonSheet, cell(1, r), cell(lastCol, r), totalStyle)
	r += 2

	best := "No quotes submitted"
	if m.BestQuoteIndex >= 0 {
		col := m.Columns[m.BestQuoteIndex]
		best = fmt.Sprintf("Best quote: %s (%s), total %s",
			sanitizeExcelCell(col.VendorName), sanitizeExcelCell(col.QuoteNumber), col.TotalAmount.StringFixed(2))
	}
	f.SetCellValue(comparisonSheet, cell(1, r), best)
	f.SetCellStyle(comparisonSheet, cell(1, r), cell(1, r), titleStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sanitizeExcelCell prefixes formula-leading characters with a quote so vendor-supplied
// text is never evaluated.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
