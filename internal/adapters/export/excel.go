// Package export renders assembled offer snapshots as spreadsheets.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nlescano/floordesk/internal/domain"
)

// ExcelRenderer writes an offer snapshot to a single-sheet workbook: one
// block per variant, one row per product line, and the commission on its
// own labeled row, never folded into the line totals.
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

func (ExcelRenderer) Render(snap *domain.OfferSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Offer " + snap.OfferNumber
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := []float64{40, 12, 12, 10, 10, 14, 14}
	cols := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, col := range cols {
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	row := 1
	setCell := func(col string, v any) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
	}

	setCell("A", "Offer "+snap.OfferNumber)
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), titleStyle)
	row += 2

	for _, v := range snap.Variants {
		setCell("A", v.Name)
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headStyle)
		row++

		setCell("A", "Product")
		setCell("B", "Quantity")
		setCell("C", "Billed qty")
		setCell("D", "Disc %")
		setCell("E", "Waste %")
		setCell("F", "Unit price")
		setCell("G", "Total")
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), headStyle)
		row++

		for _, r := range v.Rooms {
			setCell("A", fmt.Sprintf("%s (%.2f m²)", r.Name, r.Area))
			row++
			for _, l := range r.Lines {
				setCell("A", "  "+l.ProductName)
				setCell("B", l.Quantity)
				setCell("C", l.EffectiveQuantity)
				setCell("D", l.DiscountPct)
				setCell("E", l.WastePct)
				setCell("F", l.FinalUnitPrice)
				setCell("G", l.Total)
				_ = f.SetCellStyle(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("G%d", row), moneyStyle)
				row++
			}
			setCell("A", "  Room total")
			setCell("G", r.Total)
			_ = f.SetCellStyle(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), moneyStyle)
			row++
		}

		setCell("A", "Variant total")
		setCell("G", v.Total)
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), headStyle)
		_ = f.SetCellStyle(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), moneyStyle)
		row += 2
	}

	setCell("A", "Offer total")
	setCell("G", snap.GrandTotal)
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), headStyle)
	row++

	if snap.Commission != nil {
		label := "Architect commission"
		if snap.Commission.Name != "" {
			label += " (" + snap.Commission.Name + ")"
		}
		setCell("A", fmt.Sprintf("%s (%.2f%%)", label, snap.Commission.Pct))
		setCell("G", snap.Commission.Amount)
		_ = f.SetCellStyle(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), moneyStyle)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
