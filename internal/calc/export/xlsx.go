package export

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"Ech2o/internal/calc/finance"
)

const (
	SheetCost   = "Cost Analysis"
	SheetDesign = "Design Summary"
	SheetStages = "COD Stages"
)

// WriteWorkbook writes the cost analysis, design summary and COD stages as one XLSX file.
func WriteWorkbook(w io.Writer, ev finance.Evaluation, date time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCost); err != nil {
		return err
	}
	for _, name := range []string{SheetDesign, SheetStages} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	cost := [][]any{{"Component", "Cost (" + ev.Currency.Code + ")", "Category", "Notes"}}
	for _, row := range CostRows(ev) {
		amount, _ := ev.Currency.Amount(row.USD).Round(2).Float64()
		cost = append(cost, []any{row.Component, amount, row.Category, row.Notes})
	}
	design := [][]any{{"Section", "Parameter", "Value"}}
	for _, row := range DesignRows(ev, date) {
		design = append(design, []any{row.Section, row.Parameter, row.Value})
	}
	stages := [][]any{{"Stage", "COD (ppm)", "Reduction (%)"}}
	for _, row := range StageRows(ev.Design.CODReductionStages) {
		stages = append(stages, []any{row.Stage, row.COD, row.Reduction})
	}

	for sheet, rows := range map[string][][]any{SheetCost: cost, SheetDesign: design, SheetStages: stages} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "D", 28); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
