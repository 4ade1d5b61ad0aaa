// Package report renders a design evaluation as a PDF engineering report.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/phpdave11/gofpdf"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/export"
	"Ech2o/internal/calc/finance"
)

// Meta is the header information printed on the first page.
type Meta struct {
	Number  string
	Project string
	Author  string
	Date    time.Time
}

const (
	pageWidth = 180.0
	rowHeight = 6.0
)

type writer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	cur finance.Converter
}

// WritePDF renders ev as an A4 report. Costs are shown in the evaluation currency.
func WritePDF(w io.Writer, ev finance.Evaluation, meta Meta) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AOP Wastewater Treatment Design Report", true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetAutoPageBreak(true, 15)
	pw := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), cur: ev.Currency}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Report %s  |  page %d", meta.Number, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pw.header(meta)
	pw.parameters(ev)
	pw.equipment(ev.Design)
	pw.stages(ev.Design)
	pw.costs(ev)
	pw.financial(ev.Analysis)
	pw.schematic(ev.Design)
	pw.notes()

	return pdf.Output(w)
}

func (pw *writer) header(meta Meta) {
	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "AOP Wastewater Treatment Design Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pw.line("Report No.", meta.Number)
	pw.line("Date", meta.Date.Format("2006-01-02"))
	if meta.Project != "" {
		pw.line("Project", meta.Project)
	}
	if meta.Author != "" {
		pw.line("Prepared by", meta.Author)
	}
	pdf.Ln(4)
}

func (pw *writer) section(title string) {
	pdf := pw.pdf
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(225, 235, 245)
	pdf.CellFormat(pageWidth, 8, pw.tr(title), "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func (pw *writer) line(label, value string) {
	pw.pdf.CellFormat(70, rowHeight, pw.tr(label), "", 0, "L", false, 0, "")
	pw.pdf.CellFormat(pageWidth-70, rowHeight, pw.tr(value), "", 1, "L", false, 0, "")
}

func (pw *writer) table(widths []float64, head []string, rows [][]string) {
	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range head {
		pdf.CellFormat(widths[i], 7, pw.tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, v := range row {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], rowHeight, pw.tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "", 10)
}

func (pw *writer) money(usd float64) string {
	return pw.cur.Code + " " + pw.cur.Format(usd)
}

func (pw *writer) parameters(ev finance.Evaluation) {
	d := ev.Design
	p := d.Process
	pw.section("1. Design Parameters")
	pw.line("Flowrate", fmt.Sprintf("%.2f m³/day", p.FlowrateM3Day))
	pw.line("COD inlet / target", fmt.Sprintf("%.2f / %.2f ppm", p.CODInletPPM, p.CODTargetPPM))
	pw.line("COD removal", fmt.Sprintf("%.1f%%", d.CODRemovalPercent))
	pw.line("COD load", fmt.Sprintf("%.2f kg/day", d.CODLoadKgDay))
	pw.line("Ozone requirement", fmt.Sprintf("%.2f kg/day (%.0f g/hour)", d.OzoneRequirementKgDay, d.OzoneRequirementGH))
	pw.line("Initial pH", fmt.Sprintf("%.1f", p.InitialPH))
	pw.line("Pre-AOP pH adjustment", fmt.Sprintf("%s by %.1f to %.1f", d.PH.PreAOPDirection, math.Abs(d.PH.PreAOPChange), d.PH.PreAOPTargetPH))
	pw.line("Post-filtration pH", fmt.Sprintf("decrease by %.1f to %.1f", math.Abs(d.PH.PostFiltrationChange), d.PH.PostFiltrationTargetPH))
	pw.line("Exchange rate", fmt.Sprintf("%s %s per USD", ev.Currency.Rate().StringFixed(2), ev.Currency.Code))
}

func (pw *writer) equipment(d aop.Result) {
	pw.section("2. Equipment")
	rows := [][]string{
		{"AOP reactors", fmt.Sprintf("%d x %.1f m³ (%d trains of %d)", d.TotalReactors, d.Process.ReactorSizeM3, d.NumReactorTrains, d.StagesNeeded)},
		{"Ozone generators", fmt.Sprintf("%d x %.0f g/hour (%.0f g/hour total)", d.NumOzoneGenerators, aop.OzoneGeneratorGPerH, d.OzoneGenerationCapacity)},
		{"Influent / effluent pumps", fmt.Sprintf("%d / %d at %.2f m³/hour per train", d.InfluentPumps, d.EffluentPumps, d.PumpFlowRatePerTrain)},
		{"Recirculation pumps", fmt.Sprintf("%d at %.2f m³/hour", d.RecirculationPumpsRequired, d.RecirculationFlowRate)},
		{"Sand filters", fmt.Sprintf("%d units, %.2f m² required", d.FilterUnits, d.RequiredFilterAreaM2)},
		{"Containers", fmt.Sprintf("%d x 20ft, %d x 40ft", d.Num20ftContainers, d.Num40ftContainers)},
		{"Operators", fmt.Sprintf("%d", d.OperatorsRequired)},
	}
	for _, r := range rows {
		pw.line(r[0], r[1])
	}
}

func (pw *writer) stages(d aop.Result) {
	pw.section("3. COD Reduction Stages")
	var rows [][]string
	for _, s := range export.StageRows(d.CODReductionStages) {
		rows = append(rows, []string{s.Stage, fmt.Sprintf("%.2f", s.COD), s.Reduction})
	}
	pw.table([]float64{60, 60, 60}, []string{"Stage", "COD (ppm)", "Reduction"}, rows)
}

func (pw *writer) costs(ev finance.Evaluation) {
	d := ev.Design
	code := ev.Currency.Code
	widths := []float64{70, 60, 50}

	pw.section("4. Capital Expenditure")
	var rows [][]string
	for _, it := range d.CAPEXItems() {
		rows = append(rows, []string{it.Name, pw.cur.Format(it.Cost), fmt.Sprintf("%.1f%%", aop.Share(it.Cost, d.TotalCAPEX))})
	}
	rows = append(rows, []string{"Total CAPEX", pw.cur.Format(d.TotalCAPEX), "100.0%"})
	pw.table(widths, []string{"Component", "Cost (" + code + ")", "Share"}, rows)

	pw.section("5. Monthly Operating Expenditure")
	rows = nil
	for _, it := range d.OPEXItems() {
		rows = append(rows, []string{it.Name, pw.cur.Format(it.Cost), fmt.Sprintf("%.1f%%", aop.Share(it.Cost, d.TotalMonthlyOPEX))})
	}
	rows = append(rows, []string{"Total Monthly OPEX", pw.cur.Format(d.TotalMonthlyOPEX), "100.0%"})
	pw.table(widths, []string{"Component", "Cost (" + code + ")", "Share"}, rows)
}

func (pw *writer) financial(a finance.Analysis) {
	pw.section("6. Financial Summary")
	pw.line("Annual OPEX", pw.money(a.AnnualOPEX))
	pw.line(fmt.Sprintf("Lifetime OPEX (%d years)", a.Years), pw.money(a.LifetimeOPEX))
	pw.line(fmt.Sprintf("Total lifetime cost (%d years)", a.Years), pw.money(a.TotalLifetimeCost))
	pw.line("Cost per m³", pw.money(a.CostPerM3))
	pw.line("Cost per liter", pw.cur.Code+" "+pw.cur.Amount(a.CostPerLiter).StringFixed(4))
	pw.line("OPEX per m³", pw.money(a.OPEXCostPerM3))
	pw.line("EPC margin", pw.money(a.EPCMargin))
	pw.line("Contingency (10%)", pw.money(a.Contingency))
	pw.line("Tax (12% on 110% of CAPEX)", pw.money(a.Tax))
	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pw.line("Bid price", pw.money(a.BidPrice))
	pdf.SetFont("Helvetica", "", 10)
}

// schematic draws the treatment train as a row of labelled boxes.
func (pw *writer) schematic(d aop.Result) {
	pw.section("7. Process Schematic")
	pdf := pw.pdf
	steps := []string{
		"Influent",
		"pH adjust",
		fmt.Sprintf("AOP x%d", d.StagesNeeded),
		"Sand filter",
		"pH adjust",
		"Effluent",
	}
	const box, gap, h = 24.0, 7.0, 12.0
	if pdf.GetY()+h+10 > 280 {
		pdf.AddPage()
	}
	x, y := pdf.GetX(), pdf.GetY()+3
	pdf.SetFont("Helvetica", "", 8)
	for i, s := range steps {
		bx := x + float64(i)*(box+gap)
		pdf.Rect(bx, y, box, h, "D")
		pdf.SetXY(bx, y)
		pdf.CellFormat(box, h, pw.tr(s), "", 0, "C", false, 0, "")
		if i < len(steps)-1 {
			pdf.Line(bx+box, y+h/2, bx+box+gap, y+h/2)
			pdf.Line(bx+box+gap-2, y+h/2-1.5, bx+box+gap, y+h/2)
			pdf.Line(bx+box+gap-2, y+h/2+1.5, bx+box+gap, y+h/2)
		}
	}
	pdf.SetXY(x, y+h+2)
	pdf.CellFormat(pageWidth, 5, pw.tr(fmt.Sprintf("%d parallel train(s), %d recirculation pumps shared", d.NumReactorTrains, d.RecirculationPumpsRequired)), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func (pw *writer) notes() {
	pw.section("8. Notes and Assumptions")
	notes := []string{
		"Each AOP stage removes 60% of the COD entering it; trains hold 2 to 4 reactors.",
		"Ozone dose 0.25 g O3 per g COD removed; one 200 g/hour generator pair per reactor.",
		"Filtration sized at 10 m³/m²/hour on the peak influent/effluent pump flow.",
		"Piping and EPC are charged as fractions of the equipment costs.",
		"Lifetime cost applies a 1.232 markup to CAPEX plus OPEX over the analysis period.",
		"Costs are budgetary estimates and exclude land, permits and civil works.",
	}
	for _, n := range notes {
		pw.pdf.MultiCell(pageWidth, 5, pw.tr("- "+n), "", "L", false)
	}
}
