// Package export writes design results as CSV and XLSX tables.
package export

import (
	"fmt"
	"time"

	"Ech2o/internal/calc/finance"
)

type CostRow struct {
	Component string
	Category  string
	Notes     string
	USD       float64
}

type SummaryRow struct {
	Section   string
	Parameter string
	Value     string
}

// CostRows lists the cost analysis in display order. Costs are USD.
func CostRows(ev finance.Evaluation) []CostRow {
	d, a := ev.Design, ev.Analysis
	var rows []CostRow
	for _, it := range d.CAPEXItems() {
		rows = append(rows, CostRow{Component: it.Name, Category: "CAPEX", Notes: it.Note, USD: it.Cost})
	}
	rows = append(rows, CostRow{Component: "Total CAPEX", Category: "CAPEX", Notes: "Total capital expenditure", USD: d.TotalCAPEX})
	for _, it := range d.OPEXItems() {
		rows = append(rows, CostRow{Component: it.Name, Category: "Monthly OPEX", Notes: it.Note, USD: it.Cost})
	}
	return append(rows,
		CostRow{Component: "Total Monthly OPEX", Category: "Monthly OPEX", Notes: "Total monthly operational cost", USD: d.TotalMonthlyOPEX},
		CostRow{Component: "Annual OPEX", Category: "Annual OPEX", Notes: "Annual operational cost", USD: a.AnnualOPEX},
		CostRow{
			Component: fmt.Sprintf("Lifetime OPEX (%d years)", a.Years),
			Category:  "Lifetime OPEX",
			Notes:     fmt.Sprintf("Operational cost over %d years", a.Years),
			USD:       a.LifetimeOPEX,
		},
		CostRow{
			Component: fmt.Sprintf("Total Lifetime Cost (%d years)", a.Years),
			Category:  "Total Cost",
			Notes:     fmt.Sprintf("Total cost over %d years", a.Years),
			USD:       a.TotalLifetimeCost,
		},
		CostRow{Component: "Cost Per Cubic Meter", Category: "Unit Cost", Notes: "Cost per cubic meter of water treated", USD: a.CostPerM3},
	)
}

func DesignRows(ev finance.Evaluation, date time.Time) []SummaryRow {
	d := ev.Design
	p := d.Process
	var rows []SummaryRow
	add := func(section, param, format string, args ...any) {
		rows = append(rows, SummaryRow{Section: section, Parameter: param, Value: fmt.Sprintf(format, args...)})
	}

	const params = "Design Parameters"
	add(params, "Flowrate", "%.2f m³/day", p.FlowrateM3Day)
	add(params, "COD Inlet", "%.2f ppm", p.CODInletPPM)
	add(params, "COD Target", "%.2f ppm", p.CODTargetPPM)
	add(params, "COD Reduction", "%.1f%%", d.CODRemovalPercent)
	add(params, "Initial pH", "%.1f", p.InitialPH)
	add(params, "Pre-AOP Target pH", "%.1f", d.PH.PreAOPTargetPH)
	add(params, "Post-Filtration Target pH", "%.1f", d.PH.PostFiltrationTargetPH)
	add(params, "Design Date", "%s", date.Format("2006-01-02"))

	const details = "Design Details"
	add(details, "COD Load", "%.2f kg/day", d.CODLoadKgDay)
	add(details, "Ozone Requirement", "%.2f kg/day", d.OzoneRequirementKgDay)
	add(details, "Ozone Requirement per COD", "0.25 g O₃/g COD")
	add(details, "Required Filter Area", "%.2f m²", d.RequiredFilterAreaM2)
	add(details, "Filtration Loading Rate", "10 m³/m²/hour")
	add(details, "Peak Flow Rate", "%.2f m³/hour", d.TotalPumpFlowRate)

	const reactors = "Reactor Details"
	add(reactors, "AOP Reactor Size", "%.1f m³", p.ReactorSizeM3)
	add(reactors, "AOP Reactors per Train", "%d", d.StagesNeeded)
	add(reactors, "Reactor Trains Required", "%d", d.NumReactorTrains)
	add(reactors, "Total AOP Reactors", "%d", d.TotalReactors)
	add(reactors, "Total Ozone Generators", "%d", d.NumOzoneGenerators)
	add(reactors, "Ozone Generator Capacity", "200 g/hour per generator")
	add(reactors, "Total Ozone Generation Capacity", "%.0f g/hour", d.OzoneGenerationCapacity)
	add(reactors, "Filter Units", "%d", d.FilterUnits)
	add(reactors, "20ft Containers", "%d", d.Num20ftContainers)
	add(reactors, "40ft Containers", "%d", d.Num40ftContainers)

	const pumps = "Pump Details"
	add(pumps, "Influent Pumps", "%d (1 running, 1 standby per train)", d.InfluentPumps)
	add(pumps, "Effluent Pumps", "%d (1 running, 1 standby per train)", d.EffluentPumps)
	add(pumps, "Recirculation Pumps", "%d (1 running, 1 standby)", d.RecirculationPumpsRequired)
	add(pumps, "Total Pumps", "%d", d.TotalPumps)
	add(pumps, "Pump Flow Rate (per train)", "%.2f m³/hour", d.PumpFlowRatePerTrain)
	add(pumps, "Total Influent/Effluent Pump Capacity", "%.2f m³/hour", d.TotalPumpFlowRate)
	add(pumps, "Recirculation Flow Rate", "%.2f m³/hour", d.RecirculationFlowRate)
	add(pumps, "Recirculation Rate Formula", "# of AOP reactors × volume of reactors × 5 / 2 hrs")

	for _, s := range StageRows(d.CODReductionStages) {
		add("COD Reduction Stages", s.Stage, "%.2f ppm (%s)", s.COD, s.Reduction)
	}
	return rows
}

type StageRow struct {
	Stage     string
	COD       float64
	Reduction string
}

// StageRows labels the recorded COD sequence with the reduction of each stage.
func StageRows(values []float64) []StageRow {
	rows := make([]StageRow, 0, len(values))
	for i, v := range values {
		row := StageRow{Stage: "Inlet", COD: v, Reduction: "0%"}
		if i > 0 {
			row.Stage = fmt.Sprintf("Stage %d", i)
			row.Reduction = fmt.Sprintf("%.1f%%", 100*(1-v/values[i-1]))
		}
		rows = append(rows, row)
	}
	return rows
}
