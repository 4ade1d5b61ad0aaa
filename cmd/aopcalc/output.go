package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/export"
	"Ech2o/internal/calc/finance"
	"Ech2o/internal/calc/premium/batch"
)

func writeText(out io.Writer, ev finance.Evaluation) error {
	d, a, cur := ev.Design, ev.Analysis, ev.Currency
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "DESIGN")
	fmt.Fprintf(tw, "  Flowrate\t%.2f m³/day\n", d.Process.FlowrateM3Day)
	fmt.Fprintf(tw, "  COD\t%.0f -> %.0f ppm (%.1f%% removal)\n", d.Process.CODInletPPM, d.Process.CODTargetPPM, d.CODRemovalPercent)
	fmt.Fprintf(tw, "  Ozone requirement\t%.2f kg/day\n", d.OzoneRequirementKgDay)
	fmt.Fprintf(tw, "  Reactor trains\t%d x %d reactors of %.1f m³\n", d.NumReactorTrains, d.StagesNeeded, d.Process.ReactorSizeM3)
	fmt.Fprintf(tw, "  Ozone generators\t%d\n", d.NumOzoneGenerators)
	fmt.Fprintf(tw, "  Pumps\t%d\n", d.TotalPumps)
	fmt.Fprintf(tw, "  Filter units\t%d (%.2f m²)\n", d.FilterUnits, d.RequiredFilterAreaM2)
	fmt.Fprintf(tw, "  Containers\t%d x 20ft, %d x 40ft\n", d.Num20ftContainers, d.Num40ftContainers)
	fmt.Fprintf(tw, "  pH\t%.1f -> %.1f (%s), post-filtration %.1f\n", d.PH.InitialPH, d.PH.PreAOPTargetPH, d.PH.PreAOPDirection, d.PH.PostFiltrationTargetPH)

	fmt.Fprintln(tw, "\nCOD STAGES")
	for _, s := range export.StageRows(d.CODReductionStages) {
		fmt.Fprintf(tw, "  %s\t%.2f ppm\t%s\n", s.Stage, s.COD, s.Reduction)
	}

	items := func(title string, list []aop.LineItem, total float64) {
		fmt.Fprintf(tw, "\n%s (%s)\n", title, cur.Code)
		for _, it := range list {
			fmt.Fprintf(tw, "  %s\t%s\t%.1f%%\n", it.Name, cur.Format(it.Cost), aop.Share(it.Cost, total))
		}
		fmt.Fprintf(tw, "  Total\t%s\t\n", cur.Format(total))
	}
	items("CAPEX", d.CAPEXItems(), d.TotalCAPEX)
	items("MONTHLY OPEX", d.OPEXItems(), d.TotalMonthlyOPEX)

	fmt.Fprintf(tw, "\nFINANCIALS (%d years, %s)\n", a.Years, cur.Code)
	fmt.Fprintf(tw, "  Annual OPEX\t%s%s\n", cur.Symbol(), cur.Format(a.AnnualOPEX))
	fmt.Fprintf(tw, "  Total lifetime cost\t%s%s\n", cur.Symbol(), cur.Format(a.TotalLifetimeCost))
	fmt.Fprintf(tw, "  Cost per m³\t%s%s\n", cur.Symbol(), cur.Format(a.CostPerM3))
	fmt.Fprintf(tw, "  Bid price\t%s%s\n", cur.Symbol(), cur.Format(a.BidPrice))
	return tw.Flush()
}

func writeBatch(out io.Writer, res batch.Result, rows []int) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Row\tFlow m³/d\tCOD in\tCOD out\tTrains\tReactors\tCAPEX USD\tOPEX/mo USD\tUSD/m³\t")
	for i, it := range res.Results {
		d := it.Design
		mark := ""
		if i == res.Cheapest {
			mark = " *"
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%.0f\t%.0f\t%d\t%d\t%.2f\t%.2f\t%.3f%s\t\n",
			rows[i], d.Process.FlowrateM3Day, d.Process.CODInletPPM, d.Process.CODTargetPPM,
			d.NumReactorTrains, d.TotalReactors, d.TotalCAPEX, d.TotalMonthlyOPEX, it.Analysis.CostPerM3, mark)
	}
	return tw.Flush()
}
