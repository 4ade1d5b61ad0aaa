package aop

type LineItem struct {
	Name string  `json:"name"`
	Note string  `json:"note"`
	Cost float64 `json:"cost"`
}

func (r Result) CAPEXItems() []LineItem {
	return []LineItem{
		{Name: "AOP Reactors", Note: "AOP reactor cost", Cost: r.AOPReactorCost},
		{Name: "Ozone Generators", Note: "Ozone generator cost", Cost: r.OzoneGeneratorCost},
		{Name: "Pumping Equipment", Note: "Pumping equipment cost", Cost: r.PumpCost},
		{Name: "Sand Filtration", Note: "Sand filtration system", Cost: r.FilterCost},
		{Name: "pH Adjustment", Note: "pH adjustment system", Cost: r.PHAdjustmentCost},
		{Name: "Container Housing", Note: "Container Housing", Cost: r.ContainerCost},
		{Name: "Piping & Instrumentation", Note: "Piping and instrumentation", Cost: r.PipingCost},
		{Name: "EPC", Note: "Engineering, procurement, and construction", Cost: r.EPCCost},
	}
}

func (r Result) OPEXItems() []LineItem {
	return []LineItem{
		{Name: "Ozone Generation Power", Note: "Power for ozone generation", Cost: r.MonthlyOzonePowerCost},
		{Name: "Pumping Power", Note: "Power for pumping", Cost: r.MonthlyPumpingCost},
		{Name: "Chemicals", Note: "Chemical costs for pH adjustment", Cost: r.MonthlyChemicalCost},
		{Name: "Labor", Note: "Staff costs", Cost: r.MonthlyLaborCost},
		{Name: "Maintenance", Note: "Parts and consumables", Cost: r.MonthlyMaintenanceCost},
	}
}

// Share returns part as a percentage of total, or 0 for an empty total.
func Share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
