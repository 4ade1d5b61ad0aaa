// Package finance turns a plant design into lifetime, unit-cost and bid figures.
package finance

import (
	"fmt"

	"Ech2o/internal/calc/aop"
)

const (
	DefaultYears = 10
	MinYears     = 1
	MaxYears     = 20

	CAPEXLifetimeMarkup = 1.232
	ContingencyFraction = 0.10
	TaxBaseMarkup       = 1.1
	TaxRate             = 0.12
	DaysPerYear         = 365
)

type Analysis struct {
	Years int `json:"years"`

	TotalCAPEX        float64 `json:"total_capex"`
	MonthlyOPEX       float64 `json:"monthly_opex"`
	AnnualOPEX        float64 `json:"annual_opex"`
	LifetimeOPEX      float64 `json:"lifetime_opex"`
	TotalLifetimeCost float64 `json:"total_lifetime_cost"`

	VolumeTreatedM3    float64 `json:"volume_treated_m3"`
	CostPerM3          float64 `json:"cost_per_m3"`
	CostPerLiter       float64 `json:"cost_per_liter"`
	OPEXCostPerM3      float64 `json:"opex_cost_per_m3"`
	OPEXCostPerLiter   float64 `json:"opex_cost_per_liter"`
	TreatmentCostPerM3 float64 `json:"treatment_cost_per_m3"`

	EPCMargin          float64 `json:"epc_margin"`
	Contingency        float64 `json:"contingency"`
	EPCPlusContingency float64 `json:"epc_plus_contingency"`
	Tax                float64 `json:"tax"`
	BidPrice           float64 `json:"bid_price"`
}

func ValidateYears(years int) error {
	if years < MinYears || years > MaxYears {
		return fmt.Errorf("%w: years must be within [%d, %d], got %d", aop.ErrInvalidInput, MinYears, MaxYears, years)
	}
	return nil
}

// Analyze derives lifetime and bid figures from a design. All values stay in USD.
func Analyze(d aop.Result, years int) (Analysis, error) {
	if err := ValidateYears(years); err != nil {
		return Analysis{}, err
	}
	flow := d.Process.FlowrateM3Day
	if flow <= 0 {
		return Analysis{}, fmt.Errorf("%w: design has no flowrate", aop.ErrInvalidInput)
	}

	a := Analysis{
		Years:       years,
		TotalCAPEX:  d.TotalCAPEX,
		MonthlyOPEX: d.TotalMonthlyOPEX,
	}
	a.AnnualOPEX = d.TotalMonthlyOPEX * 12
	a.LifetimeOPEX = a.AnnualOPEX * float64(years)
	a.TotalLifetimeCost = d.TotalCAPEX*CAPEXLifetimeMarkup + a.LifetimeOPEX

	a.VolumeTreatedM3 = flow * DaysPerYear * float64(years)
	a.CostPerM3 = a.TotalLifetimeCost / a.VolumeTreatedM3
	a.CostPerLiter = a.CostPerM3 / 1000
	a.OPEXCostPerM3 = a.AnnualOPEX / DaysPerYear / flow
	a.OPEXCostPerLiter = a.OPEXCostPerM3 / 1000
	a.TreatmentCostPerM3 = d.TotalMonthlyOPEX / aop.DaysPerMonth / flow

	a.EPCMargin = d.EPCCost
	a.Contingency = d.TotalCAPEX * ContingencyFraction
	a.EPCPlusContingency = a.EPCMargin + a.Contingency
	a.Tax = d.TotalCAPEX * TaxBaseMarkup * TaxRate
	a.BidPrice = d.TotalCAPEX + a.Tax + a.Contingency
	return a, nil
}
