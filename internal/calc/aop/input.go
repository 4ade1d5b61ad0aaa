package aop

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

// Upper bounds accepted by Validate. They keep every count and cost of a
// design finite and inside int range.
const (
	MaxFlowrateM3Day = 1e6
	MaxCODPPM        = 1e6
	MaxUnitCost      = 1e9 // USD per item, container or operator month
	MaxUnitRate      = 1e3 // kWh, USD/kWh, USD/m³ and the chemical factor
	MaxPHPPerUSD     = 1e4
)

// Supported reactor volumes, m³.
var ReactorSizes = []float64{1.5, 2.0}

type ProcessInputs struct {
	FlowrateM3Day float64 `json:"flowrate_m3_day" yaml:"flowrate_m3_day"`
	CODInletPPM   float64 `json:"cod_inlet_ppm" yaml:"cod_inlet_ppm"`
	CODTargetPPM  float64 `json:"cod_target_ppm" yaml:"cod_target_ppm"`
	InitialPH     float64 `json:"initial_ph" yaml:"initial_ph"`
	ReactorSizeM3 float64 `json:"reactor_size_m3" yaml:"reactor_size_m3"`
}

// CostRates are the adjustable unit costs and consumption rates. All money is USD.
type CostRates struct {
	AOPReactorUnitCost     float64 `json:"aop_reactor_unit_cost" yaml:"aop_reactor_unit_cost"`
	PumpUnitCost           float64 `json:"pump_unit_cost" yaml:"pump_unit_cost"`
	FilterUnitCost         float64 `json:"filter_unit_cost" yaml:"filter_unit_cost"` // per m² of filter area
	PHAdjustmentUnitCost   float64 `json:"ph_adjustment_unit_cost" yaml:"ph_adjustment_unit_cost"`
	OzoneGeneratorUnitCost float64 `json:"ozone_generator_unit_cost" yaml:"ozone_generator_unit_cost"`
	Container20ftCost      float64 `json:"container_20ft_cost" yaml:"container_20ft_cost"`
	Container40ftCost      float64 `json:"container_40ft_cost" yaml:"container_40ft_cost"`
	OperatorMonthlySalary  float64 `json:"operator_monthly_salary" yaml:"operator_monthly_salary"`
	OzonePowerKWhPerKg     float64 `json:"ozone_power_kwh_per_kg" yaml:"ozone_power_kwh_per_kg"`
	PumpPowerKWhPerM3      float64 `json:"pump_power_kwh_per_m3" yaml:"pump_power_kwh_per_m3"`
	ChemicalsBaseCost      float64 `json:"chemicals_base_cost" yaml:"chemicals_base_cost"` // USD/m³
	ChemicalCostFactor     float64 `json:"chemical_cost_factor" yaml:"chemical_cost_factor"`
	MaintenanceFactor      float64 `json:"maintenance_factor" yaml:"maintenance_factor"` // annual fraction of CAPEX
	PipingFactor           float64 `json:"piping_factor" yaml:"piping_factor"`
	EPCFactor              float64 `json:"epc_factor" yaml:"epc_factor"`
	ElectricityCost        float64 `json:"electricity_cost" yaml:"electricity_cost"` // USD/kWh
	PHPPerUSD              float64 `json:"php_per_usd" yaml:"php_per_usd"`
}

type Input struct {
	Process ProcessInputs `json:"process" yaml:"process"`
	Rates   CostRates     `json:"rates" yaml:"rates"`
}

func DefaultProcess() ProcessInputs {
	return ProcessInputs{
		FlowrateM3Day: 10,
		CODInletPPM:   1000,
		CODTargetPPM:  75,
		InitialPH:     7,
		ReactorSizeM3: 1.5,
	}
}

func DefaultRates() CostRates {
	return CostRates{
		AOPReactorUnitCost:     650,
		PumpUnitCost:           650,
		FilterUnitCost:         650,
		PHAdjustmentUnitCost:   650,
		OzoneGeneratorUnitCost: 650,
		Container20ftCost:      6000,
		Container40ftCost:      7000,
		OperatorMonthlySalary:  450,
		OzonePowerKWhPerKg:     3,
		PumpPowerKWhPerM3:      0.05,
		ChemicalsBaseCost:      0.25,
		ChemicalCostFactor:     1,
		MaintenanceFactor:      0.10,
		PipingFactor:           0.30,
		EPCFactor:              0.30,
		ElectricityCost:        0.19,
		PHPPerUSD:              58,
	}
}

func DefaultInput() Input {
	return Input{Process: DefaultProcess(), Rates: DefaultRates()}
}

func (p ProcessInputs) Validate() error {
	if err := bounded("flowrate_m3_day", p.FlowrateM3Day, MaxFlowrateM3Day); err != nil {
		return err
	}
	if err := bounded("cod_inlet_ppm", p.CODInletPPM, MaxCODPPM); err != nil {
		return err
	}
	if err := bounded("cod_target_ppm", p.CODTargetPPM, MaxCODPPM); err != nil {
		return err
	}
	if p.CODTargetPPM >= p.CODInletPPM {
		return fmt.Errorf("%w: cod_target_ppm (%g) must be below cod_inlet_ppm (%g)", ErrInvalidInput, p.CODTargetPPM, p.CODInletPPM)
	}
	if math.IsNaN(p.InitialPH) || p.InitialPH < 1 || p.InitialPH > 14 {
		return fmt.Errorf("%w: initial_ph must be within [1, 14], got %g", ErrInvalidInput, p.InitialPH)
	}
	if !SupportedReactorSize(p.ReactorSizeM3) {
		return fmt.Errorf("%w: reactor_size_m3 must be one of %v, got %g", ErrInvalidInput, ReactorSizes, p.ReactorSizeM3)
	}
	return nil
}

func (r CostRates) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
		lim  float64
	}{
		{"aop_reactor_unit_cost", r.AOPReactorUnitCost, MaxUnitCost},
		{"pump_unit_cost", r.PumpUnitCost, MaxUnitCost},
		{"filter_unit_cost", r.FilterUnitCost, MaxUnitCost},
		{"ph_adjustment_unit_cost", r.PHAdjustmentUnitCost, MaxUnitCost},
		{"ozone_generator_unit_cost", r.OzoneGeneratorUnitCost, MaxUnitCost},
		{"container_20ft_cost", r.Container20ftCost, MaxUnitCost},
		{"container_40ft_cost", r.Container40ftCost, MaxUnitCost},
		{"operator_monthly_salary", r.OperatorMonthlySalary, MaxUnitCost},
		{"ozone_power_kwh_per_kg", r.OzonePowerKWhPerKg, MaxUnitRate},
		{"pump_power_kwh_per_m3", r.PumpPowerKWhPerM3, MaxUnitRate},
		{"chemicals_base_cost", r.ChemicalsBaseCost, MaxUnitRate},
		{"chemical_cost_factor", r.ChemicalCostFactor, MaxUnitRate},
		{"electricity_cost", r.ElectricityCost, MaxUnitRate},
		{"php_per_usd", r.PHPPerUSD, MaxPHPPerUSD},
	} {
		if err := bounded(f.name, f.v, f.lim); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"maintenance_factor", r.MaintenanceFactor},
		{"piping_factor", r.PipingFactor},
		{"epc_factor", r.EPCFactor},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be a fraction within [0, 1], got %g", ErrInvalidInput, f.name, f.v)
		}
	}
	return nil
}

func (in Input) Validate() error {
	if err := in.Process.Validate(); err != nil {
		return err
	}
	return in.Rates.Validate()
}

func SupportedReactorSize(size float64) bool {
	for _, s := range ReactorSizes {
		if size == s {
			return true
		}
	}
	return false
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a finite positive number, got %g", ErrInvalidInput, name, v)
	}
	return nil
}

func bounded(name string, v, limit float64) error {
	if err := positive(name, v); err != nil {
		return err
	}
	if v > limit {
		return fmt.Errorf("%w: %s must not exceed %g, got %g", ErrInvalidInput, name, limit, v)
	}
	return nil
}
