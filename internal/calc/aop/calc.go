// Package aop sizes a modular AOP ozonation plant and rolls up its CAPEX and OPEX.
package aop

import (
	"fmt"
	"math"
)

const (
	CODRemainingPerStage = 0.40 // 60% removal per stage
	MinStagesPerTrain    = 2
	MaxStagesPerTrain    = 4
	maxReductionStages   = 2048

	ReactorTurnoverHours  = 2.0
	ReactorFillHours      = 0.25
	OzoneDoseKgPerKgCOD   = 0.25
	OzoneGeneratorGPerH   = 200.0
	GeneratorsPerReactor  = 2
	PumpsPerTrain         = 4
	RecirculationPumps    = 2
	RecirculationTurnover = 5.0
	FilterLoadingRate     = 10.0 // m³/m²/hour
	FilterUnitAreaM2      = 5.0
	MinFilterUnits        = 2

	SmallPlantFlowrate   = 15.0 // m³/day, fits one 20ft container
	Container20ftUnits   = 6
	Container40ftUnits   = 12
	ReactorsPerOperator  = 8
	DaysPerMonth         = 30.0
	PreAOPTargetPH       = 9.5
	PostFiltrationPH     = 7.0
	RecirculationHourDay = 24.0
)

type PHAdjustment struct {
	InitialPH              float64 `json:"initial_ph"`
	PreAOPTargetPH         float64 `json:"pre_aop_target_ph"`
	PreAOPChange           float64 `json:"pre_aop_change"`
	PreAOPDirection        string  `json:"pre_aop_direction"`
	PostAOPEstimatedPH     float64 `json:"post_aop_estimated_ph"`
	PostFiltrationTargetPH float64 `json:"post_filtration_target_ph"`
	PostFiltrationChange   float64 `json:"post_filtration_change"`
}

type Result struct {
	Process ProcessInputs `json:"process"`

	CODLoadKgDay          float64   `json:"cod_load_kg_per_day"`
	OzoneRequirementKgDay float64   `json:"ozone_requirement_kg_per_day"`
	OzoneRequirementGH    float64   `json:"ozone_requirement_g_per_hour"`
	CODRemovalPercent     float64   `json:"cod_removal_percent"`
	CODReductionStages    []float64 `json:"cod_reduction_stages"`
	StagesNeeded          int       `json:"stages_needed"`

	HourlyFlowM3H           float64 `json:"hourly_flow_m3_per_hour"`
	ReactorCapacityM3H      float64 `json:"reactor_capacity_m3_per_hour"`
	NumReactorTrains        int     `json:"num_reactor_trains"`
	TotalReactors           int     `json:"total_reactors"`
	NumOzoneGenerators      int     `json:"num_ozone_generators"`
	OzoneGenerationCapacity float64 `json:"ozone_generation_capacity_g_per_hour"`

	PumpFlowRatePerTrain       float64 `json:"pump_flow_rate_per_train"`
	TotalPumpFlowRate          float64 `json:"total_pump_flow_rate"`
	RecirculationFlowRate      float64 `json:"recirculation_flow_rate"`
	InfluentPumps              int     `json:"influent_pumps"`
	EffluentPumps              int     `json:"effluent_pumps"`
	TotalInfluentEffluentPumps int     `json:"total_influent_effluent_pumps"`
	RecirculationPumpsRequired int     `json:"recirculation_pumps_required"`
	TotalPumps                 int     `json:"total_pumps"`

	RequiredFilterAreaM2 float64 `json:"required_filter_area_m2"`
	FilterUnits          int     `json:"filter_units"`

	TotalEquipmentUnits int `json:"total_equipment_units"`
	Num20ftContainers   int `json:"num_20ft_containers"`
	Num40ftContainers   int `json:"num_40ft_containers"`

	PH PHAdjustment `json:"ph_adjustment"`

	AOPReactorCost     float64 `json:"aop_reactor_cost"`
	OzoneGeneratorCost float64 `json:"ozone_generator_cost"`
	PumpCost           float64 `json:"pump_cost"`
	FilterCost         float64 `json:"filter_cost"`
	PHAdjustmentCost   float64 `json:"ph_adjustment_cost"`
	PipingCost         float64 `json:"piping_cost"`
	ContainerCost      float64 `json:"container_cost"`
	DirectCosts        float64 `json:"direct_costs"`
	EPCCost            float64 `json:"epc_cost"`
	TotalCAPEX         float64 `json:"total_capex"`

	DailyOzoneEnergyKWh         float64 `json:"daily_ozone_energy_kwh"`
	MonthlyOzoneEnergyKWh       float64 `json:"monthly_ozone_energy_kwh"`
	DailyPumpingEnergyKWh       float64 `json:"daily_pumping_energy_kwh"`
	DailyRecirculationEnergyKWh float64 `json:"daily_recirculation_energy_kwh"`
	TotalDailyPumpingEnergyKWh  float64 `json:"total_daily_pumping_energy_kwh"`
	MonthlyPumpingEnergyKWh     float64 `json:"monthly_pumping_energy_kwh"`
	TotalDailyEnergyKWh         float64 `json:"total_daily_energy_kwh"`

	MonthlyOzonePowerCost  float64 `json:"monthly_ozone_power_cost"`
	MonthlyPumpingCost     float64 `json:"monthly_pumping_cost"`
	MonthlyChemicalCost    float64 `json:"monthly_chemical_cost"`
	OperatorsRequired      int     `json:"operators_required"`
	MonthlyLaborCost       float64 `json:"monthly_labor_cost"`
	MonthlyMaintenanceCost float64 `json:"monthly_maintenance_cost"`
	TotalMonthlyOPEX       float64 `json:"total_monthly_opex"`
}

// Calculate validates the input and derives the full design.
func Calculate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	res := compute(in.Process, in.Rates)
	if !finite(res.TotalCAPEX) || !finite(res.TotalMonthlyOPEX) {
		return Result{}, fmt.Errorf("%w: inputs overflow the cost totals (capex %g, monthly opex %g)", ErrInvalidInput, res.TotalCAPEX, res.TotalMonthlyOPEX)
	}
	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func compute(p ProcessInputs, r CostRates) Result {
	res := Result{Process: p}

	res.CODLoadKgDay = p.FlowrateM3Day * p.CODInletPPM / 1000
	res.OzoneRequirementKgDay = OzoneDoseKgPerKgCOD * res.CODLoadKgDay
	res.OzoneRequirementGH = res.OzoneRequirementKgDay * 1000 / 24
	res.CODRemovalPercent = 100 * (1 - p.CODTargetPPM/p.CODInletPPM)

	// Stage 1: COD staging. Only the count used downstream is clamped.
	var natural int
	res.CODReductionStages, natural = reductionStages(p.CODInletPPM, p.CODTargetPPM)
	res.StagesNeeded = clampStages(natural)

	// Stage 2: trains from hydraulic capacity.
	res.HourlyFlowM3H = p.FlowrateM3Day / 24
	res.ReactorCapacityM3H = p.ReactorSizeM3 / ReactorTurnoverHours
	res.NumReactorTrains = int(math.Ceil(res.HourlyFlowM3H / res.ReactorCapacityM3H))

	// Stage 3: generator count follows installed reactors, not ozone demand.
	res.TotalReactors = res.NumReactorTrains * res.StagesNeeded
	res.NumOzoneGenerators = GeneratorsPerReactor * res.TotalReactors
	res.OzoneGenerationCapacity = float64(res.NumOzoneGenerators) * OzoneGeneratorGPerH

	// Stage 4: pumps.
	res.PumpFlowRatePerTrain = p.ReactorSizeM3 / ReactorFillHours
	res.TotalPumpFlowRate = res.PumpFlowRatePerTrain * float64(res.NumReactorTrains)
	res.RecirculationFlowRate = float64(res.TotalReactors) * p.ReactorSizeM3 * RecirculationTurnover / ReactorTurnoverHours
	res.InfluentPumps = 2 * res.NumReactorTrains
	res.EffluentPumps = 2 * res.NumReactorTrains
	res.TotalInfluentEffluentPumps = PumpsPerTrain * res.NumReactorTrains
	res.RecirculationPumpsRequired = RecirculationPumps
	res.TotalPumps = res.TotalInfluentEffluentPumps + RecirculationPumps

	// Stage 5: filtration. Cost uses the area, housing uses the unit count.
	res.RequiredFilterAreaM2 = res.TotalPumpFlowRate / FilterLoadingRate
	res.FilterUnits = max(MinFilterUnits, int(math.Ceil(res.RequiredFilterAreaM2/FilterUnitAreaM2)))

	// Stage 6: housing.
	res.TotalEquipmentUnits = res.TotalReactors + res.FilterUnits
	res.Num20ftContainers, res.Num40ftContainers = selectContainers(p.FlowrateM3Day, res.TotalEquipmentUnits)

	res.PH = phAdjustment(p.InitialPH)

	// Stage 7: CAPEX.
	res.AOPReactorCost = r.AOPReactorUnitCost * float64(res.TotalReactors)
	res.OzoneGeneratorCost = r.OzoneGeneratorUnitCost * float64(res.NumOzoneGenerators)
	res.PumpCost = r.PumpUnitCost * float64(res.TotalPumps)
	res.FilterCost = r.FilterUnitCost * res.RequiredFilterAreaM2
	res.PHAdjustmentCost = r.PHAdjustmentUnitCost
	res.ContainerCost = float64(res.Num20ftContainers)*r.Container20ftCost + float64(res.Num40ftContainers)*r.Container40ftCost
	res.PipingCost = (res.AOPReactorCost + res.PumpCost) * r.PipingFactor
	res.DirectCosts = res.AOPReactorCost + res.OzoneGeneratorCost + res.PumpCost + res.FilterCost +
		res.PHAdjustmentCost + res.PipingCost + res.ContainerCost
	res.EPCCost = res.DirectCosts * r.EPCFactor
	res.TotalCAPEX = res.DirectCosts + res.EPCCost

	// Stage 8: monthly OPEX.
	res.DailyOzoneEnergyKWh = res.OzoneRequirementKgDay * r.OzonePowerKWhPerKg
	res.MonthlyOzoneEnergyKWh = res.DailyOzoneEnergyKWh * DaysPerMonth
	res.MonthlyOzonePowerCost = res.MonthlyOzoneEnergyKWh * r.ElectricityCost

	res.DailyPumpingEnergyKWh = p.FlowrateM3Day * r.PumpPowerKWhPerM3
	res.DailyRecirculationEnergyKWh = res.RecirculationFlowRate * RecirculationHourDay * r.PumpPowerKWhPerM3
	res.TotalDailyPumpingEnergyKWh = res.DailyPumpingEnergyKWh + res.DailyRecirculationEnergyKWh
	res.MonthlyPumpingEnergyKWh = res.TotalDailyPumpingEnergyKWh * DaysPerMonth
	res.MonthlyPumpingCost = res.MonthlyPumpingEnergyKWh * r.ElectricityCost
	res.TotalDailyEnergyKWh = res.DailyOzoneEnergyKWh + res.TotalDailyPumpingEnergyKWh

	res.MonthlyChemicalCost = p.FlowrateM3Day * DaysPerMonth * r.ChemicalsBaseCost * r.ChemicalCostFactor

	res.OperatorsRequired = max(1, int(math.Ceil(float64(res.TotalReactors)/ReactorsPerOperator)))
	res.MonthlyLaborCost = float64(res.OperatorsRequired) * r.OperatorMonthlySalary

	res.MonthlyMaintenanceCost = res.TotalCAPEX * r.MaintenanceFactor / 12

	res.TotalMonthlyOPEX = res.MonthlyOzonePowerCost + res.MonthlyPumpingCost + res.MonthlyChemicalCost +
		res.MonthlyLaborCost + res.MonthlyMaintenanceCost

	return res
}

// reductionStages returns the COD after each stage (inlet first) and the
// natural number of stages needed to reach the target.
func reductionStages(inlet, target float64) ([]float64, int) {
	cod := inlet
	values := []float64{cod}
	stages := 0
	for cod > target && stages < maxReductionStages {
		cod *= CODRemainingPerStage
		values = append(values, cod)
		stages++
	}
	return values, stages
}

func clampStages(n int) int {
	return max(MinStagesPerTrain, min(MaxStagesPerTrain, n))
}

// selectContainers returns the number of 20ft and 40ft containers.
func selectContainers(flowrate float64, units int) (n20, n40 int) {
	if flowrate <= SmallPlantFlowrate {
		return 1, 0
	}
	if units <= Container40ftUnits {
		return 0, 1
	}
	n40 = units / Container40ftUnits
	rem := units % Container40ftUnits
	if rem > 0 {
		if rem <= Container20ftUnits {
			n20 = 1
		} else {
			n40++
		}
	}
	return n20, n40
}

func phAdjustment(initial float64) PHAdjustment {
	adj := PHAdjustment{
		InitialPH:              initial,
		PreAOPTargetPH:         PreAOPTargetPH,
		PreAOPChange:           PreAOPTargetPH - initial,
		PostAOPEstimatedPH:     PreAOPTargetPH,
		PostFiltrationTargetPH: PostFiltrationPH,
		PostFiltrationChange:   PostFiltrationPH - PreAOPTargetPH,
	}
	switch {
	case initial < PreAOPTargetPH:
		adj.PreAOPDirection = "raise"
	case initial > PreAOPTargetPH:
		adj.PreAOPDirection = "lower"
	default:
		adj.PreAOPDirection = "none"
	}
	return adj
}
