// Package batch evaluates several process scenarios against one set of cost rates.
package batch

import (
	"fmt"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/finance"
)

type Input struct {
	Rates aop.CostRates       `json:"rates"`
	Years int                 `json:"years"`
	Items []aop.ProcessInputs `json:"items"`
}

type Item struct {
	Design   aop.Result       `json:"design"`
	Analysis finance.Analysis `json:"analysis"`
}

type Result struct {
	Count    int    `json:"count"`
	Results  []Item `json:"results"`
	Cheapest int    `json:"cheapest"` // index with the lowest lifetime cost per m³, -1 when empty
}

// Calculate evaluates every item. Any invalid item fails the whole batch
// and the error names its index.
func Calculate(in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("%w: no items", aop.ErrInvalidInput)
	}
	out := Result{Results: make([]Item, 0, len(in.Items))}
	for i, p := range in.Items {
		ev, err := finance.Evaluate(finance.Request{Input: aop.Input{Process: p, Rates: in.Rates}, Years: in.Years})
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
		if i > 0 && ev.Analysis.CostPerM3 < out.Results[out.Cheapest].Analysis.CostPerM3 {
			out.Cheapest = i
		}
		out.Results = append(out.Results, Item{Design: ev.Design, Analysis: ev.Analysis})
	}
	out.Count = len(out.Results)
	return out, nil
}
