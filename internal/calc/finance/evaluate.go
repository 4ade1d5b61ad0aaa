package finance

import (
	"Ech2o/internal/calc/aop"
)

// Request is the body shared by the finance, export and report endpoints.
type Request struct {
	aop.Input
	Years int `json:"years" yaml:"years"`
}

// Evaluation bundles everything a renderer needs for one design.
type Evaluation struct {
	Input    aop.Input
	Design   aop.Result
	Analysis Analysis
	Currency Converter
}

func Evaluate(req Request) (Evaluation, error) {
	if req.Years == 0 {
		req.Years = DefaultYears
	}
	design, err := aop.Calculate(req.Input)
	if err != nil {
		return Evaluation{}, err
	}
	analysis, err := Analyze(design, req.Years)
	if err != nil {
		return Evaluation{}, err
	}
	cur, err := PHP(req.Rates)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Input: req.Input, Design: design, Analysis: analysis, Currency: cur}, nil
}
