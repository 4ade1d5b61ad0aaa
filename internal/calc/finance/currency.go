package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"Ech2o/internal/calc/aop"
)

// Converter turns USD figures into the display currency.
type Converter struct {
	Code string
	rate decimal.Decimal
}

func NewConverter(code string, perUSD float64) (Converter, error) {
	if perUSD <= 0 {
		return Converter{}, fmt.Errorf("%w: conversion rate must be positive, got %g", aop.ErrInvalidInput, perUSD)
	}
	return Converter{Code: code, rate: decimal.NewFromFloat(perUSD)}, nil
}

func USD() Converter {
	return Converter{Code: "USD", rate: decimal.NewFromInt(1)}
}

// PHP builds the peso converter from the rate carried in the cost rates.
func PHP(r aop.CostRates) (Converter, error) {
	return NewConverter("PHP", r.PHPPerUSD)
}

func (c Converter) Rate() decimal.Decimal { return c.rate }

func (c Converter) Amount(usd float64) decimal.Decimal {
	return decimal.NewFromFloat(usd).Mul(c.rate)
}

// Format renders a converted amount with two decimals.
func (c Converter) Format(usd float64) string {
	return c.Amount(usd).StringFixed(2)
}

// Symbol is the prefix used by the report and the CLI.
func (c Converter) Symbol() string {
	switch c.Code {
	case "PHP":
		return "₱"
	case "USD":
		return "$"
	}
	return c.Code + " "
}
