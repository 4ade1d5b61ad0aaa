package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/finance"
	"Ech2o/internal/config"
)

// rateFlags are shared by every command that prices a design.
func rateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "rates-file",
			Usage:   "YAML file with default process inputs, cost rates and presets",
			EnvVars: []string{"RATES_FILE"},
		},
		&cli.StringFlag{
			Name:  "preset",
			Usage: "Named rate preset from the rates file",
		},
		&cli.IntFlag{
			Name:  "years",
			Value: finance.DefaultYears,
			Usage: "Lifetime analysis period in years (1-20)",
		},
		&cli.Float64Flag{
			Name:  "php-per-usd",
			Usage: "Conversion rate for reported costs",
		},
	}
}

func processFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "flowrate", Usage: "Flowrate, m³/day"},
		&cli.Float64Flag{Name: "cod-inlet", Usage: "Inlet COD, ppm"},
		&cli.Float64Flag{Name: "cod-target", Usage: "Target COD, ppm"},
		&cli.Float64Flag{Name: "initial-ph", Usage: "Influent pH"},
		&cli.Float64Flag{Name: "reactor-size", Usage: "AOP reactor size, m³ (1.5 or 2.0)"},
	}
}

// baseInput resolves the defaults, the rates file and the selected preset.
func baseInput(c *cli.Context) (aop.Input, error) {
	in := aop.DefaultInput()
	presets := map[string]aop.CostRates{}
	if path := c.String("rates-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return aop.Input{}, err
		}
		if in, presets, err = config.ParseRates(data); err != nil {
			return aop.Input{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if name := c.String("preset"); name != "" {
		rates, ok := presets[name]
		if !ok {
			return aop.Input{}, fmt.Errorf("%w: %s", aop.ErrUnknownPreset, name)
		}
		in.Rates = rates
	}
	if c.IsSet("php-per-usd") {
		in.Rates.PHPPerUSD = c.Float64("php-per-usd")
	}
	return in, nil
}

func request(c *cli.Context) (finance.Request, error) {
	in, err := baseInput(c)
	if err != nil {
		return finance.Request{}, err
	}
	for flag, dst := range map[string]*float64{
		"flowrate":     &in.Process.FlowrateM3Day,
		"cod-inlet":    &in.Process.CODInletPPM,
		"cod-target":   &in.Process.CODTargetPPM,
		"initial-ph":   &in.Process.InitialPH,
		"reactor-size": &in.Process.ReactorSizeM3,
	} {
		if c.IsSet(flag) {
			*dst = c.Float64(flag)
		}
	}
	return finance.Request{Input: in, Years: c.Int("years")}, nil
}

func evaluate(c *cli.Context) (finance.Evaluation, error) {
	req, err := request(c)
	if err != nil {
		return finance.Evaluation{}, err
	}
	return finance.Evaluate(req)
}
