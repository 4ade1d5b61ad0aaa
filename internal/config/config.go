// Package config loads server and calculator settings from the environment,
// an optional .env file and an optional YAML rates file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"Ech2o/internal/calc/aop"
)

type Config struct {
	Port              string
	TLSCert           string
	TLSKey            string
	DatabaseURL       string
	TokenKey          string
	AdminPasswordHash string
	RatesFile         string
	LogLevel          zerolog.Level
	RateLimitRPS      float64
	RateLimitBurst    int

	Defaults aop.Input
	Presets  map[string]aop.CostRates
}

// RatesFile is the YAML document named by RATES_FILE. Omitted fields keep the
// built-in defaults; each preset starts from the file's rates.
type RatesFile struct {
	Process aop.ProcessInputs    `yaml:"process"`
	Rates   aop.CostRates        `yaml:"rates"`
	Presets map[string]yaml.Node `yaml:"presets"`
}

// Load reads envFile (a missing file is fine) and then the environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		TLSCert:           os.Getenv("TLS_CERT"),
		TLSKey:            os.Getenv("TLS_KEY"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		TokenKey:          os.Getenv("TOKEN_KEY"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		RatesFile:         os.Getenv("RATES_FILE"),
		Defaults:          aop.DefaultInput(),
		Presets:           map[string]aop.CostRates{},
	}

	var err error
	if cfg.LogLevel, err = zerolog.ParseLevel(getenv("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getenv("RATE_LIMIT_RPS", "5"), 64); err != nil || cfg.RateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getenv("RATE_LIMIT_BURST", "10")); err != nil || cfg.RateLimitBurst < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	if cfg.AdminPasswordHash != "" && cfg.TokenKey == "" {
		return Config{}, fmt.Errorf("TOKEN_KEY environment variable is not set")
	}

	if cfg.RatesFile != "" {
		if err := cfg.loadRates(cfg.RatesFile); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func (c *Config) loadRates(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rates file: %w", err)
	}
	defaults, presets, err := ParseRates(data)
	if err != nil {
		return fmt.Errorf("rates file %s: %w", path, err)
	}
	c.Defaults = defaults
	c.Presets = presets
	return nil
}

// ParseRates decodes a rates document over the built-in defaults and
// validates the result and every preset.
func ParseRates(data []byte) (aop.Input, map[string]aop.CostRates, error) {
	doc := RatesFile{Process: aop.DefaultProcess(), Rates: aop.DefaultRates()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return aop.Input{}, nil, err
	}
	in := aop.Input{Process: doc.Process, Rates: doc.Rates}
	if err := in.Validate(); err != nil {
		return aop.Input{}, nil, err
	}
	presets := make(map[string]aop.CostRates, len(doc.Presets))
	for name, node := range doc.Presets {
		rates := doc.Rates
		if err := node.Decode(&rates); err != nil {
			return aop.Input{}, nil, fmt.Errorf("preset %s: %w", name, err)
		}
		if err := rates.Validate(); err != nil {
			return aop.Input{}, nil, fmt.Errorf("preset %s: %w", name, err)
		}
		presets[name] = rates
	}
	return in, presets, nil
}

// TLS reports whether the server should listen with TLS.
func (c Config) TLS() bool {
	return c.TLSCert != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
