package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"Ech2o/internal/calc/aop"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "TLS_CERT", "TLS_KEY", "DATABASE_URL", "TOKEN_KEY",
		"ADMIN_PASSWORD_HASH", "RATES_FILE", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.TLS() || cfg.LogLevel != zerolog.InfoLevel {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.Defaults != aop.DefaultInput() {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=9090\nLOG_LEVEL=debug\nRATE_LIMIT_BURST=3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set, even empty ones
	os.Unsetenv("PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("RATE_LIMIT_BURST")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.LogLevel != zerolog.DebugLevel || cfg.RateLimitBurst != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string][2]string{
		"bad level":     {"LOG_LEVEL", "loud"},
		"bad rps":       {"RATE_LIMIT_RPS", "-1"},
		"bad burst":     {"RATE_LIMIT_BURST", "x"},
		"half tls":      {"TLS_CERT", "server.crt"},
		"hash, no key":  {"ADMIN_PASSWORD_HASH", "$2a$10$abc"},
		"missing rates": {"RATES_FILE", "/nonexistent/rates.yaml"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(""); err == nil {
				t.Errorf("%s=%s accepted", kv[0], kv[1])
			}
		})
	}
}

const ratesDoc = `
process:
  flowrate_m3_day: 25
rates:
  electricity_cost: 0.21
  php_per_usd: 56
presets:
  visayas:
    electricity_cost: 0.24
  budget:
    aop_reactor_unit_cost: 500
`

func TestLoadRatesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rates.yaml")
	if err := os.WriteFile(path, []byte(ratesDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RATES_FILE", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Process.FlowrateM3Day != 25 || cfg.Defaults.Process.CODInletPPM != 1000 {
		t.Errorf("process = %+v", cfg.Defaults.Process)
	}
	if cfg.Defaults.Rates.ElectricityCost != 0.21 || cfg.Defaults.Rates.PumpUnitCost != 650 {
		t.Errorf("rates = %+v", cfg.Defaults.Rates)
	}
	v := cfg.Presets["visayas"]
	if v.ElectricityCost != 0.24 || v.PHPPerUSD != 56 {
		t.Errorf("visayas = %+v", v)
	}
	if b := cfg.Presets["budget"]; b.AOPReactorUnitCost != 500 || b.ElectricityCost != 0.21 {
		t.Errorf("budget = %+v", b)
	}
}

func TestParseRatesValidates(t *testing.T) {
	_, _, err := ParseRates([]byte("process:\n  reactor_size_m3: 3\n"))
	if !errors.Is(err, aop.ErrInvalidInput) {
		t.Errorf("bad process: err = %v", err)
	}
	_, _, err = ParseRates([]byte("presets:\n  broken:\n    epc_factor: 2\n"))
	if !errors.Is(err, aop.ErrInvalidInput) {
		t.Errorf("bad preset: err = %v", err)
	}
}
