package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"Ech2o/internal/calc/aop"
)

var fixed = func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) }

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out, fixed)
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"aopcalc", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestDesignText(t *testing.T) {
	out, err := run(t, "", "design")
	if err != nil {
		t.Fatalf("design: %v", err)
	}
	for _, want := range []string{"Reactor trains", "1 x 3 reactors", "Stage 3", "Bid price"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDesignJSONWithFlags(t *testing.T) {
	out, err := run(t, "", "design", "--flowrate", "48", "--reactor-size", "2", "--output", "json")
	if err != nil {
		t.Fatalf("design: %v", err)
	}
	var doc struct {
		Design aop.Result `json:"design"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Design.Process.FlowrateM3Day != 48 || doc.Design.NumReactorTrains != 2 {
		t.Errorf("design = %+v", doc.Design.Process)
	}
}

func TestDesignRejectsInvalidInput(t *testing.T) {
	if _, err := run(t, "", "design", "--cod-target", "2000"); err == nil {
		t.Fatal("expected an error for target above inlet")
	}
	if _, err := run(t, "", "design", "--years", "30"); err == nil {
		t.Fatal("expected an error for years out of range")
	}
}

func TestRatesFileAndPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	doc := "rates:\n  php_per_usd: 50\npresets:\n  budget:\n    aop_reactor_unit_cost: 100\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "design", "--rates-file", path, "--preset", "budget", "--output", "json")
	if err != nil {
		t.Fatalf("design: %v", err)
	}
	var res struct {
		Design aop.Result `json:"design"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Design.AOPReactorCost != 300 {
		t.Errorf("reactor cost = %v, want 3 x 100", res.Design.AOPReactorCost)
	}
	if _, err := run(t, "", "design", "--rates-file", path, "--preset", "missing"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestExportAndReportFiles(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		args   []string
		file   string
		prefix string
	}{
		{[]string{"export", "--format", "csv"}, "cost.csv", "Component,Cost (PHP)"},
		{[]string{"export", "--format", "design"}, "design.csv", "Section,Parameter,Value"},
		{[]string{"export", "--format", "xlsx"}, "design.xlsx", "PK"},
		{[]string{"report"}, "report.pdf", "%PDF"},
	}
	for _, tc := range cases {
		path := filepath.Join(dir, tc.file)
		if _, err := run(t, "", append(tc.args, "--out", path)...); err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte(tc.prefix)) {
			t.Errorf("%s starts with %q", tc.file, data[:min(len(data), 20)])
		}
	}

	path := filepath.Join(dir, "bad.csv")
	if _, err := run(t, "", "export", "--format", "pdf", "--out", path); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed export left a file behind")
	}
}

func TestBatchCommand(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"flowrate", "cod_inlet", "cod_target", "initial_ph", "reactor_size"},
		{10, 1000, 75, 7, 1.5},
		{"bad", 1000, 75, 7, 1.5},
		{60, 900, 60, 6, 2},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "scenarios.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out, err := run(t, "", "batch", "--file", path)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "4") {
		t.Errorf("last line should be sheet row 4: %q", lines[2])
	}
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hunter2\n", "hash-password")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("hunter2")) != nil {
		t.Errorf("hash %q does not verify", out)
	}
	if _, err := run(t, "", "hash-password"); err == nil {
		t.Error("empty password accepted")
	}
}
