// Package importer reads process scenarios from an XLSX sheet.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Ech2o/internal/calc/aop"
)

// Columns is the expected header, in order. initial_ph and reactor_size
// may be left blank and fall back to the defaults.
var Columns = []string{"flowrate", "cod_inlet", "cod_target", "initial_ph", "reactor_size"}

type Skipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Sheet struct {
	Items   []aop.ProcessInputs `json:"items"`
	Rows    []int               `json:"rows"`
	Skipped []Skipped           `json:"skipped"`
}

// Read parses the first sheet of an XLSX workbook. The first row is a header.
// Rows that do not parse or fail validation are reported in Skipped with
// their 1-based sheet row number.
func Read(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Sheet{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return Sheet{}, fmt.Errorf("%w: sheet has no data rows", aop.ErrInvalidInput)
	}

	var out Sheet
	for i := 1; i < len(rows); i++ {
		n := i + 1
		if blank(rows[i]) {
			continue
		}
		p, err := parseRow(rows[i])
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			out.Skipped = append(out.Skipped, Skipped{Row: n, Reason: err.Error()})
			continue
		}
		out.Items = append(out.Items, p)
		out.Rows = append(out.Rows, n)
	}
	return out, nil
}

func parseRow(row []string) (aop.ProcessInputs, error) {
	if len(row) < 3 {
		return aop.ProcessInputs{}, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}
	p := aop.DefaultProcess()
	fields := []*float64{&p.FlowrateM3Day, &p.CODInletPPM, &p.CODTargetPPM, &p.InitialPH, &p.ReactorSizeM3}
	for i, dst := range fields {
		if i >= len(row) || strings.TrimSpace(row[i]) == "" {
			if i < 3 {
				return aop.ProcessInputs{}, fmt.Errorf("%s is empty", Columns[i])
			}
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return aop.ProcessInputs{}, fmt.Errorf("%s: %q is not a number", Columns[i], row[i])
		}
		*dst = v
	}
	return p, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
