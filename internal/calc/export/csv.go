package export

import (
	"encoding/csv"
	"io"
	"time"

	"Ech2o/internal/calc/finance"
)

func WriteCostCSV(w io.Writer, ev finance.Evaluation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Component", "Cost (" + ev.Currency.Code + ")", "Category", "Notes"}); err != nil {
		return err
	}
	for _, row := range CostRows(ev) {
		if err := cw.Write([]string{row.Component, ev.Currency.Format(row.USD), row.Category, row.Notes}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteDesignCSV(w io.Writer, ev finance.Evaluation, date time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Section", "Parameter", "Value"}); err != nil {
		return err
	}
	for _, row := range DesignRows(ev, date) {
		if err := cw.Write([]string{row.Section, row.Parameter, row.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
