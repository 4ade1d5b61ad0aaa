package importer

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/finance"
	"Ech2o/internal/calc/premium/batch"
)

const maxUpload = 10 << 20

type Handler struct {
	Inputs *aop.Handler
}

type Result struct {
	batch.Result
	Rows    []int     `json:"rows"`
	Skipped []Skipped `json:"skipped"`
}

// Import evaluates every valid row of the uploaded "file" workbook with the
// configured (or preset) rates.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	base, err := h.Inputs.Base(r)
	if err != nil {
		aop.WritePresetError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sheet, err := Read(file)
	if err != nil {
		if errors.Is(err, aop.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	out := Result{Rows: sheet.Rows, Skipped: sheet.Skipped}
	out.Cheapest = -1
	if len(sheet.Items) > 0 {
		out.Result, err = batch.Calculate(batch.Input{Rates: base.Rates, Years: finance.DefaultYears, Items: sheet.Items})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	log.Info().Int("rows", out.Count).Int("skipped", len(out.Skipped)).Msg("workbook imported")
	aop.WriteJSON(w, out)
}
