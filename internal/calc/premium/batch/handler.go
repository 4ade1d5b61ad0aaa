package batch

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/finance"
)

type Handler struct {
	Inputs *aop.Handler
}

// Run decodes a batch whose rates default to the configured (or preset) rates.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	base, err := h.Inputs.Base(r)
	if err != nil {
		aop.WritePresetError(w, err)
		return
	}
	input := Input{Rates: base.Rates, Years: finance.DefaultYears}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debug().Int("items", res.Count).Msg("batch calculated")
	aop.WriteJSON(w, res)
}
