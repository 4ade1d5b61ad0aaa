package export

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"Ech2o/internal/calc/finance"
)

type Handler struct {
	Finance *finance.Handler
	Now     func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) CostCSV(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.Finance.Load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteCostCSV(&buf, ev); err != nil {
		log.Error().Err(err).Msg("cost csv export failed")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	attach(w, "text/csv", "wastewater_treatment_cost_analysis.csv", buf.Bytes())
}

func (h *Handler) DesignCSV(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.Finance.Load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteDesignCSV(&buf, ev, h.now()); err != nil {
		log.Error().Err(err).Msg("design csv export failed")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	attach(w, "text/csv", "wastewater_treatment_complete_design_summary.csv", buf.Bytes())
}

func (h *Handler) Workbook(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.Finance.Load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, ev, h.now()); err != nil {
		log.Error().Err(err).Msg("xlsx export failed")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	attach(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "wastewater_treatment_design.xlsx", buf.Bytes())
}

func attach(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Write(body)
}
