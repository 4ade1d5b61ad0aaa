package report

import (
	"bytes"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"Ech2o/internal/calc/finance"
)

type Handler struct {
	Finance *finance.Handler
	Now     func() time.Time
}

// Generate renders the PDF report for the posted design. The optional
// project and author query parameters are printed in the header.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.Finance.Load(w, r)
	if !ok {
		return
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	meta := Meta{
		Number:  NewNumber(now),
		Project: r.URL.Query().Get("project"),
		Author:  r.URL.Query().Get("author"),
		Date:    now,
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, ev, meta); err != nil {
		log.Error().Err(err).Str("report", meta.Number).Msg("report generation failed")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"aop_design_report.pdf\"")
	w.Header().Set("X-Report-Number", meta.Number)
	w.Write(buf.Bytes())
}

// NewNumber returns a report number such as AOP-20260314-1a2b3c4d.
func NewNumber(t time.Time) string {
	return "AOP-" + t.Format("20060102") + "-" + uuid.NewString()[:8]
}
