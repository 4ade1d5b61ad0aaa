package finance

import (
	"net/http"

	"github.com/shopspring/decimal"

	"Ech2o/internal/calc/aop"
)

type Handler struct {
	Inputs *aop.Handler
}

type Converted struct {
	Currency          string          `json:"currency"`
	Rate              decimal.Decimal `json:"rate"`
	TotalCAPEX        decimal.Decimal `json:"total_capex"`
	MonthlyOPEX       decimal.Decimal `json:"monthly_opex"`
	AnnualOPEX        decimal.Decimal `json:"annual_opex"`
	LifetimeOPEX      decimal.Decimal `json:"lifetime_opex"`
	TotalLifetimeCost decimal.Decimal `json:"total_lifetime_cost"`
	CostPerM3         decimal.Decimal `json:"cost_per_m3"`
	BidPrice          decimal.Decimal `json:"bid_price"`
}

type Response struct {
	Design    aop.Result `json:"design"`
	Analysis  Analysis   `json:"analysis"`
	Converted Converted  `json:"converted"`
}

// Load decodes a Request over the handler defaults and evaluates it,
// writing the error response itself when it returns false.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) (Evaluation, bool) {
	base, err := h.Inputs.Base(r)
	if err != nil {
		aop.WritePresetError(w, err)
		return Evaluation{}, false
	}
	req := Request{Input: base, Years: DefaultYears}
	if err := aop.DecodeOver(r.Body, &req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Evaluation{}, false
	}
	ev, err := Evaluate(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return Evaluation{}, false
	}
	return ev, true
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.Load(w, r)
	if !ok {
		return
	}
	c := ev.Currency
	a := ev.Analysis
	resp := Response{
		Design:   ev.Design,
		Analysis: a,
		Converted: Converted{
			Currency:          c.Code,
			Rate:              c.Rate(),
			TotalCAPEX:        c.Amount(a.TotalCAPEX).Round(2),
			MonthlyOPEX:       c.Amount(a.MonthlyOPEX).Round(2),
			AnnualOPEX:        c.Amount(a.AnnualOPEX).Round(2),
			LifetimeOPEX:      c.Amount(a.LifetimeOPEX).Round(2),
			TotalLifetimeCost: c.Amount(a.TotalLifetimeCost).Round(2),
			CostPerM3:         c.Amount(a.CostPerM3).Round(2),
			BidPrice:          c.Amount(a.BidPrice).Round(2),
		},
	}
	aop.WriteJSON(w, resp)
}
