package aop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

var ErrUnknownPreset = errors.New("unknown rate preset")

// PresetSource resolves named cost-rate presets.
type PresetSource interface {
	GetPreset(ctx context.Context, name string) (CostRates, error)
}

type Handler struct {
	Defaults Input
	Presets  PresetSource
}

// Base returns the input a request body is decoded over: the configured
// defaults with the rates of the ?preset= query parameter applied.
func (h *Handler) Base(r *http.Request) (Input, error) {
	base := h.Defaults
	name := r.URL.Query().Get("preset")
	if name == "" || h.Presets == nil {
		return base, nil
	}
	rates, err := h.Presets.GetPreset(r.Context(), name)
	if err != nil {
		return Input{}, err
	}
	base.Rates = rates
	return base, nil
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	input, err := h.Base(r)
	if err != nil {
		WritePresetError(w, err)
		return
	}
	if err := DecodeOver(r.Body, &input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debug().
		Float64("flowrate", input.Process.FlowrateM3Day).
		Int("trains", res.NumReactorTrains).
		Int("reactors", res.TotalReactors).
		Float64("capex", res.TotalCAPEX).
		Msg("design calculated")
	WriteJSON(w, res)
}

// WriteJSON writes v as the JSON response body. The status line is already
// sent when encoding fails, so the error can only be logged.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

func WritePresetError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownPreset) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Error().Err(err).Msg("preset lookup failed")
	http.Error(w, "Preset storage error", http.StatusInternalServerError)
}

// DecodeOver decodes a JSON body over dst, keeping the fields the body omits.
// An empty body leaves dst untouched.
func DecodeOver(body io.Reader, dst any) error {
	err := json.NewDecoder(body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
