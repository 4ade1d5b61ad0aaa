// Package preset serves the named cost-rate presets over HTTP.
package preset

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/repo"
)

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

type PresetHandler struct {
	Repo repo.PresetRepository
}

func (h *PresetHandler) List(w http.ResponseWriter, r *http.Request) {
	presets, err := h.Repo.ListPresets(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list presets")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if presets == nil {
		presets = []repo.Preset{}
	}
	aop.WriteJSON(w, presets)
}

func (h *PresetHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rates, err := h.Repo.GetPreset(r.Context(), name)
	if err != nil {
		h.fail(w, err)
		return
	}
	aop.WriteJSON(w, repo.Preset{Name: name, Rates: rates})
}

// Put creates or replaces a preset. Fields missing from the body keep the
// current preset value, or the default rate for a new preset.
func (h *PresetHandler) Put(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !validName.MatchString(name) {
		http.Error(w, "Invalid preset name", http.StatusBadRequest)
		return
	}
	rates, err := h.Repo.GetPreset(r.Context(), name)
	if errors.Is(err, aop.ErrUnknownPreset) {
		rates, err = aop.DefaultRates(), nil
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&rates); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := rates.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.SavePreset(r.Context(), name, rates); err != nil {
		h.fail(w, err)
		return
	}
	log.Info().Str("preset", name).Msg("preset saved")
	aop.WriteJSON(w, repo.Preset{Name: name, Rates: rates})
}

func (h *PresetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.Repo.DeletePreset(r.Context(), name); err != nil {
		h.fail(w, err)
		return
	}
	log.Info().Str("preset", name).Msg("preset deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *PresetHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, aop.ErrUnknownPreset) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Error().Err(err).Msg("preset storage")
	http.Error(w, "DB error", http.StatusInternalServerError)
}
