package aop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type stubPresets map[string]CostRates

func (s stubPresets) GetPreset(_ context.Context, name string) (CostRates, error) {
	rates, ok := s[name]
	if !ok {
		return CostRates{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return rates, nil
}

func TestCalcHandlerDecodesOverDefaults(t *testing.T) {
	h := &Handler{Defaults: DefaultInput()}
	body := `{"process":{"flowrate_m3_day":48,"reactor_size_m3":2.0}}`
	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Calc(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.NumReactorTrains != 2 {
		t.Errorf("trains = %d, want 2", res.NumReactorTrains)
	}
	if res.Process.CODInletPPM != 1000 {
		t.Errorf("cod inlet = %v, want default 1000", res.Process.CODInletPPM)
	}
}

func TestCalcHandlerEmptyBodyUsesDefaults(t *testing.T) {
	h := &Handler{Defaults: DefaultInput()}
	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc", nil)
	rr := httptest.NewRecorder()

	h.Calc(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestCalcHandlerRejectsInvalidInput(t *testing.T) {
	h := &Handler{Defaults: DefaultInput()}
	body := `{"process":{"cod_inlet_ppm":100,"cod_target_ppm":100}}`
	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Calc(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "cod_target_ppm") {
		t.Errorf("body %q does not describe the violated constraint", rr.Body.String())
	}
}

func TestCalcHandlerAppliesPreset(t *testing.T) {
	cheap := DefaultRates()
	cheap.AOPReactorUnitCost = 500
	h := &Handler{Defaults: DefaultInput(), Presets: stubPresets{"cheap": cheap}}

	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc?preset=cheap", nil)
	rr := httptest.NewRecorder()
	h.Calc(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.AOPReactorCost != 500*float64(res.TotalReactors) {
		t.Errorf("reactor cost = %v, preset not applied", res.AOPReactorCost)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc?preset=missing", nil)
	rr = httptest.NewRecorder()
	h.Calc(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown preset status = %d, want 404", rr.Code)
	}
}

// brokenWriter accepts headers but fails every body write, like a client
// that went away mid-response.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestCalcHandlerLogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	h := &Handler{Defaults: DefaultInput()}
	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc", nil)
	w := brokenWriter{httptest.NewRecorder()}

	h.Calc(w, req)

	out := logs.String()
	if !strings.Contains(out, "response encoding failed") || !strings.Contains(out, "connection reset") {
		t.Errorf("encode error not logged: %q", out)
	}
}

func TestCalcHandlerRejectsOverflowingInput(t *testing.T) {
	h := &Handler{Defaults: DefaultInput()}
	body := `{"process":{"flowrate_m3_day":100000,"cod_inlet_ppm":1e307}}`
	req := httptest.NewRequest(http.MethodPost, "/api/tools/aop/calc", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Calc(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "cod_inlet_ppm") {
		t.Errorf("body = %q", rr.Body.String())
	}
}
