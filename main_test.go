package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"Ech2o/internal/calc/aop"
	"Ech2o/internal/config"
	"Ech2o/internal/repo"
)

func testServer(t *testing.T) (*httptest.Server, *repo.MemoryPresetRepository) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		TokenKey:          "test",
		AdminPasswordHash: string(hash),
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		Defaults:          aop.DefaultInput(),
	}
	store := repo.NewMemoryPresets()
	srv := httptest.NewServer(NewHandler(cfg, store))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestHealthAndRequestID(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("request id = %q, want the client's", got)
	}
}

func TestCalcRoute(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Post(srv.URL+"/api/tools/aop/calc", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res aop.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.TotalReactors != 3 {
		t.Errorf("reactors = %d", res.TotalReactors)
	}
}

func TestAdminPresetsRequireLogin(t *testing.T) {
	srv, store := testServer(t)
	put := func(c *http.Cookie) int {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/admin/presets/mindanao", strings.NewReader(`{"electricity_cost":0.3}`))
		if c != nil {
			req.AddCookie(c)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := put(nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous put: %d", code)
	}

	resp, err := http.Post(srv.URL+"/api/login", "application/json", strings.NewReader(`{"login":"admin","password":"pw"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(resp.Cookies()) == 0 {
		t.Fatalf("login: %d", resp.StatusCode)
	}
	if code := put(resp.Cookies()[0]); code != http.StatusOK {
		t.Fatalf("admin put: %d", code)
	}
	if _, err := store.GetPreset(context.Background(), "mindanao"); err != nil {
		t.Errorf("preset not stored: %v", err)
	}

	calc, err := http.Post(srv.URL+"/api/tools/aop/calc?preset=mindanao", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	calc.Body.Close()
	if calc.StatusCode != http.StatusOK {
		t.Errorf("calc with preset: %d", calc.StatusCode)
	}
}

func TestOpenPresetsSeedsMemoryStore(t *testing.T) {
	rates := aop.DefaultRates()
	rates.PHPPerUSD = 55
	cfg := config.Config{Presets: map[string]aop.CostRates{"luzon": rates}}
	store, closeFn, err := openPresets(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openPresets: %v", err)
	}
	defer closeFn()
	got, err := store.GetPreset(context.Background(), "luzon")
	if err != nil || got.PHPPerUSD != 55 {
		t.Errorf("seeded preset = %+v, %v", got, err)
	}
}
