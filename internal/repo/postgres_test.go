package repo

import (
	"context"
	"errors"
	"os"
	"testing"

	"Ech2o/internal/calc/aop"
)

// Runs against a real database only when TEST_DATABASE_URL is set.
func TestPostgresPresets(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := InitDB(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	r := NewPostgresPresetDB(db)
	if err := r.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	const name = "test-preset"
	t.Cleanup(func() { r.DeletePreset(ctx, name) })

	rates := aop.DefaultRates()
	rates.PumpUnitCost = 720
	if err := r.SavePreset(ctx, name, rates); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	rates.PumpUnitCost = 740
	if err := r.SavePreset(ctx, name, rates); err != nil {
		t.Fatalf("SavePreset upsert: %v", err)
	}
	got, err := r.GetPreset(ctx, name)
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	if got != rates {
		t.Errorf("got %+v, want %+v", got, rates)
	}
	if err := r.DeletePreset(ctx, name); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}
	if _, err := r.GetPreset(ctx, name); !errors.Is(err, aop.ErrUnknownPreset) {
		t.Errorf("after delete: err = %v", err)
	}
}
