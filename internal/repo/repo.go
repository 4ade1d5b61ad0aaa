package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Ech2o/internal/calc/aop"
)

// Preset is a named, organisation-wide set of cost rates.
type Preset struct {
	Name      string        `json:"name"`
	Rates     aop.CostRates `json:"rates"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type PresetRepository interface {
	ListPresets(ctx context.Context) ([]Preset, error)
	GetPreset(ctx context.Context, name string) (aop.CostRates, error)
	SavePreset(ctx context.Context, name string, rates aop.CostRates) error
	DeletePreset(ctx context.Context, name string) error
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", aop.ErrUnknownPreset, name)
}

const schema = `CREATE TABLE IF NOT EXISTS rate_presets (
	name       text PRIMARY KEY,
	rates      jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

type PostgresPresetRepository struct {
	db *sql.DB
}

func NewPostgresPresetDB(db *sql.DB) *PostgresPresetRepository {
	return &PostgresPresetRepository{db: db}
}

// Migrate creates the presets table when it does not exist yet.
func (r *PostgresPresetRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresPresetRepository) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name, rates, updated_at FROM rate_presets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		var p Preset
		var raw []byte
		if err := rows.Scan(&p.Name, &raw, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &p.Rates); err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPresetRepository) GetPreset(ctx context.Context, name string) (aop.CostRates, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, "SELECT rates FROM rate_presets WHERE name=$1", name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return aop.CostRates{}, notFound(name)
	}
	if err != nil {
		return aop.CostRates{}, err
	}
	var rates aop.CostRates
	if err := json.Unmarshal(raw, &rates); err != nil {
		return aop.CostRates{}, fmt.Errorf("preset %s: %w", name, err)
	}
	return rates, nil
}

func (r *PostgresPresetRepository) SavePreset(ctx context.Context, name string, rates aop.CostRates) error {
	raw, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	query := `INSERT INTO rate_presets (name, rates, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET rates = EXCLUDED.rates, updated_at = now()`
	_, err = r.db.ExecContext(ctx, query, name, raw)
	return err
}

func (r *PostgresPresetRepository) DeletePreset(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rate_presets WHERE name=$1", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}
