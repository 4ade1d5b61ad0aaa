package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"Ech2o/internal/calc/aop"
)

// MemoryPresetRepository keeps presets in process memory. It is used when
// no database is configured.
type MemoryPresetRepository struct {
	mu      sync.RWMutex
	presets map[string]Preset
	now     func() time.Time
}

func NewMemoryPresets() *MemoryPresetRepository {
	return &MemoryPresetRepository{presets: make(map[string]Preset), now: time.Now}
}

func (m *MemoryPresetRepository) ListPresets(_ context.Context) ([]Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryPresetRepository) GetPreset(_ context.Context, name string) (aop.CostRates, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.presets[name]
	if !ok {
		return aop.CostRates{}, notFound(name)
	}
	return p.Rates, nil
}

func (m *MemoryPresetRepository) SavePreset(_ context.Context, name string, rates aop.CostRates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets[name] = Preset{Name: name, Rates: rates, UpdatedAt: m.now().UTC()}
	return nil
}

func (m *MemoryPresetRepository) DeletePreset(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[name]; !ok {
		return notFound(name)
	}
	delete(m.presets, name)
	return nil
}
