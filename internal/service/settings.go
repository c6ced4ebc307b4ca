package service

import (
	"sync"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/observability/metrics"
)

// SettingsStore holds the session settings. Nothing is persisted; a restart
// goes back to the configured defaults.
type SettingsStore struct {
	mu       sync.Mutex
	settings domain.Settings
}

func NewSettingsStore(initial domain.Settings) *SettingsStore {
	return &SettingsStore{settings: initial}
}

func (s *SettingsStore) Get() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update replaces the settings. Invalid settings are rejected and the previous
// value is kept.
func (s *SettingsStore) Update(next domain.Settings) (domain.Settings, error) {
	if err := next.Validate(); err != nil {
		metrics.IncSettingsUpdate(metrics.ResultInvalid)
		return s.Get(), err
	}

	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()

	metrics.IncSettingsUpdate(metrics.ResultSuccess)
	return next, nil
}
