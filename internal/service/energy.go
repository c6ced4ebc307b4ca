package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/energy"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/observability/metrics"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

var ErrCloudDisabled = errors.New("cloud services not enabled")

// Overview is everything the dashboard shows for one refresh.
type Overview struct {
	HomeName        string                `json:"home_name"`
	Snapshot        domain.EnergySnapshot `json:"snapshot"`
	Settings        domain.Settings       `json:"settings"`
	CurrentAmps     float64               `json:"current_amps"`
	MonthlyCost     float64               `json:"monthly_cost"`
	MonthlyCostText string                `json:"monthly_cost_text"`
	IsOverLimit     bool                  `json:"is_over_limit"`
	Alerts          []domain.Alert        `json:"alerts"`
	Devices         []domain.Device       `json:"devices"`
	ActiveLoadWatts float64               `json:"active_load_watts"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

type EnergyService struct {
	source   SnapshotSource
	history  historyReader
	settings *SettingsStore
	notifier Notifier
	reports  ReportStore
	now      func() time.Time

	mu      sync.Mutex
	wasOver bool
}

func (s *EnergyService) Overview(ctx context.Context) (*Overview, error) {
	started := time.Now()
	now := s.now()

	snap, err := s.source.Snapshot(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	settings := s.settings.Get()
	devices := simulation.Devices()

	res := energy.Compute(energy.NewInput(snap, settings), now)
	ov := &Overview{
		HomeName:        settings.HomeName,
		Snapshot:        snap,
		Settings:        settings,
		CurrentAmps:     energy.CurrentAmps(snap.CurrentUsageWatts, snap.Voltage),
		MonthlyCost:     res.MonthlyCost,
		MonthlyCostText: energy.FormatCost(res.MonthlyCost),
		IsOverLimit:     res.IsOverLimit,
		Alerts:          res.Alerts,
		Devices:         devices,
		ActiveLoadWatts: energy.ActiveLoadWatts(devices),
		GeneratedAt:     now,
	}

	metrics.ObserveOverview(snap.CurrentUsageWatts, res.MonthlyCost, res.IsOverLimit, time.Since(started))
	s.notifyOnRisingEdge(ctx, ov)
	return ov, nil
}

// notifyOnRisingEdge sends one notification per transition into the
// over-limit state.
func (s *EnergyService) notifyOnRisingEdge(ctx context.Context, ov *Overview) {
	s.mu.Lock()
	rising := ov.IsOverLimit && !s.wasOver
	s.wasOver = ov.IsOverLimit
	s.mu.Unlock()

	if !rising || s.notifier == nil {
		return
	}
	err := s.notifier.SendOverLimitAlert(ctx, ov.HomeName, ov.Snapshot.CurrentUsageWatts, ov.Settings.PowerLimitWatts, ov.GeneratedAt)
	if err != nil {
		log.Error().Err(err).Str("home", ov.HomeName).Msg("over-limit notification failed")
	}
}

// Alerts returns the current alerts, optionally filtered by severity.
func (s *EnergyService) Alerts(ctx context.Context, sev domain.Severity) ([]domain.Alert, error) {
	ov, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return energy.FilterBySeverity(ov.Alerts, sev), nil
}

type Report struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportReport uploads the current overview as JSON.
func (s *EnergyService) ExportReport(ctx context.Context) (*Report, error) {
	if s.reports == nil {
		return nil, ErrCloudDisabled
	}
	ov, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(ov)
	if err != nil {
		return nil, fmt.Errorf("marshal overview: %w", err)
	}

	key := fmt.Sprintf("overview/%s/%s.json", ov.GeneratedAt.Format("2006-01-02"), uuid.NewString())
	url, err := s.reports.UploadReport(ctx, key, data)
	if err != nil {
		return nil, err
	}
	return &Report{Key: key, URL: url}, nil
}
