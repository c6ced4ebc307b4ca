package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/repository"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

type SnapshotSource interface {
	Snapshot(ctx context.Context, now time.Time) (domain.EnergySnapshot, error)
}

// StaticSource serves the simulated snapshot.
type StaticSource struct{}

func (StaticSource) Snapshot(_ context.Context, now time.Time) (domain.EnergySnapshot, error) {
	return simulation.Snapshot(now), nil
}

type latestReader interface {
	LatestReading(ctx context.Context) (domain.Reading, error)
}

// ReadingSource builds the snapshot from the newest stored meter reading and
// uses Fallback until the first reading arrives.
type ReadingSource struct {
	Readings latestReader
	Fallback SnapshotSource
}

func (s ReadingSource) Snapshot(ctx context.Context, now time.Time) (domain.EnergySnapshot, error) {
	rd, err := s.Readings.LatestReading(ctx)
	if errors.Is(err, repository.ErrNoReadings) {
		return s.Fallback.Snapshot(ctx, now)
	}
	if err != nil {
		return domain.EnergySnapshot{}, fmt.Errorf("latest reading: %w", err)
	}

	snap := domain.EnergySnapshot{
		TotalConsumptionKWh: rd.TotalKWh,
		CurrentUsageWatts:   rd.PowerWatts,
		Voltage:             rd.Voltage,
		Timestamp:           rd.Timestamp,
	}
	// Bare ESP32 payloads carry neither a meter total nor a voltage.
	if snap.TotalConsumptionKWh <= 0 {
		snap.TotalConsumptionKWh = simulation.TotalConsumptionKWh
	}
	if snap.Voltage <= 0 {
		snap.Voltage = simulation.Voltage
	}
	return snap, nil
}
