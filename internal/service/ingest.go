package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/energy"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/observability/metrics"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

const defaultMeterID = "esp32"

type readingStore interface {
	InsertReading(ctx context.Context, rd *domain.Reading) error
}

type ReadingService struct {
	store readingStore
	now   func() time.Time
}

func NewReadingService(store readingStore, now func() time.Time) *ReadingService {
	if now == nil {
		now = time.Now
	}
	return &ReadingService{store: store, now: now}
}

// ReadingPayload is the wire shape on the readings topic. CurrentUsage is the
// bare form the ESP32 sketch sends; it is used when PowerW is absent.
type ReadingPayload struct {
	MeterID      string     `json:"meter_id"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	Voltage      *float64   `json:"voltage,omitempty"`
	Current      *float64   `json:"current,omitempty"`
	PowerW       *float64   `json:"power_w,omitempty"`
	TotalKWh     *float64   `json:"total_kwh,omitempty"`
	CurrentUsage *float64   `json:"currentUsage,omitempty"`
}

func (s *ReadingService) FromMQTT(ctx context.Context, topic string, payload []byte) (*domain.Reading, error) {
	rd, err := s.Parse(payload)
	if err != nil {
		metrics.IncReadingIngested(metrics.ResultInvalid)
		return nil, fmt.Errorf("topic %s: %w", topic, err)
	}
	if err := s.store.InsertReading(ctx, rd); err != nil {
		metrics.IncReadingIngested(metrics.ResultError)
		return nil, fmt.Errorf("store reading: %w", err)
	}
	metrics.IncReadingIngested(metrics.ResultSuccess)
	return rd, nil
}

// Parse decodes and validates one payload, filling in what a bare payload
// leaves out.
func (s *ReadingService) Parse(payload []byte) (*domain.Reading, error) {
	var p ReadingPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReading, err)
	}

	power := p.PowerW
	if power == nil {
		power = p.CurrentUsage
	}
	if power == nil {
		return nil, fmt.Errorf("%w: missing power", domain.ErrInvalidReading)
	}

	rd := &domain.Reading{
		MeterID:    p.MeterID,
		Timestamp:  s.now(),
		Voltage:    simulation.Voltage,
		PowerWatts: *power,
	}
	if rd.MeterID == "" {
		rd.MeterID = defaultMeterID
	}
	if p.Timestamp != nil && !p.Timestamp.IsZero() {
		rd.Timestamp = *p.Timestamp
	}
	if p.Voltage != nil {
		rd.Voltage = *p.Voltage
	}
	if p.TotalKWh != nil {
		rd.TotalKWh = *p.TotalKWh
	}
	if p.Current != nil {
		rd.CurrentAmps = *p.Current
	} else {
		rd.CurrentAmps = energy.CurrentAmps(rd.PowerWatts, rd.Voltage)
	}

	for name, v := range map[string]float64{
		"power":     rd.PowerWatts,
		"voltage":   rd.Voltage,
		"current":   rd.CurrentAmps,
		"total_kwh": rd.TotalKWh,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidReading, name)
		}
	}
	return rd, nil
}
