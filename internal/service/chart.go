package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/energy"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

const (
	chartWindow = 24 * time.Hour
	chartBucket = 2 * time.Hour
)

type historyReader interface {
	ReadingsSince(ctx context.Context, since time.Time) ([]domain.Reading, error)
}

// Chart returns the 24-hour power chart. Stored readings are averaged into
// two-hour buckets; without any stored reading the simulated samples are used.
func (s *EnergyService) Chart(ctx context.Context) ([]domain.HourlySample, error) {
	if s.history == nil {
		return simulation.HourlySamples(), nil
	}
	now := s.now()
	rds, err := s.history.ReadingsSince(ctx, now.Add(-chartWindow))
	if err != nil {
		return nil, fmt.Errorf("readings since: %w", err)
	}
	if len(rds) == 0 {
		return simulation.HourlySamples(), nil
	}
	return bucketReadings(rds, now.Location()), nil
}

type bucket struct {
	start                 time.Time
	n                     int
	watts, volts, amperes float64
}

// bucketReadings expects rds ordered by timestamp.
func bucketReadings(rds []domain.Reading, loc *time.Location) []domain.HourlySample {
	var buckets []*bucket
	for _, rd := range rds {
		start := rd.Timestamp.Truncate(chartBucket)
		if len(buckets) == 0 || !buckets[len(buckets)-1].start.Equal(start) {
			buckets = append(buckets, &bucket{start: start})
		}
		b := buckets[len(buckets)-1]
		b.n++
		b.watts += rd.PowerWatts
		b.volts += rd.Voltage
		b.amperes += rd.CurrentAmps
	}

	out := make([]domain.HourlySample, 0, len(buckets))
	for _, b := range buckets {
		n := float64(b.n)
		out = append(out, domain.HourlySample{
			Time:        b.start.In(loc).Format("15:04"),
			PowerWatts:  energy.Round2(b.watts / n),
			Voltage:     energy.Round2(b.volts / n),
			CurrentAmps: energy.Round2(b.amperes / n),
		})
	}
	return out
}
