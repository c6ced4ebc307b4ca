package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
)

type memStore struct {
	readings []domain.Reading
	err      error
}

func (m *memStore) InsertReading(_ context.Context, rd *domain.Reading) error {
	if m.err != nil {
		return m.err
	}
	rd.ID = int64(len(m.readings) + 1)
	m.readings = append(m.readings, *rd)
	return nil
}

func TestReadingService_Parse(t *testing.T) {
	svc := NewReadingService(&memStore{}, clock)
	ts := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload string
		want    *domain.Reading
		wantErr bool
	}{
		{
			name:    "full payload",
			payload: `{"meter_id":"meter-001","timestamp":"2025-11-20T09:00:00Z","voltage":221,"current":10,"power_w":2210,"total_kwh":12.5}`,
			want:    &domain.Reading{MeterID: "meter-001", Timestamp: ts, Voltage: 221, CurrentAmps: 10, PowerWatts: 2210, TotalKWh: 12.5},
		},
		{
			name:    "esp32 bare payload",
			payload: `{"currentUsage":1100}`,
			want:    &domain.Reading{MeterID: "esp32", Timestamp: fixedNow, Voltage: 220, CurrentAmps: 5, PowerWatts: 1100},
		},
		{name: "missing power", payload: `{"meter_id":"m"}`, wantErr: true},
		{name: "negative power", payload: `{"power_w":-1}`, wantErr: true},
		{name: "not json", payload: `power=3`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Parse([]byte(tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidReading)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadingService_FromMQTT(t *testing.T) {
	store := &memStore{}
	svc := NewReadingService(store, clock)

	rd, err := svc.FromMQTT(context.Background(), "energy/readings", []byte(`{"power_w":3000,"total_kwh":20}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rd.ID)
	require.Len(t, store.readings, 1)

	_, err = svc.FromMQTT(context.Background(), "energy/readings", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidReading)
	assert.Len(t, store.readings, 1)

	store.err = errors.New("insert failed")
	_, err = svc.FromMQTT(context.Background(), "energy/readings", []byte(`{"power_w":1}`))
	assert.ErrorContains(t, err, "store reading")
}
