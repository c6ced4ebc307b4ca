package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	valid := Settings{HomeName: "Rumahku", CostPerKWh: 1699.53, PowerLimitWatts: 5000}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(s *Settings) {}},
		{name: "blank home name", mutate: func(s *Settings) { s.HomeName = "   " }, wantErr: true},
		{name: "zero tariff", mutate: func(s *Settings) { s.CostPerKWh = 0 }, wantErr: true},
		{name: "negative tariff", mutate: func(s *Settings) { s.CostPerKWh = -1 }, wantErr: true},
		{name: "NaN tariff", mutate: func(s *Settings) { s.CostPerKWh = math.NaN() }, wantErr: true},
		{name: "zero limit", mutate: func(s *Settings) { s.PowerLimitWatts = 0 }, wantErr: true},
		{name: "infinite limit", mutate: func(s *Settings) { s.PowerLimitWatts = math.Inf(1) }, wantErr: true},
		{name: "tiny positive values", mutate: func(s *Settings) { s.CostPerKWh, s.PowerLimitWatts = 0.01, 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSettings)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDevice_Active(t *testing.T) {
	assert.True(t, Device{Status: DeviceActive}.Active())
	assert.False(t, Device{Status: DeviceInactive}.Active())
}
