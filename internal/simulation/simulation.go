// Package simulation holds the fixed demo data the dashboard shows when no
// meter is connected. Every accessor returns a fresh copy.
package simulation

import (
	"time"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
)

const (
	DefaultHomeName        = "Rumahku"
	DefaultCostPerKWh      = 1699.53
	DefaultPowerLimitWatts = 5000

	TotalConsumptionKWh = 24.5
	CurrentUsageWatts   = 3200
	Voltage             = 220
)

func DefaultSettings() domain.Settings {
	return domain.Settings{
		HomeName:        DefaultHomeName,
		CostPerKWh:      DefaultCostPerKWh,
		PowerLimitWatts: DefaultPowerLimitWatts,
	}
}

func Snapshot(now time.Time) domain.EnergySnapshot {
	return domain.EnergySnapshot{
		TotalConsumptionKWh: TotalConsumptionKWh,
		CurrentUsageWatts:   CurrentUsageWatts,
		Voltage:             Voltage,
		Timestamp:           now,
	}
}

func Devices() []domain.Device {
	return []domain.Device{
		{ID: 1, Name: "AC Ruang Tengah", Wattage: 1800, Status: domain.DeviceActive, Icon: "❄️"},
		{ID: 2, Name: "Lampu Utama", Wattage: 300, Status: domain.DeviceActive, Icon: "💡"},
		{ID: 3, Name: "Kulkas", Wattage: 500, Status: domain.DeviceActive, Icon: "🧊"},
		{ID: 4, Name: "TV", Wattage: 200, Status: domain.DeviceInactive, Icon: "📺"},
		{ID: 5, Name: "Mesin Cuci", Wattage: 800, Status: domain.DeviceActive, Icon: "🧺"},
		{ID: 6, Name: "Komputer", Wattage: 600, Status: domain.DeviceInactive, Icon: "💻"},
	}
}

// FindDevice looks a device up by id.
func FindDevice(id int64) (domain.Device, error) {
	for _, d := range Devices() {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Device{}, domain.ErrDeviceNotFound
}

// HourlySamples is the 24-hour chart, one point every two hours.
func HourlySamples() []domain.HourlySample {
	return []domain.HourlySample{
		{Time: "00:00", PowerWatts: 1200, Voltage: 220, CurrentAmps: 5.45},
		{Time: "02:00", PowerWatts: 800, Voltage: 220, CurrentAmps: 3.64},
		{Time: "04:00", PowerWatts: 600, Voltage: 220, CurrentAmps: 2.73},
		{Time: "06:00", PowerWatts: 1500, Voltage: 220, CurrentAmps: 6.82},
		{Time: "08:00", PowerWatts: 2800, Voltage: 220, CurrentAmps: 12.73},
		{Time: "10:00", PowerWatts: 3500, Voltage: 220, CurrentAmps: 15.91},
		{Time: "12:00", PowerWatts: 4200, Voltage: 220, CurrentAmps: 19.09},
		{Time: "14:00", PowerWatts: 3800, Voltage: 220, CurrentAmps: 17.27},
		{Time: "16:00", PowerWatts: 4500, Voltage: 220, CurrentAmps: 20.45},
		{Time: "18:00", PowerWatts: 5200, Voltage: 220, CurrentAmps: 23.64},
		{Time: "20:00", PowerWatts: 4800, Voltage: 220, CurrentAmps: 21.82},
		{Time: "22:00", PowerWatts: 2200, Voltage: 220, CurrentAmps: 10.0},
	}
}

// DemoAlerts are seed entries shown after any live alert. Their timestamps are
// fixed text, not wall-clock times.
func DemoAlerts() []domain.Alert {
	return []domain.Alert{
		{ID: 1, Message: "Penggunaan listrik melebihi batas normal", Severity: domain.SeverityWarning, Time: "10:30 AM"},
		{ID: 2, Message: "AC ruang tengah menyala terus menerus", Severity: domain.SeverityInfo, Time: "09:15 AM"},
	}
}

func BackendInfo() domain.BackendInfo {
	return domain.BackendInfo{
		Endpoints: []domain.Endpoint{
			{Method: "GET", Path: "/api/energy", Description: "Get current energy data"},
			{Method: "WS", Path: "/ws/energy", Description: "WebSocket for real-time updates"},
		},
		SystemStatus:     "online",
		LastUpdate:       "2025-11-20 10:30:15",
		ConnectedDevices: 1,
	}
}

func Tips() []string {
	return []string{
		"Matikan perangkat elektronik saat tidak digunakan",
		"Gunakan lampu LED untuk menghemat listrik",
		"Atur suhu AC antara 24-26°C untuk efisiensi maksimal",
		"Gunakan timer untuk perangkat yang tidak perlu menyala 24 jam",
	}
}
