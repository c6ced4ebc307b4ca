package dashboard

import (
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/service"
)

// Update is the live part of the page pushed over the websocket.
type Update struct {
	Clock             string          `json:"clock"`
	HomeName          string          `json:"home_name"`
	CurrentUsageWatts float64         `json:"current_usage_watts"`
	Voltage           float64         `json:"voltage"`
	CurrentAmps       float64         `json:"current_amps"`
	TotalKWh          float64         `json:"total_kwh"`
	MonthlyCost       string          `json:"monthly_cost"`
	CostPerKWh        float64         `json:"cost_per_kwh"`
	PowerLimitWatts   float64         `json:"power_limit_watts"`
	IsOverLimit       bool            `json:"is_over_limit"`
	Alerts            []domain.Alert  `json:"alerts"`
	Devices           []domain.Device `json:"devices"`
	SelectedDevice    *domain.Device  `json:"selected_device,omitempty"`
	DarkMode          bool            `json:"dark_mode"`
}

func newUpdate(ov *service.Overview, v View) *Update {
	u := &Update{
		Clock:             v.Now.Format(clockLayout),
		HomeName:          ov.HomeName,
		CurrentUsageWatts: ov.Snapshot.CurrentUsageWatts,
		Voltage:           ov.Snapshot.Voltage,
		CurrentAmps:       ov.CurrentAmps,
		TotalKWh:          ov.Snapshot.TotalConsumptionKWh,
		MonthlyCost:       ov.MonthlyCostText,
		CostPerKWh:        ov.Settings.CostPerKWh,
		PowerLimitWatts:   ov.Settings.PowerLimitWatts,
		IsOverLimit:       ov.IsOverLimit,
		Alerts:            ov.Alerts,
		Devices:           ov.Devices,
		DarkMode:          v.DarkMode,
	}
	for i := range ov.Devices {
		if ov.Devices[i].ID == v.SelectedDevice {
			d := ov.Devices[i]
			u.SelectedDevice = &d
			break
		}
	}
	return u
}
