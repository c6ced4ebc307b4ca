package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type DeviceStatus string

const (
	DeviceActive   DeviceStatus = "active"
	DeviceInactive DeviceStatus = "inactive"
)

type Device struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Wattage float64      `json:"wattage"`
	Status  DeviceStatus `json:"status"`
	Icon    string       `json:"icon"`
}

func (d Device) Active() bool { return d.Status == DeviceActive }

// Settings is the user-editable part of the dashboard. It lives in memory for
// the lifetime of the API process only.
type Settings struct {
	HomeName        string  `json:"home_name"`
	CostPerKWh      float64 `json:"cost_per_kwh"`
	PowerLimitWatts float64 `json:"power_limit_watts"`
}

// Validate rejects values that would make the cost or limit computations
// meaningless. The returned error wraps ErrInvalidSettings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.HomeName) == "" {
		return fmt.Errorf("%w: home name is required", ErrInvalidSettings)
	}
	if !positive(s.CostPerKWh) {
		return fmt.Errorf("%w: cost per kWh must be a positive number, got %v", ErrInvalidSettings, s.CostPerKWh)
	}
	if !positive(s.PowerLimitWatts) {
		return fmt.Errorf("%w: power limit must be a positive number, got %v", ErrInvalidSettings, s.PowerLimitWatts)
	}
	return nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

type EnergySnapshot struct {
	TotalConsumptionKWh float64   `json:"total_consumption_kwh"`
	CurrentUsageWatts   float64   `json:"current_usage_watts"`
	Voltage             float64   `json:"voltage"`
	Timestamp           time.Time `json:"timestamp"`
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

type Alert struct {
	ID       int      `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Time     string   `json:"time"`
}

// HourlySample is one point of the 24-hour power chart.
type HourlySample struct {
	Time        string  `json:"time"`
	PowerWatts  float64 `json:"power_watts"`
	Voltage     float64 `json:"voltage"`
	CurrentAmps float64 `json:"current_amps"`
}

// Reading is a meter reading as stored by the ingestor.
type Reading struct {
	ID          int64     `db:"id" json:"id"`
	MeterID     string    `db:"meter_id" json:"meter_id"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Voltage     float64   `db:"voltage" json:"voltage"`
	CurrentAmps float64   `db:"current_amps" json:"current_amps"`
	PowerWatts  float64   `db:"power_watts" json:"power_watts"`
	TotalKWh    float64   `db:"total_kwh" json:"total_kwh"`
}

type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

type BackendInfo struct {
	Endpoints        []Endpoint `json:"endpoints"`
	SystemStatus     string     `json:"system_status"`
	LastUpdate       string     `json:"last_update"`
	ConnectedDevices int        `json:"connected_devices"`
}
