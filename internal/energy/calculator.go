// Package energy derives the dashboard's computed figures from a snapshot and
// the user's settings. Everything here is pure.
package energy

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

// AlertTimeLayout matches the id-ID locale clock format.
const AlertTimeLayout = "15.04.05"

const overLimitAlertID = 0

// Input is the slice of snapshot and settings the calculator reads.
type Input struct {
	CurrentUsageWatts   float64
	PowerLimitWatts     float64
	TotalConsumptionKWh float64
	CostPerKWh          float64
}

// NewInput takes the live figures from snap and the user figures from s.
func NewInput(snap domain.EnergySnapshot, s domain.Settings) Input {
	return Input{
		CurrentUsageWatts:   snap.CurrentUsageWatts,
		PowerLimitWatts:     s.PowerLimitWatts,
		TotalConsumptionKWh: snap.TotalConsumptionKWh,
		CostPerKWh:          s.CostPerKWh,
	}
}

// Result holds the derived figures for one snapshot.
type Result struct {
	IsOverLimit bool           `json:"is_over_limit"`
	MonthlyCost float64        `json:"monthly_cost"`
	Alerts      []domain.Alert `json:"alerts"`
}

// Compute is recomputed from scratch on every call; nothing carries over
// between invocations.
func Compute(in Input, now time.Time) Result {
	return Result{
		IsOverLimit: IsOverLimit(in.CurrentUsageWatts, in.PowerLimitWatts),
		MonthlyCost: MonthlyCost(in.TotalConsumptionKWh, in.CostPerKWh),
		Alerts:      Alerts(in.CurrentUsageWatts, in.PowerLimitWatts, now),
	}
}

// IsOverLimit uses a strict comparison: usage equal to the limit is fine.
func IsOverLimit(usageWatts, limitWatts float64) bool {
	return usageWatts > limitWatts
}

// MonthlyCost rounds half away from zero to two decimals.
func MonthlyCost(totalKWh, costPerKWh float64) float64 {
	return Round2(totalKWh * costPerKWh)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatCost always prints two decimals, e.g. "41638.49".
func FormatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Alerts puts the live over-limit alert, when there is one, ahead of the demo
// alerts.
func Alerts(usageWatts, limitWatts float64, now time.Time) []domain.Alert {
	demo := simulation.DemoAlerts()
	if !IsOverLimit(usageWatts, limitWatts) {
		return demo
	}
	out := make([]domain.Alert, 0, len(demo)+1)
	out = append(out, OverLimitAlert(usageWatts, limitWatts, now))
	return append(out, demo...)
}

// OverLimitAlert is the danger alert shown while usage exceeds the limit,
// stamped with now in AlertTimeLayout.
func OverLimitAlert(usageWatts, limitWatts float64, now time.Time) domain.Alert {
	return domain.Alert{
		ID:       overLimitAlertID,
		Message:  fmt.Sprintf("⚠️ Daya saat ini (%sW) melebihi batas (%sW)!", formatWatts(usageWatts), formatWatts(limitWatts)),
		Severity: domain.SeverityDanger,
		Time:     now.Format(AlertTimeLayout),
	}
}

func formatWatts(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// ActiveLoadWatts sums the rated wattage of the devices that are switched on.
func ActiveLoadWatts(devices []domain.Device) float64 {
	var total float64
	for _, d := range devices {
		if d.Active() {
			total += d.Wattage
		}
	}
	return total
}

// CurrentAmps returns 0 when the voltage is not positive.
func CurrentAmps(watts, volts float64) float64 {
	if volts <= 0 {
		return 0
	}
	return Round2(watts / volts)
}

// FilterBySeverity keeps alerts of sev. An empty sev keeps everything.
func FilterBySeverity(alerts []domain.Alert, sev domain.Severity) []domain.Alert {
	if sev == "" {
		return alerts
	}
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity == sev {
			out = append(out, a)
		}
	}
	return out
}
