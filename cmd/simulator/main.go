package main

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/config"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/energy"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

type Reading struct {
	MeterID   string    `json:"meter_id"`
	Timestamp time.Time `json:"timestamp"`
	Voltage   float64   `json:"voltage"`
	Current   float64   `json:"current"`
	PowerW    float64   `json:"power_w"`
	TotalKWh  float64   `json:"total_kwh"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID("home-energy-simulator-" + uuid.NewString()[:8])
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	interval := config.SimulatorInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	total := simulation.TotalConsumptionKWh
	topic := config.MQTTTopic()
	log.Info().Str("topic", topic).Dur("interval", interval).Msg("simulator publishing")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("simulation done")
			return
		case now := <-ticker.C:
			r := next(now, total, interval)
			total = r.TotalKWh
			payload, _ := json.Marshal(r)
			token := client.Publish(topic, 0, false, payload)
			token.Wait()
			if err := token.Error(); err != nil {
				log.Error().Err(err).Msg("publish failed")
			}
		}
	}
}

// next jitters around the simulated draw and accumulates the meter total.
func next(now time.Time, total float64, interval time.Duration) Reading {
	power := simulation.CurrentUsageWatts * (0.8 + rand.Float64()*0.5)
	voltage := simulation.Voltage - 5 + rand.Float64()*10
	return Reading{
		MeterID:   config.MeterID(),
		Timestamp: now,
		Voltage:   energy.Round2(voltage),
		Current:   energy.CurrentAmps(power, voltage),
		PowerW:    energy.Round2(power),
		TotalKWh:  total + power*interval.Hours()/1000,
	}
}
