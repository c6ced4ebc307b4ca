package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
)

var ErrNoReadings = errors.New("no readings stored")

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) InsertReading(ctx context.Context, rd *domain.Reading) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO readings(meter_id, timestamp, voltage, current_amps, power_watts, total_kwh)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		rd.MeterID, rd.Timestamp, rd.Voltage, rd.CurrentAmps, rd.PowerWatts, rd.TotalKWh,
	).Scan(&rd.ID)
}

func (r *Repos) LatestReading(ctx context.Context) (domain.Reading, error) {
	var out domain.Reading
	err := r.db.GetContext(ctx, &out,
		`SELECT id, meter_id, timestamp, voltage, current_amps, power_watts, total_kwh
		 FROM readings ORDER BY timestamp DESC, id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reading{}, ErrNoReadings
	}
	return out, err
}

func (r *Repos) ReadingsSince(ctx context.Context, since time.Time) ([]domain.Reading, error) {
	var out []domain.Reading
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, meter_id, timestamp, voltage, current_amps, power_watts, total_kwh
		 FROM readings WHERE timestamp >= $1 ORDER BY timestamp`, since)
	return out, err
}
