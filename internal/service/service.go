package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/config"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/repository"
)

// Notifier delivers over-limit notifications outside the dashboard.
type Notifier interface {
	SendOverLimitAlert(ctx context.Context, home string, usageWatts, limitWatts float64, at time.Time) error
}

// ReportStore keeps exported overviews and hands back a download URL.
type ReportStore interface {
	UploadReport(ctx context.Context, key string, data []byte) (string, error)
}

// Options wires the services. Zero values select the simulated setup.
type Options struct {
	// DB may be nil when readings come from the simulated snapshot.
	DB       *sqlx.DB
	Source   string
	Settings domain.Settings
	Notifier Notifier
	Reports  ReportStore
	Now      func() time.Time
}

// Services bundles what the API and the ingestor use. Repos and Readings
// are nil without a database.
type Services struct {
	Repos    *repository.Repos
	Settings *SettingsStore
	Energy   *EnergyService
	Readings *ReadingService
}

// New reads snapshots from Postgres only when a DB is given and Source is
// "postgres"; otherwise it serves the simulated snapshot.
func New(opts Options) *Services {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var (
		repos   *repository.Repos
		source  SnapshotSource = StaticSource{}
		history historyReader
	)
	if opts.DB != nil {
		repos = repository.New(opts.DB)
		if opts.Source == config.SourcePostgres {
			source = ReadingSource{Readings: repos, Fallback: StaticSource{}}
			history = repos
		}
	}

	settings := NewSettingsStore(opts.Settings)
	svcs := &Services{
		Repos:    repos,
		Settings: settings,
		Energy: &EnergyService{
			source:   source,
			history:  history,
			settings: settings,
			notifier: opts.Notifier,
			reports:  opts.Reports,
			now:      now,
		},
	}
	if repos != nil {
		svcs.Readings = NewReadingService(repos, now)
	}
	return svcs
}
