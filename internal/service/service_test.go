package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/repository"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

var fixedNow = time.Date(2025, 11, 20, 10, 30, 15, 0, time.UTC)

func clock() time.Time { return fixedNow }

type stubSource struct {
	snap domain.EnergySnapshot
	err  error
}

func (s *stubSource) Snapshot(_ context.Context, _ time.Time) (domain.EnergySnapshot, error) {
	return s.snap, s.err
}

type stubNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *stubNotifier) SendOverLimitAlert(_ context.Context, _ string, _, _ float64, _ time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

type stubReports struct {
	key  string
	data []byte
}

func (r *stubReports) UploadReport(_ context.Context, key string, data []byte) (string, error) {
	r.key, r.data = key, data
	return "https://example/" + key, nil
}

func newEnergy(src SnapshotSource, n Notifier, r ReportStore) (*EnergyService, *SettingsStore) {
	settings := NewSettingsStore(simulation.DefaultSettings())
	return &EnergyService{source: src, settings: settings, notifier: n, reports: r, now: clock}, settings
}

func TestNew_StaticByDefault(t *testing.T) {
	svcs := New(Options{Settings: simulation.DefaultSettings(), Now: clock})
	assert.Nil(t, svcs.Repos)
	assert.Nil(t, svcs.Readings)

	ov, err := svcs.Energy.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rumahku", ov.HomeName)
	assert.Equal(t, 3200.0, ov.Snapshot.CurrentUsageWatts)
	assert.Equal(t, "41638.49", ov.MonthlyCostText)
	assert.False(t, ov.IsOverLimit)
	assert.Len(t, ov.Alerts, 2)
	assert.Len(t, ov.Devices, 6)
	assert.Equal(t, 3400.0, ov.ActiveLoadWatts)
	assert.Equal(t, fixedNow, ov.GeneratedAt)
}

func TestSettingsStore_Update(t *testing.T) {
	store := NewSettingsStore(simulation.DefaultSettings())

	next := domain.Settings{HomeName: "Villa", CostPerKWh: 1444.7, PowerLimitWatts: 2200}
	got, err := store.Update(next)
	require.NoError(t, err)
	assert.Equal(t, next, got)
	assert.Equal(t, next, store.Get())

	got, err = store.Update(domain.Settings{HomeName: "Villa", CostPerKWh: -5, PowerLimitWatts: 2200})
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
	assert.Equal(t, next, got)
	assert.Equal(t, next, store.Get())
}

func TestOverview_LimitChangeFlipsAlerts(t *testing.T) {
	svc, settings := newEnergy(StaticSource{}, nil, nil)
	ctx := context.Background()

	ov, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.False(t, ov.IsOverLimit)
	assert.Len(t, ov.Alerts, 2)

	s := settings.Get()
	s.PowerLimitWatts = 3000
	_, err = settings.Update(s)
	require.NoError(t, err)

	ov, err = svc.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, ov.IsOverLimit)
	require.Len(t, ov.Alerts, 3)
	assert.Equal(t, domain.SeverityDanger, ov.Alerts[0].Severity)
	assert.Equal(t, "10.30.15", ov.Alerts[0].Time)
}

func TestOverview_NotifiesOncePerRisingEdge(t *testing.T) {
	src := &stubSource{snap: domain.EnergySnapshot{TotalConsumptionKWh: 10, CurrentUsageWatts: 6000, Voltage: 220}}
	n := &stubNotifier{}
	svc, _ := newEnergy(src, n, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Overview(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, n.calls)

	src.snap.CurrentUsageWatts = 1000
	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	src.snap.CurrentUsageWatts = 7000
	_, err = svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n.calls)
}

func TestOverview_NotifierErrorDoesNotFail(t *testing.T) {
	src := &stubSource{snap: domain.EnergySnapshot{CurrentUsageWatts: 6000, Voltage: 220}}
	svc, _ := newEnergy(src, &stubNotifier{err: errors.New("sns down")}, nil)
	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, ov.IsOverLimit)
}

func TestOverview_SourceError(t *testing.T) {
	boom := errors.New("db gone")
	svc, _ := newEnergy(&stubSource{err: boom}, nil, nil)
	_, err := svc.Overview(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAlerts_FilterBySeverity(t *testing.T) {
	svc, _ := newEnergy(StaticSource{}, nil, nil)
	alerts, err := svc.Alerts(context.Background(), domain.SeverityWarning)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 1, alerts[0].ID)
}

func TestExportReport(t *testing.T) {
	svc, _ := newEnergy(StaticSource{}, nil, nil)
	_, err := svc.ExportReport(context.Background())
	assert.ErrorIs(t, err, ErrCloudDisabled)

	reports := &stubReports{}
	svc, _ = newEnergy(StaticSource{}, nil, reports)
	rep, err := svc.ExportReport(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^overview/2025-11-20/[0-9a-f-]{36}\.json$`, rep.Key)
	assert.Equal(t, "https://example/"+rep.Key, rep.URL)
	assert.Contains(t, string(reports.data), `"monthly_cost":41638.49`)
}

type stubLatest struct {
	rd  domain.Reading
	err error
}

func (s stubLatest) LatestReading(context.Context) (domain.Reading, error) { return s.rd, s.err }

func TestReadingSource(t *testing.T) {
	ctx := context.Background()

	src := ReadingSource{Readings: stubLatest{err: repository.ErrNoReadings}, Fallback: StaticSource{}}
	snap, err := src.Snapshot(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, simulation.Snapshot(fixedNow), snap)

	src.Readings = stubLatest{rd: domain.Reading{PowerWatts: 4100, Voltage: 225, TotalKWh: 30, Timestamp: fixedNow}}
	snap, err = src.Snapshot(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, domain.EnergySnapshot{TotalConsumptionKWh: 30, CurrentUsageWatts: 4100, Voltage: 225, Timestamp: fixedNow}, snap)

	src.Readings = stubLatest{rd: domain.Reading{PowerWatts: 900}}
	snap, err = src.Snapshot(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, simulation.TotalConsumptionKWh, snap.TotalConsumptionKWh)
	assert.Equal(t, float64(simulation.Voltage), snap.Voltage)

	src.Readings = stubLatest{err: errors.New("conn refused")}
	_, err = src.Snapshot(ctx, fixedNow)
	assert.Error(t, err)
}

type stubHistory struct {
	rds   []domain.Reading
	err   error
	since time.Time
}

func (s *stubHistory) ReadingsSince(_ context.Context, since time.Time) ([]domain.Reading, error) {
	s.since = since
	return s.rds, s.err
}

func TestChart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEnergy(StaticSource{}, nil, nil)

	samples, err := svc.Chart(ctx)
	require.NoError(t, err)
	assert.Equal(t, simulation.HourlySamples(), samples)

	empty := &stubHistory{}
	svc.history = empty
	samples, err = svc.Chart(ctx)
	require.NoError(t, err)
	assert.Equal(t, simulation.HourlySamples(), samples)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), empty.since)

	at := func(h, m int) time.Time { return time.Date(2025, 11, 20, h, m, 0, 0, time.UTC) }
	svc.history = &stubHistory{rds: []domain.Reading{
		{Timestamp: at(8, 10), PowerWatts: 2000, Voltage: 220, CurrentAmps: 9},
		{Timestamp: at(9, 50), PowerWatts: 3000, Voltage: 230, CurrentAmps: 13},
		{Timestamp: at(10, 5), PowerWatts: 4000, Voltage: 220, CurrentAmps: 18.18},
	}}
	samples, err = svc.Chart(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.HourlySample{
		{Time: "08:00", PowerWatts: 2500, Voltage: 225, CurrentAmps: 11},
		{Time: "10:00", PowerWatts: 4000, Voltage: 220, CurrentAmps: 18.18},
	}, samples)

	svc.history = &stubHistory{err: errors.New("conn refused")}
	_, err = svc.Chart(ctx)
	assert.Error(t, err)
}
