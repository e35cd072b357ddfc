// Package orchestrator wires the detection pipeline together and owns the
// scheduled jobs: cache refresh, detect-and-notify, and the daily retention
// sweep. All collaborators are injected so tests can run isolated instances.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cbwatch/thundercloud-alerts/internal/analyzer"
	"github.com/cbwatch/thundercloud-alerts/internal/cache"
	"github.com/cbwatch/thundercloud-alerts/internal/config"
	"github.com/cbwatch/thundercloud-alerts/internal/geo"
	"github.com/cbwatch/thundercloud-alerts/internal/models"
	"github.com/cbwatch/thundercloud-alerts/internal/notify"
	"github.com/cbwatch/thundercloud-alerts/internal/observability"
	"github.com/cbwatch/thundercloud-alerts/internal/repository"
	"github.com/cbwatch/thundercloud-alerts/internal/weather"
	"github.com/cbwatch/thundercloud-alerts/internal/worker"
)

type Orchestrator struct {
	cfg        *config.Config
	observers  repository.ObserverRepository
	cache      *cache.Cache
	fetcher    *weather.Fetcher
	dispatcher *notify.Dispatcher
	pool       *worker.Pool
	quiet      QuietWindow
	clock      clockwork.Clock
	metrics    *observability.Metrics
	wg         sync.WaitGroup
}

func New(
	cfg *config.Config,
	observers repository.ObserverRepository,
	weatherCache *cache.Cache,
	fetcher *weather.Fetcher,
	dispatcher *notify.Dispatcher,
	pool *worker.Pool,
	clock clockwork.Clock,
	metrics *observability.Metrics,
) (*Orchestrator, error) {
	quiet, err := NewQuietWindow(cfg.QuietHours)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:        cfg,
		observers:  observers,
		cache:      weatherCache,
		fetcher:    fetcher,
		dispatcher: dispatcher,
		pool:       pool,
		quiet:      quiet,
		clock:      clock,
		metrics:    metrics,
	}, nil
}

func (o *Orchestrator) Start(ctx context.Context) {
	o.pool.Start(ctx)

	o.wg.Add(3)
	go o.runJob(ctx, "cache_refresh", o.cfg.Jobs.RefreshInterval, o.RefreshCache)
	go o.runJob(ctx, "detect_notify", o.cfg.Jobs.DetectInterval, o.DetectAndNotify)
	go o.runJob(ctx, "cache_cleanup", o.cfg.Jobs.CleanupInterval, o.RunCleanup)
}

func (o *Orchestrator) Stop() {
	o.wg.Wait()
	o.pool.Stop()
	slog.Info("orchestrator stopped")
}

// runJob runs fn once immediately and then on every tick until ctx ends.
// Overlap with a tardy previous cycle is tolerated: cache writes are
// idempotent overwrites and dedup state is rebuilt per run.
func (o *Orchestrator) runJob(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	defer o.wg.Done()
	slog.Info("starting job", "job", name, "interval", interval)

	ticker := o.clock.NewTicker(interval)
	defer ticker.Stop()

	o.runOnce(ctx, name, fn)

	for {
		select {
		case <-ctx.Done():
			slog.Info("job shutting down", "job", name)
			return
		case <-ticker.Chan():
			o.runOnce(ctx, name, fn)
		}
	}
}

func (o *Orchestrator) runOnce(ctx context.Context, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		o.metrics.JobRuns.WithLabelValues(name, "error").Inc()
		slog.Error("job failed", "job", name, "error", err)
		return
	}
	o.metrics.JobRuns.WithLabelValues(name, "completed").Inc()
}

// InQuietHours reports whether the quiet-hours window covers the current time.
func (o *Orchestrator) InQuietHours() bool {
	quiet := o.quiet.Contains(o.clock.Now())
	if quiet {
		o.metrics.QuietHours.Set(1)
	} else {
		o.metrics.QuietHours.Set(0)
	}
	return quiet
}

// RefreshCache loads active observers, deduplicates their 12-point grids,
// fetches the unique coordinates in chunked batches, and writes both the
// per-coordinate entries and each observer location's directional entry.
func (o *Orchestrator) RefreshCache(ctx context.Context) error {
	if o.InQuietHours() {
		o.metrics.JobRuns.WithLabelValues("cache_refresh", "skipped_quiet_hours").Inc()
		slog.Debug("cache refresh skipped", "reason", "quiet hours")
		return nil
	}

	observers, err := o.observers.ListActive(ctx, o.cfg.Observers.StaleAfter, o.clock.Now())
	if err != nil {
		return err
	}
	if len(observers) == 0 {
		slog.Debug("cache refresh: no active observers")
		return nil
	}

	dedup := geo.DedupTargets(observers)
	o.metrics.CoordinatesDeduped.Observe(float64(len(dedup.Points)))
	slog.Info("cache refresh",
		"observers", len(observers),
		"unique_coordinates", len(dedup.Points),
		"raw_coordinates", len(observers)*len(models.Directions)*len(models.DistancesKM))

	results := o.fetcher.FetchAll(ctx, dedup.Points)

	for i, p := range dedup.Points {
		o.cache.Set(ctx, p.Latitude, p.Longitude, results[i])
	}

	// Redistribute fetched values to every interested observer via the
	// reverse index; association is positional with dedup.Points.
	perObserver := make(map[int]models.DirectionalData)
	for i, key := range dedup.Keys {
		for _, ref := range dedup.Index[key] {
			data, ok := perObserver[ref.ObserverIndex]
			if !ok {
				data = make(models.DirectionalData)
				perObserver[ref.ObserverIndex] = data
			}
			if data[ref.Direction] == nil {
				data[ref.Direction] = make(map[int]models.IndicatorSet)
			}
			data[ref.Direction][ref.DistanceKM] = results[i]
		}
	}

	for idx, data := range perObserver {
		obs := observers[idx]
		o.cache.SetDirectional(ctx, obs.Latitude, obs.Longitude, data)
	}

	return nil
}

// DetectAndNotify evaluates every active observer against the cached
// directional data, falling back to a direct fetch on miss, and fans out
// push notifications through the worker pool.
func (o *Orchestrator) DetectAndNotify(ctx context.Context) error {
	if o.InQuietHours() {
		o.metrics.JobRuns.WithLabelValues("detect_notify", "skipped_quiet_hours").Inc()
		slog.Debug("detection skipped", "reason", "quiet hours")
		return nil
	}

	observers, err := o.observers.ListActive(ctx, o.cfg.Observers.StaleAfter, o.clock.Now())
	if err != nil {
		return err
	}

	notified := 0
	for _, obs := range observers {
		origin := geo.Point{Latitude: obs.Latitude, Longitude: obs.Longitude}

		data, ok := o.cache.GetDirectional(ctx, origin.Latitude, origin.Longitude)
		if !ok {
			data = o.fetchDirectional(ctx, origin)
			o.cache.SetDirectional(ctx, origin.Latitude, origin.Longitude, data)
		}

		assessment := analyzer.Assess(origin, data)
		if len(assessment.Likely) == 0 {
			continue
		}

		notified++
		token := obs.Token
		directions := assessment.Likely
		o.pool.Submit(func(ctx context.Context) error {
			return o.dispatcher.Notify(ctx, token, directions)
		})
	}

	slog.Info("detection complete", "observers", len(observers), "notified", notified)
	return nil
}

// RunCleanup deletes cache entries past the retention window. It runs on its
// own daily schedule, independent of the TTL, and is not quiet-hours gated.
func (o *Orchestrator) RunCleanup(ctx context.Context) error {
	deleted := o.cache.Cleanup(ctx, o.cfg.Cache.Retention, o.cfg.Cache.CleanupBatchSize)
	slog.Info("cache cleanup complete", "deleted", deleted, "retention", o.cfg.Cache.Retention)
	return nil
}

// DirectionalForPoint serves the on-demand HTTP path: cached directional data
// for an arbitrary caller location, fetched and cached on miss.
func (o *Orchestrator) DirectionalForPoint(ctx context.Context, lat, lon float64) models.DirectionalData {
	origin := geo.Point{Latitude: lat, Longitude: lon}
	if data, ok := o.cache.GetDirectional(ctx, lat, lon); ok {
		return data
	}
	data := o.fetchDirectional(ctx, origin)
	o.cache.SetDirectional(ctx, lat, lon, data)
	return data
}

// fetchDirectional fetches an origin's full 12-point grid directly, bypassing
// the dedup table (single-observer path).
func (o *Orchestrator) fetchDirectional(ctx context.Context, origin geo.Point) models.DirectionalData {
	points := make([]geo.Point, 0, len(models.Directions)*len(models.DistancesKM))
	for _, dir := range models.Directions {
		for _, dist := range models.DistancesKM {
			points = append(points, geo.Project(origin, dir, float64(dist)))
		}
	}

	results := o.fetcher.FetchAll(ctx, points)

	data := make(models.DirectionalData, len(models.Directions))
	i := 0
	for _, dir := range models.Directions {
		data[dir] = make(map[int]models.IndicatorSet, len(models.DistancesKM))
		for _, dist := range models.DistancesKM {
			data[dir][dist] = results[i]
			i++
		}
	}
	return data
}
