package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cbwatch/thundercloud-alerts/internal/geo"
	"github.com/cbwatch/thundercloud-alerts/internal/models"
	"github.com/cbwatch/thundercloud-alerts/internal/observability"
)

// PointSource is the provider boundary; *Client implements it in production.
type PointSource interface {
	FetchBatch(ctx context.Context, points []geo.Point) ([]models.IndicatorSet, error)
	FetchPoint(ctx context.Context, p geo.Point) (models.IndicatorSet, error)
}

// Fetcher drives chunked batch retrieval with layered failure recovery:
// a failed batch chunk falls back to sequential per-point calls, and a failed
// per-point call yields neutral defaults. Every requested coordinate always
// gets a result, in input order.
type Fetcher struct {
	src        PointSource
	chunkSize  int
	chunkDelay time.Duration // between batch chunks
	callDelay  time.Duration // between fallback per-point calls
	clock      clockwork.Clock
	metrics    *observability.Metrics
}

func NewFetcher(src PointSource, chunkSize int, chunkDelay, callDelay time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		src:        src,
		chunkSize:  chunkSize,
		chunkDelay: chunkDelay,
		callDelay:  callDelay,
		clock:      clock,
		metrics:    metrics,
	}
}

// FetchAll retrieves indicators for all points. It never fails: chunks are
// processed sequentially (backpressure against the provider's rate limit) and
// errors degrade chunk by chunk, then point by point, to neutral defaults.
// len(result) == len(points) always holds.
func (f *Fetcher) FetchAll(ctx context.Context, points []geo.Point) []models.IndicatorSet {
	results := make([]models.IndicatorSet, 0, len(points))

	start := f.clock.Now()
	for offset := 0; offset < len(points); offset += f.chunkSize {
		end := min(offset+f.chunkSize, len(points))
		chunk := points[offset:end]

		if offset > 0 {
			if !f.sleep(ctx, f.chunkDelay) {
				// Context ended mid-cycle; pad the rest so positional
				// association survives.
				return f.padRemainder(results, len(points))
			}
		}

		batch, err := f.src.FetchBatch(ctx, chunk)
		if err != nil {
			f.metrics.UpstreamRequests.WithLabelValues("batch", "error").Inc()
			slog.Warn("batch fetch failed, falling back to per-point calls",
				"chunk_start", offset, "chunk_size", len(chunk), "error", err)
			results = append(results, f.fallbackChunk(ctx, chunk)...)
			continue
		}
		f.metrics.UpstreamRequests.WithLabelValues("batch", "success").Inc()
		results = append(results, batch...)
	}
	f.metrics.BatchFetchDuration.Observe(f.clock.Since(start).Seconds())

	return results
}

// fallbackChunk fetches one point at a time with a small inter-call delay.
// Individual failures become neutral defaults; remaining points still run.
func (f *Fetcher) fallbackChunk(ctx context.Context, chunk []geo.Point) []models.IndicatorSet {
	results := make([]models.IndicatorSet, 0, len(chunk))
	for i, p := range chunk {
		if i > 0 {
			if !f.sleep(ctx, f.callDelay) {
				return f.padRemainder(results, len(chunk))
			}
		}
		ind, err := f.src.FetchPoint(ctx, p)
		if err != nil {
			f.metrics.UpstreamRequests.WithLabelValues("single", "error").Inc()
			f.metrics.NeutralSubstitutions.Inc()
			slog.Warn("point fetch failed, substituting neutral defaults",
				"latitude", p.Latitude, "longitude", p.Longitude, "error", err)
			results = append(results, models.DefaultIndicators())
			continue
		}
		f.metrics.UpstreamRequests.WithLabelValues("single", "success").Inc()
		results = append(results, ind)
	}
	return results
}

func (f *Fetcher) padRemainder(results []models.IndicatorSet, total int) []models.IndicatorSet {
	for len(results) < total {
		f.metrics.NeutralSubstitutions.Inc()
		results = append(results, models.DefaultIndicators())
	}
	return results
}

// sleep waits d or returns false if the context ends first.
func (f *Fetcher) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-f.clock.After(d):
		return true
	}
}
