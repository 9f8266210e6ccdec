// Package pipeline drives one snapshot refresh cycle end to end: build the
// snapshot, replace the artifact on disk, mirror the result into persistence,
// and record run metrics. Cycles never overlap; each one starts from scratch.
package pipeline

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketsnap/internal/metrics"
	"marketsnap/pkg/artifact"
	marketpkg "marketsnap/pkg/market"
)

const (
	defaultRunTimeout      = 5 * time.Minute
	defaultRefreshInterval = 15 * time.Minute
)

// Entry status labels. These coincide with the entry error markers so the
// artifact and the metrics tell the same story, with provider error text
// folded into a single bounded label.
const (
	statusOK          = "ok"
	statusNoData      = "no_data"
	statusNoClose     = "no_close_prices"
	statusUnavailable = "unavailable"
)

// Config carries the pipeline collaborators. Persistence and Metrics may be
// nil; the runner then degrades to artifact-only operation.
type Config struct {
	Builder     *marketpkg.Builder
	Artifact    *artifact.Writer
	Persistence marketpkg.Persistence
	Metrics     *metrics.Collector
	RunTimeout  time.Duration
}

// Runner executes refresh cycles sequentially. It keeps no state between
// runs: every cycle re-fetches history for the full instrument list.
type Runner struct {
	builder     *marketpkg.Builder
	artifact    *artifact.Writer
	persistence marketpkg.Persistence
	metrics     *metrics.Collector
	timeout     time.Duration
}

func NewRunner(cfg Config) *Runner {
	timeout := cfg.RunTimeout
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}
	return &Runner{
		builder:     cfg.Builder,
		artifact:    cfg.Artifact,
		persistence: cfg.Persistence,
		metrics:     cfg.Metrics,
		timeout:     timeout,
	}
}

// RunOnce executes a single refresh cycle under the per-run budget. The
// artifact is only replaced when the build produced a snapshot, so a
// cancelled or failed run leaves the previous file in place.
func (r *Runner) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	snapshot, err := r.builder.Build(runCtx)
	if err == nil {
		err = r.artifact.Write(snapshot)
	}
	elapsed := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordRun(elapsed, err)
	}
	if err != nil {
		if ctx.Err() == nil {
			logx.WithContext(ctx).Errorf("pipeline: refresh failed after %s: %v", elapsed.Round(time.Millisecond), err)
		}
		return err
	}

	statuses := make(map[string]int, 4)
	for _, entry := range snapshot.Items {
		status := entryStatus(entry)
		statuses[status]++
		if r.metrics != nil {
			r.metrics.RecordEntry(status)
		}
	}

	if r.persistence != nil {
		if perr := r.persistence.RecordSnapshot(runCtx, snapshot); perr != nil {
			logx.WithContext(ctx).Errorf("pipeline: mirror snapshot: %v", perr)
		}
	}

	logx.WithContext(ctx).Infof("pipeline: refreshed %d instruments in %s (ok=%d no_data=%d no_close_prices=%d unavailable=%d) -> %s",
		len(snapshot.Items), elapsed.Round(time.Millisecond),
		statuses[statusOK], statuses[statusNoData], statuses[statusNoClose], statuses[statusUnavailable],
		r.artifact.Path())
	return nil
}

// RunLoop refreshes immediately, then on every interval tick until the
// context is cancelled. Run errors are already logged and counted, so the
// loop only decides whether to keep going.
func (r *Runner) RunLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	_ = r.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.RunOnce(ctx)
		}
	}
}

// entryStatus folds an entry's error marker into the bounded label set.
// Anything that is not a known marker is an integration failure whose text
// must not leak into label values.
func entryStatus(entry marketpkg.Entry) string {
	switch entry.Error {
	case "":
		return statusOK
	case statusNoData:
		return statusNoData
	case statusNoClose:
		return statusNoClose
	default:
		return statusUnavailable
	}
}
