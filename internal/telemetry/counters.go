package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// #region counters
// Counters are the tracker's instruments. A nil *Counters records nothing.
type Counters struct {
	reps       metric.Int64Counter
	suppressed metric.Int64Counter
	skipped    metric.Int64Counter
	firings    metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewCounters registers the instruments on meter. Registration errors leave
// the instrument as a no-op.
func NewCounters(meter metric.Meter) *Counters {
	reps, _ := meter.Int64Counter("formcheck.reps",
		metric.WithDescription("Completed repetitions"),
	)
	suppressed, _ := meter.Int64Counter("formcheck.reps.suppressed",
		metric.WithDescription("Returns to start reached before the cooldown elapsed"),
	)
	skipped, _ := meter.Int64Counter("formcheck.frames.skipped",
		metric.WithDescription("Frames skipped for undetected required joints"),
	)
	firings, _ := meter.Int64Counter("formcheck.edge.firings",
		metric.WithDescription("Edge and threshold detector events"),
	)
	duration, _ := meter.Float64Histogram("formcheck.rep.duration",
		metric.WithDescription("Time from entering the target position to returning to start"),
		metric.WithUnit("s"),
	)
	return &Counters{
		reps:       reps,
		suppressed: suppressed,
		skipped:    skipped,
		firings:    firings,
		duration:   duration,
	}
}

// RepCompleted counts one repetition and records its duration.
func (c *Counters) RepCompleted(ctx context.Context, exercise, quality string, seconds float64) {
	if c == nil {
		return
	}
	if c.reps != nil {
		c.reps.Add(ctx, 1, metric.WithAttributes(
			attribute.String("exercise", exercise),
			attribute.String("quality", quality),
		))
	}
	if c.duration != nil {
		c.duration.Record(ctx, seconds, metric.WithAttributes(attribute.String("exercise", exercise)))
	}
}

// RepSuppressed counts one discarded return.
func (c *Counters) RepSuppressed(ctx context.Context, exercise string) {
	if c == nil || c.suppressed == nil {
		return
	}
	c.suppressed.Add(ctx, 1, metric.WithAttributes(attribute.String("exercise", exercise)))
}

// FramesSkipped adds n skipped frames.
func (c *Counters) FramesSkipped(ctx context.Context, exercise string, n int64) {
	if c == nil || c.skipped == nil || n <= 0 {
		return
	}
	c.skipped.Add(ctx, n, metric.WithAttributes(attribute.String("exercise", exercise)))
}

// DetectorFired counts one edge detector event.
func (c *Counters) DetectorFired(ctx context.Context, detector, kind string) {
	if c == nil || c.firings == nil {
		return
	}
	c.firings.Add(ctx, 1, metric.WithAttributes(
		attribute.String("detector", detector),
		attribute.String("kind", kind),
	))
}

// #endregion counters
