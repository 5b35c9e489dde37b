package tornstats

import (
	"context"

	"brotherowl-backend/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("lib.scrapers.tornstats")
var meter = telemetry.Meter("lib.scrapers.tornstats")

var cacheHits, _ = meter.Int64Counter("tornstats.cache.hits")
var cacheMisses, _ = meter.Int64Counter("tornstats.cache.misses")
var strategyOutcomes, _ = meter.Int64Counter("tornstats.strategy.outcomes")

type outcome string

const (
	outcomeHit   outcome = "hit"
	outcomeMiss  outcome = "miss"
	outcomeFault outcome = "fault"
)

func recordOutcome(ctx context.Context, strategy string, result outcome) {
	strategyOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("outcome", string(result)),
	))
}
