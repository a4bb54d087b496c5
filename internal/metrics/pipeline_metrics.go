package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("sdv-studio")

// PipelineMetrics records generation activity. A nil *PipelineMetrics is
// valid and records nothing.
type PipelineMetrics struct {
	stageGenerations  metric.Int64Counter
	stageDuration     metric.Float64Histogram
	cacheHits         metric.Int64Counter
	engineSwitches    metric.Int64Counter
	pipelinesFinished metric.Int64Counter
	pipelineDuration  metric.Float64Histogram
	pipelinesActive   metric.Int64UpDownCounter
	signalsImported   metric.Int64Counter
}

// NewPipelineMetrics registers the instruments on the global meter provider.
func NewPipelineMetrics() (*PipelineMetrics, error) {
	stageGenerations, err := meter.Int64Counter(
		"sdv_studio.stage.generations",
		metric.WithDescription("Stage generations by engine and outcome"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"sdv_studio.stage.duration",
		metric.WithDescription("Time spent generating a stage in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"sdv_studio.stage.cache_hits",
		metric.WithDescription("Stage requests served from the session cache"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	engineSwitches, err := meter.Int64Counter(
		"sdv_studio.engine.switches",
		metric.WithDescription("Generations served by a fallback engine or simulation"),
		metric.WithUnit("{switch}"),
	)
	if err != nil {
		return nil, err
	}

	pipelinesFinished, err := meter.Int64Counter(
		"sdv_studio.pipelines.finished",
		metric.WithDescription("Pipeline runs by final status"),
		metric.WithUnit("{pipeline}"),
	)
	if err != nil {
		return nil, err
	}

	pipelineDuration, err := meter.Float64Histogram(
		"sdv_studio.pipeline.duration",
		metric.WithDescription("Duration of full pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	pipelinesActive, err := meter.Int64UpDownCounter(
		"sdv_studio.pipelines.active",
		metric.WithDescription("Number of pipelines currently running"),
		metric.WithUnit("{pipeline}"),
	)
	if err != nil {
		return nil, err
	}

	signalsImported, err := meter.Int64Counter(
		"sdv_studio.dbc.signals_imported",
		metric.WithDescription("CAN signals imported from DBC uploads"),
		metric.WithUnit("{signal}"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		stageGenerations:  stageGenerations,
		stageDuration:     stageDuration,
		cacheHits:         cacheHits,
		engineSwitches:    engineSwitches,
		pipelinesFinished: pipelinesFinished,
		pipelineDuration:  pipelineDuration,
		pipelinesActive:   pipelinesActive,
		signalsImported:   signalsImported,
	}, nil
}

// RecordStage records one stage request. Cached requests count as cache hits
// and do not record a duration.
func (pm *PipelineMetrics) RecordStage(ctx context.Context, stage, engine, outcome string, cached bool, duration time.Duration) {
	if pm == nil {
		return
	}
	if cached {
		pm.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("engine", engine),
		attribute.String("outcome", outcome),
	)
	pm.stageGenerations.Add(ctx, 1, attrs)
	pm.stageDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordEngineSwitch records a generation served by something other than the
// primary engine.
func (pm *PipelineMetrics) RecordEngineSwitch(ctx context.Context, stage, outcome string) {
	if pm == nil {
		return
	}
	pm.engineSwitches.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordPipelineStarted marks a pipeline as active.
func (pm *PipelineMetrics) RecordPipelineStarted(ctx context.Context) {
	if pm == nil {
		return
	}
	pm.pipelinesActive.Add(ctx, 1)
}

// RecordPipelineFinished records the final status of a pipeline started with
// RecordPipelineStarted.
func (pm *PipelineMetrics) RecordPipelineFinished(ctx context.Context, status string, duration time.Duration) {
	if pm == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	pm.pipelinesFinished.Add(ctx, 1, attrs)
	pm.pipelineDuration.Record(ctx, duration.Seconds(), attrs)
	pm.pipelinesActive.Add(ctx, -1)
}

// RecordSignalsImported records the size of a DBC import.
func (pm *PipelineMetrics) RecordSignalsImported(ctx context.Context, count int) {
	if pm == nil {
		return
	}
	pm.signalsImported.Add(ctx, int64(count))
}
