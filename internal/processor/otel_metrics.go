package processor

import (
	"context"
	"time"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func WithOtelMetrics(meter metric.Meter) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		if meter == nil {
			return nil
		}

		runs, err := meter.Int64Counter("pairbench.stage.runs")
		if err != nil {
			return nil
		}

		duration, err := meter.Float64Histogram("pairbench.stage.duration", metric.WithUnit("s"))
		if err != nil {
			return nil
		}

		return &OtelMetrics{
			stageName: spec.Name,
			runs:      runs,
			duration:  duration,
		}
	}
}

type OtelMetrics struct {
	stageName v1beta1.StageName
	runs      metric.Int64Counter
	duration  metric.Float64Histogram
}

func (s *OtelMetrics) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		start := time.Now()
		stageContext, err := next(ctx, stageContext)

		status := v1beta1.StageStatusSucceeded
		if err != nil {
			status = v1beta1.StageStatusFailed
		}

		attributes := metric.WithAttributes(
			attribute.String("stage", string(s.stageName)),
			attribute.String("status", string(status)),
		)

		s.runs.Add(ctx, 1, attributes)
		s.duration.Record(ctx, time.Since(start).Seconds(), attributes)

		return stageContext, err
	}, nil
}
