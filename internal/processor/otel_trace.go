package processor

import (
	"context"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func WithOtelTrace(tracer trace.Tracer) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		if tracer == nil {
			return nil
		}

		return &OtelTrace{
			stageName: spec.Name,
			tracer:    tracer,
		}
	}
}

type OtelTrace struct {
	stageName v1beta1.StageName
	tracer    trace.Tracer
}

func (s *OtelTrace) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		ctx, span := s.tracer.Start(ctx, string(s.stageName), trace.WithAttributes(
			attribute.String("pairbench.stage", string(s.stageName)),
			attribute.String("pairbench.ref", stageContext.Ref),
		))
		defer span.End()

		stageContext, err := next(ctx, stageContext)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return stageContext, err
	}, nil
}
