package processor

import (
	"context"
	"errors"
	"time"
)

var ErrTimeout = errors.New("stage timed out")

func WithTimeout() ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		if spec.Timeout == 0 {
			return nil
		}

		return &Timeout{
			timeout: spec.Timeout,
		}
	}
}

type Timeout struct {
	timeout time.Duration
}

func (s *Timeout) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		timeoutCtx, cancel := context.WithTimeoutCause(ctx, s.timeout, ErrTimeout)
		defer cancel()

		stageContext, err := next(timeoutCtx, stageContext)
		if err != nil && errors.Is(context.Cause(timeoutCtx), ErrTimeout) {
			err = ErrTimeout
		}

		return stageContext, err
	}, nil
}
