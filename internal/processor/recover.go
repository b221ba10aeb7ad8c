package processor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

func WithRecover() ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		return &Recover{
			stageName: spec.Name,
		}
	}
}

type Recover struct {
	stageName v1beta1.StageName
}

func (s *Recover) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (out StageContext, err error) {
		out = stageContext
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in stage `%s`: %#v\n trace:\n%s", s.stageName, r, debug.Stack())
			}
		}()

		out, err = next(ctx, stageContext)
		return
	}, nil
}
