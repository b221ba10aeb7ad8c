package processor

import (
	"context"
)

// Next advances a stage chain. Every processor wraps the next one and
// may short circuit, decorate the context or guarantee post work.
type Next func(ctx context.Context, stageContext StageContext) (StageContext, error)

type Bootstraper interface {
	Bootstrap(next Next) (Next, error)
}

// Chain bootstraps the processors back to front into a single entrypoint.
// The first processor ends up outermost.
func Chain(processors ...Bootstraper) (Next, error) {
	next := func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	}

	for i := len(processors) - 1; i >= 0; i-- {
		var err error
		next, err = processors[i].Bootstrap(next)
		if err != nil {
			return nil, err
		}
	}

	return next, nil
}

// Teardown is run scoped cleanup registered by processors, executed by
// the caller once the run ends.
type Teardown func(ctx context.Context) error
