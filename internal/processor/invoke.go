package processor

import (
	"context"
	"fmt"
	"io"

	"github.com/pairbench/pairbench/internal/driver"
	"github.com/pairbench/pairbench/internal/xio"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

type DriverInvoker interface {
	Invoke(ctx context.Context, params driver.Params, stdout, stderr io.Writer) error
}

func WithInvoke(invoker DriverInvoker, campaign v1beta1.CampaignSpec) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		return &Invoke{
			stageName: spec.Name,
			debug:     spec.Debug,
			invoker:   invoker,
			campaign:  campaign,
		}
	}
}

type Invoke struct {
	stageName v1beta1.StageName
	debug     bool
	invoker   DriverInvoker
	campaign  v1beta1.CampaignSpec
}

// Bootstrap runs the external test driver for this stage and blocks
// until it terminates. The driver's exit status is the stage outcome.
func (s *Invoke) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		params := driver.Params{
			ServerHost: stageContext.Material.ServerHost,
			ClientHost: stageContext.Material.ClientHost,
			Repository: s.campaign.Repository,
			Ref:        stageContext.Ref,
			Libos:      s.campaign.Libos,
			Debug:      s.debug,
			TestUnit:   s.campaign.Tests.Unit,
			TestSystem: s.campaign.Tests.System,
			Delay:      s.campaign.Delay.Duration,
			ServerAddr: s.campaign.Server.Address,
			ClientAddr: s.campaign.Client.Address,
		}

		prefix := []byte(fmt.Sprintf("[%s] ", s.stageName))
		stdout := xio.NewLineWriter(xio.NewPrefixWriter(stageContext.Stdout, prefix))
		stderr := xio.NewLineWriter(xio.NewPrefixWriter(stageContext.Stderr, prefix))

		err := s.invoker.Invoke(ctx, params, stdout, stderr)
		_ = stdout.Flush()
		_ = stderr.Flush()

		if err != nil {
			return stageContext, err
		}

		return next(ctx, stageContext)
	}, nil
}
