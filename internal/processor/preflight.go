package processor

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
)

type Dialer func(ctx context.Context, network, address string) (net.Conn, error)

func DefaultDialer() Dialer {
	d := &net.Dialer{Timeout: 5 * time.Second}
	return d.DialContext
}

func WithPreflight(dial Dialer, backoff time.Duration, maxRetries uint64) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		if dial == nil {
			return nil
		}

		return &Preflight{
			dial:       dial,
			backoff:    backoff,
			maxRetries: maxRetries,
		}
	}
}

type Preflight struct {
	dial       Dialer
	backoff    time.Duration
	maxRetries uint64
}

// Bootstrap verifies both host role endpoints accept connections on the
// ssh port before the driver is started. An endpoint which stays
// unreachable is a precondition failure, the driver is not invoked.
func (s *Preflight) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		port := strconv.Itoa(stageContext.Material.Port)

		for _, host := range []string{stageContext.Material.ServerHost, stageContext.Material.ClientHost} {
			address := net.JoinHostPort(host, port)

			err := retry.Do(ctx, retry.WithMaxRetries(s.maxRetries, retry.NewConstant(s.backoff)), func(ctx context.Context) error {
				conn, err := s.dial(ctx, "tcp", address)
				if err != nil {
					return retry.RetryableError(err)
				}

				return conn.Close()
			})

			if err != nil {
				return stageContext, fmt.Errorf("host %s is not reachable: %w", address, err)
			}
		}

		return next(ctx, stageContext)
	}, nil
}
