package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"k8s.io/apimachinery/pkg/runtime"
)

type Interface interface {
	Lookup(ctx context.Context, ref string) (v1beta1.Campaign, error)
}

type storage struct {
	decoder  runtime.Decoder
	handlers []LookupHandler
}

type LookupHandler func(ctx context.Context, ref string) (io.Reader, error)

func New(decoder runtime.Decoder, handlers ...LookupHandler) *storage {
	return &storage{
		decoder:  decoder,
		handlers: handlers,
	}
}

// Lookup resolves ref through the handlers in order and decodes the
// first manifest found into a campaign.
func (s *storage) Lookup(ctx context.Context, ref string) (v1beta1.Campaign, error) {
	to := v1beta1.Campaign{}
	var errs []error

	for _, handler := range s.handlers {
		r, err := handler(ctx, ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		manifest, err := io.ReadAll(r)
		if err != nil {
			return to, err
		}

		if _, _, err := s.decoder.Decode(manifest, nil, &to); err != nil {
			return to, err
		}

		return to, nil
	}

	return to, fmt.Errorf("could not lookup ref: %s: %w", ref, errors.Join(errs...))
}
