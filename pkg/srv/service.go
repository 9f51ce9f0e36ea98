package srv

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/insurebot/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service, waits for ctx to end or for one of them to fail,
// then shuts all of them down in order. The first start error is returned.
func Run(ctx context.Context, services ...Service) error {
	logger := log.FromCtx(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for _, service := range services {
		g.Go(func() error {
			if err := service.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%T failed to start: %w", service, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx := context.WithoutCancel(gctx)
		for _, service := range services {
			if err := service.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msgf("%T failed to shutdown", service)
			}
		}
		return nil
	})

	return g.Wait()
}
