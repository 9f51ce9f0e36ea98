package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/log"
)

type validator interface {
	Validate() error
}

// load parses T from the process environment, or from opts.Environment when given.
// Every failure is reported as core.ErrStartupConfig.
func load[T any](opts ...env.Options) (*T, error) {
	c := new(T)

	var o env.Options
	if len(opts) > 0 {
		o = opts[0]
	}

	if err := env.ParseWithOptions(c, o); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStartupConfig, err)
	}

	if v, ok := any(c).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrStartupConfig, err)
		}
	}
	return c, nil
}

func mustLoad[T any](ctx context.Context, name string) *T {
	c, err := load[T]()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msgf("failed to parse %s config", name)
	}
	return c
}
