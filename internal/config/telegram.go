package config

import (
	"context"

	"github.com/caarlos0/env/v11"
)

type TelegramConfig struct {
	Token   string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID int64  `env:"TELEGRAM_OWNER_ID,required"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	return mustLoad[TelegramConfig](ctx, "Telegram")
}

func LoadTelegramConfig(opts ...env.Options) (*TelegramConfig, error) {
	return load[TelegramConfig](opts...)
}
