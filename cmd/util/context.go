package util

import (
	"context"

	"github.com/gridlab/gridclient/pkg/config/types"
)

type contextKey struct {
	name string
}

var configKey = contextKey{name: "context key for storing the resolved client config"}

func ContextWithConfig(ctx context.Context, cfg types.ClientConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// GetConfig returns the configuration resolved by the root command.
func GetConfig(ctx context.Context) (types.ClientConfig, bool) {
	cfg, ok := ctx.Value(configKey).(types.ClientConfig)
	return cfg, ok
}
