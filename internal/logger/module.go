package logger

import (
	"log/slog"
	"os"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
)

// Module wires the slog logger at the configured level.
var Module = fx.Provide(newLogger)

type loggerParams struct {
	fx.In

	Config *config.Config
}

func newLogger(p loggerParams) *slog.Logger {
	return newWithWriter(os.Stdout, ParseLevel(p.Config.LogLevel))
}
