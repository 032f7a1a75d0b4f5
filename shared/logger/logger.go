package logger

import (
	"context"
	"hostel/config"
	"hostel/shared/constant"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// UseJSON switches the global logger to plain JSON lines, used outside development.
func UseJSON(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvDevelopment {
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.App.Name).Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}

// FromContext returns the global logger enriched with the request and operator carried by ctx.
func FromContext(ctx context.Context) *zerolog.Logger {
	logCtx := log.Logger.With()

	if requestID, ok := ctx.Value(constant.ContextKeyRequestID).(string); ok && requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	if userID, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && userID != "" {
		logCtx = logCtx.Str("user_id", userID)
	}

	l := logCtx.Logger()

	return &l
}
