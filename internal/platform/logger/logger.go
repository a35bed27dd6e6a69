package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New arma el logger del servicio: consola legible en desarrollo, JSON en
// cualquier otro entorno.
func New(app, env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(strings.TrimSpace(env), "development") {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	ctx := logger.Level(lvl).With().Timestamp()
	if app = strings.TrimSpace(app); app != "" {
		ctx = ctx.Str("app", app)
	}
	return ctx.Logger()
}

// NewFromEnv crea el logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - APP_ENV=development|production (default production)
// - APP_NAME (opcional)
func NewFromEnv() zerolog.Logger {
	return New(os.Getenv("APP_NAME"), os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
}
