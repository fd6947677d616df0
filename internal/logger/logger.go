package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/clientrank/internal/config"
	"github.com/kailas-cloud/clientrank/internal/version"
)

// New builds the process logger from the environment and the logging section.
// Logs always go to stderr so the CLI can print results on stdout.
func New(env string, cfg config.LoggingConfig) (*zap.Logger, error) {
	format, err := formatFor(env, cfg.Format)
	if err != nil {
		return nil, err
	}

	// prod keeps production sampling and level whatever the encoding
	var zc zap.Config
	if env == "prod" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Encoding = format
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	zc.InitialFields = map[string]any{
		"service": "clientrank",
		"env":     env,
		"version": version.Version,
	}

	l, err := zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// formatFor picks the encoding: an explicit format wins, otherwise prod
// logs JSON and every other known environment logs console lines.
func formatFor(env, format string) (string, error) {
	switch format {
	case config.LogFormatJSON, config.LogFormatConsole:
		return format, nil
	case "":
	default:
		return "", fmt.Errorf("unknown log format %q", format)
	}
	switch env {
	case "prod":
		return config.LogFormatJSON, nil
	case "local", "dev", "docker", "test":
		return config.LogFormatConsole, nil
	default:
		return "", fmt.Errorf("unknown environment %q for logger", env)
	}
}
