// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"tradevision/internal/config"
)

// NewLogger creates a logger from the application logging configuration.
// Log files rotate under <configDir>/logs/tradevision.log.
func NewLogger(cfg config.LoggingConfig, configDir string) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Join(configDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filepath.Join(logDir, "tradevision.log"),
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithMode adds the active ledger mode to the logger context.
func WithMode(logger zerolog.Logger, mode string) zerolog.Logger {
	return logger.With().Str("mode", mode).Logger()
}

// LogTrade logs a trade ledger mutation.
func LogTrade(logger zerolog.Logger, op, tradeID, symbol, mode string) {
	logger.Info().
		Str("event", "trade").
		Str("op", op).
		Str("trade_id", tradeID).
		Str("symbol", symbol).
		Str("mode", mode).
		Msg("Trade ledger updated")
}

// LogConfirmation logs a time-block condition confirmation.
func LogConfirmation(logger zerolog.Logger, blockID, dateKey, conditionID string) {
	logger.Info().
		Str("event", "confirmation").
		Str("block_id", blockID).
		Str("date", dateKey).
		Str("condition_id", conditionID).
		Msg("Time block confirmed")
}

// LogFlowMatch logs the outcome of a flow-matcher run.
func LogFlowMatch(logger zerolog.Logger, dateKey, policy string, confirmed, matched int) {
	logger.Info().
		Str("event", "flow_match").
		Str("date", dateKey).
		Str("policy", policy).
		Int("confirmed", confirmed).
		Int("matched", matched).
		Msg("Flow match completed")
}

// LogSnapshot logs a snapshot read or write.
func LogSnapshot(logger zerolog.Logger, op, path string, err error) {
	event := logger.Debug().
		Str("event", "snapshot").
		Str("op", op).
		Str("path", path)

	if err != nil {
		logger.Warn().Str("event", "snapshot").Str("op", op).Str("path", path).
			Err(err).Msg("Snapshot operation failed")
		return
	}
	event.Msg("Snapshot operation completed")
}
