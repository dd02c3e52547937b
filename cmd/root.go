package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"
	"github.com/spf13/cobra"
)

// cmdConfig holds the logging configuration shared by all commands.
type cmdConfig struct {
	Format string `env:"LOG_FORMAT" env-default:"text" env-description:"Log output format (text or json)"`
	Level  string `env:"LOG_LEVEL" env-default:"info" env-description:"Log level (debug, info, warn, error)"`
}

// createLogger creates a slog logger from the configuration.
func createLogger(conf cmdConfig) *slog.Logger {
	var level slog.Level
	switch conf.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var zerologLogger zerolog.Logger
	if conf.Format == "json" {
		zerologLogger = zerolog.New(os.Stderr)
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()
	}

	loggerConfig := slogzerolog.Option{
		Level:  level,
		Logger: &zerologLogger,
	}.NewZerologHandler()

	logger := slog.New(loggerConfig)

	log.SetFlags(0)
	slog.SetDefault(logger)

	return logger
}

// newLogger loads the logging configuration and builds the logger.
func newLogger() (*slog.Logger, error) {
	var conf cmdConfig
	if err := cleanenv.ReadEnv(&conf); err != nil {
		return nil, fmt.Errorf("load logging config: %w", err)
	}
	return createLogger(conf), nil
}

// rootCmd is the base command for the docshield CLI.
var rootCmd = &cobra.Command{
	Use:   "docshield",
	Short: "Detect and redact PII in free-form text",
	Long: `DocShield detects and redacts personally-identifiable spans (ID
documents, phone numbers, email addresses, person names, locations) in
free-form text, in Spanish and English.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
