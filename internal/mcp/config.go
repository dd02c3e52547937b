package mcp

import (
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/kfreiman/docshield/internal/model"
)

// Config holds the configuration for the MCP server.
type Config struct {
	Port            int    `env:"PORT" env-default:"8080" env-description:"HTTP server port"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" env-default:"es" env-description:"Language used when a request names an unsupported one"`
	LogDebug        bool   `env:"DEBUG" env-default:"false" env-description:"Enable debug logging"`

	Model model.Config
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithPort sets the server port.
func (c Config) WithPort(port int) Config {
	c.Port = port
	return c
}

// WithDefaultLanguage sets the fallback language.
func (c Config) WithDefaultLanguage(lang string) Config {
	c.DefaultLanguage = lang
	return c
}
