package config

import (
	"os"
	"strconv"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"
)

// Config holds application runtime configuration. Values are resolved in
// layers: built-in defaults, then the settings store, then environment
// variables, then command-line flags.
type Config struct {
	EnginePath     string
	Language       string
	PSM            int
	OEM            int
	Grayscale      bool
	Binarize       bool
	TimeoutSeconds int
	LogLevel       string
	EnableVerbose  bool
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		EnginePath:     "",
		Language:       constants.DefaultOcrLanguage,
		PSM:            constants.DefaultPSM,
		OEM:            constants.DefaultOEM,
		Grayscale:      constants.DefaultGrayscale,
		Binarize:       constants.DefaultBinarize,
		TimeoutSeconds: constants.DefaultTimeoutSeconds,
		LogLevel:       constants.DefaultLogLevel,
		EnableVerbose:  constants.DefaultEnableVerbose,
	}
}

// LoadConfig resolves defaults, the settings store, and environment
// variable overrides into a runtime configuration. A missing or unreadable
// store is not an error; built-in defaults apply.
func LoadConfig() *Config {
	cfg := NewConfig()

	store := DefaultStore()
	cfg.EnginePath = store.Get(constants.CfgKeyEnginePath, cfg.EnginePath)
	cfg.Language = store.Get(constants.CfgKeyDefaultLang, cfg.Language)
	cfg.Grayscale = parseBool(store.Get(constants.CfgKeyDefaultGrayscale, ""), cfg.Grayscale)
	cfg.Binarize = parseBool(store.Get(constants.CfgKeyDefaultBinarize, ""), cfg.Binarize)

	applyEnvOverrides(cfg)
	return cfg
}

// applyEnvOverrides layers TEJOCR_* environment variables over cfg.
func applyEnvOverrides(cfg *Config) {
	if value := os.Getenv("TEJOCR_ENGINE_PATH"); value != "" {
		cfg.EnginePath = value
	}
	if value := os.Getenv("TEJOCR_LANGUAGE"); value != "" {
		cfg.Language = value
	}
	if value := os.Getenv("TEJOCR_PSM"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			cfg.PSM = intVal
		}
	}
	if value := os.Getenv("TEJOCR_OEM"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			cfg.OEM = intVal
		}
	}
	if value := os.Getenv("TEJOCR_GRAYSCALE"); value != "" {
		cfg.Grayscale = value == "true" || value == "1"
	}
	if value := os.Getenv("TEJOCR_BINARIZE"); value != "" {
		cfg.Binarize = value == "true" || value == "1"
	}
	if value := os.Getenv("TEJOCR_TIMEOUT_SECONDS"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			cfg.TimeoutSeconds = intVal
		}
	}
	if value := os.Getenv("TEJOCR_LOG_LEVEL"); value != "" {
		cfg.LogLevel = value
	}
	if value := os.Getenv("TEJOCR_VERBOSE"); value != "" {
		cfg.EnableVerbose = value == "true" || value == "1"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return utils.NewValidationError(err.Error(), nil)
	}
	if c.TimeoutSeconds < constants.MinTimeoutSeconds || c.TimeoutSeconds > constants.MaxTimeoutSeconds {
		return utils.NewValidationError("timeout must be between 1 and 3600 seconds", nil)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return utils.NewValidationError("invalid log level: "+c.LogLevel, nil)
	}
	return nil
}

// Options returns the per-invocation OCR option set this configuration
// describes.
func (c *Config) Options() types.OcrOptions {
	return types.OcrOptions{
		Language:  c.Language,
		PSM:       c.PSM,
		OEM:       c.OEM,
		Grayscale: c.Grayscale,
		Binarize:  c.Binarize,
	}
}

func parseBool(value string, def bool) bool {
	switch value {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}
