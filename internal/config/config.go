// Package config loads specc settings. Values are layered, later layers
// winning: built-in defaults, a YAML or JSONC config file, SPECC_*
// environment variables (a .env file in the working directory is read
// first), then command-line flags applied by the caller.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig       = "SPECC_CONFIG"
	EnvOutput       = "SPECC_OUTPUT"
	EnvLogFile      = "SPECC_LOG_FILE"
	EnvLogLevel     = "SPECC_LOG_LEVEL"
	EnvMaxRetries   = "SPECC_MAX_RETRIES"
	EnvInterval     = "SPECC_INTERVAL"
	EnvSensorSource = "SPECC_SENSOR_SOURCE"
)

// Config holds every tunable setting.
type Config struct {
	// OutputPath is where one-shot reports are written by default.
	OutputPath string `yaml:"output_path" json:"output_path" validate:"required"`

	// LogPath is the diagnostic log file, opened for appending.
	LogPath string `yaml:"log_path" json:"log_path" validate:"required"`

	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn warning error"`

	// MaxRetries is accepted for compatibility with older config files.
	// Reads are not retried.
	MaxRetries int `yaml:"max_retries" json:"max_retries" validate:"gte=0"`

	// SamplingInterval is the live refresh period.
	SamplingInterval Duration `yaml:"sampling_interval" json:"sampling_interval" validate:"gt=0"`

	// SensorSource selects the raw sensor backend.
	SensorSource string `yaml:"sensor_source" json:"sensor_source" validate:"oneof=auto hwmon lmsensors gopsutil"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputPath:       "system_report.json",
		LogPath:          "system_errors.log",
		LogLevel:         "info",
		MaxRetries:       3,
		SamplingInterval: Duration(time.Second),
		SensorSource:     "auto",
	}
}

// Load builds the configuration from defaults, the config file at path
// (or $SPECC_CONFIG when path is empty) and the environment, then
// validates it. A missing .env file is not an error; a malformed one,
// or a missing config file that was asked for, is.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported format (want .yaml, .yml, .json or .jsonc)", path)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvOutput); v != "" {
		c.OutputPath = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSensorSource); v != "" {
		c.SensorSource = strings.ToLower(v)
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxRetries, err)
		}
		c.MaxRetries = n
	}
	if v := os.Getenv(EnvInterval); v != "" {
		d, err := ParseInterval(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInterval, err)
		}
		c.SamplingInterval = d
	}
	return nil
}

var validate = validator.New()

// Validate reports every invalid field, by its config key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q check", keyFor(e.StructField()), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

var keys = map[string]string{
	"OutputPath":       "output_path",
	"LogPath":          "log_path",
	"LogLevel":         "log_level",
	"MaxRetries":       "max_retries",
	"SamplingInterval": "sampling_interval",
	"SensorSource":     "sensor_source",
}

func keyFor(field string) string {
	if k, ok := keys[field]; ok {
		return k
	}
	return strings.ToLower(field)
}
