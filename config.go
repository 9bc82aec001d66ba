package trailmark

import (
	"os"
	"strconv"
	"time"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DBSettings describes how to reach the document store.
type DBSettings struct {
	Url string `yaml:"url"`
	DB  string `yaml:"db"`
}

// TracerConfig configures the OpenTelemetry tracer provider. If not enabled traces will not be sent.
type TracerConfig struct {
	Enabled           bool   `yaml:"enabled"`
	CollectorEndpoint string `yaml:"collector_endpoint"`
}

// ValidateAndDefault validates the tracer configuration.
func (c *TracerConfig) ValidateAndDefault() error {
	if c.Enabled && c.CollectorEndpoint == "" {
		return errors.New("tracer is enabled but no collector endpoint is set")
	}
	return nil
}

// Settings contains all configuration for the service. A file is optional;
// the process environment always takes precedence over it.
type Settings struct {
	Database            DBSettings   `yaml:"database"`
	Port                int          `yaml:"port"`
	LogLevel            string       `yaml:"log_level"`
	ShutdownWaitSeconds int          `yaml:"shutdown_wait_seconds"`
	Tracer              TracerConfig `yaml:"tracer"`
}

// NewSettings reads settings from the YAML file at path.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading settings file '%s'", path)
	}

	settings := &Settings{}
	if err = yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "parsing settings file '%s'", path)
	}

	return settings, nil
}

// SettingsOption adjusts settings after the environment has been applied.
type SettingsOption func(*Settings)

// LoadSettings builds settings from the optional file at path, applies the
// process environment and then opts on top, and validates the result.
func LoadSettings(path string, opts ...SettingsOption) (*Settings, error) {
	settings := &Settings{}
	if path != "" {
		var err error
		settings, err = NewSettings(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "applying environment overrides")
	}
	for _, opt := range opts {
		opt(settings)
	}

	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	return settings, nil
}

// ApplyEnv overrides fields with any values present in the environment, as
// reported by lookup.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if val, ok := lookup(MongoURIEnvVar); ok && val != "" {
		s.Database.Url = val
	}
	if val, ok := lookup(MongoDBNameEnvVar); ok && val != "" {
		s.Database.DB = val
	}
	if val, ok := lookup(LogLevelEnvVar); ok && val != "" {
		s.LogLevel = val
	}
	if val, ok := lookup(OtelCollectorEndpointEnvVar); ok && val != "" {
		s.Tracer.Enabled = true
		s.Tracer.CollectorEndpoint = val
	}
	if val, ok := lookup(PortEnvVar); ok && val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return errors.Wrapf(err, "parsing %s '%s'", PortEnvVar, val)
		}
		s.Port = port
	}

	return nil
}

// Validate fills in defaults and checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.Database.DB == "" {
		s.Database.DB = DefaultDatabaseName
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if s.ShutdownWaitSeconds <= 0 {
		s.ShutdownWaitSeconds = int(DefaultShutdownWait / time.Second)
	}

	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(s.Database.Url == "", "database URL must be set")
	catcher.ErrorfWhen(s.Port < 0 || s.Port > 65535, "port %d is out of range", s.Port)
	catcher.Wrap(s.Tracer.ValidateAndDefault(), "invalid tracer config")

	return catcher.Resolve()
}

// ShutdownWait is the grace period allowed for shutdown.
func (s *Settings) ShutdownWait() time.Duration {
	return time.Duration(s.ShutdownWaitSeconds) * time.Second
}
