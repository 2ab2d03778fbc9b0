package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smallyu/go-sss/internal/backend"
	"github.com/smallyu/go-sss/internal/backend/software"
	"github.com/smallyu/go-sss/internal/config"
	"github.com/smallyu/go-sss/internal/logging"
	"github.com/smallyu/go-sss/internal/metrics"
	"github.com/smallyu/go-sss/internal/points"
	"github.com/smallyu/go-sss/internal/workflow"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the YAML configuration file
	ConfigFile string

	// OutputFormat controls output formatting (text, json)
	OutputFormat string

	// LogLevel overrides logging.level
	LogLevel string

	// BackendVersion overrides backend.version (legacy, named, current)
	BackendVersion string

	// Metrics prints collected metrics to stderr after the command
	Metrics bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: string(OutputFormatText),
	}
}

// Settings resolves the file, environment and flag layers into one
// configuration. Flags win.
func (c *Config) Settings() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.ConfigFile != "" {
		cfg, err = config.Load(c.ConfigFile)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.BackendVersion != "" {
		cfg.Backend.Version = c.BackendVersion
	}
	if c.Metrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// env is the wired object graph one command runs against.
type env struct {
	cfg       *config.Config
	logger    logging.Logger
	registry  *prometheus.Registry
	recorder  *metrics.Recorder
	generator *points.Generator
	adapter   *backend.Adapter
}

func (c *Config) newEnv(logOut io.Writer) (*env, error) {
	cfg, err := c.Settings()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, logOut)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}
	if cfg.Metrics.Enabled {
		e.registry = prometheus.NewRegistry()
		if e.recorder, err = metrics.New(e.registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	e.generator = points.NewGenerator(points.DefaultSource(),
		points.WithMaxDraws(cfg.Random.MaxDraws),
		points.WithLogger(logger),
		points.WithRecorder(e.recorder),
	)

	version, err := software.ParseVersion(cfg.Backend.Version)
	if err != nil {
		return nil, err
	}
	e.adapter = backend.NewAdapter(
		software.New(version, software.WithRand(e.generator.Source()), software.WithLogger(logger)),
		backend.WithLogger(logger),
		backend.WithRecorder(e.recorder),
	)
	if err := e.adapter.Initialize(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *env) session() *workflow.Session {
	return workflow.New(e.adapter, e.generator,
		workflow.WithLogger(e.logger),
		workflow.WithRecorder(e.recorder),
		workflow.WithRand(e.generator.Source()),
	)
}

// flushMetrics writes collected metrics to w when metrics are enabled.
func (e *env) flushMetrics(w io.Writer) error {
	if e.registry == nil {
		return nil
	}
	return metrics.WriteText(e.registry, w)
}
