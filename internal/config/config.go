// Package config loads the formschema YAML configuration file. Every key is
// optional; missing keys keep their defaults and CLI flags override both.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/contract"
	"github.com/goliatone/go-formschema/pkg/theme"
)

const (
	defaultAddr           = "127.0.0.1:8080"
	defaultRenderer       = "html"
	defaultPageTitle      = "Form Schema Editor"
	defaultSampleTimeout  = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultShutdownPeriod = 5 * time.Second
)

type (
	Config struct {
		Log      Log      `yaml:"log"`
		Theme    string   `yaml:"theme"`
		Render   Render   `yaml:"render"`
		Server   Server   `yaml:"server"`
		Sample   Sample   `yaml:"sample"`
		Contract Contract `yaml:"contract"`

		// Path is the file the config was read from, empty for defaults.
		Path string `yaml:"-"`
	}

	Log struct {
		Debug   bool   `yaml:"debug"`
		Verbose bool   `yaml:"verbose"`
		Format  string `yaml:"format"`
	}

	Render struct {
		Renderer     string `yaml:"renderer"`
		StrictKinds  bool   `yaml:"strict_kinds"`
		PageTitle    string `yaml:"page_title"`
		TemplatesDir string `yaml:"templates_dir"`
	}

	Server struct {
		Addr           string        `yaml:"addr"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		ShutdownPeriod time.Duration `yaml:"shutdown_period"`
	}

	Sample struct {
		// URL is the base the sample fetcher appends /data.json to. Empty
		// means the server's own address.
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	}

	Contract struct {
		Path    string `yaml:"path"`
		Version string `yaml:"version"`
		Format  string `yaml:"format"`
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:   Log{Format: string(logger.FormatPretty)},
		Theme: string(theme.Light),
		Render: Render{
			Renderer:  defaultRenderer,
			PageTitle: defaultPageTitle,
		},
		Server: Server{
			Addr:           defaultAddr,
			ReadTimeout:    defaultReadTimeout,
			ShutdownPeriod: defaultShutdownPeriod,
		},
		Sample: Sample{Timeout: defaultSampleTimeout},
		Contract: Contract{
			Path:    contract.DefaultPath,
			Version: contract.DefaultVersion,
			Format:  string(contract.FormatJSON),
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode parses YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	var problems []string

	switch logger.Format(strings.ToLower(c.Log.Format)) {
	case "", logger.FormatPretty, logger.FormatText, logger.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be pretty, text or json", c.Log.Format))
	}
	if c.Theme != "" && !theme.Preset(c.Theme).Valid() {
		problems = append(problems, fmt.Sprintf("theme %q is not a known preset", c.Theme))
	}
	if _, err := contract.ParseFormat(c.Contract.Format); err != nil {
		problems = append(problems, fmt.Sprintf("contract.format %q must be json or yaml", c.Contract.Format))
	}
	if c.Contract.Path != "" && !strings.HasPrefix(c.Contract.Path, "/") {
		problems = append(problems, fmt.Sprintf("contract.path %q must start with /", c.Contract.Path))
	}
	if c.Server.ReadTimeout < 0 || c.Sample.Timeout < 0 || c.Server.ShutdownPeriod < 0 {
		problems = append(problems, "timeouts must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoggerOptions maps the log section onto logger.Options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Debug:   c.Log.Debug,
		Verbose: c.Log.Verbose,
		Format:  logger.ParseFormat(c.Log.Format),
	}
}

// Preset returns the configured editor theme.
func (c *Config) Preset() theme.Preset {
	return theme.ParsePreset(c.Theme)
}
