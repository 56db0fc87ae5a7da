package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/raysh454/logpuzzle/internal/cli"
	"github.com/raysh454/logpuzzle/internal/extractor"
	"github.com/raysh454/logpuzzle/internal/logging"
	"github.com/raysh454/logpuzzle/internal/materializer"
	"github.com/raysh454/logpuzzle/internal/webclient"
)

// Config contains the runtime options for one run. Zero values are not
// meaningful; start from DefaultConfig.
type Config struct {
	// Host replaces the hostname derived from the log filename when set.
	Host   string `yaml:"host"`
	Scheme string `yaml:"scheme"`
	// Marker is the path segment prefix that identifies puzzle requests.
	Marker string `yaml:"marker"`

	ExtensionStrategy string `yaml:"extension_strategy"`
	LogLevel          string `yaml:"log_level"`

	Fetch FetchConfig `yaml:"fetch"`
}

type FetchConfig struct {
	// Timeout bounds each image request; 0 disables it.
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Scheme:            extractor.DefaultScheme,
		Marker:            extractor.DefaultMarker,
		ExtensionStrategy: string(materializer.ExtensionSlice),
		LogLevel:          "warn",
		Fetch: FetchConfig{
			Timeout:   webclient.DefaultTimeout,
			UserAgent: webclient.DefaultUserAgent,
			MaxBytes:  50 * 1024 * 1024,
		},
	}
}

// LoadConfig reads a YAML file over the defaults; keys absent from the file
// keep their default value.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyArgs lets command-line flags override file and default values.
func (c *Config) ApplyArgs(args *cli.CLIArgs) {
	if args == nil {
		return
	}
	if args.Host != "" {
		c.Host = args.Host
	}
	if args.Extension != "" {
		c.ExtensionStrategy = args.Extension
	}
	if args.TimeoutSet {
		c.Fetch.Timeout = args.Timeout
	}
	if args.Verbose {
		c.LogLevel = "debug"
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("config: scheme must be http or https, got %q", c.Scheme)
	}
	if c.Marker == "" {
		return fmt.Errorf("config: marker must not be empty")
	}
	if _, err := materializer.ParseExtensionStrategy(c.ExtensionStrategy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("config: fetch.timeout must not be negative")
	}
	if c.Fetch.MaxBytes < 0 {
		return fmt.Errorf("config: fetch.max_bytes must not be negative")
	}
	return nil
}
