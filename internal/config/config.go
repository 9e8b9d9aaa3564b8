package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	loomerrors "github.com/vango-dev/loom/internal/errors"
)

const (
	// ConfigName is the configuration file name without extension.
	ConfigName = "loom"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "LOOM"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default export directory.
	DefaultOutput = "dist"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "loom"
)

// Config is the complete loom configuration.
type Config struct {
	// Debug enables compiler and runtime diagnostics.
	Debug bool `mapstructure:"debug"`

	Log     LogConfig     `mapstructure:"log"`
	Render  RenderConfig  `mapstructure:"render"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Dev     DevConfig     `mapstructure:"dev"`
	Export  ExportConfig  `mapstructure:"export"`

	// path is the file the config was read from, empty for defaults.
	path string
	dir  string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// RenderConfig controls HTML serialization.
type RenderConfig struct {
	Pretty      bool `mapstructure:"pretty"`
	OmitAnchors bool `mapstructure:"omit_anchors"`
}

// MetricsConfig controls prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// DevConfig contains preview server settings.
type DevConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Reload pushes a reload message to browsers when watched files change.
	Reload bool `mapstructure:"reload"`

	// Watch lists extra paths whose changes trigger a re-render.
	Watch []string `mapstructure:"watch"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Output is the export directory.
	Output string `mapstructure:"output"`

	// Bucket, when set, uploads to S3 instead of writing to Output.
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Render: RenderConfig{
			OmitAnchors: true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Dev: DevConfig{
			Host:   DefaultHost,
			Port:   DefaultPort,
			Reload: true,
		},
		Export: ExportConfig{
			Output: DefaultOutput,
			Region: "us-east-1",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("render.pretty", d.Render.Pretty)
	v.SetDefault("render.omit_anchors", d.Render.OmitAnchors)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("dev.host", d.Dev.Host)
	v.SetDefault("dev.port", d.Dev.Port)
	v.SetDefault("dev.reload", d.Dev.Reload)
	v.SetDefault("dev.watch", []string{})
	v.SetDefault("export.output", d.Export.Output)
	v.SetDefault("export.bucket", d.Export.Bucket)
	v.SetDefault("export.prefix", d.Export.Prefix)
	v.SetDefault("export.region", d.Export.Region)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads loom.yaml or loom.json from dir. A missing file is not an
// error: defaults and environment overrides apply.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, loomerrors.New(loomerrors.CodeInvalidConfig).
				WithDetail("Failed to parse " + ConfigName + " config in " + dir).
				Wrap(err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.dir = dir
	return cfg, nil
}

// LoadFile reads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, loomerrors.New(loomerrors.CodeInvalidConfig).
			WithDetail("Failed to read " + path).
			WithSuggestion("Check that the file exists and is valid YAML or JSON").
			Wrap(err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, loomerrors.New(loomerrors.CodeInvalidConfig).Wrap(err)
	}
	cfg.path = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return loomerrors.New(loomerrors.CodeInvalidConfig).
			WithDetail("dev.port must be between 0 and 65535")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return loomerrors.New(loomerrors.CodeInvalidConfig).
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return loomerrors.New(loomerrors.CodeInvalidConfig).
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Logger builds the configured slog logger writing to w. Debug forces
// the debug level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := levels[strings.ToLower(c.Log.Level)]
	if c.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Path returns the file the config was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the project directory.
func (c *Config) Dir() string {
	if c.dir == "" {
		return "."
	}
	return c.dir
}

// DevAddress returns the preview server listen address.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the preview server URL.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// OutputPath returns the export directory, resolved against Dir.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Export.Output) {
		return c.Export.Output
	}
	return filepath.Join(c.Dir(), c.Export.Output)
}

// Exists reports whether dir contains a loom config file.
func Exists(dir string) bool {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if _, err := os.Stat(filepath.Join(dir, ConfigName+ext)); err == nil {
			return true
		}
	}
	return false
}
