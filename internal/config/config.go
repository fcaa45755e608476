// Package config loads tbrowse settings from a TOML or YAML file and from
// TBROWSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"pkt.systems/tbrowse/internal/palette"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "TBROWSE_"

// ErrUnsupportedFormat reports a config file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Pair is the foreground and background of one themed color slot.
type Pair struct {
	FG string `toml:"fg" yaml:"fg"`
	BG string `toml:"bg" yaml:"bg"`
}

// Duration is a time.Duration read from strings such as "15s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds every setting the command line can also set. Zero values
// mean "use the built-in default".
type Config struct {
	Theme         string          `toml:"theme" yaml:"theme"`
	Width         int             `toml:"width" yaml:"width"`
	OSC8          string          `toml:"osc8" yaml:"osc8"`
	Pager         string          `toml:"pager" yaml:"pager"`
	ExpandDetails bool            `toml:"expand_details" yaml:"expand_details"`
	KeepScripts   bool            `toml:"keep_scripts" yaml:"keep_scripts"`
	ASCIIOnly     bool            `toml:"ascii_only" yaml:"ascii_only"`
	LegacyBreaks  bool            `toml:"legacy_breaks" yaml:"legacy_breaks"`
	UserAgent     string          `toml:"user_agent" yaml:"user_agent"`
	Timeout       Duration        `toml:"timeout" yaml:"timeout"`
	MaxRows       int             `toml:"max_rows" yaml:"max_rows"`
	LogFile       string          `toml:"log_file" yaml:"log_file"`
	LogLevel      string          `toml:"log_level" yaml:"log_level"`
	Watch         bool            `toml:"watch" yaml:"watch"`
	Colors        map[string]Pair `toml:"colors" yaml:"colors"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Theme:    "default",
		OSC8:     "auto",
		Pager:    "auto",
		LogLevel: "info",
	}
}

// ParseError reports a config file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dir, "tbrowse", "config.toml"), nil
}

// Load reads path over Default. The format follows the extension: .toml,
// .yaml or .yml. A missing file is reported with an error wrapping
// fs.ErrNotExist.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config: %s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return cfg, &ParseError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault reads the file at DefaultPath. A missing file yields Default.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides fields from TBROWSE_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	str := func(key string, dst *string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		v := getenv(EnvPrefix + key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = b
	}
	integer := func(key string, dst *int) {
		v := getenv(EnvPrefix + key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = n
	}

	str("THEME", &c.Theme)
	integer("WIDTH", &c.Width)
	str("OSC8", &c.OSC8)
	str("PAGER", &c.Pager)
	boolean("EXPAND", &c.ExpandDetails)
	boolean("KEEP_SCRIPTS", &c.KeepScripts)
	boolean("ASCII", &c.ASCIIOnly)
	boolean("LEGACY_BREAKS", &c.LegacyBreaks)
	str("USER_AGENT", &c.UserAgent)
	integer("MAX_ROWS", &c.MaxRows)
	str("LOG_FILE", &c.LogFile)
	str("LOG_LEVEL", &c.LogLevel)
	boolean("WATCH", &c.Watch)
	if v := getenv(EnvPrefix + "TIMEOUT"); v != "" {
		if err := c.Timeout.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return c.Validate()
}

// Validate checks enumerated and color settings.
func (c Config) Validate() error {
	if !validSwitch(c.OSC8) {
		return fmt.Errorf("osc8 must be auto, on or off, got %q", c.OSC8)
	}
	if !validSwitch(c.Pager) {
		return fmt.Errorf("pager must be auto, on or off, got %q", c.Pager)
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", c.MaxRows)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", time.Duration(c.Timeout))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for slot, pair := range c.Colors {
		for _, spec := range []string{pair.FG, pair.BG} {
			if err := palette.Validate(spec); err != nil {
				return fmt.Errorf("colors.%s: %w", slot, err)
			}
		}
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() (zerolog.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func validSwitch(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto", "on", "off":
		return true
	}
	return false
}

// Switch normalizes an auto/on/off value; empty means auto.
func Switch(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "auto"
	}
	return v
}
