// Package config loads imgdrop settings from the workspace's .imgdrop.yml
// and IMGDROP_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eykd/imgdrop-go/internal/drop"
)

// FileName is the configuration file looked up in the workspace root.
const FileName = ".imgdrop.yml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of one workspace.
type Config struct {
	// Style is the markup style: auto, image, or link.
	Style string `yaml:"style"`
	// Caption is the placeholder default: none, name, or stem.
	Caption string `yaml:"caption"`
	// CopyMode is conditional or always.
	CopyMode string `yaml:"copy_mode"`
	HTTP     HTTP   `yaml:"http"`
	Log      Log    `yaml:"log"`
}

// HTTP configures downloads of http and https resources.
type HTTP struct {
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// Log configures diagnostic logging.
type Log struct {
	Level string `yaml:"level"`
	// File, when set, receives a rotated copy of the log.
	File string `yaml:"file,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Style:    string(drop.StyleAuto),
		Caption:  string(drop.CaptionNone),
		CopyMode: string(drop.CopyConditional),
		HTTP:     HTTP{Timeout: 30 * time.Second, MaxBytes: 64 << 20},
		Log:      Log{Level: "info"},
	}
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads FileName from workspace, falling back to defaults when the file
// does not exist, then applies environment overrides from getenv.
func Load(workspace string, getenv func(string) string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Join(workspace, FileName))
	switch {
	case err == nil:
		if cfg, err = Parse(data); err != nil {
			return Config{}, fmt.Errorf("%s: %w", FileName, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}

	if getenv != nil {
		if err := cfg.ApplyEnv(getenv); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from IMGDROP_* variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	for key, dst := range map[string]*string{
		"IMGDROP_STYLE":     &c.Style,
		"IMGDROP_CAPTION":   &c.Caption,
		"IMGDROP_COPY_MODE": &c.CopyMode,
		"IMGDROP_LOG_LEVEL": &c.Log.Level,
		"IMGDROP_LOG_FILE":  &c.Log.File,
	} {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("IMGDROP_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: IMGDROP_HTTP_TIMEOUT: %v", ErrInvalid, err)
		}
		c.HTTP.Timeout = d
	}
	if v := getenv("IMGDROP_HTTP_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: IMGDROP_HTTP_MAX_BYTES: %v", ErrInvalid, err)
		}
		c.HTTP.MaxBytes = n
	}
	return nil
}

// Validate checks every enumerated field.
func (c Config) Validate() error {
	if _, err := drop.ParseStyle(c.Style); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := drop.ParseCaption(c.Caption); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := parseCopyMode(c.CopyMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.HTTP.Timeout < 0 || c.HTTP.MaxBytes < 0 {
		return fmt.Errorf("%w: http limits must not be negative", ErrInvalid)
	}
	return nil
}

// Markup returns the assembler settings. c must be valid.
func (c Config) Markup() drop.Markup {
	return drop.Markup{Style: drop.Style(c.Style), Caption: drop.Caption(c.Caption)}
}

// Mode returns the resolver copy mode. c must be valid.
func (c Config) Mode() drop.CopyMode {
	return drop.CopyMode(c.CopyMode)
}

// Level returns the log level, defaulting to info.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// Marshal encodes c as YAML with a leading comment.
func Marshal(c Config) ([]byte, error) {
	body, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte("# imgdrop workspace configuration\n"), body...), nil
}

func parseCopyMode(s string) (drop.CopyMode, error) {
	switch drop.CopyMode(s) {
	case drop.CopyConditional, drop.CopyAlways:
		return drop.CopyMode(s), nil
	}
	return "", fmt.Errorf("copy_mode must be conditional or always, got %q", s)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}
