// Package config loads the YAML configuration shared by the command line
// tool and the HTTP service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/startlist"
	"github.com/tsawler/startlist/export"
	"github.com/tsawler/startlist/layout"
	"github.com/tsawler/startlist/logging"
	"github.com/tsawler/startlist/parse"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Conversion modes.
const (
	ModeTwoPass    = "two-pass"
	ModeSinglePass = "single-pass"
)

// Header captions for exports.
const (
	HeadersEnglish   = "english"
	HeadersNorwegian = "norwegian"
)

// Config holds the full configuration.
type Config struct {
	Marker              string       `yaml:"marker"`
	MarkerCaseSensitive bool         `yaml:"marker_case_sensitive"`
	Mode                string       `yaml:"mode"` // two-pass | single-pass
	TrackClasses        bool         `yaml:"track_classes"`
	DistanceUnit        string       `yaml:"distance_unit"`
	Layout              LayoutConfig `yaml:"layout"`
	Export              ExportConfig `yaml:"export"`
	Server              ServerConfig `yaml:"server"`
	Store               StoreConfig  `yaml:"store"`
	Log                 LogConfig    `yaml:"log"`
}

// LayoutConfig tunes PDF line reconstruction. Gaps are in ems.
type LayoutConfig struct {
	LineTolerance float64 `yaml:"line_tolerance"`
	WordGap       float64 `yaml:"word_gap"`
	ColumnGap     float64 `yaml:"column_gap"`
}

// ExportConfig configures CSV output.
type ExportConfig struct {
	IncludeClass     bool   `yaml:"include_class"`
	IncludeStartTime bool   `yaml:"include_start_time"`
	Headers          string `yaml:"headers"` // english | norwegian
	BOM              bool   `yaml:"bom"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var lineDefaults = layout.DefaultLineConfig()

// Default returns sane defaults.
func Default() *Config {
	return &Config{
		Marker:       parse.DefaultMarker,
		Mode:         ModeTwoPass,
		TrackClasses: true,
		DistanceUnit: parse.DefaultDistanceUnit,
		Layout: LayoutConfig{
			LineTolerance: lineDefaults.LineHeightTolerance,
			WordGap:       lineDefaults.WordGap,
			ColumnGap:     lineDefaults.ColumnGap,
		},
		Export: ExportConfig{
			IncludeClass:     true,
			IncludeStartTime: true,
			Headers:          HeadersEnglish,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 32 << 20,
		},
		Store: StoreConfig{
			Path: "startlist.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a YAML config file. Keys missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTwoPass, ModeSinglePass:
	default:
		return fmt.Errorf("%w: unsupported mode %q (use %s or %s)", ErrInvalid, c.Mode, ModeTwoPass, ModeSinglePass)
	}
	if c.TrackClasses && strings.TrimSpace(c.DistanceUnit) == "" {
		return fmt.Errorf("%w: distance_unit is required when track_classes is set", ErrInvalid)
	}
	if c.Mode == ModeSinglePass && strings.TrimSpace(c.Marker) == "" {
		return fmt.Errorf("%w: marker is required in single-pass mode", ErrInvalid)
	}
	if c.Layout.LineTolerance <= 0 {
		return fmt.Errorf("%w: layout.line_tolerance must be > 0", ErrInvalid)
	}
	if c.Layout.WordGap <= 0 || c.Layout.ColumnGap <= c.Layout.WordGap {
		return fmt.Errorf("%w: layout gaps need 0 < word_gap < column_gap", ErrInvalid)
	}
	switch c.Export.Headers {
	case HeadersEnglish, HeadersNorwegian:
	default:
		return fmt.Errorf("%w: unsupported export.headers %q", ErrInvalid, c.Export.Headers)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: server.max_upload_bytes must be > 0", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Apply configures a converter with the conversion settings.
func (c *Config) Apply(conv *startlist.Converter) *startlist.Converter {
	conv = conv.Marker(c.Marker).LineConfig(layout.LineConfig{
		LineHeightTolerance: c.Layout.LineTolerance,
		WordGap:             c.Layout.WordGap,
		ColumnGap:           c.Layout.ColumnGap,
	})
	if c.MarkerCaseSensitive {
		conv = conv.CaseSensitiveMarker()
	}
	if c.Mode == ModeSinglePass {
		conv = conv.SinglePass()
	}
	if !c.TrackClasses {
		return conv.WithoutClasses()
	}
	return conv.DistanceUnit(c.DistanceUnit)
}

// ExportOptions returns CSV export options.
func (c *Config) ExportOptions() export.Options {
	opts := export.DefaultOptions()
	opts.IncludeClass = c.Export.IncludeClass && c.TrackClasses
	opts.IncludeStartTime = c.Export.IncludeStartTime
	opts.BOM = c.Export.BOM
	if c.Export.Headers == HeadersNorwegian {
		opts.Headers = export.NorwegianHeaders()
	}
	return opts
}

// Logging returns the parsed log level and format. Validate has already
// rejected unknown names.
func (c *Config) Logging() (logging.Level, logging.Format) {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return level, format
}
