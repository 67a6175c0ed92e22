// Package config holds the settings for the overlay tool: input and output
// directories, report names, the region palette and font lookup.
//
// Defaults match the conventional project layout (images/, xml/, output/ in
// the working directory). An optional YAML file is merged over the defaults;
// keys it does not mention keep their default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/page-overlay/internal/logging"
	"github.com/ironsheep/page-overlay/internal/overlay"
	"github.com/ironsheep/page-overlay/internal/pagexml"
)

// LogLevelEnv overrides the log level chosen by the CLI.
const LogLevelEnv = "PAGE_OVERLAY_LOG_LEVEL"

// Config is the full tool configuration.
type Config struct {
	ImagesDir string `yaml:"images_dir"`
	XMLDir    string `yaml:"xml_dir"`
	OutputDir string `yaml:"output_dir"`

	StatsFile    string `yaml:"stats_file"`
	SequenceFile string `yaml:"sequence_file"`

	// Namespace is used when a document declares none.
	Namespace string `yaml:"namespace"`

	RegionColors map[string]string `yaml:"region_colors"`
	DefaultColor string            `yaml:"default_color"`

	FontSize       float64  `yaml:"font_size"`
	FontCandidates []string `yaml:"font_candidates"`
	FontDirs       []string `yaml:"font_dirs"`

	JPEGQuality int `yaml:"jpeg_quality"`

	// Workers is the batch pool size. Zero or less means runtime.NumCPU().
	Workers int `yaml:"workers"`

	// LogLevel, when set, replaces the per-mode default level.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration. Each call returns fresh maps
// and slices.
func Default() *Config {
	return &Config{
		ImagesDir:    "images",
		XMLDir:       "xml",
		OutputDir:    "output",
		StatsFile:    "region_counts.tsv",
		SequenceFile: "region_sequences.tsv",
		Namespace:    pagexml.DefaultNamespace,
		RegionColors: map[string]string{
			"header":         "red",
			"paragraph":      "blue",
			"catch-word":     "green",
			"page-number":    "yellow",
			"marginalia":     "purple",
			"signature-mark": "orange",
		},
		DefaultColor: "pink",
		FontSize:     60,
		FontCandidates: []string{
			"Arial.ttf",
			"DejaVuSans.ttf",
			"FreeSans.ttf",
			"NotoSans-Regular.ttf",
		},
		FontDirs: []string{
			"/usr/share/fonts/truetype",
			"/System/Library/Fonts",
			"C:/Windows/Fonts",
		},
		JPEGQuality: 95,
	}
}

// Load reads the YAML file at path and merges it over Default. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.ImagesDir == "":
		return errors.New("images_dir must not be empty")
	case c.XMLDir == "":
		return errors.New("xml_dir must not be empty")
	case c.OutputDir == "":
		return errors.New("output_dir must not be empty")
	case c.FontSize <= 0:
		return fmt.Errorf("font_size must be positive, got %v", c.FontSize)
	case c.JPEGQuality < 1 || c.JPEGQuality > 100:
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}

	if _, err := overlay.ParseColor(c.DefaultColor); err != nil {
		return fmt.Errorf("default_color: %w", err)
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// WorkerCount returns the effective batch pool size.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Palette builds the region palette from the configured colors.
func (c *Config) Palette() (overlay.Palette, error) {
	return overlay.NewPalette(c.RegionColors, c.DefaultColor)
}

// ResolveLogLevel picks the log level: the environment variable first, then
// the config file, then fallback.
func (c *Config) ResolveLogLevel(fallback logging.Level) logging.Level {
	for _, s := range []string{os.Getenv(LogLevelEnv), c.LogLevel} {
		if strings.TrimSpace(s) == "" {
			continue
		}
		l, err := logging.ParseLevel(s)
		if err != nil {
			logging.Warnf("Ignoring log level %q: %v", s, err)
			continue
		}
		return l
	}
	return fallback
}
