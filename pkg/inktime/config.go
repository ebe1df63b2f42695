// Package inktime picks "on this day" photos from a scored archive and renders
// them into six-color e-paper frames.
package inktime

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for inktime.
type Config struct {
	// DBPath is the SQLite metadata store holding the photo_scores table.
	DBPath string `yaml:"db_path"`
	// FontPath is a TrueType/OpenType font; empty or invalid falls back to a built-in face.
	FontPath string `yaml:"font_path"`

	MemoryThreshold float64 `yaml:"memory_threshold"`
	Count           int     `yaml:"count"`

	// Tag is embedded in every artifact name, e.g. photo_<tag>_0_L.bin.
	Tag         string   `yaml:"tag"`
	OutDir      string   `yaml:"out_dir"`
	PublishDirs []string `yaml:"publish_dirs"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		DBPath:          "photos.db",
		MemoryThreshold: 70.0,
		Count:           5,
		Tag:             "13in3_6c",
		OutDir:          filepath.Join("output", "inktime_13in3_6c"),
		PublishDirs:     []string{filepath.Join("output", "inktime")},
	}
}

// LoadConfig reads an optional YAML file, applies environment overrides, and
// resolves relative paths against the file's directory (or the working
// directory when path is empty).
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	base := "."

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		base = filepath.Dir(path)
	}

	c.applyEnv()
	c.applyDefaults()
	c.resolve(base)
	return c, nil
}

func (c *Config) applyEnv() {
	c.DBPath = envStr("INKTIME_DB", c.DBPath)
	c.FontPath = envStr("INKTIME_FONT", c.FontPath)
	c.MemoryThreshold = envFloat("INKTIME_THRESHOLD", c.MemoryThreshold)
	c.Count = envInt("INKTIME_COUNT", c.Count)
	c.Tag = envStr("INKTIME_TAG", c.Tag)
	c.OutDir = envStr("INKTIME_OUT", c.OutDir)
	if v := os.Getenv("INKTIME_PUBLISH"); v != "" {
		c.PublishDirs = filepath.SplitList(v)
	}
}

// applyDefaults treats zero values as unset.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.MemoryThreshold == 0 {
		c.MemoryThreshold = d.MemoryThreshold
	}
	if c.Count <= 0 {
		c.Count = d.Count
	}
	if strings.TrimSpace(c.Tag) == "" {
		c.Tag = d.Tag
	}
	if c.OutDir == "" {
		c.OutDir = d.OutDir
	}
}

func (c *Config) resolve(base string) {
	c.DBPath = resolvePath(base, c.DBPath)
	if c.FontPath != "" {
		c.FontPath = resolvePath(base, c.FontPath)
	}
	c.OutDir = resolvePath(base, c.OutDir)
	for i, d := range c.PublishDirs {
		c.PublishDirs[i] = resolvePath(base, d)
	}
}

func resolvePath(base, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
