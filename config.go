package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BannerConfig is the fixed pixel size of the composition.
type BannerConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	SaveDirectory string       `yaml:"save_directory"`
	Confirmations bool         `yaml:"confirmations"`
	Banner        BannerConfig `yaml:"banner"`
	DebounceMS    int          `yaml:"debounce_ms"`
	LogFile       string       `yaml:"log_file"`
	LogLevel      string       `yaml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		SaveDirectory: "",
		Confirmations: true,
		Banner:        BannerConfig{Width: defaultBannerWidth, Height: defaultBannerHeight},
		DebounceMS:    int(defaultDebounce / time.Millisecond),
		LogLevel:      "info",
	}
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".bannerrc.yaml")
}

// loadConfig reads path over the defaults. A missing or unreadable file
// leaves the defaults in place.
func loadConfig(path string) *Config {
	config := defaultConfig()
	if path == "" {
		return config
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}
	parsed := defaultConfig()
	if err := yaml.Unmarshal(data, parsed); err != nil {
		return config
	}
	config = parsed

	if config.Banner.Width <= 0 {
		config.Banner.Width = defaultBannerWidth
	}
	if config.Banner.Height <= 0 {
		config.Banner.Height = defaultBannerHeight
	}
	if config.DebounceMS <= 0 {
		config.DebounceMS = int(defaultDebounce / time.Millisecond)
	}
	config.SaveDirectory = expandPath(config.SaveDirectory)
	config.LogFile = expandPath(config.LogFile)
	return config
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// parseBannerSize reads a "WxH" size such as "728x90".
func parseBannerSize(s string) (BannerConfig, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return BannerConfig{}, fmt.Errorf("banner size %q: %w", s, ErrInvalidInput)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return BannerConfig{}, fmt.Errorf("banner width %q: %w", w, ErrInvalidInput)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return BannerConfig{}, fmt.Errorf("banner height %q: %w", h, ErrInvalidInput)
	}
	return BannerConfig{Width: width, Height: height}, nil
}
