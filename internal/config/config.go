package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"sacredverse/internal/daily"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "sacredverse.db"
	DefaultLogName        = "sacredverse.log"
	DefaultStartDate      = "2025-09-23"
	EnvConfigPath         = "SACREDVERSE_CONFIG"
	appDirName            = "sacredverse"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Badges  string `toml:"badges"`
	Copy    string `toml:"copy"`
	Share   string `toml:"share"`
	Dismiss string `toml:"dismiss"`
}

type Config struct {
	DBPath          string  `toml:"db_path"`
	ContentSource   string  `toml:"content_source"`
	StartDate       string  `toml:"start_date"`
	BadgeThresholds []int   `toml:"badge_thresholds"`
	AckSeconds      float64 `toml:"ack_seconds"`
	WatchContent    bool    `toml:"watch_content"`
	LogLevel        string  `toml:"log_level"`
	LogPath         string  `toml:"log_path"`
	Keys            Keymap  `toml:"keys"`
}

// AckDuration is how long the acknowledgment message stays on screen.
func (c Config) AckDuration() time.Duration {
	return time.Duration(c.AckSeconds * float64(time.Second))
}

// ResolveConfigPath picks $SACREDVERSE_CONFIG, else the user config dir,
// else the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.StartDate == "" {
		cfg.StartDate = DefaultStartDate
	}
	if len(cfg.BadgeThresholds) == 0 {
		cfg.BadgeThresholds = []int{3, 7, 30}
	}
	if cfg.AckSeconds <= 0 {
		cfg.AckSeconds = 1.5
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := daily.ParseDate(c.StartDate); err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	for _, b := range c.BadgeThresholds {
		if b <= 0 {
			return fmt.Errorf("badge_thresholds: %d is not a positive streak length", b)
		}
	}
	return nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:          filepath.Join(dir, DefaultDBName),
		ContentSource:   "",
		StartDate:       DefaultStartDate,
		BadgeThresholds: []int{3, 7, 30},
		AckSeconds:      1.5,
		WatchContent:    true,
		LogLevel:        "info",
		LogPath:         filepath.Join(dir, DefaultLogName),
		Keys: Keymap{
			Quit:    "q",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Badges:  "b",
			Copy:    "c",
			Share:   "s",
			Dismiss: "esc",
		},
	}
}
