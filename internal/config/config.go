package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/akyairhashvil/nudge/internal/recurrence"
	"github.com/akyairhashvil/nudge/internal/util"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable, e.g. NUDGE_DB_FILE.
const EnvPrefix = "NUDGE"

// Config is read from the environment.
type Config struct {
	DataDir      string        `envconfig:"DATA_DIR"`
	DBFile       string        `envconfig:"DB_FILE" default:"nudge.db"`
	AnchorZone   string        `envconfig:"ANCHOR_ZONE" default:"UTC"`
	AnchorHour   int           `envconfig:"ANCHOR_HOUR" default:"6"`
	AnchorMinute int           `envconfig:"ANCHOR_MINUTE" default:"0"`
	ListenAddr   string        `envconfig:"LISTEN_ADDR" default:"127.0.0.1:3000"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	DBTimeout    time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
	AutoGrant    bool          `envconfig:"AUTO_GRANT" default:"true"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = util.DataDir(AppName)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.AnchorHour < 0 || c.AnchorHour > 23 {
		return fmt.Errorf("NUDGE_ANCHOR_HOUR %d out of range 0..23", c.AnchorHour)
	}
	if c.AnchorMinute < 0 || c.AnchorMinute > 59 {
		return fmt.Errorf("NUDGE_ANCHOR_MINUTE %d out of range 0..59", c.AnchorMinute)
	}
	if _, err := time.LoadLocation(c.AnchorZone); err != nil {
		return fmt.Errorf("NUDGE_ANCHOR_ZONE: %w", err)
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("NUDGE_DB_TIMEOUT must be positive")
	}
	return nil
}

// DBPath resolves DBFile against DataDir unless it is absolute.
func (c Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, LogFile)
}

// Calculator builds the recurrence calculator for the configured anchor.
func (c Config) Calculator() (*recurrence.Calculator, error) {
	loc, err := time.LoadLocation(c.AnchorZone)
	if err != nil {
		return nil, fmt.Errorf("anchor zone: %w", err)
	}
	return recurrence.New(loc, c.AnchorHour, c.AnchorMinute), nil
}
