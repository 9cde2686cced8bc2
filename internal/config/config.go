// Package config holds the data-root layout and logging settings, loaded
// from defaults, an optional TOML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPath is the config file looked up in the working directory.
	DefaultPath = "ls-mission.toml"

	// EnvRoot overrides the data root.
	EnvRoot = "LS_MISSION_ROOT"

	// EnvLogLevel overrides the log level.
	EnvLogLevel = "LS_MISSION_LOG_LEVEL"
)

// Config is the full application configuration. Every component receives
// the data root from here rather than assuming the working directory.
type Config struct {
	Root     string `toml:"root"`
	LogLevel string `toml:"log_level"`
	Files    Files  `toml:"files"`
	Dirs     Dirs   `toml:"dirs"`
}

// Files names the data files under Root.
type Files struct {
	Journal   string `toml:"journal"`
	Alerts    string `toml:"alerts"`
	Missions  string `toml:"missions"`
	Telemetry string `toml:"telemetry"`
	Bodies    string `toml:"bodies"` // optional celestial body dataset
}

// Dirs names the subdirectories of Root.
type Dirs struct {
	Reports  string `toml:"reports"`
	Archives string `toml:"archives"`
}

// DefaultConfig returns the layout of a stock mission_data directory.
func DefaultConfig() Config {
	return Config{
		Root:     "mission_data",
		LogLevel: "info",
		Files: Files{
			Journal:   "journal_bord.txt",
			Alerts:    "alertes.txt",
			Missions:  "missions.json",
			Telemetry: "telemetrie.json",
			Bodies:    "corps_celestes.json",
		},
		Dirs: Dirs{
			Reports:  "rapports",
			Archives: "archives",
		},
	}
}

// Load overlays the TOML file at path on the defaults. Keys the file sets
// replace defaults; keys it omits keep them. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// ApplyEnv applies environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRoot); v != "" {
		c.Root = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that every path component is set.
func (c Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{"root", c.Root},
		{"files.journal", c.Files.Journal},
		{"files.alerts", c.Files.Alerts},
		{"files.missions", c.Files.Missions},
		{"files.telemetry", c.Files.Telemetry},
		{"dirs.reports", c.Dirs.Reports},
		{"dirs.archives", c.Dirs.Archives},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s must not be empty", r.key)
		}
	}
	return nil
}

// Path joins name onto the data root.
func (c Config) Path(name string) string {
	return filepath.Join(c.Root, name)
}

func (c Config) JournalPath() string   { return c.Path(c.Files.Journal) }
func (c Config) AlertsPath() string    { return c.Path(c.Files.Alerts) }
func (c Config) MissionsPath() string  { return c.Path(c.Files.Missions) }
func (c Config) TelemetryPath() string { return c.Path(c.Files.Telemetry) }
func (c Config) ArchivesPath() string  { return c.Path(c.Dirs.Archives) }

// BodiesPath returns the body dataset path, or "" when none is configured.
func (c Config) BodiesPath() string {
	if c.Files.Bodies == "" {
		return ""
	}
	return c.Path(c.Files.Bodies)
}
