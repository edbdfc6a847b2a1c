package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type HealthConfig struct {
	HighMemMiB      uint64  `mapstructure:"high_mem_mib"`
	HighCPUPercent  float64 `mapstructure:"high_cpu_percent"`
	LongRunningDays int     `mapstructure:"long_running_days"`
}

type SecurityConfig struct {
	SuspiciousPaths []string `mapstructure:"suspicious_paths"`
}

type SnapshotConfig struct {
	MaxAge time.Duration `mapstructure:"max_age"`
}

type ScanConfig struct {
	PerProcessTimeout time.Duration `mapstructure:"per_process_timeout"`
	MaxProcesses      int           `mapstructure:"max_processes"`
	Concurrency       int           `mapstructure:"concurrency"`
}

type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type DockerConfig struct {
	ResolveNames bool          `mapstructure:"resolve_names"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Health   HealthConfig   `mapstructure:"health"`
	Security SecurityConfig `mapstructure:"security"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Docker   DockerConfig   `mapstructure:"docker"`
	Log      LogConfig      `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("health.high_mem_mib", 1024)
	v.SetDefault("health.high_cpu_percent", 80.0)
	v.SetDefault("health.long_running_days", 90)
	v.SetDefault("security.suspicious_paths", []string{"/tmp/**", "/var/tmp/**", "/dev/shm/**"})
	v.SetDefault("snapshot.max_age", 2*time.Second)
	v.SetDefault("scan.per_process_timeout", 2*time.Second)
	v.SetDefault("scan.max_processes", 0)
	v.SetDefault("scan.concurrency", 8)
	v.SetDefault("watch.interval", 2*time.Second)
	v.SetDefault("docker.resolve_names", true)
	v.SetDefault("docker.timeout", 500*time.Millisecond)
	v.SetDefault("log.level", "warn")
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, _ := load(viper.New(), "")
	return cfg
}

// Load reads witr.yaml from configFile when set, otherwise from the first of
// $XDG_CONFIG_HOME/witr, $HOME/.config/witr and the working directory.
// A missing file is not an error. WITR_* environment variables override
// file values, e.g. WITR_SCAN_PER_PROCESS_TIMEOUT=5s.
func Load(configFile string) (Config, error) {
	return load(viper.New(), configFile)
}

func load(v *viper.Viper, configFile string) (Config, error) {
	var cfg Config

	setDefaults(v)
	v.SetEnvPrefix("WITR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile == "" {
		configFile = findConfigFile(searchPaths())
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// configNames are the only file names looked up in the search paths. An
// extensionless "witr" is usually the binary itself and is never read.
var configNames = []string{"witr.yaml", "witr.yml"}

// findConfigFile returns the first regular witr.yaml or witr.yml in dirs.
func findConfigFile(dirs []string) string {
	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path
			}
		}
	}
	return ""
}

func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "witr"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "witr"))
	}
	return append(dirs, ".")
}

// LongRunning converts the configured day count to a duration.
func (h HealthConfig) LongRunning() time.Duration {
	return time.Duration(h.LongRunningDays) * 24 * time.Hour
}

// HighMemBytes converts the configured MiB threshold to bytes.
func (h HealthConfig) HighMemBytes() uint64 {
	return h.HighMemMiB * 1024 * 1024
}
