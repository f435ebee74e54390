package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"covid-warehouse/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Storage backend kinds.
const (
	BackendMySQL  = "mysql"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config is the full pipeline configuration, loaded from YAML with
// environment overrides applied on top. Credentials never live in code.
type Config struct {
	Storage  StorageConfig     `yaml:"storage"`
	Tracking TrackingConfig    `yaml:"tracking"`
	Fetch    FetchConfig       `yaml:"fetch"`
	Schedule ScheduleConfig    `yaml:"schedule"`
	Datasets map[string]string `yaml:"datasets"` // optional URL override per dataset name
}

// StorageConfig selects the warehouse backend and configures it.
type StorageConfig struct {
	Backend string         `yaml:"backend"` // mysql, file or memory
	DB      DatabaseConfig `yaml:"db"`
	File    FileConfig     `yaml:"file"`
}

// DatabaseConfig holds the relational backend connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// FileConfig holds the columnar file backend settings.
type FileConfig struct {
	Dir string `yaml:"dir"`
}

// TrackingConfig locates the run-tracking database.
type TrackingConfig struct {
	Path string `yaml:"path"`
}

// FetchConfig controls the remote dataset fetcher.
type FetchConfig struct {
	Timeout      string `yaml:"timeout"`      // e.g. "2m"
	MaxAttempts  int    `yaml:"maxAttempts"`  // total attempts, including the first
	InitialDelay string `yaml:"initialDelay"` // backoff base, e.g. "1s"
}

// ScheduleConfig controls the scheduled run mode.
type ScheduleConfig struct {
	Interval string `yaml:"interval"` // e.g. "24h"
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			DB:      DatabaseConfig{Host: "localhost", Port: 3306, User: "root"},
			File:    FileConfig{Dir: "model"},
		},
		Tracking: TrackingConfig{Path: "warehouse.db"},
		Fetch:    FetchConfig{Timeout: "2m", MaxAttempts: 3, InitialDelay: "1s"},
		Schedule: ScheduleConfig{Interval: "24h"},
	}
}

// Load reads the YAML config at path (if any) and applies environment
// overrides. An empty path yields the defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environment overrides, mirroring the connection surface the pipeline has
// always been driven by: driver, server, user, password.
func (c *Config) applyEnv() {
	if v := os.Getenv("WAREHOUSE_DRIVER"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("WAREHOUSE_SERVER"); v != "" {
		c.Storage.DB.Host = v
	}
	if v := os.Getenv("WAREHOUSE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Storage.DB.Port = port
		}
	}
	if v := os.Getenv("WAREHOUSE_USER"); v != "" {
		c.Storage.DB.User = v
	}
	if v := os.Getenv("WAREHOUSE_PASSWORD"); v != "" {
		c.Storage.DB.Password = v
	}
	if v := os.Getenv("WAREHOUSE_DATA_DIR"); v != "" {
		c.Storage.File.Dir = v
	}
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case BackendMySQL, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendFile && c.Storage.File.Dir == "" {
		return fmt.Errorf("file backend requires storage.file.dir")
	}
	return nil
}

// FetchTimeout returns the parsed fetch timeout.
func (c Config) FetchTimeout() time.Duration {
	return utils.ParseDuration(c.Fetch.Timeout, 2*time.Minute)
}

// FetchInitialDelay returns the parsed retry backoff base.
func (c Config) FetchInitialDelay() time.Duration {
	return utils.ParseDuration(c.Fetch.InitialDelay, time.Second)
}

// ScheduleInterval returns the parsed scheduled-mode interval.
func (c Config) ScheduleInterval() time.Duration {
	return utils.ParseDuration(c.Schedule.Interval, 24*time.Hour)
}
