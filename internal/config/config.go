package config

import (
	"errors"
	"fmt"
	"os"

	"comptoir/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Reporting  ReportingConfig  `yaml:"reporting"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// ReportingConfig sets the capacity assumptions behind the occupancy
// indicator: how many bookable hours a space offers per day and how
// many business days a month counts.
type ReportingConfig struct {
	HoursPerDay  int `yaml:"hours_per_day"`
	BusinessDays int `yaml:"business_days"`
}

type ExportConfig struct {
	Path            string `yaml:"path"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Expand environment variables before unmarshalling
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Reporting.HoursPerDay <= 0 || c.Reporting.HoursPerDay > 24 {
		return fmt.Errorf("reporting hours_per_day must be between 1 and 24, got %d", c.Reporting.HoursPerDay)
	}
	if c.Reporting.BusinessDays <= 0 || c.Reporting.BusinessDays > 31 {
		return fmt.Errorf("reporting business_days must be between 1 and 31, got %d", c.Reporting.BusinessDays)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "comptoir"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Reporting.HoursPerDay == 0 {
		c.Reporting.HoursPerDay = models.DefaultHoursPerDay
	}
	if c.Reporting.BusinessDays == 0 {
		c.Reporting.BusinessDays = models.DefaultBusinessDays
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Exports.IntervalSeconds == 0 {
		c.Exports.IntervalSeconds = models.DefaultExportIntervalSeconds
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}
}
