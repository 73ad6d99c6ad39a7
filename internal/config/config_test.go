package config

import (
	"os"
	"path/filepath"
	"testing"

	"comptoir/internal/models"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
database:
  path: "test.db"
reporting:
  hours_per_day: 8
exports:
  path: "out"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "test.db" {
		t.Errorf("expected database path test.db, got %s", cfg.Database.Path)
	}
	if cfg.Reporting.HoursPerDay != 8 {
		t.Errorf("expected hours_per_day 8, got %d", cfg.Reporting.HoursPerDay)
	}
	if cfg.Reporting.BusinessDays != models.DefaultBusinessDays {
		t.Errorf("expected default business_days %d, got %d", models.DefaultBusinessDays, cfg.Reporting.BusinessDays)
	}
	if cfg.Exports.Path != "out" {
		t.Errorf("expected exports path out, got %s", cfg.Exports.Path)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("COMPTOIR_DB_PATH", "env.db")

	yamlContent := `
database:
  path: "${COMPTOIR_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "env.db" {
		t.Errorf("expected database path env.db, got %s", cfg.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Database:  DatabaseConfig{Path: "path"},
				Reporting: ReportingConfig{HoursPerDay: 10, BusinessDays: 20},
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			cfg: Config{
				Reporting: ReportingConfig{HoursPerDay: 10, BusinessDays: 20},
			},
			wantErr: true,
		},
		{
			name: "hours per day out of range",
			cfg: Config{
				Database:  DatabaseConfig{Path: "path"},
				Reporting: ReportingConfig{HoursPerDay: 25, BusinessDays: 20},
			},
			wantErr: true,
		},
		{
			name: "business days out of range",
			cfg: Config{
				Database:  DatabaseConfig{Path: "path"},
				Reporting: ReportingConfig{HoursPerDay: 10, BusinessDays: 40},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Reporting.HoursPerDay != models.DefaultHoursPerDay {
		t.Errorf("expected default hours_per_day %d, got %d", models.DefaultHoursPerDay, cfg.Reporting.HoursPerDay)
	}
	if cfg.Reporting.BusinessDays != models.DefaultBusinessDays {
		t.Errorf("expected default business_days %d, got %d", models.DefaultBusinessDays, cfg.Reporting.BusinessDays)
	}
	if cfg.Exports.IntervalSeconds != models.DefaultExportIntervalSeconds {
		t.Errorf("expected default export interval %d, got %d", models.DefaultExportIntervalSeconds, cfg.Exports.IntervalSeconds)
	}
	if cfg.Backup.StoragePath != "backups" {
		t.Errorf("expected default backup storage path backups, got %s", cfg.Backup.StoragePath)
	}
}
