package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Security.EnableCORS)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "participant_data", cfg.Sheets.WorksheetName)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: true,
		},
		{
			name:   "unknown log output falls back to console",
			mutate: func(c *Config) { c.Logging.Output = "syslog" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeConfigs_EnvWins(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Paths.DataDir = "/srv/data"
	fileCfg.Sheets.SpreadsheetID = "file-sheet"

	envCfg := Config{}
	envCfg.Server.Port = 8081
	envCfg.Sheets.SpreadsheetID = "env-sheet"

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 8081, merged.Server.Port, "env value takes precedence")
	assert.Equal(t, "/srv/data", merged.Paths.DataDir, "file value fills the gap")
	assert.Equal(t, "env-sheet", merged.Sheets.SpreadsheetID)
}

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base)

	assert.Equal(t, filepath.Join(base, "data", "input"), paths.InputDir)
	assert.Equal(t, filepath.Join(base, "data", "processed"), paths.ProcessedDir)
	assert.Equal(t, filepath.Join(paths.InputDir, ParticipantsFile), paths.ParticipantsPath())
	assert.Equal(t, filepath.Join(paths.ProcessedDir, TimelineFile), paths.TimelinePath())
	assert.Equal(t, filepath.Join(paths.ProcessedDir, WorkbookFile), paths.WorkbookPath())

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.InputDir)
	assert.DirExists(t, paths.ProcessedDir)
	assert.DirExists(t, paths.LogsDir)
}
