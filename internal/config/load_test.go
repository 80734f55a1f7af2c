package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("SNAPKEEPER_POOL", "tank/data")

	cfg, err := Load(writeConfig(t, `
volumes:
  - id: main
    path: $(SNAPKEEPER_POOL)
    prefix: data
    backend: zfs
policy:
  keepDaily: 7
  keepWeekly: 4
`))
	require.NoError(t, err)
	require.Len(t, cfg.Volumes, 1)
	assert.Equal(t, "tank/data", cfg.Volumes[0].Path)
	assert.Equal(t, 7, cfg.Policy.KeepDaily)
	assert.Equal(t, 4, cfg.Policy.KeepWeekly)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "volumes: []\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "auto", cfg.Gate.Watch.Mode)
	assert.Equal(t, 5*time.Second, cfg.Gate.Watch.PollInterval)
}

func TestLoadRejectsMissingFileAndBadYAML(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "volumes: ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := VolumeConfig{ID: "main", Path: "/mnt/main", Prefix: "data", Backend: "btrfs"}

	cases := []struct {
		name    string
		volumes []VolumeConfig
		wantErr string
	}{
		{"empty volume list", nil, "no volumes configured"},
		{"ok", []VolumeConfig{good}, ""},
		{"missing id", []VolumeConfig{{Path: "/mnt", Prefix: "data", Backend: "zfs"}}, "id must not be empty"},
		{"missing path", []VolumeConfig{{ID: "x", Prefix: "data", Backend: "zfs"}}, "path must not be empty"},
		{"missing prefix", []VolumeConfig{{ID: "x", Path: "/mnt", Backend: "zfs"}}, "prefix must not be empty"},
		{"prefix with separator", []VolumeConfig{{ID: "x", Path: "/mnt", Prefix: "da@ta", Backend: "zfs"}}, "must not contain"},
		{"bad backend", []VolumeConfig{{ID: "x", Path: "/mnt", Prefix: "data", Backend: "tape"}}, "unknown backend"},
		{"duplicate id", []VolumeConfig{good, good}, "duplicate volume id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateVolumes(tc.volumes)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestConfigValidateCoversPolicy(t *testing.T) {
	cfg := Config{
		Volumes: []VolumeConfig{{ID: "main", Path: "/mnt/main", Prefix: "data", Backend: "btrfs"}},
	}
	cfg.Policy.KeepYearly = -2
	assert.ErrorContains(t, cfg.Validate(), "non-negative")
}
