package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper() {
	viper.Reset()
	bindFlags(rootCmd)
	bindEnv()
}

func setenv(t *testing.T, env map[string]string) func() {
	for k, v := range env {
		require.NoError(t, os.Setenv(k, v))
	}
	return func() {
		for k := range env {
			_ = os.Unsetenv(k)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	resetViper()
	cfg, err := newConfig()
	require.NoError(t, err)

	assert.Equal(t, "..", cfg.Workspace)
	assert.Empty(t, cfg.BaselineCommit)
	assert.Empty(t, cfg.BaselineSubject)
	assert.Equal(t, "youtube-thumbnails-dataset", cfg.Bucket)
	assert.Equal(t, ".env", cfg.CredentialsFile)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, []string{"current", "batches", ".dvc/cache", ".rotate"}, cfg.PurgePaths)
	assert.Equal(t, 1000, cfg.PageSize)
	assert.Equal(t, 2*time.Minute, cfg.GitTimeout)
	assert.Equal(t, 5*time.Minute, cfg.StoreTimeout)
	assert.False(t, cfg.AssumeYes)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Report)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigFromFlags(t *testing.T) {
	saved := datareset
	defer func() { datareset = saved }()
	viper.Reset()
	cmd := &cobra.Command{Use: "test"}
	addBaselineFlag(cmd)
	addPurgePathsFlag(cmd)
	addPageSizeFlag(cmd)
	addAssumeYesFlag(cmd)
	addGitTimeoutFlag(cmd)
	addStoreTimeoutFlag(cmd)
	addLogLevel(cmd)
	bindFlags(cmd)

	require.NoError(t, cmd.ParseFlags([]string{
		"--baseline-commit", " 4b825dc ",
		"--purge-paths", "current,batches",
		"--page-size", "50",
		"-y",
		"--loglevel", "debug",
	}))

	cfg, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, "4b825dc", cfg.BaselineCommit)
	assert.Equal(t, []string{"current", "batches"}, cfg.PurgePaths)
	assert.Equal(t, 50, cfg.PageSize)
	assert.True(t, cfg.AssumeYes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Minute, cfg.GitTimeout)
}

func TestConfigFromEnv(t *testing.T) {
	defer setenv(t, map[string]string{
		"DATARESET_BASELINE_COMMIT": "4b825dc",
		"DATARESET_PURGE_PATHS":     "current, .rotate,",
		"DATARESET_GIT_TIMEOUT":     "30s",
		"DATARESET_DRY_RUN":         "true",
		"DATARESET_BUCKET":          "thumbnails-staging",
	})()
	resetViper()

	cfg, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, "4b825dc", cfg.BaselineCommit)
	assert.Equal(t, []string{"current", ".rotate"}, cfg.PurgePaths)
	assert.Equal(t, 30*time.Second, cfg.GitTimeout)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "thumbnails-staging", cfg.Bucket)
	assert.Equal(t, "origin", cfg.Remote)
}

func TestConfigFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "datareset-config")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(dir) }()

	file := filepath.Join(dir, "datareset.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte(`
workspace: /srv/thumbnails/dataset
baseline-commit: 4b825dc642cb
baseline-subject: Initial dataset layout
purge-paths:
  - current
  - batches
store-timeout: 30s
report: /var/log/datareset.yaml
`), 0600))

	defer setenv(t, map[string]string{"DATARESET_BASELINE_COMMIT": "9fceb02"})()
	resetViper()
	viper.SetConfigFile(file)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/thumbnails/dataset", cfg.Workspace)
	assert.Equal(t, "9fceb02", cfg.BaselineCommit, "environment takes precedence over the config file")
	assert.Equal(t, "Initial dataset layout", cfg.BaselineSubject)
	assert.Equal(t, []string{"current", "batches"}, cfg.PurgePaths)
	assert.Equal(t, 30*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "/var/log/datareset.yaml", cfg.Report)
	assert.Equal(t, 2*time.Minute, cfg.GitTimeout)
}

func TestConfigInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
	}{
		{"negative page size", map[string]string{"DATARESET_PAGE_SIZE": "-1"}},
		{"zero git timeout", map[string]string{"DATARESET_GIT_TIMEOUT": "0s"}},
		{"zero store timeout", map[string]string{"DATARESET_STORE_TIMEOUT": "0"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			defer setenv(t, tc.env)()
			resetViper()

			_, err := newConfig()
			assert.Error(t, err)
		})
	}
}

func TestResetConfig(t *testing.T) {
	cfg := CLIConfig{
		Workspace:      "/srv/thumbnails/dataset",
		BaselineCommit: "4b825dc",
		PurgePaths:     []string{"current"},
		PageSize:       10,
		DryRun:         true,
		AssumeYes:      true,
	}
	rc := cfg.resetConfig()
	assert.Equal(t, "/srv/thumbnails/dataset", rc.Workspace)
	assert.Equal(t, "4b825dc", rc.BaselineCommit)
	assert.Equal(t, []string{"current"}, rc.PurgePaths)
	assert.Equal(t, 10, rc.PageSize)
	assert.True(t, rc.DryRun)
}
