package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/oneconcern/datareset/pkg/reset"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration, merged from flags, DATARESET_* environment variables
// and the datareset config file.
type CLIConfig struct {
	Workspace       string        `yaml:"workspace"`
	BaselineCommit  string        `yaml:"baseline-commit"`
	BaselineSubject string        `yaml:"baseline-subject"`
	Bucket          string        `yaml:"bucket"`
	CredentialsFile string        `yaml:"credentials-file"`
	Remote          string        `yaml:"remote"`
	Branch          string        `yaml:"branch"`
	PurgePaths      []string      `yaml:"purge-paths"`
	PageSize        int           `yaml:"page-size"`
	GitTimeout      time.Duration `yaml:"git-timeout"`
	StoreTimeout    time.Duration `yaml:"store-timeout"`
	AssumeYes       bool          `yaml:"assume-yes"`
	DryRun          bool          `yaml:"dry-run"`
	Report          string        `yaml:"report"`
	LogLevel        string        `yaml:"loglevel"`
}

func newConfig() (*CLIConfig, error) {
	config := CLIConfig{
		Workspace:       viper.GetString(keyWorkspace),
		BaselineCommit:  strings.TrimSpace(viper.GetString(keyBaseline)),
		BaselineSubject: viper.GetString(keyBaselineSubject),
		Bucket:          viper.GetString(keyBucket),
		CredentialsFile: viper.GetString(keyCredentialsFile),
		Remote:          viper.GetString(keyRemote),
		Branch:          viper.GetString(keyBranch),
		PurgePaths:      getStringList(keyPurgePaths),
		PageSize:        viper.GetInt(keyPageSize),
		GitTimeout:      viper.GetDuration(keyGitTimeout),
		StoreTimeout:    viper.GetDuration(keyStoreTimeout),
		AssumeYes:       viper.GetBool(keyAssumeYes),
		DryRun:          viper.GetBool(keyDryRun),
		Report:          viper.GetString(keyReport),
		LogLevel:        viper.GetString(keyLogLevel),
	}
	if config.PageSize < 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", keyPageSize, config.PageSize)
	}
	if config.GitTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %v", keyGitTimeout, config.GitTimeout)
	}
	if config.StoreTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %v", keyStoreTimeout, config.StoreTimeout)
	}
	return &config, nil
}

// getStringList accepts a comma separated string as well as a list, so that
// DATARESET_PURGE_PATHS=current,batches works like the flag and the config file.
func getStringList(key string) []string {
	raw, ok := viper.Get(key).(string)
	if !ok {
		return viper.GetStringSlice(key)
	}
	var list []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func (c *CLIConfig) resetConfig() reset.Config {
	return reset.Config{
		Workspace:       c.Workspace,
		BaselineCommit:  c.BaselineCommit,
		BaselineSubject: c.BaselineSubject,
		Bucket:          c.Bucket,
		CredentialsFile: c.CredentialsFile,
		Remote:          c.Remote,
		Branch:          c.Branch,
		PurgePaths:      c.PurgePaths,
		PageSize:        c.PageSize,
		DryRun:          c.DryRun,
	}
}
