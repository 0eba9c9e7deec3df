// Copyright © 2018 One Concern

package cmd

import (
	"strings"
	"time"

	"github.com/oneconcern/datareset/pkg/reset"
	"github.com/oneconcern/datareset/pkg/storage"
	"github.com/oneconcern/datareset/pkg/vcs/gitcli"
	"github.com/oneconcern/datareset/pkg/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configuration keys, also the flag names
const (
	keyWorkspace       = "workspace"
	keyBaseline        = "baseline-commit"
	keyBaselineSubject = "baseline-subject"
	keyBucket          = "bucket"
	keyCredentialsFile = "credentials-file"
	keyRemote          = "remote"
	keyBranch          = "branch"
	keyPurgePaths      = "purge-paths"
	keyPageSize        = "page-size"
	keyGitTimeout      = "git-timeout"
	keyStoreTimeout    = "store-timeout"
	keyAssumeYes       = "assume-yes"
	keyDryRun          = "dry-run"
	keyReport          = "report"
	keyLogLevel        = "loglevel"
)

// DefaultStoreTimeout bounds every call to the object store
const DefaultStoreTimeout = 5 * time.Minute

type flagsT struct {
	reset struct {
		Workspace       string
		BaselineCommit  string
		BaselineSubject string
		Bucket          string
		CredentialsFile string
		Remote          string
		Branch          string
		PurgePaths      []string
		PageSize        int
		AssumeYes       bool
		DryRun          bool
	}
	root struct {
		logLevel     string
		report       string
		gitTimeout   time.Duration
		storeTimeout time.Duration
	}
}

var datareset = flagsT{}

// bindFlags makes every flag of the command a configuration key, with the flag default as the default value
func bindFlags(cmd *cobra.Command) {
	bind := func(flag *pflag.Flag) {
		_ = viper.BindPFlag(flag.Name, flag)
	}
	cmd.Flags().VisitAll(bind)
	cmd.PersistentFlags().VisitAll(bind)
}

// bindEnv reads DATARESET_* environment variables, with dashes in keys turned into underscores
func bindEnv() {
	viper.SetEnvPrefix("datareset")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addWorkspaceFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.Workspace, keyWorkspace, reset.DefaultWorkspace,
		"The workspace directory. A relative path is resolved against the folder of the datareset executable")
	return keyWorkspace
}

func addBaselineFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.BaselineCommit, keyBaseline, "",
		"The commit to reset the repository to (required)")
	return keyBaseline
}

func addBaselineSubjectFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.BaselineSubject, keyBaselineSubject, "",
		"When set, the subject line the baseline commit must have")
	return keyBaselineSubject
}

func addBucketFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.Bucket, keyBucket, reset.DefaultBucket, "The bucket to empty")
	return keyBucket
}

func addCredentialsFileFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.CredentialsFile, keyCredentialsFile, reset.DefaultCredentialsFile,
		"The object store credentials file, relative to the workspace")
	return keyCredentialsFile
}

func addRemoteFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.Remote, keyRemote, reset.DefaultRemote, "The git remote holding tags and the published branch")
	return keyRemote
}

func addBranchFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.reset.Branch, keyBranch, reset.DefaultBranch, "The branch to publish")
	return keyBranch
}

func addPurgePathsFlag(cmd *cobra.Command) string {
	cmd.Flags().StringSliceVar(&datareset.reset.PurgePaths, keyPurgePaths, workspace.DefaultPurgePaths,
		"Workspace relative paths to remove")
	return keyPurgePaths
}

func addPageSizeFlag(cmd *cobra.Command) string {
	cmd.Flags().IntVar(&datareset.reset.PageSize, keyPageSize, storage.MaxPageSize,
		"The number of objects listed and deleted at once (at most 1000)")
	return keyPageSize
}

func addGitTimeoutFlag(cmd *cobra.Command) string {
	cmd.Flags().DurationVar(&datareset.root.gitTimeout, keyGitTimeout, gitcli.DefaultTimeout, "Timeout for each git command")
	return keyGitTimeout
}

func addStoreTimeoutFlag(cmd *cobra.Command) string {
	cmd.Flags().DurationVar(&datareset.root.storeTimeout, keyStoreTimeout, DefaultStoreTimeout, "Timeout for each object store request")
	return keyStoreTimeout
}

func addAssumeYesFlag(cmd *cobra.Command) string {
	cmd.Flags().BoolVarP(&datareset.reset.AssumeYes, keyAssumeYes, "y", false, "Publish without asking for confirmation")
	return keyAssumeYes
}

func addDryRunFlag(cmd *cobra.Command) string {
	cmd.Flags().BoolVar(&datareset.reset.DryRun, keyDryRun, false, "Report what would be done, without changing anything")
	return keyDryRun
}

func addReportFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&datareset.root.report, keyReport, "", "Write a YAML report of the run to this file")
	return keyReport
}

func addLogLevel(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&datareset.root.logLevel, keyLogLevel, "info", "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return keyLogLevel
}
