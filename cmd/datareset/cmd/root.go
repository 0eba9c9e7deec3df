// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kardianos/osext"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd resets the dataset workspace when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "datareset",
	Short: "Datareset brings a dataset workspace back to its baseline",
	Long: `Datareset brings a dataset collection workspace back to its baseline state.

It runs the following stages, in order:
	* locate the workspace (relative to the executable by default)
	* purge collected data: current, batches, the DVC cache and the rotation marker
	* delete every git tag, locally and on the remote
	* hard reset the repository to the baseline commit
	* empty the object store bucket, using the credentials found in the workspace .env file
	* after confirmation, force-push the branch and tags to the remote

Failing to locate the workspace, to purge local data or to reset the repository aborts the run with exit code 1.
Tag and bucket failures are reported, and the run goes on.

This is destructive. Use --dry-run to see what would be done.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		registerSIGINTHandler(ctx, cancel)

		if code := runReset(ctx, config, os.Stdin, os.Stdout); code != 0 {
			osExit(code)
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addWorkspaceFlag(rootCmd)
	addBaselineFlag(rootCmd)
	addBaselineSubjectFlag(rootCmd)
	addBucketFlag(rootCmd)
	addCredentialsFileFlag(rootCmd)
	addRemoteFlag(rootCmd)
	addBranchFlag(rootCmd)
	addPurgePathsFlag(rootCmd)
	addPageSizeFlag(rootCmd)
	addGitTimeoutFlag(rootCmd)
	addStoreTimeoutFlag(rootCmd)
	addAssumeYesFlag(rootCmd)
	addDryRunFlag(rootCmd)
	addReportFlag(rootCmd)
	addLogLevel(rootCmd)
	bindFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	bindEnv()

	if os.Getenv("DATARESET_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("DATARESET_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.datareset")
		if dir, err := osext.ExecutableFolder(); err == nil {
			viper.AddConfigPath(filepath.Clean(dir))
		}
		viper.SetConfigName("datareset")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	} else if os.Getenv("DATARESET_CONFIG") != "" {
		wrapFatalln("cannot read config file "+os.Getenv("DATARESET_CONFIG"), err)
		return
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
	}
}
