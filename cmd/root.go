package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clf-downloader/clf/internal/config"
	"github.com/clf-downloader/clf/internal/core"
	"github.com/clf-downloader/clf/internal/utils"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// settings is the effective configuration for the running command,
// loaded in PersistentPreRunE.
var settings *config.Settings

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "clf",
	Short:   "Watch and start comic downloads on a clf server",
	Long:    `clf is a terminal client for the comic-library fetcher. It shows the progress of running downloads and starts new ones.`,
	Version: Version,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = s
		core.Version = Version
		return initializeGlobalState(s)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, nil)
	},
}

// loadSettings layers the settings file, CLF_* variables and the global flags.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := viper.New()
	flags := cmd.Flags()
	for key, name := range map[string]string{
		"server.base_url":   "server",
		"polling.interval":  "interval",
		"general.debug_log": "debug",
	} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	s, err := config.LoadSettingsWith(v, config.GetSettingsPath())
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// initializeGlobalState creates the config directories and configures logging
func initializeGlobalState(s *config.Settings) error {
	if err := config.EnsureDirs(); err != nil {
		return err
	}
	if !s.General.DebugLog {
		return utils.ConfigureDebug("")
	}
	return utils.ConfigureDebug(filepath.Join(config.GetLogsDir(), "debug.log"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("server", config.DefaultBaseURL, "Base URL of the clf server")
	rootCmd.PersistentFlags().Duration("interval", config.DefaultInterval, "Delay between two progress polls")
	rootCmd.PersistentFlags().Bool("debug", false, "Write a debug log to the clf logs directory")
	addWatchFlags(rootCmd)
	rootCmd.SetVersionTemplate("clf version {{.Version}}\n")
}
