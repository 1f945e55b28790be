package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openfra/fra-atlas/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fra-atlas",
	Short: "FRA Atlas - Forest Rights Act claims aggregation and decision support",
	Long: `FRA Atlas aggregates Forest Rights Act claims data from government
open-data endpoints into one canonical collection, and serves it over a
REST API with filtering, exports, boundary layers, document OCR, and a
decision-support rule engine.

Sources disagree on schemas and vintages; the atlas normalizes what each
endpoint reports and keeps partial failures visible instead of hiding them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for FRA Atlas.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fra-atlas v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.fra-atlas/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.fra-atlas")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match FRA_ATLAS_*
	viper.SetEnvPrefix("FRA_ATLAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then environment variables. Command flags apply on top.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	// The gateway key never ships with the binary; it arrives through the
	// config file or this variable.
	if key := os.Getenv("FRA_ATLAS_GATEWAY_API_KEY"); key != "" {
		cfg.Gateway.APIKey = key
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// newLogger builds the stderr logger for one-shot commands. Pipeline progress
// stays quiet unless --verbose is set; warnings always surface.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
