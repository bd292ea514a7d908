// Package cmd provides the CLI commands for basket.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"basket-pricer/core/ui"
	"basket-pricer/internal/config"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	forceInit bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "basket",
	Short: "Price shopping baskets",
	Long: `basket prices a shopping basket against a product catalog,
quantity offers and tiered delivery charges.

The catalog, offers and delivery tiers are read from a pricing file
(.hcl or .json). Settings may be overridden with BASKET_* environment
variables.

Examples:
  basket total R01 G01
  basket total --pricing widgets.hcl --details R01,R01,B01
  basket total --format json B01 B01 R01
  basket catalog`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.basket-pricer.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(totalCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
}

func initConfig() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "basket version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(config.Get())
	},
}

// configInitCmd writes the default configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		return writeDefaultConfig(cmd.OutOrStdout(), path, forceInit, config.Get().Output.NoColor)
	},
}

func writeDefaultConfig(out io.Writer, path string, force, noColor bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Newf(errors.TypeConfig, "%s already exists, use --force to overwrite", path)
	}
	if err := config.Default().Save(path); err != nil {
		return errors.Config("failed to write "+path, err)
	}
	ui.NewWriter(out, noColor).Success("wrote %s", path)
	return nil
}
