// Package commands implements the CLI commands for preen.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preenlabs/preen/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "preen",
	Short: "Deterministic cleaning for messy tabular data",
	Long: `Preen cleans tabular datasets through a fixed pipeline of
normalization stages and tells you exactly what it changed.

Point it at a CSV, Excel, JSON or HTML file (or URL) and get back the
cleaned data plus an audit of every correction: trimmed text, parsed
dates, normalized emails, removed duplicates and imputed values.

Examples:
  # Clean a CSV and write the result next to an audit
  preen clean data.csv -o cleaned.csv --audit audit.json

  # Clean a remote file into Excel
  preen clean https://example.com/export.csv -o cleaned.xlsx --format xlsx

  # Render a human-readable report of what changed
  preen report data.csv

  # Narrate the cleanup for a non-technical audience
  preen report data.csv --story casual

  # Run the HTTP API
  preen serve --addr :8080`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.preen.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON format")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".preen")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PREEN")
	viper.AutomaticEnv()

	// Also check common API key env vars
	_ = viper.BindEnv("api_key", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger installs the process logger from the global flags. Called
// at the top of every RunE.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
