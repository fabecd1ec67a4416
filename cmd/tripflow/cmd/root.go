// Package cmd implements the tripflow CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chauffeurhq/tripflow/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool
	logLevel   string

	// Version is the CLI version set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tripflow",
	Short: "Chauffeur itinerary reconciliation",
	Long: `Tripflow merges free-form trip update proposals into a canonical
chauffeur itinerary: matching update entries against existing waypoints,
protecting the pickup and dropoff, planning anchored insertions and keyword
removals, and repairing coordinates that drifted out of sync with their
address.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version, Commit, Date = version, commit, date
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.tripflow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings and errors only")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "explicit log level (trace|debug|info|warn|error)")

	rootCmd.PersistentFlags().String("region", "", "operating region name (default london)")
	rootCmd.PersistentFlags().String("regions-file", "", "region table YAML overriding the embedded defaults")
	rootCmd.PersistentFlags().String("geocode-url", "", "geocoding service base URL")
	rootCmd.PersistentFlags().Int("repair-workers", 0, "max concurrent geocoding calls during repair")

	for flag, key := range map[string]string{
		"region":         "region",
		"regions-file":   "regions_file",
		"geocode-url":    "geocode.base_url",
		"repair-workers": "repair_workers",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", flag, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tripflow")
	}

	// .env files load before Viper env binding; .env.local wins.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// configureLogging sets up the logging system. Precedence: --log-level, then
// -v/-q, then LOG_LEVEL, then info.
func configureLogging() {
	level := zerolog.InfoLevel
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if logLevel != "" {
		if parsed, err := zerolog.ParseLevel(logLevel); err == nil {
			level = parsed
		} else {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", logLevel, level)
		}
	}

	logging.Configure(&logging.Config{
		Level:     level.String(),
		Format:    "auto",
		Output:    "stderr",
		AddCaller: level <= zerolog.DebugLevel,
	})
}
