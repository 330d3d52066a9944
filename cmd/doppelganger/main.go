// Command doppelganger resolves cross-platform identity clusters from
// harvested profile batches.
//
// Usage:
//
//	doppelganger analyze profiles.json
//	doppelganger analyze profiles.json --merge-floor 60 --db runs.db
//	doppelganger variations jane.doe
package main

import (
	"fmt"
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "doppelganger",
	Short: "Cross-platform social identity resolution.",
	Long: `doppelganger takes profile records harvested from different social
platforms and resolves which of them belong to the same real-world
identity, using fuzzy identifier matching, stylometry, content
fingerprints, and posting-behavior correlation.

The output is a probabilistic hypothesis with a numeric confidence,
never a certainty.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.doppelganger.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "info", "log level: debug, info, warn, error")
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".doppelganger")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("doppelganger")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig() //nolint:errcheck // optional config
}

// newLogger builds the process logger from the --loglevel flag.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
