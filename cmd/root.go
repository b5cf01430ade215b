package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/greengrocer/internal/models"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "greengrocer",
	Short: "Backend for a fresh produce storefront",
	Long: `greengrocer serves the produce catalog, favorites list, checkout and
delivery tracking of an online greengrocer, and can run the delivery
simulation headless to stream vehicle location events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		setupLogging(cfg.LogLevel, cfg.LogFormat)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("Using config file")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.greengrocer.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")

	rootCmd.AddCommand(serveCmd, trackCmd, catalogCmd)
}

// flagBindings maps config keys to flag names per command. Subcommands share
// keys such as output.format, so only the running command's flags are bound.
var flagBindings = map[string]map[string]string{
	"serve": {
		"server.listen":   "listen",
		"storage.backend": "storage",
		"output.format":   "output",
	},
	"track": {
		"tracking.steps":         "steps",
		"tracking.tick_interval": "tick",
		"tracking.seed":          "seed",
		"output.format":          "output",
	},
}

func bindFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := viper.BindPFlag("log_format", cmd.Flags().Lookup("log-format")); err != nil {
		return err
	}
	for key, name := range flagBindings[cmd.Name()] {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func setupLogging(level, format string) {
	if !strings.EqualFold(format, "json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(lvl)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
