// Package cli wires the showcov commands: flag parsing, config-file
// defaults, and the mapping from build/threshold outcomes to process exit
// codes. Everything interesting happens in the internal packages it calls.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IgorBayerl/showcov/internal/logging"
)

// ErrThresholdNotMet is returned by commands after rendering when a
// configured coverage threshold failed. main maps it to exit code 2.
var ErrThresholdNotMet = errors.New("coverage threshold not met")

// configFileName is the base name of the optional per-project config file
// (.showcov.yaml) holding flag defaults.
const configFileName = ".showcov"

type rootState struct {
	verbosity string
	cfg       *viper.Viper
	logger    *slog.Logger
}

// NewShowcovCommand creates the root command for the showcov tool.
func NewShowcovCommand() *cobra.Command {
	state := &rootState{cfg: viper.New()}

	cmd := &cobra.Command{
		Use:           "showcov",
		Short:         "Report uncovered lines and branches from Cobertura coverage XML.",
		Long:          "showcov aggregates one or more Cobertura-style coverage reports into a\nunified view of uncovered statement ranges, branch gaps, per-file summaries\nand coverage diffs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, err := logging.ParseVerbosity(state.verbosity)
			if err != nil {
				return err
			}
			state.logger = logging.NewLogger(os.Stderr, verbosity)
			return state.loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&state.verbosity, "verbosity", "Warning",
		"logging verbosity (Verbose, Info, Warning, Error, Off)")

	cmd.AddCommand(newReportCommand(state))
	cmd.AddCommand(newDiffCommand(state))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig reads optional defaults from .showcov.yaml in the working
// directory. A missing file is fine; a broken one is not.
func (s *rootState) loadConfig() error {
	s.cfg.SetConfigName(configFileName)
	s.cfg.SetConfigType("yaml")
	s.cfg.AddConfigPath(".")

	if err := s.cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read %s.yaml: %w", configFileName, err)
	}
	s.logger.Debug("loaded config file", "path", s.cfg.ConfigFileUsed())
	return nil
}

// configString returns the flag value unless the flag was left at its
// default and the config file provides one.
func (s *rootState) configString(cmd *cobra.Command, flag, key, current string) string {
	if !cmd.Flags().Changed(flag) && s.cfg.IsSet(key) {
		return s.cfg.GetString(key)
	}
	return current
}

// configStrings merges config-file pattern lists into flag-provided ones.
func (s *rootState) configStrings(key string, current []string) []string {
	if s.cfg.IsSet(key) {
		return append(s.cfg.GetStringSlice(key), current...)
	}
	return current
}
