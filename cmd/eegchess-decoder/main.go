// Package main is the headless companion CLI for EEGChess. It runs the
// SSVEP decoding pipeline without the GUI: calibrating profiles,
// simulating decoder sessions, replaying recorded EEG and checking the
// move generator.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quangh/eegchess/internal/bci"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the eegchess-decoder CLI.
var rootCmd = &cobra.Command{
	Use:   "eegchess-decoder",
	Short: "Headless tools for the EEGChess SSVEP decoder",
	Long: `eegchess-decoder runs the EEGChess decoding pipeline outside the GUI.

Use calibrate to train a classifier profile, simulate to exercise the
decoder against a synthetic EEG source, replay to decode a recorded
CSV session, and perft to verify the chess move generator.

Decoder parameters come from eegchess.yaml or EEGCHESS_* environment
variables; flags override both.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./eegchess.yaml or ~/.config/eegchess/eegchess.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("eegchess")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "eegchess"))
		}
	}

	def := bci.DefaultConfig()
	viper.SetDefault("sample_rate", def.SampleRate)
	viper.SetDefault("channels", def.Channels)
	viper.SetDefault("window_size", def.WindowSize)
	viper.SetDefault("window_step", def.WindowStep)
	viper.SetDefault("frequencies", def.Frequencies)
	viper.SetDefault("harmonics", def.Harmonics)
	viper.SetDefault("dwell_count", def.DwellCount)
	viper.SetDefault("min_confidence", def.MinConfidence)

	viper.SetEnvPrefix("EEGCHESS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// decoderConfig resolves the pipeline configuration from viper.
func decoderConfig() (bci.Config, error) {
	var cfg bci.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse decoder config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid decoder config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
