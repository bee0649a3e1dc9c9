package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quangh/eegchess/internal/bci"
	"github.com/quangh/eegchess/internal/control"
	"github.com/quangh/eegchess/internal/storage"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Train a classifier profile and save it to the local store",
	Long: `Calibrate collects labeled windows for every stimulus frequency, trains
a classifier on them and saves the profile under the given username.

With --addr the windows come from a live acquisition bridge: the command
cues one target at a time on the terminal and the wearer attends the
matching flicker target in the GUI. Without --addr a synthetic source
supplies the windows, which is useful for testing the pipeline end to
end without hardware.`,
	RunE: runCalibrate,
}

func init() {
	calibrateCmd.Flags().String("user", "Player", "username the profile is stored under")
	calibrateCmd.Flags().String("addr", "", "acquisition bridge address (host:port); synthetic source if empty")
	calibrateCmd.Flags().Int("windows", 16, "windows to collect per target")
	calibrateCmd.Flags().Uint64("seed", uint64(time.Now().UnixNano()), "random seed for the synthetic source and holdout split")

	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := decoderConfig()
	if err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	addr, _ := cmd.Flags().GetString("addr")
	windows, _ := cmd.Flags().GetInt("windows")
	seed, _ := cmd.Flags().GetUint64("seed")

	var src bci.Source
	if addr != "" {
		src = bci.NewStreamSource(cfg, addr)
	} else {
		src = bci.NewSyntheticSource(cfg, seed)
	}
	attendable, _ := src.(bci.Attendable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	samples, err := src.Start(ctx)
	if err != nil {
		return fmt.Errorf("start source: %w", err)
	}
	defer src.Close()

	cal := bci.NewCalibrator(cfg)
	buf := bci.NewBuffer(cfg.Channels, cfg.WindowSize, cfg.WindowStep)

	for class := 0; class < cfg.NumClasses(); class++ {
		fmt.Printf("Attend %s (%.2f Hz)...\n", control.ClassName(class), cfg.Frequencies[class])
		if attendable != nil {
			attendable.SetAttended(class)
		}

		// Discard the transition second so windows carry a single class.
		buf.Reset()
		settle := time.After(time.Second)
		settling := true

		collected := 0
		for collected < windows {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-settle:
				settling = false
				buf.Reset()
			case s, ok := <-samples:
				if !ok {
					return fmt.Errorf("sample stream ended after %d windows", cal.Count())
				}
				w, full := buf.Push(s)
				if !full || settling {
					continue
				}
				if err := cal.AddWindow(w, class); err != nil {
					return err
				}
				collected++
			}
		}
	}

	model, report, err := cal.Train(seed)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fmt.Printf("Trained on %d windows, holdout accuracy %.1f%%\n", report.Samples, report.Accuracy*100)
	for class, acc := range report.PerClass {
		fmt.Printf("  %-6s %.1f%%\n", control.ClassName(class), acc*100)
	}
	if report.Accuracy < 0.8 {
		fmt.Fprintln(os.Stderr, "Warning: accuracy below 80%, consider recalibrating with better electrode contact")
	}

	store, err := storage.NewStorage()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	prof := &storage.CalibrationProfile{
		Username: user,
		Config:   cfg,
		Model:    model,
		Report:   report,
	}
	if err := store.SaveProfile(prof); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	fmt.Printf("Saved profile for %q\n", user)
	return nil
}
