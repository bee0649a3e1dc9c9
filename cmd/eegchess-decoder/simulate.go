package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quangh/eegchess/internal/bci"
	"github.com/quangh/eegchess/internal/control"
	"github.com/quangh/eegchess/internal/storage"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the decoder against a synthetic EEG source",
	Long: `Simulate trains a throwaway model on synthetic data (or loads a stored
profile with --user), then decodes a synthetic stream whose attended
target cycles through the classes after each committed decision. Every
decision is printed with whether it matched the attended target, so the
whole pipeline can be sanity-checked without hardware.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().String("user", "", "decode with this user's stored profile instead of an ad-hoc model")
	simulateCmd.Flags().Int("decisions", 20, "stop after this many decisions")
	simulateCmd.Flags().Uint64("seed", uint64(time.Now().UnixNano()), "random seed for the synthetic sources")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := decoderConfig()
	if err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("decisions")
	seed, _ := cmd.Flags().GetUint64("seed")

	var model *bci.LDA
	if user != "" {
		store, err := storage.NewStorage()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		prof, err := store.LoadProfile(user)
		store.Close()
		if err != nil {
			return fmt.Errorf("load profile for %q: %w", user, err)
		}
		model = prof.Model
		cfg = prof.Config
		fmt.Printf("Loaded profile for %q (%.1f%% holdout accuracy)\n", user, prof.Report.Accuracy*100)
	} else {
		cal := bci.NewCalibrator(cfg)
		if err := cal.CollectSynthetic(bci.NewSyntheticSource(cfg, seed), 16); err != nil {
			return err
		}
		var report bci.CalibrationReport
		model, report, err = cal.Train(seed)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		fmt.Printf("Ad-hoc model trained, holdout accuracy %.1f%%\n", report.Accuracy*100)
	}

	dec, err := bci.NewDecoder(cfg, model)
	if err != nil {
		return err
	}

	src := bci.NewSyntheticSource(cfg, seed+1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	decisions, err := dec.Run(ctx, src)
	if err != nil {
		return err
	}
	defer src.Close()

	attended := 0
	src.SetAttended(attended)
	start := time.Now()

	correct := 0
	n := 0
	for n < limit {
		d, ok := <-decisions
		if !ok {
			break
		}
		n++
		match := " "
		if d.Class == attended {
			correct++
			match = "*"
		}
		fmt.Printf("%7.2fs  %s %-6s %5.2f Hz  conf %.2f  (attending %s)\n",
			d.At.Sub(start).Seconds(), match, control.ClassName(d.Class),
			d.Frequency, d.Confidence, control.ClassName(attended))

		attended = (attended + 1) % cfg.NumClasses()
		src.SetAttended(attended)
	}

	if n > 0 {
		fmt.Printf("%d/%d decisions matched the attended target (%.0f%%)\n",
			correct, n, float64(correct)/float64(n)*100)
	}
	return nil
}
