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

var replayCmd = &cobra.Command{
	Use:   "replay <recording.csv>",
	Short: "Decode a recorded EEG session",
	Long: `Replay runs the decoder over a CSV recording written by the GUI's
"Record raw EEG" option and prints every committed decision. By default
the file is decoded as fast as possible; --realtime paces playback at
the original sample rate.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().String("user", "Player", "decode with this user's stored profile")
	replayCmd.Flags().Bool("realtime", false, "pace playback at the recorded sample rate")

	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	realtime, _ := cmd.Flags().GetBool("realtime")

	store, err := storage.NewStorage()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	prof, err := store.LoadProfile(user)
	store.Close()
	if err != nil {
		return fmt.Errorf("load profile for %q: %w", user, err)
	}

	// The profile's config has to match the recording's channel layout,
	// so it wins over eegchess.yaml here.
	cfg := prof.Config

	dec, err := bci.NewDecoder(cfg, prof.Model)
	if err != nil {
		return err
	}

	src := bci.NewReplaySource(cfg, args[0], realtime)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	decisions, err := dec.Run(ctx, src)
	if err != nil {
		return err
	}
	defer src.Close()

	var first time.Time
	n := 0
	for d := range decisions {
		if first.IsZero() {
			first = d.At
		}
		n++
		fmt.Printf("%7.2fs  %-6s %5.2f Hz  conf %.2f\n",
			d.At.Sub(first).Seconds(), control.ClassName(d.Class), d.Frequency, d.Confidence)
	}

	fmt.Printf("%d decisions decoded from %s\n", n, args[0])
	return nil
}
