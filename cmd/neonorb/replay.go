package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/neonorb/internal/app"
	"github.com/ayusman/neonorb/internal/config"
)

var (
	flagReplaySeed uint64
	flagReplayJSON bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Run a recorded session through a fresh engine",
	Long: `Replay feeds a session's recorded hand frames through a new engine and
prints the color changes it produces. With the session's own seed the colors
match the live run.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Uint64Var(&flagReplaySeed, "seed", 0, "color seed (0 uses the session's seed)")
	replayCmd.Flags().BoolVar(&flagReplayJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	res, err := app.Replay(st, args[0], flagReplaySeed, cfg)
	if err != nil {
		return err
	}

	if flagReplayJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("Session: %s (seed %d)\n", res.SessionID, res.Seed)
	fmt.Printf("Frames:  %d\n", res.Frames)
	fmt.Printf("Color changes: %d\n", len(res.Events))
	for _, ev := range res.Events {
		fmt.Printf("  %8dms  %s -> %s  scale %.2f\n", ev.TimestampMs, ev.Previous, ev.Color, ev.Scale)
	}
	fmt.Printf("Final:   scale %.3f, color %s, %s\n", res.Final.Scale, res.Final.Color, res.Final.Status)
	return nil
}
