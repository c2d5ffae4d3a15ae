package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/neonorb/internal/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

var flagDeleteSession string

func init() {
	sessionsCmd.Flags().StringVar(&flagDeleteSession, "delete", "", "delete the session with this ID")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if flagDeleteSession != "" {
		if err := st.Sessions().Delete(flagDeleteSession); err != nil {
			return fmt.Errorf("delete %s: %w", flagDeleteSession, err)
		}
		fmt.Printf("Deleted %s\n", flagDeleteSession)
		return nil
	}

	sessions, err := st.Sessions().List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No recorded sessions")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tFRAMES\tTRIGGERS")
	for _, s := range sessions {
		duration := "recording"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), duration, s.Frames, s.Triggers)
	}
	return w.Flush()
}
