package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log [id or name]",
		Short: "Record a monthly observation",
		Long:  "Prepend an analysis log to a competitor. Repeat --change once per key change.",
		Args:  cobra.ExactArgs(1),
		Run:   runLog,
	}

	cmd.Flags().StringP("month", "m", "", "Month as YYYY-MM (default: current month)")
	cmd.Flags().StringP("summary", "s", "", "What happened this month (required)")
	cmd.Flags().StringArray("change", nil, "Key change (repeatable)")
	cmd.Flags().String("notes", "", "Comparison notes")

	cmd.MarkFlagRequired("summary")

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) {
	month, _ := cmd.Flags().GetString("month")
	summary, _ := cmd.Flags().GetString("summary")
	changes, _ := cmd.Flags().GetStringArray("change")
	notes, _ := cmd.Flags().GetString("notes")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := resolve(s, args[0])
	if err != nil {
		exitErr("log", err)
	}

	l, err := s.AppendLog(cmd.Context(), c.ID, store.LogEntry{
		Month:           month,
		Summary:         summary,
		KeyChanges:      strings.Join(changes, "\n"),
		ComparisonNotes: notes,
	})
	if err != nil {
		exitErr("log", err)
	}
	if l == nil {
		exitErr("log", errors.New("summary is required"))
	}

	printJSON(l)
}
