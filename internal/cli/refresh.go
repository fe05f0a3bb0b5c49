package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "refresh [id or name]",
		Short: "Refresh a competitor's deep-dive research",
		Long: "Fetch threat level, feature matrix, market radar and battle card from the research API. " +
			"The newest log's comparison notes are rewritten; no log is added.",
		Args: cobra.ExactArgs(1),
		Run:  runRefresh,
	}

	RootCmd.AddCommand(cmd)
}

func runRefresh(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := resolve(s, args[0])
	if err != nil {
		exitErr("refresh", err)
	}

	dd, err := newResearchClient().ResearchCompetitor(cmd.Context(), c.Name)
	if err != nil {
		exitErr("research", err)
	}
	if _, err := s.RefreshResearch(cmd.Context(), c.ID, *dd); err != nil {
		exitErr("refresh", err)
	}

	updated, _ := s.Get(c.ID)
	printJSON(updated)
}
