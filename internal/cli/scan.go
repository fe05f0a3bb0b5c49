package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run an AI market scan and merge the results",
		Long: "Discover the market through the research API. Known competitors get fresh scores; " +
			"new ones are added with an initial log. Prints the merge counts and the market overview.",
		Run: runScan,
	}

	cmd.Flags().Bool("dry-run", false, "Print the scan without merging it")

	RootCmd.AddCommand(cmd)
}

type scanOutput struct {
	store.MergeResult
	Overview model.MarketOverview `json:"overview"`
}

func runScan(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	scan, err := newResearchClient().DiscoverMarket(cmd.Context())
	if err != nil {
		exitErr("scan", err)
	}
	if dryRun {
		printJSON(scan)
		return
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.ApplyScan(cmd.Context(), *scan)
	if err != nil {
		exitErr("scan", err)
	}
	overview, _ := s.Overview()

	printJSON(scanOutput{MergeResult: res, Overview: overview})
}
