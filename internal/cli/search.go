package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search competitors by keyword",
		Long:  "Search names, descriptions, market focus and log summaries for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("tier", "t", "", "Filter by tier")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	tier, _ := cmd.Flags().GetString("tier")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results := s.Search(store.SearchParams{
		Query: strings.Join(args, " "),
		Tier:  model.Tier(tier),
		Limit: limit,
	})

	printJSON(results)
}
