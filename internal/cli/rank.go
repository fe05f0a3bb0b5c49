package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank competitors by threat",
		Long:  "Score competitors by threat level, market presence, innovation and log recency.",
		Run:   runRank,
	}

	cmd.Flags().StringP("tier", "t", "", "Filter by tier")
	cmd.Flags().IntP("limit", "l", 10, "Max results")

	RootCmd.AddCommand(cmd)
}

func runRank(cmd *cobra.Command, args []string) {
	tier, _ := cmd.Flags().GetString("tier")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	printJSON(s.Rank(store.RankParams{Tier: model.Tier(tier), Limit: limit}))
}
