package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List competitors",
		Run:   runList,
	}

	cmd.Flags().StringP("tier", "t", "", "Filter by tier")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("names-only", false, "Only output id and name")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	tier, _ := cmd.Flags().GetString("tier")
	limit, _ := cmd.Flags().GetInt("limit")
	namesOnly, _ := cmd.Flags().GetBool("names-only")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	competitors := []model.Competitor{}
	for _, c := range s.List() {
		if tier != "" && string(c.Tier) != tier {
			continue
		}
		competitors = append(competitors, c)
		if limit > 0 && len(competitors) == limit {
			break
		}
	}

	if namesOnly {
		for _, c := range competitors {
			fmt.Printf("%s\t%s\n", c.ID, c.Name)
		}
		return
	}

	printJSON(competitors)
}
