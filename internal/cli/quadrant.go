package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/landscape"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quadrant",
		Short: "Place competitors on the presence/innovation quadrant",
		Run:   runQuadrant,
	}

	cmd.Flags().String("only", "", "Only output one quadrant (Leaders, Disruptors, Contenders, Niche Players)")

	RootCmd.AddCommand(cmd)
}

func runQuadrant(cmd *cobra.Command, args []string) {
	only, _ := cmd.Flags().GetString("only")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	points := landscape.Quadrant(s.List())
	if only != "" {
		filtered := []landscape.Point{}
		for _, p := range points {
			if p.Quadrant == only {
				filtered = append(filtered, p)
			}
		}
		printJSON(filtered)
		return
	}

	printJSON(map[string]any{
		"points": points,
		"counts": landscape.Counts(points),
	})
}
