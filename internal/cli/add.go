package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Track a new competitor",
		Long: "Track a new competitor. With --research the research API fills in website, " +
			"description, tier and comparison notes; explicit flags still win.",
		Args: cobra.MinimumNArgs(1),
		Run:  runAdd,
	}

	cmd.Flags().StringP("website", "w", "", "Website URL")
	cmd.Flags().String("description", "", "Short description")
	cmd.Flags().StringP("tier", "t", string(model.TierOne), "Tier: Tier 1, Tier 2, Niche")
	cmd.Flags().String("notes", "", "Comparison notes (seeds an initial log)")
	cmd.Flags().Bool("research", false, "Pre-fill details from the research API")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	website, _ := cmd.Flags().GetString("website")
	description, _ := cmd.Flags().GetString("description")
	tier, _ := cmd.Flags().GetString("tier")
	notes, _ := cmd.Flags().GetString("notes")
	doResearch, _ := cmd.Flags().GetBool("research")

	p := store.NewCompetitor{
		Name:            strings.Join(args, " "),
		Website:         website,
		Description:     description,
		Tier:            model.Tier(tier),
		ComparisonNotes: notes,
	}

	if doResearch {
		dd, err := newResearchClient().ResearchCompetitor(cmd.Context(), p.Name)
		if err != nil {
			exitErr("research", err)
		}
		if dd.Name != "" {
			p.Name = dd.Name
		}
		if p.Website == "" {
			p.Website = dd.Website
		}
		if p.Description == "" {
			p.Description = dd.Description
		}
		if !cmd.Flags().Changed("tier") && dd.Tier != "" {
			p.Tier = dd.Tier
		}
		if p.ComparisonNotes == "" {
			p.ComparisonNotes = dd.ComparisonNotes
		}
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := s.Add(cmd.Context(), p)
	if err != nil {
		exitErr("add", err)
	}
	if c == nil {
		exitErr("add", errors.New("name is required"))
	}

	printJSON(c)
}
