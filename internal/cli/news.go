package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "news [id or name]...",
		Short: "Fetch recent news about competitors",
		Long:  "Fetch news for the given competitors, or for every tracked competitor with --all.",
		Run:   runNews,
	}

	cmd.Flags().Bool("all", false, "Fetch news for every tracked competitor")

	RootCmd.AddCommand(cmd)
}

func runNews(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var names []string
	if all {
		for _, c := range s.List() {
			names = append(names, c.Name)
		}
	} else {
		for _, ref := range args {
			c, err := resolve(s, ref)
			if err != nil {
				exitErr("news", err)
			}
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 && !all {
		exitErr("news", errors.New("name a competitor or pass --all"))
	}

	news, err := newResearchClient().FetchNewsAll(cmd.Context(), names)
	if err != nil {
		exitErr("news", err)
	}

	if len(names) == 1 && !all {
		printJSON(news[names[0]])
		return
	}
	printJSON(news)
}
