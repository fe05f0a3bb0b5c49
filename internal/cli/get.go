package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [id or name]",
		Short: "Show a competitor",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("logs", false, "Only output the analysis logs")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	logsOnly, _ := cmd.Flags().GetBool("logs")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := resolve(s, args[0])
	if err != nil {
		exitErr("get", err)
	}

	if logsOnly {
		printJSON(c.Logs)
		return
	}
	printJSON(c)
}
