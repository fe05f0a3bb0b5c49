package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [id or name]",
		Short: "Stop tracking a competitor",
		Long:  "Delete a competitor and its whole log history. Asks for confirmation unless --yes is set.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := resolve(s, args[0])
	if err != nil {
		exitErr("rm", err)
	}

	if !yes && !confirm(os.Stdin, os.Stderr,
		fmt.Sprintf("Delete %s and its %d log entries?", c.Name, len(c.Logs))) {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":false,"id":%q}`+"\n", c.ID)
		return
	}

	if _, err := s.Delete(cmd.Context(), c.ID); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"name":%q}`+"\n", c.ID, c.Name)
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
