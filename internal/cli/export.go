package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export competitors as JSON",
		Long:  "Export the whole collection, logs included, as a JSON array. Writes to stdout unless -o is set.",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Output file")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	competitors := s.Export()
	if out == "" {
		printJSON(competitors)
		return
	}

	b, _ := json.MarshalIndent(competitors, "", "  ")
	if err := os.WriteFile(out, append(b, '\n'), 0644); err != nil {
		exitErr("write export", err)
	}
	fmt.Printf(`{"ok":true,"exported":%d,"path":%q}`+"\n", len(competitors), out)
}
