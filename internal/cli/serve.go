package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/compintel/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the competitor API over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.host:server.port from config)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Addr()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	srv := server.New(s, newResearchClient(), logger.Named("server"))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		exitErr("serve", err)
	}
}
