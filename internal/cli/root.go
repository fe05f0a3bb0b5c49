// Package cli implements the compintel CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/compintel/internal/config"
	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/research"
	"github.com/rcliao/compintel/internal/store"
)

var (
	dbPath     string
	configPath string
	apiURL     string
	verbose    bool

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "compintel",
	Short: "Competitive intelligence tracker",
	Long: "Track competitors, log month-over-month observations and merge AI market scans. " +
		"SQLite-backed, single binary.",
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $COMPINTEL_DB or ~/.compintel/compintel.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Config file")
	RootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Research API base URL (default: $COMPINTEL_API_URL or config)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	c, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}
	if apiURL != "" {
		c.API.BaseURL = apiURL
	}
	cfg = c

	logger, err = newLogger(cfg.Logging.Level, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zc.Level = lvl
	}
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func openStore(ctx context.Context) (*store.CompetitorStore, error) {
	path, err := cfg.DBPath()
	if err != nil {
		return nil, err
	}
	backend, err := store.NewSQLiteBackend(path)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, backend,
		store.WithKey(cfg.Storage.Key),
		store.WithLogger(logger.Named("store")))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}

func newResearchClient() *research.Client {
	return research.New(cfg.API.BaseURL,
		research.WithAPIKey(cfg.API.APIKey),
		research.WithTimeout(cfg.Timeout()),
		research.WithConcurrency(cfg.API.Concurrency),
		research.WithLogger(logger.Named("research")))
}

// resolve finds a competitor by id, falling back to an exact name match.
func resolve(s *store.CompetitorStore, ref string) (model.Competitor, error) {
	if c, ok := s.Get(ref); ok {
		return c, nil
	}
	if c, ok := s.FindByName(ref); ok {
		return c, nil
	}
	return model.Competitor{}, fmt.Errorf("competitor %q not found", ref)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
