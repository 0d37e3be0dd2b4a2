package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over HTTP",
	Long: `Starts a JSON HTTP API for the board. Web clients read the board under any
pivot with GET /board?pivot=NAME and report finished drags with
POST /board/drag. Task CRUD lives under /tasks.

Logs are written to stderr as JSON lines.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config server.addr)")
	serveCmd.Flags().Bool("debug", false, "log at debug level")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(api.NewHandler(s, cfg, logger))
	return api.Serve(ctx, addr, router, logger)
}
