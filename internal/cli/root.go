package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// NewRootCommand builds the bookshelf command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand(version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Bookshelf - REST catalog of books and publishers",
		Long: `Bookshelf serves a JSON API for books and their publishers, backed by
MongoDB or an embedded SQLite database.

Configuration is read from the environment and an optional .env file:
  PORT, HOST, DATABASE_DRIVER (mongo|sqlite), MONGO_URL, MONGO_DATABASE,
  DATABASE_PATH, RECONCILE_SCHEDULE, SHUTDOWN_TIMEOUT_IN_SECONDS`,
		Version:       fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), version)
		},
	}

	root.AddCommand(newServeCommand(version))
	root.AddCommand(newReconcileCommand())

	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), version)
		},
	}
}

func runServe(ctx context.Context, version string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return entrypoint.Run(ctx, config.NewConfig(), version)
}

// Execute runs the root command
func Execute(version, commit string) {
	if err := NewRootCommand(version, commit).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
