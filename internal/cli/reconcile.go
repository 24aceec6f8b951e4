package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild every publisher's publishedBooks from live book references",
		Long: `Reconcile repairs publisher back-references once and exits.

Each publisher's publishedBooks is replaced by the ids of the books that
currently reference it. Publishers that already match are left untouched.

Examples:
  bookshelf reconcile
  DATABASE_DRIVER=sqlite DATABASE_PATH=./shelf.db bookshelf reconcile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := entrypoint.RunReconcile(cmd.Context(), config.NewConfig())
			if err != nil {
				return fmt.Errorf("reconcile failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked %d publishers, updated %d\n",
				result.PublishersChecked, result.PublishersUpdated)
			return nil
		},
	}
}
