package command

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/caremesh/healthcare/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(migrate) },
}

func migrate(db *sql.DB) error {
	ctx, cancel := store.NewDbContext()
	defer cancel()
	return store.Migrate(ctx, db)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
