package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caremesh/healthcare/auth"
	"github.com/caremesh/healthcare/store"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage refresh tokens",
}

var tokensPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired refresh tokens",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(purgeTokens) },
}

func purgeTokens(repo auth.RefreshTokenRepository) error {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	count, err := repo.DeleteExpired(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d expired refresh tokens\n", count)
	return nil
}

func init() {
	tokensCmd.AddCommand(tokensPurgeCmd)
	rootCmd.AddCommand(tokensCmd)
}
