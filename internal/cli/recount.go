package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/project-votes/internal/voting"
)

func newRecountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recount",
		Short: "Recompute every project's vote count from redeemed vouchers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := voting.NewService(e.store).Recount(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "recounted %d projects\n", n)
			return nil
		},
	}
}
