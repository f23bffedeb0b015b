package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/project-votes/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load projects and vouchers from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := seed.LoadFile(path)
			if err != nil {
				return err
			}

			e, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := seed.Apply(cmd.Context(), e.store, file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d projects and %d vouchers\n", res.Projects, res.Vouchers)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "seed.yaml", "seed file to load")
	return cmd
}
