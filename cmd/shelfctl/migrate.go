package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghuser/shelfaware/migrations/inventory"
	"github.com/ghuser/shelfaware/pkg/migrator"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply pending goose migrations to DATABASE_URL and print the
resulting schema version.

Examples:
  shelfctl migrate
  shelfctl migrate --status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				if e.db == nil {
					return errors.New("migrate needs a database connection")
				}
				ctx := cmd.Context()
				if !statusOnly {
					applied, err := migrator.Up(ctx, e.db.DB(), inventory.FS)
					if err != nil {
						return err
					}
					if opts.format == "text" {
						for _, v := range applied {
							fmt.Fprintf(cmd.OutOrStdout(), "applied %d\n", v)
						}
					}
				}
				st, err := migrator.CurrentStatus(ctx, e.db.DB(), inventory.FS)
				if err != nil {
					return err
				}
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), st)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%d applied, %d pending)\n", st.Version, st.Applied, st.Pending)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "only print the current version")
	return cmd
}
