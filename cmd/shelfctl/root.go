package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ghuser/shelfaware/pkg/database"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
)

var validFormats = []string{"text", "json"}

type rootOptions struct {
	verbose bool
	format  string
	open    opener
}

// env is what a command runs against. db is nil for in-memory stores.
type env struct {
	svcs  *appsvcs.Services
	db    *database.Database
	close func()
}

type opener func(ctx context.Context, opts *rootOptions) (*env, error)

func newRootCommand(open opener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "shelfctl",
		Short:         "ShelfAware operator CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range validFormats {
				if f == opts.format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newPresenceCommand(opts))
	cmd.AddCommand(newEventsCommand(opts))
	cmd.AddCommand(newTypesCommand(opts))

	return cmd
}

// withEnv opens the store for the duration of fn.
func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(e *env) error) error {
	e, err := opts.open(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if e.close != nil {
		defer e.close()
	}
	return fn(e)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
