package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

type typeNode struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Children    []*typeNode `json:"children"`
}

func newTypesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Inspect item types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tree",
		Short: "Print the item type hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				roots, err := e.svcs.ItemTypes.Tree(cmd.Context())
				if err != nil {
					return err
				}
				out := toTypeNodes(roots)
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				return printTree(cmd.OutOrStdout(), out, 0)
			})
		},
	})
	return cmd
}

func toTypeNodes(nodes []*domainsvcs.ItemTypeNode) []*typeNode {
	out := make([]*typeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &typeNode{
			ID:          n.Type.ID,
			Name:        n.Type.Name.String(),
			Description: n.Type.Description,
			Children:    toTypeNodes(n.Children),
		})
	}
	return out
}

func printTree(w io.Writer, nodes []*typeNode, depth int) error {
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "%s%s (%d)\n", strings.Repeat("  ", depth), n.Name, n.ID); err != nil {
			return err
		}
		if err := printTree(w, n.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
