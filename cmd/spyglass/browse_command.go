package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [identifier]",
		Short: "List the children of a browse node",
		Long: `List the children of a browse node. With no argument the root folders
(Clips and Recordings) are shown. An @name argument browses from a saved
bookmark instead of a raw identifier.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identifier := ""
			if len(args) == 1 {
				resolved, err := ctx.resolveIdentifierArg(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				identifier = resolved
			}

			source, err := ctx.mediaSource()
			if err != nil {
				return err
			}
			node, err := source.Browse(cmd.Context(), identifier)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, node)
			}

			out := cmd.OutOrStdout()
			if node.Title != "" {
				fmt.Fprintln(out, node.Title)
			}
			if len(node.Children) == 0 {
				fmt.Fprintln(out, "No entries")
				return nil
			}

			rows := make([][]string, 0, len(node.Children))
			for _, child := range node.Children {
				rows = append(rows, []string{
					child.Title,
					string(child.MediaClass),
					yesNo(child.CanPlay),
					child.Identifier,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Kind", "Play", "Identifier"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
