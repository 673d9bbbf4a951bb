package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spyglass/internal/bookmarks"
	"spyglass/internal/media"
)

func newBookmarkCommand(ctx *commandContext) *cobra.Command {
	bookmarkCmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage saved browse identifiers",
	}

	bookmarkCmd.AddCommand(newBookmarkAddCommand(ctx))
	bookmarkCmd.AddCommand(newBookmarkListCommand(ctx))
	bookmarkCmd.AddCommand(newBookmarkRemoveCommand(ctx))

	return bookmarkCmd
}

func newBookmarkAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <identifier>",
		Short: "Save an identifier under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			identifier := strings.TrimSpace(args[1])
			if _, ok := media.ParseIdentifier(identifier); !ok {
				return fmt.Errorf("%q is not a recognized media source identifier", identifier)
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			bookmark, err := store.Save(cmd.Context(), name, identifier)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, bookmark)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved bookmark %q\n", bookmark.Name)
			return nil
		},
	}
}

func newBookmarkListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				if saved == nil {
					saved = []*bookmarks.Bookmark{}
				}
				return writeJSON(cmd, map[string]any{"bookmarks": saved})
			}

			out := cmd.OutOrStdout()
			if len(saved) == 0 {
				fmt.Fprintln(out, "No bookmarks saved")
				return nil
			}

			rows := make([][]string, 0, len(saved))
			for _, bookmark := range saved {
				rows = append(rows, []string{
					bookmark.Name,
					bookmark.Identifier,
					bookmark.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Identifier", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newBookmarkRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a saved bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Delete(cmd.Context(), name)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"name": name, "removed": removed})
			}

			out := cmd.OutOrStdout()
			if !removed {
				fmt.Fprintf(out, "Bookmark %q not found\n", name)
				return nil
			}
			fmt.Fprintf(out, "Removed bookmark %q\n", name)
			return nil
		},
	}
}
