package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Resolve an identifier to its playback URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identifier, err := ctx.resolveIdentifierArg(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			source, err := ctx.mediaSource()
			if err != nil {
				return err
			}
			play, err := source.Resolve(identifier)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, play)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "URL:  %s\n", play.URL)
			fmt.Fprintf(out, "MIME: %s\n", play.MIMEType)
			return nil
		},
	}
}
