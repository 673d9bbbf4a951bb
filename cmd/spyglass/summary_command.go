package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spyglass/internal/media"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show per-day event counts from the recorder",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.frigateClient()
			if err != nil {
				return err
			}
			rows, err := client.GetEventSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch event summary: %w", err)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			data, err := media.BuildSummary(rows, loc)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, data)
			}

			out := cmd.OutOrStdout()
			if len(data.Rows) == 0 {
				fmt.Fprintln(out, "No events recorded")
				return nil
			}

			tableRows := make([][]string, 0, len(data.Rows))
			for _, row := range data.Rows {
				tableRows = append(tableRows, []string{
					row.Day,
					row.Camera,
					row.Label,
					strings.Join(row.Zones, ", "),
					strconv.Itoa(row.Count),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Day", "Camera", "Label", "Zones", "Count"},
				tableRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d cameras, %d labels, %d zones\n", len(data.Cameras), len(data.Labels), len(data.Zones))
			return nil
		},
	}
}
