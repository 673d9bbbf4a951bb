package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spyglass/internal/frigate"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var camera string
	var label string
	var zone string
	var after string
	var before string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorder events with clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			afterEpoch, err := parseEventTime(after)
			if err != nil {
				return err
			}
			beforeEpoch, err := parseEventTime(before)
			if err != nil {
				return err
			}
			if afterEpoch != nil && beforeEpoch != nil && *afterEpoch >= *beforeEpoch {
				return fmt.Errorf("--after must be earlier than --before")
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			client, err := ctx.frigateClient()
			if err != nil {
				return err
			}
			events, err := client.GetEvents(cmd.Context(), frigate.EventsQuery{
				After:  afterEpoch,
				Before: beforeEpoch,
				Camera: strings.TrimSpace(camera),
				Label:  strings.TrimSpace(label),
				Zone:   strings.TrimSpace(zone),
				Limit:  limit,
			})
			if err != nil {
				return fmt.Errorf("fetch events: %w", err)
			}

			if ctx.JSONMode() {
				if events == nil {
					events = []frigate.Event{}
				}
				return writeJSON(cmd, map[string]any{"events": events})
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events found")
				return nil
			}

			loc := time.Local
			if cfg := ctx.configValue(); cfg != nil {
				if cfgLoc, locErr := cfg.Location(); locErr == nil {
					loc = cfgLoc
				}
			}

			rows := make([][]string, 0, len(events))
			for _, event := range events {
				rows = append(rows, []string{
					time.Unix(int64(event.StartTime), 0).In(loc).Format("2006-01-02 15:04:05"),
					event.Camera,
					event.Label,
					fmt.Sprintf("%.0f%%", event.TopScore*100),
					eventDuration(event),
					yesNo(event.HasClip),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Camera", "Label", "Score", "Duration", "Clip"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&camera, "camera", "", "Filter by camera name")
	cmd.Flags().StringVar(&label, "label", "", "Filter by detection label")
	cmd.Flags().StringVar(&zone, "zone", "", "Filter by zone name")
	cmd.Flags().StringVar(&after, "after", "", "Only events after this time (epoch seconds or RFC 3339)")
	cmd.Flags().StringVar(&before, "before", "", "Only events before this time (epoch seconds or RFC 3339)")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of events to list")
	return cmd
}

func parseEventTime(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &epoch, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q (use epoch seconds or RFC 3339)", value)
	}
	epoch := ts.Unix()
	return &epoch, nil
}

func eventDuration(event frigate.Event) string {
	if event.EndTime <= event.StartTime {
		return "-"
	}
	d := time.Duration((event.EndTime - event.StartTime) * float64(time.Second))
	return d.Truncate(time.Second).String()
}
