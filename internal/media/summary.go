package media

import (
	"fmt"
	"slices"
	"time"

	"spyglass/internal/frigate"
)

// SummaryRow is one event summary bucket stamped with the epoch second of
// local midnight on its day, so window checks never reparse the date.
type SummaryRow struct {
	frigate.EventSummaryRow
	Timestamp int64 `json:"timestamp"`
}

// SummaryData is the aggregated event summary a browse works from. The
// camera, label, and zone lists keep first appearance order.
type SummaryData struct {
	Rows    []SummaryRow `json:"rows"`
	Cameras []string     `json:"cameras"`
	Labels  []string     `json:"labels"`
	Zones   []string     `json:"zones"`
}

// BuildSummary stamps raw summary rows against the given location and
// collects the distinct cameras, labels, and zones they mention.
func BuildSummary(rows []frigate.EventSummaryRow, loc *time.Location) (SummaryData, error) {
	data := SummaryData{Rows: make([]SummaryRow, 0, len(rows))}
	seenCameras := make(map[string]bool)
	seenLabels := make(map[string]bool)
	seenZones := make(map[string]bool)

	for _, row := range rows {
		day, err := time.ParseInLocation("2006-01-02", row.Day, loc)
		if err != nil {
			return SummaryData{}, fmt.Errorf("parse summary day %q: %w", row.Day, err)
		}
		data.Rows = append(data.Rows, SummaryRow{EventSummaryRow: row, Timestamp: day.Unix()})

		if !seenCameras[row.Camera] {
			seenCameras[row.Camera] = true
			data.Cameras = append(data.Cameras, row.Camera)
		}
		if !seenLabels[row.Label] {
			seenLabels[row.Label] = true
			data.Labels = append(data.Labels, row.Label)
		}
		for _, zone := range row.Zones {
			if !seenZones[zone] {
				seenZones[zone] = true
				data.Zones = append(data.Zones, zone)
			}
		}
	}
	return data, nil
}

// CountMatching sums the event counts of rows that fall inside the
// identifier's time window and match its camera, label, and zone filters.
func (s SummaryData) CountMatching(ident ClipSearchIdentifier) int {
	total := 0
	for _, row := range s.Rows {
		if ident.After != nil && row.Timestamp < *ident.After {
			continue
		}
		if ident.Before != nil && row.Timestamp >= *ident.Before {
			continue
		}
		if ident.Camera != "" && row.Camera != ident.Camera {
			continue
		}
		if ident.Label != "" && row.Label != ident.Label {
			continue
		}
		if ident.Zone != "" && !slices.Contains(row.Zones, ident.Zone) {
			continue
		}
		total += row.Count
	}
	return total
}
