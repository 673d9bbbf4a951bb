package media

import (
	"context"
	"fmt"

	"spyglass/internal/frigate"
	"spyglass/internal/logging"
	"spyglass/internal/services"
)

func (s *Source) browseClipSearch(ctx context.Context, ident ClipSearchIdentifier) (*BrowseNode, error) {
	rows, err := s.client.GetEventSummary(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "media-source", "browse", "fetch event summary", err)
	}
	summary, err := BuildSummary(rows, s.loc)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "media-source", "browse", "aggregate event summary", err)
	}

	limit := s.limits.ItemLimit
	if ident.Trail.EndsInAll() {
		limit = s.limits.AllLimit
	}
	events, err := s.client.GetEvents(ctx, frigate.EventsQuery{
		After:  ident.After,
		Before: ident.Before,
		Camera: ident.Camera,
		Label:  ident.Label,
		Zone:   ident.Zone,
		Limit:  limit,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "media-source", "browse", "fetch events", err)
	}
	logging.WithContext(ctx, s.logger).Debug("fetched clip search data",
		logging.Int("summary_rows", len(rows)), logging.Int("events", len(events)))
	return s.assembleClipSearch(ident, summary, events), nil
}

// assembleClipSearch builds the browse tree node for a clip search: the
// fetched events first, then whichever drilldowns would actually narrow
// them, then the All escape hatch when nothing else paginates.
func (s *Source) assembleClipSearch(ident ClipSearchIdentifier, summary SummaryData, events []frigate.Event) *BrowseNode {
	now := s.now().In(s.loc)
	count := summary.CountMatching(ident)

	base := &BrowseNode{
		Identifier: ident.String(),
		Title:      searchTitle(ident, count),
		MediaClass: ClassDirectory,
		CanExpand:  true,
	}

	eventItems := s.eventNodes(events)

	// At the root a truncated event page is only worth showing when it is a
	// meaningful slice of everything; below the visibility floor the
	// drilldowns alone are more useful.
	if count > 0 && len(eventItems) == s.limits.ItemLimit && ident.IsRoot() {
		if float64(s.limits.ItemLimit)/float64(count) > s.limits.VisibilityFloor {
			base.Children = append(base.Children, eventItems...)
		}
	} else {
		base.Children = append(base.Children, eventItems...)
	}

	shown := len(base.Children)

	var drilldowns []*BrowseNode
	drilldowns = append(drilldowns, dateNodes(summary, ident, shown, now)...)
	if ident.Camera == "" {
		drilldowns = append(drilldowns, facetNodes(summary, ident, shown, CrumbCamera, summary.Cameras, pinCamera)...)
	}
	if ident.Label == "" {
		drilldowns = append(drilldowns, facetNodes(summary, ident, shown, CrumbLabel, summary.Labels, pinLabel)...)
	}
	if ident.Zone == "" {
		drilldowns = append(drilldowns, facetNodes(summary, ident, shown, CrumbZone, summary.Zones, pinZone)...)
	}

	if len(events) > s.limits.DrilldownThreshold && (len(drilldowns) > 1 || len(base.Children) == 0) {
		base.Children = append(base.Children, drilldowns...)
	}

	if (len(base.Children) == 0 || len(base.Children) == len(eventItems)) &&
		!ident.Trail.EndsInAll() && len(eventItems) == s.limits.ItemLimit {
		all := ident.withCrumb(CrumbAll, "all")
		base.Children = append(base.Children, drilldownNode(all, fmt.Sprintf("All (%d)", count)))
	}

	return base
}

func (s *Source) eventNodes(events []frigate.Event) []*BrowseNode {
	nodes := make([]*BrowseNode, 0, len(events))
	for _, event := range events {
		clip := ClipIdentifier{Name: fmt.Sprintf("%s-%s.mp4", event.Camera, event.ID)}
		nodes = append(nodes, &BrowseNode{
			Identifier: clip.String(),
			Title:      eventTitle(event, s.loc),
			MediaClass: ClassVideo,
			CanPlay:    true,
			Thumbnail:  fmt.Sprintf("data:image/jpeg;base64,%s", event.Thumbnail),
		})
	}
	return nodes
}

// facetNodes builds one drilldown per facet value, skipping values that
// match nothing and values that would only repeat what is already shown.
func facetNodes(summary SummaryData, ident ClipSearchIdentifier, shown int, kind CrumbKind, values []string, pin func(*ClipSearchIdentifier, string)) []*BrowseNode {
	var nodes []*BrowseNode
	for _, value := range values {
		filtered := ident
		pin(&filtered, value)
		count := summary.CountMatching(filtered)
		if count == 0 || count == shown {
			continue
		}
		child := filtered.withCrumb(kind, value)
		nodes = append(nodes, drilldownNode(child, fmt.Sprintf("%s (%d)", friendlyName(value), count)))
	}
	return nodes
}

func pinCamera(ident *ClipSearchIdentifier, value string) { ident.Camera = value }
func pinLabel(ident *ClipSearchIdentifier, value string)  { ident.Label = value }
func pinZone(ident *ClipSearchIdentifier, value string)   { ident.Zone = value }

func drilldownNode(ident ClipSearchIdentifier, title string) *BrowseNode {
	return &BrowseNode{
		Identifier: ident.String(),
		Title:      title,
		MediaClass: ClassDirectory,
		CanExpand:  true,
	}
}
