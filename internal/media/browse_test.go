package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"spyglass/internal/frigate"
	"spyglass/internal/services"
)

type stubAPI struct {
	summaryRows []frigate.EventSummaryRow
	summaryErr  error
	events      []frigate.Event
	eventsErr   error
	lastQuery   frigate.EventsQuery
	folders     map[string][]frigate.FolderEntry
	foldersErr  error
	lastFolder  string
}

func (s *stubAPI) GetEventSummary(ctx context.Context) ([]frigate.EventSummaryRow, error) {
	if s.summaryErr != nil {
		return nil, s.summaryErr
	}
	return s.summaryRows, nil
}

func (s *stubAPI) GetEvents(ctx context.Context, query frigate.EventsQuery) ([]frigate.Event, error) {
	s.lastQuery = query
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	if query.Limit > 0 && len(s.events) > query.Limit {
		return s.events[:query.Limit], nil
	}
	return s.events, nil
}

func (s *stubAPI) GetRecordingsFolder(ctx context.Context, path string) ([]frigate.FolderEntry, error) {
	s.lastFolder = path
	if s.foldersErr != nil {
		return nil, s.foldersErr
	}
	return s.folders[path], nil
}

// stubSummaryRows covers six days across three calendar buckets. The counts
// are all distinct so every expected total pins the rows that produced it.
func stubSummaryRows() []frigate.EventSummaryRow {
	return []frigate.EventSummaryRow{
		{Camera: "front_door", Label: "person", Zones: []string{}, Day: "2021-06-04", Count: 51},
		{Camera: "front_door", Label: "person", Zones: []string{"steps"}, Day: "2021-06-04", Count: 52},
		{Camera: "front_door", Label: "person", Zones: []string{}, Day: "2021-06-03", Count: 53},
		{Camera: "front_door", Label: "person", Zones: []string{}, Day: "2021-06-02", Count: 54},
		{Camera: "front_door", Label: "person", Zones: []string{}, Day: "2021-05-01", Count: 55},
		{Camera: "front_door", Label: "person", Zones: []string{}, Day: "2021-01-01", Count: 56},
		{Camera: "empty_camera", Label: "person", Zones: []string{}, Day: "2021-06-04", Count: 0},
		{Camera: "front_door", Label: "car", Zones: []string{}, Day: "2021-06-04", Count: 0},
		{Camera: "front_door", Label: "person", Zones: []string{"empty"}, Day: "2021-06-04", Count: 0},
	}
}

func stubEvents(n int) []frigate.Event {
	events := make([]frigate.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, frigate.Event{
			ID:        fmt.Sprintf("1623454583.%04d-abcd", i),
			Camera:    "front_door",
			Label:     "person",
			StartTime: 1622764801,
			EndTime:   1622764901.546445,
			TopScore:  0.7265625,
			HasClip:   true,
			Thumbnail: "thumbnail",
		})
	}
	return events
}

// newTestSource pins the clock to 2021-06-04T00:00:00Z so the named date
// windows land on known epochs.
func newTestSource(t *testing.T, stub *stubAPI) *Source {
	t.Helper()
	source, err := NewSource(stub,
		WithLocation(time.UTC),
		WithClock(func() time.Time {
			return time.Date(2021, time.June, 4, 0, 0, 0, 0, time.UTC)
		}),
	)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return source
}

type wantNode struct {
	title      string
	identifier string
}

func directoryNodes(node *BrowseNode) []*BrowseNode {
	var dirs []*BrowseNode
	for _, child := range node.Children {
		if child.MediaClass == ClassDirectory {
			dirs = append(dirs, child)
		}
	}
	return dirs
}

func videoCount(node *BrowseNode) int {
	count := 0
	for _, child := range node.Children {
		if child.MediaClass == ClassVideo {
			count++
		}
	}
	return count
}

func assertDirectoryChildren(t *testing.T, node *BrowseNode, want []wantNode) {
	t.Helper()
	dirs := directoryNodes(node)
	if len(dirs) != len(want) {
		var got []string
		for _, dir := range dirs {
			got = append(got, fmt.Sprintf("%s → %s", dir.Title, dir.Identifier))
		}
		t.Fatalf("directory children:\n got %v\nwant %d entries", got, len(want))
	}
	for i, expect := range want {
		if dirs[i].Title != expect.title {
			t.Errorf("directory %d title: got %q, want %q", i, dirs[i].Title, expect.title)
		}
		if dirs[i].Identifier != expect.identifier {
			t.Errorf("directory %d identifier: got %q, want %q", i, dirs[i].Identifier, expect.identifier)
		}
		if !dirs[i].CanExpand || dirs[i].CanPlay {
			t.Errorf("directory %d must expand and not play: %+v", i, dirs[i])
		}
	}
}

func TestBrowseClipSearchRoot(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	node, err := source.Browse(context.Background(), "clip-search//////")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "Clips (321)" {
		t.Errorf("title: %q", node.Title)
	}
	if node.Identifier != "clip-search//////" {
		t.Errorf("identifier: %q", node.Identifier)
	}
	if len(node.Children) != 58 {
		t.Fatalf("expected 58 children, got %d", len(node.Children))
	}
	if got := videoCount(node); got != 50 {
		t.Fatalf("expected 50 event items, got %d", got)
	}
	if stub.lastQuery.Limit != 50 {
		t.Errorf("event query limit: %d", stub.lastQuery.Limit)
	}

	first := node.Children[0]
	if first.Identifier != "clips/front_door-1623454583.0000-abcd.mp4" {
		t.Errorf("first event identifier: %q", first.Identifier)
	}
	if first.Title != "2021-06-04 00:00:01 [100s, Person 72%]" {
		t.Errorf("first event title: %q", first.Title)
	}
	if !first.CanPlay || first.CanExpand || first.MediaClass != ClassVideo {
		t.Errorf("first event flags: %+v", first)
	}
	if first.Thumbnail != "data:image/jpeg;base64,thumbnail" {
		t.Errorf("first event thumbnail: %q", first.Thumbnail)
	}

	assertDirectoryChildren(t, node, []wantNode{
		{"Today (103)", "clip-search/.today/1622764800////"},
		{"Yesterday (53)", "clip-search/.yesterday/1622678400/1622764800///"},
		{"This Month (210)", "clip-search/.this_month/1622505600////"},
		{"Last Month (55)", "clip-search/.last_month/1619827200/1622505600///"},
		{"This Year", "clip-search/.this_year/1609459200////"},
		{"Front Door (321)", "clip-search/.front_door///front_door//"},
		{"Person (321)", "clip-search/.person////person/"},
		{"Steps (52)", "clip-search/.steps/////steps"},
	})
}

func TestBrowseClipSearchToday(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	node, err := source.Browse(context.Background(), "clip-search/.today/1622764800////")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "Today (103)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 53 {
		t.Fatalf("expected 53 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"Front Door (103)", "clip-search/.today.front_door/1622764800//front_door//"},
		{"Person (103)", "clip-search/.today.person/1622764800///person/"},
		{"Steps (52)", "clip-search/.today.steps/1622764800////steps"},
	})
}

func TestBrowseClipSearchTrailWithoutFilters(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	// A camera crumb in the trail without the camera filter set keeps every
	// drilldown available, including the camera itself.
	node, err := source.Browse(context.Background(), "clip-search/.front_door/////")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "Front Door (321)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 58 {
		t.Fatalf("expected 58 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"Today (103)", "clip-search/.front_door.today/1622764800////"},
		{"Yesterday (53)", "clip-search/.front_door.yesterday/1622678400/1622764800///"},
		{"This Month (210)", "clip-search/.front_door.this_month/1622505600////"},
		{"Last Month (55)", "clip-search/.front_door.last_month/1619827200/1622505600///"},
		{"This Year", "clip-search/.front_door.this_year/1609459200////"},
		{"Front Door (321)", "clip-search/.front_door.front_door///front_door//"},
		{"Person (321)", "clip-search/.front_door.person////person/"},
		{"Steps (52)", "clip-search/.front_door.steps/////steps"},
	})
}

func TestBrowseClipSearchDayBuckets(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	// Window opens 7am June 1st, so June 1st gets no bucket (zero events
	// before 7am), June 4th starts past the clock, and the days between
	// appear with their counts.
	node, err := source.Browse(context.Background(), "clip-search/.this_month/1622530800////")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "This Month (210)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 55 {
		t.Fatalf("expected 55 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"June 02 (54)", "clip-search/.this_month.2021-06-02/1622592000/1622678400///"},
		{"June 03 (53)", "clip-search/.this_month.2021-06-03/1622678400/1622764800///"},
		{"Front Door (210)", "clip-search/.this_month.front_door/1622530800//front_door//"},
		{"Person (210)", "clip-search/.this_month.person/1622530800///person/"},
		{"Steps (52)", "clip-search/.this_month.steps/1622530800////steps"},
	})
}

func TestBrowseClipSearchSingleDayWindow(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	node, err := source.Browse(context.Background(), "clip-search/.this_month.2021-06-04/1622764800/1622851200///")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "This Month > 2021-06-04 (103)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 53 {
		t.Fatalf("expected 53 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"Front Door (103)", "clip-search/.this_month.2021-06-04.front_door/1622764800/1622851200/front_door//"},
		{"Person (103)", "clip-search/.this_month.2021-06-04.person/1622764800/1622851200//person/"},
		{"Steps (52)", "clip-search/.this_month.2021-06-04.steps/1622764800/1622851200///steps"},
	})
}

func TestBrowseClipSearchCameraPinned(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	node, err := source.Browse(context.Background(),
		"clip-search/.this_month.2021-06-04.front_door/1622764800/1622851200/front_door//")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "This Month > 2021-06-04 > Front Door (103)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 52 {
		t.Fatalf("expected 52 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"Person (103)", "clip-search/.this_month.2021-06-04.front_door.person/1622764800/1622851200/front_door/person/"},
		{"Steps (52)", "clip-search/.this_month.2021-06-04.front_door.steps/1622764800/1622851200/front_door//steps"},
	})
}

func TestBrowseClipSearchOffersAllWhenNothingElseNarrows(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	// With camera and label pinned only one drilldown survives, which is not
	// enough to offer the group, so the All escape hatch appears instead.
	node, err := source.Browse(context.Background(),
		"clip-search/.this_month.2021-06-04.front_door.person/1622764800/1622851200/front_door/person/")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "This Month > 2021-06-04 > Front Door > Person (103)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 51 {
		t.Fatalf("expected 51 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"All (103)", "clip-search/.this_month.2021-06-04.front_door.person.all/1622764800/1622851200/front_door/person/"},
	})
}

func TestBrowseClipSearchAll(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	node, err := source.Browse(context.Background(), "clip-search/.all/////")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if stub.lastQuery.Limit != 10000 {
		t.Errorf("all browse should raise the event limit, got %d", stub.lastQuery.Limit)
	}
	if node.Title != "All (321)" {
		t.Errorf("title: %q", node.Title)
	}
	if got := videoCount(node); got != 103 {
		t.Fatalf("expected 103 event items, got %d", got)
	}
	if len(node.Children) != 108 {
		t.Fatalf("expected 108 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"This Month (210)", "clip-search/.all.this_month/1622505600////"},
		{"This Year", "clip-search/.all.this_year/1609459200////"},
		{"Front Door (321)", "clip-search/.all.front_door///front_door//"},
		{"Person (321)", "clip-search/.all.person////person/"},
		{"Steps (52)", "clip-search/.all.steps/////steps"},
	})
}

func TestBrowseClipSearchMonthBuckets(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	// A window wider than a month steps in 31-day strides from its start,
	// so the second bucket opens mid-March. Month buckets keep zero counts.
	node, err := source.Browse(context.Background(), "clip-search/.Title/1612137600/1617148800///")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "Title (0)" {
		t.Errorf("title: %q", node.Title)
	}
	if len(node.Children) != 52 {
		t.Fatalf("expected 52 children, got %d", len(node.Children))
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"February (0)", "clip-search/.Title.2021-02/1612137600/1614556800///"},
		{"March (0)", "clip-search/.Title.2021-03/1614816000/1617494400///"},
	})
}

func TestBrowseClipSearchRootHidesDrownedEventPage(t *testing.T) {
	stub := &stubAPI{
		summaryRows: []frigate.EventSummaryRow{
			{Camera: "front_door", Label: "person", Zones: []string{}, Day: "2021-06-04", Count: 1000},
		},
		events: stubEvents(103),
	}
	source := newTestSource(t, stub)

	node, err := source.Browse(context.Background(), "clip-search//////")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if node.Title != "Clips (1000)" {
		t.Errorf("title: %q", node.Title)
	}
	if got := videoCount(node); got != 0 {
		t.Fatalf("a page covering 5%% of matches should be hidden, got %d items", got)
	}
	assertDirectoryChildren(t, node, []wantNode{
		{"Today (1000)", "clip-search/.today/1622764800////"},
		{"Front Door (1000)", "clip-search/.front_door///front_door//"},
		{"Person (1000)", "clip-search/.person////person/"},
	})
}

func TestBrowseClipSearchQueryCarriesFilters(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), events: stubEvents(103)}
	source := newTestSource(t, stub)

	_, err := source.Browse(context.Background(), "clip-search/.today.front_door/1622764800//front_door//")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	query := stub.lastQuery
	if query.After == nil || *query.After != 1622764800 {
		t.Errorf("query after: %v", query.After)
	}
	if query.Before != nil {
		t.Errorf("query before should be unset, got %v", *query.Before)
	}
	if query.Camera != "front_door" || query.Label != "" || query.Zone != "" {
		t.Errorf("query filters: %+v", query)
	}
	if query.Limit != 50 {
		t.Errorf("query limit: %d", query.Limit)
	}
}

func TestBrowseClipSearchSummaryFailure(t *testing.T) {
	stub := &stubAPI{summaryErr: errors.New("connection refused")}
	source := newTestSource(t, stub)

	_, err := source.Browse(context.Background(), "clip-search//////")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if got := services.HTTPStatus(err); got != 502 {
		t.Errorf("http status: %d", got)
	}
}

func TestBrowseClipSearchMalformedSummaryDay(t *testing.T) {
	stub := &stubAPI{
		summaryRows: []frigate.EventSummaryRow{
			{Camera: "front_door", Label: "person", Day: "junk", Count: 1},
		},
	}
	source := newTestSource(t, stub)

	_, err := source.Browse(context.Background(), "clip-search//////")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if !strings.Contains(err.Error(), "aggregate event summary") {
		t.Errorf("unexpected error detail: %v", err)
	}
}

func TestBrowseClipSearchEventsFailure(t *testing.T) {
	stub := &stubAPI{summaryRows: stubSummaryRows(), eventsErr: errors.New("boom")}
	source := newTestSource(t, stub)

	_, err := source.Browse(context.Background(), "clip-search//////")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
