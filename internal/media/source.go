package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spyglass/internal/frigate"
	"spyglass/internal/logging"
	"spyglass/internal/services"
)

// API is the slice of the Frigate client the media source consumes.
type API interface {
	GetEventSummary(ctx context.Context) ([]frigate.EventSummaryRow, error)
	GetEvents(ctx context.Context, query frigate.EventsQuery) ([]frigate.Event, error)
	GetRecordingsFolder(ctx context.Context, path string) ([]frigate.FolderEntry, error)
}

var _ API = (*frigate.Client)(nil)

// Limits bound how much of the event history a single browse shows.
type Limits struct {
	// ItemLimit caps the events fetched for a regular search node.
	ItemLimit int
	// AllLimit caps the events fetched for a node ending in "all".
	AllLimit int
	// VisibilityFloor is the minimum fraction of matching events a
	// truncated root page must cover to be shown at all.
	VisibilityFloor float64
	// DrilldownThreshold is the event count above which drilldowns are
	// offered alongside the events.
	DrilldownThreshold int
}

// DefaultLimits returns the standard browse limits.
func DefaultLimits() Limits {
	return Limits{
		ItemLimit:          50,
		AllLimit:           10000,
		VisibilityFloor:    0.1,
		DrilldownThreshold: 10,
	}
}

func (l Limits) withDefaults() Limits {
	defaults := DefaultLimits()
	if l.ItemLimit <= 0 {
		l.ItemLimit = defaults.ItemLimit
	}
	if l.AllLimit <= 0 {
		l.AllLimit = defaults.AllLimit
	}
	if l.VisibilityFloor <= 0 {
		l.VisibilityFloor = defaults.VisibilityFloor
	}
	if l.DrilldownThreshold <= 0 {
		l.DrilldownThreshold = defaults.DrilldownThreshold
	}
	return l
}

// Source walks a Frigate server's clips and recordings as a browsable tree.
type Source struct {
	client API
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
	limits Limits
}

// SourceOption customizes a Source.
type SourceOption func(*Source)

// WithLogger sets the logger used for skipped-entry warnings.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocation sets the location used for day boundaries and titles.
func WithLocation(loc *time.Location) SourceOption {
	return func(s *Source) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source the date drilldowns anchor on.
func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLimits sets the browse limits; zero fields fall back to defaults.
func WithLimits(limits Limits) SourceOption {
	return func(s *Source) {
		s.limits = limits.withDefaults()
	}
}

// NewSource builds a media source over the given Frigate client.
func NewSource(client API, opts ...SourceOption) (*Source, error) {
	if client == nil {
		return nil, errors.New("frigate client required")
	}
	source := &Source{
		client: client,
		logger: logging.NewNop(),
		loc:    time.Local,
		now:    time.Now,
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(source)
	}
	source.logger = logging.NewComponentLogger(source.logger, "media-source")
	return source, nil
}

// Browse returns the node addressed by identifier together with its
// children. The empty identifier addresses the root.
func (s *Source) Browse(ctx context.Context, identifier string) (*BrowseNode, error) {
	if identifier == "" {
		return s.rootNode(), nil
	}
	ctx = services.WithIdentifier(ctx, identifier)
	logging.WithContext(ctx, s.logger).Debug("browsing media")
	ident, ok := ParseIdentifier(identifier)
	if !ok {
		return nil, services.Wrap(services.ErrInvalidIdentifier, "media-source", "browse",
			fmt.Sprintf("invalid media source identifier %q", identifier), nil)
	}
	switch typed := ident.(type) {
	case ClipSearchIdentifier:
		return s.browseClipSearch(ctx, typed)
	case RecordingIdentifier:
		if typed.Camera != "" {
			return s.browseRecordings(ctx, typed)
		}
		return s.browseRecordingFolders(ctx, typed)
	default:
		return nil, services.Wrap(services.ErrInvalidIdentifier, "media-source", "browse",
			fmt.Sprintf("identifier %q is not browsable", identifier), nil)
	}
}

// Resolve maps an identifier to its playback location behind the media
// proxy.
func (s *Source) Resolve(identifier string) (*PlayMedia, error) {
	if identifier == "" {
		return nil, services.Wrap(services.ErrUnresolvable, "media-source", "resolve",
			"empty media source identifier", nil)
	}
	return &PlayMedia{
		URL:      "/api/frigate/" + identifier,
		MIMEType: "video/mp4",
	}, nil
}

func (s *Source) rootNode() *BrowseNode {
	return &BrowseNode{
		Title:      "Frigate",
		MediaClass: ClassDirectory,
		CanExpand:  true,
		Children: []*BrowseNode{
			{
				Identifier: ClipSearchIdentifier{}.String(),
				Title:      "Clips",
				MediaClass: ClassDirectory,
				CanExpand:  true,
			},
			{
				Identifier: RecordingIdentifier{}.String(),
				Title:      "Recordings",
				MediaClass: ClassDirectory,
				CanExpand:  true,
			},
		},
	}
}
